package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

// DefaultLookback is the Yahoo-style range requested for daily bars.
const DefaultLookback = "3mo"

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	// FetchDaily returns the daily bars for ticker over a lookback window such
	// as "1mo", "3mo" or "1y". It fails with model.ErrDataUnavailable when the
	// ticker is unknown or the source returned nothing.
	FetchDaily(ctx context.Context, ticker, lookback string) (*model.PriceSeries, error)
	Name() string
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
