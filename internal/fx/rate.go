package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

const (
	DefaultURL      = "https://open.er-api.com/v6/latest/USD"
	DefaultCurrency = "KRW"
	// DefaultFallback is substituted whenever the live rate cannot be read.
	DefaultFallback = 1450.0
)

// Quote is the outcome of a rate lookup. Rate is always usable; Fallback tells
// whether it is the live value or the configured substitute, and Err carries
// the reason for the substitution.
type Quote struct {
	Rate     float64
	Fallback bool
	Err      error
}

// RateSource is what the pipeline needs from a rate provider.
type RateSource interface {
	Quote(ctx context.Context) Quote
}

// Provider reads the USD -> local currency rate from an open.er-api style endpoint.
type Provider struct {
	URL      string
	Currency string
	Fallback float64
	Client   *http.Client
}

// NewProvider creates a rate provider with the given request timeout.
func NewProvider(url, currency string, fallback float64, timeout time.Duration) *Provider {
	if url == "" {
		url = DefaultURL
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if fallback <= 0 {
		fallback = DefaultFallback
	}
	return &Provider{
		URL:      url,
		Currency: currency,
		Fallback: fallback,
		Client:   &http.Client{Timeout: timeout},
	}
}

// Quote never fails: any error yields the fallback rate.
func (p *Provider) Quote(ctx context.Context) Quote {
	rate, err := p.fetch(ctx)
	if err != nil {
		return Quote{Rate: p.Fallback, Fallback: true, Err: fmt.Errorf("%w: %v", model.ErrRateFetch, err)}
	}
	return Quote{Rate: rate}
}

type latestResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

func (p *Provider) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("status %d", resp.StatusCode)
	}
	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	rate, ok := body.Rates[p.Currency]
	if !ok {
		return 0, fmt.Errorf("currency %s missing from response", p.Currency)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive rate %v", rate)
	}
	return rate, nil
}

// Fixed is a RateSource that always returns the same live rate.
type Fixed float64

func (f Fixed) Quote(context.Context) Quote { return Quote{Rate: float64(f)} }
