package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

// MockFetcher serves fixed closes per ticker for tests and dry runs.
type MockFetcher struct {
	Closes map[string][]float64
	Errors map[string]error
	Calls  []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, ticker, _ string) (*model.PriceSeries, error) {
	m.Calls = append(m.Calls, ticker)
	if err, ok := m.Errors[ticker]; ok {
		return nil, err
	}
	closes, ok := m.Closes[ticker]
	if !ok || len(closes) == 0 {
		return nil, fmt.Errorf("mock %s: %w", ticker, model.ErrDataUnavailable)
	}
	return SeriesFromCloses(ticker, closes, time.Now()), nil
}

// SeriesFromCloses builds a daily series ending at end from closing prices.
func SeriesFromCloses(ticker string, closes []float64, end time.Time) *model.PriceSeries {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(len(closes) - 1 - i)),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000000,
		}
	}
	return &model.PriceSeries{Ticker: ticker, Bars: bars, FetchedAt: end}
}
