package strategy

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

func series(closes ...float64) *model.PriceSeries {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: time.Unix(int64(i)*86400, 0), Close: c}
	}
	return &model.PriceSeries{Ticker: "TNA", Bars: bars}
}

func TestIsCandidate_Boundary(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		rsi  float64
		want bool
	}{
		{0, true},
		{39.99, true},
		{40.0, true},
		{40.01, false},
		{100, false},
		{math.NaN(), false},
	}
	for _, tt := range tests {
		if got := r.IsCandidate(tt.rsi); got != tt.want {
			t.Errorf("rsi %v: expected %v, got %v", tt.rsi, tt.want, got)
		}
	}
}

func TestEvaluate(t *testing.T) {
	r := DefaultRules()
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50 - float64(i)
	}
	reading, err := r.Evaluate(series(closes...), r.MinBars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.RSI != 0 {
		t.Errorf("expected rsi 0 for falling series, got %v", reading.RSI)
	}
	if reading.LastClose != 26 || reading.Bars != 25 || reading.Ticker != "TNA" {
		t.Errorf("unexpected reading %+v", reading)
	}
}

func TestEvaluate_PrevRSI(t *testing.T) {
	r := DefaultRules()
	// falls, then bounces on the last bar
	reading, err := r.Evaluate(series(10, 9, 8, 7, 8), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.PrevRSI != 0 {
		t.Errorf("expected previous rsi 0 after three losses, got %v", reading.PrevRSI)
	}
	if !(reading.RSI > reading.PrevRSI) {
		t.Errorf("expected rsi to rise on the bounce: prev %v, last %v", reading.PrevRSI, reading.RSI)
	}

	// with two points there is no earlier value
	reading, err = r.Evaluate(series(1, 2), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(reading.PrevRSI) || reading.RSI != 100 {
		t.Errorf("expected NaN previous rsi and 100, got %+v", reading)
	}
}

func TestEvaluate_InsufficientHistory(t *testing.T) {
	r := DefaultRules()
	_, err := r.Evaluate(series(1, 2, 3), r.MinBars)
	if !errors.Is(err, model.ErrMissingData) {
		t.Errorf("expected ErrMissingData, got %v", err)
	}
	// holdings only need two points
	if _, err := r.Evaluate(series(1, 2, 3), 0); err != nil {
		t.Errorf("unexpected error with minBars 0: %v", err)
	}
	if _, err := r.Evaluate(nil, 0); !errors.Is(err, model.ErrMissingData) {
		t.Errorf("expected ErrMissingData for nil series, got %v", err)
	}
}
