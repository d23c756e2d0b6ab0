package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestWilderRSI_FlatSeriesIsNaN(t *testing.T) {
	rsi, err := WilderRSI(ramp(10, 0, 30), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(rsi) {
		t.Errorf("expected NaN for flat series, got %v", rsi)
	}
}

func TestWilderRSI_Increasing(t *testing.T) {
	rsi, err := WilderRSI(ramp(10, 0.5, 40), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("expected 100 for strictly increasing series, got %v", rsi)
	}
}

func TestWilderRSI_Decreasing(t *testing.T) {
	rsi, err := WilderRSI(ramp(50, -0.5, 40), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 0 {
		t.Errorf("expected 0 for strictly decreasing series, got %v", rsi)
	}
}

func TestWilderRSI_SeededFromFirstChange(t *testing.T) {
	// gains: 1, 0 -> 1, 13/14; losses: 0, 1 -> 0, 1/14; RS = 13
	rsi, err := WilderRSI([]float64{1, 2, 1}, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 100 - 100.0/14
	if math.Abs(rsi-want) > 1e-9 {
		t.Errorf("expected %.6f, got %.6f", want, rsi)
	}
}

func TestWilderRSI_StaysInRange(t *testing.T) {
	closes := []float64{44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41,
		46.22, 45.64, 46.21, 46.25, 45.71, 46.45}
	series, err := RSISeries(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(series[0]) {
		t.Errorf("expected NaN at index 0, got %v", series[0])
	}
	for i := 1; i < len(series); i++ {
		if series[i] < 0 || series[i] > 100 {
			t.Errorf("index %d: rsi %v out of [0,100]", i, series[i])
		}
	}
	last, _ := WilderRSI(closes, 14)
	if last != series[len(series)-1] {
		t.Errorf("WilderRSI %v != last of RSISeries %v", last, series[len(series)-1])
	}
}

func TestWilderRSI_Errors(t *testing.T) {
	tests := []struct {
		name    string
		closes  []float64
		period  int
		missing bool
	}{
		{"empty", nil, 14, true},
		{"single", []float64{10}, 14, true},
		{"zero period", []float64{1, 2, 3}, 0, false},
		{"negative period", []float64{1, 2, 3}, -3, false},
	}
	for _, tt := range tests {
		_, err := WilderRSI(tt.closes, tt.period)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if got := errors.Is(err, model.ErrMissingData); got != tt.missing {
			t.Errorf("%s: errors.Is(ErrMissingData) = %v, want %v", tt.name, got, tt.missing)
		}
	}
}

func TestWilderRSI_TwoPoints(t *testing.T) {
	rsi, err := WilderRSI([]float64{10, 9}, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 0 {
		t.Errorf("expected 0, got %v", rsi)
	}
}
