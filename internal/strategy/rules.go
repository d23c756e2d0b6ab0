package strategy

import (
	"fmt"
	"math"

	"github.com/masoncj86-ctrl/mason-trader/internal/calculator"
	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

// DefaultThreshold is the RSI at or below which a candidate is flagged.
const DefaultThreshold = 40.0

// Rules are the screening parameters applied to every ticker.
type Rules struct {
	Period    int
	Threshold float64
	LOCMarkup float64
	// MinBars is the history a candidate needs before its RSI is trusted.
	MinBars int
}

// DefaultRules returns RSI(14), threshold 40, 10% LOC markup, 20 bars.
func DefaultRules() Rules {
	return Rules{
		Period:    calculator.DefaultRSIPeriod,
		Threshold: DefaultThreshold,
		LOCMarkup: calculator.LOCMarkup,
		MinBars:   20,
	}
}

// IsCandidate reports whether rsi is at or below the threshold. An undefined
// RSI (flat series) never qualifies.
func (r Rules) IsCandidate(rsi float64) bool {
	return !math.IsNaN(rsi) && rsi <= r.Threshold
}

// Evaluate computes the RSI reading of a series that has at least minBars bars.
// PrevRSI is the value one bar earlier, used for the trend marker.
func (r Rules) Evaluate(series *model.PriceSeries, minBars int) (model.Reading, error) {
	if minBars < 2 {
		minBars = 2
	}
	if series.Len() < minBars {
		return model.Reading{}, fmt.Errorf("%d bars, need %d: %w", series.Len(), minBars, model.ErrMissingData)
	}
	rsi, err := calculator.RSISeries(series.Closes(), r.Period)
	if err != nil {
		return model.Reading{}, err
	}
	n := len(rsi)
	return model.Reading{
		Ticker:    series.Ticker,
		RSI:       rsi[n-1],
		PrevRSI:   rsi[n-2],
		LastClose: series.LastClose(),
		Bars:      series.Len(),
	}, nil
}
