package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

// DefaultRSIPeriod is the lookback used when none is configured.
const DefaultRSIPeriod = 14

// WilderRSI returns the Wilder-smoothed RSI at the last close.
//
// The gain and loss averages are exponential with alpha = 1/period and are
// seeded from the first price change rather than from a simple average of the
// first period changes. When there were no losses the RSI is 100; a flat series
// (no gains and no losses) yields NaN without an error.
func WilderRSI(closes []float64, period int) (float64, error) {
	series, err := RSISeries(closes, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// RSISeries returns the RSI at every index of closes. Index 0 is always NaN.
func RSISeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(closes) < 2 {
		return nil, fmt.Errorf("rsi needs at least 2 closes, got %d: %w", len(closes), model.ErrMissingData)
	}

	alpha := 1.0 / float64(period)
	out := make([]float64, len(closes))
	out[0] = math.NaN()

	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		if i == 1 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain = (1-alpha)*avgGain + alpha*gain
			avgLoss = (1-alpha)*avgLoss + alpha*loss
		}
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return math.NaN()
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
