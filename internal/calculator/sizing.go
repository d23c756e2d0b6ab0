package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

// Capital allocation scheme: the seed is split across MaxHoldings positions,
// each bought in Divisions daily tranches.
const (
	MaxHoldings = 3
	Divisions   = 20
	// SeedUnit scales the user-facing seed (e.g. 5500 means 55,000,000).
	SeedUnit = 10000.0
	// LOCMarkup is the limit-on-close offset suggested for holdings.
	LOCMarkup = 0.10
)

// DailyBudget converts the seed into the per-ticker daily budget in the
// foreign currency. rate is local currency per unit of foreign currency.
func DailyBudget(seed, rate float64) (float64, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return 0, fmt.Errorf("rate must be positive, got %v", rate)
	}
	if seed < 0 || math.IsNaN(seed) {
		return 0, errors.New("seed must not be negative")
	}
	return seed * SeedUnit / MaxHoldings / Divisions / rate, nil
}

// ShareQuantity returns how many shares the budget buys, rounded up.
func ShareQuantity(budget, price float64) (int, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("price %v: %w", price, model.ErrInvalidPrice)
	}
	if budget <= 0 || math.IsNaN(budget) {
		return 0, nil
	}
	return int(math.Ceil(budget / price)), nil
}

// Size combines DailyBudget and ShareQuantity for one ticker.
func Size(seed, rate, lastClose float64) (model.Sizing, error) {
	budget, err := DailyBudget(seed, rate)
	if err != nil {
		return model.Sizing{}, err
	}
	qty, err := ShareQuantity(budget, lastClose)
	if err != nil {
		return model.Sizing{}, err
	}
	return model.Sizing{DailyBudget: budget, LastClose: lastClose, Quantity: qty}, nil
}

// LimitPrice returns lastClose * (1 + markup) computed in decimal so that
// 10.00 with a 10% markup is exactly 11.00.
func LimitPrice(lastClose, markup float64) float64 {
	p := decimal.NewFromFloat(lastClose).Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(markup)))
	return p.InexactFloat64()
}
