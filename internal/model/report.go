package model

import "time"

// EntryKind tells a screened candidate apart from an existing holding.
type EntryKind string

const (
	EntryNew     EntryKind = "NEW"
	EntryHolding EntryKind = "HOLDING"
	EntryWatched EntryKind = "SCREENED"
)

// Sizing is the hypothetical daily purchase derived from seed, rate and price.
type Sizing struct {
	DailyBudget float64 // in the quote currency of the ticker (USD)
	LastClose   float64
	Quantity    int
}

// Reading is an RSI value computed for one ticker.
type Reading struct {
	Ticker    string
	RSI       float64
	PrevRSI   float64 // RSI one bar earlier, NaN when undefined
	LastClose float64
	Bars      int
}

// Entry is one block of the daily report.
type Entry struct {
	Kind       EntryKind
	Ticker     string
	RSI        float64
	PrevRSI    float64
	LastClose  float64
	Quantity   int
	LimitPrice float64 // holdings only
}

// SkippedTicker records a ticker dropped from the report and why.
type SkippedTicker struct {
	Kind   EntryKind
	Ticker string
	Reason string
}

// Report is the per-run result handed to the formatter and recorder.
type Report struct {
	RunID        string
	Date         time.Time
	Seed         float64 // in units of 10,000 local currency
	Currency     string
	Rate         float64
	RateFallback bool
	Threshold    float64
	LOCMarkup    float64
	DailyBudget  float64
	Candidates   []Entry
	Holdings     []Entry
	Watched      []Entry // candidates evaluated but above the threshold
	Skipped      []SkippedTicker
}
