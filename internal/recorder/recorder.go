package recorder

import "time"

// RunRecord summarizes one pipeline run.
type RunRecord struct {
	RunID        string
	StartedAt    time.Time
	Seed         float64
	Rate         float64
	RateFallback bool
	Candidates   int
	Holdings     int
	Skipped      int
	Delivered    bool
	Auto         bool
}

// ReadingRecord is one evaluated ticker within a run.
type ReadingRecord struct {
	RunID      string
	Ticker     string
	Kind       string // "NEW", "HOLDING" or "SCREENED"
	RSI        float64
	LastClose  float64
	Quantity   int
	LimitPrice float64
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordReading(rec *ReadingRecord) error
	Close() error
}
