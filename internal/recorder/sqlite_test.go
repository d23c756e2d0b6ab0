package recorder

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "data", "mason.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if err := r.RecordRun(&RunRecord{
		RunID: "run-1", StartedAt: time.Now(), Seed: 5500, Rate: 1450,
		Candidates: 1, Holdings: 2, Delivered: true, Auto: true,
	}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	readings := []ReadingRecord{
		{RunID: "run-1", Ticker: "SOXL", Kind: "NEW", RSI: 35, LastClose: 10, Quantity: 64},
		{RunID: "run-1", Ticker: "TSLL", Kind: "HOLDING", RSI: math.NaN(), LastClose: 10, Quantity: 64, LimitPrice: 11},
	}
	for i := range readings {
		if err := r.RecordReading(&readings[i]); err != nil {
			t.Fatalf("record reading %d: %v", i, err)
		}
	}

	n, err := r.CountReadings("run-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 readings, got %d", n)
	}

	var rsi *float64
	if err := r.db.QueryRow(`SELECT rsi FROM readings WHERE ticker = 'TSLL'`).Scan(&rsi); err != nil {
		t.Fatalf("query: %v", err)
	}
	if rsi != nil {
		t.Errorf("expected NULL rsi for NaN, got %v", *rsi)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordRun(&RunRecord{}); err != nil {
		t.Error(err)
	}
	if err := r.RecordReading(&ReadingRecord{}); err != nil {
		t.Error(err)
	}
	if err := r.Close(); err != nil {
		t.Error(err)
	}
}
