package notifier

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

func baseReport() *model.Report {
	return &model.Report{
		Date:      time.Date(2026, 10, 16, 22, 30, 0, 0, time.UTC),
		Seed:      5500,
		Currency:  "KRW",
		Rate:      1450,
		Threshold: 40,
		LOCMarkup: 0.10,
	}
}

func TestFormatDailyReport_NoCandidates(t *testing.T) {
	out := FormatDailyReport(baseReport())
	for _, want := range []string{
		"2026-10-16 (Fri)",
		"[Mason Daily Report]",
		"SEED: 5,500 x10k KRW / RATE: 1,450.0 KRW",
		"No new candidates (RSI > 40).",
		"END OF REPORT.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[NEW]") || strings.Contains(out, "fallback") {
		t.Errorf("unexpected content:\n%s", out)
	}
}

func TestFormatDailyReport_Blocks(t *testing.T) {
	r := baseReport()
	r.RateFallback = true
	r.Candidates = []model.Entry{{Kind: model.EntryNew, Ticker: "SOXL", RSI: 35.26, PrevRSI: 38.1, LastClose: 10, Quantity: 64}}
	r.Holdings = []model.Entry{
		{Kind: model.EntryHolding, Ticker: "TSLL", RSI: 61.04, PrevRSI: 58.7, LastClose: 10, Quantity: 64, LimitPrice: 11},
		{Kind: model.EntryHolding, Ticker: "LABU", RSI: math.NaN(), PrevRSI: math.NaN(), LastClose: 100, Quantity: 7, LimitPrice: 110},
	}
	out := FormatDailyReport(r)

	for _, want := range []string{
		"RATE: 1,450.0 (fallback) KRW",
		"🚀 [NEW] SOXL\nRSI: 35.3 ▼ / PRICE: $10.00\nQTY: 64\n",
		"📦 [HOLDING] TSLL\nRSI: 61.0 ▲ / QTY: 64\nLOC(10%): $11.00\n",
		"📦 [HOLDING] LABU\nRSI: n/a / QTY: 7\nLOC(10%): $110.00\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "No new candidates") {
		t.Error("fallback line must not appear when candidates exist")
	}
	if strings.Index(out, "[NEW]") > strings.Index(out, "[HOLDING]") {
		t.Error("candidates must precede holdings")
	}
	if !strings.HasSuffix(out, "------------------\nEND OF REPORT.") {
		t.Errorf("unexpected ending:\n%s", out)
	}
}

func TestTrendMarker(t *testing.T) {
	tests := []struct {
		rsi, prev float64
		want      string
	}{
		{35, 38, " ▼"},
		{61, 58, " ▲"},
		{40, 40, ""},
		{math.NaN(), 38, ""},
		{100, math.NaN(), ""},
	}
	for _, tt := range tests {
		if got := trendMarker(tt.rsi, tt.prev); got != tt.want {
			t.Errorf("trendMarker(%v, %v): expected %q, got %q", tt.rsi, tt.prev, tt.want, got)
		}
	}
}

func TestFormatStatus(t *testing.T) {
	out := FormatStatus(model.Settings{Seed: "5500"})
	if !strings.Contains(out, "HOLDINGS: (none)") || !strings.Contains(out, "LAST RUN: never") {
		t.Errorf("unexpected status:\n%s", out)
	}
}
