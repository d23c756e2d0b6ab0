package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordRun("ok", 1.2)
	m.RecordTickerFailure("candidates")
	m.RecordRateFallback()
	m.RecordDelivery(false)
	m.RecordRSI("SOXL", 35)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`mason_runs_total{result="ok"} 1`,
		`mason_ticker_failures_total{section="candidates"} 1`,
		`mason_rate_fallback_total 1`,
		`mason_deliveries_total{result="failed"} 1`,
		`mason_last_rsi{ticker="SOXL"} 35`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRun("ok", 1)
	m.RecordTickerFailure("holdings")
	m.RecordRateFallback()
	m.RecordDelivery(true)
	m.RecordRSI("TNA", 50)
}
