package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records pipeline activity in Prometheus. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	runsTotal      *prometheus.CounterVec
	tickerFailures *prometheus.CounterVec
	rateFallback   prometheus.Counter
	deliveries     *prometheus.CounterVec
	lastRSI        *prometheus.GaugeVec
	runDuration    prometheus.Histogram
}

// New creates the metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		runsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mason_runs_total",
			Help: "Pipeline runs by result",
		}, []string{"result"}),
		tickerFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mason_ticker_failures_total",
			Help: "Tickers skipped because data could not be fetched or evaluated",
		}, []string{"section"}),
		rateFallback: f.NewCounter(prometheus.CounterOpts{
			Name: "mason_rate_fallback_total",
			Help: "Runs that used the fallback exchange rate",
		}),
		deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mason_deliveries_total",
			Help: "Report deliveries by result",
		}, []string{"result"}),
		lastRSI: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mason_last_rsi",
			Help: "Most recent RSI per ticker",
		}, []string{"ticker"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mason_run_duration_seconds",
			Help:    "Duration of pipeline runs",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordRun(result string, seconds float64) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(result).Inc()
	m.runDuration.Observe(seconds)
}

func (m *Metrics) RecordTickerFailure(section string) {
	if m == nil {
		return
	}
	m.tickerFailures.WithLabelValues(section).Inc()
}

func (m *Metrics) RecordRateFallback() {
	if m == nil {
		return
	}
	m.rateFallback.Inc()
}

func (m *Metrics) RecordDelivery(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.deliveries.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordRSI(ticker string, rsi float64) {
	if m == nil {
		return
	}
	m.lastRSI.WithLabelValues(ticker).Set(rsi)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
