package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain service.Metrics using Prometheus.
type Recorder struct {
	reportsTotal *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastClose    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder. Metrics register on the
// default registry, so construct at most one Recorder per process.
func New() *Recorder {
	return &Recorder{
		reportsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_reports_total",
				Help: "Total number of summary reports computed",
			},
			[]string{"source", "symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastClose: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketlens_last_close",
				Help: "Last close price seen per analyzed symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordReport records one computed summary report.
func (r *Recorder) RecordReport(source, symbol string) {
	r.reportsTotal.WithLabelValues(source, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastClose records the last close price for a symbol.
func (r *Recorder) RecordLastClose(symbol string, close float64) {
	r.lastClose.WithLabelValues(symbol).Set(close)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards all measurements. It stands in for the Prometheus recorder
// in the CLI and in tests.
type Nop struct{}

func (Nop) RecordReport(string, string)     {}
func (Nop) RecordError(string)              {}
func (Nop) RecordLastClose(string, float64) {}
func (Nop) RecordLatency(string, float64)   {}
