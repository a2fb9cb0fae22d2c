package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	quotesIngested *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a recorder registered with reg, or the default registry when reg is nil.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		quotesIngested: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agropulse_quotes_ingested_total",
				Help: "Total number of price quotes stored",
			},
			[]string{"commodity", "source"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agropulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agropulse_last_price",
				Help: "Last ingested price for a commodity",
			},
			[]string{"commodity"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agropulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordQuoteIngested counts a stored quote.
func (r *Recorder) RecordQuoteIngested(commodity, source string) {
	r.quotesIngested.WithLabelValues(commodity, source).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a commodity.
func (r *Recorder) RecordLastPrice(commodity string, price float64) {
	r.lastPrice.WithLabelValues(commodity).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
