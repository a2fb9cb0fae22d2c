package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	AnalyticsLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agropulse",
			Subsystem: "analytics",
			Name:      "latency_seconds",
			Help:      "Latency of analytics endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	AnalyticsErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agropulse",
			Subsystem: "analytics",
			Name:      "errors_total",
			Help:      "Errors by analytics endpoint and error code",
		},
		[]string{"endpoint", "code"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agropulse",
			Subsystem: "analytics",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result",
		},
		[]string{"endpoint", "result"},
	)

	AnomaliesRaised = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agropulse",
			Subsystem: "anomaly",
			Name:      "alerts_total",
			Help:      "Alerts raised by the scheduled scan",
		},
		[]string{"commodity", "type", "severity"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(AnalyticsLatency, AnalyticsErrors, CacheLookups, AnomaliesRaised)
	})
}
