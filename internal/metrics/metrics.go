// Package metrics provides Prometheus metrics for the prescription
// pipeline. All metrics are registered with the default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query outcome label values.
const (
	OutcomeGenerated = "generated"
	OutcomeFallback  = "fallback"
	OutcomeEmpty     = "empty"
	OutcomeNoMatch   = "no_match"
)

var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_queries_total",
			Help: "Total prescription queries by outcome",
		},
		[]string{"outcome"},
	)

	GenerationFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prescription_generation_fallbacks_total",
			Help: "Generation failures absorbed by the fallback formatter",
		},
	)

	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prescription_query_duration_seconds",
			Help:    "End-to-end prescription query latency",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(GenerationFallbacks)
	prometheus.MustRegister(QueryDuration)
}
