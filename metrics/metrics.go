// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "insightengine"

const (
	OutcomeSuccess        = "success"
	OutcomeRequestFailure = "request_failure"
	OutcomeParseFailure   = "parse_failure"
	// OutcomeCancelled is a generation abandoned because a newer request
	// cycle superseded it, or the server shut down.
	OutcomeCancelled = "cancelled"
)

var (
	GenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "total",
			Help:      "Total number of summary generations by outcome.",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Summary generation duration in seconds.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	// CyclesDiscarded counts request cycles whose result arrived after a newer
	// cycle had started.
	CyclesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cycle",
			Name:      "discarded_total",
			Help:      "Total number of superseded request cycles whose results were dropped.",
		},
	)

	Sessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "sessions",
			Help:      "Number of live dashboard sessions.",
		},
	)
)

func ObserveGeneration(outcome string, d time.Duration) {
	GenerationTotal.WithLabelValues(outcome).Inc()
	GenerationDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
