package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// comparisonsTotal counts comparisons by result
	comparisonsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waitstat_comparisons_total",
		Help: "Total two-group comparisons by result",
	}, []string{"result"})

	// skippedTotal counts computations skipped on degenerate input
	skippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waitstat_computations_skipped_total",
		Help: "Computations skipped on degenerate input, by computation",
	}, []string{"computation"})

	// comparisonDuration tracks end-to-end comparison latency
	comparisonDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "waitstat_comparison_duration_seconds",
		Help:    "Comparison duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	})
)
