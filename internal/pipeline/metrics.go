package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mdpa",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each document pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"stage"},
	)

	documentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mdpa",
			Subsystem: "pipeline",
			Name:      "documents_total",
			Help:      "Documents processed by the pipeline, by outcome.",
		},
		[]string{"outcome"},
	)
)

func observeRun(run *stopwatch, degraded bool) {
	for _, stage := range run.stages {
		stageDuration.WithLabelValues(stage.Stage).Observe(stage.DurationMS / 1000)
	}

	outcome := "processed"
	if degraded {
		outcome = "degraded"
	}
	documentsProcessed.WithLabelValues(outcome).Inc()
}
