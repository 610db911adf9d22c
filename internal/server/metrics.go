package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forgeci_runs_started_total",
		Help: "Pipeline runs that began executing.",
	})

	runsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forgeci_runs_completed_total",
		Help: "Pipeline runs that finished, by final status.",
	}, []string{"status"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forgeci_run_duration_seconds",
		Help:    "Wall-clock duration of pipeline runs, including clone.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
	})
)
