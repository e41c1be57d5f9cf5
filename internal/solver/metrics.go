package solver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordle",
		Subsystem: "solver",
		Name:      "cache_lookups_total",
		Help:      "Entropy table lookups by language and result (hit, miss, stale)",
	}, []string{"language", "result"})

	cacheWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordle",
		Subsystem: "solver",
		Name:      "cache_write_failures_total",
		Help:      "Entropy tables computed but not persisted",
	}, []string{"language"})

	computeSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wordle",
		Subsystem: "solver",
		Name:      "compute_seconds",
		Help:      "Time spent computing an entropy table",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
	}, []string{"language"})

	candidateCount = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wordle",
		Subsystem: "solver",
		Name:      "candidates",
		Help:      "Candidate set size when a guess is suggested",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000, 5000},
	}, []string{"language"})
)
