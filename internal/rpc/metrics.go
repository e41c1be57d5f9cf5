package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordle",
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Solver RPCs by method and status code",
	}, []string{"method", "code"})

	requestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wordle",
		Subsystem: "rpc",
		Name:      "request_seconds",
		Help:      "Solver RPC latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)
