package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, path, and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgebase_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridgebase_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// BenchmarkTotal counts benchmark runs by outcome ("ok", "translate_error",
	// "document_error", "relational_error").
	BenchmarkTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgebase_benchmark_runs_total",
			Help: "Total number of benchmark runs",
		},
		[]string{"outcome"},
	)
	// BackendDuration is the per-backend query latency reported by the
	// benchmark executors.
	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridgebase_backend_query_duration_seconds",
			Help:    "Backend query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)
	// DroppedConditions counts WHERE fragments the translator absorbed.
	DroppedConditions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bridgebase_translate_dropped_conditions_total",
			Help: "Total number of WHERE fragments dropped during translation",
		},
	)
)
