package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "songs", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "songs", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	SongOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "songs", Name: "operations_total", Help: "Song operations by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "songs", Name: "http_request_duration_seconds", Help: "HTTP request latency by route, method and status.", Buckets: prometheus.DefBuckets},
		[]string{"route", "method", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(SongOperations)
	reg.MustRegister(HTTPRequestDuration)
}
