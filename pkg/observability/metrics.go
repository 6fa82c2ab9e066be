// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the planner backend.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets for CRUD request latencies,
// ranging from 1ms to 5s.
var APIBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method"},
	)

	// AuthFailuresTotal counts authentication gate rejections by kind
	// (token_missing, token_malformed, token_expired, unknown_user).
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_auth_failures_total",
			Help: "Authentication failures",
		},
		[]string{"kind"},
	)

	// AuthzDenialsTotal counts ownership resolution denials by kind
	// (not_found, forbidden).
	AuthzDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_authz_denials_total",
			Help: "Ownership check denials",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthFailuresTotal,
		AuthzDenialsTotal,
	)
}
