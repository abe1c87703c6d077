// Package metrics holds the Prometheus collectors shared by middleware and services.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vriksh_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vriksh_auth_attempts_total",
			Help: "Total auth attempts by event and outcome",
		},
		[]string{"event", "success"},
	)
	aiCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vriksh_ai_calls_total",
			Help: "Model gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// ObserveRequest records one HTTP request.
func ObserveRequest(method, route string, status int, seconds float64) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}

// RecordAuthAttempt records an auth event (signup, login, refresh, verify).
func RecordAuthAttempt(event string, success bool) {
	authAttempts.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

// RecordAICall records a model call. outcome is "ok", "rate_limited",
// "upstream_error" or "invalid_output".
func RecordAICall(operation, outcome string) {
	aiCalls.WithLabelValues(operation, outcome).Inc()
}
