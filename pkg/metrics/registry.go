// Package metrics holds the prometheus collectors of the dashboard gateway.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream provider metrics
var (
	// UpstreamCalls tracks calls to the training provider by endpoint and status code
	UpstreamCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_upstream_calls_total",
			Help: "Total upstream provider calls by endpoint, method and status code",
		},
		[]string{"method", "endpoint", "status"},
	)

	// UpstreamDuration tracks upstream latency
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "dashboard_upstream_duration_ms",
			Help:                            "Upstream provider call duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"method", "endpoint"},
	)

	// UpstreamErrors tracks failed upstream calls by error class
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_upstream_errors_total",
			Help: "Total upstream provider errors by endpoint and error type",
		},
		[]string{"endpoint", "error_type"},
	)
)

// Cache metrics
var (
	// CacheOperations tracks cache lookups by logical endpoint and outcome (hit, miss, error)
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_cache_operations_total",
			Help: "Total cache operations by endpoint, operation and outcome",
		},
		[]string{"endpoint", "operation", "outcome"},
	)
)

// Identity resolution metrics
var (
	// IdentityResolutions tracks identity pipeline runs by result
	IdentityResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_identity_resolutions_total",
			Help: "Total identity resolutions by result",
		},
		[]string{"result"},
	)

	// StaffBackfills tracks per-entity responsible staff backfill lookups
	StaffBackfills = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_staff_backfills_total",
			Help: "Total responsible-staff backfill lookups by outcome",
		},
		[]string{"outcome"},
	)
)

// Inbound HTTP metrics
var (
	// HTTPRequests tracks served requests by method and status class (2xx, 4xx, ...)
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total inbound HTTP requests by method and status class",
		},
		[]string{"method", "status_class"},
	)
)

// StatusClass buckets an HTTP status code as "1xx".."5xx".
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}
