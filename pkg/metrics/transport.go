package metrics

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"
)

// upstreamMetricsTransport wraps an http.RoundTripper to collect metrics on provider calls
type upstreamMetricsTransport struct {
	base http.RoundTripper
}

// NewUpstreamTransport creates a transport wrapper that records call counts, latency and
// errors for every outbound provider request. Install it on the upstream client's http.Client.
func NewUpstreamTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &upstreamMetricsTransport{base: base}
}

// RoundTrip implements http.RoundTripper
func (t *upstreamMetricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	endpoint := EndpointLabel(req.URL.Path)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}

	UpstreamCalls.WithLabelValues(req.Method, endpoint, strconv.Itoa(statusCode)).Inc()
	UpstreamDuration.WithLabelValues(req.Method, endpoint).Observe(float64(duration.Milliseconds()))

	if err != nil || statusCode >= 400 {
		UpstreamErrors.WithLabelValues(endpoint, ClassifyError(statusCode, err)).Inc()
	}

	return resp, err
}

// EndpointLabel reduces a provider URL path to a low-cardinality label,
// e.g. "/competences_et_metiers/api/laps.php" becomes "laps".
func EndpointLabel(urlPath string) string {
	base := path.Base(urlPath)
	if base == "." || base == "/" || base == "" {
		return "root"
	}
	return strings.TrimSuffix(base, ".php")
}

// ClassifyError categorizes upstream failures for metrics
func ClassifyError(statusCode int, err error) string {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "timeout"
		}
		if errors.Is(err, context.Canceled) {
			return "canceled"
		}
		errStr := err.Error()
		switch {
		case strings.Contains(errStr, "timeout"):
			return "timeout"
		case strings.Contains(errStr, "connection"):
			return "connection"
		case strings.Contains(errStr, "TLS"):
			return "tls"
		default:
			return "network"
		}
	}

	switch {
	case statusCode == 400:
		return "bad_request"
	case statusCode == 401:
		return "unauthorized"
	case statusCode == 403:
		return "forbidden"
	case statusCode == 404:
		return "not_found"
	case statusCode == 429:
		return "rate_limited"
	case statusCode >= 500:
		return "server_error"
	case statusCode >= 400:
		return "client_error"
	default:
		return "unknown"
	}
}
