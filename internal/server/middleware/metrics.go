package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/namelens/gitrest/internal/metrics"
	"github.com/namelens/gitrest/internal/observability"
)

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int64
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// knownEndpoints label requests that did not match a chi route.
var knownEndpoints = map[string]string{
	"/":               "/",
	"/health":         "/health/*",
	"/health/live":    "/health/*",
	"/health/ready":   "/health/*",
	"/health/startup": "/health/*",
	"/version":        "/version",
	"/metrics":        "/metrics",
	"/v1/ratelimit":   "/v1/ratelimit",
	"/v1/latency":     "/v1/latency",
}

// getEndpointPattern returns the chi route pattern, keeping the endpoint
// label bounded.
func getEndpointPattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	if endpoint, ok := knownEndpoints[strings.TrimSuffix(r.URL.Path, "/")]; ok {
		return endpoint
	}
	if r.URL.Path == "/" {
		return "/"
	}
	return "/unknown"
}

// RequestMetrics records Prometheus request metrics and logs each completed
// request along with the upstream budget reported by UpstreamRateLimit.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		endpoint := getEndpointPattern(r)
		requestSize := r.ContentLength
		if requestSize < 0 {
			requestSize = 0
		}
		metrics.RecordHTTPRequest(r.Method, endpoint, rec.status, duration, requestSize, rec.size)

		logger := observability.ServerLogger
		if logger == nil {
			return
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("endpoint", endpoint),
			zap.Int("status", rec.status),
			zap.Duration("duration", duration),
			zap.Int64("response_size", rec.size),
			zap.String("requestID", GetRequestID(r.Context())),
		}
		if remaining := w.Header().Get(UpstreamRemainingHeader); remaining != "" {
			fields = append(fields, zap.String("upstream_remaining", remaining))
		}
		logger.Info("HTTP request completed", fields...)
	})
}
