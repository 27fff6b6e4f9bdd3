package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namelens/gitrest/internal/metrics"
	"github.com/namelens/gitrest/pkg/github"
)

func setupMetrics(t *testing.T) *prometheus.Registry {
	t.Helper()
	registry := prometheus.NewRegistry()
	metrics.Init(registry)
	t.Cleanup(metrics.Reset)
	return registry
}

func countSeries(t *testing.T, registry *prometheus.Registry, name string) int {
	t.Helper()
	count, err := testutil.GatherAndCount(registry, name)
	require.NoError(t, err)
	return count
}

func TestRequestMetrics_BasicFunctionality(t *testing.T) {
	registry := setupMetrics(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("test response"))
	})

	req := httptest.NewRequest("GET", "/version", nil)
	rec := httptest.NewRecorder()
	RequestMetrics(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test response", rec.Body.String())
	assert.Equal(t, 1, countSeries(t, registry, "gitrest_http_requests_total"))
	assert.Equal(t, 1, countSeries(t, registry, "gitrest_http_request_duration_seconds"))
	assert.Equal(t, 0, countSeries(t, registry, "gitrest_http_errors_total"))
}

func TestRequestMetrics_WithMetricsDisabled(t *testing.T) {
	metrics.Reset()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()
	RequestMetrics(handler).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestMetrics_WithErrorStatus(t *testing.T) {
	registry := setupMetrics(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()
	RequestMetrics(handler).ServeHTTP(rec, req)

	assert.Equal(t, 1, countSeries(t, registry, "gitrest_http_errors_total"),
		"expected http errors metric for non-2xx response")
}

func TestRequestMetrics_RecordsSizes(t *testing.T) {
	registry := setupMetrics(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("test response with some content"))
	})

	req := httptest.NewRequest("POST", "/test", nil)
	req.Header.Set("Content-Length", "1024")
	rec := httptest.NewRecorder()
	RequestMetrics(handler).ServeHTTP(rec, req)

	assert.Equal(t, 1, countSeries(t, registry, "gitrest_http_request_size_bytes"))
	assert.Equal(t, 1, countSeries(t, registry, "gitrest_http_response_size_bytes"))
}

func TestRequestMetrics_UsesChiRoutePattern(t *testing.T) {
	registry := setupMetrics(t)

	r := chi.NewRouter()
	r.Use(RequestMetrics)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/items/"+id, nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	// One series for all three ids.
	assert.Equal(t, 1, countSeries(t, registry, "gitrest_http_requests_total"))
}

func TestGetEndpointPattern_StandardPaths(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/health", "/health/*"},
		{"/health/live", "/health/*"},
		{"/health/ready", "/health/*"},
		{"/health/startup", "/health/*"},
		{"/version", "/version"},
		{"/metrics", "/metrics"},
		{"/v1/ratelimit", "/v1/ratelimit"},
		{"/api/users/123", "/unknown"},
		{"/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			assert.Equal(t, tt.expected, getEndpointPattern(req))
		})
	}
}

func TestRequestMetrics_WithRequestID(t *testing.T) {
	registry := setupMetrics(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-request-id", GetRequestID(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-request-id")
	rec := httptest.NewRecorder()
	RequestID(RequestMetrics(handler)).ServeHTTP(rec, req)

	assert.Equal(t, "test-request-id", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, countSeries(t, registry, "gitrest_http_requests_total"))
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})

	rec := httptest.NewRecorder()
	RequestID(handler).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRecovery_WritesEnvelopeAndCountsPanic(t *testing.T) {
	registry := setupMetrics(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	RequestID(Recovery(handler)).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))
	assert.Equal(t, 1, countSeries(t, registry, "gitrest_panics_total"))
}

func TestRequestMetrics_DurationMeasurement(t *testing.T) {
	setupMetrics(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	start := time.Now()
	RequestMetrics(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestRequestID_ReplacesMalformedInboundID(t *testing.T) {
	for _, inbound := range []string{"has space", "tab\tinside", strings.Repeat("a", 200)} {
		var seen string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		})

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, inbound)
		rec := httptest.NewRecorder()
		RequestID(handler).ServeHTTP(rec, req)

		assert.NotEqual(t, inbound, seen)
		assert.Len(t, seen, 36, "expected a generated UUID for %q", inbound)
	}
}

func TestUpstreamRateLimit_SetsHeaders(t *testing.T) {
	limits := github.RateLimits{Remaining: 12, Total: 5000, ResetTime: time.Unix(1700000000, 0).UTC()}
	handler := UpstreamRateLimit(func() github.RateLimits { return limits })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "12", rec.Header().Get(UpstreamRemainingHeader))
	assert.Equal(t, "5000", rec.Header().Get(UpstreamLimitHeader))
	assert.Equal(t, "1700000000", rec.Header().Get(UpstreamResetHeader))
}

func TestRecovery_RepanicsOnAbort(t *testing.T) {
	setupMetrics(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		Recovery(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	})
}
