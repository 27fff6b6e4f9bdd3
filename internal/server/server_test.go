package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/namelens/gitrest/internal/errors"
	"github.com/namelens/gitrest/internal/server/handlers"
	"github.com/namelens/gitrest/pkg/github"
)

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := New(Options{Host: "127.0.0.1"})

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body apperrors.HTTPErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected error code NOT_FOUND, got %s", body.Error.Code)
	}
	if body.Error.RequestID == "" || body.Error.RequestID != rec.Header().Get("X-Request-ID") {
		t.Fatalf("expected request id to match header, got %q", body.Error.RequestID)
	}
}

func TestServerOmitsGitHubRoutesWithoutClient(t *testing.T) {
	srv := New(Options{Host: "127.0.0.1"})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ratelimit", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/signal", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func newUpstream(t *testing.T, remaining string) *httptest.Server {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set(github.HeaderRateLimitRemaining, remaining)
		w.Header().Set(github.HeaderRateLimitUsed, "3")
		w.Header().Set(github.HeaderRateLimitLimit, "5000")
		w.Header().Set(github.HeaderRateLimitReset, "4102444800")
		_, _ = w.Write([]byte(`{"resources":{"core":{"limit":5000}}}`))
	}))
	t.Cleanup(upstream.Close)
	return upstream
}

func TestServerExposesClientState(t *testing.T) {
	upstream := newUpstream(t, "4997")

	client, err := github.New(context.Background(), github.Config{BaseURL: upstream.URL})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	health := handlers.NewHealthManager("test")
	health.RegisterChecker("github", handlers.GitHubChecker{Client: client})

	srv := New(Options{Host: "127.0.0.1", Client: client, Health: health})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ratelimit?refresh=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.RateLimitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 4997, resp.Limits.Remaining)
	assert.Equal(t, 5000, resp.Limits.Total)
	assert.Equal(t, time.Unix(4102444800, 0).UTC(), resp.Limits.ResetTime.UTC())
	assert.NotNil(t, resp.Upstream)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/latency", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Equal(t, "4997", rec.Header().Get("X-Upstream-RateLimit-Remaining"))
	assert.Equal(t, "4102444800", rec.Header().Get("X-Upstream-RateLimit-Reset"))
}

func TestServerHealthDegradedWhileRateLimited(t *testing.T) {
	upstream := newUpstream(t, "1")

	client, err := github.New(context.Background(), github.Config{BaseURL: upstream.URL})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	// One request records the exhausted budget.
	_, err = client.GetZen(context.Background())
	require.NoError(t, err)
	require.True(t, client.IsRateLimited())

	health := handlers.NewHealthManager("test")
	health.RegisterChecker("github", handlers.GitHubChecker{Client: client})
	srv := New(Options{Host: "127.0.0.1", Client: client, Health: health})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}
