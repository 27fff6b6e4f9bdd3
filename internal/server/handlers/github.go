package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/namelens/gitrest/internal/errors"
	"github.com/namelens/gitrest/pkg/github"
)

// GitHubClient is the part of *github.Client the handlers use.
type GitHubClient interface {
	BaseURL() string
	RateLimits() github.RateLimits
	IsRateLimited() bool
	GetRateLimit(ctx context.Context) (any, error)
	Latency(ctx context.Context) (time.Duration, error)
}

// RateLimitResponse is the body of GET /v1/ratelimit.
type RateLimitResponse struct {
	BaseURL     string            `json:"base_url"`
	Limits      github.RateLimits `json:"limits"`
	RateLimited bool              `json:"rate_limited"`
	ResetsIn    string            `json:"resets_in"`
	Upstream    any               `json:"upstream,omitempty"`
}

// LatencyResponse is the body of GET /v1/latency.
type LatencyResponse struct {
	BaseURL   string  `json:"base_url"`
	LatencyMS float64 `json:"latency_ms"`
}

// GitHubHandler exposes the state of a shared client over HTTP.
type GitHubHandler struct {
	client GitHubClient
	now    func() time.Time
}

// NewGitHubHandler returns handlers backed by client.
func NewGitHubHandler(client GitHubClient) *GitHubHandler {
	return &GitHubHandler{client: client, now: time.Now}
}

// RateLimit reports the client's current snapshot. With ?refresh=true it
// first asks the API for the server-side view, which also refreshes the
// snapshot from the response headers.
func (h *GitHubHandler) RateLimit(w http.ResponseWriter, r *http.Request) {
	var upstream any
	if refresh := r.URL.Query().Get("refresh"); refresh != "" {
		want, err := strconv.ParseBool(refresh)
		if err != nil {
			apperrors.RespondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "refresh must be a boolean"))
			return
		}
		if want {
			upstream, err = h.client.GetRateLimit(r.Context())
			if err != nil {
				apperrors.RespondWithError(w, r, apperrors.FromGitHubError(r.Context(), err))
				return
			}
		}
	}

	limits := h.client.RateLimits()
	writeJSON(w, http.StatusOK, RateLimitResponse{
		BaseURL:     h.client.BaseURL(),
		Limits:      limits,
		RateLimited: limits.IsRateLimited(),
		ResetsIn:    limits.Until(h.now()).Round(time.Second).String(),
		Upstream:    upstream,
	})
}

// Latency returns the probed round-trip time to the API. The client reuses
// a recent probe instead of sending a new one.
func (h *GitHubHandler) Latency(w http.ResponseWriter, r *http.Request) {
	latency, err := h.client.Latency(r.Context())
	if err != nil {
		apperrors.RespondWithError(w, r, apperrors.FromGitHubError(r.Context(), err))
		return
	}

	writeJSON(w, http.StatusOK, LatencyResponse{
		BaseURL:   h.client.BaseURL(),
		LatencyMS: float64(latency) / float64(time.Millisecond),
	})
}

// GitHubChecker reports the client as degraded while it is cooling down,
// and, when Probe is set, while a latency probe fails.
type GitHubChecker struct {
	Client GitHubClient
	Probe  bool
}

func (c GitHubChecker) CheckHealth(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("github client not initialized")
	}
	if c.Client.IsRateLimited() {
		return fmt.Errorf("github rate limit exhausted: %w", ErrDegraded)
	}
	if c.Probe {
		if _, err := c.Client.Latency(ctx); err != nil {
			return fmt.Errorf("github probe failed: %v: %w", err, ErrDegraded)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
