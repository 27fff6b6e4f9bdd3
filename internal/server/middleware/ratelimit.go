package middleware

import (
	"net/http"
	"strconv"

	"github.com/namelens/gitrest/pkg/github"
)

// Upstream budget headers set on every response of the status server.
const (
	UpstreamRemainingHeader = "X-Upstream-RateLimit-Remaining"
	UpstreamLimitHeader     = "X-Upstream-RateLimit-Limit"
	UpstreamResetHeader     = "X-Upstream-RateLimit-Reset"
)

// UpstreamRateLimit reports the API client's rate-limit snapshot in response
// headers, so callers can see the remaining budget without a dedicated call.
// The snapshot is read before the handler runs.
func UpstreamRateLimit(snapshot func() github.RateLimits) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limits := snapshot()
			h := w.Header()
			h.Set(UpstreamRemainingHeader, strconv.Itoa(limits.Remaining))
			h.Set(UpstreamLimitHeader, strconv.Itoa(limits.Total))
			h.Set(UpstreamResetHeader, strconv.FormatInt(limits.ResetTime.Unix(), 10))
			next.ServeHTTP(w, r)
		})
	}
}
