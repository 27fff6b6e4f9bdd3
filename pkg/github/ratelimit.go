package github

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Rate-limit headers GitHub attaches to API responses.
const (
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitUsed      = "X-RateLimit-Used"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

const (
	defaultRateLimitTotal = 60
	// rateLimitFloor is the remaining budget below which the client waits
	// for the reset window before sending.
	rateLimitFloor = 2
)

// ErrRateLimitHeaderMissing is wrapped by RateLimitHeaderError when a
// response carries no rate-limit header of the given name.
var ErrRateLimitHeaderMissing = errors.New("github: rate-limit header missing")

// RateLimits is a point-in-time snapshot of the rate-limit budget. The
// client replaces its snapshot wholesale after every response; a value
// handed to a caller never changes.
type RateLimits struct {
	Remaining   int       `json:"remaining"`
	Used        int       `json:"used"`
	Total       int       `json:"limit"`
	ResetTime   time.Time `json:"reset"`
	LastRequest time.Time `json:"last_request"`
}

// DefaultRateLimits is the snapshot a new client starts with: the
// unauthenticated budget with both timestamps at the Unix epoch.
func DefaultRateLimits() RateLimits {
	epoch := time.Unix(0, 0).UTC()
	return RateLimits{
		Remaining:   defaultRateLimitTotal,
		Used:        0,
		Total:       defaultRateLimitTotal,
		ResetTime:   epoch,
		LastRequest: epoch,
	}
}

// IsRateLimited reports whether the remaining budget is below two requests.
func (r RateLimits) IsRateLimited() bool {
	return r.Remaining < rateLimitFloor
}

// Until returns how long remains before the budget resets, never negative.
func (r RateLimits) Until(now time.Time) time.Duration {
	if d := r.ResetTime.Sub(now); d > 0 {
		return d
	}
	return 0
}

func (r RateLimits) String() string {
	return fmt.Sprintf("%d/%d remaining (%d used), resets %s",
		r.Remaining, r.Total, r.Used, r.ResetTime.UTC().Format(time.RFC3339))
}

// RateLimitHeaderError reports a rate-limit header that was absent or could
// not be parsed as an integer.
type RateLimitHeaderError struct {
	Header string
	Value  string
	Err    error
}

func (e *RateLimitHeaderError) Error() string {
	if errors.Is(e.Err, ErrRateLimitHeaderMissing) {
		return fmt.Sprintf("github: rate-limit header %s missing", e.Header)
	}
	return fmt.Sprintf("github: rate-limit header %s=%q: %v", e.Header, e.Value, e.Err)
}

func (e *RateLimitHeaderError) Unwrap() error { return e.Err }

// ParseRateLimits builds a snapshot from the four rate-limit headers of a
// response. The reset header is epoch seconds; receivedAt becomes
// LastRequest.
func ParseRateLimits(header http.Header, receivedAt time.Time) (RateLimits, error) {
	remaining, err := headerInt(header, HeaderRateLimitRemaining)
	if err != nil {
		return RateLimits{}, err
	}
	used, err := headerInt(header, HeaderRateLimitUsed)
	if err != nil {
		return RateLimits{}, err
	}
	total, err := headerInt(header, HeaderRateLimitLimit)
	if err != nil {
		return RateLimits{}, err
	}
	reset, err := headerInt(header, HeaderRateLimitReset)
	if err != nil {
		return RateLimits{}, err
	}

	return RateLimits{
		Remaining:   int(remaining),
		Used:        int(used),
		Total:       int(total),
		ResetTime:   time.Unix(reset, 0).UTC(),
		LastRequest: receivedAt.UTC(),
	}, nil
}

func headerInt(header http.Header, name string) (int64, error) {
	raw := strings.TrimSpace(header.Get(name))
	if raw == "" {
		return 0, &RateLimitHeaderError{Header: name, Err: ErrRateLimitHeaderMissing}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &RateLimitHeaderError{Header: name, Value: raw, Err: err}
	}
	return value, nil
}

// hasRateLimitHeaders reports whether any of the rate-limit headers is
// present, which separates endpoints that omit them from malformed values.
func hasRateLimitHeaders(header http.Header) bool {
	for _, name := range []string{HeaderRateLimitRemaining, HeaderRateLimitUsed, HeaderRateLimitLimit, HeaderRateLimitReset} {
		if header.Get(name) != "" {
			return true
		}
	}
	return false
}

// humanizeDuration renders a wait such as "2 hours, 5 minutes and 1 second"
// for cooldown log lines.
func humanizeDuration(d time.Duration) string {
	if d < time.Second {
		return "0 seconds"
	}
	total := int64(d / time.Second)
	units := []struct {
		name string
		size int64
	}{
		{"day", 86400},
		{"hour", 3600},
		{"minute", 60},
		{"second", 1},
	}

	var parts []string
	for _, unit := range units {
		count := total / unit.size
		if count == 0 {
			continue
		}
		total -= count * unit.size
		label := unit.name
		if count != 1 {
			label += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", count, label))
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}
