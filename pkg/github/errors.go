package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for failures raised before or around a request.
var (
	// ErrClientClosed is returned by Request after Close.
	ErrClientClosed = errors.New("github: client closed")

	// ErrInvalidMethod is returned for HTTP methods outside GET, POST, PUT,
	// PATCH and DELETE.
	ErrInvalidMethod = errors.New("github: unsupported HTTP method")

	// ErrRateLimited is returned when the cooldown would exceed
	// Config.MaxCooldown.
	ErrRateLimited = errors.New("github: rate limit exhausted")
)

// Sentinels matched by *APIError through errors.Is, one per status class.
var (
	ErrHTTP             = errors.New("github: HTTP error")
	ErrBadRequest       = errors.New("github: bad request")
	ErrUnauthorized     = errors.New("github: unauthorized")
	ErrForbidden        = errors.New("github: forbidden")
	ErrNotFound         = errors.New("github: not found")
	ErrMethodNotAllowed = errors.New("github: method not allowed")
	ErrConflict         = errors.New("github: conflict")
	ErrGone             = errors.New("github: gone")
	ErrUnprocessable    = errors.New("github: unprocessable entity")
	ErrTooManyRequests  = errors.New("github: too many requests")
	ErrServer           = errors.New("github: server error")
)

// ErrorKind classifies an APIError by status code.
type ErrorKind string

const (
	KindBadRequest       ErrorKind = "bad_request"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindForbidden        ErrorKind = "forbidden"
	KindNotFound         ErrorKind = "not_found"
	KindMethodNotAllowed ErrorKind = "method_not_allowed"
	KindConflict         ErrorKind = "conflict"
	KindGone             ErrorKind = "gone"
	KindUnprocessable    ErrorKind = "unprocessable"
	KindTooManyRequests  ErrorKind = "too_many_requests"
	KindServer           ErrorKind = "server"
	KindUnknown          ErrorKind = "unknown"
)

var kindSentinels = map[ErrorKind]error{
	KindBadRequest:       ErrBadRequest,
	KindUnauthorized:     ErrUnauthorized,
	KindForbidden:        ErrForbidden,
	KindNotFound:         ErrNotFound,
	KindMethodNotAllowed: ErrMethodNotAllowed,
	KindConflict:         ErrConflict,
	KindGone:             ErrGone,
	KindUnprocessable:    ErrUnprocessable,
	KindTooManyRequests:  ErrTooManyRequests,
	KindServer:           ErrServer,
}

// KindForStatus maps an HTTP status code to its error kind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusMethodNotAllowed:
		return KindMethodNotAllowed
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusGone:
		return KindGone
	case status == http.StatusUnprocessableEntity:
		return KindUnprocessable
	case status == http.StatusTooManyRequests:
		return KindTooManyRequests
	case status >= 500 && status <= 599:
		return KindServer
	default:
		return KindUnknown
	}
}

// APIError is a non-2xx response from the API. Body holds the decoded
// payload: the JSON value when the response was application/json, the raw
// text otherwise.
type APIError struct {
	StatusCode       int
	Kind             ErrorKind
	Method           string
	Path             string
	Message          string
	DocumentationURL string
	Body             any
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Method != "" {
		return fmt.Sprintf("github: %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, msg)
	}
	return fmt.Sprintf("github: HTTP %d: %s", e.StatusCode, msg)
}

// Is matches ErrHTTP for every APIError, the sentinel of the error's kind,
// and ErrTooManyRequests for a 403 that reports an exhausted rate limit.
func (e *APIError) Is(target error) bool {
	if e == nil {
		return false
	}
	if target == ErrHTTP {
		return true
	}
	if target == ErrTooManyRequests && e.IsRateLimitViolation() {
		return true
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// IsRateLimitViolation reports whether the server rejected the request for
// exceeding a primary or secondary rate limit.
func (e *APIError) IsRateLimitViolation() bool {
	if e == nil {
		return false
	}
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if e.StatusCode != http.StatusForbidden {
		return false
	}
	lower := strings.ToLower(e.Message)
	return strings.Contains(lower, "rate limit") || strings.Contains(lower, "abuse detection")
}

// newAPIError builds the error for a failing response from its decoded body.
func newAPIError(method, path string, status int, body any) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Kind:       KindForStatus(status),
		Method:     method,
		Path:       path,
		Body:       body,
	}

	switch payload := body.(type) {
	case map[string]any:
		if msg, ok := payload["message"].(string); ok {
			apiErr.Message = msg
		}
		if docs, ok := payload["documentation_url"].(string); ok {
			apiErr.DocumentationURL = docs
		}
	case string:
		apiErr.Message = strings.TrimSpace(payload)
	}

	return apiErr
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusCode extracts the HTTP status from an *APIError chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// CooldownError is returned instead of waiting when the cooldown exceeds
// Config.MaxCooldown.
type CooldownError struct {
	Limits RateLimits
	Delay  time.Duration
	Method string
	Path   string
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("github: %s %s: rate limit exhausted, resets in %s", e.Method, e.Path, humanizeDuration(e.Delay))
}

func (e *CooldownError) Unwrap() error { return ErrRateLimited }
