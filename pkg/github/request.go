package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RequestOptions carries the per-call parts of a request. Nil fields are
// not sent.
type RequestOptions struct {
	// Query is appended to the URL.
	Query url.Values
	// JSON is encoded as the request body with Content-Type application/json.
	JSON any
	// Header overrides the client's persistent headers for this call.
	Header http.Header
	// Timeout bounds this call when positive.
	Timeout time.Duration
}

var validMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// Request sends one API call and returns the decoded payload: the JSON
// value for application/json responses, the body text otherwise. When the
// current snapshot shows an exhausted budget it first waits until the reset
// time, honoring ctx. Non-2xx responses return an *APIError.
func (c *Client) Request(ctx context.Context, method, path string, opts *RequestOptions) (any, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if _, ok := validMethods[method]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if opts == nil {
		opts = &RequestOptions{}
	}

	if err := c.cooldown(ctx, method, path); err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, method, path, opts)
	if err != nil {
		return nil, err
	}

	group := routeGroup(path)
	c.metrics.RecordRequestStart(method, group)
	defer c.metrics.RecordRequestEnd(method, group)

	start := c.clock()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordError("transport", method, group)
		return nil, fmt.Errorf("github: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if err := c.updateRateLimits(ctx, resp.Header, method, path); err != nil {
		c.metrics.RecordError("rate_limit_headers", method, group)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordError("read", method, group)
		return nil, fmt.Errorf("github: %s %s: reading response body: %w", method, path, err)
	}
	c.metrics.RecordRequest(method, group, resp.StatusCode, c.clock().Sub(start))

	success := resp.StatusCode >= 200 && resp.StatusCode <= 299
	payload, err := decodeBody(resp.Header.Get("Content-Type"), body)
	if err != nil {
		if success {
			c.metrics.RecordError("decode", method, group)
			return nil, fmt.Errorf("github: %s %s: decoding response: %w", method, path, err)
		}
		payload = string(body)
	}

	if success {
		c.logger.Debug("GitHub request completed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return payload, nil
	}

	apiErr := newAPIError(method, path, resp.StatusCode, payload)
	c.metrics.RecordError(string(apiErr.Kind), method, group)
	c.logger.Debug("GitHub request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message))
	return nil, apiErr
}

// cooldown blocks while the snapshot shows an exhausted budget.
func (c *Client) cooldown(ctx context.Context, method, path string) error {
	limits := c.RateLimits()
	if !limits.IsRateLimited() {
		return nil
	}

	delay := limits.Until(c.clock())
	if c.maxCooldown > 0 && delay > c.maxCooldown {
		c.metrics.RecordError("cooldown_exceeded", method, routeGroup(path))
		return &CooldownError{Limits: limits, Delay: delay, Method: method, Path: path}
	}

	c.logger.Info("Rate limit exceeded, waiting for reset",
		zap.String("wait", humanizeDuration(delay)),
		zap.Duration("delay", delay),
		zap.String("method", method),
		zap.String("path", path))
	c.metrics.RecordCooldown(delay)

	if err := c.sleep(ctx, delay); err != nil {
		return fmt.Errorf("github: %s %s: waiting for rate-limit reset: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, opts *RequestOptions) (*http.Request, error) {
	target := c.baseURL + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	var body io.Reader
	if opts.JSON != nil {
		encoded, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, fmt.Errorf("github: %s %s: encoding request body: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("github: %s %s: %w", method, path, err)
	}

	for name, values := range c.header {
		req.Header[name] = append([]string(nil), values...)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, values := range opts.Header {
		req.Header.Del(name)
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	return req, nil
}

// updateRateLimits replaces the snapshot from the response headers.
func (c *Client) updateRateLimits(ctx context.Context, header http.Header, method, path string) error {
	limits, err := ParseRateLimits(header, c.clock())
	if err != nil {
		if c.strictHeaders {
			return fmt.Errorf("github: %s %s: %w", method, path, err)
		}
		if hasRateLimitHeaders(header) {
			c.logger.Warn("Ignoring malformed rate-limit headers",
				zap.String("path", path),
				zap.Error(err))
		} else {
			c.logger.Debug("Response carried no rate-limit headers",
				zap.String("path", path))
		}
		return nil
	}

	c.limits.Store(&limits)
	c.metrics.RecordRateLimits(c.origin, limits)

	if c.store != nil {
		if err := c.store.SaveRateLimits(ctx, c.origin, limits); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Warn("Failed to persist rate-limit snapshot",
				zap.String("origin", c.origin),
				zap.Error(err))
		}
	}
	return nil
}

// decodeBody returns the JSON value for an application/json body and the
// text otherwise.
func decodeBody(contentType string, body []byte) (any, error) {
	if !isJSONMediaType(contentType) {
		return string(body), nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func isJSONMediaType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// routeGroup is the first path segment, used as a low-cardinality metric
// label.
func routeGroup(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return "root"
	}
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}
