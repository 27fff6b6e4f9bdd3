package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ListOptions are the pagination parameters shared by list endpoints.
type ListOptions struct {
	PerPage int `json:"per_page,omitempty"`
	Page    int `json:"page,omitempty"`
}

// Bool returns a pointer to v, for optional boolean fields.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for optional string fields that must be
// sent even when empty.
func String(v string) *string { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

func (c *Client) get(ctx context.Context, path string, query any) (any, error) {
	values, err := encodeQuery(query)
	if err != nil {
		return nil, fmt.Errorf("github: GET %s: %w", path, err)
	}
	return c.Request(ctx, http.MethodGet, path, &RequestOptions{Query: values})
}

// send issues a body-bearing request. A nil body sends no payload.
func (c *Client) send(ctx context.Context, method, path string, body any) (any, error) {
	return c.Request(ctx, method, path, &RequestOptions{JSON: body})
}

// encodeQuery flattens an options struct into query parameters through its
// JSON form, so omitempty fields and nil pointers never reach the URL.
func encodeQuery(options any) (url.Values, error) {
	if options == nil {
		return nil, nil
	}
	if values, ok := options.(url.Values); ok {
		return values, nil
	}

	raw, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}
	// UseNumber keeps int64 values above 2^53 exact.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make(url.Values, len(fields))
	for _, key := range keys {
		switch v := fields[key].(type) {
		case nil:
		case []any:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, queryValue(item))
			}
			values.Set(key, strings.Join(parts, ","))
		default:
			values.Set(key, queryValue(v))
		}
	}
	return values, nil
}

func queryValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}

// seg escapes one path segment.
func seg(value string) string {
	return url.PathEscape(value)
}

// repoPath builds /repos/{owner}/{repo} followed by extra segments, which
// are appended verbatim.
func repoPath(owner, repo string, rest ...string) string {
	path := "/repos/" + seg(owner) + "/" + seg(repo)
	for _, part := range rest {
		path += "/" + part
	}
	return path
}

// filePath escapes a repository file path segment by segment, keeping the
// separators.
func filePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
