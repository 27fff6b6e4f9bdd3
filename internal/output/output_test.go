package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/namelens/gitrest/internal/store"
	"github.com/namelens/gitrest/pkg/github"
)

var (
	testNow    = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	testLimits = github.RateLimits{
		Remaining:   1,
		Used:        4999,
		Total:       5000,
		ResetTime:   testNow.Add(90 * time.Second),
		LastRequest: testNow.Add(-time.Second),
	}
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"table":    FormatTable,
		"JSON":     FormatJSON,
		"":         FormatTable,
		"yml":      FormatYAML,
		"yaml":     FormatYAML,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
	}
	for in, want := range cases {
		format, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, format, in)
	}

	_, err := ParseFormat("csv")
	require.Error(t, err)
}

func TestFormatRateLimits(t *testing.T) {
	rendered, err := NewFormatter(FormatJSON).FormatRateLimits(testLimits, testNow)
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(rendered), &view))
	require.Equal(t, float64(1), view["remaining"])
	require.Equal(t, float64(5000), view["limit"])
	require.Equal(t, "1m30s", view["resets_in"])
	require.Equal(t, true, view["rate_limited"])

	rendered, err = NewFormatter(FormatYAML).FormatRateLimits(testLimits, testNow)
	require.NoError(t, err)
	var yamlView map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(rendered), &yamlView))
	require.Equal(t, 4999, yamlView["used"])
	require.Contains(t, rendered, "2026-10-19T12:01:30Z")

	rendered, err = NewFormatter(FormatTable).FormatRateLimits(testLimits, testNow)
	require.NoError(t, err)
	require.Contains(t, rendered, "REMAINING")
	require.Contains(t, rendered, "cooling down")

	rendered, err = NewFormatter(FormatMarkdown).FormatRateLimits(github.DefaultRateLimits(), testNow)
	require.NoError(t, err)
	require.Contains(t, rendered, "| 60 | 0 | 60 |")
	require.Contains(t, rendered, "| ok |")
}

func TestFormatRateLimitEntries(t *testing.T) {
	entries := []store.RateLimitEntry{
		{Origin: "api.github.com", Limits: testLimits, UpdatedAt: testNow},
		{Origin: "ghe.example.com", Limits: github.DefaultRateLimits(), UpdatedAt: testNow},
	}

	rendered, err := NewFormatter(FormatTable).FormatRateLimitEntries(entries)
	require.NoError(t, err)
	require.Contains(t, rendered, "api.github.com")
	require.Contains(t, rendered, "ghe.example.com")

	rendered, err = NewFormatter(FormatJSON).FormatRateLimitEntries(entries)
	require.NoError(t, err)
	require.Contains(t, rendered, "\"origin\": \"api.github.com\"")

	rendered, err = NewFormatter(FormatTable).FormatRateLimitEntries(nil)
	require.NoError(t, err)
	require.Equal(t, "(no stored rate limit state)", rendered)
}

func TestFormatPayloadObject(t *testing.T) {
	payload := map[string]any{
		"login":        "octocat",
		"id":           float64(583231),
		"site_admin":   false,
		"plan":         map[string]any{"name": "free"},
		"twitter_name": nil,
	}

	rendered, err := NewFormatter(FormatTable).FormatPayload(payload)
	require.NoError(t, err)
	require.Contains(t, rendered, "octocat")
	require.Contains(t, rendered, "583231")
	require.Contains(t, rendered, `{"name":"free"}`)

	rendered, err = NewFormatter(FormatMarkdown).FormatPayload(payload)
	require.NoError(t, err)
	require.Contains(t, rendered, "| login | octocat |")
	require.Contains(t, rendered, "| twitter_name | - |")
}

func TestFormatPayloadList(t *testing.T) {
	payload := []any{
		map[string]any{"id": float64(1), "full_name": "octocat/hello", "private": false, "owner": map[string]any{}},
		map[string]any{"id": float64(2), "full_name": "octocat/world", "private": true, "owner": map[string]any{}},
	}

	rendered, err := NewFormatter(FormatMarkdown).FormatPayload(payload)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(rendered), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "| id | full_name | private |", lines[0])
	require.Equal(t, "| 2 | octocat/world | true |", lines[3])

	rendered, err = NewFormatter(FormatTable).FormatPayload(payload)
	require.NoError(t, err)
	require.Contains(t, rendered, "2 items")
}

func TestFormatPayloadText(t *testing.T) {
	zen := "Design for failure."
	for _, format := range []Format{FormatTable, FormatMarkdown} {
		rendered, err := NewFormatter(format).FormatPayload(zen)
		require.NoError(t, err)
		require.Equal(t, zen, rendered)
	}

	rendered, err := NewFormatter(FormatJSON).FormatPayload(zen)
	require.NoError(t, err)
	require.Equal(t, `"Design for failure."`, rendered)
}

func TestCellString(t *testing.T) {
	require.Equal(t, "-", cellString(nil))
	require.Equal(t, "42", cellString(float64(42)))
	require.Equal(t, "1.5", cellString(1.5))
	require.Equal(t, "true", cellString(true))
	require.Equal(t, `["a","b"]`, cellString([]any{"a", "b"}))
	require.True(t, strings.HasSuffix(cellString(strings.Repeat("x", 200)), "x"))
	require.True(t, strings.HasSuffix(cellString(map[string]any{"k": strings.Repeat("x", 200)}), "..."))
}
