// Package output renders API payloads and rate-limit state for the CLI.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/namelens/gitrest/internal/store"
	"github.com/namelens/gitrest/pkg/github"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formatter renders command results.
type Formatter interface {
	// FormatPayload renders a decoded response body.
	FormatPayload(payload any) (string, error)
	// FormatRateLimits renders a client snapshot as seen at now.
	FormatRateLimits(limits github.RateLimits, now time.Time) (string, error)
	// FormatRateLimitEntries renders stored snapshots.
	FormatRateLimitEntries(entries []store.RateLimitEntry) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// rateLimitView is the serialized form of a snapshot, with derived fields.
type rateLimitView struct {
	Remaining   int    `json:"remaining" yaml:"remaining"`
	Used        int    `json:"used" yaml:"used"`
	Limit       int    `json:"limit" yaml:"limit"`
	Reset       string `json:"reset" yaml:"reset"`
	ResetsIn    string `json:"resets_in" yaml:"resets_in"`
	LastRequest string `json:"last_request" yaml:"last_request"`
	RateLimited bool   `json:"rate_limited" yaml:"rate_limited"`
}

func newRateLimitView(limits github.RateLimits, now time.Time) rateLimitView {
	return rateLimitView{
		Remaining:   limits.Remaining,
		Used:        limits.Used,
		Limit:       limits.Total,
		Reset:       limits.ResetTime.UTC().Format(time.RFC3339),
		ResetsIn:    limits.Until(now).Round(time.Second).String(),
		LastRequest: limits.LastRequest.UTC().Format(time.RFC3339),
		RateLimited: limits.IsRateLimited(),
	}
}

type rateLimitEntryView struct {
	Origin    string        `json:"origin" yaml:"origin"`
	Limits    rateLimitView `json:"limits" yaml:"limits"`
	UpdatedAt string        `json:"updated_at" yaml:"updated_at"`
}

func newRateLimitEntryViews(entries []store.RateLimitEntry, now time.Time) []rateLimitEntryView {
	views := make([]rateLimitEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, rateLimitEntryView{
			Origin:    entry.Origin,
			Limits:    newRateLimitView(entry.Limits, now),
			UpdatedAt: entry.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return views
}
