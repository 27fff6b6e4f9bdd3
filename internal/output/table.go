package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/namelens/gitrest/internal/store"
	"github.com/namelens/gitrest/pkg/github"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatPayload renders objects as field/value rows and lists of objects
// as one row per item. Text bodies are returned unchanged.
func (f *TableFormatter) FormatPayload(payload any) (string, error) {
	if text, ok := payload.(string); ok {
		return text, nil
	}

	header, rows, ok := tabulate(payload)
	if !ok {
		return cellString(payload), nil
	}
	if len(rows) == 0 {
		return "(empty)", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(toRow(header))
	for _, row := range rows {
		t.AppendRow(toRow(row))
	}
	if len(rows) > 1 && header[0] != "Field" {
		t.AppendFooter(table.Row{fmt.Sprintf("%d items", len(rows))})
	}
	return t.Render(), nil
}

func (f *TableFormatter) FormatRateLimits(limits github.RateLimits, now time.Time) (string, error) {
	view := newRateLimitView(limits, now)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Remaining", "Used", "Limit", "Reset", "Resets In", "Status"})
	t.AppendRow(table.Row{view.Remaining, view.Used, view.Limit, view.Reset, view.ResetsIn, statusLabel(view.RateLimited)})
	return t.Render(), nil
}

func (f *TableFormatter) FormatRateLimitEntries(entries []store.RateLimitEntry) (string, error) {
	if len(entries) == 0 {
		return "(no stored rate limit state)", nil
	}

	now := time.Now()
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Origin", "Remaining", "Limit", "Reset", "Status", "Updated"})
	for _, view := range newRateLimitEntryViews(entries, now) {
		t.AppendRow(table.Row{
			view.Origin,
			view.Limits.Remaining,
			view.Limits.Limit,
			view.Limits.Reset,
			statusLabel(view.Limits.RateLimited),
			view.UpdatedAt,
		})
	}
	return t.Render(), nil
}

func statusLabel(rateLimited bool) string {
	if rateLimited {
		return "cooling down"
	}
	return "ok"
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = strings.ReplaceAll(cell, "\n", " ")
	}
	return row
}
