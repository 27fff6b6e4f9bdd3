package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/namelens/gitrest/internal/store"
	"github.com/namelens/gitrest/pkg/github"
)

// MarkdownFormatter renders results as a markdown table.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) FormatPayload(payload any) (string, error) {
	if text, ok := payload.(string); ok {
		return text, nil
	}

	header, rows, ok := tabulate(payload)
	if !ok {
		return escapeMarkdownCell(cellString(payload)), nil
	}
	if len(rows) == 0 {
		return "_empty_", nil
	}
	return markdownTable(header, rows), nil
}

func (f *MarkdownFormatter) FormatRateLimits(limits github.RateLimits, now time.Time) (string, error) {
	view := newRateLimitView(limits, now)

	var sb strings.Builder
	sb.WriteString("## Rate limit\n\n")
	sb.WriteString(markdownTable(
		[]string{"Remaining", "Used", "Limit", "Reset", "Resets In", "Status"},
		[][]string{{
			fmt.Sprint(view.Remaining),
			fmt.Sprint(view.Used),
			fmt.Sprint(view.Limit),
			view.Reset,
			view.ResetsIn,
			statusLabel(view.RateLimited),
		}},
	))
	return sb.String(), nil
}

func (f *MarkdownFormatter) FormatRateLimitEntries(entries []store.RateLimitEntry) (string, error) {
	if len(entries) == 0 {
		return "_no stored rate limit state_", nil
	}

	rows := make([][]string, 0, len(entries))
	for _, view := range newRateLimitEntryViews(entries, time.Now()) {
		rows = append(rows, []string{
			view.Origin,
			fmt.Sprint(view.Limits.Remaining),
			fmt.Sprint(view.Limits.Limit),
			view.Limits.Reset,
			statusLabel(view.Limits.RateLimited),
		})
	}
	return markdownTable([]string{"Origin", "Remaining", "Limit", "Reset", "Status"}, rows), nil
}

func markdownTable(header []string, rows [][]string) string {
	var sb strings.Builder
	writeMarkdownRow(&sb, header)
	separators := make([]string, len(header))
	for i := range separators {
		separators[i] = "---"
	}
	writeMarkdownRow(&sb, separators)
	for _, row := range rows {
		writeMarkdownRow(&sb, row)
	}
	return sb.String()
}

func writeMarkdownRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(escapeMarkdownCell(cell))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func escapeMarkdownCell(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.ReplaceAll(value, "|", "\\|")
}
