package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/namelens/gitrest/pkg/github"
)

// RateLimitEntry is one stored snapshot with the API origin it belongs to.
type RateLimitEntry struct {
	Origin    string            `json:"origin" yaml:"origin"`
	Limits    github.RateLimits `json:"limits" yaml:"limits"`
	UpdatedAt time.Time         `json:"updated_at" yaml:"updated_at"`
}

// RateLimitQuery selects stored snapshots by exact origin, origin prefix,
// or all of them.
type RateLimitQuery struct {
	All    bool
	Origin string
	Prefix string
}

func (q RateLimitQuery) Validate() error {
	if q.All {
		return nil
	}
	if strings.TrimSpace(q.Origin) != "" {
		return nil
	}
	if strings.TrimSpace(q.Prefix) != "" {
		return nil
	}
	return errors.New("must specify --all, --origin, or --prefix")
}

func (q RateLimitQuery) whereClause() (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}
	if q.All {
		return "", nil, nil
	}
	if origin := strings.TrimSpace(q.Origin); origin != "" {
		return "WHERE origin = ?", []any{origin}, nil
	}
	prefix := strings.TrimSpace(q.Prefix)
	if prefix == "" {
		return "", nil, errors.New("prefix is required")
	}
	return "WHERE origin LIKE ?", []any{prefix + "%"}, nil
}

func (s *Store) ListRateLimits(ctx context.Context, q RateLimitQuery) ([]RateLimitEntry, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT origin, remaining, used, limit_total, reset_at, last_request, updated_at
		FROM rate_limits
		%s
		ORDER BY origin
	`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("list rate limits: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	entries := []RateLimitEntry{}
	for rows.Next() {
		var (
			entry       RateLimitEntry
			resetAt     int64
			lastRequest int64
			updatedAt   int64
		)
		if err := rows.Scan(&entry.Origin, &entry.Limits.Remaining, &entry.Limits.Used, &entry.Limits.Total,
			&resetAt, &lastRequest, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan rate limits: %w", err)
		}
		entry.Limits.ResetTime = time.Unix(0, resetAt).UTC()
		entry.Limits.LastRequest = time.Unix(0, lastRequest).UTC()
		entry.UpdatedAt = time.Unix(updatedAt, 0).UTC()

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rate limits: %w", err)
	}

	return entries, nil
}

func (s *Store) CountRateLimits(ctx context.Context, q RateLimitQuery) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return 0, err
	}

	row := s.DB.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*)
		FROM rate_limits
		%s
	`, where), args...)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count rate limits: %w", err)
	}
	return count, nil
}

// ResetRateLimits deletes the selected snapshots. A client started
// afterwards begins from the default budget.
func (s *Store) ResetRateLimits(ctx context.Context, q RateLimitQuery) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return 0, err
	}

	result, err := s.DB.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM rate_limits
		%s
	`, where), args...)
	if err != nil {
		return 0, fmt.Errorf("reset rate limits: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset rate limits: %w", err)
	}
	return affected, nil
}
