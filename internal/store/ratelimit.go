package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/namelens/gitrest/pkg/github"
)

// Timestamps are stored as Unix nanoseconds so a snapshot survives a round
// trip unchanged.

// LoadRateLimits returns the stored snapshot for an API origin, or nil when
// none is stored. It implements github.RateLimitStore.
func (s *Store) LoadRateLimits(ctx context.Context, origin string) (*github.RateLimits, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	origin = strings.TrimSpace(origin)
	if origin == "" {
		return nil, errors.New("origin is required")
	}

	row := s.DB.QueryRowContext(ctx, `
		SELECT remaining, used, limit_total, reset_at, last_request
		FROM rate_limits
		WHERE origin = ?
	`, origin)

	var (
		limits      github.RateLimits
		resetAt     int64
		lastRequest int64
	)
	if err := row.Scan(&limits.Remaining, &limits.Used, &limits.Total, &resetAt, &lastRequest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch rate limit: %w", err)
	}
	limits.ResetTime = time.Unix(0, resetAt).UTC()
	limits.LastRequest = time.Unix(0, lastRequest).UTC()

	return &limits, nil
}

// SaveRateLimits persists the snapshot for an API origin, replacing any
// earlier one. It implements github.RateLimitStore.
func (s *Store) SaveRateLimits(ctx context.Context, origin string, limits github.RateLimits) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	origin = strings.TrimSpace(origin)
	if origin == "" {
		return errors.New("origin is required")
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO rate_limits (origin, remaining, used, limit_total, reset_at, last_request, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(origin) DO UPDATE SET
			remaining = excluded.remaining,
			used = excluded.used,
			limit_total = excluded.limit_total,
			reset_at = excluded.reset_at,
			last_request = excluded.last_request,
			updated_at = excluded.updated_at
	`, origin, limits.Remaining, limits.Used, limits.Total,
		limits.ResetTime.UnixNano(), limits.LastRequest.UnixNano(), time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("store rate limit: %w", err)
	}

	return nil
}
