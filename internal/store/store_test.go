package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namelens/gitrest/internal/config"
	"github.com/namelens/gitrest/pkg/github"
)

func TestBuildLibsqlDSN(t *testing.T) {
	t.Run("URLUsesRawValue", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io",
			AuthToken: "token123",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=token123", dsn)
	})

	t.Run("URLWithExistingQuery", func(t *testing.T) {
		cfg := config.StoreConfig{
			URL:       "libsql://example.turso.io?foo=bar",
			AuthToken: "token123",
		}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "libsql://example.turso.io?authToken=token123&foo=bar", dsn)
	})

	t.Run("PathWithFilePrefix", func(t *testing.T) {
		cfg := config.StoreConfig{Path: "file:./gitrest.db"}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "file:./gitrest.db", dsn)
	})

	t.Run("PlainPathGetsFilePrefix", func(t *testing.T) {
		dir := t.TempDir()
		cfg := config.StoreConfig{Path: dir + "/nested/gitrest.db"}

		dsn, err := buildLibsqlDSN(cfg)
		require.NoError(t, err)
		require.Equal(t, "file:"+dir+"/nested/gitrest.db", dsn)
		require.DirExists(t, dir+"/nested")
	})

	t.Run("PathMissing", func(t *testing.T) {
		_, err := buildLibsqlDSN(config.StoreConfig{})
		require.Error(t, err)
	})

	t.Run("MemoryPath", func(t *testing.T) {
		dsn, err := buildLibsqlDSN(config.StoreConfig{Path: ":memory:"})
		require.NoError(t, err)
		require.Equal(t, ":memory:", dsn)
	})
}

func TestRateLimitQueryValidate(t *testing.T) {
	assert.Error(t, RateLimitQuery{}.Validate())
	assert.Error(t, RateLimitQuery{Origin: "  "}.Validate())
	assert.NoError(t, RateLimitQuery{All: true}.Validate())
	assert.NoError(t, RateLimitQuery{Origin: "api.github.com"}.Validate())
	assert.NoError(t, RateLimitQuery{Prefix: "ghe."}.Validate())
}

func TestRateLimitQueryWhereClause(t *testing.T) {
	where, args, err := RateLimitQuery{All: true}.whereClause()
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args, err = RateLimitQuery{Origin: " api.github.com "}.whereClause()
	require.NoError(t, err)
	assert.Equal(t, "WHERE origin = ?", where)
	assert.Equal(t, []any{"api.github.com"}, args)

	where, args, err = RateLimitQuery{Prefix: "ghe"}.whereClause()
	require.NoError(t, err)
	assert.Equal(t, "WHERE origin LIKE ?", where)
	assert.Equal(t, []any{"ghe%"}, args)
}

func TestNilStoreOperationsFail(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
	assert.Empty(t, s.Driver())

	ctx := context.Background()
	_, err := s.LoadRateLimits(ctx, "api.github.com")
	assert.Error(t, err)
	assert.Error(t, s.SaveRateLimits(ctx, "api.github.com", github.DefaultRateLimits()))
	assert.Error(t, s.Migrate(ctx))
	assert.Error(t, s.Ping(ctx))
}
