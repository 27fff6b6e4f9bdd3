package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/namelens/gitrest/internal/config"
	"github.com/namelens/gitrest/internal/observability"
	"github.com/namelens/gitrest/internal/store"
	"github.com/namelens/gitrest/pkg/github"
)

// session is an open client together with the store backing its
// rate-limit snapshots.
type session struct {
	client *github.Client
	store  *store.Store
}

// openSession opens the store when snapshots are persisted and creates a
// client for cfg. registry may be nil.
func openSession(ctx context.Context, cfg *config.Config, registry prometheus.Registerer) (*session, error) {
	s := &session{}
	clientCfg := cfg.GitHub.ClientConfig()
	clientCfg.Logger = observability.ClientLogger()
	if registry != nil {
		clientCfg.Metrics = github.NewMetricsCollectorWithRegistry(registry)
	}

	if cfg.GitHub.PersistRateLimits {
		db, err := openStore(ctx, cfg.Store)
		if err != nil {
			clientCfg.Logger.Warn("Rate-limit store unavailable, continuing without persistence", zap.Error(err))
		} else {
			s.store = db
			clientCfg.Store = db
		}
	}

	client, err := github.New(ctx, clientCfg)
	if err != nil {
		s.Close() // nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.client = client
	return s, nil
}

// Close closes the client, then the store.
func (s *session) Close() error {
	if s == nil {
		return nil
	}
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// openStore opens the configured store and applies pending migrations.
func openStore(ctx context.Context, cfg config.StoreConfig) (*store.Store, error) {
	db, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s store: %w", db.Driver(), err)
	}
	return db, nil
}
