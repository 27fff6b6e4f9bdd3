package cmd

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namelens/gitrest/internal/config"
	errwrap "github.com/namelens/gitrest/internal/errors"
	"github.com/namelens/gitrest/internal/metrics"
	"github.com/namelens/gitrest/internal/observability"
	"github.com/namelens/gitrest/internal/server"
	"github.com/namelens/gitrest/internal/server/handlers"
)

// identityHealthChecker validates app identity metadata
type identityHealthChecker struct {
	binaryName string
	envPrefix  string
	configName string
}

func (i identityHealthChecker) CheckHealth(ctx context.Context) error {
	switch {
	case i.binaryName == "":
		return errwrap.WrapConfigInvalid(ctx, nil, "app identity missing binary name")
	case i.envPrefix == "":
		return errwrap.WrapConfigInvalid(ctx, nil, "app identity missing env prefix")
	case i.configName == "":
		return errwrap.WrapConfigInvalid(ctx, nil, "app identity missing config name")
	}
	return nil
}

var serveFlagKeys = map[string]string{
	"host":         "server.host",
	"port":         "server.port",
	"metrics-port": "metrics.port",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start an HTTP server that holds one long-lived API client and reports
its rate-limit budget and latency.

Endpoints:
  /health, /health/live, /health/ready, /health/startup
  /version, /metrics
  /v1/ratelimit[?refresh=true], /v1/latency
  /admin/signal (only with GITREST_ADMIN_TOKEN set)

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (log level only; restart for other settings)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, serveFlagKeys)
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "config load failed")
		}

		identity := GetAppIdentity()
		namespace := identity.TelemetryNamespace()

		observability.InitServerLogger(identity.BinaryName, cfg.Logging.Level, namespace)
		logger := observability.ServerLogger

		var registry *prometheus.Registry
		if cfg.Metrics.Enabled {
			registry = observability.InitMetrics()
			metrics.Init(registry)
			metrics.SetServerStartTime(time.Now())
		}

		logger.Info("Initializing server",
			zap.String("service", identity.BinaryName),
			zap.String("namespace", namespace),
			zap.String("version", versionInfo.Version),
			zap.String("base_url", cfg.GitHub.BaseURL),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("metrics", cfg.Metrics.Enabled))

		var registerer prometheus.Registerer
		if registry != nil {
			registerer = registry
		}
		sess, err := openSession(cmd.Context(), cfg, registerer)
		if err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "client initialization failed")
		}

		hm := handlers.NewHealthManager(versionInfo.Version)
		hm.RegisterChecker("app_identity", identityHealthChecker{
			binaryName: identity.BinaryName,
			envPrefix:  identity.EnvPrefix,
			configName: identity.ConfigName,
		})
		hm.RegisterChecker("github", handlers.GitHubChecker{
			Client: sess.client,
			Probe:  cfg.Health.ProbeGitHub,
		})
		if sess.store != nil {
			hm.RegisterChecker("store", handlers.HealthCheckerFunc(sess.store.Ping))
		}

		handlers.SetAppIdentity(identity)

		opts := server.Options{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
			Client:       sess.client,
			Health:       hm,
			AdminToken:   strings.TrimSpace(os.Getenv(identity.EnvPrefix + "ADMIN_TOKEN")),
			Pprof:        cfg.Debug.Enabled && cfg.Debug.PprofEnabled,
		}
		if registry != nil {
			opts.Gatherer = registry
		}
		srv := server.New(opts)

		if registry != nil && cfg.Metrics.Port != 0 && cfg.Metrics.Port != cfg.Server.Port {
			if err := observability.ServeMetrics(registry, cfg.Metrics.Port); err != nil {
				logger.Warn("Dedicated metrics listener unavailable, /metrics still served on the main port",
					zap.Int("metrics_port", cfg.Metrics.Port),
					zap.Error(err))
			}
		}

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Register graceful shutdown handlers (LIFO order - last registered, first executed)
		// Handler 1: Flush logger (executed last)
		signals.OnShutdown(func(ctx context.Context) error {
			logger.Info("Flushing logger...")
			if err := logger.Sync(); err != nil {
				// Sync errors are often benign (stdout/stderr already closed)
				logger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
			}
			return nil
		})

		// Handler 2: Close the client and store
		signals.OnShutdown(func(ctx context.Context) error {
			logger.Info("Closing API client",
				zap.Int("remaining", sess.client.RateLimits().Remaining))
			if err := sess.Close(); err != nil {
				return errwrap.WrapDatabaseError(ctx, err, "store close failed")
			}
			return nil
		})

		// Handler 3: Stop listeners (executed first)
		signals.OnShutdown(func(ctx context.Context) error {
			logger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := observability.ShutdownMetrics(shutdownCtx); err != nil {
				logger.Warn("Metrics listener shutdown failed", zap.Error(err))
			}
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}

			logger.Info("HTTP server stopped gracefully")
			return nil
		})

		// SIGHUP re-reads the config; only the log level applies live.
		signals.OnReload(func(ctx context.Context) error {
			logger.Info("Received SIGHUP: attempting config reload")

			reloaded, err := config.Load(ctx)
			if err != nil {
				logger.Error("Failed to reload config",
					zap.String("file", config.ConfigFileUsed()),
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			if reloaded.Logging.Level != cfg.Logging.Level {
				observability.InitServerLogger(identity.BinaryName, reloaded.Logging.Level, namespace)
				logger = observability.ServerLogger
				logger.Info("Log level changed", zap.String("level", reloaded.Logging.Level))
			}
			if reloaded.GitHub != cfg.GitHub || reloaded.Server != cfg.Server || reloaded.Store != cfg.Store {
				logger.Warn("Client, server or store settings changed; restart to apply them")
			}

			logger.Info("Configuration reloaded", zap.String("file", config.ConfigFileUsed()))
			return nil
		})

		// Enable double-tap force quit (Ctrl+C within 2 seconds)
		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
		}

		// Start server in background goroutine
		errChan := make(chan error, 1)
		go func() {
			logger.Info("Starting HTTP server...",
				zap.String("host", cfg.Server.Host),
				zap.Int("port", cfg.Server.Port))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Start signal listener in background
		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				logger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		// Wait for error or shutdown completion
		if err := <-errChan; err != nil {
			_ = sess.Close()
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().Int("metrics-port", 9090, "dedicated Prometheus listener port (0 disables it)")
}
