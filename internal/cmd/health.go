package cmd

import (
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	errwrap "github.com/namelens/gitrest/internal/errors"
	"github.com/namelens/gitrest/internal/observability"
)

var healthProbe bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long: `Run a self-health check to verify the application can start successfully.

With --probe the API root is also requested once, which costs one request
from the budget.`,
	Run: func(cmd *cobra.Command, args []string) {
		observability.CLILogger.Info("Running health check...")

		// Check 1: Version info available
		if versionInfo.Version == "" {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Version information missing",
				errwrap.WrapConfigInvalid(cmd.Context(), nil, "version information missing"))
			return
		}
		observability.CLILogger.Debug("Version check passed", zap.String("version", versionInfo.Version))
		observability.CLILogger.Info("✅ Version information available")

		// Check 2: Configuration loads and validates
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Configuration invalid", err)
			return
		}
		observability.CLILogger.Info("✅ Configuration loaded", zap.String("base_url", cfg.GitHub.BaseURL))

		// Check 3: Client and store open
		sess, err := openSession(cmd.Context(), cfg, nil)
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitFailure, "Client initialization failed", err)
			return
		}
		defer sess.Close() // nolint:errcheck // best-effort cleanup

		if sess.store != nil {
			if err := sess.store.Ping(cmd.Context()); err != nil {
				ExitWithCode(observability.CLILogger, foundry.ExitFailure, "Store unreachable", err)
				return
			}
			observability.CLILogger.Info("✅ Rate-limit store reachable", zap.String("driver", sess.store.Driver()))
		}

		limits := sess.client.RateLimits()
		if limits.IsRateLimited() {
			observability.CLILogger.Warn("⚠️  Rate limit exhausted",
				zap.Int("remaining", limits.Remaining),
				zap.Time("reset", limits.ResetTime))
		} else {
			observability.CLILogger.Info("✅ Rate limit available", zap.Int("remaining", limits.Remaining))
		}

		// Check 4: API reachable
		if healthProbe {
			latency, err := sess.client.Latency(cmd.Context())
			if err != nil {
				ExitWithCode(observability.CLILogger, foundry.ExitExternalServiceUnavailable, "API unreachable",
					errwrap.FromGitHubError(cmd.Context(), err))
				return
			}
			observability.CLILogger.Info("✅ API reachable", zap.Duration("latency", latency))
		}

		// Overall status
		observability.CLILogger.Info("")
		observability.CLILogger.Info("✅ All health checks passed")
	},
}

func init() {
	healthCmd.Flags().BoolVar(&healthProbe, "probe", false, "also send one request to the API root")
	rootCmd.AddCommand(healthCmd)
}
