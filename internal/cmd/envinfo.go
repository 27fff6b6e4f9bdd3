package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/namelens/gitrest/internal/config"
	"github.com/namelens/gitrest/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display comprehensive environment, configuration, and version information.",
	Run: func(cmd *cobra.Command, args []string) {
		version := crucible.GetVersion()

		observability.CLILogger.Info("=== gitrest Environment Information ===")
		observability.CLILogger.Info("")

		// Application Info
		identity := GetAppIdentity()
		observability.CLILogger.Info("Application:")
		observability.CLILogger.Info("  Name:       " + identity.BinaryName)
		observability.CLILogger.Info("  Version:    " + versionInfo.Version)
		observability.CLILogger.Info("  Commit:     " + versionInfo.Commit)
		observability.CLILogger.Info("  Built:      " + versionInfo.BuildDate)
		observability.CLILogger.Info("")

		// SSOT Info
		observability.CLILogger.Info("SSOT:")
		observability.CLILogger.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		observability.CLILogger.Info("  Crucible:   "+version.Crucible, zap.String("crucible_version", version.Crucible))
		observability.CLILogger.Info("")

		// Runtime Info
		observability.CLILogger.Info("Runtime:")
		observability.CLILogger.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		observability.CLILogger.Info("  GOOS:       "+runtime.GOOS, zap.String("goos", runtime.GOOS))
		observability.CLILogger.Info("  GOARCH:     "+runtime.GOARCH, zap.String("goarch", runtime.GOARCH))
		observability.CLILogger.Info(fmt.Sprintf("  NumCPU:     %d", runtime.NumCPU()), zap.Int("num_cpu", runtime.NumCPU()))
		observability.CLILogger.Info("")

		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			observability.CLILogger.Warn("Config load failed", zap.Error(err))
			return
		}

		// Configuration
		observability.CLILogger.Info("Configuration:")
		observability.CLILogger.Info("  Server Host:    "+cfg.Server.Host, zap.String("host", cfg.Server.Host))
		observability.CLILogger.Info(fmt.Sprintf("  Server Port:    %d", cfg.Server.Port), zap.Int("port", cfg.Server.Port))
		observability.CLILogger.Info("  Log Level:      "+cfg.Logging.Level, zap.String("log_level", cfg.Logging.Level))
		observability.CLILogger.Info("  Log Profile:    "+cfg.Logging.Profile, zap.String("log_profile", cfg.Logging.Profile))
		observability.CLILogger.Info("  DB Driver:      "+cfg.Store.Driver, zap.String("db_driver", cfg.Store.Driver))
		if strings.TrimSpace(cfg.Store.URL) != "" {
			observability.CLILogger.Info("  DB URL:         "+cfg.Store.URL, zap.String("db_url", cfg.Store.URL))
		} else {
			observability.CLILogger.Info("  DB Path:        "+cfg.Store.Path, zap.String("db_path", cfg.Store.Path))
		}
		observability.CLILogger.Info(fmt.Sprintf("  Metrics Port:   %d", cfg.Metrics.Port), zap.Int("metrics_port", cfg.Metrics.Port))
		configFile := config.ConfigFileUsed()
		if configFile == "" {
			configFile = config.DefaultConfigPath() + " (not found)"
		}
		observability.CLILogger.Info("  Config File:    "+configFile, zap.String("config_file", configFile))
		observability.CLILogger.Info("")

		// API client configuration
		observability.CLILogger.Info("GitHub:")
		observability.CLILogger.Info("  Base URL:       "+cfg.GitHub.BaseURL, zap.String("base_url", cfg.GitHub.BaseURL))
		observability.CLILogger.Info("  API Version:    "+displayOrDefault(cfg.GitHub.APIVersion), zap.String("api_version", cfg.GitHub.APIVersion))
		observability.CLILogger.Info("  User Agent:     "+displayOrDefault(cfg.GitHub.UserAgent), zap.String("user_agent", cfg.GitHub.UserAgent))
		observability.CLILogger.Info("  Timeout:        "+cfg.GitHub.Timeout.String(), zap.Duration("timeout", cfg.GitHub.Timeout))
		observability.CLILogger.Info("  Latency Cache:  "+cfg.GitHub.LatencyInterval.String(), zap.Duration("latency_interval", cfg.GitHub.LatencyInterval))
		maxCooldown := "unbounded"
		if cfg.GitHub.MaxCooldown > 0 {
			maxCooldown = cfg.GitHub.MaxCooldown.String()
		}
		observability.CLILogger.Info("  Max Cooldown:   "+maxCooldown, zap.Duration("max_cooldown", cfg.GitHub.MaxCooldown))
		observability.CLILogger.Info(fmt.Sprintf("  Strict Headers: %t", cfg.GitHub.StrictRateLimitHeaders))
		observability.CLILogger.Info(fmt.Sprintf("  Persist Limits: %t", cfg.GitHub.PersistRateLimits))
		if strings.TrimSpace(cfg.GitHub.Token) != "" {
			observability.CLILogger.Info("  Token:          (set)")
		} else {
			observability.CLILogger.Info("  Token:          (not set, 60 requests/hour)")
		}
		observability.CLILogger.Info("")

		observability.CLILogger.Info("=== End Environment Information ===")
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}

func displayOrDefault(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(default)"
	}
	return value
}
