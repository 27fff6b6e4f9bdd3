package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namelens/gitrest/internal/config"
	"github.com/namelens/gitrest/internal/observability"
	"github.com/namelens/gitrest/internal/store"
	"github.com/namelens/gitrest/pkg/github"
)

var doctorSkipNetwork bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long:  "Run diagnostic checks on the system and suggest fixes for common issues.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := observability.CLILogger
		identity := GetAppIdentity()

		log.Info("=== " + identity.BinaryName + " doctor ===")
		log.Info("")
		log.Info("Running diagnostic checks...")
		log.Info("")

		allChecks := true
		totalChecks := 7
		step := func(n int, msg string) string { return fmt.Sprintf("[%d/%d] %s", n, totalChecks, msg) }

		// Check 1: Go version
		goVersion := runtime.Version()
		log.Info(step(1, "Checking Go runtime... ✅ "+goVersion),
			zap.String("go_version", goVersion),
			zap.String("os", runtime.GOOS),
			zap.String("arch", runtime.GOARCH))

		// Check 2: Gofulmen and Crucible
		version := crucible.GetVersion()
		if version.Gofulmen != "" && version.Crucible != "" {
			log.Info(step(2, fmt.Sprintf("Checking Gofulmen/Crucible... ✅ v%s / v%s", version.Gofulmen, version.Crucible)))
		} else {
			log.Warn(step(2, "Checking Gofulmen/Crucible... ⚠️  version metadata unavailable"))
			allChecks = false
		}

		// Check 3: Config
		cfg, cfgErr := loadConfig(cmd, nil)
		switch {
		case cfgErr != nil:
			log.Error(step(3, "Checking config... ❌ "+cfgErr.Error()))
			allChecks = false
		case config.ConfigFileUsed() != "":
			log.Info(step(3, "Checking config... ✅ "+config.ConfigFileUsed()))
		default:
			log.Info(step(3, "Checking config... ✅ defaults (no config file; run 'doctor init' to create one)"))
		}
		if cfgErr != nil {
			log.Warn("Remaining checks skipped (config not loaded)")
			return
		}

		// Check 4: Token
		if strings.TrimSpace(cfg.GitHub.Token) != "" {
			log.Info(step(4, "Checking token... ✅ set"))
		} else {
			log.Warn(step(4, "Checking token... ⚠️  not set (unauthenticated budget is 60 requests/hour)"))
			log.Info("       Set GITHUB_TOKEN, GH_TOKEN or github.token in the config file.")
		}

		// Check 5: Store
		if !cfg.GitHub.PersistRateLimits {
			log.Info(step(5, "Checking rate-limit store... ✅ disabled (github.persist_rate_limits=false)"))
		} else if db, err := openStore(ctx, cfg.Store); err != nil {
			log.Warn(step(5, "Checking rate-limit store... ⚠️  cannot open"), zap.Error(err))
			allChecks = false
		} else {
			count, countErr := db.CountRateLimits(ctx, store.RateLimitQuery{All: true})
			_ = db.Close()
			if countErr != nil {
				log.Warn(step(5, "Checking rate-limit store... ⚠️  cannot read snapshots"), zap.Error(countErr))
				allChecks = false
			} else {
				log.Info(step(5, fmt.Sprintf("Checking rate-limit store... ✅ %s (%d snapshot(s))", describeStore(cfg.Store), count)))
			}
		}

		// Check 6 and 7: API reachability and budget
		if doctorSkipNetwork {
			log.Info(step(6, "Checking API reachability... skipped (--offline)"))
			log.Info(step(7, "Checking rate-limit budget... skipped (--offline)"))
		} else {
			sess, err := openSession(ctx, cfg, nil)
			if err != nil {
				log.Error(step(6, "Checking API reachability... ❌ "+err.Error()))
				allChecks = false
			} else {
				defer sess.Close() // nolint:errcheck // best-effort cleanup

				start := time.Now()
				if _, err := sess.client.GetRateLimit(ctx); err != nil {
					log.Error(step(6, "Checking API reachability... ❌ "+sess.client.BaseURL()), zap.Error(err))
					allChecks = false
				} else {
					log.Info(step(6, fmt.Sprintf("Checking API reachability... ✅ %s (%s)", sess.client.BaseURL(), time.Since(start).Round(time.Millisecond))))
				}

				limits := sess.client.RateLimits()
				if limits.IsRateLimited() {
					log.Warn(step(7, fmt.Sprintf("Checking rate-limit budget... ⚠️  exhausted, resets in %s", limits.Until(time.Now()).Round(time.Second))))
				} else {
					log.Info(step(7, fmt.Sprintf("Checking rate-limit budget... ✅ %d/%d remaining", limits.Remaining, limits.Total)))
				}
			}
		}

		log.Info("")
		if allChecks {
			log.Info(fmt.Sprintf("✅ All checks passed! Your %s installation is healthy.", identity.BinaryName))
		} else {
			log.Warn("⚠️  Some checks failed. Review the output above for details.")
		}
		log.Info("")
		log.Info("=== End Diagnostics ===")
	},
}

var (
	doctorInitForce   bool
	doctorInitToken   string
	doctorInitBaseURL string
	doctorResetConfig bool
	doctorResetData   bool
	doctorResetAll    bool
)

var doctorInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.DefaultConfigPath()
		if configPath == "" {
			return fmt.Errorf("config path not resolved")
		}

		if _, err := os.Stat(configPath); err == nil && !doctorInitForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
		}

		token := strings.TrimSpace(doctorInitToken)
		if strings.EqualFold(token, "prompt") {
			value, err := promptForValue("Enter GitHub token (leave blank to skip): ")
			if err != nil {
				return err
			}
			token = value
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		mode := os.FileMode(0644)
		if token != "" {
			mode = 0600
		}

		if err := os.WriteFile(configPath, []byte(buildInitConfig(doctorInitBaseURL, token)), mode); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		observability.CLILogger.Info("Config initialized", zap.String("path", configPath))
		return nil
	},
}

var doctorConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration status and paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := observability.CLILogger
		configPath := config.DefaultConfigPath()
		dataDir := config.DefaultDataDir()

		log.Info("Configuration:")
		log.Info(fmt.Sprintf("  Config file:    %s (%s)", configPath, existenceStatus(fileExists(configPath))))
		if dataDir != "" {
			log.Info(fmt.Sprintf("  Data directory: %s (%s)", dataDir, existenceStatus(fileExists(dataDir))))
		} else {
			log.Info("  Data directory: (not resolved)")
		}

		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			log.Warn("Config load failed", zap.Error(err))
			return nil
		}
		log.Info("  Database:       " + describeStore(cfg.Store))

		prefix := GetAppIdentity().EnvPrefix
		log.Info("")
		log.Info("Environment:")
		for _, name := range []string{prefix + "GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN", prefix + "GITHUB_BASE_URL", prefix + "ADMIN_TOKEN"} {
			log.Info(fmt.Sprintf("  %s: %s", name, envStatus(name)))
		}

		log.Info("")
		log.Info("Effective Settings:")
		log.Info("  github.base_url: " + cfg.GitHub.BaseURL)
		log.Info("  github.latency_interval: " + cfg.GitHub.LatencyInterval.String())
		log.Info("  github.max_cooldown: " + cfg.GitHub.MaxCooldown.String())
		log.Info(fmt.Sprintf("  github.strict_rate_limit_headers: %t", cfg.GitHub.StrictRateLimitHeaders))
		log.Info(fmt.Sprintf("  github.persist_rate_limits: %t", cfg.GitHub.PersistRateLimits))
		return nil
	},
}

var doctorResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset user configuration and/or data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if doctorResetAll {
			doctorResetConfig = true
			doctorResetData = true
		}

		if !doctorResetConfig && !doctorResetData {
			return fmt.Errorf("specify --config, --data, or --all")
		}

		// Resolve the store before the config file is gone.
		var cfg *config.Config
		if doctorResetData {
			var err error
			if cfg, err = loadConfig(cmd, nil); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Store.URL != "" {
				return fmt.Errorf("remote store configured; use 'rate-limit reset --all --yes' instead")
			}
		}

		if doctorResetConfig {
			configPath := config.DefaultConfigPath()
			if configPath == "" {
				observability.CLILogger.Warn("Config path not resolved; skipping config reset")
			} else if err := os.Remove(configPath); err == nil {
				observability.CLILogger.Info("Config removed", zap.String("path", configPath))
			} else if os.IsNotExist(err) {
				observability.CLILogger.Info("Config already removed", zap.String("path", configPath))
			} else {
				return fmt.Errorf("remove config file: %w", err)
			}
		}

		if doctorResetData {
			absPath := localStorePath(cfg.Store)
			if err := os.Remove(absPath); err == nil {
				observability.CLILogger.Info("Database removed", zap.String("path", absPath))
			} else if os.IsNotExist(err) {
				observability.CLILogger.Info("Database already removed", zap.String("path", absPath))
			} else {
				return fmt.Errorf("remove database: %w", err)
			}
		}

		return nil
	},
}

var doctorValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the current config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd, nil); err != nil {
			return err
		}

		configPath := config.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("config file not found: %s", config.DefaultConfigPath())
		}

		observability.CLILogger.Info("Config is valid", zap.String("path", configPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.AddCommand(doctorInitCmd)
	doctorCmd.AddCommand(doctorConfigCmd)
	doctorCmd.AddCommand(doctorResetCmd)
	doctorCmd.AddCommand(doctorValidateCmd)

	doctorCmd.Flags().BoolVar(&doctorSkipNetwork, "offline", false, "skip checks that contact the API")

	doctorInitCmd.Flags().BoolVar(&doctorInitForce, "force", false, "overwrite existing config file")
	doctorInitCmd.Flags().StringVar(&doctorInitToken, "github-token", "", "store a GitHub token or use 'prompt' to enter one")
	doctorInitCmd.Flags().StringVar(&doctorInitBaseURL, "github-base-url", "", "API base URL, e.g. https://HOST/api/v3 for Enterprise Server")

	doctorResetCmd.Flags().BoolVar(&doctorResetConfig, "config", false, "remove user config file")
	doctorResetCmd.Flags().BoolVar(&doctorResetData, "data", false, "remove local database")
	doctorResetCmd.Flags().BoolVar(&doctorResetAll, "all", false, "remove config and data")
}

// localStorePath is the absolute path of a file-backed store.
func localStorePath(cfg config.StoreConfig) string {
	dbPath := cfg.Path
	if dbPath == "" {
		dbPath = config.DefaultStorePath()
	}
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return dbPath
	}
	return absPath
}

func describeStore(cfg config.StoreConfig) string {
	if cfg.URL != "" {
		return cfg.URL + " (remote)"
	}
	absPath := localStorePath(cfg)
	info, err := os.Stat(absPath)
	switch {
	case err == nil:
		return fmt.Sprintf("%s (%s)", absPath, formatFileSize(info.Size()))
	case os.IsNotExist(err):
		return absPath + " (not created yet)"
	default:
		return fmt.Sprintf("%s (error: %v)", absPath, err)
	}
}

// formatFileSize returns a human-readable file size
func formatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

func buildInitConfig(baseURL, token string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = github.DefaultBaseURL
	}

	lines := []string{
		"# gitrest config - created by 'gitrest doctor init'",
		"github:",
		fmt.Sprintf("  base_url: %q", baseURL),
	}
	if token != "" {
		lines = append(lines, fmt.Sprintf("  token: %q", token))
	} else {
		lines = append(lines, "  # token: \"\"  # Or set GITHUB_TOKEN / GH_TOKEN")
	}
	lines = append(lines,
		"  timeout: 30s",
		"  latency_interval: 5s",
		"  # max_cooldown: 15m  # Fail instead of waiting longer for a reset",
		"  persist_rate_limits: true",
		"logging:",
		"  level: info",
	)

	return strings.Join(lines, "\n") + "\n"
}

func promptForValue(prompt string) (string, error) {
	if _, err := fmt.Fprint(os.Stdout, prompt); err != nil {
		return "", err
	}
	reader := bufio.NewReader(os.Stdin)
	value, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func existenceStatus(exists bool) string {
	if exists {
		return "exists"
	}
	return "missing"
}

func envStatus(name string) string {
	if strings.TrimSpace(os.Getenv(name)) != "" {
		return "(set)"
	}
	return "(not set)"
}
