package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/gofulmen/appidentity"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/namelens/gitrest/internal/appid"
	"github.com/namelens/gitrest/internal/config"
	"github.com/namelens/gitrest/internal/observability"
)

var (
	cfgFile string
	verbose bool

	// Connection overrides applied on top of the loaded config.
	baseURLFlag string
	tokenFlag   string

	// App identity, from .fulmen/app.yaml when present
	appIdentity *appidentity.Identity

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// GetAppIdentity returns the loaded app identity (only valid after initConfig)
func GetAppIdentity() *appidentity.Identity {
	if appIdentity == nil {
		return appid.Default()
	}
	return appIdentity
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	// NOTE: initConfig() overwrites these from app identity.
	Use:   filepath.Base(os.Args[0]),
	Short: appid.Description,
	Long: `Talk to the GitHub REST API without tripping its rate limits.

Every request updates a local snapshot of the rate-limit budget; when the
budget runs out, further requests wait for the reset instead of failing.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Load app identity early for help text (before cobra processes --help)
	if identity, err := appid.Get(context.Background()); err == nil && identity != nil {
		applyIdentity(identity)
	}

	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/gitrest/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "API base URL (overrides github.base_url)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "API token (overrides github.token, GITHUB_TOKEN and GH_TOKEN)")
}

func applyIdentity(identity *appidentity.Identity) {
	appIdentity = identity
	if identity.BinaryName != "" {
		rootCmd.Use = identity.BinaryName
	}
	if identity.Description != "" {
		rootCmd.Short = identity.Description
	}
	if f := rootCmd.PersistentFlags().Lookup("config"); f != nil && identity.ConfigName != "" {
		f.Usage = fmt.Sprintf("config file (default is $XDG_CONFIG_HOME/%s/config.yaml)", identity.ConfigName)
	}
}

// initConfig resolves identity, logger and config file before any command runs.
func initConfig() {
	identity, err := appid.Get(context.Background())
	if err != nil {
		ExitWithCodeStderr(foundry.ExitFileNotFound, "Failed to load app identity", err)
	}
	applyIdentity(identity)

	// Initialize CLI logger early so we can use it in config loading
	observability.InitCLILogger(identity.BinaryName, verbose)

	config.SetConfigFile(cfgFile)
	if cfgFile != "" {
		observability.CLILogger.Debug("Using config file", zap.String("path", cfgFile))
	}
}

// loadConfig loads the layered config with the persistent connection flags
// and any changed command flags applied last.
func loadConfig(cmd *cobra.Command, flagKeys map[string]string) (*config.Config, error) {
	overrides := make(map[string]any)
	if baseURLFlag != "" {
		setOverride(overrides, "github.base_url", baseURLFlag)
	}
	if tokenFlag != "" {
		setOverride(overrides, "github.token", tokenFlag)
	}

	// flagKeys maps a flag name onto the config key it overrides.
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			setOverride(overrides, key, f.Value.String())
		}
	})

	cfg, err := config.Load(cmd.Context(), overrides)
	if err != nil {
		return nil, err
	}
	if used := config.ConfigFileUsed(); used != "" && observability.CLILogger != nil {
		observability.CLILogger.Debug("Loaded config", zap.String("path", used))
	}
	return cfg, nil
}

// setOverride stores value under a dotted key as nested maps.
func setOverride(overrides map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	current := overrides
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
