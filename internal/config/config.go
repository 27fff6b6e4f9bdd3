package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/namelens/gitrest/pkg/github"
)

// Config is the complete application configuration. Values are layered:
// built-in defaults, then the user config file, then environment variables,
// then runtime overrides.
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
	Debug   DebugConfig   `mapstructure:"debug"`
}

// GitHubConfig configures the API client.
type GitHubConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Token      string        `mapstructure:"token"`
	Username   string        `mapstructure:"username"`
	UserAgent  string        `mapstructure:"user_agent"`
	APIVersion string        `mapstructure:"api_version"`
	Timeout    time.Duration `mapstructure:"timeout"`

	// LatencyInterval is the minimum age of a cached latency probe before a
	// new probe is sent.
	LatencyInterval time.Duration `mapstructure:"latency_interval"`

	// MaxCooldown bounds how long a request may wait for a rate-limit
	// reset. Zero waits as long as needed.
	MaxCooldown time.Duration `mapstructure:"max_cooldown"`

	StrictRateLimitHeaders bool `mapstructure:"strict_rate_limit_headers"`

	// PersistRateLimits stores snapshots in the store so a later process
	// starts from the last known budget.
	PersistRateLimits bool `mapstructure:"persist_rate_limits"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains database configuration for libsql/Turso
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Profile is SIMPLE for CLI output or STRUCTURED for JSON server logs.
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Port serves a dedicated Prometheus listener when non-zero. Metrics
	// are always available on the main server at /metrics.
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// ProbeGitHub adds a latency probe of the API to the aggregate health
	// check.
	ProbeGitHub bool `mapstructure:"probe_github"`
}

// DebugConfig contains debug and profiling configuration
type DebugConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// PprofEnabled mounts /debug/pprof on the server.
	// WARNING: Only enable in development/staging environments
	PprofEnabled bool `mapstructure:"pprof_enabled"`
}

// ClientConfig maps the GitHub section onto a client configuration. Logger,
// metrics and store are wired by the caller.
func (c GitHubConfig) ClientConfig() github.Config {
	return github.Config{
		BaseURL:                c.BaseURL,
		Token:                  c.Token,
		Username:               c.Username,
		UserAgent:              c.UserAgent,
		APIVersion:             c.APIVersion,
		Timeout:                c.Timeout,
		LatencyInterval:        c.LatencyInterval,
		MaxCooldown:            c.MaxCooldown,
		StrictRateLimitHeaders: c.StrictRateLimitHeaders,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if base := strings.TrimSpace(c.GitHub.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "https" && parsed.Scheme != "http") {
			return fmt.Errorf("github.base_url must be an absolute http(s) URL, got %q", base)
		}
	}
	if c.GitHub.Timeout < 0 {
		return fmt.Errorf("github.timeout must not be negative")
	}
	if c.GitHub.MaxCooldown < 0 {
		return fmt.Errorf("github.max_cooldown must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port out of range: %d", c.Metrics.Port)
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of trace, debug, info, warn, error", c.Logging.Level)
	}

	return nil
}
