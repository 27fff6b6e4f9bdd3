package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public GitHub API origin.
	DefaultBaseURL = "https://api.github.com"

	defaultAccept     = "application/vnd.github.v3+json"
	defaultAPIVersion = "2022-11-28"

	// DefaultLatencyInterval is how long a latency probe result is reused.
	DefaultLatencyInterval = 5 * time.Second
)

// Logger receives the client's diagnostic output. *zap.Logger and the
// gofulmen logger both satisfy it.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
}

// RateLimitStore persists rate-limit snapshots per API origin so a new
// process can resume an ongoing cooldown.
type RateLimitStore interface {
	// LoadRateLimits returns nil without error when nothing is stored.
	LoadRateLimits(ctx context.Context, origin string) (*RateLimits, error)
	SaveRateLimits(ctx context.Context, origin string, limits RateLimits) error
}

// Config configures a Client. The zero value talks to the public API
// anonymously.
type Config struct {
	// BaseURL defaults to DefaultBaseURL. GitHub Enterprise Server uses
	// https://HOST/api/v3.
	BaseURL string

	// Token is sent as "token <Token>", or as the basic-auth password when
	// Username is also set. The client never inspects it.
	Token    string
	Username string

	// Header holds extra headers sent with every request. A User-Agent here
	// replaces the default one.
	Header    http.Header
	UserAgent string

	// APIVersion is sent as X-GitHub-Api-Version.
	APIVersion string

	// HTTPClient is used as-is when set. Otherwise the client owns a
	// transport cloned from http.DefaultTransport and releases it on Close.
	HTTPClient *http.Client
	Timeout    time.Duration

	Logger  Logger
	Clock   func() time.Time
	Metrics *MetricsCollector
	Store   RateLimitStore

	// LatencyInterval defaults to DefaultLatencyInterval.
	LatencyInterval time.Duration

	// MaxCooldown bounds the wait for an exhausted budget. Zero waits for
	// as long as the reset window requires.
	MaxCooldown time.Duration

	// StrictRateLimitHeaders fails a request whose response lacks or
	// garbles the rate-limit headers with a *RateLimitHeaderError, treating
	// the headers as part of every response. By default such responses
	// keep the last snapshot and log at debug, which suits GitHub
	// Enterprise and proxies that strip the headers.
	StrictRateLimitHeaders bool
}

// Client is a GitHub REST API session. It is safe for concurrent use.
type Client struct {
	baseURL    string
	origin     string
	header     http.Header
	httpClient *http.Client
	ownsClient bool

	logger          Logger
	clock           func() time.Time
	sleep           func(ctx context.Context, d time.Duration) error
	metrics         *MetricsCollector
	store           RateLimitStore
	latencyInterval time.Duration
	maxCooldown     time.Duration
	strictHeaders   bool

	limits    atomic.Pointer[RateLimits]
	lastProbe atomic.Pointer[time.Time]
	latency   atomic.Int64

	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates a client, loading the persisted rate-limit snapshot for the
// API origin when a Store is configured.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("github: invalid base URL %q: %w", baseURL, err)
	}
	if (parsed.Scheme != "https" && parsed.Scheme != "http") || parsed.Host == "" {
		return nil, fmt.Errorf("github: base URL %q must be an absolute http(s) URL", baseURL)
	}

	c := &Client{
		baseURL:         baseURL,
		origin:          parsed.Host,
		header:          defaultHeader(cfg),
		httpClient:      cfg.HTTPClient,
		logger:          cfg.Logger,
		clock:           cfg.Clock,
		sleep:           sleepContext,
		metrics:         cfg.Metrics,
		store:           cfg.Store,
		latencyInterval: cfg.LatencyInterval,
		maxCooldown:     cfg.MaxCooldown,
		strictHeaders:   cfg.StrictRateLimitHeaders,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.latencyInterval <= 0 {
		c.latencyInterval = DefaultLatencyInterval
	}
	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		c.httpClient = &http.Client{Transport: transport, Timeout: cfg.Timeout}
		c.ownsClient = true
	}

	defaults := DefaultRateLimits()
	c.limits.Store(&defaults)

	if c.store != nil {
		stored, err := c.store.LoadRateLimits(ctx, c.origin)
		if err != nil {
			c.Close() // nolint:errcheck // close is infallible
			return nil, fmt.Errorf("github: loading rate limits for %s: %w", c.origin, err)
		}
		if stored != nil {
			snapshot := *stored
			c.limits.Store(&snapshot)
			c.logger.Debug("Restored rate-limit snapshot",
				zap.String("origin", c.origin),
				zap.Int("remaining", snapshot.Remaining),
				zap.Time("reset", snapshot.ResetTime))
		}
	}

	return c, nil
}

// WithClient creates a client, runs fn with it and closes it on every exit
// path, including a panic inside fn.
func WithClient(ctx context.Context, cfg Config, fn func(*Client) error) error {
	client, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close() // nolint:errcheck // close is infallible
	return fn(client)
}

// Close releases pooled connections. Subsequent requests fail with
// ErrClientClosed. Calling Close more than once is a no-op.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if c.ownsClient {
			c.httpClient.CloseIdleConnections()
		}
	})
	return nil
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// BaseURL returns the API origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RateLimits returns the current snapshot.
func (c *Client) RateLimits() RateLimits {
	return *c.limits.Load()
}

// IsRateLimited reports whether the next request will wait for the reset
// window.
func (c *Client) IsRateLimited() bool {
	return c.RateLimits().IsRateLimited()
}

func (c *Client) String() string {
	return fmt.Sprintf("github.Client(%s)", c.baseURL)
}

func defaultHeader(cfg Config) http.Header {
	header := make(http.Header)
	header.Set("Accept", defaultAccept)
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	header.Set("X-GitHub-Api-Version", apiVersion)

	if token := strings.TrimSpace(cfg.Token); token != "" {
		if cfg.Username != "" {
			creds := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + token))
			header.Set("Authorization", "Basic "+creds)
		} else {
			header.Set("Authorization", "token "+token)
		}
	}

	for name, values := range cfg.Header {
		header.Del(name)
		for _, value := range values {
			header.Add(name, value)
		}
	}

	if header.Get("User-Agent") == "" {
		userAgent := cfg.UserAgent
		if userAgent == "" {
			userAgent = DefaultUserAgent()
		}
		header.Set("User-Agent", userAgent)
	}

	return header
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
