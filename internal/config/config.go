// Package config provides configuration loading and management for chainsync.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agilechain/chainsync/internal/telemetry"
)

// Defaults applied when a field is omitted
const (
	DefaultLedgerEndpoint  = "http://localhost:8545/rpc"
	DefaultBackendURL      = "http://localhost:3000"
	DefaultServerAddress   = ":8080"
	DefaultThrottleWindow  = 30 * time.Second
	DefaultPostWriteDelay  = 2 * time.Second
	DefaultPeriodicSync    = 5 * time.Minute
	DefaultBreakerCooldown = 5 * time.Minute
	DefaultBreakerLimit    = 5
	DefaultCallTimeout     = 15 * time.Second
	DefaultBackendTimeout  = 10 * time.Second
	DefaultRequestTimeout  = 60 * time.Second

	// EnvPrefix is the prefix of the environment variables read through viper
	EnvPrefix = "CHAINSYNC"

	// APIKeyEnvVar is read when no API key file is configured
	APIKeyEnvVar = "CHAINSYNC_LEDGER_API_KEY"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// DataDir holds the last sync report; defaults to the session directory
	DataDir string `yaml:"dataDir,omitempty"`

	Ledger         LedgerConfig         `yaml:"ledger"`
	Backend        BackendConfig        `yaml:"backend"`
	Sync           SyncConfig           `yaml:"sync"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
	Session        SessionConfig        `yaml:"session"`
	Server         ServerConfig         `yaml:"server"`
	Logging        LoggingConfig        `yaml:"logging"`
	Telemetry      *telemetry.Config    `yaml:"telemetry,omitempty"`
}

// LedgerConfig defines the ledger-access sidecar connection
type LedgerConfig struct {
	// Endpoint is the JSON-RPC endpoint of the sidecar
	Endpoint string `yaml:"endpoint"`

	// APIKeyFile is read for the X-API-Key header. CHAINSYNC_LEDGER_API_KEY is used
	// when it is not set.
	APIKeyFile string `yaml:"apiKeyFile,omitempty"`

	// CallTimeout bounds each JSON-RPC call (e.g., "15s")
	CallTimeout string `yaml:"callTimeout,omitempty"`

	// MinVersion rejects sidecars older than this semantic version
	MinVersion string `yaml:"minVersion,omitempty"`

	Reset ResetConfig `yaml:"reset"`
}

// ResetConfig bounds the network reset retries
type ResetConfig struct {
	MaxTries   uint   `yaml:"maxTries,omitempty"`
	MaxElapsed string `yaml:"maxElapsed,omitempty"`
}

// BackendConfig defines the team backend connection
type BackendConfig struct {
	BaseURL string `yaml:"baseURL"`
	Timeout string `yaml:"timeout,omitempty"`
}

// SyncConfig defines the reconciliation policy
type SyncConfig struct {
	// ThrottleWindow is the minimum interval between non-forced reconciliations of a domain
	ThrottleWindow string `yaml:"throttleWindow,omitempty"`

	// PostWriteDelay is the grace period before re-verifying a domain after a write
	PostWriteDelay string `yaml:"postWriteDelay,omitempty"`

	Periodic PeriodicConfig `yaml:"periodic"`
}

// PeriodicConfig defines the periodic reconciliation of every domain
type PeriodicConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval,omitempty"`
}

// CircuitBreakerConfig defines the circuit-breaker recovery
type CircuitBreakerConfig struct {
	Threshold     int    `yaml:"threshold,omitempty"`
	ResetCooldown string `yaml:"resetCooldown,omitempty"`
}

// SessionConfig defines where the session is stored
type SessionConfig struct {
	// Dir defaults to the XDG data home
	Dir string `yaml:"dir,omitempty"`

	// Keyring stores the token in the OS keyring instead of the session file
	Keyring        bool   `yaml:"keyring,omitempty"`
	KeyringService string `yaml:"keyringService,omitempty"`
}

// ServerConfig defines the local HTTP API
type ServerConfig struct {
	Address        string `yaml:"address,omitempty"`
	RequestTimeout string `yaml:"requestTimeout,omitempty"`
}

// LoggingConfig defines the log output
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`

	// File enables rotating file output in addition to stderr
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"maxSizeMB,omitempty"`
	MaxBackups int    `yaml:"maxBackups,omitempty"`
	MaxAgeDays int    `yaml:"maxAgeDays,omitempty"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Ledger:  LedgerConfig{Endpoint: DefaultLedgerEndpoint},
		Backend: BackendConfig{BaseURL: DefaultBackendURL},
	}
}

// LoadConfig loads and parses configuration from a YAML file. Without a path the
// default configuration is returned.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	config := Default()
	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateURL("ledger.endpoint", c.Ledger.Endpoint); err != nil {
		return err
	}
	if err := validateURL("backend.baseURL", c.Backend.BaseURL); err != nil {
		return err
	}

	durations := map[string]string{
		"ledger.callTimeout":           c.Ledger.CallTimeout,
		"ledger.reset.maxElapsed":      c.Ledger.Reset.MaxElapsed,
		"backend.timeout":              c.Backend.Timeout,
		"sync.throttleWindow":          c.Sync.ThrottleWindow,
		"sync.postWriteDelay":          c.Sync.PostWriteDelay,
		"sync.periodic.interval":       c.Sync.Periodic.Interval,
		"circuitBreaker.resetCooldown": c.CircuitBreaker.ResetCooldown,
		"server.requestTimeout":        c.Server.RequestTimeout,
	}
	for field, value := range durations {
		if err := validateDuration(field, value); err != nil {
			return err
		}
	}

	if c.CircuitBreaker.Threshold < 0 {
		return fmt.Errorf("circuitBreaker.threshold must not be negative")
	}

	if c.Logging.Level != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
			return fmt.Errorf("logging.level: invalid level %q", c.Logging.Level)
		}
	}

	if c.Telemetry != nil {
		if err := c.Telemetry.Validate(); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}

	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must be a valid HTTP or HTTPS URL: %s", field, raw)
	}
	return nil
}

func validateDuration(field, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid duration format '%s': %w", field, raw, err)
	}
	if d < 0 {
		return fmt.Errorf("%s must not be negative", field)
	}
	return nil
}

// parseDuration returns def for empty or invalid values. Values are checked by validate.
func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

// GetCallTimeout returns the per-call ledger timeout
func (l *LedgerConfig) GetCallTimeout() time.Duration {
	return parseDuration(l.CallTimeout, DefaultCallTimeout)
}

// GetResetMaxElapsed returns the elapsed-time bound of the network reset, 0 when unset
func (l *LedgerConfig) GetResetMaxElapsed() time.Duration {
	return parseDuration(l.Reset.MaxElapsed, 0)
}

// GetAPIKey returns the ledger API key using the following priority:
// 1. Read from APIKeyFile if specified
// 2. Read from the CHAINSYNC_LEDGER_API_KEY environment variable
//
// An empty key disables the header.
func (l *LedgerConfig) GetAPIKey() (string, error) {
	if l.APIKeyFile != "" {
		data, err := os.ReadFile(filepath.Clean(l.APIKeyFile))
		if err != nil {
			return "", fmt.Errorf("failed to read API key from file %s: %w", l.APIKeyFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return os.Getenv(APIKeyEnvVar), nil
}

// GetTimeout returns the backend request timeout
func (b *BackendConfig) GetTimeout() time.Duration {
	return parseDuration(b.Timeout, DefaultBackendTimeout)
}

// GetThrottleWindow returns the throttle window
func (s *SyncConfig) GetThrottleWindow() time.Duration {
	return parseDuration(s.ThrottleWindow, DefaultThrottleWindow)
}

// GetPostWriteDelay returns the post-write delay
func (s *SyncConfig) GetPostWriteDelay() time.Duration {
	return parseDuration(s.PostWriteDelay, DefaultPostWriteDelay)
}

// GetPeriodicInterval returns the periodic reconciliation interval
func (s *SyncConfig) GetPeriodicInterval() time.Duration {
	return parseDuration(s.Periodic.Interval, DefaultPeriodicSync)
}

// GetThreshold returns the circuit-breaker threshold
func (c *CircuitBreakerConfig) GetThreshold() int {
	if c.Threshold == 0 {
		return DefaultBreakerLimit
	}
	return c.Threshold
}

// GetResetCooldown returns the minimum interval between network resets
func (c *CircuitBreakerConfig) GetResetCooldown() time.Duration {
	return parseDuration(c.ResetCooldown, DefaultBreakerCooldown)
}

// GetAddress returns the API listen address
func (s *ServerConfig) GetAddress() string {
	if s.Address == "" {
		return DefaultServerAddress
	}
	return s.Address
}

// GetRequestTimeout returns the per-request timeout of the API
func (s *ServerConfig) GetRequestTimeout() time.Duration {
	return parseDuration(s.RequestTimeout, DefaultRequestTimeout)
}
