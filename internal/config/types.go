// Package config provides configuration loading and management for promortctl.
//
// Configuration is loaded using Viper, supporting YAML config files and environment
// variable overrides, and is checked with struct-tag validation before use.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [ServerConfig] contains ProMort server connection settings
//
// Configuration priority (highest to lowest):
//  1. Environment variables (PROMORTCTL_ prefix, e.g. PROMORTCTL_SERVER_BASE_URL)
//  2. Config file specified by PROMORTCTL_CONFIG_PATH
//  3. User config directory (platform-standard):
//     - Linux: ~/.config/promortctl/promortctl.yaml
//     - macOS: ~/Library/Application Support/promortctl/promortctl.yaml
//     - Windows: %APPDATA%\promortctl\promortctl.yaml
//  4. ./config/promortctl.yaml
//  5. ./promortctl.yaml
//  6. [DefaultConfig] defaults
package config

import "time"

// Config represents the root configuration structure.
type Config struct {
	// Server contains ProMort server connection settings.
	Server ServerConfig `mapstructure:"server"`

	// Store selects a local worklist fixture instead of the server.
	Store StoreConfig `mapstructure:"store"`

	// Session contains settings for the persisted workflow selection.
	Session SessionConfig `mapstructure:"session"`

	// Logging contains diagnostic logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig contains ProMort server connection settings.
type ServerConfig struct {
	// BaseURL is the server root.
	// Default: "http://localhost:8000/"
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Timeout is the per-request timeout.
	// Default: 30s
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`

	// RateLimit is the maximum sustained requests per second.
	// Default: 10
	RateLimit float64 `mapstructure:"rate_limit" validate:"gt=0"`

	// Burst is the maximum burst of requests.
	// Default: 5
	Burst int `mapstructure:"burst" validate:"gte=1"`

	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent"`

	// SessionID is the Django session cookie of a logged-in user.
	// Usually set with PROMORTCTL_SERVER_SESSION_ID.
	SessionID string `mapstructure:"session_id"`
}

// StoreConfig selects a local fixture backend.
type StoreConfig struct {
	// Path is the YAML fixture file. When set, the server is not contacted.
	Path string `mapstructure:"path"`
}

// SessionConfig contains settings for the persisted workflow selection.
type SessionConfig struct {
	// Path is the selection file. Empty means the user config directory.
	Path string `mapstructure:"path"`
}

// LoggingConfig contains diagnostic logging settings.
type LoggingConfig struct {
	// Level is the minimum level logged.
	// Default: "warn"
	Level string `mapstructure:"level" validate:"oneof=trace debug info warn error"`

	// Format is "console" for human-readable output or "json".
	// Default: "console"
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:   "http://localhost:8000/",
			Timeout:   30 * time.Second,
			RateLimit: 10,
			Burst:     5,
			UserAgent: "promortctl",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// UsesStore reports whether the local fixture backend is selected.
func (c *Config) UsesStore() bool {
	return c.Store.Path != ""
}
