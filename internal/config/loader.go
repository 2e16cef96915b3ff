package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// AppName names the user config directory.
	AppName = "promortctl"

	// FileName is the config file name without extension.
	FileName = "promortctl"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PROMORTCTL"
)

// Loader handles configuration loading using Viper.
type Loader struct {
	v        *viper.Viper
	validate *validator.Validate
}

// NewLoader creates a new configuration loader with environment overrides
// and defaults applied.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	return &Loader{
		v:        v,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load loads configuration from the standard locations.
//
// A missing config file is not an error: defaults and environment variables
// still apply.
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv(EnvPrefix + "_CONFIG_PATH"); path != "" {
		return l.LoadFromFile(path)
	}

	l.v.SetConfigName(FileName)
	l.v.SetConfigType("yaml")
	if dir, err := ConfigDir(); err == nil {
		l.v.AddConfigPath(dir)
	}
	l.v.AddConfigPath("./config")
	l.v.AddConfigPath(".")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return l.unmarshal()
}

// LoadFromFile loads configuration from a specific file. The format is taken
// from the file extension.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := l.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks a configuration against its struct tags.
func (l *Loader) Validate(cfg *Config) error {
	if err := l.validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Set overrides a single key, as command-line flags do.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.base_url", cfg.Server.BaseURL)
	v.SetDefault("server.timeout", cfg.Server.Timeout)
	v.SetDefault("server.rate_limit", cfg.Server.RateLimit)
	v.SetDefault("server.burst", cfg.Server.Burst)
	v.SetDefault("server.user_agent", cfg.Server.UserAgent)
	v.SetDefault("server.session_id", cfg.Server.SessionID)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("session.path", cfg.Session.Path)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// ConfigDir returns the platform-standard config directory for promortctl.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultConfigPath returns the path of the config file in [ConfigDir].
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName+".yaml"), nil
}
