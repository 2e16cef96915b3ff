package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8000/", cfg.Server.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.UsesStore())

	require.NoError(t, NewLoader().Validate(cfg))
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
	assert.NotNil(t, loader.validate)
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
server:
  base_url: https://promort.example.org/
  timeout: 5s
  rate_limit: 2.5
store:
  path: /tmp/worklist.yaml
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := NewLoader().LoadFromFile(configPath)

	require.NoError(t, err)
	assert.Equal(t, "https://promort.example.org/", cfg.Server.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 2.5, cfg.Server.RateLimit)
	assert.Equal(t, 5, cfg.Server.Burst, "unset keys keep defaults")
	assert.True(t, cfg.UsesStore())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoader_LoadFromFile_NonExistent(t *testing.T) {
	_, err := NewLoader().LoadFromFile("/nonexistent/path/config.yaml")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoader_LoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad url", "server:\n  base_url: not a url\n", "BaseURL"},
		{"bad level", "logging:\n  level: loud\n", "Level"},
		{"zero burst", "server:\n  burst: 0\n", "Burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0644))

			_, err := NewLoader().LoadFromFile(configPath)
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestLoader_Load_DefaultsWithNoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("PROMORTCTL_CONFIG_PATH", "")

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.BaseURL, cfg.Server.BaseURL)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoader_Load_WithConfigPathEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  base_url: https://from-file.example.org/\n"), 0644))

	t.Setenv("PROMORTCTL_CONFIG_PATH", configPath)

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, "https://from-file.example.org/", cfg.Server.BaseURL)
}

func TestLoader_Load_EnvOverridesTakePrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  base_url: https://from-file.example.org/\n"), 0644))

	t.Setenv("PROMORTCTL_CONFIG_PATH", configPath)
	t.Setenv("PROMORTCTL_SERVER_BASE_URL", "https://from-env.example.org/")
	t.Setenv("PROMORTCTL_SERVER_SESSION_ID", "s3cr3t")

	cfg, err := NewLoader().Load()

	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example.org/", cfg.Server.BaseURL)
	assert.Equal(t, "s3cr3t", cfg.Server.SessionID)
}

func TestLoader_Set(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("PROMORTCTL_CONFIG_PATH", "")

	loader := NewLoader()
	loader.Set("store.path", "fixture.yaml")

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "fixture.yaml", cfg.Store.Path)
	assert.True(t, cfg.UsesStore())
}

func TestDefaultConfigPath(t *testing.T) {
	configPath, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Contains(t, configPath, "promortctl")
	assert.Equal(t, "promortctl.yaml", filepath.Base(configPath))
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LoggingConfig{Level: "info", Format: "json"}, buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("label", "R001").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"label":"R001"`)
	assert.Contains(t, out, `"message":"shown"`)
}
