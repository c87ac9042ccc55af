package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/planboard/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Board.NotificationTTL)
	assert.Equal(t, "2023-01-01", cfg.Board.BaseDate)
	require.NoError(t, cfg.Validate())

	base, err := cfg.BaseDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), base)
}

func TestLoadMissingDefaultPath(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, Default().API, cfg.API)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigNotFound, errors.CodeOf(err))
}

func TestLoadOverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("PB_TEST_HOST", "scheduler.internal")
	path := writeConfig(t, `
api:
  base_url: http://${PB_TEST_HOST}:9000/api/v1
  max_retries: 0
board:
  chart_width: 80
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "http://scheduler.internal:9000/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 0, cfg.API.MaxRetries)
	assert.Equal(t, 80, cfg.Board.ChartWidth)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout, "unset keys keep defaults")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://plans.example.com/api/v1")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, "https://plans.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "api: [unterminated"},
		{"relative url", "api:\n  base_url: /api/v1\n"},
		{"negative retries", "api:\n  max_retries: -1\n"},
		{"narrow chart", "board:\n  chart_width: 3\n"},
		{"tooltip too wide", "board:\n  tooltip_width_pct: 150\n"},
		{"bad base date", "board:\n  base_date: 01/01/2023\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad sample rate", "telemetry:\n  sample_rate: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), true)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeConfigInvalid, errors.CodeOf(err))
		})
	}
}
