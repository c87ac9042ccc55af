// Package config loads planboard settings from YAML.
//
// Settings are layered: built-in defaults, then the user config file
// (~/.planboard/config.yaml, or the path given with --config), then the
// PLANBOARD_API_URL and PLANBOARD_LOG_LEVEL environment overrides.
package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/planboard/internal/errors"
)

//go:embed default.yaml
var defaultYAML []byte

// Environment overrides
const (
	EnvAPIURL   = "PLANBOARD_API_URL"
	EnvLogLevel = "PLANBOARD_LOG_LEVEL"
)

// DateLayout is the layout of board.base_date
const DateLayout = "2006-01-02"

// Config is the complete planboard configuration
type Config struct {
	API       APIConfig       `yaml:"api" json:"api"`
	Board     BoardConfig     `yaml:"board" json:"board"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Server    ServerConfig    `yaml:"server" json:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
}

// APIConfig describes how to reach the scheduler service
type APIConfig struct {
	BaseURL    string        `yaml:"base_url" json:"baseUrl"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetries int           `yaml:"max_retries" json:"maxRetries"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retryDelay"`
}

// BoardConfig tunes the terminal board and the timeline projection
type BoardConfig struct {
	NotificationTTL time.Duration `yaml:"notification_ttl" json:"notificationTtl"`
	ChartWidth      int           `yaml:"chart_width" json:"chartWidth"`
	TooltipWidthPct float64       `yaml:"tooltip_width_pct" json:"tooltipWidthPct"`
	BaseDate        string        `yaml:"base_date" json:"baseDate"`
}

// LogConfig selects log level, format and destination
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// ServerConfig configures `planboard serve`
type ServerConfig struct {
	Address         string        `yaml:"address" json:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdownTimeout"`
}

// TelemetryConfig configures OpenTelemetry tracing
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" json:"enabled"`
	Endpoint   string  `yaml:"endpoint" json:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" json:"sampleRate"`
}

// Default returns the built-in configuration
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return &cfg
}

// Load builds the effective configuration. An explicit path must exist; the
// default path is optional.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, errors.NewConfigInvalidError(path, fmt.Errorf("unmarshal config: %w", err))
		}
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return nil, errors.NewConfigNotFoundError(path)
	default:
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "read config file", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigInvalidError(path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries cannot be negative")
	}
	if c.API.RetryDelay < 0 {
		return fmt.Errorf("api.retry_delay cannot be negative")
	}

	if c.Board.NotificationTTL <= 0 {
		return fmt.Errorf("board.notification_ttl must be positive")
	}
	if c.Board.ChartWidth < 10 {
		return fmt.Errorf("board.chart_width must be at least 10")
	}
	if c.Board.TooltipWidthPct <= 0 || c.Board.TooltipWidthPct > 100 {
		return fmt.Errorf("board.tooltip_width_pct must be in (0, 100]")
	}
	if _, err := c.BaseDate(); err != nil {
		return fmt.Errorf("board.base_date: %w", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}

	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be between 0 and 1")
	}
	return nil
}

// BaseDate parses board.base_date, the day that schedule day offsets count from
func (c *Config) BaseDate() (time.Time, error) {
	return time.Parse(DateLayout, c.Board.BaseDate)
}
