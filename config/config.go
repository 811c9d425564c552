// Package config loads the CLI settings from FETCHER_* environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. FETCHER_LOG_LEVEL.
const Prefix = "FETCHER"

// Config struct for environment variables.
type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"WARN"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	UserAgent         string        `envconfig:"USER_AGENT" default:"fetcher/dev"`
	ConnectTimeout    time.Duration `envconfig:"CONNECT_TIMEOUT" default:"0s"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"0s"`
	NoFollowRedirects bool          `envconfig:"NO_FOLLOW_REDIRECTS" default:"false"`

	// BaseDir anchors relative file paths from call and batch input.
	// Empty means the working directory.
	BaseDir string `envconfig:"BASE_DIR"`
	Workers int    `envconfig:"WORKERS" default:"4"`

	Throttle struct {
		RPS   int `envconfig:"RPS" default:"0"`
		Burst int `envconfig:"BURST" default:"1"`
	} `envconfig:"THROTTLE"`
}

// Load reads environment variables and populates the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("error processing env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.ConnectTimeout < 0 || c.ReadTimeout < 0:
		return fmt.Errorf("timeouts must not be negative")
	case c.Workers < 0:
		return fmt.Errorf("workers[%d] must not be negative", c.Workers)
	case c.Throttle.RPS < 0 || c.Throttle.Burst < 0:
		return fmt.Errorf("throttle rps[%d] and burst[%d] must not be negative", c.Throttle.RPS, c.Throttle.Burst)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}

	return nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds the handler selected by LogFormat at LogLevel, writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}

	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
