// Package api provides the HTTP server for the notes service. The JSON
// endpoints for notes live in the v1 subpackage.
package api

import (
	"fmt"
	"time"

	"github.com/labstack/gommon/bytes"

	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/logger"
)

// GetLogger returns the api package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("api")
}

// Default constants for the HTTP server.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMetricsPath     = "/metrics"
)

// Config holds the HTTP server configuration, flattened from conf.Settings.
type Config struct {
	// Server binding
	Host string
	Port int

	// Security settings
	AllowedOrigins   []string
	AllowCredentials bool

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Limits
	BodyLimit string

	// Rate limiting per client IP
	RateLimitEnabled bool
	RateLimit        float64
	RateLimitBurst   int
	RateLimitExpiry  time.Duration

	// Metrics endpoint, empty when disabled
	MetricsPath string

	// Reported by the health and welcome endpoints
	Environment string
	Version     string

	Debug bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:             5000,
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		ReadTimeout:      DefaultReadTimeout,
		WriteTimeout:     DefaultWriteTimeout,
		IdleTimeout:      DefaultIdleTimeout,
		ShutdownTimeout:  DefaultShutdownTimeout,
		BodyLimit:        "10M",
		MetricsPath:      DefaultMetricsPath,
		Environment:      conf.EnvDevelopment,
		Version:          conf.Version,
	}
}

// ConfigFromSettings creates a Config from the application settings.
func ConfigFromSettings(settings *conf.Settings) *Config {
	cfg := DefaultConfig()

	ws := settings.WebServer
	cfg.Host = ws.Host
	cfg.Port = ws.Port
	if len(ws.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = ws.AllowedOrigins
	}
	cfg.AllowCredentials = ws.AllowCredentials
	if ws.BodyLimit != "" {
		cfg.BodyLimit = ws.BodyLimit
	}
	if ws.ReadTimeout > 0 {
		cfg.ReadTimeout = ws.ReadTimeout
	}
	if ws.WriteTimeout > 0 {
		cfg.WriteTimeout = ws.WriteTimeout
	}
	if ws.IdleTimeout > 0 {
		cfg.IdleTimeout = ws.IdleTimeout
	}
	if ws.ShutdownTimeout > 0 {
		cfg.ShutdownTimeout = ws.ShutdownTimeout
	}
	cfg.Debug = ws.Debug

	rl := settings.RateLimit
	cfg.RateLimitEnabled = rl.Enabled
	cfg.RateLimit = rl.Rate
	cfg.RateLimitBurst = rl.Burst
	cfg.RateLimitExpiry = rl.ExpiresIn

	cfg.MetricsPath = ""
	if settings.Metrics.Enabled {
		cfg.MetricsPath = settings.Metrics.Path
		if cfg.MetricsPath == "" {
			cfg.MetricsPath = DefaultMetricsPath
		}
	}

	if settings.Main.Environment != "" {
		cfg.Environment = settings.Main.Environment
	}

	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := bytes.Parse(c.BodyLimit); err != nil {
		return fmt.Errorf("invalid body limit %q: %w", c.BodyLimit, err)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.RateLimitEnabled && (c.RateLimit <= 0 || c.RateLimitBurst < 1) {
		return fmt.Errorf("rate limit needs a positive rate and burst")
	}
	return nil
}

// Address returns the full address string for the server to listen on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// String returns a human-readable representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf("Server Config: address=%s, env=%s, metrics=%q, debug=%v",
		c.Address(), c.Environment, c.MetricsPath, c.Debug)
}
