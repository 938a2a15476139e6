// Package config handles environment variable loading for the database
// connection and logging.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values for the application.
type Config struct {
	// Database connection string
	DatabaseURL string

	// Minimum log level
	LogLevel slog.Level

	// Whether Prometheus metrics are collected
	MetricsEnabled bool
}

// Load reads configuration from environment variables. Values the CLI
// can also supply by flag or config file (the database URL) are not
// required here; the caller checks the merged result.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("WORKLOG_DATABASE_URL"),
		LogLevel:    slog.LevelInfo,
	}

	if levelStr := os.Getenv("WORKLOG_LOG_LEVEL"); levelStr != "" {
		level, err := ParseLevel(levelStr)
		if err != nil {
			return nil, fmt.Errorf("invalid WORKLOG_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	if metricsStr := os.Getenv("WORKLOG_METRICS"); metricsStr != "" {
		enabled, err := strconv.ParseBool(metricsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid WORKLOG_METRICS: %w", err)
		}
		cfg.MetricsEnabled = enabled
	}

	return cfg, nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
