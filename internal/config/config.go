package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anipix/anipix/internal/discovery"
	"github.com/anipix/anipix/internal/images"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings. Values come from defaults, then an optional
// YAML file, then ANIPIX_* environment variables, then command-line flags.
type Config struct {
	CatalogPath string        `yaml:"catalog"`
	Port        string        `yaml:"port"`
	LogLevel    string        `yaml:"log_level"`
	HistorySize int           `yaml:"history_size"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	Upstream    Upstream      `yaml:"upstream"`
}

// Upstream configures requests to the external image host
type Upstream struct {
	Referer       string        `yaml:"referer"`
	UserAgent     string        `yaml:"user_agent"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxBytes      int64         `yaml:"max_bytes"`
	MaxConcurrent int64         `yaml:"max_concurrent"`
	RateLimit     float64       `yaml:"rate_limit"`
	RateBurst     int           `yaml:"rate_burst"`
}

// Default returns the built-in configuration
func Default() Config {
	fetch := images.DefaultConfig()
	return Config{
		CatalogPath: "catalog.json",
		Port:        "8888",
		LogLevel:    "info",
		HistorySize: discovery.DefaultHistorySize,
		SessionTTL:  2 * time.Hour,
		Upstream: Upstream{
			Referer:       fetch.Referer,
			UserAgent:     fetch.UserAgent,
			Timeout:       fetch.Timeout,
			MaxBytes:      fetch.MaxBytes,
			MaxConcurrent: fetch.MaxConcurrent,
			RateLimit:     fetch.RateLimit,
			RateBurst:     fetch.RateBurst,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path is
// non-empty) and the environment
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ANIPIX_CATALOG"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv("ANIPIX_PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("ANIPIX_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ANIPIX_UPSTREAM_REFERER"); v != "" {
		c.Upstream.Referer = v
	}
	if v := os.Getenv("ANIPIX_UPSTREAM_USER_AGENT"); v != "" {
		c.Upstream.UserAgent = v
	}
	if v := os.Getenv("ANIPIX_UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ANIPIX_UPSTREAM_TIMEOUT: %w", err)
		}
		c.Upstream.Timeout = d
	}
	if v := os.Getenv("ANIPIX_UPSTREAM_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid ANIPIX_UPSTREAM_RATE_LIMIT: %w", err)
		}
		c.Upstream.RateLimit = f
	}
	return nil
}

// FetchConfig converts the upstream section for the image fetcher
func (c Config) FetchConfig() images.Config {
	return images.Config{
		Referer:       c.Upstream.Referer,
		UserAgent:     c.Upstream.UserAgent,
		Timeout:       c.Upstream.Timeout,
		MaxBytes:      c.Upstream.MaxBytes,
		MaxConcurrent: c.Upstream.MaxConcurrent,
		RateLimit:     c.Upstream.RateLimit,
		RateBurst:     c.Upstream.RateBurst,
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
