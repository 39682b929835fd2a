package config

// Configuration loading and validation for artsel

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tturner/artsel/internal/errors"
	"github.com/tturner/artsel/internal/logging"
)

const (
	DefaultPath       = "artsel.yaml"
	DefaultBaseURL    = "https://api.artic.edu/api/v1/artworks"
	DefaultPageSize   = 12
	DefaultTimeoutMs  = 10000
	DefaultRatePerSec = 1.0
	DefaultBurst      = 5
	DefaultUserAgent  = "artsel (https://github.com/tturner/artsel)"

	// MaxLimit is the largest page the catalog API serves in one request.
	MaxLimit = 100
)

// APIConfig controls the catalog client.
type APIConfig struct {
	BaseURL    string  `yaml:"base_url"`
	PageSize   int     `yaml:"page_size"`
	TimeoutMs  int     `yaml:"timeout_ms"`
	RetryMax   int     `yaml:"retry_max"`    // 0 = fail fast
	RatePerSec float64 `yaml:"rate_per_sec"` // requests per second
	Burst      int     `yaml:"burst"`
	UserAgent  string  `yaml:"user_agent"`
}

// BulkConfig controls the bulk-select popover.
type BulkConfig struct {
	MaxCount int `yaml:"max_count"`
}

// LoggingConfig controls log level and destination.
type LoggingConfig struct {
	Level string `yaml:"level"` // silent|error|info|verbose|debug
	File  string `yaml:"file,omitempty"`
}

// Config is the artsel configuration file.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Bulk    BulkConfig    `yaml:"bulk"`
	Logging LoggingConfig `yaml:"logging"`
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutMs) * time.Millisecond
}

// LogLevel returns the parsed logging level; Validate guarantees it parses.
func (c *Config) LogLevel() logging.LogLevel {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}

// CreateDefaultConfig creates a configuration with every default filled in.
func CreateDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    DefaultBaseURL,
			PageSize:   DefaultPageSize,
			TimeoutMs:  DefaultTimeoutMs,
			RetryMax:   0,
			RatePerSec: DefaultRatePerSec,
			Burst:      DefaultBurst,
			UserAgent:  DefaultUserAgent,
		},
		Bulk: BulkConfig{
			MaxCount: MaxLimit,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// WriteDefaultConfig writes a default configuration to a file
func WriteDefaultConfig(path string) error {
	data, err := Marshal(CreateDefaultConfig())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// LoadConfig loads a configuration from a YAML file.
// A missing file yields the defaults unless required is set.
func LoadConfig(path string, required bool) (*Config, error) {
	if path == "" {
		return CreateDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !required {
				return CreateDefaultConfig(), nil
			}
			return nil, errors.WrapConfigError(
				fmt.Errorf("config file not found: %s", path),
				path,
			)
		}
		return nil, errors.WrapConfigError(
			fmt.Errorf("read config file: %w", err),
			path,
		)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.WrapConfigError(err, path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := CreateDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	ApplyDefaults(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills zero values that a partial file or flag override left behind.
func ApplyDefaults(cfg *Config) {
	cfg.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.PageSize == 0 {
		cfg.API.PageSize = DefaultPageSize
	}
	if cfg.API.TimeoutMs == 0 {
		cfg.API.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.API.RatePerSec == 0 {
		cfg.API.RatePerSec = DefaultRatePerSec
	}
	if cfg.API.Burst == 0 {
		cfg.API.Burst = DefaultBurst
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = DefaultUserAgent
	}
	if cfg.Bulk.MaxCount == 0 {
		cfg.Bulk.MaxCount = MaxLimit
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// ValidateConfig validates a configuration
func ValidateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be an http or https URL, got %q", cfg.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url has no host: %q", cfg.API.BaseURL)
	}
	if cfg.API.PageSize < 1 || cfg.API.PageSize > MaxLimit {
		return fmt.Errorf("api.page_size must be between 1 and %d, got %d", MaxLimit, cfg.API.PageSize)
	}
	if cfg.API.TimeoutMs < 0 {
		return fmt.Errorf("api.timeout_ms must be >= 0, got %d", cfg.API.TimeoutMs)
	}
	if cfg.API.RetryMax < 0 {
		return fmt.Errorf("api.retry_max must be >= 0, got %d", cfg.API.RetryMax)
	}
	if cfg.API.RatePerSec < 0 {
		return fmt.Errorf("api.rate_per_sec must be > 0, got %g", cfg.API.RatePerSec)
	}
	if cfg.API.Burst < 1 {
		return fmt.Errorf("api.burst must be >= 1, got %d", cfg.API.Burst)
	}
	if cfg.Bulk.MaxCount < 1 || cfg.Bulk.MaxCount > MaxLimit {
		return fmt.Errorf("bulk.max_count must be between 1 and %d, got %d", MaxLimit, cfg.Bulk.MaxCount)
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}
