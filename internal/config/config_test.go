package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tturner/artsel/internal/logging"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "ftp base url", mutate: func(c *Config) { c.API.BaseURL = "ftp://example.test/artworks" }, wantErr: true},
		{name: "no host", mutate: func(c *Config) { c.API.BaseURL = "https:///artworks" }, wantErr: true},
		{name: "page size zero", mutate: func(c *Config) { c.API.PageSize = 0 }, wantErr: true},
		{name: "page size too large", mutate: func(c *Config) { c.API.PageSize = 101 }, wantErr: true},
		{name: "page size max", mutate: func(c *Config) { c.API.PageSize = 100 }},
		{name: "negative retries", mutate: func(c *Config) { c.API.RetryMax = -1 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.API.TimeoutMs = -5 }, wantErr: true},
		{name: "zero burst", mutate: func(c *Config) { c.API.Burst = 0 }, wantErr: true},
		{name: "bulk max too large", mutate: func(c *Config) { c.Bulk.MaxCount = 500 }, wantErr: true},
		{name: "bulk max small", mutate: func(c *Config) { c.Bulk.MaxCount = 10 }},
		{name: "unknown level", mutate: func(c *Config) { c.Logging.Level = "chatty" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := CreateDefaultConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParse_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("api:\n  page_size: 25\nlogging:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.API.PageSize)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultBurst, cfg.API.Burst)
	assert.Equal(t, 0, cfg.API.RetryMax)
	assert.Equal(t, MaxLimit, cfg.Bulk.MaxCount)
	assert.Equal(t, logging.LogLevelDebug, cfg.LogLevel())
	assert.Equal(t, 10*time.Second, cfg.Timeout())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("api: [not, a, map]"))
	require.Error(t, err)

	_, err = Parse([]byte("api:\n  page_size: 1000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_size")
}

func TestLoadConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, cfg.API.PageSize)

	_, err = LoadConfig(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("", true)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artsel.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: "+DefaultBaseURL)

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, CreateDefaultConfig(), cfg)
}

func TestLoadConfig_InvalidFileWrapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artsel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bulk:\n  max_count: 0\napi:\n  burst: -1\n"), 0o644))

	_, err := LoadConfig(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Configuration error in "+path)
}
