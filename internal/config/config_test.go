package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oak/sentiment-widget/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// 缺失的配置文件不应导致失败
	// A missing env file falls back to defaults
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, sentiment.Period24h, cfg.DefaultPeriod)
	assert.Equal(t, 5, cfg.BreakerMaxFailures)
	assert.Equal(t, 30*time.Second, cfg.BreakerOpenTimeout)
	assert.Equal(t, time.Minute, cfg.WatchInterval)
	assert.Equal(t, 8080, cfg.WebPort)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "SENTIMENT_API_URL=https://example.test/analysis\n" +
		"SENTIMENT_DEFAULT_PERIOD=7d\n" +
		"SENTIMENT_TIMEOUT=5s\n" +
		"WEB_PORT=9090\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/analysis", cfg.SentimentAPIURL)
	assert.Equal(t, sentiment.Period7d, cfg.DefaultPeriod)
	assert.Equal(t, 5*time.Second, cfg.SentimentTimeout)
	assert.Equal(t, 9090, cfg.WebPort)
}

func TestLoadConfigRejectsUnknownPeriod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("SENTIMENT_DEFAULT_PERIOD=1y\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, sentiment.ErrUnknownPeriod)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			SentimentAPIURL:    "http://localhost",
			BreakerMaxFailures: 3,
			RefreshRatePerMin:  6,
			WatchInterval:      time.Minute,
			WatchMaxInterval:   5 * time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing url", func(c *Config) { c.SentimentAPIURL = "" }, true},
		{"negative timeout", func(c *Config) { c.SentimentTimeout = -time.Second }, true},
		{"zero breaker", func(c *Config) { c.BreakerMaxFailures = 0 }, true},
		{"zero refresh rate", func(c *Config) { c.RefreshRatePerMin = 0 }, true},
		{"max below interval", func(c *Config) { c.WatchMaxInterval = time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
