package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/oak/sentiment-widget/internal/sentiment"
	"github.com/spf13/viper"
)

// Config holds all configuration for the sentiment widget
type Config struct {
	// Upstream sentiment source
	// 上游情绪数据源
	SentimentAPIURL  string
	SentimentAPIKey  string
	SentimentTimeout time.Duration // 0 means wait until the transport gives up

	// Circuit breaker around the upstream
	BreakerMaxFailures int           // consecutive failures before the breaker opens
	BreakerOpenTimeout time.Duration // how long the breaker stays open before probing again

	// Widget behaviour
	DefaultPeriod     sentiment.Period
	RefreshRatePerMin int // manual refreshes allowed per minute on the web API

	// Watch mode (CLI polling)
	WatchInterval    time.Duration
	WatchMaxInterval time.Duration

	// Debug options
	DebugMode bool

	// Web server
	WebPort int
}

// LoadConfig loads configuration from .env file or a custom path
// LoadConfig 从 .env 文件或自定义路径加载配置
func LoadConfig(pathToEnv string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Determine which config file to load
	configPath := ".env"
	if pathToEnv != "" {
		configPath = pathToEnv
	}

	v.SetConfigFile(configPath)

	// Attempt to read config file, but don't fail if it doesn't exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file from %s: %w", configPath, err)
		}
	}

	setDefaults(v)

	period, err := sentiment.ParsePeriod(v.GetString("SENTIMENT_DEFAULT_PERIOD"))
	if err != nil {
		return nil, fmt.Errorf("SENTIMENT_DEFAULT_PERIOD: %w", err)
	}

	cfg := &Config{
		SentimentAPIURL:  v.GetString("SENTIMENT_API_URL"),
		SentimentAPIKey:  v.GetString("SENTIMENT_API_KEY"),
		SentimentTimeout: v.GetDuration("SENTIMENT_TIMEOUT"),

		BreakerMaxFailures: v.GetInt("BREAKER_MAX_FAILURES"),
		BreakerOpenTimeout: v.GetDuration("BREAKER_OPEN_TIMEOUT"),

		DefaultPeriod:     period,
		RefreshRatePerMin: v.GetInt("REFRESH_RATE_PER_MIN"),

		WatchInterval:    v.GetDuration("WATCH_INTERVAL"),
		WatchMaxInterval: v.GetDuration("WATCH_MAX_INTERVAL"),

		DebugMode: v.GetBool("DEBUG_MODE"),

		WebPort: v.GetInt("WEB_PORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SENTIMENT_API_URL", "http://localhost:3000/api/analysis")
	v.SetDefault("SENTIMENT_TIMEOUT", "0s")
	v.SetDefault("SENTIMENT_DEFAULT_PERIOD", string(sentiment.Period24h))

	v.SetDefault("BREAKER_MAX_FAILURES", 5)
	v.SetDefault("BREAKER_OPEN_TIMEOUT", "30s")

	v.SetDefault("REFRESH_RATE_PER_MIN", 12)

	v.SetDefault("WATCH_INTERVAL", "1m")
	v.SetDefault("WATCH_MAX_INTERVAL", "10m")

	v.SetDefault("DEBUG_MODE", false)

	v.SetDefault("WEB_PORT", 8080)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.SentimentAPIURL == "" {
		return fmt.Errorf("SENTIMENT_API_URL is required")
	}

	if c.SentimentTimeout < 0 {
		return fmt.Errorf("SENTIMENT_TIMEOUT must not be negative")
	}

	if c.BreakerMaxFailures <= 0 {
		return fmt.Errorf("BREAKER_MAX_FAILURES must be greater than 0")
	}

	if c.RefreshRatePerMin <= 0 {
		return fmt.Errorf("REFRESH_RATE_PER_MIN must be greater than 0")
	}

	if c.WatchInterval <= 0 {
		return fmt.Errorf("WATCH_INTERVAL must be greater than 0")
	}

	if c.WatchMaxInterval < c.WatchInterval {
		return fmt.Errorf("WATCH_MAX_INTERVAL must be >= WATCH_INTERVAL")
	}

	return nil
}
