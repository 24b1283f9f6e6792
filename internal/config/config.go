// Package config loads and validates the daemon configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"stockwatch/internal/marketclock"
	"stockwatch/internal/models"
	"stockwatch/internal/tickers"
)

// Config represents the complete application configuration.
type Config struct {
	Logging       LoggingConfig           `mapstructure:"logging"`
	Telegram      TelegramConfig          `mapstructure:"telegram"`
	Monitor       MonitorConfig           `mapstructure:"monitor"`
	Feed          FeedConfig              `mapstructure:"feed"`
	Tickers       TickersConfig           `mapstructure:"tickers"`
	Markets       map[string]MarketConfig `mapstructure:"markets"`
	DefaultMarket string                  `mapstructure:"default_market"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelegramConfig holds the notification channel credentials.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// MonitorConfig holds the polling cadence and alert thresholds.
type MonitorConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	DropPct       float64       `mapstructure:"drop_pct"`
	GainPct       float64       `mapstructure:"gain_pct"`
	NotifyTimeout time.Duration `mapstructure:"notify_timeout"`
}

// Thresholds returns the configured pair as a domain value.
func (m MonitorConfig) Thresholds() models.Thresholds {
	return models.Thresholds{DropPct: m.DropPct, GainPct: m.GainPct}
}

// FeedConfig holds price provider settings.
type FeedConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TickersConfig holds constituent-list scraping and caching settings.
type TickersConfig struct {
	CachePath string        `mapstructure:"cache_path"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	TopN      int           `mapstructure:"top_n"`
}

// MarketConfig describes one target market: its trading window and where
// its constituent list comes from.
type MarketConfig struct {
	Timezone     string `mapstructure:"timezone"`
	Open         string `mapstructure:"open"`
	Close        string `mapstructure:"close"`
	SourceURL    string `mapstructure:"source_url"`
	SymbolSuffix string `mapstructure:"symbol_suffix"`
}

// Hours resolves the market's trading window.
func (m MarketConfig) Hours() (marketclock.Hours, error) {
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return marketclock.Hours{}, fmt.Errorf("invalid timezone %q: %w", m.Timezone, err)
	}
	open, err := marketclock.ParseMinuteOfDay(m.Open)
	if err != nil {
		return marketclock.Hours{}, err
	}
	closeAt, err := marketclock.ParseMinuteOfDay(m.Close)
	if err != nil {
		return marketclock.Hours{}, err
	}
	return marketclock.Hours{Location: loc, Open: open, Close: closeAt}, nil
}

// Source builds the scraper source for the named market.
func (c *Config) Source(name string) tickers.Source {
	m := c.Markets[name]
	return tickers.Source{
		Name:   name,
		URL:    m.SourceURL,
		Suffix: m.SymbolSuffix,
		TopN:   c.Tickers.TopN,
	}
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)
	v.SetEnvPrefix("STOCKWATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("telegram.enabled", false)

	v.SetDefault("monitor.poll_interval", "1h")
	v.SetDefault("monitor.drop_pct", -2.0)
	v.SetDefault("monitor.gain_pct", 1.0)
	v.SetDefault("monitor.notify_timeout", "10s")

	v.SetDefault("feed.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("feed.timeout", "30s")

	v.SetDefault("tickers.cache_path", "")
	v.SetDefault("tickers.cache_ttl", "24h")
	v.SetDefault("tickers.top_n", 50)

	v.SetDefault("markets.us.timezone", "America/New_York")
	v.SetDefault("markets.us.open", "09:30")
	v.SetDefault("markets.us.close", "16:00")
	v.SetDefault("markets.us.source_url", "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies")
	v.SetDefault("markets.us.symbol_suffix", "")

	v.SetDefault("markets.india.timezone", "Asia/Kolkata")
	v.SetDefault("markets.india.open", "09:15")
	v.SetDefault("markets.india.close", "15:30")
	v.SetDefault("markets.india.source_url", "https://en.wikipedia.org/wiki/NIFTY_50")
	v.SetDefault("markets.india.symbol_suffix", ".NS")

	v.SetDefault("default_market", "us")
}

// Validate checks that all configuration values are usable. Nonsensical
// thresholds are rejected here rather than silently reinterpreted by the
// classifier's precedence rule.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	if c.Monitor.PollInterval < time.Minute {
		return fmt.Errorf("monitor.poll_interval must be at least 1 minute")
	}
	if err := c.Monitor.Thresholds().Validate(); err != nil {
		return fmt.Errorf("monitor thresholds: %w", err)
	}
	if c.Monitor.DropPct > c.Monitor.GainPct {
		return fmt.Errorf("monitor.drop_pct must not exceed monitor.gain_pct")
	}

	if c.Feed.BaseURL == "" {
		return fmt.Errorf("feed.base_url is required")
	}
	if c.Tickers.TopN < 1 {
		return fmt.Errorf("tickers.top_n must be at least 1")
	}

	if len(c.Markets) == 0 {
		return fmt.Errorf("at least one market must be configured")
	}
	for name, m := range c.Markets {
		hours, err := m.Hours()
		if err != nil {
			return fmt.Errorf("markets.%s: %w", name, err)
		}
		if hours.Open >= hours.Close {
			return fmt.Errorf("markets.%s: open must be before close", name)
		}
		if m.SourceURL == "" {
			return fmt.Errorf("markets.%s: source_url is required", name)
		}
	}
	if _, ok := c.Markets[c.DefaultMarket]; !ok {
		return fmt.Errorf("default_market %q is not a configured market", c.DefaultMarket)
	}

	return nil
}
