package config

import (
	"os"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(tmpfile.Name()) })
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: text

telegram:
  enabled: true
  bot_token: "test_token"
  chat_id: "12345"

monitor:
  poll_interval: 30m
  drop_pct: -5.0
  gain_pct: 5.0

tickers:
  top_n: 25

default_market: india
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Monitor.PollInterval != 30*time.Minute {
		t.Errorf("unexpected poll interval: %v", cfg.Monitor.PollInterval)
	}
	th := cfg.Monitor.Thresholds()
	if th.DropPct != -5.0 || th.GainPct != 5.0 {
		t.Errorf("unexpected thresholds: %+v", th)
	}
	if cfg.Tickers.TopN != 25 {
		t.Errorf("unexpected top_n: %d", cfg.Tickers.TopN)
	}
	if cfg.DefaultMarket != "india" {
		t.Errorf("unexpected default market: %s", cfg.DefaultMarket)
	}

	// Built-in market table survives a partial config file.
	india, ok := cfg.Markets["india"]
	if !ok {
		t.Fatal("default india market missing")
	}
	if india.SymbolSuffix != ".NS" {
		t.Errorf("india suffix = %q, want .NS", india.SymbolSuffix)
	}
	hours, err := india.Hours()
	if err != nil {
		t.Fatalf("india.Hours: %v", err)
	}
	if hours.Open.String() != "09:15" || hours.Close.String() != "15:30" {
		t.Errorf("india hours = %s–%s", hours.Open, hours.Close)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateErrors(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Logging: LoggingConfig{Level: "info", Format: "json"},
			Monitor: MonitorConfig{PollInterval: time.Hour, DropPct: -2, GainPct: 1},
			Feed:    FeedConfig{BaseURL: "https://example.com"},
			Tickers: TickersConfig{TopN: 50},
			Markets: map[string]MarketConfig{
				"us": {
					Timezone:  "America/New_York",
					Open:      "09:30",
					Close:     "16:00",
					SourceURL: "https://example.com/sp500",
				},
			},
			DefaultMarket: "us",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"telegram enabled without token", func(c *Config) { c.Telegram = TelegramConfig{Enabled: true, ChatID: "1"} }},
		{"telegram enabled without chat", func(c *Config) { c.Telegram = TelegramConfig{Enabled: true, BotToken: "t"} }},
		{"poll interval too short", func(c *Config) { c.Monitor.PollInterval = 10 * time.Second }},
		{"positive drop threshold", func(c *Config) { c.Monitor.DropPct = 2 }},
		{"negative gain threshold", func(c *Config) { c.Monitor.GainPct = -1 }},
		{"missing feed url", func(c *Config) { c.Feed.BaseURL = "" }},
		{"zero top_n", func(c *Config) { c.Tickers.TopN = 0 }},
		{"no markets", func(c *Config) { c.Markets = nil }},
		{"bad timezone", func(c *Config) { m := c.Markets["us"]; m.Timezone = "Mars/Olympus"; c.Markets["us"] = m }},
		{"open after close", func(c *Config) { m := c.Markets["us"]; m.Open = "16:00"; m.Close = "09:30"; c.Markets["us"] = m }},
		{"missing source url", func(c *Config) { m := c.Markets["us"]; m.SourceURL = ""; c.Markets["us"] = m }},
		{"unknown default market", func(c *Config) { c.DefaultMarket = "tokyo" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			if err := cfg.Validate(); err != nil {
				t.Fatalf("baseline config invalid: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSource(t *testing.T) {
	cfg := &Config{
		Tickers: TickersConfig{TopN: 50},
		Markets: map[string]MarketConfig{
			"india": {SourceURL: "https://example.com/nifty", SymbolSuffix: ".NS"},
		},
	}
	src := cfg.Source("india")
	if src.Name != "india" || src.URL != "https://example.com/nifty" || src.Suffix != ".NS" || src.TopN != 50 {
		t.Errorf("unexpected source: %+v", src)
	}
}
