// Package config defines the top-level configuration for the pokegear
// console and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from
// a TOML file and then optionally overridden by POKEGEAR_* environment
// variables.
type Config struct {
	Bitget   BitgetConfig   `toml:"bitget"`
	Trading  TradingConfig  `toml:"trading"`
	Feed     FeedConfig     `toml:"feed"`
	Adapter  AdapterConfig  `toml:"adapter"`
	Redis    RedisConfig    `toml:"redis"`
	LogLevel string         `toml:"log_level"`
}

// BitgetConfig holds exchange API endpoints and credentials. Leaving the
// credentials empty locks trading; market data still works.
type BitgetConfig struct {
	BaseURL    string `toml:"base_url"`
	ApiKey     string `toml:"api_key"`
	ApiSecret  string `toml:"api_secret"`
	Passphrase string `toml:"passphrase"`
}

// TradingConfig holds guardrails and order defaults. EnergyScale is the
// available USDT at which the energy bar reads full.
type TradingConfig struct {
	DemoMode        bool    `toml:"demo_mode"`
	MarginMode      string  `toml:"margin_mode"`
	CooldownSeconds int     `toml:"cooldown_seconds"`
	MaxPartySize    int     `toml:"max_party_size"`
	EnergyReserve   float64 `toml:"energy_reserve"`
	EnergyScale     float64 `toml:"energy_scale"`
	DefaultLeverage int     `toml:"default_leverage"`
}

// FeedConfig holds price feed polling parameters.
type FeedConfig struct {
	Interval duration `toml:"interval"`
}

// AdapterConfig bounds concurrent exchange calls.
type AdapterConfig struct {
	MaxInflight int      `toml:"max_inflight"`
	CallTimeout duration `toml:"call_timeout"`
	MetaTTL     duration `toml:"meta_ttl"`
}

// RedisConfig holds optional Redis connection parameters. An empty addr
// disables the price mirror, signal bus and distributed locks.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// duration wraps time.Duration for TOML decoding of strings like "5s".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validMarginModes = map[string]bool{
	"crossed":  true,
	"isolated": true,
}

// Defaults returns a Config with sane defaults for demo use.
func Defaults() Config {
	return Config{
		Bitget: BitgetConfig{
			BaseURL: "https://api.bitget.com",
		},
		Trading: TradingConfig{
			DemoMode:        true,
			MarginMode:      "crossed",
			CooldownSeconds: 30,
			MaxPartySize:    6,
			EnergyReserve:   25,
			EnergyScale:     1000,
			DefaultLeverage: 5,
		},
		Feed: FeedConfig{
			Interval: duration{5 * time.Second},
		},
		Adapter: AdapterConfig{
			MaxInflight: 4,
			CallTimeout: duration{10 * time.Second},
			MetaTTL:     duration{time.Minute},
		},
		Redis: RedisConfig{
			Addr:     "",
			PoolSize: 10,
		},
		LogLevel: "info",
	}
}

// CooldownDuration returns the per-species cooldown as a duration.
func (t *TradingConfig) CooldownDuration() time.Duration {
	return time.Duration(t.CooldownSeconds) * time.Second
}

// HasCredentials reports whether the exchange credential triple is set.
func (c *BitgetConfig) HasCredentials() bool {
	return c.ApiKey != "" && c.ApiSecret != "" && c.Passphrase != ""
}

// Validate checks the configuration for inconsistencies and returns a
// combined error listing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Bitget.BaseURL == "" {
		errs = append(errs, "bitget: base_url must not be empty")
	}
	if !c.Trading.DemoMode && !c.Bitget.HasCredentials() {
		errs = append(errs, "bitget: api_key, api_secret and passphrase are required when demo_mode is off")
	}

	if !validMarginModes[strings.ToLower(c.Trading.MarginMode)] {
		errs = append(errs, fmt.Sprintf("trading: unknown margin_mode %q (valid: crossed, isolated)", c.Trading.MarginMode))
	}
	if c.Trading.CooldownSeconds < 0 {
		errs = append(errs, "trading: cooldown_seconds must not be negative")
	}
	if c.Trading.MaxPartySize < 0 {
		errs = append(errs, "trading: max_party_size must not be negative")
	}
	if c.Trading.EnergyReserve < 0 {
		errs = append(errs, "trading: energy_reserve must not be negative")
	}
	if c.Trading.EnergyScale < 0 {
		errs = append(errs, "trading: energy_scale must not be negative")
	}
	if c.Trading.DefaultLeverage < 1 {
		errs = append(errs, "trading: default_leverage must be at least 1")
	}

	if c.Feed.Interval.Duration <= 0 {
		errs = append(errs, "feed: interval must be positive")
	}
	if c.Adapter.MaxInflight <= 0 {
		errs = append(errs, "adapter: max_inflight must be positive")
	}
	if c.Adapter.CallTimeout.Duration <= 0 {
		errs = append(errs, "adapter: call_timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
