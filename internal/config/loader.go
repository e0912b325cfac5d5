package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POKEGEAR_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
// A missing file is not an error; defaults plus env overrides apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, err
			}
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POKEGEAR_* environment variables
// and overwrites the corresponding Config fields when a variable is set.
// This lets operators inject secrets without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Bitget ──
	setStr(&cfg.Bitget.BaseURL, "POKEGEAR_BITGET_BASE_URL")
	setStr(&cfg.Bitget.ApiKey, "POKEGEAR_BITGET_API_KEY")
	setStr(&cfg.Bitget.ApiSecret, "POKEGEAR_BITGET_API_SECRET")
	setStr(&cfg.Bitget.Passphrase, "POKEGEAR_BITGET_PASSPHRASE")

	// ── Trading ──
	setBool(&cfg.Trading.DemoMode, "POKEGEAR_TRADING_DEMO_MODE")
	setStr(&cfg.Trading.MarginMode, "POKEGEAR_TRADING_MARGIN_MODE")
	setInt(&cfg.Trading.CooldownSeconds, "POKEGEAR_TRADING_COOLDOWN_SECONDS")
	setInt(&cfg.Trading.MaxPartySize, "POKEGEAR_TRADING_MAX_PARTY_SIZE")
	setFloat64(&cfg.Trading.EnergyReserve, "POKEGEAR_TRADING_ENERGY_RESERVE")
	setFloat64(&cfg.Trading.EnergyScale, "POKEGEAR_TRADING_ENERGY_SCALE")
	setInt(&cfg.Trading.DefaultLeverage, "POKEGEAR_TRADING_DEFAULT_LEVERAGE")

	// ── Feed ──
	setDuration(&cfg.Feed.Interval, "POKEGEAR_FEED_INTERVAL")

	// ── Adapter ──
	setInt(&cfg.Adapter.MaxInflight, "POKEGEAR_ADAPTER_MAX_INFLIGHT")
	setDuration(&cfg.Adapter.CallTimeout, "POKEGEAR_ADAPTER_CALL_TIMEOUT")
	setDuration(&cfg.Adapter.MetaTTL, "POKEGEAR_ADAPTER_META_TTL")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "POKEGEAR_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "POKEGEAR_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "POKEGEAR_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "POKEGEAR_REDIS_POOL_SIZE")
	setBool(&cfg.Redis.TLSEnabled, "POKEGEAR_REDIS_TLS_ENABLED")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "POKEGEAR_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
