package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate(), "defaults must run out of the box in demo mode")
	require.True(t, cfg.Trading.DemoMode)
}

func TestLiveModeRequiresCredentials(t *testing.T) {
	cfg := Defaults()
	cfg.Trading.DemoMode = false

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "api_key")

	cfg.Bitget.ApiKey = "k"
	cfg.Bitget.ApiSecret = "s"
	cfg.Bitget.Passphrase = "p"
	require.NoError(t, cfg.Validate())
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.Trading.MarginMode = "hedged"
	cfg.Trading.CooldownSeconds = -1
	cfg.Feed.Interval = duration{0}

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "log_level")
	require.Contains(t, err.Error(), "margin_mode")
	require.Contains(t, err.Error(), "cooldown_seconds")
	require.Contains(t, err.Error(), "interval")
}

func TestLoadTOMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pokegear.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level = "debug"

[trading]
cooldown_seconds = 60
max_party_size = 3

[feed]
interval = "2s"
`), 0o600))

	t.Setenv("POKEGEAR_TRADING_MAX_PARTY_SIZE", "4")
	t.Setenv("POKEGEAR_BITGET_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 60, cfg.Trading.CooldownSeconds)
	require.Equal(t, 4, cfg.Trading.MaxPartySize, "env wins over TOML")
	require.Equal(t, "env-key", cfg.Bitget.ApiKey)
	require.Equal(t, 2*time.Second, cfg.Feed.Interval.Duration)
	require.Equal(t, "https://api.bitget.com", cfg.Bitget.BaseURL, "defaults survive partial files")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Defaults().Trading.MaxPartySize, cfg.Trading.MaxPartySize)
}
