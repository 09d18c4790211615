package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://www.pinterest.com", cfg.Pinterest.BaseURL)
	assert.Equal(t, "_pinterest_sess", cfg.Pinterest.SessionCookieName)
	assert.Equal(t, "PINFEED_SESSION", cfg.Pinterest.SessionEnvPrefix)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 15, cfg.Scrape.MaxPins)
	assert.Equal(t, "UTC", cfg.Schedule.Timezone)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base URL", func(c *Config) { c.Pinterest.BaseURL = "" }},
		{"missing cookie name", func(c *Config) { c.Pinterest.SessionCookieName = "" }},
		{"missing env prefix", func(c *Config) { c.Pinterest.SessionEnvPrefix = "" }},
		{"zero viewport", func(c *Config) { c.Browser.Width = 0 }},
		{"zero navigation timeout", func(c *Config) { c.Browser.NavigationTimeout = 0 }},
		{"zero max pins", func(c *Config) { c.Scrape.MaxPins = 0 }},
		{"negative scroll cycles", func(c *Config) { c.Scrape.ScrollCycles = -1 }},
		{"zero pages per minute", func(c *Config) { c.Scrape.PagesPerMinute = 0 }},
		{"missing data directory", func(c *Config) { c.Output.DataDirectory = "" }},
		{"bad timezone", func(c *Config) { c.Schedule.Timezone = "Mars/Olympus" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pinterest:
  base_url: https://www.pinterest.de
scrape:
  max_pins: 20
  settle_wait: 5s
schedule:
  timezone: Europe/Berlin
`), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "https://www.pinterest.de", cfg.Pinterest.BaseURL)
	assert.Equal(t, 20, cfg.Scrape.MaxPins)
	assert.Equal(t, 5*time.Second, cfg.Scrape.SettleWait)
	assert.Equal(t, "Europe/Berlin", cfg.Schedule.Timezone)
	// Untouched fields keep defaults
	assert.Equal(t, "_pinterest_sess", cfg.Pinterest.SessionCookieName)
}

func TestLoadFromFileMissingPathIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.LoadFromFile(""))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PINFEED_EMAIL", "user@example.com")
	t.Setenv("PINFEED_MAX_PINS", "7")
	t.Setenv("PINFEED_TIMEZONE", "America/New_York")
	t.Setenv("PINFEED_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "user@example.com", cfg.Pinterest.Email)
	assert.Equal(t, 7, cfg.Scrape.MaxPins)
	assert.Equal(t, "America/New_York", cfg.Schedule.Timezone)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"feeds":     "custom-feeds.yaml",
		"data-dir":  "/var/lib/pinfeed",
		"max-pins":  5,
		"timezone":  "Asia/Tokyo",
		"headless":  false,
		"log-level": "warn",
	})

	assert.Equal(t, "custom-feeds.yaml", cfg.Output.FeedsFile)
	assert.Equal(t, "/var/lib/pinfeed", cfg.Output.DataDirectory)
	assert.Equal(t, 5, cfg.Scrape.MaxPins)
	assert.Equal(t, "Asia/Tokyo", cfg.Schedule.Timezone)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Scrape.MaxPins = 9
	require.NoError(t, cfg.Save(path))

	reloaded := DefaultConfig()
	require.NoError(t, reloaded.LoadFromFile(path))
	assert.Equal(t, 9, reloaded.Scrape.MaxPins)
}
