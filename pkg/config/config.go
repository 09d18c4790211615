package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Pinterest scraper
type Config struct {
	// Pinterest endpoints and session conventions
	Pinterest PinterestConfig `yaml:"pinterest" json:"pinterest"`

	// Headless browser settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Scrape pipeline tuning
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Output locations
	Output OutputConfig `yaml:"output" json:"output"`

	// Run scheduling
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PinterestConfig holds Pinterest-specific configuration
type PinterestConfig struct {
	BaseURL           string `yaml:"base_url" json:"base_url"`
	LoginURL          string `yaml:"login_url" json:"login_url"`
	SessionCookieName string `yaml:"session_cookie_name" json:"session_cookie_name"`
	CookieDomain      string `yaml:"cookie_domain" json:"cookie_domain"`
	SessionEnvPrefix  string `yaml:"session_env_prefix" json:"session_env_prefix"`
	Email             string `yaml:"email" json:"email"`
	Password          string `yaml:"password" json:"password"`
	UserAgent         string `yaml:"user_agent" json:"user_agent"`
}

// BrowserConfig holds headless browser configuration
type BrowserConfig struct {
	BinPath           string        `yaml:"bin_path" json:"bin_path"`
	Headless          bool          `yaml:"headless" json:"headless"`
	NoSandbox         bool          `yaml:"no_sandbox" json:"no_sandbox"`
	Width             int           `yaml:"width" json:"width"`
	Height            int           `yaml:"height" json:"height"`
	DeviceScaleFactor float64       `yaml:"device_scale_factor" json:"device_scale_factor"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
	SelectorTimeout   time.Duration `yaml:"selector_timeout" json:"selector_timeout"`
}

// ScrapeConfig holds scrape pipeline configuration. Wait durations are
// configuration rather than embedded literals so tests can run with
// near-zero settle times against fixture pages.
type ScrapeConfig struct {
	SettleWait      time.Duration `yaml:"settle_wait" json:"settle_wait"`
	ExtraSettleWait time.Duration `yaml:"extra_settle_wait" json:"extra_settle_wait"`
	ScrollCycles    int           `yaml:"scroll_cycles" json:"scroll_cycles"`
	ScrollWait      time.Duration `yaml:"scroll_wait" json:"scroll_wait"`
	LoadMore        bool          `yaml:"load_more" json:"load_more"`
	MaxPins         int           `yaml:"max_pins" json:"max_pins"`
	TitleMaxLen     int           `yaml:"title_max_len" json:"title_max_len"`
	DescMaxLen      int           `yaml:"desc_max_len" json:"desc_max_len"`
	PagesPerMinute  int           `yaml:"pages_per_minute" json:"pages_per_minute"`
}

// OutputConfig holds data and site output configuration
type OutputConfig struct {
	DataDirectory   string `yaml:"data_directory" json:"data_directory"`
	PublicDirectory string `yaml:"public_directory" json:"public_directory"`
	FeedsFile       string `yaml:"feeds_file" json:"feeds_file"`
	BaseURL         string `yaml:"base_url" json:"base_url"`
}

// ScheduleConfig holds run scheduling configuration. The timezone is fixed
// per deployment; weekday schedules are evaluated in it, never in the
// executing host's local zone.
type ScheduleConfig struct {
	Timezone string `yaml:"timezone" json:"timezone"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Pinterest: PinterestConfig{
			BaseURL:           "https://www.pinterest.com",
			LoginURL:          "https://www.pinterest.com/login/",
			SessionCookieName: "_pinterest_sess",
			CookieDomain:      ".pinterest.com",
			SessionEnvPrefix:  "PINFEED_SESSION",
			UserAgent:         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Browser: BrowserConfig{
			Headless:          true,
			NoSandbox:         true,
			Width:             1920,
			Height:            1080,
			DeviceScaleFactor: 2,
			NavigationTimeout: 60 * time.Second,
			SelectorTimeout:   10 * time.Second,
		},
		Scrape: ScrapeConfig{
			SettleWait:      3 * time.Second,
			ExtraSettleWait: 3 * time.Second,
			ScrollCycles:    2,
			ScrollWait:      2 * time.Second,
			LoadMore:        true,
			MaxPins:         15,
			TitleMaxLen:     100,
			DescMaxLen:      300,
			PagesPerMinute:  6,
		},
		Output: OutputConfig{
			DataDirectory:   "./data",
			PublicDirectory: "./public",
			FeedsFile:       "./feeds.json",
		},
		Schedule: ScheduleConfig{
			Timezone: "UTC",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration overrides from environment variables.
// Session secrets themselves are looked up per user by the auth package,
// not here.
func (c *Config) LoadFromEnv() error {
	if email := os.Getenv("PINFEED_EMAIL"); email != "" {
		c.Pinterest.Email = email
	}
	if password := os.Getenv("PINFEED_PASSWORD"); password != "" {
		c.Pinterest.Password = password
	}
	if ua := os.Getenv("PINFEED_USER_AGENT"); ua != "" {
		c.Pinterest.UserAgent = ua
	}
	if dataDir := os.Getenv("PINFEED_DATA_DIR"); dataDir != "" {
		c.Output.DataDirectory = dataDir
	}
	if publicDir := os.Getenv("PINFEED_PUBLIC_DIR"); publicDir != "" {
		c.Output.PublicDirectory = publicDir
	}
	if feedsFile := os.Getenv("PINFEED_FEEDS_FILE"); feedsFile != "" {
		c.Output.FeedsFile = feedsFile
	}
	if tz := os.Getenv("PINFEED_TIMEZONE"); tz != "" {
		c.Schedule.Timezone = tz
	}
	if maxPins := os.Getenv("PINFEED_MAX_PINS"); maxPins != "" {
		var val int
		fmt.Sscanf(maxPins, "%d", &val)
		if val > 0 {
			c.Scrape.MaxPins = val
		}
	}
	if logLevel := os.Getenv("PINFEED_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".pinfeed.yaml",
		".pinfeed.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "pinfeed", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "pinfeed", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".pinfeed.yaml"),
		filepath.Join(os.Getenv("HOME"), ".pinfeed.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Pinterest.BaseURL == "" {
		errs = append(errs, errors.New("pinterest base URL is required"))
	}
	if c.Pinterest.SessionCookieName == "" {
		errs = append(errs, errors.New("session cookie name is required"))
	}
	if c.Pinterest.SessionEnvPrefix == "" {
		errs = append(errs, errors.New("session env prefix is required"))
	}

	if c.Browser.Width <= 0 || c.Browser.Height <= 0 {
		errs = append(errs, errors.New("browser viewport dimensions must be positive"))
	}
	if c.Browser.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}
	if c.Browser.SelectorTimeout <= 0 {
		errs = append(errs, errors.New("selector timeout must be positive"))
	}

	if c.Scrape.MaxPins <= 0 {
		errs = append(errs, errors.New("max pins must be positive"))
	}
	if c.Scrape.TitleMaxLen <= 0 || c.Scrape.DescMaxLen <= 0 {
		errs = append(errs, errors.New("title and description caps must be positive"))
	}
	if c.Scrape.ScrollCycles < 0 {
		errs = append(errs, errors.New("scroll cycles cannot be negative"))
	}
	if c.Scrape.PagesPerMinute <= 0 {
		errs = append(errs, errors.New("pages per minute must be positive"))
	}

	if c.Output.DataDirectory == "" {
		errs = append(errs, errors.New("data directory is required"))
	}
	if c.Output.FeedsFile == "" {
		errs = append(errs, errors.New("feeds file is required"))
	}

	if c.Schedule.Timezone == "" {
		errs = append(errs, errors.New("schedule timezone is required"))
	} else if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid schedule timezone: %w", err))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if feedsFile, ok := flags["feeds"].(string); ok && feedsFile != "" {
		c.Output.FeedsFile = feedsFile
	}
	if dataDir, ok := flags["data-dir"].(string); ok && dataDir != "" {
		c.Output.DataDirectory = dataDir
	}
	if publicDir, ok := flags["public-dir"].(string); ok && publicDir != "" {
		c.Output.PublicDirectory = publicDir
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Output.BaseURL = baseURL
	}
	if maxPins, ok := flags["max-pins"].(int); ok && maxPins > 0 {
		c.Scrape.MaxPins = maxPins
	}
	if tz, ok := flags["timezone"].(string); ok && tz != "" {
		c.Schedule.Timezone = tz
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".pinfeed.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
