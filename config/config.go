// Package config provides configuration loading for chatmd using TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"chatmd/collector"
)

// Fetcher configures how pages are acquired.
type Fetcher struct {
	UserAgent      string `toml:"userAgent"`
	TimeoutSeconds int    `toml:"timeoutSeconds"`
	ChromePath     string `toml:"chromePath"`
	UseBrowser     bool   `toml:"useBrowser"`    // render URLs in headless Chrome
	ScrollDelayMs  int    `toml:"scrollDelayMs"` // pause between load scrolls
}

// Export settings
type Export struct {
	Dir   string `toml:"dir"`
	Title string `toml:"title"` // used when the page has no <title>
}

// Watch settings
type Watch struct {
	DebounceMs  int `toml:"debounceMs"`
	PollSeconds int `toml:"pollSeconds"`
}

// Log settings
type Log struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// Config is the main configuration struct
type Config struct {
	Fetcher   Fetcher             `toml:"fetcher"`
	Selectors collector.Selectors `toml:"selectors"`
	Export    Export              `toml:"export"`
	Watch     Watch               `toml:"watch"`
	Log       Log                 `toml:"log"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Fetcher: Fetcher{
			UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			TimeoutSeconds: 30,
			ScrollDelayMs:  350,
		},
		Selectors: collector.DefaultSelectors(),
		Export: Export{
			Dir:   ".",
			Title: "ChatGPT Conversation",
		},
		Watch: Watch{
			DebounceMs:  250,
			PollSeconds: 2,
		},
		Log: Log{
			Level:  "warn",
			Pretty: true,
		},
	}
}

// Debounce returns the watch quiet period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// PollInterval returns how often the watched source is checked.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Watch.PollSeconds) * time.Second
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chatmd"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the user config file, or the defaults if there is none.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil // Return defaults if we can't determine path
	}
	return LoadFile(path)
}

// LoadFile decodes path on top of the defaults, so only the keys present in
// the file override anything.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Fetcher.TimeoutSeconds <= 0 {
		return errors.New("fetcher.timeoutSeconds must be positive")
	}
	if c.Watch.DebounceMs <= 0 {
		return errors.New("watch.debounceMs must be positive")
	}
	if c.Watch.PollSeconds <= 0 {
		return errors.New("watch.pollSeconds must be positive")
	}
	if len(c.Selectors.ContentRoots) == 0 {
		return errors.New("selectors.contentRoots must not be empty")
	}
	return nil
}

// LoadEnv reads a .env file from the working directory when present. Values
// already set in the environment are kept.
func LoadEnv() error {
	err := godotenv.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// FormatError formats a configuration error for user display.
func FormatError(err error) string {
	return fmt.Sprintf("Configuration error:\n\n%s", err.Error())
}

// DefaultTOML returns the default configuration as a TOML string.
// Used for --init-config to generate a user config file.
func DefaultTOML() string {
	return `# chatmd configuration
# Save to ~/.config/chatmd/config.toml and customize
# Only include settings you want to change from defaults

# Page acquisition
[fetcher]
userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
timeoutSeconds = 30
chromePath = ""               # Chrome/Chromium for rendering (empty = auto-detect)
useBrowser = false            # Render URLs in headless Chrome instead of plain HTTP
scrollDelayMs = 350           # Pause between scrolls while lazy content loads

# Discovery rules (CSS selectors)
[selectors]
message = '[data-testid="conversation-turn"], [data-message-id], main article'
contentRoots = [
  '[data-testid="markdown"]',
  '[data-message-author-role] [data-testid="markdown"]',
  '.markdown',
  '.prose',
  'article',
]
userQuestion = '[data-message-author-role="user"]'
questionAnchor = '[data-message-id], [data-testid="conversation-turn"], [data-message-author-role]'

# Export settings
[export]
dir = "."
title = "ChatGPT Conversation"   # Used when the page has no title

# Watch mode
[watch]
debounceMs = 250              # Quiet period before recomputing
pollSeconds = 2               # How often the source is re-read

# Logging (written to stderr)
[log]
level = "warn"                # debug, info, warn, error
pretty = true
`
}
