package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Fetcher.TimeoutSeconds != 30 || cfg.Export.Dir != "." {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
[fetcher]
useBrowser = true

[selectors]
message = ".turn"

[export]
dir = "/tmp/exports"

[watch]
debounceMs = 500
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !cfg.Fetcher.UseBrowser || cfg.Fetcher.TimeoutSeconds != 30 {
		t.Errorf("fetcher = %+v", cfg.Fetcher)
	}
	if cfg.Selectors.Message != ".turn" {
		t.Errorf("message selector = %q", cfg.Selectors.Message)
	}
	if len(cfg.Selectors.ContentRoots) == 0 || cfg.Selectors.UserQuestion == "" {
		t.Error("unset selectors should keep their defaults")
	}
	if cfg.Export.Dir != "/tmp/exports" || cfg.Export.Title != "ChatGPT Conversation" {
		t.Errorf("export = %+v", cfg.Export)
	}
	if cfg.Debounce() != 500*time.Millisecond || cfg.PollInterval() != 2*time.Second {
		t.Errorf("durations = %v, %v", cfg.Debounce(), cfg.PollInterval())
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[fetcher\n", "loading config"},
		{"zero timeout", "[fetcher]\ntimeoutSeconds = 0\n", "timeoutSeconds"},
		{"negative poll", "[watch]\npollSeconds = -1\n", "pollSeconds"},
		{"no content roots", "[selectors]\ncontentRoots = []\n", "contentRoots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDefaultTOMLMatchesDefaults(t *testing.T) {
	var cfg Config
	if _, err := toml.Decode(DefaultTOML(), &cfg); err != nil {
		t.Fatalf("DefaultTOML does not parse: %v", err)
	}

	def := Default()
	if cfg.Fetcher != def.Fetcher || cfg.Export != def.Export || cfg.Watch != def.Watch || cfg.Log != def.Log {
		t.Errorf("DefaultTOML drifted from Default():\n%+v\n%+v", cfg, def)
	}
	if cfg.Selectors.Message != def.Selectors.Message || len(cfg.Selectors.ContentRoots) != len(def.Selectors.ContentRoots) {
		t.Errorf("selectors drifted: %+v", cfg.Selectors)
	}
}

func TestFormatError(t *testing.T) {
	if got := FormatError(os.ErrInvalid); !strings.HasPrefix(got, "Configuration error:") {
		t.Errorf("FormatError = %q", got)
	}
}
