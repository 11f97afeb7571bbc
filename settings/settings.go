// Package settings persists the user's provider registry, locale and
// summary prompt between runs.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chatmd/i18n"
	"chatmd/llm"
	"chatmd/summary"
)

// Settings is the stored user state.
type Settings struct {
	Locale        i18n.Locale  `json:"locale"`
	Providers     llm.Registry `json:"providers"`
	SummaryPrompt string       `json:"summaryPrompt,omitempty"`
}

// Default returns the settings used before anything is saved.
func Default() *Settings {
	return &Settings{
		Locale:    i18n.DefaultLocale,
		Providers: llm.DefaultRegistry(),
	}
}

// Path returns the settings file path.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "chatmd", "settings.json"), nil
}

// Load reads settings from path. A missing file, an empty provider list or
// an unknown locale fall back to the defaults for that field.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var stored Settings
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	s.Locale = i18n.Resolve(string(stored.Locale))
	if len(stored.Providers.Providers) > 0 {
		s.Providers = stored.Providers
	}
	s.SummaryPrompt = stored.SummaryPrompt
	return s, nil
}

// Save writes settings to path, creating the directory if needed.
func Save(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PromptTemplate returns the stored summary prompt, or the default when it is
// blank.
func (s *Settings) PromptTemplate() string {
	if strings.TrimSpace(s.SummaryPrompt) == "" {
		return summary.DefaultPromptTemplate
	}
	return s.SummaryPrompt
}

// ApplyEnvKeys fills empty API keys from the environment. Stored keys win.
func (s *Settings) ApplyEnvKeys(getenv func(string) string) {
	for i := range s.Providers.Providers {
		p := &s.Providers.Providers[i]
		if p.APIKey != "" {
			continue
		}
		if name := envKey(p.Protocol); name != "" {
			p.APIKey = getenv(name)
		}
	}
}

func envKey(p llm.Protocol) string {
	switch p {
	case llm.ProtocolOpenAI:
		return "OPENAI_API_KEY"
	case llm.ProtocolAnthropic:
		return "ANTHROPIC_API_KEY"
	case llm.ProtocolGemini:
		return "GEMINI_API_KEY"
	case llm.ProtocolCustom:
		return "CHATMD_CUSTOM_API_KEY"
	}
	return ""
}
