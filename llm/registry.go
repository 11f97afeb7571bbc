package llm

import (
	"fmt"
	"strings"
)

// Protocol selects the wire format spoken to a provider.
type Protocol string

const (
	ProtocolOpenAI    Protocol = "openai"
	ProtocolAnthropic Protocol = "anthropic"
	ProtocolGemini    Protocol = "gemini"
	ProtocolCustom    Protocol = "custom"
	ProtocolClaudeCLI Protocol = "claude-cli"
)

// ProviderConfig is one user-configured provider.
type ProviderConfig struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	BaseURL       string            `json:"baseUrl"`
	APIKey        string            `json:"apiKey"`
	DefaultModel  string            `json:"defaultModel"`
	Protocol      Protocol          `json:"protocol"`
	CustomHeaders map[string]string `json:"customHeaders,omitempty"`
}

// DisplayName returns Name, or ID when no name is set.
func (p ProviderConfig) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func (p ProviderConfig) endpoint(path string) string {
	return strings.TrimRight(p.BaseURL, "/") + path
}

// Registry is the persisted set of providers and the active choice.
type Registry struct {
	ActiveProviderID string           `json:"activeProviderId"`
	Providers        []ProviderConfig `json:"providers"`
}

// DefaultRegistry lists one unconfigured provider per protocol.
func DefaultRegistry() Registry {
	return Registry{
		ActiveProviderID: "openai",
		Providers: []ProviderConfig{
			{ID: "openai", Name: "OpenAI", BaseURL: "https://api.openai.com", Protocol: ProtocolOpenAI},
			{ID: "anthropic", Name: "Anthropic", BaseURL: "https://api.anthropic.com", Protocol: ProtocolAnthropic},
			{ID: "gemini", Name: "Gemini", BaseURL: "https://generativelanguage.googleapis.com", Protocol: ProtocolGemini},
			{ID: "custom", Name: "Custom", Protocol: ProtocolCustom},
			{ID: "claude-cli", Name: "Claude CLI", Protocol: ProtocolClaudeCLI},
		},
	}
}

// Lookup returns the provider with the given id.
func (r *Registry) Lookup(id string) (*ProviderConfig, bool) {
	for i := range r.Providers {
		if r.Providers[i].ID == id {
			return &r.Providers[i], true
		}
	}
	return nil, false
}

// Active returns the active provider, or nil when the id is dangling.
func (r *Registry) Active() *ProviderConfig {
	p, _ := r.Lookup(r.ActiveProviderID)
	return p
}

// SetActive switches the active provider. Unknown ids are rejected.
func (r *Registry) SetActive(id string) error {
	if _, ok := r.Lookup(id); !ok {
		return fmt.Errorf("%w: unknown provider %q", ErrNoProvider, id)
	}
	r.ActiveProviderID = id
	return nil
}

// Update applies fn to the provider with the given id.
func (r *Registry) Update(id string, fn func(*ProviderConfig)) error {
	p, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: unknown provider %q", ErrNoProvider, id)
	}
	fn(p)
	p.ID = id
	return nil
}
