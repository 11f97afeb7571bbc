package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// New builds the client for a provider's protocol.
func New(cfg ProviderConfig) (Provider, error) {
	hc := &http.Client{Timeout: defaultTimeout}
	switch cfg.Protocol {
	case ProtocolOpenAI:
		return &OpenAI{cfg: cfg, client: hc}, nil
	case ProtocolAnthropic:
		return &Anthropic{cfg: cfg, client: hc}, nil
	case ProtocolGemini:
		return &Gemini{cfg: cfg, client: hc}, nil
	case ProtocolCustom, "":
		return &Custom{cfg: cfg, client: hc}, nil
	case ProtocolClaudeCLI:
		return NewClaudeCLI(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, cfg.Protocol)
	}
}

// NewClientFromRegistry builds every provider in the registry and prefers the
// active one. It backs provider listings; summaries use NewActive.
func NewClientFromRegistry(r Registry) (*Client, error) {
	var providers []Provider
	for _, cfg := range r.Providers {
		p, err := New(cfg)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", cfg.ID, err)
		}
		providers = append(providers, p)
	}
	c := NewClient(providers...)
	c.SetPreferred(r.ActiveProviderID)
	return c, nil
}

// NewActive builds the registry's active provider. There is no fallback: an
// active provider that is missing or not configured is an error.
func NewActive(r Registry) (Provider, *ProviderConfig, error) {
	cfg := r.Active()
	if cfg == nil {
		return nil, nil, fmt.Errorf("%w: unknown provider %q", ErrNoProvider, r.ActiveProviderID)
	}
	p, err := New(*cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("provider %s: %w", cfg.ID, err)
	}
	if !p.Available() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotConfigured, cfg.ID)
	}
	return p, cfg, nil
}

// postJSON sends body and decodes a 2xx response into out. Non-2xx responses
// become an *APIError whose message is taken from errMessage when possible.
func postJSON(ctx context.Context, hc *http.Client, provider, url string, headers map[string]string, body, out any, errMessage func([]byte) string) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("API request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errMessage(data)
		if msg == "" {
			msg = provider + " request failed"
		}
		return &APIError{Provider: provider, Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// withCustom merges a provider's custom headers over the protocol headers.
func withCustom(base map[string]string, custom map[string]string) map[string]string {
	for k, v := range custom {
		base[k] = v
	}
	return base
}

// nestedErrorMessage reads {"error": {"message": "..."}}.
func nestedErrorMessage(data []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(data, &payload) != nil {
		return ""
	}
	return payload.Error.Message
}
