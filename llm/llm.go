// Package llm sends prompts to the configured text-generation providers.
package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoProvider is returned when no provider is configured or available.
	ErrNoProvider = errors.New("no LLM provider available")

	// ErrUnsupportedProtocol is returned for a protocol tag with no client.
	ErrUnsupportedProtocol = errors.New("unsupported provider protocol")

	// ErrNotConfigured is returned when a provider lacks a required field.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrSessionCollision is returned when CLI session IDs collide repeatedly.
	ErrSessionCollision = errors.New("session ID collision")
)

// Provider defines the interface for language model backends.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Available checks if this provider is ready to use.
	Available() bool

	// Complete sends a prompt with an optional system message and returns
	// the response text.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Client holds the configured providers and picks the one to use.
type Client struct {
	providers []Provider
	preferred Provider
}

// NewClient creates a client. Providers are tried in the given order when no
// preferred provider is set or the preferred one is unavailable.
func NewClient(providers ...Provider) *Client {
	return &Client{providers: providers}
}

// SetPreferred selects a provider by name, bypassing auto-selection.
func (c *Client) SetPreferred(name string) bool {
	for _, p := range c.providers {
		if p.Name() == name && p.Available() {
			c.preferred = p
			return true
		}
	}
	return false
}

// Provider returns the currently active provider, or nil if none available.
func (c *Client) Provider() Provider {
	if c.preferred != nil && c.preferred.Available() {
		return c.preferred
	}
	for _, p := range c.providers {
		if p.Available() {
			return p
		}
	}
	return nil
}

// Complete sends a prompt to the active provider.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	p := c.Provider()
	if p == nil {
		return "", ErrNoProvider
	}
	return p.Complete(ctx, system, prompt)
}

// ListProviders returns info about all configured providers.
func (c *Client) ListProviders() []ProviderInfo {
	var infos []ProviderInfo
	for _, p := range c.providers {
		infos = append(infos, ProviderInfo{
			Name:      p.Name(),
			Available: p.Available(),
		})
	}
	return infos
}

// ProviderInfo describes a provider's status.
type ProviderInfo struct {
	Name      string
	Available bool
}

// APIError is a non-success response from a provider.
type APIError struct {
	Provider string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.Status, e.Message)
}
