package llm

import (
	"context"
	"net/http"
	"strings"
)

const (
	anthropicAPIVersion = "2023-06-01"
	anthropicSystem     = "You summarize conversations into structured sections."
	anthropicMaxTokens  = 1024
)

// Anthropic implements Provider using the Messages API.
type Anthropic struct {
	cfg    ProviderConfig
	client *http.Client
}

// Name returns the provider id.
func (a *Anthropic) Name() string { return a.cfg.ID }

// Available checks that an API key and a model are configured.
func (a *Anthropic) Available() bool {
	return a.cfg.APIKey != "" && a.cfg.DefaultModel != "" && a.cfg.BaseURL != ""
}

// Complete sends a single user turn to the Messages API.
func (a *Anthropic) Complete(ctx context.Context, system, prompt string) (string, error) {
	if system == "" {
		system = anthropicSystem
	}
	req := apiRequest{
		Model:     a.cfg.DefaultModel,
		MaxTokens: anthropicMaxTokens,
		System:    system,
		Messages: []apiMessage{{
			Role:    "user",
			Content: []apiContentBlock{{Type: "text", Text: prompt}},
		}},
	}
	headers := withCustom(map[string]string{
		"x-api-key":         a.cfg.APIKey,
		"anthropic-version": anthropicAPIVersion,
	}, a.cfg.CustomHeaders)

	var resp apiResponse
	err := postJSON(ctx, a.client, "Anthropic", a.cfg.endpoint("/v1/messages"), headers, req, &resp, nestedErrorMessage)
	if err != nil {
		return "", err
	}

	// First text block wins; tool and thinking blocks are skipped.
	for _, block := range resp.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", nil
}

// API request/response types

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiResponse struct {
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}
