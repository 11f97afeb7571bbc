package llm

import (
	"context"
	"net/http"
	"strings"
)

const defaultSystemPrompt = "You are a helpful assistant."

// OpenAI speaks the chat completions protocol. Any OpenAI-compatible server
// works by changing the base URL.
type OpenAI struct {
	cfg    ProviderConfig
	client *http.Client
}

// Name returns the provider id.
func (o *OpenAI) Name() string { return o.cfg.ID }

// Available checks that an API key and a model are configured.
func (o *OpenAI) Available() bool {
	return o.cfg.APIKey != "" && o.cfg.DefaultModel != "" && o.cfg.BaseURL != ""
}

// Complete sends a chat completion request.
func (o *OpenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	if system == "" {
		system = defaultSystemPrompt
	}
	req := openAIRequest{
		Model: o.cfg.DefaultModel,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
	}
	headers := withCustom(map[string]string{
		"Authorization": "Bearer " + o.cfg.APIKey,
	}, o.cfg.CustomHeaders)

	var resp openAIResponse
	err := postJSON(ctx, o.client, "OpenAI", o.cfg.endpoint("/v1/chat/completions"), headers, req, &resp, nestedErrorMessage)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}
