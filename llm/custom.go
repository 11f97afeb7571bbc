package llm

import (
	"context"
	"encoding/json"
	"net/http"
)

// Custom posts {model, prompt} to an arbitrary endpoint and reads the first
// of summary, content or result from the reply.
type Custom struct {
	cfg    ProviderConfig
	client *http.Client
}

// Name returns the provider id.
func (c *Custom) Name() string { return c.cfg.ID }

// Available checks that an endpoint is configured. The key is optional.
func (c *Custom) Available() bool { return c.cfg.BaseURL != "" }

// Complete posts the prompt. The system message is not part of this protocol
// and is ignored.
func (c *Custom) Complete(ctx context.Context, _, prompt string) (string, error) {
	if c.cfg.BaseURL == "" {
		return "", ErrNotConfigured
	}

	headers := map[string]string{}
	if c.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.cfg.APIKey
	}
	headers = withCustom(headers, c.cfg.CustomHeaders)

	req := customRequest{Model: c.cfg.DefaultModel, Prompt: prompt}

	var raw json.RawMessage
	if err := postJSON(ctx, c.client, "Custom", c.cfg.BaseURL, headers, req, &raw, customErrorMessage); err != nil {
		return "", err
	}

	var resp customResponse
	if json.Unmarshal(raw, &resp) == nil {
		for _, s := range []string{resp.Summary, resp.Content, resp.Result} {
			if s != "" {
				return s, nil
			}
		}
	}
	return string(raw), nil
}

type customRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type customResponse struct {
	Summary string `json:"summary"`
	Content string `json:"content"`
	Result  string `json:"result"`
}

// customErrorMessage reads {"error": "..."}.
func customErrorMessage(data []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) != nil {
		return ""
	}
	return payload.Error
}
