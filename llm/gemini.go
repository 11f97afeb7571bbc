package llm

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Gemini implements Provider using the generateContent endpoint.
type Gemini struct {
	cfg    ProviderConfig
	client *http.Client
}

// Name returns the provider id.
func (g *Gemini) Name() string { return g.cfg.ID }

// Available checks that an API key and a model are configured.
func (g *Gemini) Available() bool {
	return g.cfg.APIKey != "" && g.cfg.DefaultModel != "" && g.cfg.BaseURL != ""
}

// Complete sends the prompt as a single user turn. A system message, when
// given, is sent as the system instruction.
func (g *Gemini) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := geminiRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{Temperature: 0.2},
	}
	if system != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}

	endpoint := g.cfg.endpoint("/v1beta/models/"+g.cfg.DefaultModel+":generateContent") +
		"?key=" + url.QueryEscape(g.cfg.APIKey)

	var resp geminiResponse
	err := postJSON(ctx, g.client, "Gemini", endpoint, withCustom(map[string]string{}, g.cfg.CustomHeaders), req, &resp, nestedErrorMessage)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}
