// Package summary turns selected QA pairs into a prompt, asks a provider for
// a summary, and wraps the reply as a Markdown document.
package summary

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chatmd/chat"
	"chatmd/export"
	"chatmd/llm"
	"chatmd/markdown"
)

// ErrNothingToSummarize is returned when no pairs were selected.
var ErrNothingToSummarize = errors.New("nothing to summarize")

// DefaultPromptTemplate is used when the user has not stored one.
var DefaultPromptTemplate = strings.Join([]string{
	"You are an AI assistant that writes concise structured summaries for ChatGPT conversations.",
	"Please include the following sections:",
	"1. Overall Summary (2-3 sentences)",
	"2. Key Points (bullet list)",
	"3. Action Items (bullet list with owners if possible)",
	"4. Open Questions or Risks (if any)",
	"",
	"Scope: {{scope}}",
	"Conversation:",
	"{{conversation}}",
}, "\n")

var (
	scopeRe        = regexp.MustCompile(`(?i)\{\{\s*scope\s*\}\}`)
	conversationRe = regexp.MustCompile(`(?i)\{\{\s*conversation\s*\}\}`)
)

// SerializePairs flattens pairs into the plain-text conversation block.
func SerializePairs(pairs []chat.QAPair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		answers := make([]string, len(p.Answers))
		for k, a := range p.Answers {
			answers[k] = a.Content
		}
		parts[i] = fmt.Sprintf("Q%d:\nUser: %s\nAssistant:\n%s", i+1, p.Question.Content, strings.Join(answers, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt fills template with the scope label and the serialized pairs.
// A template without a {{conversation}} placeholder gets the conversation
// appended. An empty template falls back to a built-in prompt.
func BuildPrompt(pairs []chat.QAPair, scope, template string) string {
	serialized := SerializePairs(pairs)

	if template != "" {
		processed := scopeRe.ReplaceAllLiteralString(template, scope)
		processed = conversationRe.ReplaceAllLiteralString(processed, serialized)
		if strings.Contains(template, "{{conversation}}") {
			return processed
		}
		return processed + "\n\nConversation:\n" + serialized
	}

	return strings.Join([]string{
		"You are an AI assistant that creates concise structured meeting notes.",
		"Context: " + scope,
		"Please read the following ChatGPT conversation segments and produce a structured summary with the following sections:",
		"1. Overall Summary (2-3 sentences)",
		"2. Key Points (bullet list)",
		"3. Action Items (bullet list with owners if applicable)",
		"4. Open Questions or Risks (if any)",
		"Conversation:",
		serialized,
	}, "\n\n")
}

// DocumentOptions describe a generated summary file.
type DocumentOptions struct {
	Title        string
	Scope        string
	ProviderName string
	Model        string
	Text         string
	GeneratedAt  time.Time
}

// BuildDocument wraps a provider reply with a title and provenance lines.
func BuildDocument(o DocumentOptions) string {
	return strings.Join([]string{
		"# " + o.Title,
		"",
		"Scope: " + o.Scope,
		"Generated: " + o.GeneratedAt.UTC().Format(markdown.ISOTime),
		fmt.Sprintf("Provider: %s (%s)", o.ProviderName, o.Model),
		"",
		strings.TrimSpace(o.Text),
		"",
	}, "\n")
}

// Request is one summarization job.
type Request struct {
	Pairs    []chat.QAPair
	Scope    string
	Title    string
	Template string
	FileName string // optional; defaults to "<title>-summary"
}

// Result carries the generated document and what produced it.
type Result struct {
	Prompt   string
	Text     string
	Document string
	FileName string
}

// Summarizer sends requests to a single provider.
type Summarizer struct {
	Config   llm.ProviderConfig
	Provider llm.Provider
	Log      zerolog.Logger
	Now      func() time.Time
}

// Summarize builds the prompt, calls the provider and renders the document.
func (s *Summarizer) Summarize(ctx context.Context, req Request) (*Result, error) {
	if len(req.Pairs) == 0 {
		return nil, ErrNothingToSummarize
	}
	if s.Provider == nil {
		return nil, llm.ErrNoProvider
	}

	prompt := BuildPrompt(req.Pairs, req.Scope, req.Template)
	s.Log.Info().
		Str("provider", s.Provider.Name()).
		Int("pairs", len(req.Pairs)).
		Int("prompt_chars", len(prompt)).
		Msg("requesting summary")

	text, err := s.Provider.Complete(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("summarizing with %s: %w", s.Config.DisplayName(), err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	name := req.FileName
	if name == "" {
		name = req.Title + "-summary"
	}

	return &Result{
		Prompt: prompt,
		Text:   text,
		Document: BuildDocument(DocumentOptions{
			Title:        req.Title,
			Scope:        req.Scope,
			ProviderName: s.Config.DisplayName(),
			Model:        s.Config.DefaultModel,
			Text:         text,
			GeneratedAt:  now(),
		}),
		FileName: export.SanitizeFilename(name) + ".md",
	}, nil
}
