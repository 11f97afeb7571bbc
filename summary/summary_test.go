package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chatmd/chat"
	"chatmd/llm"
)

var pairs = []chat.QAPair{
	{
		ID:       "qa-1",
		Question: chat.Message{Role: chat.RoleUser, Content: "What is a channel?"},
		Answers:  []chat.Message{{Role: chat.RoleAssistant, Content: "A typed conduit."}},
	},
	{
		ID:       "qa-2",
		Question: chat.Message{Role: chat.RoleUser, Content: "Buffered?"},
		Answers:  []chat.Message{{Role: chat.RoleAssistant, Content: "It has capacity."}},
	},
}

func TestSerializePairs(t *testing.T) {
	want := "Q1:\nUser: What is a channel?\nAssistant:\nA typed conduit.\n\nQ2:\nUser: Buffered?\nAssistant:\nIt has capacity."
	if got := SerializePairs(pairs); got != want {
		t.Errorf("SerializePairs() = %q, want %q", got, want)
	}
}

func TestBuildPrompt(t *testing.T) {
	serialized := SerializePairs(pairs)

	tests := []struct {
		name     string
		template string
		check    func(t *testing.T, got string)
	}{
		{
			name:     "placeholders replaced",
			template: "Scope={{ SCOPE }}\n{{conversation}}",
			check: func(t *testing.T, got string) {
				if got != "Scope=Entire conversation\n"+serialized {
					t.Errorf("got %q", got)
				}
			},
		},
		{
			name:     "conversation appended when missing",
			template: "Summarize {{scope}}.",
			check: func(t *testing.T, got string) {
				if got != "Summarize Entire conversation.\n\nConversation:\n"+serialized {
					t.Errorf("got %q", got)
				}
			},
		},
		{
			name:     "replacement text is literal",
			template: "{{conversation}}",
			check: func(t *testing.T, got string) {
				if got != serialized {
					t.Errorf("got %q", got)
				}
			},
		},
		{
			name:     "empty template uses built-in prompt",
			template: "",
			check: func(t *testing.T, got string) {
				if !strings.Contains(got, "Context: Entire conversation") || !strings.HasSuffix(got, serialized) {
					t.Errorf("got %q", got)
				}
			},
		},
		{
			name:     "default template",
			template: DefaultPromptTemplate,
			check: func(t *testing.T, got string) {
				if strings.Contains(got, "{{") || !strings.Contains(got, "Scope: Entire conversation") {
					t.Errorf("got %q", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, BuildPrompt(pairs, "Entire conversation", tt.template))
		})
	}
}

func TestBuildPromptDollarInContent(t *testing.T) {
	p := []chat.QAPair{{
		Question: chat.Message{Content: "cost $1?"},
		Answers:  []chat.Message{{Content: "${x}"}},
	}}
	got := BuildPrompt(p, "s", "{{conversation}}")
	if !strings.Contains(got, "cost $1?") || !strings.Contains(got, "${x}") {
		t.Errorf("dollar signs should survive replacement: %q", got)
	}
}

type fakeProvider struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeProvider) Name() string    { return "fake" }
func (f *fakeProvider) Available() bool { return true }
func (f *fakeProvider) Complete(_ context.Context, _, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestSummarize(t *testing.T) {
	fake := &fakeProvider{reply: "  Short summary.\n"}
	s := &Summarizer{
		Config:   llm.ProviderConfig{ID: "fake", Name: "Fake AI", DefaultModel: "m-1"},
		Provider: fake,
		Log:      zerolog.Nop(),
		Now:      func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	}

	res, err := s.Summarize(context.Background(), Request{
		Pairs: pairs,
		Scope: "Selected questions",
		Title: "Go: channels?",
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if fake.prompt != res.Prompt || !strings.Contains(res.Prompt, "What is a channel?") {
		t.Errorf("provider got unexpected prompt %q", fake.prompt)
	}
	want := "# Go: channels?\n\nScope: Selected questions\nGenerated: 2024-01-02T03:04:05.000Z\nProvider: Fake AI (m-1)\n\nShort summary.\n"
	if res.Document != want {
		t.Errorf("Document = %q, want %q", res.Document, want)
	}
	if res.FileName != "Go channels-summary.md" {
		t.Errorf("FileName = %q", res.FileName)
	}
}

func TestSummarizeErrors(t *testing.T) {
	s := &Summarizer{Provider: &fakeProvider{}, Log: zerolog.Nop()}
	if _, err := s.Summarize(context.Background(), Request{}); !errors.Is(err, ErrNothingToSummarize) {
		t.Errorf("expected ErrNothingToSummarize, got %v", err)
	}

	s = &Summarizer{Log: zerolog.Nop()}
	if _, err := s.Summarize(context.Background(), Request{Pairs: pairs}); !errors.Is(err, llm.ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}

	apiErr := &llm.APIError{Provider: "OpenAI", Status: 401, Message: "bad key"}
	s = &Summarizer{Provider: &fakeProvider{err: apiErr}, Log: zerolog.Nop()}
	_, err := s.Summarize(context.Background(), Request{Pairs: pairs})
	var got *llm.APIError
	if !errors.As(err, &got) || got.Status != 401 {
		t.Errorf("expected wrapped APIError, got %v", err)
	}
}
