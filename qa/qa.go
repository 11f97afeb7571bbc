// Package qa folds a flat message stream into question/answer pairs.
package qa

import (
	"regexp"
	"strconv"
	"strings"

	"chatmd/chat"
)

// EmptyQuestion is the summary used when a question has no visible text.
const EmptyQuestion = "_empty question_"

const maxSummaryLen = 120

// Transient failures a chat UI renders in place of an answer.
var errorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)something went wrong`),
	regexp.MustCompile(`(?i)network error`),
	regexp.MustCompile(`(?i)an error occurred`),
	regexp.MustCompile(`(?i)bad gateway`),
	regexp.MustCompile(`(?i)please try again`),
	regexp.MustCompile(`(?i)timed out`),
}

// Group pairs every user message with the answer the user ended up seeing.
// Only the last meaningful assistant answer of a turn is kept; when there is
// none, the last meaningful answer of any role is used instead. Questions
// without a meaningful answer are dropped, as are messages seen before the
// first question.
func Group(messages []chat.Message) []chat.QAPair {
	g := grouper{}
	for _, m := range messages {
		switch {
		case m.Role == chat.RoleUser:
			g.flush()
			q := m
			g.question = &q
			g.answers = nil
		case g.question == nil:
		case m.Role == chat.RoleAssistant, m.Role == chat.RoleTool:
			g.answers = append(g.answers, m)
		}
	}
	g.flush()
	return g.pairs
}

type grouper struct {
	question *chat.Message
	answers  []chat.Message
	pairs    []chat.QAPair
}

func (g *grouper) flush() {
	if g.question == nil {
		return
	}
	question := *g.question
	answers := g.answers
	g.question, g.answers = nil, nil

	final, ok := pickFinal(answers)
	if !ok {
		return
	}

	g.pairs = append(g.pairs, chat.QAPair{
		ID:       "qa-" + strconv.Itoa(len(g.pairs)+1),
		Question: question,
		Answers:  []chat.Message{final},
		Summary:  Summarize(question.Content),
	})
}

func pickFinal(answers []chat.Message) (chat.Message, bool) {
	var last *chat.Message
	for i := len(answers) - 1; i >= 0; i-- {
		a := answers[i]
		if !IsMeaningful(a.Content) {
			continue
		}
		if a.Role == chat.RoleAssistant {
			return a, true
		}
		if last == nil {
			last = &answers[i]
		}
	}
	if last == nil {
		return chat.Message{}, false
	}
	return *last, true
}

// IsMeaningful reports whether an answer has visible content that is not a
// transient error notice.
func IsMeaningful(content string) bool {
	normalized := strings.Join(strings.Fields(content), " ")
	if normalized == "" {
		return false
	}
	for _, re := range errorPatterns {
		if re.MatchString(normalized) {
			return false
		}
	}
	return true
}

// Summarize returns the first non-blank line of a question, truncated to 120
// characters with an ellipsis.
func Summarize(markdown string) string {
	summary := EmptyQuestion
	for _, line := range strings.Split(markdown, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			summary = line
			break
		}
	}
	runes := []rune(summary)
	if len(runes) > maxSummaryLen {
		return string(runes[:maxSummaryLen-3]) + "..."
	}
	return summary
}

// Select returns the pairs whose ids appear in ids, in their original order.
func Select(pairs []chat.QAPair, ids []string) []chat.QAPair {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []chat.QAPair
	for _, p := range pairs {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
