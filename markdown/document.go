package markdown

import (
	"fmt"
	"strings"
	"time"

	"chatmd/chat"
)

// ISOTime is the timestamp layout used in exported documents.
const ISOTime = "2006-01-02T15:04:05.000Z07:00"

// BuildQADocument renders the selected pairs as a standalone Markdown file.
func BuildQADocument(title, source string, pairs []chat.QAPair, exportedAt time.Time) string {
	lines := header(title, source, exportedAt)

	if len(pairs) == 0 {
		lines = append(lines, "_No questions selected._", "")
	}

	for i, pair := range pairs {
		lines = append(lines,
			fmt.Sprintf("## Q%d", i+1), "",
			"### Question", "",
			orPlaceholder(pair.Question.Content, "_empty question_"), "",
		)

		if len(pair.Answers) == 1 {
			answer := pair.Answers[0]
			lines = append(lines,
				fmt.Sprintf("### Answer (%s)", chat.RoleLabel(answer.Role)), "",
				orPlaceholder(answer.Content, "_empty answer_"), "",
			)
			continue
		}

		lines = append(lines, "### Answers", "")
		for k, answer := range pair.Answers {
			lines = append(lines,
				fmt.Sprintf("#### Answer %d (%s)", k+1, chat.RoleLabel(answer.Role)), "",
				orPlaceholder(answer.Content, "_empty answer_"), "",
			)
		}
	}

	return finish(lines)
}

// BuildMessagesDocument renders the flat transcript, one section per turn.
func BuildMessagesDocument(title, source string, messages []chat.Message, exportedAt time.Time) string {
	lines := header(title, source, exportedAt)

	if len(messages) == 0 {
		lines = append(lines, "_No messages found._", "")
	}
	for i, m := range messages {
		lines = append(lines,
			fmt.Sprintf("## %d. %s", i+1, chat.RoleLabel(m.Role)), "",
			orPlaceholder(m.Content, "_empty message_"), "",
		)
	}
	return finish(lines)
}

func header(title, source string, at time.Time) []string {
	return []string{
		"# " + title,
		"",
		"Exported: " + at.UTC().Format(ISOTime),
		"Source: " + source,
		"",
	}
}

func finish(lines []string) string {
	return strings.TrimRight(NormalizeBlankLines(strings.Join(lines, "\n")), " \t\r\n") + "\n"
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
