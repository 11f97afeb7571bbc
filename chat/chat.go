// Package chat defines the conversation model shared by the collector, the
// grouping engine and the exporters.
package chat

import "golang.org/x/net/html"

// Role identifies who authored a turn.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
	RoleUnknown   Role = "unknown"
)

// Message is one serialized turn.
type Message struct {
	Role    Role
	Content string // Markdown, trailing whitespace trimmed
}

// QAPair is a user question with its resolved final answer.
type QAPair struct {
	ID       string // qa-1, qa-2, ... stable within one grouping pass
	Question Message
	Answers  []Message // never empty
	Summary  string
}

// QuestionEntry is a navigable user question on the page.
type QuestionEntry struct {
	ID      string
	Node    *html.Node // not owned; used to locate the question again
	Summary string
}

// RoleLabel returns the display label used in exported documents.
func RoleLabel(r Role) string {
	switch r {
	case RoleAssistant:
		return "Assistant"
	case RoleUser:
		return "User"
	case RoleSystem:
		return "System"
	case RoleTool:
		return "Tool"
	default:
		return "Unknown"
	}
}
