package chat

import (
	"strings"

	"chatmd/dom"
)

const authorRoleAttr = "data-message-author-role"

var hasAuthorRole = dom.HasAttr(authorRoleAttr, "")

// DetectRole classifies a message container. Structural attributes are
// consulted before the class list; the first candidate that names a role
// wins.
func DetectRole(n dom.Node) Role {
	if n == nil {
		return RoleUnknown
	}

	candidates := []string{dom.AttrOr(n, authorRoleAttr, "")}
	if inner := dom.Find(n, hasAuthorRole); inner != nil {
		candidates = append(candidates, dom.AttrOr(inner, authorRoleAttr, ""))
	}
	candidates = append(candidates,
		dom.AttrOr(n, "data-testid", ""),
		dom.AttrOr(n, "class", ""),
	)

	for _, c := range candidates {
		if role, ok := NormalizeRole(c); ok {
			return role
		}
	}
	return RoleUnknown
}

// NormalizeRole maps a free-form attribute value onto a Role.
func NormalizeRole(value string) (Role, bool) {
	if value == "" {
		return "", false
	}
	text := strings.ToLower(value)
	switch {
	case strings.Contains(text, "assistant") || text == "gpt":
		return RoleAssistant, true
	case strings.Contains(text, "user") || strings.Contains(text, "human"):
		return RoleUser, true
	case strings.Contains(text, "system"):
		return RoleSystem, true
	case strings.Contains(text, "tool"):
		return RoleTool, true
	}
	return "", false
}
