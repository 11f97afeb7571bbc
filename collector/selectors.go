package collector

import (
	"errors"
	"fmt"

	"github.com/andybalholm/cascadia"
)

// ErrInvalidSelector is returned when a discovery rule does not compile.
var ErrInvalidSelector = errors.New("invalid selector")

// Selectors are the page-specific discovery rules. They are plain CSS
// selector groups so a new chat UI can be supported from configuration.
type Selectors struct {
	// Message matches every turn container.
	Message string `toml:"message"`
	// ContentRoots are tried in order inside a container; the first match is
	// serialized instead of the whole container.
	ContentRoots []string `toml:"contentRoots"`
	// UserQuestion matches user-authored turns for the navigation list.
	UserQuestion string `toml:"userQuestion"`
	// QuestionAnchor lifts a user match to the element carrying a stable
	// marker so fragments are never serialized on their own.
	QuestionAnchor string `toml:"questionAnchor"`
}

// DefaultSelectors returns the rules for the ChatGPT web UI.
func DefaultSelectors() Selectors {
	return Selectors{
		Message: `[data-testid="conversation-turn"], [data-message-id], main article`,
		ContentRoots: []string{
			`[data-testid="markdown"]`,
			`[data-message-author-role] [data-testid="markdown"]`,
			`.markdown`,
			`.prose`,
			`article`,
		},
		UserQuestion:   `[data-message-author-role="user"]`,
		QuestionAnchor: `[data-message-id], [data-testid="conversation-turn"], [data-message-author-role]`,
	}
}

type compiled struct {
	message        cascadia.Selector
	contentRoots   []cascadia.Selector
	userQuestion   cascadia.Selector
	questionAnchor cascadia.Selector
}

func compile(sel Selectors) (*compiled, error) {
	c := &compiled{}
	var err error

	if c.message, err = compileOne("message", sel.Message); err != nil {
		return nil, err
	}
	if c.userQuestion, err = compileOne("userQuestion", sel.UserQuestion); err != nil {
		return nil, err
	}
	if c.questionAnchor, err = compileOne("questionAnchor", sel.QuestionAnchor); err != nil {
		return nil, err
	}
	for i, s := range sel.ContentRoots {
		m, err := compileOne(fmt.Sprintf("contentRoots[%d]", i), s)
		if err != nil {
			return nil, err
		}
		c.contentRoots = append(c.contentRoots, m)
	}
	return c, nil
}

func compileOne(name, selector string) (cascadia.Selector, error) {
	if selector == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidSelector, name)
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %v", ErrInvalidSelector, name, selector, err)
	}
	return m, nil
}
