// Package session holds the state shared by the command loop and the
// refresh watcher: the last grouped pairs, the last question list and which
// panel is open.
package session

import (
	"errors"
	"slices"
	"sync"

	"chatmd/chat"
	"chatmd/qa"
)

// ErrEmptySelection is returned when a selection matches no pair.
var ErrEmptySelection = errors.New("selection is empty after filtering")

// State is owned by the caller and passed to whatever needs it.
type State struct {
	mu          sync.Mutex
	pairs       []chat.QAPair
	questionIDs []string
	questions   []chat.QuestionEntry
	panel       string
}

// New returns an empty state.
func New() *State {
	return &State{}
}

// SetPairs replaces the cached pairs with a fresh grouping.
func (s *State) SetPairs(pairs []chat.QAPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs = pairs
}

// Pairs returns the cached pairs.
func (s *State) Pairs() []chat.QAPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pairs
}

// Selected returns the cached pairs with the given ids.
func (s *State) Selected(ids []string) ([]chat.QAPair, error) {
	selected := qa.Select(s.Pairs(), ids)
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}
	return selected, nil
}

// UpdateQuestions stores a new question list and reports whether its ids
// differ from the previous one. Callers skip redrawing when they do not.
func (s *State) UpdateQuestions(entries []chat.QuestionEntry) bool {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = entries
	if s.questionIDs != nil && slices.Equal(s.questionIDs, ids) {
		return false
	}
	s.questionIDs = ids
	return true
}

// Questions returns the last stored question list.
func (s *State) Questions() []chat.QuestionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}

// TogglePanel opens name, or closes it when it is already open. It reports
// whether the panel is open afterwards.
func (s *State) TogglePanel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel == name {
		s.panel = ""
		return false
	}
	s.panel = name
	return true
}

// OpenPanel returns the open panel, or "" when none is.
func (s *State) OpenPanel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panel
}

// ClosePanel closes whatever panel is open.
func (s *State) ClosePanel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panel = ""
}
