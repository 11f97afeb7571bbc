package session

import (
	"errors"
	"sync"
	"testing"

	"chatmd/chat"
)

func TestSelected(t *testing.T) {
	s := New()
	s.SetPairs([]chat.QAPair{{ID: "qa-1"}, {ID: "qa-2"}, {ID: "qa-3"}})

	got, err := s.Selected([]string{"qa-3", "qa-1"})
	if err != nil {
		t.Fatalf("Selected failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "qa-1" || got[1].ID != "qa-3" {
		t.Errorf("Selected = %+v", got)
	}

	if _, err := s.Selected([]string{"qa-9"}); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}
}

func TestUpdateQuestions(t *testing.T) {
	s := New()
	a := []chat.QuestionEntry{{ID: "q-1", Summary: "one"}, {ID: "q-2", Summary: "two"}}

	if !s.UpdateQuestions(a) {
		t.Error("first update should report a change")
	}
	if s.UpdateQuestions([]chat.QuestionEntry{{ID: "q-1", Summary: "one (edited)"}, {ID: "q-2"}}) {
		t.Error("same ids should not report a change")
	}
	if !s.UpdateQuestions(a[:1]) {
		t.Error("removed question should report a change")
	}
	if got := s.Questions(); len(got) != 1 {
		t.Errorf("Questions = %+v", got)
	}
	if !New().UpdateQuestions(nil) {
		t.Error("first update reports a change even when empty")
	}
}

func TestPanels(t *testing.T) {
	s := New()
	if !s.TogglePanel("nav") || s.OpenPanel() != "nav" {
		t.Fatal("TogglePanel should open nav")
	}
	if !s.TogglePanel("export") || s.OpenPanel() != "export" {
		t.Error("opening another panel replaces the open one")
	}
	if s.TogglePanel("export") || s.OpenPanel() != "" {
		t.Error("toggling the open panel closes it")
	}
	s.TogglePanel("nav")
	s.ClosePanel()
	if s.OpenPanel() != "" {
		t.Error("ClosePanel should close everything")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.UpdateQuestions([]chat.QuestionEntry{{ID: "q"}})
			s.SetPairs([]chat.QAPair{{ID: "qa-1"}})
			_ = s.Pairs()
			s.TogglePanel("nav")
		}()
	}
	wg.Wait()
}
