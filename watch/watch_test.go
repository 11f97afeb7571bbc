package watch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"chatmd/chat"
	"chatmd/collector"
	"chatmd/session"
)

// page serves whatever HTML the test last set and counts reads.
type page struct {
	mu    sync.Mutex
	html  string
	err   error
	reads atomic.Int32
}

func (p *page) set(html string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.html = html
}

func (p *page) source(_ context.Context) (*goquery.Document, error) {
	p.reads.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(p.html))
}

func userTurn(id, text string) string {
	return `<div data-message-author-role="user" data-message-id="` + id + `"><p>` + text + `</p></div>`
}

func newWatcher(t *testing.T, p *page, debounce time.Duration) (*Watcher, chan []chat.QuestionEntry) {
	t.Helper()
	c, err := collector.New(collector.DefaultSelectors(), zerolog.Nop())
	if err != nil {
		t.Fatalf("collector.New failed: %v", err)
	}

	changes := make(chan []chat.QuestionEntry, 10)
	w := New(p.source, c, session.New(), debounce, zerolog.Nop())
	w.OnChange = func(entries []chat.QuestionEntry) { changes <- entries }
	w.Start()
	t.Cleanup(w.Stop)
	return w, changes
}

func waitChange(t *testing.T, changes chan []chat.QuestionEntry) []chat.QuestionEntry {
	t.Helper()
	select {
	case entries := <-changes:
		return entries
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for OnChange")
		return nil
	}
}

func expectNoChange(t *testing.T, changes chan []chat.QuestionEntry, wait time.Duration) {
	t.Helper()
	select {
	case entries := <-changes:
		t.Fatalf("unexpected OnChange with %d entries", len(entries))
	case <-time.After(wait):
	}
}

func TestWatcherDebouncesBurst(t *testing.T) {
	p := &page{html: userTurn("m1", "first question")}
	w, changes := newWatcher(t, p, 60*time.Millisecond)

	for i := 0; i < 5; i++ {
		w.Notify()
		time.Sleep(2 * time.Millisecond)
	}

	entries := waitChange(t, changes)
	if len(entries) != 1 || entries[0].ID != "m1" {
		t.Errorf("entries = %+v", entries)
	}
	expectNoChange(t, changes, 100*time.Millisecond)

	if n := p.reads.Load(); n != 1 {
		t.Errorf("source read %d times, want 1", n)
	}
}

func TestWatcherSkipsUnchangedIDs(t *testing.T) {
	p := &page{html: userTurn("m1", "first")}
	w, changes := newWatcher(t, p, 10*time.Millisecond)

	w.Notify()
	waitChange(t, changes)

	// Text edits that keep the ids do not trigger a redraw.
	p.set(userTurn("m1", "first, edited"))
	w.Notify()
	expectNoChange(t, changes, 80*time.Millisecond)

	p.set(userTurn("m1", "first") + userTurn("m2", "second"))
	w.Notify()
	entries := waitChange(t, changes)
	if len(entries) != 2 || entries[1].Summary != "second" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestWatcherSourceError(t *testing.T) {
	p := &page{err: errors.New("offline")}
	w, changes := newWatcher(t, p, 10*time.Millisecond)

	w.Notify()
	expectNoChange(t, changes, 80*time.Millisecond)
	if p.reads.Load() != 1 {
		t.Errorf("source should have been read once, got %d", p.reads.Load())
	}
}

func TestPoll(t *testing.T) {
	p := &page{html: userTurn("m1", "q")}
	w, changes := newWatcher(t, p, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Poll(ctx, 20*time.Millisecond, w) }()

	// Poll notifies immediately, before the first tick.
	waitChange(t, changes)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Poll returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Poll did not stop")
	}
}

func TestStopWithoutNotify(t *testing.T) {
	c, _ := collector.New(collector.DefaultSelectors(), zerolog.Nop())
	w := New((&page{}).source, c, session.New(), 0, zerolog.Nop())
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v", w.debounce)
	}
	w.Start()
	w.Stop()
}
