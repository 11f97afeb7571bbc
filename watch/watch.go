// Package watch recomputes the question list after the source page stops
// changing.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"chatmd/chat"
	"chatmd/collector"
	"chatmd/session"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 250 * time.Millisecond

// Source returns a fresh snapshot of the page.
type Source func(ctx context.Context) (*goquery.Document, error)

// Watcher coalesces bursts of change notifications and, once they stop,
// collects the question list from a fresh snapshot.
type Watcher struct {
	source    Source
	collector *collector.Collector
	state     *session.State
	debounce  time.Duration
	log       zerolog.Logger

	// OnChange is called from the watcher goroutine when the list of
	// question ids differs from the previous refresh.
	OnChange func([]chat.QuestionEntry)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	notifyCh chan struct{}
}

// New creates a watcher. It does nothing until Start is called.
func New(source Source, c *collector.Collector, state *session.State, debounce time.Duration, log zerolog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		source:    source,
		collector: c,
		state:     state,
		debounce:  debounce,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		notifyCh:  make(chan struct{}, 1),
	}
}

// Start begins the background loop.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop shuts the loop down and waits for it to exit.
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
}

// Notify reports that the page may have changed. It never blocks.
func (w *Watcher) Notify() {
	select {
	case w.notifyCh <- struct{}{}:
	default:
		// Already a notification pending
	}
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	// quiet is nil while no notification is pending.
	var quiet <-chan time.Time
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.notifyCh:
			// Restart the quiet period on every notification.
			quiet = time.After(w.debounce)
		case <-quiet:
			quiet = nil
			w.refresh()
		}
	}
}

// refresh recomputes from scratch; nothing from a previous parse is reused.
func (w *Watcher) refresh() {
	doc, err := w.source(w.ctx)
	if err != nil {
		if w.ctx.Err() == nil {
			w.log.Warn().Err(err).Msg("refresh failed")
		}
		return
	}

	entries := w.collector.UserQuestions(doc.Selection)
	if !w.state.UpdateQuestions(entries) {
		w.log.Debug().Int("questions", len(entries)).Msg("questions unchanged")
		return
	}

	w.log.Info().Int("questions", len(entries)).Msg("questions changed")
	if w.OnChange != nil {
		w.OnChange(entries)
	}
}

// Poll calls w.Notify every interval until ctx is done. It stands in for a
// page observer when the source can only be re-read, not subscribed to.
func Poll(ctx context.Context, interval time.Duration, w *Watcher) error {
	w.Notify()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Notify()
		}
	}
}
