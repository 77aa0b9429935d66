package services

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/zatekoja/wardwatch/internal/infrastructure/observability"
)

// SearchDebouncer turns raw keystrokes into a settled, validated query.
// Each Submit reschedules the deadline; when it fires, inputs at or above
// the minimum length are committed and shorter ones are discarded, leaving
// the previous committed query in effect. Clearing the input commits an
// empty query immediately, never waiting for the debounce window.
type SearchDebouncer struct {
	mu        sync.Mutex
	timer     *time.Timer
	raw       string
	committed string
	stopped   bool

	debounce time.Duration
	minChars int
	emit     func(committedQuery string)
}

// NewSearchDebouncer creates a debouncer that invokes emit with each
// committed query. emit is called from the timer goroutine for settled
// input and synchronously from Submit when the input is cleared.
func NewSearchDebouncer(debounce time.Duration, minChars int, emit func(committedQuery string)) *SearchDebouncer {
	return &SearchDebouncer{
		debounce: debounce,
		minChars: minChars,
		emit:     emit,
	}
}

// Submit records a keystroke's resulting input value. The latest call wins:
// any pending deadline is cancelled and, unless the input is now empty, a
// fresh one is scheduled.
func (d *SearchDebouncer) Submit(rawInput string) {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	d.raw = rawInput
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if rawInput == "" {
		d.committed = ""
		emit := d.emit
		d.mu.Unlock()
		if emit != nil {
			emit("")
		}
		return
	}

	d.timer = time.AfterFunc(d.debounce, d.settle)
	d.mu.Unlock()
}

// settle runs when the input has been quiet for the debounce interval
func (d *SearchDebouncer) settle() {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	raw := d.raw
	d.timer = nil

	if utf8.RuneCountInString(raw) < d.minChars {
		// Too short to commit; the previous committed query stays in effect.
		d.mu.Unlock()
		observability.GetLogger().Debug().
			Str("raw_input", raw).
			Int("min_chars", d.minChars).
			Msg("search input below minimum length, not committed")
		return
	}

	d.committed = raw
	emit := d.emit
	d.mu.Unlock()

	if emit != nil {
		emit(raw)
	}
}

// CommittedQuery returns the last committed query value
func (d *SearchDebouncer) CommittedQuery() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committed
}

// Stop cancels any pending deadline; further Submit calls are ignored
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
