package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is how long the debouncer waits for the burst of
// events around a rewrite to settle before firing.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer coalesces rapid triggers into a single callback invocation.
// DynophoreApp rewrites its output files one after another; without
// debouncing a reload would fire per file.
type Debouncer struct {
	d     time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given settle duration.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &Debouncer{d: d}
}

// Trigger schedules fn to run after the settle duration. A trigger while a
// previous one is pending restarts the clock; only the last fn runs.
func (b *Debouncer) Trigger(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, fn)
}

// Duration returns the settle duration.
func (b *Debouncer) Duration() time.Duration { return b.d }

// Cancel drops any pending trigger.
func (b *Debouncer) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
