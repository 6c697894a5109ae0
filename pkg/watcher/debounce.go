package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the trailing-edge quiet period applied to
// change bursts before a notification fires.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer coalesces a rapid event stream into a single callback after a
// quiet period: each Trigger cancels and restarts the pending timer, so only
// the last event of a burst is handled.
type Debouncer struct {
	d     time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer returns a Debouncer with the given quiet period. A
// non-positive duration falls back to DefaultDebounceDuration.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &Debouncer{d: d}
}

// Trigger schedules fn to run after the quiet period, replacing any pending
// invocation.
func (b *Debouncer) Trigger(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, fn)
}

// Cancel drops any pending invocation.
func (b *Debouncer) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
