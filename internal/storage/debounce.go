package storage

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid calls into one deferred execution. A newer
// Schedule replaces the pending one; Cancel discards it. This is the
// cancellable-timer handle that keeps a pending autosave from writing
// stale data after the workspace is cleared.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule runs fn after the delay, replacing any pending execution.
// The returned handle cancels this (or any later) pending execution;
// it is safe to call after the function has already run.
func (d *Debouncer) Schedule(fn func()) (cancel func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
	d.mu.Unlock()
	return d.Cancel
}

// Cancel discards the pending execution, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
}
