package console

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long the input must stay unchanged before the
// pending value is committed.
const DefaultQuietPeriod = 500 * time.Millisecond

// Debouncer commits a string value only after it has stopped changing for a
// quiet period. Every Input call restarts the timer, so a burst of edits
// commits exactly once with the final value.
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	timer   *time.Timer
	pending string
	armed   bool
	commit  func(string)
}

// NewDebouncer creates a debouncer that calls commit with the settled value.
// A non-positive quiet period falls back to DefaultQuietPeriod.
func NewDebouncer(quiet time.Duration, commit func(string)) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{
		quiet:  quiet,
		commit: commit,
	}
}

// Input registers a new value and restarts the quiet-period timer
func (d *Debouncer) Input(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = value
	d.armed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fire)
}

// fire delivers the pending value once
func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.commit(value)
}

// Flush commits the pending value immediately, if any
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.fire()
}

// Stop cancels any pending commit without firing it
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.armed = false
}
