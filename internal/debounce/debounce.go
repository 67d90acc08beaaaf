// Package debounce coalesces bursts of triggers into a single delayed call.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once no new trigger
// has arrived for the configured delay. A new trigger cancels the context of
// any run still in flight so its result can be discarded.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	cancel  context.CancelFunc
	gen     uint64
	running int
	closed  bool
}

// New creates a Debouncer
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the delay, replacing anything already pending
func (d *Debouncer) Trigger(fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if ctx.Err() != nil {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.running++
		d.mu.Unlock()

		defer func() {
			cancel()
			d.mu.Lock()
			d.running--
			if d.gen == gen {
				d.cancel = nil
			}
			d.mu.Unlock()
		}()
		fn(ctx)
	})
}

// Cancel drops the pending call and cancels any in-flight run.
// The Debouncer stays usable.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Close cancels everything and ignores later triggers
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

// Pending reports whether a call is scheduled but has not started
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Running reports whether a triggered function is executing
func (d *Debouncer) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running > 0
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
