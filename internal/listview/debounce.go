package listview

import (
	"sync"
	"time"
)

// SearchDelay is the quiet period after the last keystroke before a search
// fetch is issued.
const SearchDelay = 500 * time.Millisecond

// Debouncer runs at most one pending function, delayed until no newer call
// to Schedule arrives within the delay.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// Schedule discards any pending call and arranges for fn to run after delay.
// It reports whether a pending call was discarded.
func (d *Debouncer) Schedule(fn func(), delay time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	collapsed := d.stopLocked()
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			// A newer Schedule or Cancel happened after this timer fired.
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	return collapsed
}

// Cancel discards the pending call, if any, and reports whether there was one.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	cancelled := d.stopLocked()
	d.gen++
	return cancelled
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}
