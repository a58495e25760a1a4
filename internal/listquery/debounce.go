package listquery

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultDebounce = 500 * time.Millisecond

// Debouncer delivers the last value passed to Set once no further Set call has
// happened for the quiet period (trailing edge). At most one timer is armed.
type Debouncer[T any] struct {
	clock clockwork.Clock
	wait  time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   clockwork.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer returns a debouncer calling fn with the settled value.
func NewDebouncer[T any](clock clockwork.Clock, wait time.Duration, fn func(T)) *Debouncer[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer[T]{clock: clock, wait: wait, fn: fn}
}

// Set records v and restarts the quiet period.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.mu.Lock()
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fn(v)
	})
}

// Pending reports whether a value is waiting for its quiet period.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the armed timer. Later Set calls are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
