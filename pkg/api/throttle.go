package api

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

// throttle coalesces bursts of triggers into one deferred run per interval
// (trailing edge). The run executed is the one supplied by the latest
// trigger before the interval elapsed.
type throttle struct {
	clk      clock.Clock
	interval time.Duration

	mu        sync.Mutex
	pending   func()
	armed     bool
	cancelled chan struct{}
}

func newThrottle(clk clock.Clock, interval time.Duration) *throttle {
	return &throttle{
		clk:       clk,
		interval:  interval,
		cancelled: make(chan struct{}),
	}
}

// Trigger schedules run after the throttle interval. Triggers arriving while
// a run is already scheduled replace the pending run instead of scheduling a
// second one.
func (t *throttle) Trigger(run func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	select {
	case <-t.cancelled:
		return
	default:
	}

	t.pending = run
	if t.armed {
		return
	}

	t.armed = true
	timer := t.clk.NewTimer(t.interval)
	go t.fire(timer)
}

func (t *throttle) fire(timer clock.Timer) {
	select {
	case <-t.cancelled:
		timer.Stop()
		return
	case <-timer.C():
	}

	t.mu.Lock()
	run := t.pending
	t.pending = nil
	t.armed = false
	t.mu.Unlock()

	select {
	case <-t.cancelled:
		return
	default:
	}

	if run != nil {
		run()
	}
}

// Cancel discards any pending run and rejects further triggers.
func (t *throttle) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	select {
	case <-t.cancelled:
		return
	default:
	}

	close(t.cancelled)
	t.pending = nil
}
