package feed

import "time"

// Debounce collapses a burst of inputs into one firing after a quiet
// period. The caller bumps it on every input and later asks Fire; the
// injected clock keeps tests off the wall clock.
type Debounce struct {
	quiet    time.Duration
	now      func() time.Time
	deadline time.Time
	armed    bool
}

func NewDebounce(quiet time.Duration) *Debounce {
	return &Debounce{quiet: quiet, now: time.Now}
}

// Bump records an input and returns the new deadline.
func (d *Debounce) Bump() time.Time {
	d.deadline = d.now().Add(d.quiet)
	d.armed = true
	return d.deadline
}

// Fire reports whether the quiet period has elapsed since the last
// bump, disarming the debounce when it has. Spurious calls before the
// deadline (or with nothing armed) return false.
func (d *Debounce) Fire() bool {
	if !d.armed || d.now().Before(d.deadline) {
		return false
	}
	d.armed = false
	return true
}

func (d *Debounce) Armed() bool {
	return d.armed
}

// Quiet returns the configured quiet period.
func (d *Debounce) Quiet() time.Duration {
	return d.quiet
}

// Throttle admits at most one event per interval. It bounds event
// frequency only; correctness never depends on it.
type Throttle struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, now: time.Now}
}

// Allow reports whether an event may pass, consuming the slot if so.
func (t *Throttle) Allow() bool {
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}
