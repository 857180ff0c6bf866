package feed

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestDebounceCollapsesBursts(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	d := NewDebounce(500 * time.Millisecond)
	d.now = clk.now

	if d.Fire() {
		t.Error("unarmed debounce fired")
	}

	d.Bump()
	clk.advance(300 * time.Millisecond)
	if d.Fire() {
		t.Error("fired before the quiet period elapsed")
	}

	// Another keystroke pushes the deadline out.
	d.Bump()
	clk.advance(300 * time.Millisecond)
	if d.Fire() {
		t.Error("fired despite the deadline being pushed out")
	}

	clk.advance(200 * time.Millisecond)
	if !d.Fire() {
		t.Error("did not fire after the quiet period")
	}
	if d.Fire() {
		t.Error("fired twice for one burst")
	}
	if d.Armed() {
		t.Error("still armed after firing")
	}
}

func TestDebounceDeadline(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	d := NewDebounce(500 * time.Millisecond)
	d.now = clk.now

	deadline := d.Bump()
	if want := clk.t.Add(500 * time.Millisecond); !deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", deadline, want)
	}
}

func TestThrottleBoundsFrequency(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	th := NewThrottle(300 * time.Millisecond)
	th.now = clk.now

	if !th.Allow() {
		t.Error("first event should pass")
	}
	if th.Allow() {
		t.Error("second event passed inside the interval")
	}

	clk.advance(299 * time.Millisecond)
	if th.Allow() {
		t.Error("event passed just inside the interval")
	}

	clk.advance(1 * time.Millisecond)
	if !th.Allow() {
		t.Error("event blocked after the interval elapsed")
	}
}
