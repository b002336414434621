package driver

import "testing"

func TestFrameClockRunsInRequestOrder(t *testing.T) {
	c := NewFrameClock()
	var got []int
	c.RequestFrame(func() { got = append(got, 1) })
	c.RequestFrame(func() { got = append(got, 2) })

	if ran := c.Tick(); ran != 2 {
		t.Fatalf("expected 2 callbacks, got %d", ran)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("unexpected order %v", got)
	}
	if c.Tick() != 0 {
		t.Error("callbacks ran twice")
	}
}

func TestFrameClockDefersNestedRequests(t *testing.T) {
	c := NewFrameClock()
	count := 0
	var loop func()
	loop = func() {
		count++
		c.RequestFrame(loop)
	}
	c.RequestFrame(loop)

	c.Tick()
	if count != 1 {
		t.Fatalf("rescheduled callback ran in the same tick: count=%d", count)
	}
	c.Tick()
	if count != 2 {
		t.Errorf("expected 2 runs after 2 ticks, got %d", count)
	}
	if c.Pending() != 1 {
		t.Errorf("expected 1 pending, got %d", c.Pending())
	}
}

func TestFrameClockCancel(t *testing.T) {
	c := NewFrameClock()
	ran := false
	id := c.RequestFrame(func() { ran = true })
	c.CancelFrame(id)
	c.CancelFrame(id)   // twice is harmless
	c.CancelFrame(9999) // unknown is harmless

	if n := c.Tick(); n != 0 || ran {
		t.Errorf("cancelled callback ran (n=%d)", n)
	}
}

func TestFrameClockCancelWithinTick(t *testing.T) {
	c := NewFrameClock()
	ranSecond := false
	var second FrameID
	c.RequestFrame(func() { c.CancelFrame(second) })
	second = c.RequestFrame(func() { ranSecond = true })

	c.Tick()
	if ranSecond {
		t.Error("callback cancelled earlier in the tick still ran")
	}
}
