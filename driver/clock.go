package driver

import "sync"

// FrameID identifies a scheduled frame callback.
type FrameID uint64

// Scheduler runs callbacks on the next display refresh,
// in the manner of requestAnimationFrame.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// FrameClock is a Scheduler driven by the host's refresh signal: the host
// calls Tick once per refresh. Callbacks requested while a tick is running
// wait for the following tick.
type FrameClock struct {
	mu      sync.Mutex
	nextID  FrameID
	pending map[FrameID]func()
	order   []FrameID
}

// NewFrameClock creates an idle clock.
func NewFrameClock() *FrameClock {
	return &FrameClock{pending: make(map[FrameID]func())}
}

// RequestFrame schedules fn for the next tick.
func (c *FrameClock) RequestFrame(fn func()) FrameID {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.pending[id] = fn
	c.order = append(c.order, id)
	return id
}

// CancelFrame drops a pending callback. Unknown or already-run IDs are ignored.
func (c *FrameClock) CancelFrame(id FrameID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

// Tick runs every callback that was pending when the tick began, in request
// order, and returns how many ran. A callback cancelled by an earlier one in
// the same tick does not run.
func (c *FrameClock) Tick() int {
	c.mu.Lock()
	batch := c.order
	c.order = nil
	c.mu.Unlock()

	ran := 0
	for _, id := range batch {
		c.mu.Lock()
		fn, ok := c.pending[id]
		delete(c.pending, id)
		c.mu.Unlock()

		if ok {
			fn()
			ran++
		}
	}
	return ran
}

// Pending returns the number of callbacks waiting for a tick.
func (c *FrameClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
