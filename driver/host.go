package driver

import (
	"sync"

	"github.com/pthm-cable/plexus/renderer"
)

// HeadlessHost serves a fixed surface with a viewport changed only by Resize.
// A nil surface makes acquisition fail.
type HeadlessHost struct {
	surface renderer.Surface

	mu        sync.Mutex
	width     int
	height    int
	nextID    int
	listeners map[int]func(width, height int)
}

// NewHeadlessHost creates a host with the given surface and viewport.
func NewHeadlessHost(surface renderer.Surface, width, height int) *HeadlessHost {
	return &HeadlessHost{
		surface:   surface,
		width:     width,
		height:    height,
		listeners: make(map[int]func(int, int)),
	}
}

func (h *HeadlessHost) Surface() (renderer.Surface, error) {
	if h.surface == nil {
		return nil, ErrSurfaceUnavailable
	}
	return h.surface, nil
}

func (h *HeadlessHost) Viewport() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

func (h *HeadlessHost) OnResize(fn func(width, height int)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Resize changes the viewport and notifies listeners.
func (h *HeadlessHost) Resize(width, height int) {
	h.mu.Lock()
	h.width, h.height = width, height
	fns := make([]func(int, int), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}

// Listeners returns the number of registered resize listeners.
func (h *HeadlessHost) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
