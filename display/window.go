// Package display mounts the particle field into a raylib window.
package display

import (
	"fmt"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plexus/driver"
	"github.com/pthm-cable/plexus/renderer"
)

// Window is a driver.Host backed by the current raylib window.
// rl.InitWindow must be called before Surface.
type Window struct {
	background rl.Color
	surface    *Surface

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(width, height int)
}

// NewWindow creates a host painting its first frame over background.
func NewWindow(background renderer.Paint) *Window {
	return &Window{
		background: toColor(background.WithAlpha(1)),
		listeners:  make(map[int]func(int, int)),
	}
}

// Surface returns the window's render texture, allocating it on first use.
func (w *Window) Surface() (renderer.Surface, error) {
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("%w: window not initialized", driver.ErrSurfaceUnavailable)
	}
	if w.surface != nil {
		return w.surface, nil
	}

	s := &Surface{background: w.background}
	width, height := w.Viewport()
	s.SetSize(width, height)
	if width > 0 && height > 0 && !s.loaded {
		return nil, fmt.Errorf("%w: render texture allocation failed", driver.ErrSurfaceUnavailable)
	}
	w.surface = s
	return s, nil
}

// Viewport returns the window size in pixels.
func (w *Window) Viewport() (int, int) {
	return int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
}

// OnResize registers fn for window resizes.
func (w *Window) OnResize(fn func(width, height int)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.listeners[id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.listeners, id)
	}
}

// Poll forwards a pending window resize to listeners.
// Call once per loop iteration, before ticking the frame clock.
func (w *Window) Poll() {
	if !rl.IsWindowResized() {
		return
	}
	width, height := w.Viewport()

	w.mu.Lock()
	fns := make([]func(int, int), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}

// Present copies the field onto the screen. Call between
// rl.BeginDrawing and rl.EndDrawing.
func (w *Window) Present() {
	rl.ClearBackground(w.background)
	if w.surface != nil {
		w.surface.present()
	}
}

// Close releases the render texture.
func (w *Window) Close() {
	if w.surface != nil {
		w.surface.unload()
		w.surface = nil
	}
}

const (
	// glowBands is how many flat rings approximate a glow gradient
	glowBands    = 8
	ringSegments = 36
)

// Surface draws into an off-screen render texture, so a frame only fades
// the previous one rather than replacing it.
type Surface struct {
	target     rl.RenderTexture2D
	loaded     bool
	width      int
	height     int
	background rl.Color
	bands      []renderer.Band
}

// Size returns the texture size in pixels.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// SetSize reallocates the render texture, clearing it to the background.
func (s *Surface) SetSize(width, height int) {
	s.unload()
	s.width, s.height = max(width, 0), max(height, 0)
	if s.width == 0 || s.height == 0 {
		return
	}

	s.target = rl.LoadRenderTexture(int32(s.width), int32(s.height))
	if s.target.ID == 0 {
		return
	}
	s.loaded = true

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(s.background)
	rl.EndTextureMode()
}

// BeginFrame redirects drawing into the texture.
func (s *Surface) BeginFrame() {
	if s.loaded {
		rl.BeginTextureMode(s.target)
	}
}

// EndFrame restores drawing to the screen.
func (s *Surface) EndFrame() {
	if s.loaded {
		rl.EndTextureMode()
	}
}

// FillRect blends p over the rectangle.
func (s *Surface) FillRect(x, y, w, h float64, p renderer.Paint) {
	if !s.loaded {
		return
	}
	rl.DrawRectangleRec(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}, toColor(p))
}

// StrokeLine draws a straight line of the given width.
func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, p renderer.Paint) {
	if !s.loaded {
		return
	}
	rl.DrawLineEx(
		rl.Vector2{X: float32(x0), Y: float32(y0)},
		rl.Vector2{X: float32(x1), Y: float32(y1)},
		float32(width),
		toColor(p),
	)
}

// FillCircle fills a disc at a sub-pixel centre.
func (s *Surface) FillCircle(x, y, radius float64, p renderer.Paint) {
	if !s.loaded {
		return
	}
	rl.DrawCircleV(rl.Vector2{X: float32(x), Y: float32(y)}, float32(radius), toColor(p))
}

// FillRadialGradient draws the gradient as concentric rings around a
// sub-pixel centre, so the glow stays aligned with its dot.
func (s *Surface) FillRadialGradient(x, y, radius float64, inner, outer renderer.Paint) {
	if !s.loaded {
		return
	}
	center := rl.Vector2{X: float32(x), Y: float32(y)}
	s.bands = renderer.RadialBands(s.bands[:0], radius, inner, outer, glowBands)
	for _, b := range s.bands {
		rl.DrawRing(center, float32(b.Inner), float32(b.Outer), 0, 360, ringSegments, toColor(b.Paint))
	}
}

// present draws the texture flipped, since render textures are stored bottom-up.
func (s *Surface) present() {
	if !s.loaded {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(s.width), Height: -float32(s.height)}
	rl.DrawTextureRec(s.target.Texture, src, rl.Vector2{}, rl.White)
}

func (s *Surface) unload() {
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
		s.loaded = false
	}
}

func toColor(p renderer.Paint) rl.Color {
	return rl.NewColor(p.R, p.G, p.B, p.A8())
}
