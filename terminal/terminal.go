// Package terminal mounts the particle field into a terminal using tcell.
//
// The field is rasterized on a virtual pixel grid of CellWidth x CellHeight
// pixels per character cell and shown with upper-half-block runes: the
// foreground colour carries the top half of a cell, the background the bottom.
package terminal

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/driver"
	"github.com/pthm-cable/plexus/renderer"
)

const halfBlock = '▀'

// samplesPerAxis is how many pixels per half-cell axis are averaged.
const samplesPerAxis = 2

// Terminal is a driver.Host drawing into a tcell screen.
type Terminal struct {
	screen  tcell.Screen
	cellW   int
	cellH   int
	fps     int
	surface *Surface

	mu        sync.Mutex
	cols      int
	rows      int
	nextID    int
	listeners map[int]func(width, height int)
}

// New initializes the terminal screen.
func New(cfg config.TerminalConfig, background renderer.Paint) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.HideCursor()

	return newTerminal(screen, cfg, background), nil
}

func newTerminal(screen tcell.Screen, cfg config.TerminalConfig, background renderer.Paint) *Terminal {
	t := &Terminal{
		screen:    screen,
		cellW:     cfg.CellWidth,
		cellH:     cfg.CellHeight,
		fps:       cfg.TargetFPS,
		listeners: make(map[int]func(int, int)),
	}
	t.cols, t.rows = screen.Size()
	t.surface = &Surface{
		CanvasSurface: renderer.NewCanvasSurface(t.cols*t.cellW, t.rows*t.cellH, background),
		term:          t,
	}
	return t
}

// Surface returns the terminal's raster surface.
func (t *Terminal) Surface() (renderer.Surface, error) {
	if t.screen == nil {
		return nil, driver.ErrSurfaceUnavailable
	}
	return t.surface, nil
}

// Viewport returns the virtual pixel size of the screen.
func (t *Terminal) Viewport() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols * t.cellW, t.rows * t.cellH
}

// OnResize registers fn for terminal resizes.
func (t *Terminal) OnResize(fn func(width, height int)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.listeners[id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.listeners, id)
	}
}

// Run ticks clock at the configured rate until the user quits with
// Esc, Ctrl-C or q, or until done reports true after a tick. done may be nil.
// Resize events and frames share this one loop.
func (t *Terminal) Run(clock *driver.FrameClock, done func() bool) {
	fps := t.fps
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !t.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			clock.Tick()
			if done != nil && done() {
				return
			}
		}
	}
}

func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
			return false
		}
	case *tcell.EventResize:
		t.screen.Sync()
		cols, rows := ev.Size()
		t.resize(cols, rows)
	}
	return true
}

func (t *Terminal) resize(cols, rows int) {
	t.mu.Lock()
	t.cols, t.rows = cols, rows
	width, height := cols*t.cellW, rows*t.cellH
	fns := make([]func(int, int), 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// Surface rasterizes on a canvas and copies the result to the screen when
// a frame ends.
type Surface struct {
	*renderer.CanvasSurface
	term *Terminal
}

// EndFrame blits the raster to the terminal.
func (s *Surface) EndFrame() {
	s.CanvasSurface.EndFrame()
	s.term.blit(s.Image())
	s.term.screen.Show()
}

func (t *Terminal) blit(img *image.RGBA) {
	t.mu.Lock()
	cols, rows := t.cols, t.rows
	t.mu.Unlock()

	half := t.cellH / 2
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			x0, y0 := cx*t.cellW, cy*t.cellH
			top := averageColor(img, x0, y0, t.cellW, half)
			bottom := averageColor(img, x0, y0+half, t.cellW, t.cellH-half)

			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			t.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
}

// averageColor blends a sparse grid of samples from the w x h block at
// (x0, y0) in linear RGB.
func averageColor(img *image.RGBA, x0, y0, w, h int) colorful.Color {
	var r, g, b float64
	n := 0
	bounds := img.Bounds()
	for sy := 0; sy < samplesPerAxis; sy++ {
		for sx := 0; sx < samplesPerAxis; sx++ {
			x := x0 + (2*sx+1)*w/(2*samplesPerAxis)
			y := y0 + (2*sy+1)*h/(2*samplesPerAxis)
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			c := img.RGBAAt(x, y)
			lr, lg, lb := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.LinearRgb()
			r, g, b = r+lr, g+lg, b+lb
			n++
		}
	}
	if n == 0 {
		return colorful.Color{}
	}
	return colorful.LinearRgb(r/float64(n), g/float64(n), b/float64(n)).Clamped()
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
