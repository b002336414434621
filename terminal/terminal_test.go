package terminal

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/driver"
	"github.com/pthm-cable/plexus/renderer"
)

func newSimTerminal(t *testing.T, cols, rows int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	t.Cleanup(sim.Fini)
	sim.SetSize(cols, rows)

	cfg := config.Default()
	return newTerminal(sim, cfg.Terminal, renderer.PaintFrom(cfg.Derived.Background)), sim
}

func mountOn(t *testing.T, term *Terminal) (*driver.Driver, *driver.FrameClock) {
	t.Helper()
	clock := driver.NewFrameClock()
	d := driver.New(config.Default(), term, clock, driver.Options{
		Rand:   rand.New(rand.NewSource(1)),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err := d.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	t.Cleanup(d.Unmount)
	return d, clock
}

func TestViewportScalesCells(t *testing.T) {
	term, _ := newSimTerminal(t, 20, 6)

	w, h := term.Viewport()
	if w != 160 || h != 96 {
		t.Errorf("expected 160x96 virtual pixels, got %dx%d", w, h)
	}
}

func TestFrameBlitsHalfBlocks(t *testing.T) {
	term, sim := newSimTerminal(t, 20, 6)
	_, clock := mountOn(t, term)

	clock.Tick()

	for y := 0; y < 6; y++ {
		for x := 0; x < 20; x++ {
			r, _, _, _ := sim.GetContent(x, y)
			if r != halfBlock {
				t.Fatalf("cell (%d,%d) = %q, want half block", x, y, r)
			}
		}
	}
}

func TestResizeEventNotifiesDriver(t *testing.T) {
	term, _ := newSimTerminal(t, 20, 6)
	mountOn(t, term)

	if !term.handleEvent(tcell.NewEventResize(30, 10)) {
		t.Fatal("resize event should not quit")
	}

	if w, h := term.surface.Size(); w != 240 || h != 160 {
		t.Errorf("expected surface 240x160 after resize, got %dx%d", w, h)
	}
}

func TestQuitKeys(t *testing.T) {
	term, _ := newSimTerminal(t, 4, 2)

	tests := []struct {
		name string
		ev   *tcell.EventKey
		quit bool
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), true},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true},
		{"x", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), false},
	}
	for _, tt := range tests {
		if got := !term.handleEvent(tt.ev); got != tt.quit {
			t.Errorf("%s: quit=%v, want %v", tt.name, got, tt.quit)
		}
	}
}

func TestAverageColorOfSolidBlock(t *testing.T) {
	s := renderer.NewCanvasSurface(8, 8, renderer.Paint{R: 0, G: 255, B: 213, Alpha: 1})

	r, g, b := averageColor(s.Image(), 0, 0, 8, 8).RGB255()
	if r > 2 || g < 253 || b < 211 || b > 215 {
		t.Errorf("expected accent colour, got (%d,%d,%d)", r, g, b)
	}
}
