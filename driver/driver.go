// Package driver runs the particle field's frame loop and owns its lifecycle.
package driver

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/particles"
	"github.com/pthm-cable/plexus/renderer"
	"github.com/pthm-cable/plexus/systems"
	"github.com/pthm-cable/plexus/telemetry"
)

// ErrSurfaceUnavailable is returned by Mount when the host cannot supply a
// drawing surface. The driver stays stopped and draws nothing.
var ErrSurfaceUnavailable = errors.New("drawing surface unavailable")

// State is a lifecycle stage of a Driver.
type State int32

const (
	StateUnmounted State = iota
	StateInitializing
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Host is the page or window the field is mounted into.
type Host interface {
	// Surface acquires the drawing surface.
	Surface() (renderer.Surface, error)
	// Viewport returns the current viewport size in pixels.
	Viewport() (width, height int)
	// OnResize registers fn for viewport changes and returns its deregistration.
	OnResize(fn func(width, height int)) (cancel func())
}

// Options configures a Driver beyond its config.
type Options struct {
	// Rand seeds the initial particle state. Nil uses a time-based source.
	Rand *rand.Rand
	// Perf receives frame timing. May be nil.
	Perf *telemetry.PerfCollector
	// Stats receives each frame's particles and connections. May be nil.
	Stats *telemetry.FieldCollector
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Driver owns one mounted field: its particle store, surface and pending frame.
// A stopped driver cannot be restarted; mount a new one instead.
type Driver struct {
	cfg   *config.Config
	host  Host
	sched Scheduler
	rng   *rand.Rand
	perf  *telemetry.PerfCollector
	stats *telemetry.FieldCollector
	log   *slog.Logger

	// mu serializes frames and resize handling
	mu           sync.Mutex
	state        State
	surface      renderer.Surface
	width        int
	height       int
	store        *particles.Store
	sim          *systems.Simulation
	draw         *renderer.FieldRenderer
	buf          []particles.Particle
	pending      FrameID
	hasPending   bool
	cancelResize func()
	frames       int64

	stopOnce sync.Once
}

// New creates an unmounted driver.
func New(cfg *config.Config, host Host, sched Scheduler, opts Options) *Driver {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Driver{
		cfg:   cfg,
		host:  host,
		sched: sched,
		rng:   rng,
		perf:  opts.Perf,
		stats: opts.Stats,
		log:   log,
		state: StateUnmounted,
	}
}

// Mount acquires the surface, builds the particle store and starts the frame
// loop. If the surface cannot be acquired the driver moves straight to
// StateStopped without scheduling anything and returns ErrSurfaceUnavailable.
// Mount on a driver that is not unmounted is a no-op.
func (d *Driver) Mount() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateUnmounted {
		return nil
	}
	d.state = StateInitializing

	surface, err := d.host.Surface()
	if err != nil || surface == nil {
		d.state = StateStopped
		if err == nil {
			err = ErrSurfaceUnavailable
		} else if !errors.Is(err, ErrSurfaceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
		}
		d.log.Warn("particle field not started", "error", err)
		return err
	}
	d.surface = surface

	d.width, d.height = d.host.Viewport()
	if w, h := d.surface.Size(); w != d.width || h != d.height {
		d.surface.SetSize(d.width, d.height)
	}
	d.cancelResize = d.host.OnResize(d.resize)

	d.store = particles.New(float64(d.width), float64(d.height), d.rng, d.cfg.Field)
	var timer systems.PhaseTimer
	if d.perf != nil {
		timer = d.perf
	}
	d.sim = systems.NewSimulation(d.store.World(), d.cfg, timer)
	d.draw = renderer.NewFieldRenderer(d.cfg)

	d.state = StateRunning
	d.schedule()

	d.log.Info("particle field mounted",
		"width", d.width,
		"height", d.height,
		"particles", d.store.Len(),
	)
	return nil
}

// Unmount stops the loop, cancelling the pending frame and the resize
// listener. Safe to call more than once and before Mount.
func (d *Driver) Unmount() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		wasRunning := d.state == StateRunning
		d.state = StateStopped

		if d.hasPending {
			d.sched.CancelFrame(d.pending)
			d.hasPending = false
		}
		if d.cancelResize != nil {
			d.cancelResize()
			d.cancelResize = nil
		}

		if wasRunning {
			d.log.Info("particle field unmounted", "frames", d.frames)
		}
	})
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Frames returns the number of frames drawn.
func (d *Driver) Frames() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// schedule requests the next frame. Callers hold mu.
func (d *Driver) schedule() {
	d.pending = d.sched.RequestFrame(d.frame)
	d.hasPending = true
}

// frame runs one simulation step and one render, then reschedules itself.
func (d *Driver) frame() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.hasPending = false
	if d.state != StateRunning {
		return
	}

	if d.perf != nil {
		d.perf.RecordFrame()
		d.perf.StartTick()
	}

	conns := d.sim.Step(systems.Bounds{Width: float64(d.width), Height: float64(d.height)})

	if d.perf != nil {
		d.perf.StartPhase(telemetry.PhaseRender)
	}
	d.buf = d.store.Particles(d.buf)
	d.draw.Draw(d.surface, d.buf, conns)

	if d.perf != nil {
		d.perf.EndTick()
	}
	if d.stats != nil {
		d.stats.RecordFrame(d.buf, conns)
	}

	d.frames++
	d.schedule()
}

// resize updates the surface dimensions. The particle store is left alone.
func (d *Driver) resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateRunning {
		return
	}
	d.width, d.height = width, height
	d.surface.SetSize(width, height)
}
