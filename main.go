package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/display"
	"github.com/pthm-cable/plexus/driver"
	"github.com/pthm-cable/plexus/renderer"
	"github.com/pthm-cable/plexus/telemetry"
	"github.com/pthm-cable/plexus/terminal"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", "window", "Output: window, headless or terminal")
	width := flag.Int("width", 0, "Viewport width override (0 = use config)")
	height := flag.Int("height", 0, "Viewport height override (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N frames (0 = unlimited; headless defaults to 600)")
	frameDir := flag.String("frame-dir", "", "Headless: directory for PNG frames")
	frameEvery := flag.Int("frame-every", 60, "Headless: save every Nth frame")
	outputDir := flag.String("output-dir", "", "Output directory for perf CSV and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output perf stats via slog")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *width > 0 {
		cfg.Screen.Width = *width
	}
	if *height > 0 {
		cfg.Screen.Height = *height
	}
	if err := cfg.Refresh(); err != nil {
		slog.Error("invalid overrides", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Terminal mode owns stdout, so logs go to stderr there
	logOut := os.Stdout
	if *mode == "terminal" {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, nil))
	slog.SetDefault(logger)

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	r := &runner{
		cfg:      cfg,
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:   output,
		logStats: *logStats,
		maxTicks: *maxTicks,
		rng:      rand.New(rand.NewSource(rngSeed)),
	}

	// Stats are only flushed on the log interval; without one nothing drains them
	if cfg.Telemetry.LogInterval > 0 {
		r.stats = telemetry.NewFieldCollector(cfg.Telemetry.LogInterval)
	}

	slog.Info("starting particle field", "mode", *mode, "seed", rngSeed)

	switch *mode {
	case "window":
		r.runWindow()
	case "headless":
		if r.maxTicks == 0 {
			r.maxTicks = 600
		}
		if err := r.runHeadless(*frameDir, *frameEvery); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
	case "terminal":
		if err := r.runTerminal(); err != nil {
			slog.Error("terminal run failed", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
}

// runner holds what every output mode shares.
type runner struct {
	cfg      *config.Config
	perf     *telemetry.PerfCollector
	stats    *telemetry.FieldCollector
	output   *telemetry.OutputManager
	logStats bool
	maxTicks int
	rng      *rand.Rand
}

func (r *runner) newDriver(host driver.Host, clock *driver.FrameClock) *driver.Driver {
	return driver.New(r.cfg, host, clock, driver.Options{Rand: r.rng, Perf: r.perf, Stats: r.stats})
}

// afterFrame handles periodic perf reporting and reports whether the run is done.
func (r *runner) afterFrame(frames int64) bool {
	if interval := int64(r.cfg.Telemetry.LogInterval); interval > 0 && frames > 0 && frames%interval == 0 {
		perf := r.perf.Stats()
		field := r.stats.Flush(frames)
		if r.logStats {
			slog.Info("perf", "frame", frames, "stats", perf)
			slog.Info("field", "stats", field)
		}
		if err := r.output.WritePerf(perf, frames); err != nil {
			slog.Warn("failed to write perf", "error", err)
		}
		if err := r.output.WriteStats(field); err != nil {
			slog.Warn("failed to write stats", "error", err)
		}
	}
	return r.maxTicks > 0 && frames >= int64(r.maxTicks)
}

func (r *runner) runWindow() {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(r.cfg.Screen.Width), int32(r.cfg.Screen.Height), r.cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(r.cfg.Screen.TargetFPS))

	win := display.NewWindow(renderer.PaintFrom(r.cfg.Derived.Background))
	defer win.Close()

	clock := driver.NewFrameClock()
	d := r.newDriver(win, clock)
	// A failed mount leaves an empty window, nothing more
	_ = d.Mount()
	defer d.Unmount()

	for !rl.WindowShouldClose() {
		win.Poll()
		clock.Tick()

		rl.BeginDrawing()
		win.Present()
		rl.EndDrawing()

		if r.afterFrame(d.Frames()) {
			break
		}
	}
}

func (r *runner) runHeadless(frameDir string, frameEvery int) error {
	if frameDir != "" {
		if err := os.MkdirAll(frameDir, 0755); err != nil {
			return fmt.Errorf("creating frame directory: %w", err)
		}
	}

	surface := renderer.NewCanvasSurface(r.cfg.Screen.Width, r.cfg.Screen.Height, renderer.PaintFrom(r.cfg.Derived.Background))
	host := driver.NewHeadlessHost(surface, r.cfg.Screen.Width, r.cfg.Screen.Height)
	clock := driver.NewFrameClock()

	d := r.newDriver(host, clock)
	if err := d.Mount(); err != nil {
		return err
	}
	defer d.Unmount()

	for {
		clock.Tick()
		frames := d.Frames()

		if frameDir != "" && frameEvery > 0 && frames%int64(frameEvery) == 0 {
			path := filepath.Join(frameDir, fmt.Sprintf("frame_%06d.png", frames))
			if err := surface.SavePNG(path); err != nil {
				return err
			}
		}

		if r.afterFrame(frames) {
			slog.Info("max ticks reached", "frames", frames, "perf", r.perf.Stats())
			return nil
		}
	}
}

func (r *runner) runTerminal() error {
	term, err := terminal.New(r.cfg.Terminal, renderer.PaintFrom(r.cfg.Derived.Background))
	if err != nil {
		return err
	}
	defer term.Close()

	clock := driver.NewFrameClock()
	d := r.newDriver(term, clock)
	if err := d.Mount(); err != nil {
		return err
	}
	defer d.Unmount()

	term.Run(clock, func() bool { return r.afterFrame(d.Frames()) })
	return nil
}
