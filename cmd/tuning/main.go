// Field tuning tool - live particle field with sliders for the field and style parameters.
//
// Usage: go run ./cmd/tuning [-config path] [-out tuned.yaml]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/display"
	"github.com/pthm-cable/plexus/driver"
	"github.com/pthm-cable/plexus/renderer"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	panelWidth   = 320
	sliderWidth  = panelWidth - 110
)

// slider describes one tunable float parameter.
type slider struct {
	label    string
	format   string
	min, max float32
	value    func(c *config.Config) *float64
}

var sliders = []slider{
	{"Max speed", "%.2f", 0, 2, func(c *config.Config) *float64 { return &c.Field.MaxSpeed }},
	{"Density divisor", "%.0f", 5, 60, func(c *config.Config) *float64 { return &c.Field.DensityDivisor }},
	{"Min size", "%.1f", 0.5, 5, func(c *config.Config) *float64 { return &c.Field.MinSize }},
	{"Max size", "%.1f", 0.5, 8, func(c *config.Config) *float64 { return &c.Field.MaxSize }},
	{"Proximity threshold", "%.0f", 20, 400, func(c *config.Config) *float64 { return &c.Field.ProximityThreshold }},
	{"Trail alpha", "%.2f", 0.01, 1, func(c *config.Config) *float64 { return &c.Style.TrailAlpha }},
	{"Connection opacity", "%.2f", 0, 1, func(c *config.Config) *float64 { return &c.Style.ConnectionMaxOpacity }},
	{"Line width", "%.2f", 0.1, 3, func(c *config.Config) *float64 { return &c.Style.LineWidth }},
	{"Glow multiplier", "%.1f", 1, 10, func(c *config.Config) *float64 { return &c.Style.GlowMultiplier }},
	{"Glow opacity", "%.2f", 0, 1, func(c *config.Config) *float64 { return &c.Style.GlowOpacity }},
}

// session is the mounted field the panel controls.
type session struct {
	win   *display.Window
	clock *driver.FrameClock
	drv   *driver.Driver
}

func mount(cfg *config.Config) *session {
	s := &session{
		win:   display.NewWindow(renderer.PaintFrom(cfg.Derived.Background)),
		clock: driver.NewFrameClock(),
	}
	s.drv = driver.New(cfg, s.win, s.clock, driver.Options{
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	})
	if err := s.drv.Mount(); err != nil {
		slog.Warn("mount failed", "error", err)
	}
	return s
}

func (s *session) close() {
	s.drv.Unmount()
	s.win.Close()
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml to start from (empty = defaults)")
	outPath := flag.String("out", "tuned.yaml", "Where Save writes the tuned config")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	live := config.Cfg()
	edit := *live

	rl.InitWindow(windowWidth, windowHeight, "Plexus Tuning")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(live.Screen.TargetFPS))

	s := mount(live)
	defer func() { s.close() }()

	status := ""
	dirty := false

	for !rl.WindowShouldClose() {
		s.win.Poll()
		s.clock.Tick()

		rl.BeginDrawing()
		s.win.Present()

		panelX := float32(windowWidth - panelWidth)
		rl.DrawRectangle(int32(panelX), 0, panelWidth, windowHeight, rl.Fade(rl.RayWhite, 0.9))
		panelX += 10
		panelY := float32(15)

		rl.DrawText("Field", int32(panelX), int32(panelY), 20, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("%d frames", s.drv.Frames()), int32(panelX+180), int32(panelY+4), 14, rl.Gray)
		panelY += 35

		maxParticles := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY + 18, Width: sliderWidth, Height: 20},
			"", "",
			float32(edit.Field.MaxParticles), 0, 300,
		)
		rl.DrawText("Max particles", int32(panelX), int32(panelY), 14, rl.Gray)
		rl.DrawText(fmt.Sprintf("%d", edit.Field.MaxParticles), int32(panelX+sliderWidth+10), int32(panelY+20), 16, rl.DarkGray)
		if int(maxParticles) != edit.Field.MaxParticles {
			edit.Field.MaxParticles = int(maxParticles)
			dirty = true
		}
		panelY += 48

		for _, sl := range sliders {
			v := sl.value(&edit)
			rl.DrawText(sl.label, int32(panelX), int32(panelY), 14, rl.Gray)
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY + 18, Width: sliderWidth, Height: 20},
				"", "",
				float32(*v), sl.min, sl.max,
			)
			rl.DrawText(fmt.Sprintf(sl.format, *v), int32(panelX+sliderWidth+10), int32(panelY+20), 16, rl.DarkGray)
			if next != float32(*v) {
				*v = float64(next)
				dirty = true
			}
			panelY += 48
		}

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 90, Height: 30}, applyLabel(dirty)) {
			candidate := edit
			if err := candidate.Refresh(); err != nil {
				status = err.Error()
			} else {
				s.close()
				live = &candidate
				edit = candidate
				s = mount(live)
				status = "applied"
				dirty = false
			}
		}
		if gui.Button(rl.Rectangle{X: panelX + 100, Y: panelY, Width: 90, Height: 30}, "Revert") {
			edit = *live
			dirty = false
			status = ""
		}
		if gui.Button(rl.Rectangle{X: panelX + 200, Y: panelY, Width: 90, Height: 30}, "Save") {
			if err := live.WriteYAML(*outPath); err != nil {
				status = err.Error()
			} else {
				status = "saved " + *outPath
				slog.Info("saved config", "path", *outPath)
			}
		}
		panelY += 40

		if status != "" {
			rl.DrawText(status, int32(panelX), int32(panelY), 12, rl.DarkGray)
		}
		rl.DrawText("Apply remounts the field; Save writes the applied values", int32(panelX), windowHeight-25, 10, rl.Gray)

		rl.EndDrawing()
	}
}

func applyLabel(dirty bool) string {
	if dirty {
		return "Apply *"
	}
	return "Apply"
}
