package renderer

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/plexus/components"
	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/particles"
)

func testParticles() []particles.Particle {
	return []particles.Particle{
		{ID: 0, Position: r2.Vec{X: 100, Y: 100}, Size: 2, Opacity: 0.5},
		{ID: 1, Position: r2.Vec{X: 200, Y: 100}, Size: 1.5, Opacity: 0.8},
	}
}

func TestDrawLayerOrder(t *testing.T) {
	rec := NewRecorder(640, 480)
	r := NewFieldRenderer(config.Default())

	conns := []components.Connection{{From: 0, To: 1, Opacity: 0.2}}
	r.Draw(rec, testParticles(), conns)

	ops := rec.Ops()
	want := []OpKind{OpFillRect, OpStrokeLine, OpFillCircle, OpRadialGradient, OpFillCircle, OpRadialGradient}
	if len(ops) != len(want) {
		t.Fatalf("expected %d ops, got %d: %v", len(want), len(ops), ops)
	}
	for i, k := range want {
		if ops[i].Kind != k {
			t.Errorf("op %d: expected %s, got %s", i, k, ops[i].Kind)
		}
	}
	if rec.Frames() != 1 {
		t.Errorf("expected 1 completed frame, got %d", rec.Frames())
	}
}

func TestDrawTrailFadeCoversSurface(t *testing.T) {
	rec := NewRecorder(640, 480)
	NewFieldRenderer(config.Default()).Draw(rec, nil, nil)

	ops := rec.Ops()
	if len(ops) != 1 {
		t.Fatalf("expected only the trail fade on an empty field, got %v", ops)
	}
	fade := ops[0]
	if fade.X != 0 || fade.Y != 0 || fade.X1 != 640 || fade.Y1 != 480 {
		t.Errorf("trail fade does not cover the surface: %+v", fade)
	}
	want := Paint{R: 10, G: 10, B: 15, Alpha: 0.1}
	if fade.Paint != want {
		t.Errorf("expected fade paint %+v, got %+v", want, fade.Paint)
	}
}

func TestDrawConnectionStyle(t *testing.T) {
	rec := NewRecorder(640, 480)
	NewFieldRenderer(config.Default()).Draw(rec, testParticles(), []components.Connection{{From: 0, To: 1, Opacity: 0.1333}})

	line := rec.Ops()[1]
	if line.X != 100 || line.Y != 100 || line.X1 != 200 || line.Y1 != 100 {
		t.Errorf("line endpoints wrong: %+v", line)
	}
	if line.Width != 0.5 {
		t.Errorf("expected hairline width 0.5, got %f", line.Width)
	}
	if line.Paint != (Paint{R: 0, G: 255, B: 213, Alpha: 0.1333}) {
		t.Errorf("unexpected stroke paint %+v", line.Paint)
	}
}

func TestDrawParticleGlow(t *testing.T) {
	rec := NewRecorder(640, 480)
	NewFieldRenderer(config.Default()).Draw(rec, testParticles()[:1], nil)

	ops := rec.Ops()
	dot, glow := ops[1], ops[2]

	if dot.Radius != 2 || dot.Paint.Alpha != 0.5 {
		t.Errorf("unexpected dot %+v", dot)
	}
	if glow.Radius != 8 {
		t.Errorf("expected glow radius 4x size = 8, got %f", glow.Radius)
	}
	if math.Abs(glow.Paint.Alpha-0.15) > 1e-12 {
		t.Errorf("expected inner glow alpha 0.15, got %f", glow.Paint.Alpha)
	}
	if glow.Outer.Alpha != 0 {
		t.Errorf("expected transparent outer stop, got %f", glow.Outer.Alpha)
	}
	if glow.Outer.G != 255 || glow.Paint.B != 213 {
		t.Errorf("glow not in accent hue: %+v", glow)
	}
}

func TestDrawSkipsDanglingConnections(t *testing.T) {
	rec := NewRecorder(640, 480)
	NewFieldRenderer(config.Default()).Draw(rec, testParticles(), []components.Connection{{From: 0, To: 5, Opacity: 0.3}})

	for _, op := range rec.Ops() {
		if op.Kind == OpStrokeLine {
			t.Errorf("drew a connection to a missing particle: %+v", op)
		}
	}
}

func TestPaintA8Clamps(t *testing.T) {
	tests := []struct {
		alpha float64
		want  uint8
	}{
		{0, 0},
		{1, 255},
		{0.1, 26},
		{-0.5, 0},
		{2, 255},
	}
	for _, tt := range tests {
		if got := (Paint{Alpha: tt.alpha}).A8(); got != tt.want {
			t.Errorf("A8(%v) = %d, want %d", tt.alpha, got, tt.want)
		}
	}
}
