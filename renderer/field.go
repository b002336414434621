package renderer

import (
	"github.com/pthm-cable/plexus/components"
	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/particles"
)

// FieldRenderer draws one frame of the field in three layers:
// trail fade, connections, then particles with their glow.
type FieldRenderer struct {
	background Paint
	accent     Paint

	trailAlpha     float64
	lineWidth      float64
	glowMultiplier float64
	glowOpacity    float64
}

// NewFieldRenderer creates a renderer using the config's style section.
func NewFieldRenderer(cfg *config.Config) *FieldRenderer {
	return &FieldRenderer{
		background:     PaintFrom(cfg.Derived.Background),
		accent:         PaintFrom(cfg.Derived.Accent),
		trailAlpha:     cfg.Style.TrailAlpha,
		lineWidth:      cfg.Style.LineWidth,
		glowMultiplier: cfg.Style.GlowMultiplier,
		glowOpacity:    cfg.Style.GlowOpacity,
	}
}

// Draw paints the frame. ps must be ordered by ID, as returned by
// particles.Store.Particles.
func (r *FieldRenderer) Draw(s Surface, ps []particles.Particle, conns []components.Connection) {
	s.BeginFrame()
	defer s.EndFrame()

	// Low-alpha overlay instead of a clear, so earlier frames decay into trails
	w, h := s.Size()
	s.FillRect(0, 0, float64(w), float64(h), r.background.WithAlpha(r.trailAlpha))

	for _, c := range conns {
		if c.From < 0 || c.To >= len(ps) || c.From >= c.To {
			continue
		}
		a, b := ps[c.From].Position, ps[c.To].Position
		s.StrokeLine(a.X, a.Y, b.X, b.Y, r.lineWidth, r.accent.WithAlpha(c.Opacity))
	}

	for i := range ps {
		p := &ps[i]
		x, y := p.Position.X, p.Position.Y

		s.FillCircle(x, y, p.Size, r.accent.WithAlpha(p.Opacity))
		s.FillRadialGradient(x, y, p.Size*r.glowMultiplier,
			r.accent.WithAlpha(p.Opacity*r.glowOpacity),
			r.accent.WithAlpha(0),
		)
	}
}
