// Package renderer paints the particle field onto a drawing surface.
package renderer

import (
	"math"

	"github.com/pthm-cable/plexus/config"
)

// Surface is a drawing target with canvas-style primitives.
// Coordinates are in surface pixels; colours carry straight (non-premultiplied) alpha.
type Surface interface {
	Size() (width, height int)
	// SetSize changes the pixel dimensions. Contents may be discarded.
	SetSize(width, height int)

	BeginFrame()
	EndFrame()

	FillRect(x, y, w, h float64, p Paint)
	StrokeLine(x0, y0, x1, y1, width float64, p Paint)
	FillCircle(x, y, radius float64, p Paint)
	// FillRadialGradient fills a disc fading from inner at the centre to outer at radius.
	FillRadialGradient(x, y, radius float64, inner, outer Paint)
}

// Paint is an RGB colour with a fractional alpha.
type Paint struct {
	R, G, B uint8
	Alpha   float64
}

// PaintFrom builds an opaque paint from a config colour.
func PaintFrom(c config.RGB) Paint {
	return Paint{R: c.R, G: c.G, B: c.B, Alpha: 1}
}

// WithAlpha returns p with its alpha replaced.
func (p Paint) WithAlpha(a float64) Paint {
	p.Alpha = a
	return p
}

// A8 returns the alpha scaled to 0-255.
func (p Paint) A8() uint8 {
	a := math.Round(p.Alpha * 255)
	if a < 0 {
		return 0
	}
	if a > 255 {
		return 255
	}
	return uint8(a)
}

// RGBA8 returns p as straight (non-premultiplied) 8-bit components.
func (p Paint) RGBA8() [4]uint8 {
	return [4]uint8{p.R, p.G, p.B, p.A8()}
}
