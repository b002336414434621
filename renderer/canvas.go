package renderer

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
)

// CanvasSurface rasterizes on the CPU with an HTML5-style canvas.
// It needs no window or GPU, so it backs headless and terminal output.
type CanvasSurface struct {
	backend    *softwarebackend.SoftwareBackend
	cv         *canvas.Canvas
	width      int
	height     int
	background Paint
}

// NewCanvasSurface creates a width x height surface filled with background.
func NewCanvasSurface(width, height int, background Paint) *CanvasSurface {
	s := &CanvasSurface{background: background}
	s.SetSize(width, height)
	return s
}

// Size returns the surface dimensions in pixels.
func (s *CanvasSurface) Size() (int, int) {
	return s.width, s.height
}

// SetSize reallocates the raster. Like resizing an HTML canvas, the
// previous contents are lost; the new raster starts as solid background.
func (s *CanvasSurface) SetSize(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
	s.backend = softwarebackend.New(max(s.width, 1), max(s.height, 1))
	s.cv = canvas.New(s.backend)

	if s.empty() {
		return
	}
	s.cv.SetFillStyle(s.background.WithAlpha(1).RGBA8())
	s.cv.FillRect(0, 0, float64(s.width), float64(s.height))
}

// BeginFrame is a no-op; the raster persists between frames.
func (s *CanvasSurface) BeginFrame() {}

// EndFrame is a no-op.
func (s *CanvasSurface) EndFrame() {}

// FillRect blends p over the rectangle.
func (s *CanvasSurface) FillRect(x, y, w, h float64, p Paint) {
	if s.empty() {
		return
	}
	s.cv.SetFillStyle(p.RGBA8())
	s.cv.FillRect(x, y, w, h)
}

// StrokeLine draws a straight line of the given width.
func (s *CanvasSurface) StrokeLine(x0, y0, x1, y1, width float64, p Paint) {
	if s.empty() {
		return
	}
	s.cv.SetStrokeStyle(p.RGBA8())
	s.cv.SetLineWidth(width)
	s.cv.BeginPath()
	s.cv.MoveTo(x0, y0)
	s.cv.LineTo(x1, y1)
	s.cv.Stroke()
}

// FillCircle fills a disc centred at (x, y).
func (s *CanvasSurface) FillCircle(x, y, radius float64, p Paint) {
	if s.empty() || radius <= 0 {
		return
	}
	s.cv.SetFillStyle(p.RGBA8())
	s.cv.BeginPath()
	s.cv.Arc(x, y, radius, 0, 2*math.Pi, false)
	s.cv.Fill()
}

// FillRadialGradient fills a disc shading from inner at the centre to outer at radius.
func (s *CanvasSurface) FillRadialGradient(x, y, radius float64, inner, outer Paint) {
	if s.empty() || radius <= 0 {
		return
	}
	g := s.cv.CreateRadialGradient(x, y, 0, x, y, radius)
	g.AddColorStop(0, inner.RGBA8())
	g.AddColorStop(1, outer.RGBA8())

	s.cv.SetFillStyle(g)
	s.cv.BeginPath()
	s.cv.Arc(x, y, radius, 0, 2*math.Pi, false)
	s.cv.Fill()
}

// Image returns the backing raster. It is replaced on SetSize.
func (s *CanvasSurface) Image() *image.RGBA {
	return s.backend.Image
}

// WritePNG encodes the current contents as PNG.
func (s *CanvasSurface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.backend.Image); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	return nil
}

// SavePNG writes the current contents to a PNG file.
func (s *CanvasSurface) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating frame file: %w", err)
	}
	if err := s.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *CanvasSurface) empty() bool {
	return s.width == 0 || s.height == 0
}
