package renderer

// Band is one flat ring of a banded radial gradient.
type Band struct {
	Inner, Outer float64 // radii
	Paint        Paint
}

// Lerp interpolates straight components from p (t=0) to q (t=1).
func (p Paint) Lerp(q Paint, t float64) Paint {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return Paint{
		R:     mix(p.R, q.R),
		G:     mix(p.G, q.G),
		B:     mix(p.B, q.B),
		Alpha: p.Alpha + (q.Alpha-p.Alpha)*t,
	}
}

// RadialBands splits a radial gradient from inner at the centre to outer at
// radius into n touching rings, each painted with the gradient at its mid
// radius, and appends them to dst. The first ring starts at radius 0.
func RadialBands(dst []Band, radius float64, inner, outer Paint, n int) []Band {
	if radius <= 0 || n <= 0 {
		return dst
	}
	step := radius / float64(n)
	for i := 0; i < n; i++ {
		t := (float64(i) + 0.5) / float64(n)
		dst = append(dst, Band{
			Inner: float64(i) * step,
			Outer: float64(i+1) * step,
			Paint: inner.Lerp(outer, t),
		})
	}
	return dst
}
