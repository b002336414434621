package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/plexus/components"
	"github.com/pthm-cable/plexus/particles"
)

// WindowStats holds aggregated field statistics for a window of frames.
type WindowStats struct {
	WindowEnd int64 `csv:"window_end"`
	Frames    int   `csv:"frames"`

	// Population at window end
	Particles int `csv:"particles"`

	// Connections per frame
	ConnMean float64 `csv:"conn_mean"`
	ConnP10  float64 `csv:"conn_p10"`
	ConnP50  float64 `csv:"conn_p50"`
	ConnP90  float64 `csv:"conn_p90"`
	ConnMax  int     `csv:"conn_max"`

	// Mean line alpha over every connection drawn in the window
	OpacityMean float64 `csv:"opacity_mean"`

	// Particle speed (px/frame) sampled at window end
	SpeedMean float64 `csv:"speed_mean"`
	SpeedMax  float64 `csv:"speed_max"`
}

// FieldCollector accumulates per-frame field statistics until Flush.
// It keeps at most the last capacity frames, so an unflushed collector
// stays bounded.
type FieldCollector struct {
	frames []frameSample // ring buffer
	head   int
	count  int

	particles int
	speeds    []float64
}

type frameSample struct {
	conns      int
	opacitySum float64
}

// NewFieldCollector creates an empty collector holding up to capacity frames.
func NewFieldCollector(capacity int) *FieldCollector {
	if capacity < 1 {
		capacity = 1
	}
	return &FieldCollector{frames: make([]frameSample, capacity)}
}

// RecordFrame adds one rendered frame, evicting the oldest one when full.
func (c *FieldCollector) RecordFrame(ps []particles.Particle, conns []components.Connection) {
	sample := frameSample{conns: len(conns)}
	for _, conn := range conns {
		sample.opacitySum += conn.Opacity
	}

	c.frames[c.head] = sample
	c.head = (c.head + 1) % len(c.frames)
	if c.count < len(c.frames) {
		c.count++
	}

	c.particles = len(ps)
	c.speeds = c.speeds[:0]
	for _, p := range ps {
		c.speeds = append(c.speeds, r2.Norm(p.Velocity))
	}
}

// Len returns the number of frames held.
func (c *FieldCollector) Len() int {
	return c.count
}

// Flush returns the stats for the frames held since the last flush
// and starts a new window.
func (c *FieldCollector) Flush(windowEnd int64) WindowStats {
	s := WindowStats{
		WindowEnd: windowEnd,
		Frames:    c.count,
		Particles: c.particles,
	}

	if c.count > 0 {
		sorted := make([]float64, 0, c.count)
		var opacitySum float64
		var lines int
		start := (c.head - c.count + len(c.frames)) % len(c.frames)
		for i := 0; i < c.count; i++ {
			f := c.frames[(start+i)%len(c.frames)]
			sorted = append(sorted, float64(f.conns))
			opacitySum += f.opacitySum
			lines += f.conns
		}
		sort.Float64s(sorted)

		s.ConnMean = stat.Mean(sorted, nil)
		s.ConnP10 = Percentile(sorted, 0.10)
		s.ConnP50 = Percentile(sorted, 0.50)
		s.ConnP90 = Percentile(sorted, 0.90)
		s.ConnMax = int(sorted[len(sorted)-1])
		if lines > 0 {
			s.OpacityMean = opacitySum / float64(lines)
		}
	}
	if len(c.speeds) > 0 {
		s.SpeedMean = stat.Mean(c.speeds, nil)
		for _, v := range c.speeds {
			s.SpeedMax = max(s.SpeedMax, v)
		}
	}

	c.head, c.count = 0, 0
	return s
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEnd),
		slog.Int("frames", s.Frames),
		slog.Int("particles", s.Particles),
		slog.Float64("conn_mean", s.ConnMean),
		slog.Float64("conn_p50", s.ConnP50),
		slog.Float64("conn_p90", s.ConnP90),
		slog.Int("conn_max", s.ConnMax),
		slog.Float64("opacity_mean", s.OpacityMean),
		slog.Float64("speed_mean", s.SpeedMean),
	)
}
