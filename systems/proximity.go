package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/plexus/components"
)

// ProximitySystem derives the connections of the current frame.
//
// Every unordered pair is tested, so cost is quadratic in particle count
// and bounded by the particle cap.
type ProximitySystem struct {
	filter     *ecs.Filter2[components.ID, components.Position]
	threshold  float64
	maxOpacity float64

	// positions indexed by particle ID, reused across frames
	positions []r2.Vec
	present   []bool
	lastCount int
}

// NewProximitySystem creates a proximity system connecting particles closer
// than threshold, with opacity falling linearly from maxOpacity to zero.
func NewProximitySystem(w *ecs.World, threshold, maxOpacity float64) *ProximitySystem {
	return &ProximitySystem{
		filter:     ecs.NewFilter2[components.ID, components.Position](w),
		threshold:  threshold,
		maxOpacity: maxOpacity,
	}
}

// Update returns a freshly allocated connection list for the current positions.
// Each pair appears once, with From < To.
func (s *ProximitySystem) Update() []components.Connection {
	s.gather()

	conns := make([]components.Connection, 0, s.lastCount)
	for i := range s.positions {
		if !s.present[i] {
			continue
		}
		for j := i + 1; j < len(s.positions); j++ {
			if !s.present[j] {
				continue
			}
			d := r2.Norm(r2.Sub(s.positions[i], s.positions[j]))
			if d < s.threshold {
				conns = append(conns, components.Connection{
					From:    i,
					To:      j,
					Opacity: (1 - d/s.threshold) * s.maxOpacity,
				})
			}
		}
	}

	s.lastCount = len(conns)
	return conns
}

// gather copies positions into an ID-indexed scratch slice so pairs are
// visited in ID order regardless of archetype layout.
func (s *ProximitySystem) gather() {
	for i := range s.present {
		s.present[i] = false
	}

	query := s.filter.Query()
	for query.Next() {
		id, pos := query.Get()
		for id.Value >= len(s.positions) {
			s.positions = append(s.positions, r2.Vec{})
			s.present = append(s.present, false)
		}
		s.positions[id.Value] = pos.Vec
		s.present[id.Value] = true
	}
}
