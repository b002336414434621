// Package systems contains the per-frame ECS systems of the particle field.
package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/plexus/components"
)

// Bounds represents the surface the particles move on.
type Bounds struct {
	Width, Height float64
}

// PhysicsSystem moves particles and reflects them off the surface edges.
type PhysicsSystem struct {
	filter *ecs.Filter2[components.Position, components.Velocity]
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World) *PhysicsSystem {
	return &PhysicsSystem{
		filter: ecs.NewFilter2[components.Position, components.Velocity](w),
	}
}

// Update advances every particle by one frame.
//
// Reflection flips the velocity component of each axis the particle is
// outside of, but the position is not clamped: a particle may sit past an
// edge for a frame before the reflected velocity brings it back.
func (s *PhysicsSystem) Update(b Bounds) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel := query.Get()

		pos.Vec = r2.Add(pos.Vec, vel.Vec)

		if pos.X < 0 || pos.X > b.Width {
			vel.X = -vel.X
		}
		if pos.Y < 0 || pos.Y > b.Height {
			vel.Y = -vel.Y
		}
	}
}
