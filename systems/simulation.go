package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/plexus/components"
	"github.com/pthm-cable/plexus/config"
)

// Phase names for the simulation step.
const (
	PhaseMotion    = "motion"
	PhaseProximity = "proximity"
)

// PhaseTimer is notified when a step phase begins.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Simulation runs the physics and proximity systems in order.
type Simulation struct {
	physics   *PhysicsSystem
	proximity *ProximitySystem
	timer     PhaseTimer
}

// NewSimulation builds the step systems over the given world.
// timer may be nil.
func NewSimulation(w *ecs.World, cfg *config.Config, timer PhaseTimer) *Simulation {
	return &Simulation{
		physics:   NewPhysicsSystem(w),
		proximity: NewProximitySystem(w, cfg.Field.ProximityThreshold, cfg.Style.ConnectionMaxOpacity),
		timer:     timer,
	}
}

// Step advances the particles by one frame and returns this frame's connections.
func (s *Simulation) Step(b Bounds) []components.Connection {
	if s.timer != nil {
		s.timer.StartPhase(PhaseMotion)
	}
	s.physics.Update(b)

	if s.timer != nil {
		s.timer.StartPhase(PhaseProximity)
	}
	return s.proximity.Update()
}
