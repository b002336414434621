// Package components defines ECS components for the particle field.
package components

import "gonum.org/v1/gonum/spatial/r2"

// ID is a particle's stable identifier, assigned 0..N-1 in creation order.
type ID struct {
	Value int
}

// Position is a particle's location in surface pixels.
type Position struct {
	r2.Vec
}

// Velocity is a particle's displacement per frame in pixels.
// Only boundary reflection changes it.
type Velocity struct {
	r2.Vec
}

// Appearance holds the fixed visual state of a particle.
type Appearance struct {
	Size    float64 // Dot radius in pixels; glow radius derives from it
	Opacity float64 // Alpha in (0, 1] for the dot and the glow's inner stop
}

// Connection is a line between two particles within the proximity threshold.
// Connections live for one frame only.
type Connection struct {
	From, To int // Particle IDs, From < To
	Opacity  float64
}
