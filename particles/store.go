// Package particles owns the particle set of one running field.
package particles

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/plexus/components"
	"github.com/pthm-cable/plexus/config"
)

// Particle is a by-value view of one particle.
type Particle struct {
	ID       int
	Position r2.Vec
	Velocity r2.Vec
	Size     float64
	Opacity  float64
}

// Store holds every particle of one field as ECS entities.
// The particle count never changes after construction except through Spawn.
type Store struct {
	world  *ecs.World
	mapper *ecs.Map4[components.ID, components.Position, components.Velocity, components.Appearance]
	filter *ecs.Filter4[components.ID, components.Position, components.Velocity, components.Appearance]
	nextID int
}

// Count returns how many particles a surface of the given width holds:
// min(MaxParticles, floor(width / DensityDivisor)).
func Count(width float64, cfg config.FieldConfig) int {
	if width <= 0 || cfg.DensityDivisor <= 0 {
		return 0
	}
	n := int(math.Floor(width / cfg.DensityDivisor))
	if n > cfg.MaxParticles {
		n = cfg.MaxParticles
	}
	return n
}

// NewEmpty creates a store with no particles.
func NewEmpty() *Store {
	world := ecs.NewWorld()
	return &Store{
		world:  world,
		mapper: ecs.NewMap4[components.ID, components.Position, components.Velocity, components.Appearance](world),
		filter: ecs.NewFilter4[components.ID, components.Position, components.Velocity, components.Appearance](world),
	}
}

// New creates a store populated for a width x height surface.
// A zero-sized surface yields an empty store.
func New(width, height float64, rng *rand.Rand, cfg config.FieldConfig) *Store {
	s := NewEmpty()
	n := Count(width, cfg)
	for i := 0; i < n; i++ {
		s.Spawn(Particle{
			Position: r2.Vec{
				X: rng.Float64() * width,
				Y: rng.Float64() * max(height, 0),
			},
			Velocity: r2.Vec{
				X: (rng.Float64() - 0.5) * 2 * cfg.MaxSpeed,
				Y: (rng.Float64() - 0.5) * 2 * cfg.MaxSpeed,
			},
			Size:    cfg.MinSize + rng.Float64()*(cfg.MaxSize-cfg.MinSize),
			Opacity: cfg.MinOpacity + rng.Float64()*(cfg.MaxOpacity-cfg.MinOpacity),
		})
	}
	return s
}

// Spawn adds a particle and returns its ID. The ID field of p is ignored;
// IDs are assigned sequentially.
func (s *Store) Spawn(p Particle) int {
	id := s.nextID
	s.nextID++

	s.mapper.NewEntity(
		&components.ID{Value: id},
		&components.Position{Vec: p.Position},
		&components.Velocity{Vec: p.Velocity},
		&components.Appearance{Size: p.Size, Opacity: p.Opacity},
	)
	return id
}

// Len returns the number of particles.
func (s *Store) Len() int {
	return s.nextID
}

// World exposes the ECS world so systems can build their own filters.
func (s *Store) World() *ecs.World {
	return s.world
}

// Particles writes every particle into dst ordered by ID and returns it.
// dst is reused when it has enough capacity.
func (s *Store) Particles(dst []Particle) []Particle {
	if cap(dst) < s.nextID {
		dst = make([]Particle, s.nextID)
	}
	dst = dst[:s.nextID]

	query := s.filter.Query()
	for query.Next() {
		id, pos, vel, look := query.Get()
		dst[id.Value] = Particle{
			ID:       id.Value,
			Position: pos.Vec,
			Velocity: vel.Vec,
			Size:     look.Size,
			Opacity:  look.Opacity,
		}
	}
	return dst
}
