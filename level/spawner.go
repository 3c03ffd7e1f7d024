package level

import (
	"fmt"

	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
	"github.com/milk9111/buffrunner/effect"
	"github.com/milk9111/buffrunner/physics"
	"github.com/milk9111/buffrunner/prefabs"
)

const (
	defaultPickupSize = 14
	bobPhaseStep      = 0.9
)

// Spawner places pickup entities for the effect manager. Spawn points are
// handed out round robin, skipping points that still hold a pickup.
type Spawner struct {
	world    *ecs.World
	style    prefabs.PickupSpec
	points   []effect.Position
	next     int
	occupied map[int]ecs.Entity
	spawned  int
}

func NewSpawner(w *ecs.World, style prefabs.PickupSpec, points ...effect.Position) *Spawner {
	if style.Size <= 0 {
		style.Size = defaultPickupSize
	}
	return &Spawner{
		world:    w,
		style:    style,
		points:   points,
		occupied: make(map[int]ecs.Entity),
	}
}

func (s *Spawner) SpawnPickup(d *effect.Descriptor, pos effect.Position) (ecs.Entity, error) {
	if d == nil {
		return 0, fmt.Errorf("level: spawn pickup: nil descriptor")
	}
	w := s.world
	e := ecs.CreateEntity(w)
	size := s.style.Size
	col := d.Color
	if col == "" {
		col = "white"
	}
	err := add(
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}),
		ecs.Add(w, e, component.BoxComponent.Kind(), &component.Box{Width: size, Height: size, Color: col}),
		ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{
			Label:        d.Label,
			BobAmplitude: s.style.BobAmplitude,
			BobSpeed:     s.style.BobSpeed,
			BobPhase:     float64(s.spawned) * bobPhaseStep,
		}),
		ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Kind:      component.BodyKinematic,
			Width:     size,
			Height:    size,
			Sensor:    true,
			Collision: physics.CollisionPickup,
		}),
	)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("level: spawn pickup: %w", err)
	}
	s.spawned++
	for i, p := range s.points {
		if p == pos {
			s.occupied[i] = e
			break
		}
	}
	return e, nil
}

func (s *Spawner) DespawnPickup(e ecs.Entity) {
	for i, held := range s.occupied {
		if held == e {
			delete(s.occupied, i)
		}
	}
	ecs.DestroyEntity(s.world, e)
}

func (s *Spawner) NextSpawnPoint() (effect.Position, bool) {
	for range s.points {
		i := s.next
		s.next = (s.next + 1) % len(s.points)
		if held, ok := s.occupied[i]; ok && ecs.IsAlive(s.world, held) {
			continue
		}
		delete(s.occupied, i)
		return s.points[i], true
	}
	return effect.Position{}, false
}

// Points returns the configured spawn points.
func (s *Spawner) Points() []effect.Position {
	return append([]effect.Position(nil), s.points...)
}
