package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
	"github.com/milk9111/buffrunner/logging"
	"github.com/milk9111/buffrunner/physics"
)

// PhysicsSystem mirrors PhysicsBody entities into a physics.Space. Each frame
// it pushes Velocity into bodies, steps, and copies positions back into
// Transform. Contacts are delivered by the space after the step.
type PhysicsSystem struct {
	space *physics.Space
	dt    float64
	log   *zap.Logger

	gravity map[ecs.Entity]float64
}

// NewPhysicsSystem registers a destroy hook on w so bodies leave the space
// with their entities.
func NewPhysicsSystem(w *ecs.World, space *physics.Space, dt float64, logger *zap.Logger) *PhysicsSystem {
	ps := &PhysicsSystem{
		space:   space,
		dt:      dt,
		log:     logging.Named(logger, "physics_system"),
		gravity: make(map[ecs.Entity]float64),
	}
	w.OnDestroy(func(_ *ecs.World, e ecs.Entity) {
		ps.space.Remove(e)
		delete(ps.gravity, e)
	})
	return ps
}

func (ps *PhysicsSystem) Space() *physics.Space {
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.syncEntities(w)
	ps.pushVelocities(w)
	ps.space.Step(ps.dt)
	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if ps.space.Has(e) {
			return
		}
		body, shape, err := ps.space.Add(e, physics.BodyDef{
			Kind:      pb.Kind,
			X:         t.X,
			Y:         t.Y,
			Width:     pb.Width,
			Height:    pb.Height,
			Mass:      pb.Mass,
			Sensor:    pb.Sensor,
			Collision: pb.Collision,
		})
		if err != nil {
			ps.log.Warn("body not created", zap.Stringer("entity", e), zap.Error(err))
			return
		}
		pb.Body, pb.Shape = body, shape
	})
}

func (ps *PhysicsSystem) pushVelocities(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Kind == component.BodyStatic || !ps.space.Has(e) {
			return
		}
		v, hasVel := ecs.Get(w, e, component.VelocityComponent.Kind())
		if pb.Kind == component.BodyKinematic && !hasVel {
			// Kinematic bodies without a velocity follow their transform.
			ps.space.SetPosition(e, t.X, t.Y)
			return
		}
		if !hasVel {
			return
		}
		vx, vy := v.X, v.Y
		if !v.SetY {
			vy = 0
			if pb.Kind == component.BodyDynamic {
				_, vy, _ = ps.space.Velocity(e)
			}
		}
		ps.space.SetVelocity(e, vx, vy)
		v.SetY = false

		if mv, ok := ecs.Get(w, e, component.MovementComponent.Kind()); ok {
			if last, seen := ps.gravity[e]; !seen || last != mv.GravityScale {
				ps.space.SetGravityScale(e, mv.GravityScale)
				ps.gravity[e] = mv.GravityScale
			}
		}
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Kind == component.BodyStatic {
			return
		}
		x, y, ok := ps.space.Position(e)
		if !ok {
			return
		}
		t.X, t.Y = x, y
	})
}
