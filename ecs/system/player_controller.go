package system

import (
	"math"

	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
)

const groundedEpsilon = 1.0

// PlayerControllerSystem turns Input into Velocity, scaled by the player's
// current Movement multipliers.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach3(w, component.InputComponent.Kind(), component.MovementComponent.Kind(), component.VelocityComponent.Kind(),
		func(e ecs.Entity, in *component.Input, mv *component.Movement, vel *component.Velocity) {
			vel.X = in.MoveX * mv.MoveSpeed * mv.SpeedScale
			vel.SetY = false
			if in.JumpPressed && grounded(w, e) {
				vel.Y = -mv.JumpSpeed * mv.JumpScale
				vel.SetY = true
			}
		})
}

// grounded treats a body that is not moving vertically as standing. Entities
// without a body yet count as grounded.
func grounded(w *ecs.World, e ecs.Entity) bool {
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil {
		return true
	}
	return math.Abs(body.Body.Velocity().Y) < groundedEpsilon
}
