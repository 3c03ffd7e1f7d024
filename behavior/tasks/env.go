// Package tasks holds the concrete behaviors the game schedules: enemy idle,
// patrol, chase and attack, moving platforms, and projectiles. Tasks read an
// entity's Transform and write its Velocity; the physics system does the
// moving.
package tasks

import (
	"math"
	"time"

	"github.com/milk9111/buffrunner/clock"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
)

// Priorities shared by the stock behaviors. Higher wins.
const (
	PriorityIdle     = 0
	PriorityPatrol   = 1
	PriorityChase    = 5
	PriorityAttack   = 10
	PriorityTravel   = 1
	PriorityRest     = 2
	PriorityFly      = 1
	PriorityExpire   = 2
	arriveEpsilon    = 1.0
	directionEpsilon = 0.001
)

// Env is the world a task runs in.
type Env struct {
	World *ecs.World
	Self  ecs.Entity
	Clock clock.Clock
}

func (e Env) now() time.Duration {
	return e.Clock.Now()
}

func (e Env) position() (x, y float64, ok bool) {
	t, ok := ecs.Get(e.World, e.Self, component.TransformComponent.Kind())
	if !ok {
		return 0, 0, false
	}
	return t.X, t.Y, true
}

// player finds the player and its offset from Self.
func (e Env) player() (p ecs.Entity, dx, dy float64, ok bool) {
	p, ok = ecs.First(e.World, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, 0, 0, false
	}
	pt, ok := ecs.Get(e.World, p, component.TransformComponent.Kind())
	if !ok {
		return 0, 0, 0, false
	}
	x, y, ok := e.position()
	if !ok {
		return 0, 0, 0, false
	}
	return p, pt.X - x, pt.Y - y, true
}

func (e Env) ai() (*component.AI, bool) {
	return ecs.Get(e.World, e.Self, component.AIComponent.Kind())
}

// walk sets horizontal velocity and leaves the fall to gravity.
func (e Env) walk(vx float64) {
	v, ok := ecs.Get(e.World, e.Self, component.VelocityComponent.Kind())
	if !ok {
		_ = ecs.Add(e.World, e.Self, component.VelocityComponent.Kind(), &component.Velocity{X: vx})
		return
	}
	v.X = vx
	v.SetY = false
}

// steer sets both velocity axes.
func (e Env) steer(vx, vy float64) {
	v, ok := ecs.Get(e.World, e.Self, component.VelocityComponent.Kind())
	if !ok {
		_ = ecs.Add(e.World, e.Self, component.VelocityComponent.Kind(), &component.Velocity{X: vx, Y: vy, SetY: true})
		return
	}
	v.X, v.Y, v.SetY = vx, vy, true
}

// hurt damages target unless it is invulnerable and reports the damage dealt.
func hurt(w *ecs.World, target ecs.Entity, amount int) int {
	if ecs.Has(w, target, component.InvulnerableComponent.Kind()) {
		return 0
	}
	h, ok := ecs.Get(w, target, component.HealthComponent.Kind())
	if !ok {
		return 0
	}
	return h.Damage(amount)
}

func sign(v float64) float64 {
	switch {
	case v > directionEpsilon:
		return 1
	case v < -directionEpsilon:
		return -1
	default:
		return 0
	}
}

func dist(dx, dy float64) float64 {
	return math.Hypot(dx, dy)
}
