package tasks

import (
	"github.com/milk9111/buffrunner/behavior"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
)

func (e Env) projectile() (*component.Projectile, bool) {
	return ecs.Get(e.World, e.Self, component.ProjectileComponent.Kind())
}

func (e Env) projectileDone(p *component.Projectile) bool {
	return p.Spent || (p.Lifetime > 0 && e.Clock.ElapsedSince(p.SpawnedAt) >= p.Lifetime)
}

// FlyStraight moves a projectile along its velocity and spends it on the
// first touch of the player.
type FlyStraight struct {
	behavior.Lifecycle
	env Env
}

func NewFlyStraight(env Env) *FlyStraight {
	return &FlyStraight{env: env}
}

func (t *FlyStraight) Name() string { return "fly_straight" }

func (t *FlyStraight) Priority() int {
	p, ok := t.env.projectile()
	if !ok || t.env.projectileDone(p) {
		return behavior.Ineligible
	}
	return PriorityFly
}

func (t *FlyStraight) Start() { t.Activate() }

func (t *FlyStraight) Update() {
	if t.Status() != behavior.Active {
		return
	}
	p, ok := t.env.projectile()
	if !ok {
		return
	}
	t.env.steer(p.VX, p.VY)
	target, dx, dy, found := t.env.player()
	if found && dist(dx, dy) <= p.HitRadius {
		hurt(t.env.World, target, p.Damage)
		p.Spent = true
	}
}

func (t *FlyStraight) Stop() { t.Deactivate() }

// Expire marks a spent or timed-out projectile for despawn.
type Expire struct {
	behavior.Lifecycle
	env Env
}

func NewExpire(env Env) *Expire {
	return &Expire{env: env}
}

func (t *Expire) Name() string { return "expire" }

func (t *Expire) Priority() int {
	p, ok := t.env.projectile()
	if !ok || !t.env.projectileDone(p) {
		return behavior.Ineligible
	}
	return PriorityExpire
}

func (t *Expire) Start() {
	if !t.Activate() {
		return
	}
	if p, ok := t.env.projectile(); ok {
		p.Spent = true
	}
	t.env.steer(0, 0)
	_ = ecs.Add(t.env.World, t.env.Self, component.DespawnComponent.Kind(), &component.Despawn{})
}

func (t *Expire) Update() {}

func (t *Expire) Stop() { t.Deactivate() }
