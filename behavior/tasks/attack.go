package tasks

import (
	"time"

	"github.com/milk9111/buffrunner/behavior"
)

// Attack stops, hits the player once and holds for the attack duration. It
// then stays ineligible until the cooldown has passed.
type Attack struct {
	behavior.Lifecycle
	env Env

	started   bool
	startedAt time.Duration
	hit       bool
}

func NewAttack(env Env) *Attack {
	return &Attack{env: env}
}

func (t *Attack) Name() string { return "attack" }

func (t *Attack) Priority() int {
	ai, ok := t.env.ai()
	if !ok {
		return behavior.Ineligible
	}
	if t.Status() == behavior.Active {
		if t.env.Clock.ElapsedSince(t.startedAt) < ai.AttackDuration {
			return PriorityAttack
		}
		return behavior.Ineligible
	}
	if t.started && t.env.Clock.ElapsedSince(t.startedAt) < ai.AttackDuration+ai.AttackCooldown {
		return behavior.Ineligible
	}
	_, dx, dy, found := t.env.player()
	if !found || dist(dx, dy) > ai.AttackRange {
		return behavior.Ineligible
	}
	return PriorityAttack
}

func (t *Attack) Start() {
	if !t.Activate() {
		return
	}
	t.started = true
	t.startedAt = t.env.now()
	t.hit = false
	t.env.walk(0)
}

func (t *Attack) Update() {
	if t.Status() != behavior.Active {
		return
	}
	t.env.walk(0)
	if t.hit {
		return
	}
	ai, ok := t.env.ai()
	p, dx, dy, found := t.env.player()
	if !ok || !found {
		return
	}
	t.hit = true
	if dist(dx, dy) <= ai.AttackRange {
		hurt(t.env.World, p, ai.AttackDamage)
	}
}

func (t *Attack) Stop() { t.Deactivate() }
