package tasks

import (
	"github.com/milk9111/buffrunner/behavior"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
)

func (e Env) platform() (*component.Platform, bool) {
	p, ok := ecs.Get(e.World, e.Self, component.PlatformComponent.Kind())
	if !ok || len(p.Waypoints) == 0 {
		return nil, false
	}
	return p, true
}

// Travel moves a platform toward its current waypoint. On arrival it snaps to
// the waypoint, advances the target and starts the rest.
type Travel struct {
	behavior.Lifecycle
	env Env
}

func NewTravel(env Env) *Travel {
	return &Travel{env: env}
}

func (t *Travel) Name() string { return "travel" }

func (t *Travel) Priority() int {
	p, ok := t.env.platform()
	if !ok || p.Resting || p.Speed <= 0 || len(p.Waypoints) < 2 {
		return behavior.Ineligible
	}
	return PriorityTravel
}

func (t *Travel) Start() { t.Activate() }

func (t *Travel) Update() {
	if t.Status() != behavior.Active {
		return
	}
	p, ok := t.env.platform()
	tr, found := ecs.Get(t.env.World, t.env.Self, component.TransformComponent.Kind())
	if !ok || !found {
		return
	}
	goal := p.Waypoints[p.Target%len(p.Waypoints)]
	dx, dy := goal.X-tr.X, goal.Y-tr.Y
	d := dist(dx, dy)
	if d <= arriveEpsilon {
		tr.X, tr.Y = goal.X, goal.Y
		p.Target = (p.Target + 1) % len(p.Waypoints)
		p.Resting = p.Rest > 0
		p.ArrivedAt = t.env.now()
		t.env.steer(0, 0)
		return
	}
	t.env.steer(dx/d*p.Speed, dy/d*p.Speed)
}

func (t *Travel) Stop() {
	if t.Deactivate() {
		t.env.steer(0, 0)
	}
}

// Rest holds a platform still at a waypoint for its rest time.
type Rest struct {
	behavior.Lifecycle
	env Env
}

func NewRest(env Env) *Rest {
	return &Rest{env: env}
}

func (t *Rest) Name() string { return "rest" }

func (t *Rest) Priority() int {
	p, ok := t.env.platform()
	if !ok || !p.Resting {
		return behavior.Ineligible
	}
	return PriorityRest
}

func (t *Rest) Start() {
	if t.Activate() {
		t.env.steer(0, 0)
	}
}

func (t *Rest) Update() {
	if t.Status() != behavior.Active {
		return
	}
	p, ok := t.env.platform()
	if !ok {
		return
	}
	t.env.steer(0, 0)
	if t.env.Clock.ElapsedSince(p.ArrivedAt) >= p.Rest {
		p.Resting = false
	}
}

func (t *Rest) Stop() { t.Deactivate() }
