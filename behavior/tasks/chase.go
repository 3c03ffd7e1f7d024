package tasks

import "github.com/milk9111/buffrunner/behavior"

// Chase walks toward the player while it is within the AI's follow range.
type Chase struct {
	behavior.Lifecycle
	env Env
}

func NewChase(env Env) *Chase {
	return &Chase{env: env}
}

func (t *Chase) Name() string { return "chase" }

func (t *Chase) Priority() int {
	ai, ok := t.env.ai()
	if !ok {
		return behavior.Ineligible
	}
	_, dx, dy, found := t.env.player()
	if !found || dist(dx, dy) > ai.FollowRange {
		return behavior.Ineligible
	}
	return PriorityChase
}

func (t *Chase) Start() { t.Activate() }

func (t *Chase) Update() {
	if t.Status() != behavior.Active {
		return
	}
	ai, ok := t.env.ai()
	_, dx, _, found := t.env.player()
	if !ok || !found {
		t.env.walk(0)
		return
	}
	t.env.walk(sign(dx) * ai.MoveSpeed)
}

func (t *Chase) Stop() {
	if t.Deactivate() {
		t.env.walk(0)
	}
}

// Fly moves straight at the player on both axes. Flyers pair it with a
// scripted priority; see NewScriptedFly.
type Fly struct {
	behavior.Lifecycle
	env Env
}

func NewFly(env Env) *Fly {
	return &Fly{env: env}
}

func (t *Fly) Name() string { return "fly" }

func (t *Fly) Priority() int { return PriorityChase }

func (t *Fly) Start() { t.Activate() }

func (t *Fly) Update() {
	if t.Status() != behavior.Active {
		return
	}
	ai, ok := t.env.ai()
	_, dx, dy, found := t.env.player()
	d := dist(dx, dy)
	if !ok || !found || d < directionEpsilon {
		t.env.steer(0, 0)
		return
	}
	t.env.steer(dx/d*ai.MoveSpeed, dy/d*ai.MoveSpeed)
}

func (t *Fly) Stop() {
	if t.Deactivate() {
		t.env.steer(0, 0)
	}
}

// FlyScriptInputs are the globals a fly priority script can read.
func FlyScriptInputs() map[string]any {
	return map[string]any{
		"player_found": false,
		"dx":           0.0,
		"dy":           0.0,
		"reach":        0.0,
	}
}

// NewScriptedFly runs Fly whenever script scores it eligible.
func NewScriptedFly(env Env, script *behavior.ScriptPriority) *behavior.Scripted {
	return &behavior.Scripted{
		Task:   NewFly(env),
		Script: script,
		Inputs: func() map[string]any {
			in := FlyScriptInputs()
			ai, ok := env.ai()
			_, dx, dy, found := env.player()
			if !ok || !found {
				return in
			}
			in["player_found"] = true
			in["dx"] = dx
			in["dy"] = dy
			in["reach"] = ai.FollowRange
			return in
		},
	}
}
