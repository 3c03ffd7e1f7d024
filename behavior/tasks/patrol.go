package tasks

import "github.com/milk9111/buffrunner/behavior"

// Patrol walks back and forth between the AI's patrol bounds.
type Patrol struct {
	behavior.Lifecycle
	env Env
	dir float64
}

func NewPatrol(env Env) *Patrol {
	return &Patrol{env: env, dir: 1}
}

func (t *Patrol) Name() string { return "patrol" }

func (t *Patrol) Priority() int {
	ai, ok := t.env.ai()
	if !ok || ai.PatrolRight <= ai.PatrolLeft || ai.MoveSpeed <= 0 {
		return behavior.Ineligible
	}
	return PriorityPatrol
}

// Start heads for the farther bound so a patrol resumed mid-route does not
// immediately turn around.
func (t *Patrol) Start() {
	if !t.Activate() {
		return
	}
	ai, ok := t.env.ai()
	x, _, found := t.env.position()
	if !ok || !found {
		return
	}
	if x-ai.PatrolLeft > ai.PatrolRight-x {
		t.dir = -1
	} else {
		t.dir = 1
	}
}

func (t *Patrol) Update() {
	if t.Status() != behavior.Active {
		return
	}
	ai, ok := t.env.ai()
	x, _, found := t.env.position()
	if !ok || !found {
		return
	}
	switch {
	case x <= ai.PatrolLeft:
		t.dir = 1
	case x >= ai.PatrolRight:
		t.dir = -1
	}
	t.env.walk(t.dir * ai.MoveSpeed)
}

func (t *Patrol) Stop() {
	if t.Deactivate() {
		t.env.walk(0)
	}
}

// Direction is the current walking direction, -1 or 1.
func (t *Patrol) Direction() float64 { return t.dir }
