package tasks

import "github.com/milk9111/buffrunner/behavior"

// Idle stands still. It is always eligible at the lowest priority, so an
// entity with Idle registered always runs something.
type Idle struct {
	behavior.Lifecycle
	env Env
}

func NewIdle(env Env) *Idle {
	return &Idle{env: env}
}

func (t *Idle) Name() string { return "idle" }

func (t *Idle) Priority() int { return PriorityIdle }

func (t *Idle) Start() {
	if t.Activate() {
		t.env.walk(0)
	}
}

func (t *Idle) Update() {
	if t.Status() == behavior.Active {
		t.env.walk(0)
	}
}

func (t *Idle) Stop() { t.Deactivate() }
