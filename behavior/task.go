// Package behavior arbitrates which single behavior an autonomous entity runs
// each frame. Every registered task reports a priority per tick and the
// scheduler runs the highest eligible one, switching tasks with a Stop before
// every Start.
package behavior

// Status is the lifecycle state of a task.
type Status int

const (
	Inactive Status = iota
	Active
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	default:
		return "inactive"
	}
}

// Ineligible is the priority a task reports when it must not run this tick.
// Any negative priority is treated the same way.
const Ineligible = -1

// Task is a unit of per-tick behavior.
type Task interface {
	// Start moves the task from Inactive to Active and runs one-time setup.
	Start()
	// Update advances the task by one tick. Only meaningful while Active.
	Update()
	// Stop moves the task back to Inactive. Calling it while Inactive is a
	// no-op.
	Stop()
	Status() Status
}

// PriorityTask is a Task that scores its own eligibility every frame.
// Priority must only read state: a task that is not selected should not drift.
type PriorityTask interface {
	Task
	Priority() int
}

// FallibleTask is a PriorityTask whose scoring can fail. The scheduler prefers
// TryPriority when present and treats an error as ineligible for the tick.
type FallibleTask interface {
	PriorityTask
	TryPriority() (int, error)
}

// Named is implemented by tasks that want a readable name in logs.
type Named interface {
	Name() string
}

// Lifecycle holds task status. Embed it and call Activate/Deactivate at the top
// of Start/Stop to get idempotent transitions.
type Lifecycle struct {
	status Status
}

func (l *Lifecycle) Status() Status {
	if l == nil {
		return Inactive
	}
	return l.status
}

// Activate marks the task active and reports whether it was inactive before.
func (l *Lifecycle) Activate() bool {
	if l == nil || l.status == Active {
		return false
	}
	l.status = Active
	return true
}

// Deactivate marks the task inactive and reports whether it was active before.
func (l *Lifecycle) Deactivate() bool {
	if l == nil || l.status == Inactive {
		return false
	}
	l.status = Inactive
	return true
}

// Func is a PriorityTask assembled from plain functions. Nil hooks are skipped;
// a nil PriorityFunc makes the task permanently ineligible.
type Func struct {
	Lifecycle

	Label        string
	PriorityFunc func() int
	OnStart      func()
	OnUpdate     func()
	OnStop       func()
}

func (f *Func) Name() string { return f.Label }

func (f *Func) Priority() int {
	if f == nil || f.PriorityFunc == nil {
		return Ineligible
	}
	return f.PriorityFunc()
}

func (f *Func) Start() {
	if !f.Activate() {
		return
	}
	if f.OnStart != nil {
		f.OnStart()
	}
}

func (f *Func) Update() {
	if f.Status() != Active {
		return
	}
	if f.OnUpdate != nil {
		f.OnUpdate()
	}
}

func (f *Func) Stop() {
	if !f.Deactivate() {
		return
	}
	if f.OnStop != nil {
		f.OnStop()
	}
}
