package behavior

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/buffrunner/logging"
)

const noTask = -1

// Scheduler owns an ordered set of tasks for one entity and runs at most one of
// them per Update. Tasks are registered during setup; registration order
// breaks priority ties.
type Scheduler struct {
	name     string
	tasks    []PriorityTask
	active   int
	disposed bool
	log      *zap.Logger
}

// NewScheduler returns an empty scheduler. name identifies the owning entity in
// logs.
func NewScheduler(name string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		name:   name,
		active: noTask,
		log:    logging.Named(logger, "behavior").With(zap.String("scheduler", name)),
	}
}

// AddTask registers t after all previously added tasks.
func (s *Scheduler) AddTask(t PriorityTask) *Scheduler {
	if s == nil || t == nil {
		return s
	}
	s.tasks = append(s.tasks, t)
	return s
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tasks)
}

// Active returns the task that ran on the last Update, or nil.
func (s *Scheduler) Active() PriorityTask {
	if s == nil || s.active == noTask {
		return nil
	}
	return s.tasks[s.active]
}

// Update re-scores every task and runs the winner for one tick.
func (s *Scheduler) Update() {
	if s == nil || s.disposed {
		return
	}

	next := s.selectTask()
	if next == noTask {
		if s.active != noTask {
			s.stop(s.active)
			s.active = noTask
		}
		return
	}

	if next != s.active {
		prev := s.active
		if prev != noTask {
			s.stop(prev)
		}
		s.active = next
		s.log.Debug("task switch",
			zap.String("from", s.taskName(prev)),
			zap.String("to", s.taskName(next)),
		)
		if !s.guard(next, "start", s.tasks[next].Start) {
			s.abandon(next)
			return
		}
	}

	if !s.guard(next, "update", s.tasks[next].Update) {
		s.abandon(next)
	}
}

// Dispose stops the active task. The scheduler ignores further updates.
func (s *Scheduler) Dispose() {
	if s == nil || s.disposed {
		return
	}
	if s.active != noTask {
		s.stop(s.active)
		s.active = noTask
	}
	s.disposed = true
}

// Disposed reports whether Dispose has been called.
func (s *Scheduler) Disposed() bool {
	return s != nil && s.disposed
}

// selectTask returns the index of the highest eligible task, preferring the
// earliest registration on ties.
func (s *Scheduler) selectTask() int {
	best, bestPriority := noTask, Ineligible
	for i := range s.tasks {
		p := s.priority(i)
		if p < 0 {
			continue
		}
		if best == noTask || p > bestPriority {
			best, bestPriority = i, p
		}
	}
	return best
}

func (s *Scheduler) priority(i int) (p int) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("task priority faulted",
				zap.String("task", s.taskName(i)),
				zap.String("panic", fmt.Sprint(r)),
			)
			p = Ineligible
		}
	}()
	t := s.tasks[i]
	if ft, ok := t.(FallibleTask); ok {
		v, err := ft.TryPriority()
		if err != nil {
			s.log.Warn("task priority failed",
				zap.String("task", s.taskName(i)),
				zap.Error(err),
			)
			return Ineligible
		}
		return v
	}
	return t.Priority()
}

func (s *Scheduler) stop(i int) {
	t := s.tasks[i]
	if t.Status() != Active {
		return
	}
	s.guard(i, "stop", t.Stop)
}

// abandon drops a task that faulted mid-tick so the next Update re-arbitrates.
func (s *Scheduler) abandon(i int) {
	s.stop(i)
	if s.active == i {
		s.active = noTask
	}
}

func (s *Scheduler) guard(i int, phase string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("task faulted",
				zap.String("task", s.taskName(i)),
				zap.String("phase", phase),
				zap.String("panic", fmt.Sprint(r)),
			)
			ok = false
		}
	}()
	fn()
	return true
}

func (s *Scheduler) taskName(i int) string {
	if i == noTask {
		return "none"
	}
	t := s.tasks[i]
	if n, ok := t.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("%T#%d", t, i)
}
