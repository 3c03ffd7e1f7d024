package system

import (
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
)

// BehaviorSystem runs every entity's task scheduler once per frame.
type BehaviorSystem struct{}

// NewBehaviorSystem returns the system and registers a destroy hook on w that
// disposes a dying entity's scheduler, stopping its active task.
func NewBehaviorSystem(w *ecs.World) *BehaviorSystem {
	w.OnDestroy(func(w *ecs.World, e ecs.Entity) {
		if b, ok := ecs.Get(w, e, component.BrainComponent.Kind()); ok && b.Scheduler != nil {
			b.Scheduler.Dispose()
		}
	})
	return &BehaviorSystem{}
}

func (s *BehaviorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.BrainComponent.Kind(), func(_ ecs.Entity, b *component.Brain) {
		if b.Scheduler != nil {
			b.Scheduler.Update()
		}
	})
}
