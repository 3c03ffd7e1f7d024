package system

import (
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
)

// DespawnSystem destroys entities marked with Despawn.
type DespawnSystem struct{}

func NewDespawnSystem() *DespawnSystem {
	return &DespawnSystem{}
}

func (s *DespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.DespawnComponent.Kind(), func(e ecs.Entity, _ *component.Despawn) {
		ecs.DestroyEntity(w, e)
	})
}
