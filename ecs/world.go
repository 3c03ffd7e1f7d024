package ecs

import "github.com/milk9111/buffrunner/ecs/component"

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// DestroyHook runs just before an entity's components are dropped, so it can
// still read them.
type DestroyHook func(w *World, e Entity)

// World owns entities, their components and the system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	systems  []System
	hooks    []DestroyHook
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// OnDestroy registers a hook that runs for every destroyed entity.
func (w *World) OnDestroy(h DestroyHook) {
	if w == nil || h == nil {
		return
	}
	w.hooks = append(w.hooks, h)
}

// Update runs every system once, in registration order.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		s.Update(w)
	}
}
