package system

import (
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
	"github.com/milk9111/buffrunner/effect"
)

// HealthSink is told the player's health every frame.
type HealthSink interface {
	SetHealth(current, max int)
}

// EffectSystem ticks the effect manager once per frame.
type EffectSystem struct {
	manager *effect.Manager
	health  HealthSink
}

func NewEffectSystem(m *effect.Manager, health HealthSink) *EffectSystem {
	return &EffectSystem{manager: m, health: health}
}

func (s *EffectSystem) Update(w *ecs.World) {
	if s == nil || s.manager == nil {
		return
	}
	s.manager.Tick()
	if s.health == nil || w == nil {
		return
	}
	if h, ok := ecs.Get(w, s.manager.Target(), component.HealthComponent.Kind()); ok {
		s.health.SetHealth(h.Current, h.Max)
	}
}
