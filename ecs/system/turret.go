package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/buffrunner/clock"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
	"github.com/milk9111/buffrunner/logging"
)

// FireFunc spawns a projectile at (x, y) for turret t.
type FireFunc func(x, y float64, t *component.Turret) (ecs.Entity, error)

// TurretSystem fires each turret when its interval has passed.
type TurretSystem struct {
	clock clock.Clock
	fire  FireFunc
	log   *zap.Logger
}

func NewTurretSystem(clk clock.Clock, fire FireFunc, logger *zap.Logger) *TurretSystem {
	return &TurretSystem{clock: clk, fire: fire, log: logging.Named(logger, "turret")}
}

func (s *TurretSystem) Update(w *ecs.World) {
	if w == nil || s.fire == nil {
		return
	}
	ecs.ForEach2(w, component.TurretComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, t *component.Turret, tr *component.Transform) {
		if t.Interval <= 0 || s.clock.ElapsedSince(t.LastShot) < t.Interval {
			return
		}
		t.LastShot = s.clock.Now()
		if _, err := s.fire(tr.X, tr.Y, t); err != nil {
			s.log.Warn("turret failed to fire", zap.Stringer("turret", e), zap.Error(err))
		}
	})
}
