// Command effectsim runs the embedded level without a window against a manual
// clock and logs the effect timeline.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/buffrunner/clock"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
	"github.com/milk9111/buffrunner/ecs/system"
	"github.com/milk9111/buffrunner/effect"
	"github.com/milk9111/buffrunner/hud"
	"github.com/milk9111/buffrunner/level"
	"github.com/milk9111/buffrunner/logging"
	"github.com/milk9111/buffrunner/physics"
	"github.com/milk9111/buffrunner/prefabs"
)

const frame = time.Second / 60

// timeline logs the HUD lines whenever the set of active effects changes.
type timeline struct {
	clock clock.Clock
	log   *zap.Logger
	last  []effect.Kind
}

func (t *timeline) UpdateEffectDisplay(active []effect.ActiveEffect) {
	kinds := make([]effect.Kind, 0, len(active))
	lines := make([]string, 0, len(active))
	for _, a := range active {
		kinds = append(kinds, a.Kind)
		lines = append(lines, hud.Line(a))
	}
	if equalKinds(kinds, t.last) {
		return
	}
	t.last = kinds
	t.log.Info("active effects", zap.Duration("at", t.clock.Now()), zap.Strings("hud", lines))
}

func equalKinds(a, b []effect.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func main() {
	frames := flag.Int("frames", 1800, "frames to simulate at 60 per second")
	seed := flag.Uint64("seed", 1, "seed for pickup kinds")
	collect := flag.Int("collect", 90, "frames between moving the player onto a pickup (0 never)")
	debug := flag.Bool("debug", false, "enable debug logging")
	prefabDir := flag.String("prefabs", "", "directory to load prefabs from")
	flag.Parse()

	logger, err := logging.New(*debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if *prefabDir != "" {
		prefabs.SetDir(*prefabDir)
	}
	if err := simulate(logger, *frames, *seed, *collect); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func simulate(logger *zap.Logger, frames int, seed uint64, collectEvery int) error {
	clk := clock.NewManual(0)
	w := ecs.NewWorld()

	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		return err
	}
	base, err := effect.DefaultTable(logger)
	if err != nil {
		return err
	}
	table, err := level.TunedTable(base)
	if err != nil {
		return fmt.Errorf("effect tuning: %w", err)
	}

	builder := level.NewBuilder(w, clk, logger)
	lvl, err := builder.Build(spec)
	if err != nil {
		return err
	}

	mgr, err := effect.NewManager(effect.Config{
		Clock:    clk,
		World:    lvl.Spawner,
		Display:  &timeline{clock: clk, log: logging.Named(logger, "timeline")},
		Entities: w,
		Target:   lvl.Player,
		Table:    table,
		Rand:     rand.New(rand.NewPCG(seed, seed)),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	space := physics.New(lvl.Gravity, logger)
	space.OnContact(mgr.OnCollision)
	phys := system.NewPhysicsSystem(w, space, frame.Seconds(), logger)

	w.AddSystem(system.NewBehaviorSystem(w))
	w.AddSystem(system.NewTurretSystem(clk, builder.Projectile, logger))
	w.AddSystem(phys)
	w.AddSystem(system.NewEffectSystem(mgr, nil))
	w.AddSystem(system.NewPickupHoverSystem())
	w.AddSystem(system.NewDespawnSystem())

	for i := 1; i <= frames; i++ {
		clk.Advance(frame)
		if collectEvery > 0 && i%collectEvery == 0 {
			moveOntoPickup(w, space, mgr)
		}
		w.Update()
	}

	hp, _ := ecs.Get(w, lvl.Player, component.HealthComponent.Kind())
	fields := []zap.Field{
		zap.Duration("elapsed", clk.Now()),
		zap.Int("pending", mgr.PendingCount()),
		zap.Int("active", mgr.ActiveCount()),
	}
	if hp != nil {
		fields = append(fields, zap.String("health", hud.HealthLine(hp.Current, hp.Max)))
	}
	logger.Info("simulation finished", fields...)
	return nil
}

// moveOntoPickup teleports the player onto the oldest pending pickup so the
// next physics step reports the contact.
func moveOntoPickup(w *ecs.World, space *physics.Space, mgr *effect.Manager) {
	pending := mgr.Pending()
	if len(pending) == 0 {
		return
	}
	t, ok := ecs.Get(w, pending[0].Pickup, component.TransformComponent.Kind())
	if !ok {
		return
	}
	space.SetPosition(mgr.Target(), t.X, t.Y)
	space.SetVelocity(mgr.Target(), 0, 0)
}
