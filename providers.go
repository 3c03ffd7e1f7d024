package main

import (
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/milk9111/buffrunner/clock"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/effect"
	"github.com/milk9111/buffrunner/hud"
	"github.com/milk9111/buffrunner/level"
	"github.com/milk9111/buffrunner/logging"
	"github.com/milk9111/buffrunner/physics"
	"github.com/milk9111/buffrunner/prefabs"
)

var gameSet = wire.NewSet(
	provideLogger,
	provideClock,
	provideWorld,
	provideGameSpec,
	provideBaseTable,
	provideTable,
	provideDisplay,
	provideBuilder,
	provideLevel,
	provideSpace,
	provideRand,
	provideManager,
	provideWatcher,
	NewGame,
)

// baseTable is the untuned table hot reloads retune from.
type baseTable struct{ *effect.Table }

func provideLogger(opts Options) (*zap.Logger, func(), error) {
	logger, err := logging.New(opts.Debug)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideClock() *clock.GameClock {
	return clock.NewGameClock()
}

func provideWorld() *ecs.World {
	return ecs.NewWorld()
}

func provideGameSpec() (*prefabs.GameSpec, error) {
	return prefabs.LoadGameSpec()
}

func provideBaseTable(logger *zap.Logger) (baseTable, error) {
	t, err := effect.DefaultTable(logger)
	return baseTable{t}, err
}

// provideTable is the base table with effects.yaml applied. A broken tuning
// file keeps the defaults.
func provideTable(base baseTable, logger *zap.Logger) *effect.Table {
	t, err := level.TunedTable(base.Table)
	if err != nil {
		logger.Warn("effect tuning ignored", zap.Error(err))
		return base.Table
	}
	return t
}

func provideDisplay(t *effect.Table) *hud.EffectDisplay {
	return hud.NewEffectDisplay(t)
}

func provideBuilder(w *ecs.World, clk *clock.GameClock, logger *zap.Logger) *level.Builder {
	return level.NewBuilder(w, clk, logger)
}

func provideLevel(b *level.Builder, spec *prefabs.GameSpec) (*level.Level, error) {
	return b.Build(spec)
}

func provideSpace(lvl *level.Level, logger *zap.Logger) *physics.Space {
	return physics.New(lvl.Gravity, logger)
}

func provideRand(opts Options) *rand.Rand {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func provideManager(clk *clock.GameClock, lvl *level.Level, display *hud.EffectDisplay, w *ecs.World, t *effect.Table, rng *rand.Rand, logger *zap.Logger) (*effect.Manager, error) {
	return effect.NewManager(effect.Config{
		Clock:    clk,
		World:    lvl.Spawner,
		Display:  display,
		Entities: w,
		Target:   lvl.Player,
		Table:    t,
		Rand:     rng,
		Logger:   logger,
	})
}

// provideWatcher watches the prefab directory for hot reload. Without one on
// disk the game runs on the embedded prefabs and the watcher is nil.
func provideWatcher(logger *zap.Logger) (*prefabs.Watcher, func()) {
	dir := prefabs.Dir()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, func() {}
	}
	dirs := []string{dir}
	if scripts := filepath.Join(dir, "scripts"); isDir(scripts) {
		dirs = append(dirs, scripts)
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		logger.Warn("prefab watcher disabled", zap.String("dir", dir), zap.Error(err))
		return nil, func() {}
	}
	return w, func() { _ = w.Close() }
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
