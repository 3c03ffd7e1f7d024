package main

import (
	"errors"
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/milk9111/buffrunner/clock"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/system"
	"github.com/milk9111/buffrunner/effect"
	"github.com/milk9111/buffrunner/hud"
	"github.com/milk9111/buffrunner/level"
	"github.com/milk9111/buffrunner/logging"
	"github.com/milk9111/buffrunner/physics"
	"github.com/milk9111/buffrunner/prefabs"
)

const tps = 60

type Game struct {
	world   *ecs.World
	clock   *clock.GameClock
	level   *level.Level
	manager *effect.Manager
	base    *effect.Table
	hud     *hud.EffectDisplay
	pauseUI *ebitenui.UI
	render  *system.RenderSystem
	watcher *prefabs.Watcher
	log     *zap.Logger

	debug  bool
	paused bool
	quit   bool
}

// NewGame registers the systems in frame order: input, control, behaviors,
// turrets, physics (contacts deliver pickups), effects, hover, despawn.
func NewGame(
	opts Options,
	logger *zap.Logger,
	clk *clock.GameClock,
	w *ecs.World,
	base baseTable,
	lvl *level.Level,
	builder *level.Builder,
	space *physics.Space,
	manager *effect.Manager,
	display *hud.EffectDisplay,
	watcher *prefabs.Watcher,
) *Game {
	g := &Game{
		world:   w,
		clock:   clk,
		level:   lvl,
		manager: manager,
		base:    base.Table,
		hud:     display,
		render:  system.NewRenderSystem(),
		watcher: watcher,
		log:     logging.Named(logger, "game"),
		debug:   opts.Debug,
	}
	g.pauseUI = hud.NewPauseMenu(int(lvl.Width), int(lvl.Height), g.resume, func() { g.quit = true })

	space.OnContact(manager.OnCollision)

	w.AddSystem(system.NewInputSystem())
	w.AddSystem(system.NewPlayerControllerSystem())
	w.AddSystem(system.NewBehaviorSystem(w))
	w.AddSystem(system.NewTurretSystem(clk, builder.Projectile, logger))
	w.AddSystem(system.NewPhysicsSystem(w, space, 1.0/tps, logger))
	w.AddSystem(system.NewEffectSystem(manager, display))
	w.AddSystem(system.NewPickupHoverSystem())
	w.AddSystem(system.NewDespawnSystem())
	return g
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.reload()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if g.paused {
			g.resume()
		} else {
			g.pause()
		}
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.world.Update()
	g.hud.UI.Update()
	return nil
}

func (g *Game) pause() {
	g.paused = true
	g.clock.Pause()
}

func (g *Game) resume() {
	g.paused = false
	g.clock.Resume()
}

// reload applies prefab edits picked up by the watcher. Effect tuning is
// swapped in live; level edits need a restart.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	for _, c := range g.watcher.Drain() {
		switch {
		case c.File == prefabs.EffectsFile:
			t, err := level.TunedTable(g.base)
			if err == nil {
				err = g.manager.SetTable(t)
			}
			if err != nil {
				g.log.Warn("effect tuning not applied", zap.Error(err))
			}
		case c.File == prefabs.GameFile, c.Script:
			g.log.Info("prefab changed on disk, restart to load it", zap.String("file", c.File))
		default:
			g.log.Debug("prefab changed", zap.String("file", c.File))
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.level.Background)
	g.render.Draw(g.world, screen)
	g.hud.UI.Draw(screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f  pickups: %d  effects: %d",
			ebiten.ActualFPS(), g.manager.PendingCount(), g.manager.ActiveCount()), 8, int(g.level.Height)-20)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.level.Width), int(g.level.Height)
}

// run blocks until the window closes or Quit is chosen.
func run(g *Game) error {
	ebiten.SetTPS(tps)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
