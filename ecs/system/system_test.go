package system

import (
	"errors"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/buffrunner/behavior"
	"github.com/milk9111/buffrunner/clock"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
	"github.com/milk9111/buffrunner/effect"
	"github.com/milk9111/buffrunner/level"
	"github.com/milk9111/buffrunner/physics"
	"github.com/milk9111/buffrunner/prefabs"
)

const frame = 1.0 / 60.0

func addPlayer(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, errors.Join(
		ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}),
		ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}),
		ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(3)),
		ecs.Add(w, e, component.MovementComponent.Kind(), component.NewMovement(100, 300)),
		ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Kind: component.BodyDynamic, Width: 16, Height: 24, Mass: 1, Collision: physics.CollisionPlayer,
		}),
	))
	return e
}

type healthRecorder struct{ current, max int }

func (h *healthRecorder) SetHealth(current, max int) { h.current, h.max = current, max }

func TestPickupCollectedThroughPhysics(t *testing.T) {
	w := ecs.NewWorld()
	clk := clock.NewManual(0)
	player := addPlayer(t, w, 100, 100)
	spawner := level.NewSpawner(w, prefabs.PickupSpec{}, effect.Position{X: 100, Y: 100})

	table, err := effect.DefaultTable(nil)
	require.NoError(t, err)
	mgr, err := effect.NewManager(effect.Config{
		Clock: clk, World: spawner, Entities: w, Target: player, Table: table,
	})
	require.NoError(t, err)

	space := physics.New(0, nil)
	space.OnContact(mgr.OnCollision)
	phys := NewPhysicsSystem(w, space, frame, nil)
	hp := &healthRecorder{}
	fx := NewEffectSystem(mgr, hp)

	in, err := mgr.SpawnPickup(effect.SpeedUp, effect.Position{X: 100, Y: 100})
	require.NoError(t, err)

	phys.Update(w)
	fx.Update(w)

	assert.Zero(t, mgr.PendingCount())
	assert.Equal(t, 1, mgr.ActiveCount())
	assert.False(t, ecs.IsAlive(w, in.Pickup))
	assert.False(t, space.Has(in.Pickup), "destroy hook removes the body")
	assert.Equal(t, 3, hp.current)

	mv, _ := ecs.Get(w, player, component.MovementComponent.Kind())
	assert.InDelta(t, 1.5, mv.SpeedScale, 1e-9)

	clk.Set(5 * time.Second)
	fx.Update(w)
	assert.InDelta(t, 1.0, mv.SpeedScale, 1e-9)
}

func TestPhysicsSyncsTransformsAndGravityScale(t *testing.T) {
	w := ecs.NewWorld()
	player := addPlayer(t, w, 0, 0)
	phys := NewPhysicsSystem(w, physics.New(600, nil), frame, nil)

	vel, _ := ecs.Get(w, player, component.VelocityComponent.Kind())
	vel.X = 60
	phys.Update(w)

	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	assert.InDelta(t, 1.0, tr.X, 1e-6)

	pb, _ := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	require.NotNil(t, pb.Body)
	vyBefore := pb.Body.Velocity().Y
	assert.InDelta(t, 10.0, vyBefore, 1e-6, "gravity pulls down")

	mv, _ := ecs.Get(w, player, component.MovementComponent.Kind())
	mv.GravityScale = 0
	phys.Update(w)
	assert.InDelta(t, vyBefore, pb.Body.Velocity().Y, 1e-6)
	assert.Greater(t, tr.Y, 0.0)

	ecs.DestroyEntity(w, player)
	assert.Zero(t, phys.Space().Len())
}

func TestBehaviorSystemDisposesOnDestroy(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewBehaviorSystem(w)

	starts, stops := 0, 0
	task := &behavior.Func{
		Label:        "run",
		PriorityFunc: func() int { return 1 },
		OnStart:      func() { starts++ },
		OnStop:       func() { stops++ },
	}
	sched := behavior.NewScheduler("test", nil).AddTask(task)
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.BrainComponent.Kind(), &component.Brain{Scheduler: sched}))

	sys.Update(w)
	assert.Equal(t, 1, starts)

	ecs.DestroyEntity(w, e)
	assert.Equal(t, 1, stops)
	assert.True(t, sched.Disposed())

	sys.Update(w)
	assert.Equal(t, 1, starts)
}

func TestDespawnSystem(t *testing.T) {
	w := ecs.NewWorld()
	keep, drop := ecs.CreateEntity(w), ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, drop, component.DespawnComponent.Kind(), &component.Despawn{}))

	NewDespawnSystem().Update(w)

	assert.True(t, ecs.IsAlive(w, keep))
	assert.False(t, ecs.IsAlive(w, drop))
}

func TestPickupHoverBobsAroundSpawnHeight(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Y: 50}))
	require.NoError(t, ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{}))

	s := NewPickupHoverSystem()
	for range 200 {
		s.Update(w)
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		assert.InDelta(t, 50.0, tr.Y, defaultBobAmplitude+1e-9)
	}
	p, _ := ecs.Get(w, e, component.PickupComponent.Kind())
	assert.Equal(t, 50.0, p.BaseY)
}

type fakeKeys map[ebiten.Key]bool

func (k fakeKeys) Pressed(key ebiten.Key) bool     { return k[key] }
func (k fakeKeys) JustPressed(key ebiten.Key) bool { return k[key] }

func TestPlayerControllerAppliesScales(t *testing.T) {
	w := ecs.NewWorld()
	player := addPlayer(t, w, 0, 0)
	mv, _ := ecs.Get(w, player, component.MovementComponent.Kind())
	mv.SpeedScale = 1.5
	mv.JumpScale = 2

	NewInputSystemWith(fakeKeys{ebiten.KeyD: true, ebiten.KeySpace: true}).Update(w)
	NewPlayerControllerSystem().Update(w)

	vel, _ := ecs.Get(w, player, component.VelocityComponent.Kind())
	assert.Equal(t, 150.0, vel.X)
	assert.Equal(t, -600.0, vel.Y)
	assert.True(t, vel.SetY)

	NewInputSystemWith(fakeKeys{ebiten.KeyA: true}).Update(w)
	NewPlayerControllerSystem().Update(w)
	assert.Equal(t, -150.0, vel.X)
	assert.False(t, vel.SetY)
}

func TestTurretFiresOnInterval(t *testing.T) {
	w := ecs.NewWorld()
	clk := clock.NewManual(0)
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: 5, Y: 6}))
	require.NoError(t, ecs.Add(w, e, component.TurretComponent.Kind(), &component.Turret{Interval: time.Second}))

	var shots []float64
	fire := func(x, y float64, _ *component.Turret) (ecs.Entity, error) {
		shots = append(shots, x)
		return ecs.CreateEntity(w), nil
	}
	s := NewTurretSystem(clk, fire, nil)

	for _, ms := range []int{500, 1000, 1500, 2000} {
		clk.Set(time.Duration(ms) * time.Millisecond)
		s.Update(w)
	}
	assert.Equal(t, []float64{5, 5}, shots)
}
