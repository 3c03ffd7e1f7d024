package effect

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/buffrunner/clock"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
)

type fakeWorld struct {
	ents      *ecs.World
	spawned   []Kind
	at        []Position
	despawned map[ecs.Entity]int
	points    []Position
	next      int
	spawnErr  error
}

func newFakeWorld(ents *ecs.World, points ...Position) *fakeWorld {
	return &fakeWorld{ents: ents, despawned: make(map[ecs.Entity]int), points: points}
}

func (w *fakeWorld) SpawnPickup(d *Descriptor, pos Position) (ecs.Entity, error) {
	if w.spawnErr != nil {
		return 0, w.spawnErr
	}
	w.spawned = append(w.spawned, d.Kind)
	w.at = append(w.at, pos)
	return ecs.CreateEntity(w.ents), nil
}

func (w *fakeWorld) DespawnPickup(e ecs.Entity) {
	w.despawned[e]++
	ecs.DestroyEntity(w.ents, e)
}

func (w *fakeWorld) NextSpawnPoint() (Position, bool) {
	if len(w.points) == 0 {
		return Position{}, false
	}
	p := w.points[w.next%len(w.points)]
	w.next++
	return p, true
}

type fakeDisplay struct {
	calls int
	last  []ActiveEffect
}

func (d *fakeDisplay) UpdateEffectDisplay(active []ActiveEffect) {
	d.calls++
	d.last = active
}

type harness struct {
	clk     *clock.Manual
	ents    *ecs.World
	player  ecs.Entity
	world   *fakeWorld
	display *fakeDisplay
	mgr     *Manager
	logs    *observer.ObservedLogs
	applies map[Kind]int
	removes map[Kind]int
}

// counted wraps every row so tests can see how often apply and remove ran.
func counted(rows []Descriptor, applies, removes map[Kind]int) []Descriptor {
	out := make([]Descriptor, len(rows))
	for i, d := range rows {
		apply, remove := d.Apply, d.Remove
		kind := d.Kind
		d.Apply = func(ctx ApplyContext) error {
			applies[kind]++
			return apply(ctx)
		}
		if remove != nil {
			d.Remove = func(ctx ApplyContext) error {
				removes[kind]++
				return remove(ctx)
			}
		}
		out[i] = d
	}
	return out
}

func newHarness(t *testing.T, rows []Descriptor, points ...Position) *harness {
	t.Helper()

	h := &harness{
		clk:     clock.NewManual(0),
		ents:    ecs.NewWorld(),
		display: &fakeDisplay{},
		applies: make(map[Kind]int),
		removes: make(map[Kind]int),
	}
	h.player = ecs.CreateEntity(h.ents)
	hp := component.NewHealth(3)
	hp.Current = 2
	require.NoError(t, ecs.Add(h.ents, h.player, component.HealthComponent.Kind(), hp))
	require.NoError(t, ecs.Add(h.ents, h.player, component.MovementComponent.Kind(), component.NewMovement(100, 300)))
	h.world = newFakeWorld(h.ents, points...)

	core, logs := observer.New(zapcore.DebugLevel)
	h.logs = logs
	table, err := NewTable(zap.New(core), counted(rows, h.applies, h.removes)...)
	require.NoError(t, err)

	h.mgr, err = NewManager(Config{
		Clock:    h.clk,
		World:    h.world,
		Display:  h.display,
		Entities: h.ents,
		Target:   h.player,
		Table:    table,
		Rand:     rand.New(rand.NewPCG(1, 2)),
		Logger:   zap.New(core),
	})
	require.NoError(t, err)
	return h
}

func (h *harness) at(ms int) {
	h.clk.Set(time.Duration(ms) * time.Millisecond)
}

func (h *harness) collect(t *testing.T, kind Kind) *Instance {
	t.Helper()
	in, err := h.mgr.SpawnPickup(kind, Position{X: 10, Y: 20})
	require.NoError(t, err)
	require.NoError(t, h.mgr.OnCollision(h.player, in.Pickup))
	return in
}

func TestInstantPickupAppliesOnceAndNeverActivates(t *testing.T) {
	h := newHarness(t, DefaultRows())

	in := h.collect(t, HPUp)

	assert.Equal(t, 1, h.applies[HPUp])
	assert.Zero(t, h.mgr.ActiveCount())
	assert.Zero(t, h.mgr.PendingCount())
	assert.Equal(t, 1, h.world.despawned[in.Pickup])

	hp, ok := ecs.Get(h.ents, h.player, component.HealthComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 3, hp.Current)

	// The pickup is gone; touching its old handle again does nothing.
	require.NoError(t, h.mgr.OnCollision(h.player, in.Pickup))
	h.mgr.Tick()
	assert.Equal(t, 1, h.applies[HPUp])
	assert.Zero(t, h.mgr.ActiveCount())
}

func TestTimedEffectExpiresAtItsTimeout(t *testing.T) {
	h := newHarness(t, DefaultRows())
	h.collect(t, Invincibility)
	require.True(t, ecs.Has(h.ents, h.player, component.InvulnerableComponent.Kind()))

	cases := []struct {
		ms      int
		active  bool
		removes int
	}{
		{ms: 1000, active: true, removes: 0},
		{ms: 4999, active: true, removes: 0},
		{ms: 5000, active: false, removes: 1},
		{ms: 9000, active: false, removes: 1},
	}
	for _, c := range cases {
		h.at(c.ms)
		h.mgr.Tick()
		_, active := h.mgr.Active(Invincibility)
		assert.Equal(t, c.active, active, "t=%dms", c.ms)
		assert.Equal(t, c.removes, h.removes[Invincibility], "t=%dms", c.ms)
		assert.Equal(t, c.active, ecs.Has(h.ents, h.player, component.InvulnerableComponent.Kind()), "t=%dms", c.ms)
	}
}

func TestDuplicateTimedPickupIsDropped(t *testing.T) {
	h := newHarness(t, DefaultRows())
	first := h.collect(t, Invincibility)

	h.at(1000)
	second := h.collect(t, Invincibility)

	assert.Equal(t, 1, h.mgr.ActiveCount())
	assert.Equal(t, 1, h.applies[Invincibility])
	assert.Zero(t, h.mgr.PendingCount())
	assert.Equal(t, 1, h.world.despawned[second.Pickup])

	in, ok := h.mgr.Active(Invincibility)
	require.True(t, ok)
	assert.Equal(t, first.ID, in.ID)
	assert.Equal(t, time.Duration(0), in.AppliedAt)
	assert.Equal(t, 5*time.Second, in.Timeout)
	assert.Equal(t, 1, h.logs.FilterMessage("duplicate effect dropped").Len())
}

func TestDuplicateDroppedOnlyWhileActive(t *testing.T) {
	h := newHarness(t, DefaultRows())
	h.collect(t, SpeedUp)

	h.at(5000)
	h.mgr.Tick()
	require.Zero(t, h.mgr.ActiveCount())

	h.collect(t, SpeedUp)
	assert.Equal(t, 1, h.mgr.ActiveCount())
	assert.Equal(t, 2, h.applies[SpeedUp])
}

func TestPickupTimesOutWithSingleDespawn(t *testing.T) {
	h := newHarness(t, DefaultRows())
	in, err := h.mgr.SpawnPickup(SpeedUp, Position{})
	require.NoError(t, err)
	require.Equal(t, 1, h.mgr.PendingCount())

	h.at(9999)
	h.mgr.Tick()
	assert.Equal(t, 1, h.mgr.PendingCount())
	assert.Zero(t, h.world.despawned[in.Pickup])

	h.at(10000)
	h.mgr.Tick()
	assert.Zero(t, h.mgr.PendingCount())
	assert.Equal(t, 1, h.world.despawned[in.Pickup])

	h.at(10001)
	h.mgr.Tick()
	assert.Equal(t, 1, h.world.despawned[in.Pickup])

	// A timed-out pickup cannot be collected.
	require.NoError(t, h.mgr.OnCollision(h.player, in.Pickup))
	assert.Zero(t, h.applies[SpeedUp])
}

func TestExtendActiveEffect(t *testing.T) {
	h := newHarness(t, DefaultRows())
	h.collect(t, Invincibility)
	h.collect(t, SpeedUp)

	h.at(1000)
	assert.True(t, h.mgr.ExtendActiveEffect(Invincibility, 2*time.Second))
	assert.False(t, h.mgr.ExtendActiveEffect(JumpBoost, time.Second))

	inv, ok := h.mgr.Active(Invincibility)
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), inv.AppliedAt)
	assert.Equal(t, 7*time.Second, inv.Timeout)

	speed, ok := h.mgr.Active(SpeedUp)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, speed.Timeout)

	h.at(5000)
	h.mgr.Tick()
	_, ok = h.mgr.Active(Invincibility)
	assert.True(t, ok)
	_, ok = h.mgr.Active(SpeedUp)
	assert.False(t, ok)

	h.at(7000)
	h.mgr.Tick()
	assert.Zero(t, h.mgr.ActiveCount())
	assert.Equal(t, 1, h.removes[Invincibility])
}

func TestExtendNeverGoesNegative(t *testing.T) {
	h := newHarness(t, DefaultRows())
	h.collect(t, SpeedDown)

	require.True(t, h.mgr.ExtendActiveEffect(SpeedDown, -time.Minute))
	in, _ := h.mgr.Active(SpeedDown)
	assert.Equal(t, time.Duration(0), in.Timeout)

	h.mgr.Tick()
	assert.Zero(t, h.mgr.ActiveCount())
}

func TestOnCollisionFiltersPairs(t *testing.T) {
	h := newHarness(t, DefaultRows())
	in, err := h.mgr.SpawnPickup(JumpBoost, Position{})
	require.NoError(t, err)
	stranger := ecs.CreateEntity(h.ents)

	require.NoError(t, h.mgr.OnCollision(stranger, in.Pickup))
	require.NoError(t, h.mgr.OnCollision(h.player, stranger))
	assert.Equal(t, 1, h.mgr.PendingCount())
	assert.Zero(t, h.applies[JumpBoost])

	// Either argument order works.
	require.NoError(t, h.mgr.OnCollision(in.Pickup, h.player))
	assert.Zero(t, h.mgr.PendingCount())
	assert.Equal(t, 1, h.applies[JumpBoost])

	mv, _ := ecs.Get(h.ents, h.player, component.MovementComponent.Kind())
	assert.InDelta(t, 1.4, mv.JumpScale, 1e-9)
}

func TestMissingCapabilityLeavesPickupPending(t *testing.T) {
	h := newHarness(t, DefaultRows())
	ecs.Remove(h.ents, h.player, component.MovementComponent.Kind())

	in, err := h.mgr.SpawnPickup(LowGravity, Position{})
	require.NoError(t, err)

	err = h.mgr.OnCollision(h.player, in.Pickup)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCapability)
	assert.Contains(t, err.Error(), "movement")
	assert.Equal(t, 1, h.mgr.PendingCount())
	assert.Zero(t, h.mgr.ActiveCount())
	assert.Zero(t, h.world.despawned[in.Pickup])
}

func TestRemoveFailureStillDropsEffect(t *testing.T) {
	boom := errors.New("boom")
	rows := []Descriptor{{
		Kind:     SpeedUp,
		Label:    "Speed Up",
		Duration: time.Second,
		Apply:    func(ApplyContext) error { return nil },
		Remove:   func(ApplyContext) error { return boom },
	}}
	h := newHarness(t, rows)
	h.collect(t, SpeedUp)

	h.at(1000)
	h.mgr.Tick()
	h.at(2000)
	h.mgr.Tick()

	assert.Zero(t, h.mgr.ActiveCount())
	assert.Equal(t, 1, h.removes[SpeedUp])
	failures := h.logs.FilterMessage("effect remove failed")
	require.Equal(t, 1, failures.Len())
	assert.Equal(t, zapcore.ErrorLevel, failures.All()[0].Level)
}

func TestTickSpawnsOnInterval(t *testing.T) {
	points := []Position{{X: 1, Y: 1}, {X: 2, Y: 2}}
	h := newHarness(t, DefaultRows(), points...)

	steps := []struct {
		ms      int
		pending int
	}{
		{2999, 0},
		{3000, 1},
		{5999, 1},
		{6000, 2},
		{8999, 2},
		{9000, 3},
	}
	for _, s := range steps {
		h.at(s.ms)
		h.mgr.Tick()
		assert.Equal(t, s.pending, h.mgr.PendingCount(), "t=%dms", s.ms)
	}

	assert.Equal(t, []Position{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 1}}, h.world.at)
	table := h.mgr.Table()
	for _, k := range h.world.spawned {
		assert.True(t, table.Has(k), "spawned %s", k)
	}
	pending := h.mgr.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, 3*time.Second, pending[0].CreatedAt)
	assert.Equal(t, 9*time.Second, pending[2].CreatedAt)
}

func TestTickSpawnWaitsWithoutSpawnPoints(t *testing.T) {
	h := newHarness(t, DefaultRows())

	h.at(3000)
	h.mgr.Tick()
	assert.Zero(t, h.mgr.PendingCount())

	// The interval restarted at 3000 even though nothing spawned.
	h.world.points = []Position{{X: 5, Y: 5}}
	h.at(5999)
	h.mgr.Tick()
	assert.Zero(t, h.mgr.PendingCount())
	h.at(6000)
	h.mgr.Tick()
	assert.Equal(t, 1, h.mgr.PendingCount())
}

func TestDisplayGetsSnapshotEveryTick(t *testing.T) {
	h := newHarness(t, DefaultRows())
	h.collect(t, SpeedUp)

	h.at(1500)
	h.mgr.Tick()
	require.Equal(t, 1, h.display.calls)
	require.Len(t, h.display.last, 1)
	got := h.display.last[0]
	assert.Equal(t, SpeedUp, got.Kind)
	assert.Equal(t, "Speed Up", got.Label)
	assert.Equal(t, 3500*time.Millisecond, got.Remaining)

	h.at(6000)
	h.mgr.Tick()
	assert.Equal(t, 2, h.display.calls)
	assert.Empty(t, h.display.last)
}

func TestSetTableKeepsAppliedMagnitude(t *testing.T) {
	h := newHarness(t, DefaultRows())
	h.collect(t, SpeedUp)

	faster := 2.0
	retuned, err := h.mgr.Table().Retune(Override{Kind: SpeedUp, Magnitude: &faster})
	require.NoError(t, err)
	require.NoError(t, h.mgr.SetTable(retuned))

	h.at(5000)
	h.mgr.Tick()

	mv, _ := ecs.Get(h.ents, h.player, component.MovementComponent.Kind())
	assert.InDelta(t, 1.0, mv.SpeedScale, 1e-9)
	assert.Error(t, h.mgr.SetTable(nil))
}

func TestSetTableRejectsDroppingActiveKind(t *testing.T) {
	h := newHarness(t, DefaultRows())
	h.collect(t, SpeedUp)

	only, err := NewTable(nil, DefaultRows()[0])
	require.NoError(t, err)
	assert.ErrorIs(t, h.mgr.SetTable(only), ErrInvalidDescriptor)
}

func TestClearUndoesEverything(t *testing.T) {
	h := newHarness(t, DefaultRows())
	h.collect(t, Invincibility)
	in, err := h.mgr.SpawnPickup(HPDown, Position{})
	require.NoError(t, err)

	h.mgr.Clear()

	assert.Zero(t, h.mgr.PendingCount())
	assert.Zero(t, h.mgr.ActiveCount())
	assert.Equal(t, 1, h.world.despawned[in.Pickup])
	assert.False(t, ecs.Has(h.ents, h.player, component.InvulnerableComponent.Kind()))
}

func TestSpawnPickupErrors(t *testing.T) {
	h := newHarness(t, DefaultRows())

	_, err := h.mgr.SpawnPickup(KindUnknown, Position{})
	assert.ErrorIs(t, err, ErrUnknownKind)

	h.world.spawnErr = errors.New("level full")
	_, err = h.mgr.SpawnPickup(HPUp, Position{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level full")
	assert.Zero(t, h.mgr.PendingCount())
}

func TestNewManagerRequiresCollaborators(t *testing.T) {
	ents := ecs.NewWorld()
	player := ecs.CreateEntity(ents)
	table, err := DefaultTable(nil)
	require.NoError(t, err)
	full := Config{
		Clock:    clock.NewManual(0),
		World:    newFakeWorld(ents),
		Entities: ents,
		Target:   player,
		Table:    table,
	}

	cases := []struct {
		name  string
		tweak func(*Config)
	}{
		{"no_clock", func(c *Config) { c.Clock = nil }},
		{"no_world", func(c *Config) { c.World = nil }},
		{"no_entities", func(c *Config) { c.Entities = nil }},
		{"no_table", func(c *Config) { c.Table = nil }},
		{"dead_target", func(c *Config) { c.Target = ecs.CreateEntity(ents); ecs.DestroyEntity(ents, c.Target) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := full
			tc.tweak(&cfg)
			_, err := NewManager(cfg)
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}

	m, err := NewManager(full)
	require.NoError(t, err)
	assert.Equal(t, player, m.Target())
	m.Tick()
}
