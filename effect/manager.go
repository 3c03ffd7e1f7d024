package effect

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milk9111/buffrunner/clock"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/logging"
)

const (
	// PickupTimeout is how long an uncollected pickup stays in the world.
	PickupTimeout = 10 * time.Second
	// SpawnInterval is the time between random pickup spawns.
	SpawnInterval = 3 * time.Second
)

// Position is a world-space point.
type Position struct {
	X, Y float64
}

// World places and removes pickup entities.
type World interface {
	SpawnPickup(d *Descriptor, pos Position) (ecs.Entity, error)
	DespawnPickup(e ecs.Entity)
	// NextSpawnPoint reports false when the level has nowhere to put a pickup.
	NextSpawnPoint() (Position, bool)
}

// Display shows the active effects. It is handed a fresh snapshot every tick.
type Display interface {
	UpdateEffectDisplay(active []ActiveEffect)
}

type nopDisplay struct{}

func (nopDisplay) UpdateEffectDisplay([]ActiveEffect) {}

// Config holds the manager's collaborators. Display, Rand and Logger are
// optional; zero timings use PickupTimeout and SpawnInterval.
type Config struct {
	Clock    clock.Clock
	World    World
	Display  Display
	Entities *ecs.World
	Target   ecs.Entity
	Table    *Table
	Rand     *rand.Rand
	Logger   *zap.Logger

	PickupTimeout time.Duration
	SpawnInterval time.Duration
}

// Manager tracks pending pickups and active effects for one target. At most
// one effect of each kind is active at a time.
type Manager struct {
	clock    clock.Clock
	world    World
	display  Display
	entities *ecs.World
	target   ecs.Entity
	table    *Table
	rng      *rand.Rand
	log      *zap.Logger

	pickupTimeout time.Duration
	spawnInterval time.Duration

	pending     *orderedMap[ecs.Entity, *Instance]
	active      *orderedMap[uuid.UUID, *Instance]
	lastSpawnAt time.Duration
}

func NewManager(cfg Config) (*Manager, error) {
	switch {
	case cfg.Clock == nil:
		return nil, fmt.Errorf("%w: no clock", ErrNotConfigured)
	case cfg.World == nil:
		return nil, fmt.Errorf("%w: no world", ErrNotConfigured)
	case cfg.Entities == nil:
		return nil, fmt.Errorf("%w: no entity world", ErrNotConfigured)
	case cfg.Table == nil:
		return nil, fmt.Errorf("%w: no descriptor table", ErrNotConfigured)
	case !ecs.IsAlive(cfg.Entities, cfg.Target):
		return nil, fmt.Errorf("%w: target %s is not alive", ErrNotConfigured, cfg.Target)
	}

	m := &Manager{
		clock:         cfg.Clock,
		world:         cfg.World,
		display:       cfg.Display,
		entities:      cfg.Entities,
		target:        cfg.Target,
		table:         cfg.Table,
		rng:           cfg.Rand,
		log:           logging.Named(cfg.Logger, "effect_manager"),
		pickupTimeout: cfg.PickupTimeout,
		spawnInterval: cfg.SpawnInterval,
		pending:       newOrderedMap[ecs.Entity, *Instance](),
		active:        newOrderedMap[uuid.UUID, *Instance](),
	}
	if m.display == nil {
		m.display = nopDisplay{}
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if m.pickupTimeout <= 0 {
		m.pickupTimeout = PickupTimeout
	}
	if m.spawnInterval <= 0 {
		m.spawnInterval = SpawnInterval
	}
	m.lastSpawnAt = m.clock.Now()
	return m, nil
}

// Target is the entity that collects pickups.
func (m *Manager) Target() ecs.Entity {
	return m.target
}

// SpawnPickup places a pickup of kind at pos and starts its timeout.
func (m *Manager) SpawnPickup(kind Kind, pos Position) (*Instance, error) {
	if !m.table.Has(kind) {
		return nil, fmt.Errorf("%w: cannot spawn %s", ErrUnknownKind, kind)
	}
	d := m.table.Lookup(kind)
	e, err := m.world.SpawnPickup(d, pos)
	if err != nil {
		return nil, fmt.Errorf("effect: spawn %s pickup: %w", kind, err)
	}

	now := m.clock.Now()
	in := newInstance(kind, e, now)
	m.pending.set(e, in)
	m.lastSpawnAt = now
	m.log.Debug("pickup spawned",
		zap.Stringer("kind", kind),
		zap.Stringer("pickup", e),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
	)
	return in, nil
}

// OnCollision is the physics begin-contact callback. It collects other when it
// is a pending pickup touched by the target; every other pair is ignored. The
// arguments may arrive in either order.
func (m *Manager) OnCollision(self, other ecs.Entity) error {
	if self != m.target {
		if other != m.target {
			return nil
		}
		self, other = other, self
	}
	in, ok := m.pending.get(other)
	if !ok {
		return nil
	}
	return m.collect(in)
}

func (m *Manager) collect(in *Instance) error {
	d := m.table.Lookup(in.Kind)
	ctx := ApplyContext{
		World:     m.entities,
		Target:    m.target,
		Kind:      in.Kind,
		Magnitude: d.Magnitude,
	}

	if d.Instant() {
		if err := d.Apply(ctx); err != nil {
			return fmt.Errorf("effect: apply %s: %w", in.Kind, err)
		}
		m.discardPickup(in)
		m.log.Info("effect applied", zap.Stringer("kind", in.Kind), zap.Float64("magnitude", d.Magnitude))
		return nil
	}

	if current, ok := m.activeOf(in.Kind); ok {
		m.discardPickup(in)
		m.log.Info("duplicate effect dropped",
			zap.Stringer("kind", in.Kind),
			zap.Stringer("active", current.ID),
		)
		return nil
	}

	if err := d.Apply(ctx); err != nil {
		return fmt.Errorf("effect: apply %s: %w", in.Kind, err)
	}
	m.discardPickup(in)
	in.Phase = PhaseActive
	in.Pickup = 0
	in.Target = m.target
	in.AppliedAt = m.clock.Now()
	in.Timeout = d.Duration
	in.Magnitude = d.Magnitude
	m.active.set(in.ID, in)
	m.log.Info("effect activated",
		zap.Stringer("kind", in.Kind),
		zap.Stringer("id", in.ID),
		zap.Duration("timeout", in.Timeout),
	)
	return nil
}

func (m *Manager) discardPickup(in *Instance) {
	if m.pending.delete(in.Pickup) {
		m.world.DespawnPickup(in.Pickup)
	}
}

func (m *Manager) activeOf(kind Kind) (*Instance, bool) {
	for _, id := range m.active.snapshot() {
		in, _ := m.active.get(id)
		if in.Kind == kind {
			return in, true
		}
	}
	return nil, false
}

// Tick expires pickups and effects, spawns a pickup when the interval has
// passed and refreshes the display. Call it once per frame.
func (m *Manager) Tick() {
	m.expirePickups()
	m.expireEffects()
	m.maybeSpawn()
	m.display.UpdateEffectDisplay(m.ActiveSnapshot())
}

func (m *Manager) expirePickups() {
	for _, e := range m.pending.snapshot() {
		in, _ := m.pending.get(e)
		if m.clock.ElapsedSince(in.CreatedAt) < m.pickupTimeout {
			continue
		}
		m.discardPickup(in)
		m.log.Info("pickup timed out", zap.Stringer("kind", in.Kind), zap.Stringer("pickup", e))
	}
}

func (m *Manager) expireEffects() {
	for _, id := range m.active.snapshot() {
		in, _ := m.active.get(id)
		if !in.expired(m.clock.ElapsedSince(in.AppliedAt)) {
			continue
		}
		m.remove(in)
		m.log.Info("effect expired", zap.Stringer("kind", in.Kind), zap.Stringer("id", id))
	}
}

// remove undoes in and drops it from the active set. A failing remove is
// logged and the effect is dropped anyway so it cannot fire twice.
func (m *Manager) remove(in *Instance) {
	m.active.delete(in.ID)
	d := m.table.Lookup(in.Kind)
	if d.Remove == nil {
		return
	}
	err := d.Remove(ApplyContext{
		World:     m.entities,
		Target:    in.Target,
		Kind:      in.Kind,
		Magnitude: in.Magnitude,
	})
	if err != nil {
		m.log.Error("effect remove failed", zap.Stringer("kind", in.Kind), zap.Error(err))
	}
}

func (m *Manager) maybeSpawn() {
	if m.clock.ElapsedSince(m.lastSpawnAt) < m.spawnInterval {
		return
	}
	m.lastSpawnAt = m.clock.Now()

	kinds := m.table.Kinds()
	if len(kinds) == 0 {
		return
	}
	pos, ok := m.world.NextSpawnPoint()
	if !ok {
		return
	}
	kind := kinds[m.rng.IntN(len(kinds))]
	if _, err := m.SpawnPickup(kind, pos); err != nil {
		m.log.Warn("random pickup spawn failed", zap.Stringer("kind", kind), zap.Error(err))
	}
}

// ExtendActiveEffect adds extra to the active effect of kind. AppliedAt is
// left alone, so the effect simply lasts longer. A negative extra shortens it,
// never below zero. It reports false when kind is not active.
func (m *Manager) ExtendActiveEffect(kind Kind, extra time.Duration) bool {
	in, ok := m.activeOf(kind)
	if !ok {
		return false
	}
	in.Timeout = max(in.Timeout+extra, 0)
	return true
}

// PendingCount is the number of uncollected pickups.
func (m *Manager) PendingCount() int {
	return m.pending.len()
}

// ActiveCount is the number of active effects.
func (m *Manager) ActiveCount() int {
	return m.active.len()
}

// Pending returns copies of the pending pickups in spawn order.
func (m *Manager) Pending() []Instance {
	out := make([]Instance, 0, m.pending.len())
	for _, e := range m.pending.snapshot() {
		in, _ := m.pending.get(e)
		out = append(out, *in)
	}
	return out
}

// Active returns a copy of the active instance of kind.
func (m *Manager) Active(kind Kind) (Instance, bool) {
	in, ok := m.activeOf(kind)
	if !ok {
		return Instance{}, false
	}
	return *in, true
}

// ActiveSnapshot returns the display view of every active effect in
// activation order.
func (m *Manager) ActiveSnapshot() []ActiveEffect {
	out := make([]ActiveEffect, 0, m.active.len())
	for _, id := range m.active.snapshot() {
		in, _ := m.active.get(id)
		d := m.table.Lookup(in.Kind)
		out = append(out, ActiveEffect{
			ID:        in.ID,
			Kind:      in.Kind,
			Label:     d.Label,
			Color:     d.Color,
			AppliedAt: in.AppliedAt,
			Timeout:   in.Timeout,
			Remaining: max(in.Timeout-m.clock.ElapsedSince(in.AppliedAt), 0),
		})
	}
	return out
}

// Table returns the descriptor table in use.
func (m *Manager) Table() *Table {
	return m.table
}

// SetTable swaps the descriptor table, as on a tuning reload. Active effects
// keep the magnitude and timeout they were applied with.
func (m *Manager) SetTable(t *Table) error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrNotConfigured)
	}
	for _, id := range m.active.snapshot() {
		in, _ := m.active.get(id)
		if !t.Has(in.Kind) {
			return fmt.Errorf("%w: new table drops active %s", ErrInvalidDescriptor, in.Kind)
		}
	}
	m.table = t
	m.log.Info("effect table replaced", zap.Int("kinds", len(t.Kinds())))
	return nil
}

// Clear despawns every pickup and removes every active effect.
func (m *Manager) Clear() {
	for _, e := range m.pending.snapshot() {
		in, _ := m.pending.get(e)
		m.discardPickup(in)
	}
	for _, id := range m.active.snapshot() {
		in, _ := m.active.get(id)
		m.remove(in)
	}
}
