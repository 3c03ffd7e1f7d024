// Package level turns a prefab GameSpec into entities and owns where effect
// pickups appear.
package level

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/buffrunner/behavior"
	"github.com/milk9111/buffrunner/behavior/tasks"
	"github.com/milk9111/buffrunner/clock"
	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
	"github.com/milk9111/buffrunner/effect"
	"github.com/milk9111/buffrunner/logging"
	"github.com/milk9111/buffrunner/physics"
	"github.com/milk9111/buffrunner/prefabs"
)

const (
	EnemyGround = "ground"
	EnemyFlyer  = "flyer"
)

var ErrUnknownEnemy = errors.New("level: unknown enemy kind")

// Level is a built level.
type Level struct {
	Name       string
	Width      float64
	Height     float64
	Gravity    float64
	Background color.Color
	Player     ecs.Entity
	Spawner    *Spawner
}

// ScriptLoader reads a priority script by name.
type ScriptLoader func(name string) ([]byte, error)

// Builder creates level entities in World.
type Builder struct {
	World   *ecs.World
	Clock   clock.Clock
	Logger  *zap.Logger
	Scripts ScriptLoader
}

func NewBuilder(w *ecs.World, clk clock.Clock, logger *zap.Logger) *Builder {
	return &Builder{World: w, Clock: clk, Logger: logger, Scripts: prefabs.LoadScript}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func colorName(c prefabs.YAMLColor, fallback string) string {
	if c.Name == "" {
		return fallback
	}
	return c.Name
}

// Build creates every entity spec describes.
func (b *Builder) Build(spec *prefabs.GameSpec) (*Level, error) {
	if spec == nil {
		return nil, fmt.Errorf("level: nil spec")
	}
	log := logging.Named(b.Logger, "level")

	lvl := &Level{
		Name:       spec.Name,
		Width:      spec.Width,
		Height:     spec.Height,
		Gravity:    spec.Gravity,
		Background: spec.Background.Color,
	}
	if lvl.Background == nil {
		lvl.Background = colornames.Black
	}

	player, err := b.player(spec.Player)
	if err != nil {
		return nil, err
	}
	lvl.Player = player

	for i, es := range spec.Enemies {
		if _, err := b.enemy(es); err != nil {
			return nil, fmt.Errorf("level: enemy %d (%s): %w", i, es.Name, err)
		}
	}
	for i, ps := range spec.Platforms {
		if _, err := b.platform(i, ps); err != nil {
			return nil, fmt.Errorf("level: platform %d: %w", i, err)
		}
	}
	for i, ts := range spec.Turrets {
		if _, err := b.turret(ts); err != nil {
			return nil, fmt.Errorf("level: turret %d: %w", i, err)
		}
	}

	points := make([]effect.Position, 0, len(spec.SpawnPoints))
	for _, p := range spec.SpawnPoints {
		points = append(points, effect.Position{X: p.X, Y: p.Y})
	}
	lvl.Spawner = NewSpawner(b.World, spec.Pickup, points...)

	log.Info("level built",
		zap.String("name", spec.Name),
		zap.Int("enemies", len(spec.Enemies)),
		zap.Int("platforms", len(spec.Platforms)),
		zap.Int("spawn_points", len(points)),
	)
	return lvl, nil
}

// add joins the results of a run of component adds.
func add(errs ...error) error {
	return errors.Join(errs...)
}

func (b *Builder) player(ps prefabs.PlayerSpec) (ecs.Entity, error) {
	w := b.World
	e := ecs.CreateEntity(w)
	hp := ps.Health
	if hp <= 0 {
		hp = 3
	}
	err := add(
		ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: ps.Transform.X, Y: ps.Transform.Y}),
		ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}),
		ecs.Add(w, e, component.BoxComponent.Kind(), &component.Box{Width: ps.Box.Width, Height: ps.Box.Height, Color: colorName(ps.Box.Color, "white")}),
		ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Kind:      component.BodyDynamic,
			Width:     ps.Box.Width,
			Height:    ps.Box.Height,
			Mass:      1,
			Collision: physics.CollisionPlayer,
		}),
		ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(hp)),
		ecs.Add(w, e, component.MovementComponent.Kind(), component.NewMovement(ps.MoveSpeed, ps.JumpSpeed)),
	)
	if err != nil {
		return 0, fmt.Errorf("level: player: %w", err)
	}
	return e, nil
}

func (b *Builder) brain(name string, e ecs.Entity, set []behavior.PriorityTask) error {
	s := tasks.Schedule(behavior.NewScheduler(fmt.Sprintf("%s#%s", name, e), b.Logger), set)
	return ecs.Add(b.World, e, component.BrainComponent.Kind(), &component.Brain{Scheduler: s})
}

func (b *Builder) env(e ecs.Entity) tasks.Env {
	return tasks.Env{World: b.World, Self: e, Clock: b.Clock}
}

func (b *Builder) enemy(es prefabs.EnemySpec) (ecs.Entity, error) {
	var (
		set  []behavior.PriorityTask
		body = component.BodyDynamic
	)
	w := b.World
	e := ecs.CreateEntity(w)

	switch es.Kind {
	case EnemyGround, "":
		set = tasks.GroundEnemy(b.env(e))
	case EnemyFlyer:
		src, err := b.Scripts(es.Script)
		if err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("load script %q: %w", es.Script, err)
		}
		script, err := behavior.CompileScriptPriority(es.Script, src, tasks.FlyScriptInputs())
		if err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
		set = tasks.Flyer(b.env(e), script)
		body = component.BodyKinematic
	default:
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("%w: %q", ErrUnknownEnemy, es.Kind)
	}

	ai := es.AI
	err := add(
		ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{}),
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: es.Transform.X, Y: es.Transform.Y}),
		ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}),
		ecs.Add(w, e, component.BoxComponent.Kind(), &component.Box{Width: es.Box.Width, Height: es.Box.Height, Color: colorName(es.Box.Color, "red")}),
		ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Kind:      body,
			Width:     es.Box.Width,
			Height:    es.Box.Height,
			Mass:      1,
			Collision: physics.CollisionSolid,
		}),
		ecs.Add(w, e, component.AIComponent.Kind(), &component.AI{
			MoveSpeed:      ai.MoveSpeed,
			FollowRange:    ai.FollowRange,
			AttackRange:    ai.AttackRange,
			AttackDamage:   ai.AttackDamage,
			AttackDuration: ms(ai.AttackDurationMS),
			AttackCooldown: ms(ai.AttackCooldownMS),
			PatrolLeft:     ai.PatrolLeft,
			PatrolRight:    ai.PatrolRight,
		}),
		b.brain(es.Name, e, set),
	)
	if err != nil {
		return 0, err
	}
	return e, nil
}

func (b *Builder) platform(i int, ps prefabs.PlatformSpec) (ecs.Entity, error) {
	w := b.World
	e := ecs.CreateEntity(w)
	moving := len(ps.Waypoints) >= 2 && ps.Speed > 0

	kind := component.BodyStatic
	if moving {
		kind = component.BodyKinematic
	}
	err := add(
		ecs.Add(w, e, component.PlatformTagComponent.Kind(), &component.PlatformTag{}),
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: ps.Transform.X, Y: ps.Transform.Y}),
		ecs.Add(w, e, component.BoxComponent.Kind(), &component.Box{Width: ps.Box.Width, Height: ps.Box.Height, Color: colorName(ps.Box.Color, "gray")}),
		ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Kind:      kind,
			Width:     ps.Box.Width,
			Height:    ps.Box.Height,
			Collision: physics.CollisionSolid,
		}),
	)
	if err != nil || !moving {
		return e, err
	}

	waypoints := make([]component.Point, 0, len(ps.Waypoints))
	for _, p := range ps.Waypoints {
		waypoints = append(waypoints, component.Point{X: p.X, Y: p.Y})
	}
	err = add(
		ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{SetY: true}),
		ecs.Add(w, e, component.PlatformComponent.Kind(), &component.Platform{
			Waypoints: waypoints,
			Speed:     ps.Speed,
			Rest:      ms(ps.RestMS),
		}),
		b.brain(fmt.Sprintf("platform%d", i), e, tasks.MovingPlatform(b.env(e))),
	)
	return e, err
}

func (b *Builder) turret(ts prefabs.TurretSpec) (ecs.Entity, error) {
	w := b.World
	e := ecs.CreateEntity(w)
	err := add(
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: ts.Transform.X, Y: ts.Transform.Y}),
		ecs.Add(w, e, component.BoxComponent.Kind(), &component.Box{Width: 16, Height: 16, Color: "darkorange"}),
		ecs.Add(w, e, component.TurretComponent.Kind(), &component.Turret{
			Interval:  ms(ts.IntervalMS),
			Speed:     ts.Speed,
			DirX:      ts.Direction.X,
			DirY:      ts.Direction.Y,
			Damage:    ts.Damage,
			Lifetime:  ms(ts.LifetimeMS),
			HitRadius: ts.HitRadius,
			LastShot:  b.Clock.Now(),
		}),
	)
	return e, err
}

// Projectile fires a projectile from (x, y) with the turret's settings.
func (b *Builder) Projectile(x, y float64, t *component.Turret) (ecs.Entity, error) {
	w := b.World
	e := ecs.CreateEntity(w)
	vx, vy := t.DirX*t.Speed, t.DirY*t.Speed
	err := add(
		ecs.Add(w, e, component.ProjectileTagComponent.Kind(), &component.ProjectileTag{}),
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}),
		ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{X: vx, Y: vy, SetY: true}),
		ecs.Add(w, e, component.BoxComponent.Kind(), &component.Box{Width: 6, Height: 6, Color: "orange"}),
		ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Kind:      component.BodyKinematic,
			Width:     6,
			Height:    6,
			Sensor:    true,
			Collision: physics.CollisionProjectile,
		}),
		ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{
			VX:        vx,
			VY:        vy,
			Damage:    t.Damage,
			HitRadius: t.HitRadius,
			Lifetime:  t.Lifetime,
			SpawnedAt: b.Clock.Now(),
		}),
		b.brain("projectile", e, tasks.Bullet(b.env(e))),
	)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}
