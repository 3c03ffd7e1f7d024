package effect

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
)

// DefaultRows is one row per kind. Adding an effect means adding a Kind and a
// row here; the manager never switches on kinds.
func DefaultRows() []Descriptor {
	return []Descriptor{
		{Kind: HPUp, Label: "HP Up", Magnitude: 1, Color: "limegreen", Apply: heal},
		{Kind: Invincibility, Label: "Invincible", Duration: 5 * time.Second, Color: "gold", Apply: grantInvulnerable, Remove: revokeInvulnerable},
		{Kind: HPDown, Label: "HP Down", Magnitude: 1, Color: "crimson", Apply: hurt},
		{Kind: SpeedUp, Label: "Speed Up", Duration: 5 * time.Second, Magnitude: 1.5, Color: "deepskyblue", Apply: scale(component.StatSpeed, false), Remove: scale(component.StatSpeed, true)},
		{Kind: SpeedDown, Label: "Slowed", Duration: 4 * time.Second, Magnitude: 0.5, Color: "slategray", Apply: scale(component.StatSpeed, false), Remove: scale(component.StatSpeed, true)},
		{Kind: JumpBoost, Label: "Jump Boost", Duration: 6 * time.Second, Magnitude: 1.4, Color: "orchid", Apply: scale(component.StatJump, false), Remove: scale(component.StatJump, true)},
		{Kind: LowGravity, Label: "Low Gravity", Duration: 5 * time.Second, Magnitude: 0.5, Color: "lightcyan", Apply: scale(component.StatGravity, false), Remove: scale(component.StatGravity, true)},
	}
}

// DefaultTable builds the table from DefaultRows.
func DefaultTable(logger *zap.Logger) (*Table, error) {
	return NewTable(logger, DefaultRows()...)
}

func requireComponent[T any](ctx ApplyContext, kind component.ComponentKind[T]) (*T, error) {
	v, ok := ecs.Get(ctx.World, ctx.Target, kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s needs %s on entity %s", ErrMissingCapability, ctx.Kind, kind.Name(), ctx.Target)
	}
	return v, nil
}

func heal(ctx ApplyContext) error {
	h, err := requireComponent(ctx, component.HealthComponent.Kind())
	if err != nil {
		return err
	}
	h.Heal(int(ctx.Magnitude))
	return nil
}

func hurt(ctx ApplyContext) error {
	h, err := requireComponent(ctx, component.HealthComponent.Kind())
	if err != nil {
		return err
	}
	if ecs.Has(ctx.World, ctx.Target, component.InvulnerableComponent.Kind()) {
		return nil
	}
	h.Damage(int(ctx.Magnitude))
	return nil
}

func grantInvulnerable(ctx ApplyContext) error {
	if _, err := requireComponent(ctx, component.HealthComponent.Kind()); err != nil {
		return err
	}
	return ecs.Add(ctx.World, ctx.Target, component.InvulnerableComponent.Kind(), &component.Invulnerable{})
}

func revokeInvulnerable(ctx ApplyContext) error {
	ecs.Remove(ctx.World, ctx.Target, component.InvulnerableComponent.Kind())
	return nil
}

// scale places the descriptor's magnitude as this kind's factor on stat, or
// drops the factor when undo is set. The stat is recomputed from the remaining
// factors, so removal always restores the exact prior value.
func scale(stat component.Stat, undo bool) ApplyFunc {
	return func(ctx ApplyContext) error {
		m, err := requireComponent(ctx, component.MovementComponent.Kind())
		if err != nil {
			return err
		}
		if undo {
			m.Unmodify(stat, ctx.Kind.String())
			return nil
		}
		if ctx.Magnitude <= 0 {
			return fmt.Errorf("%w: %s magnitude %v must be positive", ErrInvalidDescriptor, ctx.Kind, ctx.Magnitude)
		}
		m.Modify(stat, ctx.Kind.String(), ctx.Magnitude)
		return nil
	}
}
