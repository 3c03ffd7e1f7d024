package effect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
)

func nop(ApplyContext) error { return nil }

func TestNewTableValidatesRows(t *testing.T) {
	cases := []struct {
		name string
		rows []Descriptor
		ok   bool
	}{
		{"defaults", DefaultRows(), true},
		{"empty", nil, true},
		{"no_kind", []Descriptor{{Label: "x", Apply: nop}}, false},
		{"no_apply", []Descriptor{{Kind: HPUp}}, false},
		{"negative_duration", []Descriptor{{Kind: SpeedUp, Duration: -time.Second, Apply: nop, Remove: nop}}, false},
		{"timed_without_remove", []Descriptor{{Kind: SpeedUp, Duration: time.Second, Apply: nop}}, false},
		{"instant_with_remove", []Descriptor{{Kind: HPUp, Apply: nop, Remove: nop}}, false},
		{"duplicate", []Descriptor{{Kind: HPUp, Apply: nop}, {Kind: HPUp, Apply: nop}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := NewTable(nil, tc.rows...)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidDescriptor)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, table.Validate())
		})
	}

	var nilTable *Table
	assert.Error(t, nilTable.Validate())
}

func TestDefaultRowsCoverEveryKind(t *testing.T) {
	table, err := DefaultTable(nil)
	require.NoError(t, err)

	for k := HPUp; k <= LowGravity; k++ {
		assert.True(t, table.Has(k), "missing %s", k)
	}
	assert.Equal(t, []Kind{HPUp, Invincibility, HPDown, SpeedUp, SpeedDown, JumpBoost, LowGravity}, table.Kinds())
	assert.True(t, table.Lookup(HPUp).Instant())
	assert.Equal(t, 5*time.Second, table.Lookup(Invincibility).Duration)
}

func TestLookupUnknownFallsBackToNoop(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	table, err := NewTable(zap.New(core), DefaultRows()...)
	require.NoError(t, err)

	d := table.Lookup(KindUnknown)
	require.NotNil(t, d)
	assert.True(t, d.Instant())
	assert.NoError(t, d.Apply(ApplyContext{}))
	assert.Equal(t, 1, logs.FilterMessage("unknown effect kind, using no-op").Len())

	// Mutating the fallback must not leak into later lookups.
	d.Label = "changed"
	assert.Equal(t, "Unknown", table.Lookup(Kind(99)).Label)
}

func TestRetune(t *testing.T) {
	table, err := DefaultTable(nil)
	require.NoError(t, err)

	label := "Zoom"
	dur := 8 * time.Second
	retuned, err := table.Retune(Override{Kind: SpeedUp, Label: &label, Duration: &dur})
	require.NoError(t, err)

	got := retuned.Lookup(SpeedUp)
	assert.Equal(t, "Zoom", got.Label)
	assert.Equal(t, 8*time.Second, got.Duration)
	assert.InDelta(t, 1.5, got.Magnitude, 1e-9)
	assert.Equal(t, "Speed Up", table.Lookup(SpeedUp).Label, "original table is untouched")

	_, err = table.Retune(Override{Kind: KindUnknown})
	assert.ErrorIs(t, err, ErrUnknownKind)

	zero := time.Duration(0)
	_, err = table.Retune(Override{Kind: Invincibility, Duration: &zero})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"hp_up", HPUp, true},
		{" Speed_Down ", SpeedDown, true},
		{"low_gravity", LowGravity, true},
		{"unknown", KindUnknown, false},
		{"teleport", KindUnknown, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseKind(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestDefaultApplyFuncs(t *testing.T) {
	w := ecs.NewWorld()
	player := ecs.CreateEntity(w)
	hp := component.NewHealth(5)
	hp.Current = 3
	require.NoError(t, ecs.Add(w, player, component.HealthComponent.Kind(), hp))
	require.NoError(t, ecs.Add(w, player, component.MovementComponent.Kind(), component.NewMovement(1, 1)))

	table, err := DefaultTable(nil)
	require.NoError(t, err)
	ctx := func(k Kind) ApplyContext {
		return ApplyContext{World: w, Target: player, Kind: k, Magnitude: table.Lookup(k).Magnitude}
	}

	require.NoError(t, table.Lookup(HPDown).Apply(ctx(HPDown)))
	assert.Equal(t, 2, hp.Current)

	require.NoError(t, table.Lookup(Invincibility).Apply(ctx(Invincibility)))
	require.NoError(t, table.Lookup(HPDown).Apply(ctx(HPDown)))
	assert.Equal(t, 2, hp.Current, "invulnerable target takes no damage")
	require.NoError(t, table.Lookup(Invincibility).Remove(ctx(Invincibility)))
	assert.False(t, ecs.Has(w, player, component.InvulnerableComponent.Kind()))

	require.NoError(t, table.Lookup(HPUp).Apply(ctx(HPUp)))
	assert.Equal(t, 3, hp.Current)

	mv, _ := ecs.Get(w, player, component.MovementComponent.Kind())
	require.NoError(t, table.Lookup(LowGravity).Apply(ctx(LowGravity)))
	require.NoError(t, table.Lookup(SpeedDown).Apply(ctx(SpeedDown)))
	assert.InDelta(t, 0.5, mv.GravityScale, 1e-9)
	assert.InDelta(t, 0.5, mv.SpeedScale, 1e-9)
	require.NoError(t, table.Lookup(LowGravity).Remove(ctx(LowGravity)))
	require.NoError(t, table.Lookup(SpeedDown).Remove(ctx(SpeedDown)))
	assert.InDelta(t, 1.0, mv.GravityScale, 1e-9)
	assert.InDelta(t, 1.0, mv.SpeedScale, 1e-9)

	bare := ecs.CreateEntity(w)
	err = table.Lookup(HPUp).Apply(ApplyContext{World: w, Target: bare, Kind: HPUp, Magnitude: 1})
	assert.ErrorIs(t, err, ErrMissingCapability)
	err = table.Lookup(JumpBoost).Apply(ApplyContext{World: w, Target: bare, Kind: JumpBoost, Magnitude: 1.4})
	assert.ErrorIs(t, err, ErrMissingCapability)
}

func TestScaledEffectsRestoreExactly(t *testing.T) {
	w := ecs.NewWorld()
	player := ecs.CreateEntity(w)
	mv := component.NewMovement(1, 1)
	require.NoError(t, ecs.Add(w, player, component.MovementComponent.Kind(), mv))

	table, err := DefaultTable(nil)
	require.NoError(t, err)
	ctx := func(k Kind) ApplyContext {
		return ApplyContext{World: w, Target: player, Kind: k, Magnitude: table.Lookup(k).Magnitude}
	}

	for range 1000 {
		require.NoError(t, table.Lookup(SpeedUp).Apply(ctx(SpeedUp)))
		require.NoError(t, table.Lookup(SpeedDown).Apply(ctx(SpeedDown)))
		require.NoError(t, table.Lookup(JumpBoost).Apply(ctx(JumpBoost)))
		require.NoError(t, table.Lookup(SpeedUp).Remove(ctx(SpeedUp)))
		assert.InDelta(t, 0.5, mv.SpeedScale, 1e-12)
		require.NoError(t, table.Lookup(JumpBoost).Remove(ctx(JumpBoost)))
		require.NoError(t, table.Lookup(SpeedDown).Remove(ctx(SpeedDown)))
	}
	assert.Equal(t, 1.0, mv.SpeedScale)
	assert.Equal(t, 1.0, mv.JumpScale)

	err = table.Lookup(SpeedUp).Apply(ApplyContext{World: w, Target: player, Kind: SpeedUp, Magnitude: 0})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
	assert.Equal(t, 1.0, mv.SpeedScale)
}
