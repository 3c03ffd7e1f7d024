package effect

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/logging"
)

// ApplyContext is what an apply or remove function gets to work with.
// Magnitude is the value captured when the effect was applied, so a retune
// between apply and remove cannot unbalance the pair.
type ApplyContext struct {
	World     *ecs.World
	Target    ecs.Entity
	Kind      Kind
	Magnitude float64
}

// ApplyFunc changes (or restores) the target. It returns an error wrapping
// ErrMissingCapability when the target lacks what the effect needs.
type ApplyFunc func(ctx ApplyContext) error

// Descriptor is the static row for one effect kind. A zero Duration makes the
// effect instantaneous; timed effects need a Remove, instantaneous ones must
// not have one.
type Descriptor struct {
	Kind      Kind
	Label     string
	Duration  time.Duration
	Magnitude float64
	Color     string
	Apply     ApplyFunc
	Remove    ApplyFunc
}

// Instant reports whether the effect is applied once with nothing to undo.
func (d *Descriptor) Instant() bool {
	return d.Duration == 0
}

func (d *Descriptor) validate() error {
	switch {
	case d.Kind == KindUnknown:
		return fmt.Errorf("%w: row %q has no kind", ErrInvalidDescriptor, d.Label)
	case d.Apply == nil:
		return fmt.Errorf("%w: %s has no apply function", ErrInvalidDescriptor, d.Kind)
	case d.Duration < 0:
		return fmt.Errorf("%w: %s has negative duration %s", ErrInvalidDescriptor, d.Kind, d.Duration)
	case !d.Instant() && d.Remove == nil:
		return fmt.Errorf("%w: timed %s has no remove function", ErrInvalidDescriptor, d.Kind)
	case d.Instant() && d.Remove != nil:
		return fmt.Errorf("%w: instant %s must not have a remove function", ErrInvalidDescriptor, d.Kind)
	}
	return nil
}

var noopDescriptor = Descriptor{
	Kind:  KindUnknown,
	Label: "Unknown",
	Apply: func(ApplyContext) error { return nil },
}

// Table is the closed dispatch table from kind to descriptor. Tables are not
// modified after construction; retuning builds a new one.
type Table struct {
	rows  map[Kind]*Descriptor
	order []Kind
	log   *zap.Logger
}

// NewTable validates rows and builds a table. Row order is kept for Kinds.
func NewTable(logger *zap.Logger, rows ...Descriptor) (*Table, error) {
	return buildTable(logging.Named(logger, "effect"), rows)
}

func buildTable(log *zap.Logger, rows []Descriptor) (*Table, error) {
	t := &Table{
		rows: make(map[Kind]*Descriptor, len(rows)),
		log:  log,
	}
	for i := range rows {
		d := rows[i]
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := t.rows[d.Kind]; dup {
			return nil, fmt.Errorf("%w: duplicate row for %s", ErrInvalidDescriptor, d.Kind)
		}
		t.rows[d.Kind] = &d
		t.order = append(t.order, d.Kind)
	}
	return t, nil
}

// Lookup returns the row for k. Unknown kinds get a no-op row and a warning.
func (t *Table) Lookup(k Kind) *Descriptor {
	if t != nil {
		if d, ok := t.rows[k]; ok {
			return d
		}
		t.log.Warn("unknown effect kind, using no-op", zap.Stringer("kind", k))
	}
	d := noopDescriptor
	return &d
}

// Has reports whether k has a row.
func (t *Table) Has(k Kind) bool {
	if t == nil {
		return false
	}
	_, ok := t.rows[k]
	return ok
}

// Kinds returns every kind in row order.
func (t *Table) Kinds() []Kind {
	if t == nil {
		return nil
	}
	return append([]Kind(nil), t.order...)
}

// Rows returns copies of every row in order.
func (t *Table) Rows() []Descriptor {
	if t == nil {
		return nil
	}
	out := make([]Descriptor, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, *t.rows[k])
	}
	return out
}

// Override retunes the data half of a row. Nil fields keep the current value.
type Override struct {
	Kind      Kind
	Label     *string
	Duration  *time.Duration
	Magnitude *float64
	Color     *string
}

// Retune returns a new table with overrides applied. Overrides cannot add
// kinds: every kind needs code for its apply and remove functions.
func (t *Table) Retune(overrides ...Override) (*Table, error) {
	rows := t.Rows()
	index := make(map[Kind]int, len(rows))
	for i, d := range rows {
		index[d.Kind] = i
	}
	for _, o := range overrides {
		i, ok := index[o.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: no row to retune for %s", ErrUnknownKind, o.Kind)
		}
		d := &rows[i]
		if o.Label != nil {
			d.Label = *o.Label
		}
		if o.Duration != nil {
			d.Duration = *o.Duration
		}
		if o.Magnitude != nil {
			d.Magnitude = *o.Magnitude
		}
		if o.Color != nil {
			d.Color = *o.Color
		}
	}
	log := zap.NewNop()
	if t != nil {
		log = t.log
	}
	return buildTable(log, rows)
}

// Validate re-checks every row. Tables built by NewTable are already valid;
// this exists for startup checks on tables assembled elsewhere.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidDescriptor)
	}
	for _, k := range t.order {
		if err := t.rows[k].validate(); err != nil {
			return err
		}
	}
	return nil
}
