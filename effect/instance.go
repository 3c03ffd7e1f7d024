package effect

import (
	"time"

	"github.com/google/uuid"

	"github.com/milk9111/buffrunner/ecs"
)

// Phase is where an instance is in its life.
type Phase int

const (
	// PhasePickup is a world-placed, uncollected pickup.
	PhasePickup Phase = iota
	// PhaseActive is a collected timed effect modifying its target.
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhasePickup:
		return "pickup"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// Instance is one pickup, and later one active application of a timed kind.
type Instance struct {
	ID     uuid.UUID
	Kind   Kind
	Phase  Phase
	Pickup ecs.Entity
	Target ecs.Entity

	CreatedAt time.Duration
	// AppliedAt is set once, at collection.
	AppliedAt time.Duration
	// Timeout starts as the row's Duration and grows with ExtendActiveEffect.
	Timeout   time.Duration
	Magnitude float64
}

func newInstance(kind Kind, pickup ecs.Entity, now time.Duration) *Instance {
	return &Instance{
		ID:        uuid.New(),
		Kind:      kind,
		Phase:     PhasePickup,
		Pickup:    pickup,
		CreatedAt: now,
	}
}

// expired reports whether an active instance has run its course.
func (in *Instance) expired(elapsed time.Duration) bool {
	return elapsed >= in.Timeout
}

// ActiveEffect is the read-only view handed to the display.
type ActiveEffect struct {
	ID        uuid.UUID
	Kind      Kind
	Label     string
	Color     string
	AppliedAt time.Duration
	Timeout   time.Duration
	Remaining time.Duration
}
