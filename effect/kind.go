// Package effect runs buffs and debuffs: pickups placed in the world, their
// collection by the player, and the timed application and removal of what
// they do.
package effect

import (
	"fmt"
	"strings"
)

// Kind names one effect in the closed set of effects the game knows about.
type Kind int

const (
	KindUnknown Kind = iota
	HPUp
	Invincibility
	HPDown
	SpeedUp
	SpeedDown
	JumpBoost
	LowGravity
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	HPUp:          "hp_up",
	Invincibility: "invincibility",
	HPDown:        "hp_down",
	SpeedUp:       "speed_up",
	SpeedDown:     "speed_down",
	JumpBoost:     "jump_boost",
	LowGravity:    "low_gravity",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a prefab name such as "speed_up" to its Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k := HPUp; int(k) < len(kindNames); k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
