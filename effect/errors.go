package effect

import "errors"

var (
	// ErrMissingCapability means an effect targeted an entity that lacks the
	// component the effect works on. It is a wiring bug, not a game event.
	ErrMissingCapability = errors.New("effect: target lacks required component")
	ErrUnknownKind       = errors.New("effect: unknown kind")
	ErrInvalidDescriptor = errors.New("effect: invalid descriptor")
)

// ErrNotConfigured is returned by NewManager when a required collaborator is
// missing.
var ErrNotConfigured = errors.New("effect: manager not configured")
