package component

// Invulnerable marks an entity as immune to damage until the component is
// removed.
type Invulnerable struct{}

var InvulnerableComponent = NewComponent[Invulnerable]("invulnerable")
