package component

// Despawn marks an entity for destruction at the end of the frame.
type Despawn struct{}

var DespawnComponent = NewComponent[Despawn]("despawn")
