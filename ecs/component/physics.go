package component

import "github.com/jakecoffman/cp"

// BodyKind selects how a body moves through the physics space.
type BodyKind int

const (
	BodyDynamic BodyKind = iota
	BodyKinematic
	BodyStatic
)

// PhysicsBody links an entity to its Chipmunk body. Body and Shape are filled
// in by the physics system the first time it sees the entity.
type PhysicsBody struct {
	Kind      BodyKind
	Width     float64
	Height    float64
	Mass      float64
	Sensor    bool
	Collision cp.CollisionType

	Body  *cp.Body
	Shape *cp.Shape
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]("physics_body")
