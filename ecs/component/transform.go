package component

// Transform is an entity's world position. X/Y address the center of the
// entity's box.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]("transform")

// Velocity is the motion a behavior or controller wants this frame. Dynamic
// bodies only take X unless SetY is raised, so gravity keeps owning the fall.
type Velocity struct {
	X    float64
	Y    float64
	SetY bool
}

var VelocityComponent = NewComponent[Velocity]("velocity")

// Box is the visible footprint of an entity.
type Box struct {
	Width  float64
	Height float64
	Color  string
}

var BoxComponent = NewComponent[Box]("box")
