// Package physics wraps a Chipmunk space for the game: it owns one body per
// entity, maps shapes back to entities and reports player contacts with
// sensors once the step is over.
package physics

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/buffrunner/ecs"
	"github.com/milk9111/buffrunner/ecs/component"
	"github.com/milk9111/buffrunner/logging"
)

const (
	CollisionSolid cp.CollisionType = iota + 1
	CollisionPlayer
	CollisionPickup
	CollisionProjectile
)

const defaultGravity = 900

var ErrDuplicateBody = errors.New("physics: entity already has a body")

// ContactFunc is told about each player contact with a sensor. It runs after
// the step, so it may add or remove bodies.
type ContactFunc func(self, other ecs.Entity) error

// BodyDef describes a body to add. X and Y are the center.
type BodyDef struct {
	Kind      component.BodyKind
	X, Y      float64
	Width     float64
	Height    float64
	Mass      float64
	Sensor    bool
	Collision cp.CollisionType
}

type contact struct {
	self, other ecs.Entity
}

type handle struct {
	body      *cp.Body
	shape     *cp.Shape
	kind      component.BodyKind
	collision cp.CollisionType
	static    bool
}

// Space is a Chipmunk space keyed by entity.
type Space struct {
	space   *cp.Space
	bodies  map[ecs.Entity]*handle
	shapes  map[*cp.Shape]ecs.Entity
	queued  []contact
	seen    map[contact]struct{}
	contact ContactFunc
	log     *zap.Logger
}

// New creates a space with downward gravity. Zero uses the default.
func New(gravity float64, logger *zap.Logger) *Space {
	if gravity == 0 {
		gravity = defaultGravity
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	s := &Space{
		space:  space,
		bodies: make(map[ecs.Entity]*handle),
		shapes: make(map[*cp.Shape]ecs.Entity),
		seen:   make(map[contact]struct{}),
		log:    logging.Named(logger, "physics"),
	}

	h := space.NewCollisionHandler(CollisionPlayer, CollisionPickup)
	h.UserData = s
	h.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
		sp, ok := userData.(*Space)
		if !ok || sp == nil {
			return true
		}
		a, b := arb.Shapes()
		sp.queue(a, b)
		return true
	}
	return s
}

func (s *Space) queue(a, b *cp.Shape) {
	ea, okA := s.shapes[a]
	eb, okB := s.shapes[b]
	if !okA || !okB {
		return
	}
	if s.isPlayer(eb) && !s.isPlayer(ea) {
		ea, eb = eb, ea
	}
	c := contact{self: ea, other: eb}
	if _, dup := s.seen[c]; dup {
		return
	}
	s.seen[c] = struct{}{}
	s.queued = append(s.queued, c)
}

func (s *Space) isPlayer(e ecs.Entity) bool {
	h, ok := s.bodies[e]
	return ok && h.collision == CollisionPlayer
}

// OnContact sets the callback for player contacts.
func (s *Space) OnContact(fn ContactFunc) {
	s.contact = fn
}

// Add creates a body for e. Static bodies become shapes on the space's static
// body; kinematic and dynamic bodies get their own.
func (s *Space) Add(e ecs.Entity, def BodyDef) (*cp.Body, *cp.Shape, error) {
	if s == nil {
		return nil, nil, fmt.Errorf("physics: nil space")
	}
	if _, ok := s.bodies[e]; ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateBody, e)
	}
	if def.Width <= 0 || def.Height <= 0 {
		return nil, nil, fmt.Errorf("physics: body for %s needs a positive size, got %vx%v", e, def.Width, def.Height)
	}

	h := &handle{kind: def.Kind}
	switch def.Kind {
	case component.BodyStatic:
		bb := cp.BB{
			L: def.X - def.Width/2,
			B: def.Y - def.Height/2,
			R: def.X + def.Width/2,
			T: def.Y + def.Height/2,
		}
		h.body = s.space.StaticBody
		h.shape = cp.NewBox2(h.body, bb, 0)
		h.static = true
	case component.BodyKinematic:
		h.body = cp.NewKinematicBody()
		h.body.SetPosition(cp.Vector{X: def.X, Y: def.Y})
		h.shape = cp.NewBox(h.body, def.Width, def.Height, 0)
	default:
		mass := def.Mass
		if mass <= 0 {
			mass = 1
		}
		// Infinite moment keeps characters upright.
		h.body = cp.NewBody(mass, cp.INFINITY)
		h.body.SetPosition(cp.Vector{X: def.X, Y: def.Y})
		h.shape = cp.NewBox(h.body, def.Width, def.Height, 0)
	}

	collision := def.Collision
	if collision == 0 {
		collision = CollisionSolid
	}
	h.collision = collision
	h.shape.SetCollisionType(collision)
	h.shape.SetSensor(def.Sensor)
	h.shape.SetFriction(0.8)
	h.shape.UserData = e

	if !h.static {
		s.space.AddBody(h.body)
	}
	s.space.AddShape(h.shape)
	s.bodies[e] = h
	s.shapes[h.shape] = e
	return h.body, h.shape, nil
}

// Remove drops e's body. Unknown entities are ignored.
func (s *Space) Remove(e ecs.Entity) {
	h, ok := s.bodies[e]
	if !ok {
		return
	}
	s.space.RemoveShape(h.shape)
	if !h.static {
		s.space.RemoveBody(h.body)
	}
	delete(s.shapes, h.shape)
	delete(s.bodies, e)
}

func (s *Space) Has(e ecs.Entity) bool {
	_, ok := s.bodies[e]
	return ok
}

// Len is the number of bodies in the space.
func (s *Space) Len() int {
	return len(s.bodies)
}

// Entities returns every entity with a body.
func (s *Space) Entities() []ecs.Entity {
	out := make([]ecs.Entity, 0, len(s.bodies))
	for e := range s.bodies {
		out = append(out, e)
	}
	return out
}

// Position returns the center of e's body.
func (s *Space) Position(e ecs.Entity) (x, y float64, ok bool) {
	h, ok := s.bodies[e]
	if !ok || h.static {
		return 0, 0, false
	}
	p := h.body.Position()
	return p.X, p.Y, true
}

// SetPosition teleports a non-static body.
func (s *Space) SetPosition(e ecs.Entity, x, y float64) {
	h, ok := s.bodies[e]
	if !ok || h.static {
		return
	}
	h.body.SetPosition(cp.Vector{X: x, Y: y})
}

func (s *Space) Velocity(e ecs.Entity) (vx, vy float64, ok bool) {
	h, ok := s.bodies[e]
	if !ok || h.static {
		return 0, 0, false
	}
	v := h.body.Velocity()
	return v.X, v.Y, true
}

func (s *Space) SetVelocity(e ecs.Entity, vx, vy float64) {
	h, ok := s.bodies[e]
	if !ok || h.static {
		return
	}
	h.body.SetVelocity(vx, vy)
}

// SetGravityScale scales gravity for one dynamic body.
func (s *Space) SetGravityScale(e ecs.Entity, scale float64) {
	h, ok := s.bodies[e]
	if !ok || h.kind != component.BodyDynamic {
		return
	}
	h.body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		cp.BodyUpdateVelocity(body, gravity.Mult(scale), damping, dt)
	})
}

// Step advances the simulation by dt seconds and then delivers the contacts
// queued during it. A failing contact is logged and the rest still run.
func (s *Space) Step(dt float64) {
	if s == nil || dt <= 0 {
		return
	}
	s.space.Step(dt)
	s.flush()
}

func (s *Space) flush() {
	queued := s.queued
	s.queued = nil
	clear(s.seen)
	if s.contact == nil {
		return
	}
	for _, c := range queued {
		if err := s.contact(c.self, c.other); err != nil {
			s.log.Error("contact handler failed",
				zap.Stringer("self", c.self),
				zap.Stringer("other", c.other),
				zap.Error(err),
			)
		}
	}
}
