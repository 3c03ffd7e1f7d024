package ecs

import "fmt"

// Entity is a generational handle: the low 32 bits index the entity slot and
// the high 32 bits count how many times the slot has been reused. A stale
// handle to a destroyed entity never aliases its slot's next occupant.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.id(), e.generation())
}

// Valid reports whether e was ever handed out by a world. It says nothing
// about whether the entity is still alive.
func (e Entity) Valid() bool {
	return e.id() > 0
}
