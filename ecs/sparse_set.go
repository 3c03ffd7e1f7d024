package ecs

// store is the type-erased view of a component set the world needs when an
// entity dies.
type store interface {
	remove(e Entity) bool
}

// sparseSet stores components densely and indexes them by entity slot.
type sparseSet[T any] struct {
	entities []Entity
	values   []*T
	sparse   []int
}

func (s *sparseSet[T]) index(e Entity) (int, bool) {
	slot := int(e.id()) - 1
	if slot < 0 || slot >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[slot]
	if idx < 0 || idx >= len(s.entities) || s.entities[idx] != e {
		return 0, false
	}
	return idx, true
}

func (s *sparseSet[T]) has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

func (s *sparseSet[T]) get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

func (s *sparseSet[T]) set(e Entity, v *T) {
	if idx, ok := s.index(e); ok {
		s.values[idx] = v
		return
	}
	slot := int(e.id()) - 1
	for len(s.sparse) <= slot {
		s.sparse = append(s.sparse, -1)
	}
	s.entities = append(s.entities, e)
	s.values = append(s.values, v)
	s.sparse[slot] = len(s.entities) - 1
}

func (s *sparseSet[T]) remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.entities) - 1
	moved := s.entities[last]

	s.entities[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[int(moved.id())-1] = idx

	s.entities = s.entities[:last]
	s.values[last] = nil
	s.values = s.values[:last]
	s.sparse[int(e.id())-1] = -1
	return true
}

// snapshot copies the dense entity list so callers can mutate the set while
// iterating.
func (s *sparseSet[T]) snapshot() []Entity {
	return append([]Entity(nil), s.entities...)
}
