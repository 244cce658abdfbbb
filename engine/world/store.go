package world

import "reflect"

// anyStore is the type-erased view of a component store used for lifecycle operations
// that span every component type (entity destruction, world teardown).
type anyStore interface {
	remove(e Entity) bool
	has(e Entity) bool
	clear()
}

// store holds every component of type T in insertion order. Components are held by pointer
// so references handed out by Get stay valid until the component is removed.
type store[T any] struct {
	components map[Entity]*T
	entities   []Entity

	// tracked enables change detection; added and removed accumulate until drained.
	tracked bool
	added   []Entity
	removed []Entity
}

func newStore[T any]() *store[T] {
	return &store[T]{
		components: make(map[Entity]*T),
		entities:   make([]Entity, 0, 64),
	}
}

func (s *store[T]) insert(e Entity, val T) *T {
	if c, ok := s.components[e]; ok {
		*c = val
		return c
	}
	c := new(T)
	*c = val
	s.components[e] = c
	s.entities = append(s.entities, e)
	if s.tracked {
		s.added = append(s.added, e)
	}
	return c
}

func (s *store[T]) get(e Entity) (*T, bool) {
	c, ok := s.components[e]
	return c, ok
}

func (s *store[T]) has(e Entity) bool {
	_, ok := s.components[e]
	return ok
}

// remove keeps the remaining entities in insertion order, since iteration order decides
// first-match lookups and draw order.
func (s *store[T]) remove(e Entity) bool {
	if _, ok := s.components[e]; !ok {
		return false
	}
	delete(s.components, e)
	for i, entity := range s.entities {
		if entity == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
	if s.tracked {
		s.removed = append(s.removed, e)
	}
	return true
}

func (s *store[T]) clear() {
	for _, e := range s.entities {
		delete(s.components, e)
		if s.tracked {
			s.removed = append(s.removed, e)
		}
	}
	s.entities = s.entities[:0]
	s.added = s.added[:0]
}

func (s *store[T]) snapshot() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// drainAdded returns entities that gained the component since the last drain and still carry it.
func (s *store[T]) drainAdded() []Entity {
	var out []Entity
	for _, e := range s.added {
		if s.has(e) {
			out = append(out, e)
		}
	}
	s.added = s.added[:0]
	return out
}

// drainRemoved returns entities that lost the component since the last drain and did not
// get it back in the meantime.
func (s *store[T]) drainRemoved() []Entity {
	var out []Entity
	for _, e := range s.removed {
		if !s.has(e) {
			out = append(out, e)
		}
	}
	s.removed = s.removed[:0]
	return out
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
