// Package world is the entity/component substrate of the engine. Components are plain Go
// values stored per type; access goes through package-level generic functions since Go
// methods cannot carry type parameters.
//
// The world is owned by the frame loop goroutine and is not safe for concurrent mutation.
package world

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrMissingComponent is returned by the fetch-or-fail accessors.
var ErrMissingComponent = errors.New("missing component")

// Entity is an opaque identity. Ids are never reused within a World.
type Entity uint32

// Component is a typed value ready to be attached to an entity, built with With.
type Component interface {
	attach(w *World, e Entity)
}

type component[T any] struct {
	value T
}

func (c component[T]) attach(w *World, e Entity) {
	Insert(w, e, c.value)
}

// With wraps a value so it can be passed to Spawn.
//
// Parameters:
//   - v: the component value
//
// Returns:
//   - Component: the value ready for attachment
func With[T any](v T) Component {
	return component[T]{value: v}
}

// World stores entities, their components and singleton resources.
type World struct {
	nextID Entity
	alive  map[Entity]struct{}
	order  []Entity

	stores     map[reflect.Type]anyStore
	storeOrder []anyStore

	resources map[reflect.Type]any
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{
		nextID:    1,
		alive:     make(map[Entity]struct{}),
		stores:    make(map[reflect.Type]anyStore),
		resources: make(map[reflect.Type]any),
	}
}

// Spawn creates an entity carrying the given components.
//
// Parameters:
//   - components: values built with With
//
// Returns:
//   - Entity: the new entity
func (w *World) Spawn(components ...Component) Entity {
	e := w.nextID
	w.nextID++
	w.alive[e] = struct{}{}
	w.order = append(w.order, e)
	for _, c := range components {
		c.attach(w, e)
	}
	return e
}

// Add attaches additional components to an existing entity. Dead entities are ignored.
func (w *World) Add(e Entity, components ...Component) {
	if !w.Alive(e) {
		return
	}
	for _, c := range components {
		c.attach(w, e)
	}
}

// Destroy removes the entity and every component it carries. Change-tracked component
// types record the removal.
//
// Returns:
//   - bool: false if the entity was not alive
func (w *World) Destroy(e Entity) bool {
	if _, ok := w.alive[e]; !ok {
		return false
	}
	for _, s := range w.storeOrder {
		s.remove(e)
	}
	delete(w.alive, e)
	for i, other := range w.order {
		if other == e {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// Alive reports whether e exists.
func (w *World) Alive(e Entity) bool {
	_, ok := w.alive[e]
	return ok
}

// Entities returns a snapshot of all live entities in spawn order.
func (w *World) Entities() []Entity {
	out := make([]Entity, len(w.order))
	copy(out, w.order)
	return out
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.order)
}

// Clear destroys every entity and drops all resources. Entity ids keep increasing.
func (w *World) Clear() {
	for _, s := range w.storeOrder {
		s.clear()
	}
	w.alive = make(map[Entity]struct{})
	w.order = w.order[:0]
	w.resources = make(map[reflect.Type]any)
}

func storeFor[T any](w *World) *store[T] {
	key := reflect.TypeFor[T]()
	if s, ok := w.stores[key]; ok {
		return s.(*store[T])
	}
	s := newStore[T]()
	w.stores[key] = s
	w.storeOrder = append(w.storeOrder, s)
	return s
}

// Track enables change detection for component type T. Components inserted before the
// first call are not reported by Added.
func Track[T any](w *World) {
	storeFor[T](w).tracked = true
}

// Insert attaches v to e, overwriting an existing T in place so outstanding pointers stay valid.
//
// Returns:
//   - *T: the stored component, or nil if e is not alive
func Insert[T any](w *World, e Entity, v T) *T {
	if !w.Alive(e) {
		return nil
	}
	return storeFor[T](w).insert(e, v)
}

// Get returns the T component of e.
func Get[T any](w *World, e Entity) (*T, bool) {
	return storeFor[T](w).get(e)
}

// Has reports whether e carries a T component.
func Has[T any](w *World, e Entity) bool {
	return storeFor[T](w).has(e)
}

// Remove detaches the T component from e.
//
// Returns:
//   - bool: false if e did not carry T
func Remove[T any](w *World, e Entity) bool {
	return storeFor[T](w).remove(e)
}

// GetOrInsert returns the T component of e, attaching factory() first when missing.
//
// Parameters:
//   - w: the world
//   - e: the entity
//   - factory: builds the default value; nil means the zero value
//
// Returns:
//   - *T: the existing or newly inserted component, or nil if e is not alive
func GetOrInsert[T any](w *World, e Entity, factory func() T) *T {
	s := storeFor[T](w)
	if c, ok := s.get(e); ok {
		return c
	}
	var v T
	if factory != nil {
		v = factory()
	}
	return Insert(w, e, v)
}

// GetOrFail returns the T component of e or an error naming the entity and the component.
//
// Returns:
//   - *T: the component
//   - error: wraps ErrMissingComponent when e does not carry T
func GetOrFail[T any](w *World, e Entity) (*T, error) {
	if c, ok := storeFor[T](w).get(e); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: entity %d does not have component %s", ErrMissingComponent, e, typeName[T]())
}

// Query returns a snapshot of the entities carrying T, in insertion order.
func Query[T any](w *World) []Entity {
	return storeFor[T](w).snapshot()
}

// Count returns the number of entities carrying T.
func Count[T any](w *World) int {
	return len(storeFor[T](w).entities)
}

// Each calls fn for every entity carrying T in insertion order. fn may destroy entities;
// entities destroyed during the walk are skipped.
func Each[T any](w *World, fn func(e Entity, c *T)) {
	s := storeFor[T](w)
	for _, e := range s.snapshot() {
		if c, ok := s.get(e); ok {
			fn(e, c)
		}
	}
}

// Each2 calls fn for every entity carrying both A and B, in A's insertion order.
func Each2[A, B any](w *World, fn func(e Entity, a *A, b *B)) {
	sa, sb := storeFor[A](w), storeFor[B](w)
	for _, e := range sa.snapshot() {
		a, ok := sa.get(e)
		if !ok {
			continue
		}
		if b, ok := sb.get(e); ok {
			fn(e, a, b)
		}
	}
}

// First returns the first entity carrying T in insertion order. When several entities
// match, the oldest insertion wins.
func First[T any](w *World) (Entity, *T, bool) {
	s := storeFor[T](w)
	if len(s.entities) == 0 {
		return 0, nil, false
	}
	e := s.entities[0]
	return e, s.components[e], true
}

// Added drains the entities that gained a T component since the previous call. Tracking is
// enabled on first use.
func Added[T any](w *World) []Entity {
	s := storeFor[T](w)
	s.tracked = true
	return s.drainAdded()
}

// Removed drains the entities that lost their T component since the previous call,
// including destroyed entities. Tracking is enabled on first use.
func Removed[T any](w *World) []Entity {
	s := storeFor[T](w)
	s.tracked = true
	return s.drainRemoved()
}
