package world

import (
	"fmt"
	"reflect"
)

// SetResource stores v as the world's singleton of type T, replacing any previous value in place.
//
// Returns:
//   - *T: the stored resource
func SetResource[T any](w *World, v T) *T {
	key := reflect.TypeFor[T]()
	if r, ok := w.resources[key]; ok {
		p := r.(*T)
		*p = v
		return p
	}
	p := new(T)
	*p = v
	w.resources[key] = p
	return p
}

// Resource returns the singleton of type T.
func Resource[T any](w *World) (*T, bool) {
	r, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

// ResourceOrInsert returns the singleton of type T, storing factory() first when missing.
// A nil factory stores the zero value.
func ResourceOrInsert[T any](w *World, factory func() T) *T {
	if r, ok := Resource[T](w); ok {
		return r
	}
	var v T
	if factory != nil {
		v = factory()
	}
	return SetResource(w, v)
}

// ResourceOrFail returns the singleton of type T or an error wrapping ErrMissingComponent.
func ResourceOrFail[T any](w *World) (*T, error) {
	if r, ok := Resource[T](w); ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: world does not have resource %s", ErrMissingComponent, typeName[T]())
}

// RemoveResource drops the singleton of type T.
func RemoveResource[T any](w *World) {
	delete(w.resources, reflect.TypeFor[T]())
}
