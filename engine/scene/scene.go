// Package scene maintains the transform graph: explicit parent/child adjacency over world
// entities and the per-frame top-down derivation of world matrices.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/wayfare/engine/world"
)

// DefaultMaxDepth bounds the parent chain length walked by Update.
const DefaultMaxDepth = 64

var (
	// ErrDepthExceeded is returned by Update when a parent chain is deeper than the configured cap.
	ErrDepthExceeded = errors.New("transform graph depth exceeded")

	// ErrCycle is returned by Attach when the relation would make an entity its own ancestor.
	ErrCycle = errors.New("transform graph cycle")
)

// graph is the implementation of Graph.
type graph struct {
	w        *world.World
	maxDepth int

	parents  map[world.Entity]world.Entity
	children map[world.Entity][]world.Entity

	// roots holds transform-bearing entities without a parent, in the order they became roots.
	roots   []world.Entity
	rootSet map[world.Entity]struct{}
}

// Graph is the transform graph of a World. Each child has at most one parent; attaching an
// already parented child moves it. Roots are maintained incrementally from Transform
// lifecycle events and attach/detach calls.
type Graph interface {
	// Attach makes child a child of parent, detaching it from any previous parent first.
	//
	// Parameters:
	//   - parent: the new parent entity
	//   - child: the entity to attach
	//
	// Returns:
	//   - error: ErrCycle if parent is child or a descendant of child, or an error wrapping
	//     world.ErrMissingComponent if parent has no Transform
	Attach(parent, child world.Entity) error

	// Detach removes child from its parent. A detached entity with a Transform becomes a root.
	//
	// Parameters:
	//   - child: the entity to detach
	Detach(child world.Entity)

	// Parent returns the parent of child, if any.
	Parent(child world.Entity) (world.Entity, bool)

	// Children returns a snapshot of the direct children of parent in attach order.
	Children(parent world.Entity) []world.Entity

	// Roots returns a snapshot of the current root list after applying pending Transform
	// lifecycle events.
	Roots() []world.Entity

	// Forget drops every relation of e. Its children become roots.
	Forget(e world.Entity)

	// DestroyRecursive destroys e and all of its descendants.
	//
	// Returns:
	//   - int: the number of destroyed entities
	DestroyRecursive(e world.Entity) int

	// Update recomputes Matrices for every transform-bearing entity, parents before
	// children. Missing Matrices components are inserted with identity defaults.
	//
	// Returns:
	//   - error: wraps ErrDepthExceeded when a chain is deeper than the cap
	Update() error
}

var _ Graph = &graph{}

// NewGraph creates a Graph bound to w and enables Transform change tracking on it.
// The graph must be created before transforms are spawned so every root is observed.
//
// Parameters:
//   - w: the world owning the entities
//   - options: builder options
//
// Returns:
//   - Graph: the transform graph
func NewGraph(w *world.World, options ...GraphBuilderOption) Graph {
	if w == nil {
		panic("scene: NewGraph requires a non-nil World")
	}
	g := &graph{
		w:        w,
		maxDepth: DefaultMaxDepth,
		parents:  make(map[world.Entity]world.Entity),
		children: make(map[world.Entity][]world.Entity),
		rootSet:  make(map[world.Entity]struct{}),
	}
	for _, opt := range options {
		opt(g)
	}
	world.Track[Transform](w)
	return g
}

func (g *graph) Attach(parent, child world.Entity) error {
	if parent == child {
		return fmt.Errorf("%w: entity %d cannot parent itself", ErrCycle, child)
	}
	for p, ok := g.parents[parent]; ok; p, ok = g.parents[p] {
		if p == child {
			return fmt.Errorf("%w: entity %d is an ancestor of %d", ErrCycle, child, parent)
		}
	}
	if _, err := world.GetOrFail[Transform](g.w, parent); err != nil {
		return err
	}

	g.unlink(child)
	g.parents[child] = parent
	g.children[parent] = append(g.children[parent], child)
	g.removeRoot(child)
	return nil
}

func (g *graph) Detach(child world.Entity) {
	if !g.unlink(child) {
		return
	}
	if world.Has[Transform](g.w, child) {
		g.addRoot(child)
	}
}

func (g *graph) Parent(child world.Entity) (world.Entity, bool) {
	p, ok := g.parents[child]
	return p, ok
}

func (g *graph) Children(parent world.Entity) []world.Entity {
	return slices.Clone(g.children[parent])
}

func (g *graph) Roots() []world.Entity {
	g.sync()
	return slices.Clone(g.roots)
}

func (g *graph) Forget(e world.Entity) {
	g.unlink(e)
	g.removeRoot(e)
	for _, c := range g.children[e] {
		delete(g.parents, c)
		if world.Has[Transform](g.w, c) {
			g.addRoot(c)
		}
	}
	delete(g.children, e)
}

func (g *graph) DestroyRecursive(e world.Entity) int {
	destroyed := 0
	for _, c := range g.Children(e) {
		destroyed += g.DestroyRecursive(c)
	}
	g.Forget(e)
	if g.w.Destroy(e) {
		destroyed++
	}
	return destroyed
}

func (g *graph) Update() error {
	g.sync()
	for _, root := range g.roots {
		if err := g.updateEntity(root, nil, 0); err != nil {
			return err
		}
	}
	return nil
}

func (g *graph) updateEntity(e world.Entity, parentWorld *Matrices, depth int) error {
	if depth > g.maxDepth {
		return fmt.Errorf("%w: entity %d is nested deeper than %d", ErrDepthExceeded, e, g.maxDepth)
	}

	t, ok := world.Get[Transform](g.w, e)
	if !ok {
		return nil
	}
	m := world.GetOrInsert(g.w, e, NewMatrices)
	m.Local = t.LocalMatrix()
	if parentWorld != nil {
		m.World = parentWorld.World.Mul(m.Local)
	} else {
		m.World = m.Local
	}

	for _, c := range g.children[e] {
		if err := g.updateEntity(c, m, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// sync applies Transform lifecycle events to the root list.
func (g *graph) sync() {
	for _, e := range world.Removed[Transform](g.w) {
		if !g.w.Alive(e) {
			g.Forget(e)
			continue
		}
		g.removeRoot(e)
	}
	for _, e := range world.Added[Transform](g.w) {
		if _, parented := g.parents[e]; !parented {
			g.addRoot(e)
		}
	}
}

// unlink removes the child -> parent edge, reporting whether one existed.
func (g *graph) unlink(child world.Entity) bool {
	parent, ok := g.parents[child]
	if !ok {
		return false
	}
	delete(g.parents, child)
	siblings := g.children[parent]
	if i := slices.Index(siblings, child); i >= 0 {
		g.children[parent] = slices.Delete(siblings, i, i+1)
	}
	if len(g.children[parent]) == 0 {
		delete(g.children, parent)
	}
	return true
}

func (g *graph) addRoot(e world.Entity) {
	if _, ok := g.rootSet[e]; ok {
		return
	}
	g.rootSet[e] = struct{}{}
	g.roots = append(g.roots, e)
}

func (g *graph) removeRoot(e world.Entity) {
	if _, ok := g.rootSet[e]; !ok {
		return
	}
	delete(g.rootSet, e)
	if i := slices.Index(g.roots, e); i >= 0 {
		g.roots = slices.Delete(g.roots, i, i+1)
	}
}
