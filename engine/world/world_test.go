package world

import (
	"errors"
	"strings"
	"testing"
)

type position struct{ X, Y float32 }

type velocity struct{ DX, DY float32 }

type marker struct{}

type gameState struct{ Over bool }

func TestSpawnAndGet(t *testing.T) {
	w := NewWorld()
	e := w.Spawn(With(position{1, 2}), With(marker{}))

	p, ok := Get[position](w, e)
	if !ok {
		t.Fatalf("Expected entity to have position")
	}
	if p.X != 1 || p.Y != 2 {
		t.Errorf("Expected (1, 2), got (%v, %v)", p.X, p.Y)
	}
	if !Has[marker](w, e) {
		t.Errorf("Expected entity to have marker tag")
	}
	if Has[velocity](w, e) {
		t.Errorf("Expected entity not to have velocity")
	}
}

func TestEntityIDsAreNotReused(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	w.Destroy(a)
	b := w.Spawn()
	if a == b {
		t.Errorf("Expected fresh id after destroy, got %d twice", a)
	}
	if w.Alive(a) {
		t.Errorf("Expected destroyed entity to be dead")
	}
}

func TestInsertKeepsPointerStable(t *testing.T) {
	w := NewWorld()
	e := w.Spawn(With(position{}))
	p, _ := Get[position](w, e)
	Insert(w, e, position{X: 5})
	if p.X != 5 {
		t.Errorf("Expected overwrite in place, got %v", p.X)
	}
}

func TestGetOrInsertAndGetOrFail(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	if _, err := GetOrFail[position](w, e); !errors.Is(err, ErrMissingComponent) {
		t.Fatalf("Expected ErrMissingComponent, got %v", err)
	} else if !strings.Contains(err.Error(), "world.position") {
		t.Errorf("Expected error to name the component, got %q", err.Error())
	}

	p := GetOrInsert(w, e, func() position { return position{X: 3} })
	if p.X != 3 {
		t.Errorf("Expected default from factory, got %v", p.X)
	}
	again := GetOrInsert(w, e, func() position { return position{X: 9} })
	if again != p {
		t.Errorf("Expected existing component to be returned")
	}

	got, err := GetOrFail[position](w, e)
	if err != nil || got != p {
		t.Errorf("Expected fetch to succeed after insert, got %v %v", got, err)
	}
}

func TestQueryKeepsInsertionOrder(t *testing.T) {
	w := NewWorld()
	a := w.Spawn(With(marker{}))
	b := w.Spawn(With(marker{}))
	c := w.Spawn(With(marker{}))
	w.Destroy(b)

	got := Query[marker](w)
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("Expected [%d %d], got %v", a, c, got)
	}

	first, _, ok := First[marker](w)
	if !ok || first != a {
		t.Errorf("Expected first match %d, got %d", a, first)
	}
}

func TestEach2(t *testing.T) {
	w := NewWorld()
	w.Spawn(With(position{}), With(velocity{1, 1}))
	w.Spawn(With(position{}))
	w.Spawn(With(velocity{2, 2}))

	count := 0
	Each2(w, func(e Entity, p *position, v *velocity) {
		p.X += v.DX
		count++
	})
	if count != 1 {
		t.Errorf("Expected 1 match, got %d", count)
	}
}

func TestEachAllowsDestroy(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 5; i++ {
		w.Spawn(With(marker{}))
	}
	Each(w, func(e Entity, _ *marker) {
		w.Destroy(e)
	})
	if Count[marker](w) != 0 {
		t.Errorf("Expected all entities destroyed, got %d", Count[marker](w))
	}
}

func TestChangeTracking(t *testing.T) {
	w := NewWorld()
	Track[position](w)

	a := w.Spawn(With(position{}))
	b := w.Spawn(With(position{}))

	added := Added[position](w)
	if len(added) != 2 || added[0] != a || added[1] != b {
		t.Errorf("Expected [%d %d] added, got %v", a, b, added)
	}
	if again := Added[position](w); len(again) != 0 {
		t.Errorf("Expected drained events, got %v", again)
	}

	Remove[position](w, a)
	w.Destroy(b)
	removed := Removed[position](w)
	if len(removed) != 2 {
		t.Errorf("Expected 2 removals, got %v", removed)
	}
}

func TestChangeTrackingSkipsTransientEvents(t *testing.T) {
	w := NewWorld()
	Track[position](w)

	e := w.Spawn(With(position{}))
	w.Destroy(e)
	if added := Added[position](w); len(added) != 0 {
		t.Errorf("Expected no added event for an entity destroyed before the drain, got %v", added)
	}

	f := w.Spawn(With(position{}))
	Added[position](w)
	Removed[position](w)
	Remove[position](w, f)
	Insert(w, f, position{})
	if removed := Removed[position](w); len(removed) != 0 {
		t.Errorf("Expected re-added component not to be reported removed, got %v", removed)
	}
	if added := Added[position](w); len(added) != 1 {
		t.Errorf("Expected re-added component to be reported added, got %v", added)
	}
}

func TestResources(t *testing.T) {
	w := NewWorld()
	if _, err := ResourceOrFail[gameState](w); !errors.Is(err, ErrMissingComponent) {
		t.Errorf("Expected ErrMissingComponent, got %v", err)
	}

	s := ResourceOrInsert[gameState](w, nil)
	if s.Over {
		t.Errorf("Expected zero value resource")
	}
	SetResource(w, gameState{Over: true})
	if !s.Over {
		t.Errorf("Expected SetResource to update in place")
	}

	w.Clear()
	if _, ok := Resource[gameState](w); ok {
		t.Errorf("Expected Clear to drop resources")
	}
}

func TestInsertOnDeadEntity(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	w.Destroy(e)
	if p := Insert(w, e, position{}); p != nil {
		t.Errorf("Expected nil for dead entity")
	}
}
