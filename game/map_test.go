package game

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/config"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
	"golang.org/x/exp/rand"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func newMapWorld(t *testing.T, markerY float32) (*world.World, *Map, world.Entity) {
	t.Helper()
	w := world.NewWorld()
	tr := scene.DefaultTransform()
	tr.Position = common.Vec3{0, markerY, 0}
	marker := w.Spawn(world.With(MapProgressMarker{}), world.With(tr))
	return w, NewMap(w, rand.New(rand.NewSource(7)), chunkMesh), marker
}

func moveTo(w *world.World, e world.Entity, y float32) {
	t, _ := world.Get[scene.Transform](w, e)
	t.Position[1] = y
}

func TestMapWaitsForMarker(t *testing.T) {
	w := world.NewWorld()
	m := NewMap(w, rand.New(rand.NewSource(1)), chunkMesh)
	m.Update()

	if n := world.Count[MapChunk](w); n != 0 {
		t.Errorf("Expected no chunks without a progress marker, got %d", n)
	}
	if _, ok := world.Resource[MapSettings](w); !ok {
		t.Error("Expected default map settings to be inserted")
	}
}

func TestMapGenerationCap(t *testing.T) {
	w, m, _ := newMapWorld(t, 0)

	m.Update()
	if n := world.Count[MapChunk](w); n != 10 {
		t.Fatalf("Expected 10 chunks after the first update, got %d", n)
	}

	prev := 10
	for range 20 {
		m.Update()
		n := world.Count[MapChunk](w)
		if n-prev > 10 {
			t.Fatalf("Expected at most 10 new chunks per update, got %d", n-prev)
		}
		prev = n
	}

	tail, ok := m.Tail()
	if !ok {
		t.Fatal("Expected a tail chunk")
	}
	tt, _ := world.Get[scene.Transform](w, tail)
	if tt.Position[1] > -100 {
		t.Errorf("Expected the tail at or below -100, got %f", tt.Position[1])
	}
}

func TestMapChainIsContiguous(t *testing.T) {
	w, m, _ := newMapWorld(t, 0)
	m.Update()

	chunks := world.Query[MapChunk](w)
	first, _ := world.Get[scene.Transform](w, chunks[0])
	if first.Position[1] != firstChunkY {
		t.Errorf("Expected the first chunk at y %d, got %f", firstChunkY, first.Position[1])
	}

	for i := 1; i < len(chunks); i++ {
		pt, _ := world.Get[scene.Transform](w, chunks[i-1])
		pc, _ := world.Get[MapChunk](w, chunks[i-1])
		ct, _ := world.Get[scene.Transform](w, chunks[i])
		c, _ := world.Get[MapChunk](w, chunks[i])

		if !approx(ct.Position[1], pt.Position[1]-pc.Length) {
			t.Errorf("Expected chunk %d at y %f, got %f", i, pt.Position[1]-pc.Length, ct.Position[1])
		}
		if dx := ct.Position[0] - pt.Position[0]; dx < -0.4 || dx > 0.4 {
			t.Errorf("Expected x jitter within 0.4, got %f", dx)
		}
		if dz := ct.Position[2] - pt.Position[2]; dz < -0.4 || dz > 0.4 {
			t.Errorf("Expected z jitter within 0.4, got %f", dz)
		}
		if c.Length < 1 || c.Length >= 6 {
			t.Errorf("Expected a length in [1, 6), got %f", c.Length)
		}
		if c.Passed {
			t.Errorf("Expected chunk %d below the marker not to be passed", i)
		}
	}
}

func TestMapEvictionRoundTrip(t *testing.T) {
	w, m, marker := newMapWorld(t, 0)
	for range 20 {
		m.Update()
	}

	moveTo(w, marker, -150)
	for range 20 {
		m.Update()
	}

	tail, _ := m.Tail()
	for _, e := range world.Query[MapChunk](w) {
		if e == tail {
			continue
		}
		tr, _ := world.Get[scene.Transform](w, e)
		c, _ := world.Get[MapChunk](w, e)
		if top := tr.Position[1] - c.Length; top > -50 {
			t.Errorf("Expected chunk %d with trailing edge %f to be evicted", e, top)
		}
	}

	tt, _ := world.Get[scene.Transform](w, tail)
	if tt.Position[1] > -250 {
		t.Errorf("Expected the chain to reach -250, tail at %f", tt.Position[1])
	}
}

func TestMapEvictionThreshold(t *testing.T) {
	w, m, _ := newMapWorld(t, -50)
	world.SetResource(w, MapSettings{FarDistance: 100, DespawnThreshold: 100})

	far := scene.DefaultTransform()
	far.Position = common.Vec3{0, 60, 0}
	evicted := w.Spawn(world.With(MapChunk{Length: 1}), world.With(far))

	near := scene.DefaultTransform()
	near.Position = common.Vec3{0, 50.5, 0}
	kept := w.Spawn(world.With(MapChunk{Length: 1}), world.With(near))

	m.Update()

	if w.Alive(evicted) {
		t.Error("Expected the chunk whose trailing edge is past the threshold to be evicted")
	}
	if !w.Alive(kept) {
		t.Error("Expected the chunk within the threshold to be kept")
	}
	if world.Count[MapChunk](w) != 1 {
		t.Errorf("Expected no generation with a zero cap, got %d chunks", world.Count[MapChunk](w))
	}
}

func TestMapPassAndMiss(t *testing.T) {
	tests := []struct {
		name     string
		x, z     float32
		gameOver bool
	}{
		{"centred", 0.5, 0.5, false},
		{"edge", 1, 0.5, false},
		{"missed", 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, m, _ := newMapWorld(t, -1.5)
			world.SetResource(w, MapSettings{FarDistance: 100, DespawnThreshold: 100})

			tr := scene.DefaultTransform()
			tr.Position = common.Vec3{tt.x, -1, tt.z}
			e := w.Spawn(world.With(MapChunk{Length: 1}), world.With(tr),
				world.With(material.BlinnPhongParams{Albedo: pendingAlbedo}))

			m.Update()

			c, _ := world.Get[MapChunk](w, e)
			if !c.Passed {
				t.Error("Expected the chunk above the marker to be passed")
			}
			p, _ := world.Get[material.BlinnPhongParams](w, e)
			if p.Albedo != passedAlbedo {
				t.Errorf("Expected passed albedo %v, got %v", passedAlbedo, p.Albedo)
			}
			state := world.ResourceOrInsert[GameState](w, nil)
			if state.IsGameOver != tt.gameOver {
				t.Errorf("Expected game over %v, got %v", tt.gameOver, state.IsGameOver)
			}
		})
	}
}

func TestMapMissOnEvictedChunk(t *testing.T) {
	w, m, marker := newMapWorld(t, 0)
	m.Update()
	tail, _ := m.Tail()
	before := world.Query[MapChunk](w)

	tr, _ := world.Get[scene.Transform](w, marker)
	tr.Position = common.Vec3{50, -400, 0}
	m.Update()

	for _, e := range before {
		if e != tail && w.Alive(e) {
			t.Errorf("Expected chunk %d to be evicted", e)
		}
	}
	state, ok := world.Resource[GameState](w)
	if !ok || !state.IsGameOver {
		t.Error("Expected chunks missed and evicted in the same update to end the game")
	}
}

func TestMapPendingAlbedo(t *testing.T) {
	w, m, _ := newMapWorld(t, 0)
	m.Update()

	world.Each2(w, func(_ world.Entity, _ *MapChunk, p *material.BlinnPhongParams) {
		if p.Albedo != pendingAlbedo {
			t.Errorf("Expected pending albedo %v, got %v", pendingAlbedo, p.Albedo)
		}
	})
}

func TestMapClear(t *testing.T) {
	w, m, _ := newMapWorld(t, 0)
	m.Update()
	m.Clear()

	if n := world.Count[MapChunk](w); n != 0 {
		t.Errorf("Expected no chunks after Clear, got %d", n)
	}
	if _, ok := m.Tail(); ok {
		t.Error("Expected no tail after Clear")
	}

	m.Update()
	first, _ := world.Get[scene.Transform](w, world.Query[MapChunk](w)[0])
	if first.Position[1] != firstChunkY {
		t.Errorf("Expected the chain to restart at %d, got %f", firstChunkY, first.Position[1])
	}
}

func TestMapSettingsFromConfig(t *testing.T) {
	c := config.MapConfig{FarDistance: 50, DespawnThreshold: -1, GenerationCap: 3, MinChunkLength: 4, MaxChunkLength: 2, Jitter: 0}
	s := MapSettingsFromConfig(c)

	if s.FarDistance != 50 {
		t.Errorf("Expected far distance 50, got %f", s.FarDistance)
	}
	if s.DespawnThreshold != 100 {
		t.Errorf("Expected the invalid threshold to keep 100, got %f", s.DespawnThreshold)
	}
	if s.GenerationCap != 3 {
		t.Errorf("Expected generation cap 3, got %d", s.GenerationCap)
	}
	if s.MinChunkLength != 1 || s.MaxChunkLength != 6 {
		t.Errorf("Expected an inverted length range to keep [1, 6], got [%f, %f]", s.MinChunkLength, s.MaxChunkLength)
	}
	if s.Jitter != 0 {
		t.Errorf("Expected jitter 0, got %f", s.Jitter)
	}
}
