package game

import (
	"math"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine"
	"github.com/Carmen-Shannon/wayfare/engine/config"
	"github.com/Carmen-Shannon/wayfare/engine/logger"
	"github.com/Carmen-Shannon/wayfare/engine/mesh"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// firstChunkY is where the chain starts when no chunk exists yet.
const firstChunkY = -10

// missDistanceSq is the squared horizontal distance past which crossing a chunk is a miss.
const missDistanceSq = 1.5

var (
	passedAlbedo  = common.Vec3{1, 1, 0}
	pendingAlbedo = common.Vec3{1, 0.5, 0}
)

// MapSettings is the world resource controlling chunk streaming.
type MapSettings struct {
	// FarDistance is how far below the marker the chain is extended.
	FarDistance float32
	// DespawnThreshold is how far above the marker a chunk's trailing edge may be before it is evicted.
	DespawnThreshold float32
	// GenerationCap bounds the chunks appended in one update.
	GenerationCap int
	// MinChunkLength and MaxChunkLength bound the random chunk length.
	MinChunkLength float32
	MaxChunkLength float32
	// Jitter bounds the random horizontal offset between consecutive chunks.
	Jitter float32
}

// DefaultMapSettings returns the settings the game ships with.
func DefaultMapSettings() MapSettings {
	return MapSettings{
		FarDistance:      100,
		DespawnThreshold: 100,
		GenerationCap:    10,
		MinChunkLength:   1,
		MaxChunkLength:   6,
		Jitter:           0.4,
	}
}

// MapSettingsFromConfig converts the map section of the configuration. Invalid values keep
// their defaults.
func MapSettingsFromConfig(c config.MapConfig) MapSettings {
	s := DefaultMapSettings()
	if c.FarDistance > 0 {
		s.FarDistance = c.FarDistance
	}
	if c.DespawnThreshold > 0 {
		s.DespawnThreshold = c.DespawnThreshold
	}
	if c.GenerationCap > 0 {
		s.GenerationCap = c.GenerationCap
	}
	if c.MinChunkLength > 0 && c.MaxChunkLength >= c.MinChunkLength {
		s.MinChunkLength = c.MinChunkLength
		s.MaxChunkLength = c.MaxChunkLength
	}
	if c.Jitter >= 0 {
		s.Jitter = c.Jitter
	}
	return s
}

// MapChunk is one platform of the chain the player falls past.
type MapChunk struct {
	Length float32
	Passed bool
}

// MapProgressMarker tags the entity whose position drives streaming, usually the player.
type MapProgressMarker struct{}

// WindListener tags the entity the wind is heard from.
type WindListener struct{}

// Map streams chunks below the progress marker and evicts them once they are far above it.
type Map struct {
	w     *world.World
	rng   *rand.Rand
	chunk mesh.Asset

	// tail is the chunk at the generation frontier.
	tail    world.Entity
	hasTail bool
}

// NewMap creates a Map streaming into w. Settings are read from the MapSettings resource,
// inserted with defaults when missing.
//
// Parameters:
//   - w: the world
//   - rng: the random source for chunk placement
//   - chunk: the mesh of every chunk
//
// Returns:
//   - *Map: the map
func NewMap(w *world.World, rng *rand.Rand, chunk mesh.Asset) *Map {
	if w == nil || rng == nil || chunk == nil {
		panic("game: NewMap requires a non-nil World, rand source and chunk mesh")
	}
	return &Map{w: w, rng: rng, chunk: chunk}
}

// Tail returns the chunk at the generation frontier.
func (m *Map) Tail() (world.Entity, bool) {
	if m.hasTail && !m.w.Alive(m.tail) {
		m.hasTail = false
	}
	return m.tail, m.hasTail
}

// Update runs one streaming step: eviction and pass detection, highlighting, then
// generation. It does nothing until a progress marker with a transform exists.
func (m *Map) Update() {
	settings := world.ResourceOrInsert(m.w, DefaultMapSettings)

	markerID, _, ok := world.First[MapProgressMarker](m.w)
	if !ok {
		return
	}
	markerT, ok := world.Get[scene.Transform](m.w, markerID)
	if !ok {
		return
	}
	marker := markerT.Position
	tail, hasTail := m.Tail()

	world.Each2(m.w, func(e world.Entity, chunk *MapChunk, t *scene.Transform) {
		if hasTail && e == tail {
			return
		}
		if !chunk.Passed && marker[1] <= t.Position[1] {
			chunk.Passed = true
			dx, dz := t.Position[0]-marker[0], t.Position[2]-marker[2]
			if dx*dx+dz*dz > missDistanceSq {
				state := world.ResourceOrInsert[GameState](m.w, nil)
				if !state.IsGameOver {
					logger.Info("game over", zap.Float32("y", marker[1]))
				}
				state.IsGameOver = true
			}
		}
		// A chunk evicted in this update still counts as passed or missed.
		if t.Position[1]-chunk.Length > marker[1]+settings.DespawnThreshold {
			m.w.Destroy(e)
		}
	})

	world.Each2(m.w, func(_ world.Entity, chunk *MapChunk, params *material.BlinnPhongParams) {
		if chunk.Passed {
			params.Albedo = passedAlbedo
		} else {
			params.Albedo = pendingAlbedo
		}
	})

	for range max(settings.GenerationCap, 0) {
		if !m.extend(settings, marker) {
			break
		}
	}
}

// extend appends one chunk below the tail when the tail is missing or not yet far enough
// ahead of the marker.
//
// Returns:
//   - bool: true if a chunk was appended
func (m *Map) extend(settings *MapSettings, marker common.Vec3) bool {
	tail, hasTail := m.Tail()
	var tailPos common.Vec3
	var tailLength float32
	if hasTail {
		t, ok := world.Get[scene.Transform](m.w, tail)
		c, okChunk := world.Get[MapChunk](m.w, tail)
		if ok && okChunk {
			tailPos, tailLength = t.Position, c.Length
		} else {
			hasTail = false
		}
	}
	if hasTail && tailPos[1] <= marker[1]-settings.FarDistance {
		return false
	}
	if !hasTail {
		tailPos = common.Vec3{0, firstChunkY, 0}
		tailLength = 0
	}

	t := scene.DefaultTransform()
	t.Position = common.Vec3{
		tailPos[0] + m.signed()*settings.Jitter,
		tailPos[1] - tailLength,
		tailPos[2] + m.signed()*settings.Jitter,
	}
	t.Rotation = common.QuatFromEuler(0, m.rng.Float32()*math.Pi, 0)
	length := settings.MinChunkLength + m.rng.Float32()*(settings.MaxChunkLength-settings.MinChunkLength)

	e := m.w.Spawn(
		world.With(MapChunk{Length: length}),
		world.With(t),
		world.With(engine.Mesh{Asset: m.chunk}),
	)
	engine.WithMaterial(m.w, e, material.BlinnPhong(), material.BlinnPhongParams{Albedo: pendingAlbedo})

	m.tail, m.hasTail = e, true
	return true
}

// signed returns a uniform value in [-1, 1).
func (m *Map) signed() float32 {
	return m.rng.Float32()*2 - 1
}

// Clear destroys every chunk and forgets the tail.
func (m *Map) Clear() {
	for _, e := range world.Query[MapChunk](m.w) {
		m.w.Destroy(e)
	}
	m.hasTail = false
}
