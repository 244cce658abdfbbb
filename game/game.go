// Package game is bionic jolt: a player falls through a chain of chunks streamed below it
// and loses the round when it misses one.
package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine"
	"github.com/Carmen-Shannon/wayfare/engine/audio"
	"github.com/Carmen-Shannon/wayfare/engine/camera"
	"github.com/Carmen-Shannon/wayfare/engine/config"
	"github.com/Carmen-Shannon/wayfare/engine/input"
	"github.com/Carmen-Shannon/wayfare/engine/logger"
	"github.com/Carmen-Shannon/wayfare/engine/mesh"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// Chunk geometry: a pentagon prism slightly wider than the miss radius.
const (
	chunkRadius = 0.6
	chunkHeight = 0.1
)

var chunkMesh = mesh.NewAsset(
	mesh.WithLabel("map-chunk"),
	mesh.WithData(mesh.PentagonPrism(chunkRadius, chunkHeight)),
)

// Game wires the gameplay systems into an engine.
type Game struct {
	engine engine.Engine
	w      *world.World

	seed     uint64
	rng      *rand.Rand
	input    input.Service
	audio    audio.Service
	controls map[string]input.Control
	follow   camera.FollowController
	settings MapSettings

	players *Players
	gameMap *Map
	wind    *Wind

	mu      sync.Mutex
	pending *MapSettings

	started bool
}

// New creates the game on top of e. Nothing is spawned until Start.
//
// Parameters:
//   - e: the engine whose world the game populates
//   - options: builder options, e.g. WithInput or WithSeed
//
// Returns:
//   - *Game: the game
func New(e engine.Engine, options ...GameBuilderOption) *Game {
	if e == nil {
		panic("game: New requires a non-nil Engine")
	}
	g := &Game{
		engine:   e,
		w:        e.World(),
		seed:     uint64(time.Now().UnixNano()),
		controls: DefaultControls(),
		settings: DefaultMapSettings(),
	}
	for _, opt := range options {
		opt(g)
	}
	if g.input == nil {
		g.input = input.NewService()
	}
	if g.audio == nil {
		g.audio = audio.NewService(audio.WithHeadless(true), audio.WithSeed(g.seed))
	}
	if g.follow == nil {
		g.follow = camera.NewFollowController()
	}

	g.rng = rand.New(rand.NewSource(g.seed))
	g.players = NewPlayers(g.w, input.NewMap(g.input, g.controls))
	g.gameMap = NewMap(g.w, g.rng, chunkMesh)
	g.wind = NewWind(g.w, g.audio)
	return g
}

// Start spawns the camera, the air particles and the first player. Calling Start twice is
// a no-op.
//
// Returns:
//   - error: error if the particle buffers cannot be created
func (g *Game) Start() error {
	if g.started {
		return nil
	}
	world.SetResource(g.w, GameState{})
	world.SetResource(g.w, g.settings)

	SpawnCamera(g.w)
	if _, err := SpawnAirParticles(g.w, g.engine.Renderer().Device(), g.rng); err != nil {
		return fmt.Errorf("game: start: %w", err)
	}
	g.players.Init()

	g.started = true
	logger.Info("game started", zap.Uint64("seed", g.seed))
	return nil
}

// Update runs one frame of gameplay. It is the engine's frame callback.
//
// Parameters:
//   - deltaSeconds: the frame time
//
// Returns:
//   - error: always nil; the signature matches engine.FrameFunc
func (g *Game) Update(deltaSeconds float32) error {
	g.applyPending()

	updateDudeVelocities(g.w, deltaSeconds)
	animateDudes(g.w, deltaSeconds)
	if g.players.Update() {
		g.Restart()
	}
	g.gameMap.Update()
	g.wind.Update()
	updateAirParticles(g.w, deltaSeconds)
	followPlayer(g.w, g.follow, deltaSeconds)
	return nil
}

// Restart clears the game over flag, drops every chunk and respawns the player.
func (g *Game) Restart() {
	world.ResourceOrInsert[GameState](g.w, nil).IsGameOver = false
	g.gameMap.Clear()
	g.players.Init()
	logger.Info("round restarted")
}

// ApplyConfig queues the map settings of cfg for the next frame. It may be called from any
// goroutine, e.g. a config file watcher.
//
// Parameters:
//   - cfg: the new configuration
func (g *Game) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s := MapSettingsFromConfig(cfg.Map)
	g.mu.Lock()
	g.pending = &s
	g.mu.Unlock()
}

func (g *Game) applyPending() {
	g.mu.Lock()
	pending := g.pending
	g.pending = nil
	g.mu.Unlock()
	if pending == nil {
		return
	}
	g.settings = *pending
	world.SetResource(g.w, g.settings)
	logger.Debug("map settings applied",
		zap.Float32("farDistance", g.settings.FarDistance),
		zap.Float32("despawnThreshold", g.settings.DespawnThreshold),
		zap.Int("generationCap", g.settings.GenerationCap))
}

// State returns the current round state.
func (g *Game) State() GameState {
	return *world.ResourceOrInsert[GameState](g.w, nil)
}

// Map returns the chunk streamer.
func (g *Game) Map() *Map {
	return g.gameMap
}

// Input returns the input service the controls read from.
func (g *Game) Input() input.Service {
	return g.input
}

// Audio returns the audio service the wind plays on.
func (g *Game) Audio() audio.Service {
	return g.audio
}

// Close takes the wind out of the mix and releases held keys.
func (g *Game) Close() {
	g.wind.Close()
	g.input.Reset()
}

// PlayerPosition returns the first player's position.
func (g *Game) PlayerPosition() (common.Vec3, bool) {
	id, _, ok := world.First[Player](g.w)
	if !ok {
		return common.Vec3{}, false
	}
	t, ok := world.Get[scene.Transform](g.w, id)
	if !ok {
		return common.Vec3{}, false
	}
	return t.Position, true
}
