package game

import (
	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine"
	"github.com/Carmen-Shannon/wayfare/engine/input"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
)

// Control names read by the player system.
const (
	ControlMovement = "movement"
	ControlShoot    = "shoot"
)

// fallSpeed is the constant downward speed of a freshly spawned player.
const fallSpeed = 5

// DefaultControls binds movement to the arrow keys and WASD, and shoot to Space.
func DefaultControls() map[string]input.Control {
	return map[string]input.Control{
		ControlMovement: input.XY(input.ArrowKeysPreset, input.WASDPreset),
		ControlShoot:    input.Linear(common.KeySpace),
	}
}

// Players spawns the player and steers it from the input map.
type Players struct {
	w        *world.World
	controls *input.Map
}

// NewPlayers creates the player system.
//
// Parameters:
//   - w: the world
//   - controls: an input map defining ControlMovement and ControlShoot
//
// Returns:
//   - *Players: the player system
func NewPlayers(w *world.World, controls *input.Map) *Players {
	if w == nil || controls == nil {
		panic("game: NewPlayers requires a non-nil World and input Map")
	}
	return &Players{w: w, controls: controls}
}

// Init replaces any existing player with a fresh one at the origin.
//
// Returns:
//   - world.Entity: the new player
func (p *Players) Init() world.Entity {
	p.Cleanup()

	t := scene.DefaultTransform()
	t.Scale = common.Vec3{0.1, 0.1, 0.1}
	e := p.w.Spawn(
		world.With(Player{}),
		world.With(MapProgressMarker{}),
		world.With(WindListener{}),
		world.With(t),
		world.With(engine.Velocity{0, -fallSpeed, 0}),
	)
	spawnDudeBundle(p.w, e)
	return e
}

// Cleanup destroys every player.
func (p *Players) Cleanup() {
	for _, e := range world.Query[Player](p.w) {
		p.w.Destroy(e)
	}
}

// Update reads the controls. While the round is running the movement control sets the
// direction of every player's dude.
//
// Returns:
//   - bool: true when the round is over and shoot asks for a restart
func (p *Players) Update() bool {
	state := world.ResourceOrInsert[GameState](p.w, nil)
	if state.IsGameOver {
		return p.controls.Linear(ControlShoot).IsActive
	}

	mv := p.controls.XY(ControlMovement)
	dir := common.Vec3{mv[0], 0, -mv[1]}
	if dir.Len() > 1 {
		dir = dir.Normalize()
	}
	world.Each2(p.w, func(_ world.Entity, _ *Player, d *Dude) {
		d.MovementDir = dir
	})
	return false
}
