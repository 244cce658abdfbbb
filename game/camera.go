package game

import (
	"math"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/camera"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
)

// GameCamera tags the camera that follows the player.
type GameCamera struct{}

var skyColor = common.Color{R: 0.1, G: 0.6, B: 1, A: 1}

// SpawnCamera spawns the active game camera looking straight down.
//
// Parameters:
//   - w: the world
//
// Returns:
//   - world.Entity: the camera
func SpawnCamera(w *world.World) world.Entity {
	t := scene.DefaultTransform()
	t.Rotation = common.QuatFromEuler(-math.Pi/2, 0, 0)
	return w.Spawn(
		world.With(GameCamera{}),
		world.With(camera.ActiveCamera{}),
		world.With(camera.Camera{Config: camera.NewPerspective(
			camera.WithFOV(120),
			camera.WithClearColor(skyColor),
		)}),
		world.With(t),
	)
}

// followPlayer moves every game camera after the first player.
func followPlayer(w *world.World, fc camera.FollowController, dt float32) {
	id, _, ok := world.First[Player](w)
	if !ok {
		return
	}
	target, ok := world.Get[scene.Transform](w, id)
	if !ok {
		return
	}
	world.Each2(w, func(_ world.Entity, _ *GameCamera, t *scene.Transform) {
		fc.Update(t, target.Position, dt)
	})
}
