package game

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine"
	"github.com/Carmen-Shannon/wayfare/engine/input"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
)

func newPlayers(t *testing.T) (*world.World, input.Service, *Players) {
	t.Helper()
	w := world.NewWorld()
	svc := input.NewService()
	return w, svc, NewPlayers(w, input.NewMap(svc, DefaultControls()))
}

func TestPlayerInit(t *testing.T) {
	w, _, p := newPlayers(t)

	first := p.Init()
	e := p.Init()
	if w.Alive(first) {
		t.Error("Expected Init to replace the previous player")
	}
	if n := world.Count[Player](w); n != 1 {
		t.Fatalf("Expected one player, got %d", n)
	}

	for name, ok := range map[string]bool{
		"Dude":              world.Has[Dude](w, e),
		"MapProgressMarker": world.Has[MapProgressMarker](w, e),
		"WindListener":      world.Has[WindListener](w, e),
		"Mesh":              world.Has[engine.Mesh](w, e),
		"MaterialRef":       world.Has[engine.MaterialRef](w, e),
	} {
		if !ok {
			t.Errorf("Expected the player to carry %s", name)
		}
	}

	tr, _ := world.Get[scene.Transform](w, e)
	if tr.Scale != (common.Vec3{0.1, 0.1, 0.1}) {
		t.Errorf("Expected scale 0.1, got %v", tr.Scale)
	}
	v, _ := world.Get[engine.Velocity](w, e)
	if *v != (engine.Velocity{0, -5, 0}) {
		t.Errorf("Expected velocity (0, -5, 0), got %v", *v)
	}
	params, _ := world.Get[material.BlinnPhongParams](w, e)
	if params.Albedo != (common.Vec3{1, 1, 1}) {
		t.Errorf("Expected a white dude, got %v", params.Albedo)
	}
	d, _ := world.Get[Dude](w, e)
	if d.FreeFallHorizontalSpeed != 2 {
		t.Errorf("Expected horizontal speed 2, got %f", d.FreeFallHorizontalSpeed)
	}
}

func TestPlayerMovement(t *testing.T) {
	diag := float32(1 / math.Sqrt2)
	tests := []struct {
		name string
		keys []common.Key
		want common.Vec3
	}{
		{"idle", nil, common.Vec3{}},
		{"left", []common.Key{common.KeyLeft}, common.Vec3{-1, 0, 0}},
		{"forward", []common.Key{common.KeyW}, common.Vec3{0, 0, -1}},
		{"diagonal", []common.Key{common.KeyUp, common.KeyD}, common.Vec3{diag, 0, -diag}},
		{"opposed", []common.Key{common.KeyA, common.KeyD}, common.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, svc, p := newPlayers(t)
			e := p.Init()
			for _, k := range tt.keys {
				svc.Press(k)
			}

			if p.Update() {
				t.Error("Expected no restart while the round is running")
			}
			d, _ := world.Get[Dude](w, e)
			for i := range 3 {
				if !approx(d.MovementDir[i], tt.want[i]) {
					t.Errorf("Expected direction %v, got %v", tt.want, d.MovementDir)
					break
				}
			}
		})
	}
}

func TestPlayerRestartRequest(t *testing.T) {
	w, svc, p := newPlayers(t)
	e := p.Init()
	world.SetResource(w, GameState{IsGameOver: true})

	svc.Press(common.KeyLeft)
	if p.Update() {
		t.Error("Expected no restart without shoot")
	}
	d, _ := world.Get[Dude](w, e)
	if d.MovementDir != (common.Vec3{}) {
		t.Errorf("Expected movement to be ignored after game over, got %v", d.MovementDir)
	}

	svc.Press(common.KeySpace)
	if !p.Update() {
		t.Error("Expected shoot to request a restart after game over")
	}
}

func TestPlayerCleanup(t *testing.T) {
	w, _, p := newPlayers(t)
	p.Init()
	p.Cleanup()

	if n := world.Count[Player](w); n != 0 {
		t.Errorf("Expected no players after Cleanup, got %d", n)
	}
	if n := world.Count[Dude](w); n != 0 {
		t.Errorf("Expected the dude to go with the player, got %d", n)
	}
}

func TestDudeVelocity(t *testing.T) {
	w := world.NewWorld()
	d := NewDude()
	d.MovementDir = common.Vec3{1, 0, -0.5}
	e := w.Spawn(world.With(d), world.With(engine.Velocity{0, -5, 0}))

	updateDudeVelocities(w, 1)

	v, _ := world.Get[engine.Velocity](w, e)
	if !approx(v[0], 1.8) || !approx(v[2], -0.9) {
		t.Errorf("Expected x/z velocity 1.8/-0.9 after one second, got %f/%f", v[0], v[2])
	}
	if v[1] != -5 {
		t.Errorf("Expected the fall speed untouched, got %f", v[1])
	}
}

func TestAnimateDudes(t *testing.T) {
	w := world.NewWorld()
	d := NewDude()
	d.MovementDir = common.Vec3{1, 0, 0}
	e := w.Spawn(world.With(d), world.With(scene.DefaultTransform()))

	animateDudes(w, 1)

	got, _ := world.Get[Dude](w, e)
	if !approx(got.SmoothTurnDir[0], 0.99) || got.SmoothTurnDir[2] != 0 {
		t.Errorf("Expected smoothed direction (0.99, 0, 0), got %v", got.SmoothTurnDir)
	}

	tr, _ := world.Get[scene.Transform](w, e)
	want := common.QuatFromEuler(0, 0, -0.99*math.Pi*0.2)
	for i := range 4 {
		if !approx(tr.Rotation[i], want[i]) {
			t.Errorf("Expected rotation %v, got %v", want, tr.Rotation)
			break
		}
	}
}
