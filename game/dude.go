package game

import (
	"math"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine"
	"github.com/Carmen-Shannon/wayfare/engine/mesh"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
)

const (
	// velocityFactor is the fraction of the horizontal velocity error left after one second.
	velocityFactor = 0.1
	// turnFactor is the fraction of the tilt error left after one second.
	turnFactor = 0.01
	// maxTilt is the tilt at full sideways movement, in radians.
	maxTilt = math.Pi * 0.2
)

// Dude is the falling character.
type Dude struct {
	FreeFallHorizontalSpeed float32
	// MovementDir is the desired horizontal direction, at most unit length.
	MovementDir common.Vec3
	// SmoothTurnDir trails MovementDir and drives the tilt.
	SmoothTurnDir common.Vec3
}

// NewDude returns a dude at rest with the default horizontal speed.
func NewDude() Dude {
	return Dude{FreeFallHorizontalSpeed: 2}
}

// dudeMesh is a slim box standing on its feet, roughly the proportions of a person.
var dudeMesh = mesh.NewAsset(
	mesh.WithLabel("dude"),
	mesh.WithData(mesh.Box(common.Vec3{0.8, 2, 0.5})),
)

// spawnDudeBundle makes e a white dude.
func spawnDudeBundle(w *world.World, e world.Entity) {
	world.Insert(w, e, NewDude())
	world.Insert(w, e, engine.Mesh{Asset: dudeMesh})
	engine.WithMaterial(w, e, material.BlinnPhong(), material.BlinnPhongParams{Albedo: common.Vec3{1, 1, 1}})
}

// updateDudeVelocities eases each dude's horizontal velocity toward its movement direction.
func updateDudeVelocities(w *world.World, dt float32) {
	world.Each2(w, func(_ world.Entity, d *Dude, v *engine.Velocity) {
		v[0] = common.Encroach(v[0], d.MovementDir[0]*d.FreeFallHorizontalSpeed, velocityFactor, dt)
		v[2] = common.Encroach(v[2], d.MovementDir[2]*d.FreeFallHorizontalSpeed, velocityFactor, dt)
	})
}

// animateDudes tilts each dude toward its smoothed movement direction.
func animateDudes(w *world.World, dt float32) {
	world.Each2(w, func(_ world.Entity, d *Dude, t *scene.Transform) {
		d.SmoothTurnDir[0] = common.Encroach(d.SmoothTurnDir[0], d.MovementDir[0], turnFactor, dt)
		d.SmoothTurnDir[2] = common.Encroach(d.SmoothTurnDir[2], d.MovementDir[2], turnFactor, dt)
		t.Rotation = common.QuatFromEuler(d.SmoothTurnDir[2]*maxTilt, 0, -d.SmoothTurnDir[0]*maxTilt)
	})
}
