// Package camera holds camera configurations, the active camera tag and the point-of-view
// math that turns a camera transform into view and projection matrices.
package camera

import (
	"math"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
)

// Config is a camera projection. Perspective and Orthographic implement it.
type Config interface {
	// Projection computes the projection matrix for a viewport aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the viewport aspect ratio
	//
	// Returns:
	//   - common.Mat4: the projection matrix in WebGPU clip space
	Projection(aspect float32) common.Mat4

	// ClearColor returns the color the frame is cleared to when this camera is active.
	ClearColor() common.Color
}

// Perspective is a perspective projection with a vertical field of view in degrees.
type Perspective struct {
	FOV   float32
	Near  float32
	Far   float32
	Clear common.Color
}

var _ Config = Perspective{}

// DefaultPerspective returns a 45 degree perspective camera clearing to opaque black.
func DefaultPerspective() Perspective {
	return Perspective{
		FOV:   45,
		Near:  0.02,
		Far:   1000,
		Clear: common.Color{A: 1},
	}
}

func (p Perspective) Projection(aspect float32) common.Mat4 {
	var out common.Mat4
	if aspect <= 0 {
		aspect = 1
	}
	common.Perspective(out[:], p.FOV/180*math.Pi, aspect, p.Near, p.Far)
	return out
}

func (p Perspective) ClearColor() common.Color {
	return p.Clear
}

// Orthographic is an orthographic projection over fixed view bounds. The aspect ratio is ignored.
type Orthographic struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
	Clear       common.Color
}

var _ Config = Orthographic{}

func (o Orthographic) Projection(float32) common.Mat4 {
	var out common.Mat4
	common.Ortho(out[:], o.Left, o.Right, o.Bottom, o.Top, o.Near, o.Far)
	return out
}

func (o Orthographic) ClearColor() common.Color {
	return o.Clear
}

// ActiveCamera tags the camera entity whose point of view is rendered.
type ActiveCamera struct{}

// Camera is the component carrying a camera's projection.
type Camera struct {
	Config Config
}

// ComputeView builds the view matrix of a camera transform. The camera looks along its
// rotated -Z axis with its rotated +Y axis as up. Scale is ignored.
//
// Parameters:
//   - t: the camera transform
//
// Returns:
//   - common.Mat4: the view matrix
func ComputeView(t scene.Transform) common.Mat4 {
	forward := t.Rotation.Rotate(common.Vec3{0, 0, -1})
	up := t.Rotation.Rotate(common.Vec3{0, 1, 0})

	var out common.Mat4
	common.LookAt(out[:], t.Position, t.Position.Add(forward), up)
	return out
}

// POV is a point of view: the view and projection of the active camera and the matrices
// derived from them.
type POV struct {
	View        common.Mat4
	Proj        common.Mat4
	ViewProj    common.Mat4
	InvViewProj common.Mat4
	Clear       common.Color
}

// NewPOV combines a view and a projection. A singular view-projection leaves the inverse
// as identity.
//
// Parameters:
//   - view: the view matrix
//   - proj: the projection matrix
//   - clear: the clear color
//
// Returns:
//   - POV: the point of view
func NewPOV(view, proj common.Mat4, clear common.Color) POV {
	p := POV{View: view, Proj: proj, Clear: clear}
	p.ViewProj = proj.Mul(view)
	inv, ok := p.ViewProj.Inverse()
	if !ok {
		inv = common.Mat4Identity()
	}
	p.InvViewProj = inv
	return p
}

// DefaultPOV returns identity matrices clearing to opaque black.
func DefaultPOV() POV {
	return NewPOV(common.Mat4Identity(), common.Mat4Identity(), common.Color{A: 1})
}

// Position returns the camera's world-space position recovered from the view matrix.
func (p POV) Position() common.Vec3 {
	inv, ok := p.View.Inverse()
	if !ok {
		return common.Vec3{}
	}
	return common.Vec3{inv[12], inv[13], inv[14]}
}
