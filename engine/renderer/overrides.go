package renderer

import (
	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/world"
)

// Overrides redirect a Render call, e.g. to draw a subset of objects into an off-screen target.
type Overrides struct {
	// Material replaces every object's material. It must not have parameters.
	Material material.Material

	// ColorAttachments replace the surface target. ColorFormat must then name their format.
	ColorAttachments []device.ColorAttachment
	ColorFormat      device.TextureFormat

	// DepthAttachment replaces the viewport depth buffer.
	DepthAttachment *device.DepthAttachment

	// Filter skips objects it returns false for.
	Filter func(id world.Entity) bool
}

// FrustumFilter builds an object filter that keeps objects whose bounding sphere touches
// the view frustum of viewProj.
//
// Parameters:
//   - viewProj: the view-projection to cull against
//   - sphereOf: returns an object's world-space centre and radius, and false to always keep it
//
// Returns:
//   - func(world.Entity) bool: the filter
func FrustumFilter(viewProj common.Mat4, sphereOf func(id world.Entity) (common.Vec3, float32, bool)) func(world.Entity) bool {
	f := common.ExtractFrustum(viewProj)
	return func(id world.Entity) bool {
		center, radius, ok := sphereOf(id)
		if !ok {
			return true
		}
		return f.ContainsSphere(center, radius)
	}
}
