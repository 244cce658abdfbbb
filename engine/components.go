package engine

import (
	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/mesh"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/world"
)

// Time is the world resource describing the current frame. It is set before the frame
// callback runs.
type Time struct {
	// DeltaSeconds is the time since the previous frame.
	DeltaSeconds float32
	// Elapsed is the accumulated frame time since the engine started.
	Elapsed float64
}

// Velocity moves an entity's Transform by Velocity*dt every frame.
type Velocity common.Vec3

// Mesh makes an entity renderable. The entity must also carry a scene.Transform when the
// component is added.
type Mesh struct {
	Asset mesh.Asset
}

// MaterialRef selects the material of a renderable. Entities without one draw with
// material.BlinnPhong.
type MaterialRef struct {
	Material material.Material

	// Params returns the current parameter bytes. It is read every frame. Nil means the
	// material defaults.
	Params func() []byte
}

// Extra is bound at the extra group of materials that declare one.
type Extra struct {
	BindGroup device.BindGroup
}

// Marshaler is implemented by material parameter blocks.
type Marshaler interface {
	Marshal() []byte
}

// ParamsFrom returns a parameter getter reading the live P component of e. The getter
// yields nil, and so the material defaults, while e has no P.
//
// Parameters:
//   - w: the world holding the component
//   - e: the entity carrying the parameters
//
// Returns:
//   - func() []byte: the getter, suitable for MaterialRef.Params
func ParamsFrom[P Marshaler](w *world.World, e world.Entity) func() []byte {
	return func() []byte {
		p, ok := world.Get[P](w, e)
		if !ok {
			return nil
		}
		return (*p).Marshal()
	}
}

// WithMaterial inserts params as a component of e and points e's MaterialRef at it.
//
// Parameters:
//   - w: the world holding e
//   - e: the renderable entity
//   - m: the material
//   - params: the initial parameter block
//
// Returns:
//   - *P: the stored parameter block; writes through it show up on the next frame
func WithMaterial[P Marshaler](w *world.World, e world.Entity, m material.Material, params P) *P {
	p := world.Insert(w, e, params)
	world.Insert(w, e, MaterialRef{Material: m, Params: ParamsFrom[P](w, e)})
	return p
}
