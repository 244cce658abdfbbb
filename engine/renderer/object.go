package renderer

import (
	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/mesh"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/world"
)

// InstanceBuffer is a vertex buffer of per-instance records bound at the instance slot.
type InstanceBuffer struct {
	Buffer device.Buffer
	Count  uint32
}

// Object is a registered renderable. World and Params are read every frame, so they must
// point at live state rather than a snapshot.
type Object struct {
	ID       world.Entity
	Mesh     mesh.Asset
	World    *common.Mat4
	Material material.Material

	// Params returns the current parameter bytes. Nil, or a nil result, means the material
	// defaults.
	Params func() []byte

	// Instances is bound at the instance slot when the material is instanced.
	Instances *InstanceBuffer

	// Extra is bound at group 3 when the material declares it.
	Extra device.BindGroup
}

// ObjectResources are the GPU resources cached for one object id.
type ObjectResources struct {
	material material.Material

	// Uniforms holds the ObjectUniforms buffer and its group 1 bind group.
	Uniforms bind_group_provider.BindGroupProvider

	// Params holds the material parameter buffer and its group 2 bind group, or nil when the
	// material has no parameters.
	Params bind_group_provider.BindGroupProvider
}

func (o *ObjectResources) release() {
	o.Uniforms.Release()
	if o.Params != nil {
		o.Params.Release()
	}
}
