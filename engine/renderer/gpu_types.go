package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/wayfare/common"
)

// ObjectUniformsSize is the byte size of the per-object uniform block: three 4x4 matrices.
const ObjectUniformsSize = 192

// ObjectUniforms matches the WGSL ObjectUniforms struct.
type ObjectUniforms struct {
	ModelMat       common.Mat4 // offset   0
	InvModelMat    common.Mat4 // offset  64
	NormalModelMat common.Mat4 // offset 128
}

// NewObjectUniforms derives the inverse and normal matrices from a world matrix. The normal
// matrix is the transposed inverse so normals stay perpendicular under non-uniform scale.
// A singular world matrix yields identity for both.
//
// Parameters:
//   - world: the object's world matrix
//
// Returns:
//   - ObjectUniforms: the uniform block
func NewObjectUniforms(world common.Mat4) ObjectUniforms {
	inv, ok := world.Inverse()
	if !ok {
		inv = common.Mat4Identity()
	}
	return ObjectUniforms{
		ModelMat:       world,
		InvModelMat:    inv,
		NormalModelMat: inv.Transpose(),
	}
}

// Marshal serializes the uniforms into their 192-byte GPU layout.
func (u ObjectUniforms) Marshal() []byte {
	buf := make([]byte, ObjectUniformsSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(u.ModelMat[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(u.InvModelMat[i]))
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(u.NormalModelMat[i]))
	}
	return buf
}
