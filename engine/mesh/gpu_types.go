package mesh

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
)

// VertexSize is the byte size of one packed Vertex.
const VertexSize = 32

// Vertex is a single mesh vertex in the position/normal/uv layout.
// It matches the WGSL VertexInput struct included with `//@wayfare:include vertex_pos_normal_uv`.
type Vertex struct {
	Position common.Vec3 // offset  0 (12 bytes)
	Normal   common.Vec3 // offset 12 (12 bytes)
	UV       [2]float32  // offset 24 (8 bytes)
}

// PosNormalUVLayout is the vertex buffer layout for Vertex: position at location 0,
// normal at location 1 and uv at location 2, with a stride of 32 bytes.
var PosNormalUVLayout = device.VertexBufferLayout{
	ArrayStride: VertexSize,
	StepMode:    device.StepModeVertex,
	Attributes: []device.VertexAttribute{
		{Format: device.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: device.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: device.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
	},
}

// Marshal serializes the vertex into a 32-byte little-endian buffer.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (v Vertex) Marshal() []byte {
	buf := make([]byte, VertexSize)
	v.put(buf)
	return buf
}

func (v Vertex) put(buf []byte) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v.Position[i]))
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(v.Normal[i]))
	}
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(v.UV[0]))
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(v.UV[1]))
}

// MarshalVertices packs vertices back to back.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: len(vertices)*32 bytes
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexSize)
	for i, v := range vertices {
		v.put(buf[i*VertexSize:])
	}
	return buf
}
