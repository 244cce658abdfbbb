package mesh

import "github.com/Carmen-Shannon/wayfare/engine/renderer/device"

// Data is the CPU-side geometry of a mesh, drawn as a non-indexed triangle list.
type Data struct {
	Vertices []Vertex
}

// BoundingRadius returns the distance from the origin to the farthest vertex.
func (d Data) BoundingRadius() float32 {
	var r float32
	for _, v := range d.Vertices {
		if l := v.Position.Len(); l > r {
			r = l
		}
	}
	return r
}

// Mesh is the GPU-side geometry of a mesh for one device.
type Mesh struct {
	VertexCount    uint32
	VertexBuffer   device.Buffer
	BoundingRadius float32
}
