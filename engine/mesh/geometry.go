package mesh

import (
	"math"

	"github.com/Carmen-Shannon/wayfare/common"
)

// Rectangle builds a two-triangle rectangle centred on the origin spanning width and height.
// The normal is perpendicular to both spans: normalize(cross(width, height)).
//
// Parameters:
//   - width: the vector from the left edge to the right edge
//   - height: the vector from the bottom edge to the top edge
//
// Returns:
//   - Data: six vertices
func Rectangle(width, height common.Vec3) Data {
	hw := width.Scale(0.5)
	hh := height.Scale(0.5)
	nhw := width.Scale(-0.5)
	nhh := height.Scale(-0.5)
	normal := width.Cross(height).Normalize()

	return Data{Vertices: []Vertex{
		{Position: nhw.Add(nhh), Normal: normal, UV: [2]float32{0, 0}},
		{Position: hw.Add(nhh), Normal: normal, UV: [2]float32{1, 0}},
		{Position: hw.Add(hh), Normal: normal, UV: [2]float32{1, 1}},
		{Position: nhw.Add(nhh), Normal: normal, UV: [2]float32{0, 0}},
		{Position: hw.Add(hh), Normal: normal, UV: [2]float32{1, 1}},
		{Position: nhw.Add(hh), Normal: normal, UV: [2]float32{0, 1}},
	}}
}

// Box builds an axis-aligned box centred on the origin with outward-facing normals.
//
// Parameters:
//   - size: the full extent along each axis
//
// Returns:
//   - Data: 36 vertices
func Box(size common.Vec3) Data {
	x := common.Vec3{size[0], 0, 0}
	y := common.Vec3{0, size[1], 0}
	z := common.Vec3{0, 0, size[2]}

	faces := []struct {
		offset        common.Vec3
		width, height common.Vec3
	}{
		{z.Scale(0.5), x, y},            // +z
		{z.Scale(-0.5), x.Scale(-1), y}, // -z
		{x.Scale(0.5), z.Scale(-1), y},  // +x
		{x.Scale(-0.5), z, y},           // -x
		{y.Scale(0.5), x, z.Scale(-1)},  // +y
		{y.Scale(-0.5), x, z},           // -y
	}

	data := Data{Vertices: make([]Vertex, 0, 36)}
	for _, f := range faces {
		for _, v := range Rectangle(f.width, f.height).Vertices {
			v.Position = v.Position.Add(f.offset)
			data.Vertices = append(data.Vertices, v)
		}
	}
	return data
}

// PentagonPrism builds a vertical prism with a regular pentagon cross-section,
// centred on the origin with the top cap at y = height/2. Used for map chunks.
//
// Parameters:
//   - radius: the circumradius of the pentagon
//   - height: the height of the prism
//
// Returns:
//   - Data: 5 side quads plus two 5-triangle caps, 60 vertices
func PentagonPrism(radius, height float32) Data {
	const sides = 5
	top := height / 2
	bottom := -height / 2

	ring := make([]common.Vec3, sides)
	for i := range sides {
		a := float64(i) * 2 * math.Pi / sides
		ring[i] = common.Vec3{radius * float32(math.Cos(a)), 0, -radius * float32(math.Sin(a))}
	}

	data := Data{Vertices: make([]Vertex, 0, sides*12)}
	up := common.Vec3{0, 1, 0}
	down := common.Vec3{0, -1, 0}
	for i := range sides {
		a := ring[i]
		b := ring[(i+1)%sides]

		// side
		mid := a.Add(b).Scale(0.5).Normalize()
		at := common.Vec3{a[0], top, a[2]}
		ab := common.Vec3{a[0], bottom, a[2]}
		bt := common.Vec3{b[0], top, b[2]}
		bb := common.Vec3{b[0], bottom, b[2]}
		data.Vertices = append(data.Vertices,
			Vertex{Position: ab, Normal: mid, UV: [2]float32{0, 0}},
			Vertex{Position: bb, Normal: mid, UV: [2]float32{1, 0}},
			Vertex{Position: bt, Normal: mid, UV: [2]float32{1, 1}},
			Vertex{Position: ab, Normal: mid, UV: [2]float32{0, 0}},
			Vertex{Position: bt, Normal: mid, UV: [2]float32{1, 1}},
			Vertex{Position: at, Normal: mid, UV: [2]float32{0, 1}},
		)

		// caps
		data.Vertices = append(data.Vertices,
			Vertex{Position: common.Vec3{0, top, 0}, Normal: up, UV: [2]float32{0.5, 0.5}},
			Vertex{Position: at, Normal: up},
			Vertex{Position: bt, Normal: up},
			Vertex{Position: common.Vec3{0, bottom, 0}, Normal: down, UV: [2]float32{0.5, 0.5}},
			Vertex{Position: bb, Normal: down},
			Vertex{Position: ab, Normal: down},
		)
	}
	return data
}
