package common

// Plane is a plane in 3D space satisfying Normal·p + Distance = 0.
type Plane struct {
	Normal   Vec3
	Distance float32
}

// Frustum holds the six planes of a view frustum, oriented so the positive half-space is inside.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts normalized frustum planes from a view-projection matrix
// using the Gribb/Hartmann method.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(viewProj Mat4) Frustum {
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	combine := func(a, b [4]float32, sign float32) Plane {
		return Plane{
			Normal:   Vec3{a[0] + sign*b[0], a[1] + sign*b[1], a[2] + sign*b[2]},
			Distance: a[3] + sign*b[3],
		}
	}

	var f Frustum
	f.Planes[FrustumLeft] = combine(r3, r0, 1)
	f.Planes[FrustumRight] = combine(r3, r0, -1)
	f.Planes[FrustumBottom] = combine(r3, r1, 1)
	f.Planes[FrustumTop] = combine(r3, r1, -1)
	// depth is [0, 1] in WebGPU clip space, so the near plane is row2 alone
	f.Planes[FrustumNear] = Plane{Normal: Vec3{r2[0], r2[1], r2[2]}, Distance: r2[3]}
	f.Planes[FrustumFar] = combine(r3, r2, -1)

	for i := range f.Planes {
		p := &f.Planes[i]
		if l := p.Normal.Len(); l > 0 {
			p.Normal = p.Normal.Scale(1 / l)
			p.Distance /= l
		}
	}
	return f
}

// ContainsSphere reports whether a sphere lies inside or intersects the frustum.
//
// Parameters:
//   - center: the sphere center in world space
//   - radius: the sphere radius
//
// Returns:
//   - bool: false only when the sphere is fully outside at least one plane
func (f Frustum) ContainsSphere(center Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.Normal.Dot(center)+p.Distance < -radius {
			return false
		}
	}
	return true
}
