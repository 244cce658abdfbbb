package common

import "math"

// Vec2 is a two component float32 vector.
type Vec2 [2]float32

// Vec3 is a three component float32 vector.
type Vec3 [3]float32

// Quat is a rotation quaternion stored as (x, y, z, w).
type Quat [4]float32

// Mat4 is a 4x4 float32 matrix in column-major order.
type Mat4 [16]float32

// Color is an RGBA color with float64 channels, matching the GPU clear value layout.
type Color struct {
	R, G, B, A float64
}

func (v Vec2) Len() float32 { return float32(math.Hypot(float64(v[0]), float64(v[1]))) }

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v[0] / l, v[1] / l}
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

func (v Vec3) Scale(s float32) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

func (v Vec3) Dot(o Vec3) float32 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3) Len() float32 { return float32(math.Sqrt(float64(v.Dot(v)))) }

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatFromEuler builds a quaternion from euler angles in radians applied in x, y, z order.
//
// Parameters:
//   - x, y, z: rotation around each axis in radians
//
// Returns:
//   - Quat: the composed rotation
func QuatFromEuler(x, y, z float32) Quat {
	sx, cx := math.Sincos(float64(x) * 0.5)
	sy, cy := math.Sincos(float64(y) * 0.5)
	sz, cz := math.Sincos(float64(z) * 0.5)

	return Quat{
		float32(sx*cy*cz + cx*sy*sz),
		float32(cx*sy*cz - sx*cy*sz),
		float32(cx*cy*sz + sx*sy*cz),
		float32(cx*cy*cz - sx*sy*sz),
	}
}

// Rotate applies the rotation q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	m := Mat4FromQuat(q)
	return m.TransformVector(v)
}

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	var m Mat4
	Identity(m[:])
	return m
}

// Mat4FromQuat returns the rotation matrix for q.
func Mat4FromQuat(q Quat) Mat4 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	x2, y2, z2 := x+x, y+y, z+z

	xx := x * x2
	yx := y * x2
	yy := y * y2
	zx := z * x2
	zy := z * y2
	zz := z * z2
	wx := w * x2
	wy := w * y2
	wz := w * z2

	return Mat4{
		1 - yy - zz, yx + wz, zx - wy, 0,
		yx - wz, 1 - xx - zz, zy + wx, 0,
		zx + wy, zy - wx, 1 - xx - yy, 0,
		0, 0, 0, 1,
	}
}

// Mat4Translation returns a matrix translating by t.
func Mat4Translation(t Vec3) Mat4 {
	m := Mat4Identity()
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}

// Mat4Scaling returns a matrix scaling by s.
func Mat4Scaling(s Vec3) Mat4 {
	m := Mat4Identity()
	m[0], m[5], m[10] = s[0], s[1], s[2]
	return m
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	Mul4(out[:], m[:], o[:])
	return out
}

// Inverse returns the inverse of m and whether m was invertible.
// A singular m yields the identity.
func (m Mat4) Inverse() (Mat4, bool) {
	out := Mat4Identity()
	ok := Invert4(out[:], m[:])
	return out, ok
}

// Transpose returns the transpose of m.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	Transpose4(out[:], m[:])
	return out
}

// TransformPoint applies m to the point p (w = 1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w := m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformVector applies m to the direction v (w = 0).
func (m Mat4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2],
	}
}
