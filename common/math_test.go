package common

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func approxVec(a, b Vec3) bool {
	return approx(a[0], b[0]) && approx(a[1], b[1]) && approx(a[2], b[2])
}

func TestMul4Identity(t *testing.T) {
	m := Mat4Translation(Vec3{1, 2, 3}).Mul(Mat4Scaling(Vec3{2, 2, 2}))
	got := Mat4Identity().Mul(m)
	if got != m {
		t.Errorf("Expected identity * m == m, got %v", got)
	}
	got = m.Mul(Mat4Identity())
	if got != m {
		t.Errorf("Expected m * identity == m, got %v", got)
	}
}

func TestInvert4(t *testing.T) {
	m := Mat4Translation(Vec3{1, -2, 3}).Mul(Mat4FromQuat(QuatFromEuler(0.3, 0.5, -0.2))).Mul(Mat4Scaling(Vec3{2, 3, 4}))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatalf("Expected matrix to be invertible")
	}
	id := m.Mul(inv)
	want := Mat4Identity()
	for i := range id {
		if !approx(id[i], want[i]) {
			t.Fatalf("Expected m * inverse(m) to be identity, got %v", id)
		}
	}

	var singular Mat4
	if _, ok := singular.Inverse(); ok {
		t.Errorf("Expected zero matrix to be singular")
	}
}

func TestTranspose(t *testing.T) {
	m := Mat4Translation(Vec3{1, 2, 3})
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Expected translation moved to last row, got %v", tr)
	}
	if tr.Transpose() != m {
		t.Errorf("Expected double transpose to round trip")
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	var p Mat4
	Perspective(p[:], math.Pi/2, 1, 1, 3)

	near := p.TransformPoint(Vec3{0, 0, -1})
	if !approx(near[2], 0) {
		t.Errorf("Expected near plane at depth 0, got %f", near[2])
	}
	far := p.TransformPoint(Vec3{0, 0, -3})
	if !approx(far[2], 1) {
		t.Errorf("Expected far plane at depth 1, got %f", far[2])
	}
}

func TestOrtho(t *testing.T) {
	var o Mat4
	Ortho(o[:], -2, 2, -1, 1, 0, 10)

	tests := []struct {
		in   Vec3
		want Vec3
	}{
		{Vec3{2, 1, 0}, Vec3{1, 1, 0}},
		{Vec3{-2, -1, -10}, Vec3{-1, -1, 1}},
		{Vec3{0, 0, -5}, Vec3{0, 0, 0.5}},
	}
	for _, tt := range tests {
		if got := o.TransformPoint(tt.in); !approxVec(got, tt.want) {
			t.Errorf("Expected %v -> %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestQuatRotate(t *testing.T) {
	tests := []struct {
		name string
		q    Quat
		in   Vec3
		want Vec3
	}{
		{"identity", QuatIdentity(), Vec3{1, 2, 3}, Vec3{1, 2, 3}},
		{"yaw 90", QuatFromEuler(0, math.Pi/2, 0), Vec3{0, 0, -1}, Vec3{-1, 0, 0}},
		{"pitch -90", QuatFromEuler(-math.Pi/2, 0, 0), Vec3{0, 0, -1}, Vec3{0, -1, 0}},
		{"roll 90", QuatFromEuler(0, 0, math.Pi/2), Vec3{1, 0, 0}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Rotate(tt.in); !approxVec(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLookAt(t *testing.T) {
	var view Mat4
	LookAt(view[:], Vec3{0, 0, 5}, Vec3{}, Vec3{0, 1, 0})

	if got := view.TransformPoint(Vec3{}); !approxVec(got, Vec3{0, 0, -5}) {
		t.Errorf("Expected origin 5 units in front of the viewer, got %v", got)
	}
	if got := view.TransformPoint(Vec3{1, 0, 0}); !approxVec(got, Vec3{1, 0, -5}) {
		t.Errorf("Expected +X to stay on the right, got %v", got)
	}
}

func TestEncroach(t *testing.T) {
	tests := []struct {
		from, to, factor, dt, want float32
	}{
		{0, 10, 0.1, 1, 9},
		{0, 10, 0.1, 0, 0},
		{5, 5, 0.5, 1, 5},
		{0, 8, 0.5, 2, 6},
	}
	for _, tt := range tests {
		if got := Encroach(tt.from, tt.to, tt.factor, tt.dt); !approx(got, tt.want) {
			t.Errorf("Expected Encroach(%v, %v, %v, %v) = %v, got %v", tt.from, tt.to, tt.factor, tt.dt, tt.want, got)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 {
		t.Errorf("Expected clamp to upper bound")
	}
	if Clamp(-1.5, 0.0, 1.0) != 0 {
		t.Errorf("Expected clamp to lower bound")
	}
	if Clamp01(0.25) != 0.25 {
		t.Errorf("Expected value inside range to pass through")
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "a", "b"); got != "a" {
		t.Errorf("Expected first non-zero value, got %q", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Expected zero value, got %d", got)
	}
}

func TestFrustumContainsSphere(t *testing.T) {
	var proj, view Mat4
	Perspective(proj[:], math.Pi/2, 1, 0.1, 100)
	LookAt(view[:], Vec3{}, Vec3{0, 0, -1}, Vec3{0, 1, 0})
	f := ExtractFrustum(proj.Mul(view))

	tests := []struct {
		name   string
		center Vec3
		radius float32
		want   bool
	}{
		{"ahead", Vec3{0, 0, -10}, 1, true},
		{"behind", Vec3{0, 0, 10}, 1, false},
		{"far left", Vec3{-100, 0, -10}, 1, false},
		{"beyond far", Vec3{0, 0, -200}, 1, false},
		{"straddling side", Vec3{-10.5, 0, -10}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsSphere(tt.center, tt.radius); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
