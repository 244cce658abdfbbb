package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestDefaultPerspective(t *testing.T) {
	p := NewPerspective()
	if p.FOV != 45 || p.Near != 0.02 || p.Far != 1000 {
		t.Errorf("Expected 45/0.02/1000, got %v/%v/%v", p.FOV, p.Near, p.Far)
	}
	if p.ClearColor() != (common.Color{A: 1}) {
		t.Errorf("Expected opaque black, got %+v", p.ClearColor())
	}

	q := NewPerspective(WithFOV(120), WithClipPlanes(0.1, 50), WithClearColor(common.Color{R: 0.1, G: 0.6, B: 1, A: 1}))
	if q.FOV != 120 || q.Near != 0.1 || q.Far != 50 || q.Clear.G != 0.6 {
		t.Errorf("Expected options to apply, got %+v", q)
	}
}

func TestPerspectiveAspect(t *testing.T) {
	p := DefaultPerspective()
	wide := p.Projection(2)
	square := p.Projection(1)
	if !approx(wide[0]*2, square[0]) {
		t.Errorf("Expected x scale to halve at aspect 2, got %f vs %f", wide[0], square[0])
	}
	if wide[5] != square[5] {
		t.Errorf("Expected y scale independent of aspect, got %f vs %f", wide[5], square[5])
	}
	if zero := p.Projection(0); zero != square {
		t.Error("Expected a zero aspect to fall back to 1")
	}
}

func TestOrthographicIgnoresAspect(t *testing.T) {
	o := Orthographic{Left: -1, Right: 1, Bottom: -1, Top: 1, Near: 0, Far: 10}
	if o.Projection(1) != o.Projection(3) {
		t.Error("Expected orthographic projection to ignore aspect")
	}
}

func TestComputeViewLooksDownNegativeZ(t *testing.T) {
	tr := scene.DefaultTransform()
	tr.Position = common.Vec3{0, 0, 5}
	view := ComputeView(tr)

	p := view.TransformPoint(common.Vec3{0, 0, 0})
	if !approx(p[0], 0) || !approx(p[1], 0) || !approx(p[2], -5) {
		t.Errorf("Expected origin 5 units in front of the camera, got %v", p)
	}
}

func TestComputeViewPitchedDown(t *testing.T) {
	tr := scene.DefaultTransform()
	tr.Position = common.Vec3{0, 10, 0}
	tr.Rotation = common.QuatFromEuler(-math.Pi/2, 0, 0)
	view := ComputeView(tr)

	p := view.TransformPoint(common.Vec3{0, 0, 0})
	if !approx(p[2], -10) {
		t.Errorf("Expected the point below to be 10 units ahead, got %v", p)
	}
}

func TestPOV(t *testing.T) {
	tr := scene.DefaultTransform()
	tr.Position = common.Vec3{1, 2, 3}
	view := ComputeView(tr)
	pov := NewPOV(view, DefaultPerspective().Projection(1.5), common.Color{A: 1})

	id := pov.ViewProj.Mul(pov.InvViewProj)
	for i, v := range common.Mat4Identity() {
		if math.Abs(float64(id[i]-v)) > 1e-3 {
			t.Fatalf("Expected viewProj * inverse to be identity, got %v", id)
		}
	}
	pos := pov.Position()
	if !approx(pos[0], 1) || !approx(pos[1], 2) || !approx(pos[2], 3) {
		t.Errorf("Expected position (1,2,3), got %v", pos)
	}
	if len(pov.Marshal()) != POVUniformSize {
		t.Errorf("Expected %d bytes, got %d", POVUniformSize, len(pov.Marshal()))
	}
	if d := DefaultPOV(); d.ViewProj != common.Mat4Identity() {
		t.Errorf("Expected identity default POV, got %v", d.ViewProj)
	}
}

func TestFollowController(t *testing.T) {
	fc := NewFollowController(WithHeight(0.7), WithFactor(0.5))
	cam := scene.DefaultTransform()
	target := common.Vec3{4, -20, 8}

	fc.Update(&cam, target, 1)
	if !approx(cam.Position[0], 2) || !approx(cam.Position[2], 4) {
		t.Errorf("Expected half the horizontal distance after one second, got %v", cam.Position)
	}
	if !approx(cam.Position[1], -19.3) {
		t.Errorf("Expected height pinned at target + 0.7, got %f", cam.Position[1])
	}
	if fc.Height() != 0.7 || fc.Factor() != 0.5 {
		t.Errorf("Expected options to apply, got %f / %f", fc.Height(), fc.Factor())
	}
}
