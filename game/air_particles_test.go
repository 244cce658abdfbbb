package game

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine"
	"github.com/Carmen-Shannon/wayfare/engine/camera"
	"github.com/Carmen-Shannon/wayfare/engine/renderer"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device/devicetest"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
	"golang.org/x/exp/rand"
)

func TestAirParticlesParamsMarshal(t *testing.T) {
	b := AirParticlesParams{CameraPosition: common.Vec3{1, 2, 3}, YOffset: -4}.Marshal()
	if len(b) != AirParticlesParamsSize {
		t.Fatalf("Expected %d bytes, got %d", AirParticlesParamsSize, len(b))
	}
	for i, want := range []float32{1, 2, 3, -4} {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])); got != want {
			t.Errorf("Expected float %d to be %f, got %f", i, want, got)
		}
	}
}

func TestAirParticlesMaterial(t *testing.T) {
	m := AirParticlesMaterial()
	layout := m.InstanceLayout()
	if layout == nil {
		t.Fatal("Expected an instanced material")
	}
	if layout.ArrayStride != 12 || len(layout.Attributes) != 1 || layout.Attributes[0].ShaderLocation != 3 {
		t.Errorf("Expected one vec3 origin at location 3, got %+v", *layout)
	}
}

func TestSpawnAirParticles(t *testing.T) {
	w := world.NewWorld()
	dev := devicetest.New()

	e, err := SpawnAirParticles(w, dev, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	inst, ok := world.Get[renderer.InstanceBuffer](w, e)
	if !ok {
		t.Fatal("Expected an instance buffer component")
	}
	if inst.Count != AirParticleCount {
		t.Errorf("Expected %d instances, got %d", AirParticleCount, inst.Count)
	}
	buf := inst.Buffer.(*devicetest.Buffer)
	if len(buf.Data) != AirParticleCount*12 {
		t.Fatalf("Expected %d bytes of origins, got %d", AirParticleCount*12, len(buf.Data))
	}
	for i := 0; i < len(buf.Data); i += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(buf.Data[i:]))
		if v < -10 || v >= 10 {
			t.Fatalf("Expected origins within the span, got %f", v)
		}
	}

	for name, ok := range map[string]bool{
		"Transform":          world.Has[scene.Transform](w, e),
		"Mesh":               world.Has[engine.Mesh](w, e),
		"MaterialRef":        world.Has[engine.MaterialRef](w, e),
		"AirParticlesParams": world.Has[AirParticlesParams](w, e),
	} {
		if !ok {
			t.Errorf("Expected the particles to carry %s", name)
		}
	}
}

func TestUpdateAirParticles(t *testing.T) {
	w := world.NewWorld()
	e, err := SpawnAirParticles(w, devicetest.New(), rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updateAirParticles(w, 1)
	p, _ := world.Get[AirParticlesParams](w, e)
	if p.YOffset != 0 {
		t.Errorf("Expected no scrolling without an active camera, got %f", p.YOffset)
	}

	ct := scene.DefaultTransform()
	ct.Position = common.Vec3{1, 2, 3}
	w.Spawn(world.With(camera.ActiveCamera{}), world.With(ct))

	updateAirParticles(w, 0.5)
	updateAirParticles(w, 0.5)

	if p.YOffset != -10 {
		t.Errorf("Expected y offset -10 after one second, got %f", p.YOffset)
	}
	if p.CameraPosition != ct.Position {
		t.Errorf("Expected camera position %v, got %v", ct.Position, p.CameraPosition)
	}
	tr, _ := world.Get[scene.Transform](w, e)
	if tr.Position != ct.Position {
		t.Errorf("Expected the field centred on the camera, got %v", tr.Position)
	}
}
