package game

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine"
	"github.com/Carmen-Shannon/wayfare/engine/camera"
	"github.com/Carmen-Shannon/wayfare/engine/mesh"
	"github.com/Carmen-Shannon/wayfare/engine/renderer"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/shader"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
	"golang.org/x/exp/rand"
)

//go:embed assets/air_particles.wgsl
var airParticlesSource string

const (
	// AirParticleCount is the number of streaks drawn around the camera.
	AirParticleCount = 1000
	// airParticleSpan is the half extent of the box the origins are scattered in.
	airParticleSpan = 10
	// airParticleSpeed is how fast the streaks scroll upward past the camera, in units per second.
	airParticleSpeed = 10
	// airParticleStride is the size of one instance record: a vec3 origin.
	airParticleStride = 12
)

// AirParticlesParamsSize is the uniform size of AirParticlesParams: a vec3 followed by an f32.
const AirParticlesParamsSize = 16

// AirParticlesParams are the per-draw parameters of the air particle material.
type AirParticlesParams struct {
	CameraPosition common.Vec3
	YOffset        float32
}

// Marshal packs the params into their 16-byte GPU layout.
func (p AirParticlesParams) Marshal() []byte {
	buf := make([]byte, AirParticlesParamsSize)
	for i, c := range p.CameraPosition {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(c))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(p.YOffset))
	return buf
}

// AirParticles tags the particle field entity.
type AirParticles struct{}

// airParticleInstanceLayout feeds the per-instance origin at location 3.
var airParticleInstanceLayout = device.VertexBufferLayout{
	ArrayStride: airParticleStride,
	StepMode:    device.StepModeInstance,
	Attributes: []device.VertexAttribute{
		{Format: device.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 3},
	},
}

// AirParticlesMaterial returns the shared instanced streak material. Both faces are drawn
// since the streaks are flat billboards.
var AirParticlesMaterial = sync.OnceValue(func() material.Material {
	return material.NewMaterial(
		material.WithName("air-particles"),
		material.WithShader(shader.MustShader("air-particles", airParticlesSource)),
		material.WithInstanceLayout(airParticleInstanceLayout),
		material.WithParams(AirParticlesParams{}.Marshal()),
		material.WithPipelineOptions(pipeline.WithCullMode(device.CullModeNone)),
	)
})

var airParticleMesh = mesh.NewAsset(
	mesh.WithLabel("air-particle"),
	mesh.WithData(mesh.Rectangle(common.Vec3{0.02, 0, 0}, common.Vec3{0, 0.5, 0})),
)

// airParticleOrigins scatters count origins uniformly in the span box and packs them as
// instance records.
func airParticleOrigins(rng *rand.Rand, count int) []byte {
	buf := make([]byte, count*airParticleStride)
	for i := range count * 3 {
		v := (rng.Float32()*2 - 1) * airParticleSpan
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// SpawnAirParticles uploads the instance origins and spawns the particle field. The buffer
// is released when the engine is destroyed.
//
// Parameters:
//   - w: the world
//   - dev: the device to create the instance buffer on
//   - rng: the random source for the origins
//
// Returns:
//   - world.Entity: the particle field
//   - error: error if the instance buffer cannot be created or written
func SpawnAirParticles(w *world.World, dev device.Device, rng *rand.Rand) (world.Entity, error) {
	data := airParticleOrigins(rng, AirParticleCount)
	buf, err := dev.CreateBuffer(device.BufferDescriptor{
		Label: "air-particle-origins",
		Size:  uint64(len(data)),
		Usage: device.BufferUsageVertex | device.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("create air particle buffer: %w", err)
	}
	if err := dev.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return 0, fmt.Errorf("write air particle buffer: %w", err)
	}

	e := w.Spawn(
		world.With(AirParticles{}),
		world.With(scene.DefaultTransform()),
		world.With(renderer.InstanceBuffer{Buffer: buf, Count: AirParticleCount}),
		world.With(engine.Mesh{Asset: airParticleMesh}),
	)
	engine.WithMaterial(w, e, AirParticlesMaterial(), AirParticlesParams{})
	return e, nil
}

// updateAirParticles keeps the field centred on the active camera and scrolls it.
func updateAirParticles(w *world.World, dt float32) {
	id, _, ok := world.First[camera.ActiveCamera](w)
	if !ok {
		return
	}
	cam, ok := world.Get[scene.Transform](w, id)
	if !ok {
		return
	}
	world.Each2(w, func(e world.Entity, _ *AirParticles, t *scene.Transform) {
		t.Position = cam.Position
		if p, ok := world.Get[AirParticlesParams](w, e); ok {
			p.CameraPosition = cam.Position
			p.YOffset -= dt * airParticleSpeed
		}
	})
}
