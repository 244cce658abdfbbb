package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/camera"
	"github.com/Carmen-Shannon/wayfare/engine/mesh"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device/devicetest"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/material"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/shader"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
	"github.com/Carmen-Shannon/wayfare/engine/world"
)

const albedoShaderSource = `//@wayfare:include pov
//@wayfare:include object_uniforms
//@wayfare:include vertex_pos_normal_uv

struct Albedo {
    color: vec3<f32>,
}

//@wayfare:group 0 0 storage_uniform pov pov
//@wayfare:group 1 0 storage_uniform object object_uniforms
@group(2) @binding(0) var<uniform> params: Albedo;

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return pov.viewProj * object.modelMat * vec4<f32>(in.position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(params.color, 1.0);
}
`

const plainShaderSource = `//@wayfare:include pov
//@wayfare:include object_uniforms
//@wayfare:include vertex_pos

//@wayfare:group 0 0 storage_uniform pov pov
//@wayfare:group 1 0 storage_uniform object object_uniforms

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return pov.viewProj * object.modelMat * vec4<f32>(in.position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`

const instancedShaderSource = `//@wayfare:include pov
//@wayfare:include object_uniforms
//@wayfare:include vertex_pos_normal_uv

struct InstanceInput {
    @location(3) origin: vec3<f32>,
}

//@wayfare:group 0 0 storage_uniform pov pov
//@wayfare:group 1 0 storage_uniform object object_uniforms

@vertex
fn vs_main(in: VertexInput, inst: InstanceInput) -> @builtin(position) vec4<f32> {
    return pov.viewProj * object.modelMat * vec4<f32>(in.position + inst.origin, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`

func albedoMaterial() material.Material {
	return material.NewMaterial(
		material.WithShader(shader.MustShader("albedo", albedoShaderSource)),
		material.WithParams(material.BlinnPhongParams{Albedo: common.Vec3{1, 0, 1}}.Marshal()),
	)
}

func plainMaterial() material.Material {
	return material.NewMaterial(material.WithShader(shader.MustShader("plain", plainShaderSource)))
}

func readyQuad(t *testing.T, dev device.Device) mesh.Asset {
	t.Helper()
	a := mesh.NewStatic("quad", mesh.Rectangle(common.Vec3{1, 0, 0}, common.Vec3{0, 1, 0}))
	if _, err := a.Get(context.Background(), dev); err != nil {
		t.Fatalf("Expected mesh upload, got %v", err)
	}
	return a
}

func newTestRenderer(t *testing.T, dev device.Device, options ...RendererBuilderOption) Renderer {
	t.Helper()
	r, err := NewRenderer(dev, 800, 600, options...)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	t.Cleanup(r.Destroy)
	return r
}

func translated(x, y, z float32) *common.Mat4 {
	m := common.Mat4Translation(common.Vec3{x, y, z})
	return &m
}

func TestResourcesCacheIdentity(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	m := albedoMaterial()

	a1, err := r.Resources(1, m)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	a2, _ := r.Resources(1, m)
	b, _ := r.Resources(2, m)

	if a1 != a2 || a1.Uniforms != a2.Uniforms || a1.Params != a2.Params {
		t.Error("Expected the same resources for the same id")
	}
	if a1 == b || a1.Uniforms.BindGroup() == b.Uniforms.BindGroup() {
		t.Error("Expected distinct resources for a different id")
	}
	if a1.Params == nil {
		t.Error("Expected params resources for a parametrized material")
	}

	plain, _ := r.Resources(1, plainMaterial())
	if plain == a1 || plain.Params != nil {
		t.Error("Expected a material change to rebuild resources without params")
	}
}

func TestRenderDrawsObjectsInOrder(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	quad := readyQuad(t, dev)
	m := albedoMaterial()

	red := material.BlinnPhongParams{Albedo: common.Vec3{1, 0, 0}}
	worldA := translated(1, 2, 3)
	r.AddObject(Object{ID: 1, Mesh: quad, World: worldA, Material: m, Params: red.Marshal})
	r.AddObject(Object{ID: 2, Mesh: quad, World: translated(0, 0, 0), Material: m})

	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	draws := dev.Draws()
	if len(draws) != 2 {
		t.Fatalf("Expected 2 draws, got %d", len(draws))
	}
	for i, d := range draws {
		if d.VertexCount != 6 || d.InstanceCount != 1 {
			t.Errorf("Expected draw %d of 6 vertices x1, got %d x%d", i, d.VertexCount, d.InstanceCount)
		}
		for _, g := range []uint32{0, 1, 2} {
			if d.BindGroups[g] == nil {
				t.Errorf("Expected draw %d to bind group %d", i, g)
			}
		}
		if d.VertexBuffers[0] == nil {
			t.Errorf("Expected draw %d to bind the mesh buffer", i)
		}
	}

	res, _ := r.Resources(1, m)
	if got := res.Uniforms.Buffer(0).(*devicetest.Buffer).Data; string(got) != string(NewObjectUniforms(*worldA).Marshal()) {
		t.Error("Expected object 1 uniforms to hold its world matrix")
	}
	if draws[0].BindGroups[1] != res.Uniforms.BindGroup().(*devicetest.BindGroup) {
		t.Error("Expected object 1 to be drawn first")
	}
	if got := res.Params.Buffer(0).(*devicetest.Buffer).Data; string(got) != string(red.Marshal()) {
		t.Error("Expected object 1 params to be red")
	}
	res2, _ := r.Resources(2, m)
	if got := res2.Params.Buffer(0).(*devicetest.Buffer).Data; string(got) != string(m.DefaultParams()) {
		t.Error("Expected object 2 params to be the material defaults")
	}

	pass := dev.Passes()[0]
	if !pass.Ended || pass.Desc.DepthAttachment == nil || pass.Desc.DepthAttachment.Clear != 1 {
		t.Errorf("Expected an ended pass clearing depth to 1, got %+v", pass.Desc)
	}
	if dev.Submits() != 1 || dev.Presents() != 1 {
		t.Errorf("Expected 1 submit and 1 present, got %d and %d", dev.Submits(), dev.Presents())
	}
}

func TestParamsAreReadLive(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	m := albedoMaterial()

	params := material.BlinnPhongParams{Albedo: common.Vec3{1, 0, 0}}
	r.AddObject(Object{ID: 1, Mesh: readyQuad(t, dev), World: translated(0, 0, 0), Material: m, Params: func() []byte { return params.Marshal() }})
	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	params.Albedo = common.Vec3{0, 1, 0}
	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	res, _ := r.Resources(1, m)
	if got := res.Params.Buffer(0).(*devicetest.Buffer).Data; string(got) != string(params.Marshal()) {
		t.Error("Expected the latest params to be uploaded")
	}
}

func TestRemoveObject(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	quad := readyQuad(t, dev)
	m := albedoMaterial()

	r.AddObject(Object{ID: 7, Mesh: quad, World: translated(0, 0, 0), Material: m})
	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	res, _ := r.Resources(7, m)
	uniforms := res.Uniforms.Buffer(0).(*devicetest.Buffer)
	groups := dev.LiveBindGroups()

	r.RemoveObject(7)
	dev.ResetDraws()
	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(dev.Draws()) != 0 {
		t.Errorf("Expected no draws after removal, got %d", len(dev.Draws()))
	}
	if r.Objects() != 0 {
		t.Errorf("Expected 0 objects, got %d", r.Objects())
	}
	if !uniforms.Released {
		t.Error("Expected removal to release the object's uniform buffer")
	}
	if dev.LiveBindGroups() != groups-2 {
		t.Errorf("Expected 2 bind groups to be released, got %d -> %d", groups, dev.LiveBindGroups())
	}
}

func TestAddObjectReplacesSameID(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	quad := readyQuad(t, dev)

	r.AddObject(Object{ID: 3, Mesh: quad, World: translated(0, 0, 0), Material: albedoMaterial()})
	r.AddObject(Object{ID: 3, Mesh: quad, World: translated(0, 0, 0), Material: plainMaterial()})
	if r.Objects() != 1 {
		t.Errorf("Expected 1 object, got %d", r.Objects())
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected AddObject to panic without a mesh")
		}
	}()
	r.AddObject(Object{ID: 4, World: translated(0, 0, 0), Material: plainMaterial()})
}

func TestParametrizedOverrideFails(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	err := r.Render(&Overrides{Material: albedoMaterial()})
	if !errors.Is(err, ErrParametrizedOverride) {
		t.Errorf("Expected ErrParametrizedOverride, got %v", err)
	}
	if len(dev.Passes()) != 0 {
		t.Error("Expected no pass to begin")
	}
}

func TestOverrideMaterialAndFilter(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	quad := readyQuad(t, dev)
	m := albedoMaterial()
	override := plainMaterial()

	r.AddObject(Object{ID: 1, Mesh: quad, World: translated(0, 0, 0), Material: m})
	r.AddObject(Object{ID: 2, Mesh: quad, World: translated(0, 0, 0), Material: m})

	target := &devicetest.TextureView{Label: "offscreen"}
	err := r.Render(&Overrides{
		Material:         override,
		ColorAttachments: []device.ColorAttachment{{View: target, Load: device.LoadOpClear}},
		ColorFormat:      device.TextureFormatRGBA8Unorm,
		Filter:           func(id world.Entity) bool { return id == 2 },
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	draws := dev.Draws()
	if len(draws) != 1 {
		t.Fatalf("Expected 1 filtered draw, got %d", len(draws))
	}
	if draws[0].BindGroups[2] != nil {
		t.Error("Expected params not to be bound under an override material")
	}
	if draws[0].Pipeline.Desc.ColorFormat != device.TextureFormatRGBA8Unorm {
		t.Errorf("Expected override pipeline for the override format, got %d", draws[0].Pipeline.Desc.ColorFormat)
	}
	if draws[0].Pipeline.Desc.ShaderSource != override.Shader().Source() {
		t.Error("Expected the override material's pipeline")
	}
	if dev.Passes()[0].Desc.ColorAttachments[0].View != target {
		t.Error("Expected the override color attachment")
	}

	res, _ := r.Resources(2, m)
	if res.Params == nil {
		t.Error("Expected resources to follow the object's own material")
	}
}

func TestMeshNotReadyIsSkipped(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	release := make(chan struct{})
	defer close(release)
	loading := mesh.NewAsset(mesh.WithGenerator(func(context.Context) (mesh.Data, error) {
		<-release
		return mesh.Box(common.Vec3{1, 1, 1}), nil
	}))

	r.AddObject(Object{ID: 1, Mesh: loading, World: translated(0, 0, 0), Material: albedoMaterial()})
	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error for a loading mesh, got %v", err)
	}
	if len(dev.Draws()) != 0 {
		t.Errorf("Expected no draws, got %d", len(dev.Draws()))
	}
	if dev.Submits() != 1 {
		t.Errorf("Expected the frame to still submit, got %d", dev.Submits())
	}
}

func TestInstancedDraw(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	quad := readyQuad(t, dev)
	m := material.NewMaterial(
		material.WithShader(shader.MustShader("instanced", instancedShaderSource)),
		material.WithInstanceLayout(device.VertexBufferLayout{
			ArrayStride: 12,
			Attributes:  []device.VertexAttribute{{Format: device.VertexFormatFloat32x3, ShaderLocation: 3}},
		}),
	)
	buf, err := dev.CreateBuffer(device.BufferDescriptor{Label: "origins", Size: 12 * 1000, Usage: device.BufferUsageVertex})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	r.AddObject(Object{ID: 1, Mesh: quad, World: translated(0, 0, 0), Material: m, Instances: &InstanceBuffer{Buffer: buf, Count: 1000}})
	r.AddObject(Object{ID: 2, Mesh: quad, World: translated(0, 0, 0), Material: m})
	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	draws := dev.Draws()
	if len(draws) != 1 {
		t.Fatalf("Expected only the object with instances to draw, got %d", len(draws))
	}
	if draws[0].InstanceCount != 1000 || draws[0].VertexBuffers[1] != buf {
		t.Errorf("Expected 1000 instances from the instance buffer, got %d", draws[0].InstanceCount)
	}
}

func TestIdempotentRender(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	m := albedoMaterial()
	r.AddObject(Object{ID: 1, Mesh: readyQuad(t, dev), World: translated(4, 5, 6), Material: m})

	snapshot := func() []string {
		var out []string
		for _, b := range dev.Buffers() {
			out = append(out, string(b.Data))
		}
		return out
	}
	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	first := snapshot()
	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second := snapshot()

	if len(first) != len(second) {
		t.Fatalf("Expected the same buffers, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Expected buffer %d to be unchanged by a second render", i)
		}
	}
}

func TestParallelUniformPreparation(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev, WithWorkers(4), WithParallelThreshold(2))
	quad := readyQuad(t, dev)
	m := plainMaterial()

	worlds := make([]*common.Mat4, 10)
	for i := range worlds {
		worlds[i] = translated(float32(i), 0, 0)
		r.AddObject(Object{ID: world.Entity(i + 1), Mesh: quad, World: worlds[i], Material: m})
	}
	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i, w := range worlds {
		res, _ := r.Resources(world.Entity(i+1), m)
		if got := res.Uniforms.Buffer(0).(*devicetest.Buffer).Data; string(got) != string(NewObjectUniforms(*w).Marshal()) {
			t.Errorf("Expected object %d uniforms to match its world matrix", i+1)
		}
	}
}

func TestParamsSizeMismatch(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)
	r.AddObject(Object{ID: 1, Mesh: readyQuad(t, dev), World: translated(0, 0, 0), Material: albedoMaterial(), Params: func() []byte { return make([]byte, 4) }})
	if err := r.Render(nil); !errors.Is(err, ErrParamsSize) {
		t.Errorf("Expected ErrParamsSize, got %v", err)
	}
}

func TestSetPOVAndViewport(t *testing.T) {
	dev := devicetest.New()
	r := newTestRenderer(t, dev)

	before := r.POV()
	if err := r.UpdateViewport(1024, 512); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if r.POV() != before {
		t.Error("Expected the POV to stay unchanged without a camera")
	}

	tr := scene.DefaultTransform()
	tr.Position = common.Vec3{0, 0, 5}
	cfg := camera.NewPerspective(camera.WithClearColor(common.Color{R: 0.1, G: 0.6, B: 1, A: 1}))
	r.SetPOV(tr, cfg)
	pov := r.POV()
	if pov.View != camera.ComputeView(tr) {
		t.Error("Expected the view to follow the camera transform")
	}
	if pov.Proj != cfg.Projection(2) {
		t.Error("Expected the projection to use the viewport aspect")
	}

	if err := r.UpdateViewport(500, 500); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	resized := r.POV()
	if resized.View != pov.View {
		t.Error("Expected resize to keep the view matrix")
	}
	if resized.Proj != cfg.Projection(1) {
		t.Error("Expected resize to recompute the projection")
	}
	if w, h := dev.SurfaceSize(); w != 500 || h != 500 {
		t.Errorf("Expected surface 500x500, got %dx%d", w, h)
	}

	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := dev.Passes()[0].Desc.ColorAttachments[0].Clear; got != cfg.Clear {
		t.Errorf("Expected the camera clear color, got %+v", got)
	}
	if tex := dev.Textures(); len(tex) != 1 || tex[0].Desc.Width != 500 {
		t.Errorf("Expected one 500px depth texture, got %d", len(tex))
	}
}

func TestDestroy(t *testing.T) {
	dev := devicetest.New()
	r, err := NewRenderer(dev, 320, 240)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	quad := readyQuad(t, dev)
	m := albedoMaterial()
	r.AddObject(Object{ID: 1, Mesh: quad, World: translated(0, 0, 0), Material: m})
	if err := r.Render(nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	r.Destroy()
	r.Destroy()

	if dev.LiveBuffers() != 0 {
		t.Errorf("Expected every buffer released, got %d live", dev.LiveBuffers())
	}
	if dev.LiveBindGroups() != 0 {
		t.Errorf("Expected every bind group released, got %d live", dev.LiveBindGroups())
	}
	if m.CachedRoots() != 0 {
		t.Errorf("Expected the material cache to be evicted, got %d", m.CachedRoots())
	}
	if _, ready := quad.Peek(dev); ready {
		t.Error("Expected the mesh to be evicted for the device")
	}
	if err := r.Render(nil); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed, got %v", err)
	}
}

func TestFrustumFilter(t *testing.T) {
	tr := scene.DefaultTransform()
	tr.Position = common.Vec3{0, 0, 10}
	pov := camera.NewPOV(camera.ComputeView(tr), camera.DefaultPerspective().Projection(1), common.Color{})

	centers := map[world.Entity]common.Vec3{
		1: {0, 0, 0},
		2: {0, 0, 50},
	}
	filter := FrustumFilter(pov.ViewProj, func(id world.Entity) (common.Vec3, float32, bool) {
		c, ok := centers[id]
		return c, 1, ok
	})
	if !filter(1) {
		t.Error("Expected an object in front of the camera to pass")
	}
	if filter(2) {
		t.Error("Expected an object behind the camera to be culled")
	}
	if !filter(3) {
		t.Error("Expected an object without bounds to pass")
	}
}

func TestObjectUniforms(t *testing.T) {
	m := common.Mat4Scaling(common.Vec3{2, 4, 8})
	u := NewObjectUniforms(m)
	n := u.NormalModelMat.TransformVector(common.Vec3{1, 1, 1})
	if n.Sub(common.Vec3{0.5, 0.25, 0.125}).Len() > 1e-5 {
		t.Errorf("Expected inverse-transpose scaling of normals, got %v", n)
	}
	if len(u.Marshal()) != ObjectUniformsSize {
		t.Errorf("Expected %d bytes, got %d", ObjectUniformsSize, len(u.Marshal()))
	}
	if singular := NewObjectUniforms(common.Mat4{}); singular.InvModelMat != common.Mat4Identity() {
		t.Error("Expected identity inverse for a singular matrix")
	}
}

func TestClearColorOption(t *testing.T) {
	dev := devicetest.New()
	c := common.Color{R: 0.2, G: 0.2, B: 0.2, A: 1}
	r, err := NewRenderer(dev, 800, 600, WithClearColor(c))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer r.Destroy()

	if r.POV().Clear != c {
		t.Errorf("Expected clear color %v before any camera, got %v", c, r.POV().Clear)
	}
}
