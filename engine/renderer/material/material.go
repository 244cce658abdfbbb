// Package material pairs a shader with its vertex layout, parameter block and fixed-function
// state, and caches the compiled pipeline per device.
package material

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/wayfare/engine/mesh"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/shader"
	"github.com/google/uuid"
)

// Bind group indices shared by every material shader.
const (
	GroupPOV    = 0
	GroupObject = 1
	GroupParams = 2
	GroupExtra  = 3
)

// Vertex buffer slots shared by every material shader.
const (
	SlotMesh     = 0
	SlotInstance = 1
)

// SharedLayouts are the bind group layouts owned by the renderer and placed at groups 0 and 1
// of every material pipeline.
type SharedLayouts struct {
	POV    device.BindGroupLayout
	Object device.BindGroupLayout
}

// Resources are the device objects a material compiles to on one device.
type Resources struct {
	Pipeline device.RenderPipeline

	// ParamsLayout is nil when the material has no parameters.
	ParamsLayout device.BindGroupLayout

	// ExtraLayout is nil when the shader declares no group 3.
	ExtraLayout device.BindGroupLayout

	// EmptyGroup is bound at group 2 when the shader uses group 3 without parameters.
	EmptyGroup device.BindGroup

	placeholder device.BindGroupLayout
}

func (r *Resources) release() {
	r.Pipeline.Release()
	if r.EmptyGroup != nil {
		r.EmptyGroup.Release()
	}
	for _, l := range []device.BindGroupLayout{r.ParamsLayout, r.ExtraLayout, r.placeholder} {
		if l != nil {
			l.Release()
		}
	}
}

type cacheKey struct {
	root   uuid.UUID
	format device.TextureFormat
}

// material is the implementation of the Material interface.
type material struct {
	name           string
	shader         shader.Shader
	vertexLayout   device.VertexBufferLayout
	instanceLayout *device.VertexBufferLayout
	paramsSize     uint64
	paramsDefaults []byte
	pipelineOpts   []pipeline.PipelineBuilderOption

	mu    sync.Mutex
	cache map[cacheKey]*Resources
}

// Material describes how a mesh is shaded. It is device independent: GPU objects are
// created on first use for each device and color format and cached until evicted.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Shader returns the parsed shader of the material.
	Shader() shader.Shader

	// VertexLayout returns the per-vertex layout bound at SlotMesh.
	VertexLayout() device.VertexBufferLayout

	// InstanceLayout returns the per-instance layout bound at SlotInstance, or nil if the
	// material is not instanced.
	InstanceLayout() *device.VertexBufferLayout

	// HasParams reports whether the material reads a parameter block at group 2.
	HasParams() bool

	// ParamsSize returns the byte size of the parameter block.
	ParamsSize() uint64

	// DefaultParams returns a copy of the default parameter bytes.
	DefaultParams() []byte

	// UsesExtra reports whether the shader declares an extra bind group at group 3.
	UsesExtra() bool

	// Resources returns the compiled pipeline and material layouts for a device, creating
	// them on first use.
	//
	// Parameters:
	//   - dev: the device to compile on
	//   - format: the color target format
	//   - shared: the renderer-owned layouts for groups 0 and 1
	//
	// Returns:
	//   - *Resources: the cached resources
	//   - error: error if a layout or the pipeline could not be created
	Resources(dev device.Device, format device.TextureFormat, shared SharedLayouts) (*Resources, error)

	// Evict releases every resource cached for the device with the given id.
	Evict(root uuid.UUID)

	// CachedRoots returns the number of cached device/format entries.
	CachedRoots() int
}

var _ Material = &material{}

// NewMaterial creates a Material. WithShader is required. The parameter block size must
// match the size the shader declares for group 2 binding 0.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		vertexLayout: mesh.PosNormalUVLayout,
		cache:        make(map[cacheKey]*Resources),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.shader == nil {
		panic("material: NewMaterial requires a non-nil Shader")
	}
	if m.name == "" {
		m.name = m.shader.Key()
	}

	declared := m.shader.BindGroupLayoutEntries(GroupParams)
	switch {
	case m.paramsSize == 0 && len(declared) > 0:
		panic(fmt.Sprintf("material %s: shader declares group %d but no params were configured", m.name, GroupParams))
	case m.paramsSize > 0 && len(declared) == 0:
		panic(fmt.Sprintf("material %s: params configured but shader declares no group %d", m.name, GroupParams))
	case m.paramsSize > 0 && declared[0].MinBindingSize != 0 && declared[0].MinBindingSize != m.paramsSize:
		panic(fmt.Sprintf("material %s: params size %d does not match shader size %d", m.name, m.paramsSize, declared[0].MinBindingSize))
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Shader() shader.Shader {
	return m.shader
}

func (m *material) VertexLayout() device.VertexBufferLayout {
	return m.vertexLayout
}

func (m *material) InstanceLayout() *device.VertexBufferLayout {
	return m.instanceLayout
}

func (m *material) HasParams() bool {
	return m.paramsSize > 0
}

func (m *material) ParamsSize() uint64 {
	return m.paramsSize
}

func (m *material) DefaultParams() []byte {
	return append([]byte(nil), m.paramsDefaults...)
}

func (m *material) UsesExtra() bool {
	return len(m.shader.BindGroupLayoutEntries(GroupExtra)) > 0
}

func (m *material) Resources(dev device.Device, format device.TextureFormat, shared SharedLayouts) (*Resources, error) {
	if dev == nil {
		panic("material: Resources requires a non-nil Device")
	}
	key := cacheKey{root: dev.ID(), format: format}

	m.mu.Lock()
	defer m.mu.Unlock()
	if res, ok := m.cache[key]; ok {
		return res, nil
	}

	res, err := m.compile(dev, format, shared)
	if err != nil {
		return nil, err
	}
	m.cache[key] = res
	return res, nil
}

// compile creates the layouts and pipeline. Partially created objects are released on error.
func (m *material) compile(dev device.Device, format device.TextureFormat, shared SharedLayouts) (*Resources, error) {
	res := &Resources{}
	fail := func(what string, err error) (*Resources, error) {
		if res.EmptyGroup != nil {
			res.EmptyGroup.Release()
		}
		for _, l := range []device.BindGroupLayout{res.ParamsLayout, res.ExtraLayout, res.placeholder} {
			if l != nil {
				l.Release()
			}
		}
		return nil, fmt.Errorf("material %s: %s: %w", m.name, what, err)
	}

	layouts := []device.BindGroupLayout{shared.POV, shared.Object}
	var err error
	if m.HasParams() {
		res.ParamsLayout, err = dev.CreateBindGroupLayout(device.BindGroupLayoutDescriptor{
			Label:   m.name + " params",
			Entries: m.shader.BindGroupLayoutEntries(GroupParams),
		})
		if err != nil {
			return fail("params layout", err)
		}
		layouts = append(layouts, res.ParamsLayout)
	}
	if m.UsesExtra() {
		if res.ParamsLayout == nil {
			res.placeholder, err = dev.CreateBindGroupLayout(device.BindGroupLayoutDescriptor{Label: m.name + " empty"})
			if err != nil {
				return fail("placeholder layout", err)
			}
			res.EmptyGroup, err = dev.CreateBindGroup(device.BindGroupDescriptor{Label: m.name + " empty", Layout: res.placeholder})
			if err != nil {
				return fail("placeholder group", err)
			}
			layouts = append(layouts, res.placeholder)
		}
		res.ExtraLayout, err = dev.CreateBindGroupLayout(device.BindGroupLayoutDescriptor{
			Label:   m.name + " extra",
			Entries: m.shader.BindGroupLayoutEntries(GroupExtra),
		})
		if err != nil {
			return fail("extra layout", err)
		}
		layouts = append(layouts, res.ExtraLayout)
	}

	buffers := []device.VertexBufferLayout{m.vertexLayout}
	if m.instanceLayout != nil {
		buffers = append(buffers, *m.instanceLayout)
	}
	opts := append([]pipeline.PipelineBuilderOption{pipeline.WithVertexBuffers(buffers...)}, m.pipelineOpts...)
	p := pipeline.NewPipeline(m.name, m.shader, opts...)

	res.Pipeline, err = dev.CreateRenderPipeline(p.Descriptor(format, layouts))
	if err != nil {
		return fail("pipeline", err)
	}
	return res, nil
}

func (m *material) Evict(root uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, res := range m.cache {
		if key.root == root {
			res.release()
			delete(m.cache, key)
		}
	}
}

func (m *material) CachedRoots() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cache)
}
