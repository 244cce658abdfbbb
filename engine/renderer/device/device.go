// Package device is the GPU root abstraction the renderer draws through.
//
// The renderer, materials and meshes only see the interfaces in this package, so the same code
// runs against the WebGPU implementation in package wgpu_device and the recording fake in
// package devicetest.
package device

import (
	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/google/uuid"
)

// BufferUsage is a bit set describing how a buffer may be used.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageCopyDst
)

// TextureFormat enumerates the texture formats the engine renders to.
type TextureFormat int

const (
	TextureFormatUndefined TextureFormat = iota
	TextureFormatBGRA8Unorm
	TextureFormatBGRA8UnormSrgb
	TextureFormatRGBA8Unorm
	TextureFormatRGBA8UnormSrgb
	TextureFormatDepth24Plus
)

// TextureUsage is a bit set describing how a texture may be used.
type TextureUsage uint32

const (
	TextureUsageRenderAttachment TextureUsage = 1 << iota
	TextureUsageTextureBinding
	TextureUsageCopySrc
)

// ShaderStage is a bit set of shader stages a binding is visible to.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
)

// BindingType is the kind of buffer bound at a bind group entry.
type BindingType int

const (
	BindingTypeUniform BindingType = iota
	BindingTypeReadOnlyStorage
)

// VertexFormat is the format of a single vertex attribute.
type VertexFormat int

const (
	VertexFormatFloat32 VertexFormat = iota
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
)

// Size returns the byte size of the format.
func (f VertexFormat) Size() uint64 {
	switch f {
	case VertexFormatFloat32:
		return 4
	case VertexFormatFloat32x2:
		return 8
	case VertexFormatFloat32x3:
		return 12
	case VertexFormatFloat32x4:
		return 16
	}
	return 0
}

// StepMode selects whether a vertex buffer advances per vertex or per instance.
type StepMode int

const (
	StepModeVertex StepMode = iota
	StepModeInstance
)

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// Topology is the primitive topology of a pipeline.
type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
	TopologyLineList
	TopologyPointList
)

// CompareFunction is the depth comparison of a pipeline.
type CompareFunction int

const (
	CompareLess CompareFunction = iota
	CompareLessEqual
	CompareAlways
)

// BlendMode selects the color blend state of a pipeline.
type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendAlpha
	BlendAdditive
)

// LoadOp selects how an attachment is initialised at the start of a pass.
type LoadOp int

const (
	LoadOpClear LoadOp = iota
	LoadOpLoad
)

// VertexAttribute describes one attribute inside a vertex buffer.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexBufferLayout describes the memory layout of one vertex buffer slot.
type VertexBufferLayout struct {
	ArrayStride uint64
	StepMode    StepMode
	Attributes  []VertexAttribute
}

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// TextureDescriptor describes a 2D texture to create.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format TextureFormat
	Usage  TextureUsage
}

// BindGroupLayoutEntry describes one buffer binding inside a bind group layout.
type BindGroupLayoutEntry struct {
	Binding        uint32
	Visibility     ShaderStage
	Type           BindingType
	MinBindingSize uint64
}

// BindGroupLayoutDescriptor describes a bind group layout to create.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BindGroupEntry binds a whole buffer at a binding index.
type BindGroupEntry struct {
	Binding uint32
	Buffer  Buffer
}

// BindGroupDescriptor describes a bind group to create.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// RenderPipelineDescriptor describes a render pipeline to create.
// The shader source holds both entry points.
type RenderPipelineDescriptor struct {
	Label            string
	ShaderSource     string
	VertexEntry      string
	FragmentEntry    string
	VertexBuffers    []VertexBufferLayout
	BindGroupLayouts []BindGroupLayout
	ColorFormat      TextureFormat
	DepthFormat      TextureFormat
	DepthWrite       bool
	DepthCompare     CompareFunction
	CullMode         CullMode
	Topology         Topology
	Blend            BlendMode
}

// ColorAttachment is a color target of a render pass.
type ColorAttachment struct {
	View  TextureView
	Load  LoadOp
	Clear common.Color
}

// DepthAttachment is the depth target of a render pass.
type DepthAttachment struct {
	View  TextureView
	Load  LoadOp
	Clear float32
}

// RenderPassDescriptor describes a render pass to begin.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []ColorAttachment
	DepthAttachment  *DepthAttachment
}

// Buffer is a GPU buffer handle.
type Buffer interface {
	Label() string
	Size() uint64
	Release()
}

// Texture is a GPU texture handle.
type Texture interface {
	// View returns the default view over the whole texture. The view is owned by the texture.
	View() TextureView
	Width() uint32
	Height() uint32
	Format() TextureFormat
	Release()
}

// TextureView is a view onto a texture that can be attached to a render pass.
type TextureView interface {
	Release()
}

// BindGroupLayout is a bind group layout handle.
type BindGroupLayout interface {
	Release()
}

// BindGroup is a bind group handle.
type BindGroup interface {
	Release()
}

// RenderPipeline is a compiled render pipeline handle.
type RenderPipeline interface {
	Release()
}

// RenderPass records draw commands between BeginRenderPass and End.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index uint32, bg BindGroup)
	SetVertexBuffer(slot uint32, buf Buffer)
	Draw(vertexCount, instanceCount uint32)

	// End closes the pass. Commands recorded after End are invalid.
	End() error
}

// Device is the GPU root: it creates resources, records passes and submits work.
//
// A Device is identified by ID so per-device caches (pipelines, mesh buffers) can key on it.
type Device interface {
	// ID returns the stable identity of this device.
	//
	// Returns:
	//   - uuid.UUID: the device identity
	ID() uuid.UUID

	// CreateBuffer allocates a GPU buffer.
	//
	// Parameters:
	//   - desc: the buffer label, size and usage
	//
	// Returns:
	//   - Buffer: the new buffer
	//   - error: error if allocation fails
	CreateBuffer(desc BufferDescriptor) (Buffer, error)

	// WriteBuffer uploads data into buf at offset.
	//
	// Parameters:
	//   - buf: the destination buffer, created by this device
	//   - offset: byte offset into buf
	//   - data: the bytes to upload
	//
	// Returns:
	//   - error: error if the write is out of range or buf is foreign
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	CreateBindGroupLayout(desc BindGroupLayoutDescriptor) (BindGroupLayout, error)
	CreateBindGroup(desc BindGroupDescriptor) (BindGroup, error)
	CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// SurfaceFormat returns the preferred color format of the presentation surface.
	SurfaceFormat() TextureFormat

	// ConfigureSurface resizes the presentation surface.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: error if the surface cannot be configured
	ConfigureSurface(width, height uint32) error

	// CurrentTextureView acquires the surface texture for the current frame.
	// Calling it again before Present returns the same view.
	//
	// Returns:
	//   - TextureView: the view of the current surface texture
	//   - error: error if no surface texture could be acquired
	CurrentTextureView() (TextureView, error)

	BeginRenderPass(desc RenderPassDescriptor) (RenderPass, error)

	// Submit flushes every pass recorded since the last Submit to the GPU queue.
	Submit() error

	// Destroy releases the device and everything it still owns.
	Destroy()
}

// Presenter is implemented by devices that present a surface after submission.
// The renderer calls Present after every flush when the device supports it.
type Presenter interface {
	Present() error
}
