package pipeline

import (
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/shader"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the fixed-function state used to build a render pipeline for one shader.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for labels and lookups
	pipelineKey string
	shader      shader.Shader

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthCompare      device.CompareFunction
	cullMode          device.CullMode
	topology          device.Topology
	blend             device.BlendMode
	vertexBuffers     []device.VertexBufferLayout
}

// Pipeline describes the fixed-function state of a render pipeline: depth, cull, topology,
// blend and vertex buffer layouts, paired with the shader holding both entry points.
type Pipeline interface {
	// PipelineKey returns the unique key of this pipeline.
	//
	// Returns:
	//   - string: the key
	PipelineKey() string

	// Shader returns the shader this pipeline compiles.
	Shader() shader.Shader

	DepthTestEnabled() bool
	DepthWriteEnabled() bool
	DepthCompare() device.CompareFunction
	CullMode() device.CullMode
	Topology() device.Topology
	Blend() device.BlendMode

	// VertexBuffers returns the vertex buffer layouts in slot order.
	VertexBuffers() []device.VertexBufferLayout

	// Descriptor builds the device descriptor for this pipeline.
	//
	// Parameters:
	//   - colorFormat: the format of the color target
	//   - layouts: the bind group layouts in group order
	//
	// Returns:
	//   - device.RenderPipelineDescriptor: the descriptor to pass to Device.CreateRenderPipeline
	Descriptor(colorFormat device.TextureFormat, layouts []device.BindGroupLayout) device.RenderPipelineDescriptor
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline for a shader with the given options applied on top of the defaults:
// depth test and write enabled with a less-than compare, back-face culling, triangle lists and no blending.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - s: the shader holding the vertex and fragment entry points
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	if s == nil {
		panic("pipeline: NewPipeline requires a non-nil Shader")
	}
	p := &pipeline{
		pipelineKey:       pipelineKey,
		shader:            s,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		depthCompare:      device.CompareLess,
		cullMode:          device.CullModeBack,
		topology:          device.TopologyTriangleList,
		blend:             device.BlendNone,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() device.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) CullMode() device.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() device.Topology {
	return p.topology
}

func (p *pipeline) Blend() device.BlendMode {
	return p.blend
}

func (p *pipeline) VertexBuffers() []device.VertexBufferLayout {
	return p.vertexBuffers
}

func (p *pipeline) Descriptor(colorFormat device.TextureFormat, layouts []device.BindGroupLayout) device.RenderPipelineDescriptor {
	desc := device.RenderPipelineDescriptor{
		Label:            p.pipelineKey,
		ShaderSource:     p.shader.Source(),
		VertexEntry:      p.shader.VertexEntry(),
		FragmentEntry:    p.shader.FragmentEntry(),
		VertexBuffers:    p.vertexBuffers,
		BindGroupLayouts: layouts,
		ColorFormat:      colorFormat,
		CullMode:         p.cullMode,
		Topology:         p.topology,
		Blend:            p.blend,
	}
	if p.depthTestEnabled {
		desc.DepthFormat = device.TextureFormatDepth24Plus
		desc.DepthWrite = p.depthWriteEnabled
		desc.DepthCompare = p.depthCompare
	}
	return desc
}
