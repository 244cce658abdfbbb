package pipeline

import "github.com/Carmen-Shannon/wayfare/engine/renderer/device"

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithDepthTestEnabled toggles the depth attachment. Disabled pipelines have no depth state.
//
// Parameters:
//   - enabled: whether depth testing is enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test flag
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled toggles depth writes.
//
// Parameters:
//   - enabled: whether depth writes are enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth write flag
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithDepthCompare sets the depth comparison function.
func WithDepthCompare(compare device.CompareFunction) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthCompare = compare
	}
}

// WithCullMode sets the face culling mode.
//
// Parameters:
//   - mode: the cull mode (device.CullModeNone, device.CullModeFront, device.CullModeBack)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode
func WithCullMode(mode device.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology.
func WithTopology(topology device.Topology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithBlend sets the color blend mode.
//
// Parameters:
//   - mode: the blend mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend mode
func WithBlend(mode device.BlendMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blend = mode
	}
}

// WithVertexBuffers sets the vertex buffer layouts in slot order.
//
// Parameters:
//   - layouts: slot 0 is the mesh buffer, slot 1 the optional instance buffer
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex buffer layouts
func WithVertexBuffers(layouts ...device.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexBuffers = layouts
	}
}
