package material

import (
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/shader"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material. Defaults to the shader key.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithShader sets the shader of the material.
//
// Parameters:
//   - s: the parsed shader holding both entry points
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shader option to a material
func WithShader(s shader.Shader) MaterialBuilderOption {
	return func(m *material) {
		m.shader = s
	}
}

// WithVertexLayout overrides the per-vertex layout. Defaults to mesh.PosNormalUVLayout.
func WithVertexLayout(layout device.VertexBufferLayout) MaterialBuilderOption {
	return func(m *material) {
		m.vertexLayout = layout
	}
}

// WithInstanceLayout makes the material instanced with the given per-instance layout.
// The step mode is forced to instance.
//
// Parameters:
//   - layout: the layout of one instance record
//
// Returns:
//   - MaterialBuilderOption: a function that applies the instance layout to a material
func WithInstanceLayout(layout device.VertexBufferLayout) MaterialBuilderOption {
	return func(m *material) {
		layout.StepMode = device.StepModeInstance
		m.instanceLayout = &layout
	}
}

// WithParams declares the parameter block read at group 2 binding 0.
//
// Parameters:
//   - defaults: the default parameter bytes; their length is the block size
//
// Returns:
//   - MaterialBuilderOption: a function that applies the params option to a material
func WithParams(defaults []byte) MaterialBuilderOption {
	return func(m *material) {
		m.paramsSize = uint64(len(defaults))
		m.paramsDefaults = append([]byte(nil), defaults...)
	}
}

// WithPipelineOptions sets fixed-function state applied on top of the pipeline defaults.
func WithPipelineOptions(opts ...pipeline.PipelineBuilderOption) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineOpts = append(m.pipelineOpts, opts...)
	}
}
