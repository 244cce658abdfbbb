package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/Carmen-Shannon/wayfare/engine/renderer/shader"
)

const testSource = `
struct VertexInput {
    @location(0) position: vec3<f32>,
}

@vertex
fn vs(in: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(in.position, 1.0);
}

@fragment
fn fs() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("test", shader.MustShader("test", testSource))
	if !p.DepthTestEnabled() || !p.DepthWriteEnabled() {
		t.Error("Expected depth test and write enabled by default")
	}
	if p.CullMode() != device.CullModeBack {
		t.Errorf("Expected back-face culling, got %d", p.CullMode())
	}
	if p.Topology() != device.TopologyTriangleList {
		t.Errorf("Expected triangle list, got %d", p.Topology())
	}
	if p.Blend() != device.BlendNone {
		t.Errorf("Expected no blending, got %d", p.Blend())
	}
}

func TestDescriptor(t *testing.T) {
	layout := device.VertexBufferLayout{ArrayStride: 12, Attributes: []device.VertexAttribute{{Format: device.VertexFormatFloat32x3}}}
	p := NewPipeline("test", shader.MustShader("test", testSource),
		WithCullMode(device.CullModeNone),
		WithBlend(device.BlendAlpha),
		WithDepthWriteEnabled(false),
		WithVertexBuffers(layout),
	)
	desc := p.Descriptor(device.TextureFormatBGRA8Unorm, nil)
	if desc.VertexEntry != "vs" || desc.FragmentEntry != "fs" {
		t.Errorf("Expected entries vs/fs, got %s/%s", desc.VertexEntry, desc.FragmentEntry)
	}
	if desc.DepthFormat != device.TextureFormatDepth24Plus || desc.DepthWrite {
		t.Errorf("Expected depth24plus without writes, got format %d write %v", desc.DepthFormat, desc.DepthWrite)
	}
	if desc.CullMode != device.CullModeNone || desc.Blend != device.BlendAlpha {
		t.Errorf("Expected options applied, got cull %d blend %d", desc.CullMode, desc.Blend)
	}
	if len(desc.VertexBuffers) != 1 || desc.VertexBuffers[0].ArrayStride != 12 {
		t.Errorf("Expected one vertex buffer with stride 12, got %+v", desc.VertexBuffers)
	}

	noDepth := NewPipeline("overlay", shader.MustShader("overlay", testSource), WithDepthTestEnabled(false))
	if d := noDepth.Descriptor(device.TextureFormatBGRA8Unorm, nil); d.DepthFormat != device.TextureFormatUndefined {
		t.Errorf("Expected no depth format when depth test is disabled, got %d", d.DepthFormat)
	}
}
