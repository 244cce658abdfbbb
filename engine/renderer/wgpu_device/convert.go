package wgpu_device

import (
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/cogentcore/webgpu/wgpu"
)

var textureFormats = map[device.TextureFormat]wgpu.TextureFormat{
	device.TextureFormatBGRA8Unorm:     wgpu.TextureFormatBGRA8Unorm,
	device.TextureFormatBGRA8UnormSrgb: wgpu.TextureFormatBGRA8UnormSrgb,
	device.TextureFormatRGBA8Unorm:     wgpu.TextureFormatRGBA8Unorm,
	device.TextureFormatRGBA8UnormSrgb: wgpu.TextureFormatRGBA8UnormSrgb,
	device.TextureFormatDepth24Plus:    wgpu.TextureFormatDepth24Plus,
}

func toTextureFormat(f device.TextureFormat) wgpu.TextureFormat {
	if wf, ok := textureFormats[f]; ok {
		return wf
	}
	return wgpu.TextureFormatUndefined
}

func fromTextureFormat(f wgpu.TextureFormat) (device.TextureFormat, bool) {
	for k, v := range textureFormats {
		if v == f {
			return k, true
		}
	}
	return device.TextureFormatUndefined, false
}

func toBufferUsage(u device.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u&device.BufferUsageVertex != 0 {
		out |= wgpu.BufferUsageVertex
	}
	if u&device.BufferUsageUniform != 0 {
		out |= wgpu.BufferUsageUniform
	}
	if u&device.BufferUsageStorage != 0 {
		out |= wgpu.BufferUsageStorage
	}
	if u&device.BufferUsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	return out
}

func toTextureUsage(u device.TextureUsage) wgpu.TextureUsage {
	var out wgpu.TextureUsage
	if u&device.TextureUsageRenderAttachment != 0 {
		out |= wgpu.TextureUsageRenderAttachment
	}
	if u&device.TextureUsageTextureBinding != 0 {
		out |= wgpu.TextureUsageTextureBinding
	}
	if u&device.TextureUsageCopySrc != 0 {
		out |= wgpu.TextureUsageCopySrc
	}
	return out
}

func toShaderStage(s device.ShaderStage) wgpu.ShaderStage {
	var out wgpu.ShaderStage
	if s&device.ShaderStageVertex != 0 {
		out |= wgpu.ShaderStageVertex
	}
	if s&device.ShaderStageFragment != 0 {
		out |= wgpu.ShaderStageFragment
	}
	return out
}

func toBindingType(t device.BindingType) wgpu.BufferBindingType {
	if t == device.BindingTypeReadOnlyStorage {
		return wgpu.BufferBindingTypeReadOnlyStorage
	}
	return wgpu.BufferBindingTypeUniform
}

var vertexFormats = map[device.VertexFormat]wgpu.VertexFormat{
	device.VertexFormatFloat32:   wgpu.VertexFormatFloat32,
	device.VertexFormatFloat32x2: wgpu.VertexFormatFloat32x2,
	device.VertexFormatFloat32x3: wgpu.VertexFormatFloat32x3,
	device.VertexFormatFloat32x4: wgpu.VertexFormatFloat32x4,
}

func toVertexFormat(f device.VertexFormat) wgpu.VertexFormat {
	return vertexFormats[f]
}

func toStepMode(m device.StepMode) wgpu.VertexStepMode {
	if m == device.StepModeInstance {
		return wgpu.VertexStepModeInstance
	}
	return wgpu.VertexStepModeVertex
}

func toCullMode(c device.CullMode) wgpu.CullMode {
	switch c {
	case device.CullModeFront:
		return wgpu.CullModeFront
	case device.CullModeBack:
		return wgpu.CullModeBack
	}
	return wgpu.CullModeNone
}

func toTopology(t device.Topology) wgpu.PrimitiveTopology {
	switch t {
	case device.TopologyTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	case device.TopologyLineList:
		return wgpu.PrimitiveTopologyLineList
	case device.TopologyPointList:
		return wgpu.PrimitiveTopologyPointList
	}
	return wgpu.PrimitiveTopologyTriangleList
}

func toCompare(c device.CompareFunction) wgpu.CompareFunction {
	switch c {
	case device.CompareLessEqual:
		return wgpu.CompareFunctionLessEqual
	case device.CompareAlways:
		return wgpu.CompareFunctionAlways
	}
	return wgpu.CompareFunctionLess
}

func toLoadOp(op device.LoadOp) wgpu.LoadOp {
	if op == device.LoadOpLoad {
		return wgpu.LoadOpLoad
	}
	return wgpu.LoadOpClear
}

func toBlendState(b device.BlendMode) *wgpu.BlendState {
	switch b {
	case device.BlendAlpha:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	case device.BlendAdditive:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}
	return nil
}
