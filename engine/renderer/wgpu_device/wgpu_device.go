package wgpu_device

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// ErrForeignHandle is returned when a handle created by another device implementation is passed in.
var ErrForeignHandle = errors.New("wgpu_device: handle was not created by this device")

type wgpuDevice struct {
	mu *sync.Mutex
	id uuid.UUID

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	forceFallback bool
	label         string

	// frame state, reset after Submit and Present
	frameEncoder *wgpu.CommandEncoder
	frameSurface *wgpu.Texture
	frameView    *textureView
}

var _ device.Device = &wgpuDevice{}
var _ device.Presenter = &wgpuDevice{}

// NewDevice creates a WebGPU device presenting to the surface described by surfaceDescriptor.
// The calling goroutine is locked to its OS thread, as required by the native surface.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor, typically from Window.SurfaceDescriptor
//   - options: builder options applied before the adapter is requested
//
// Returns:
//   - device.Device: the device, which also implements device.Presenter
//   - error: error if no adapter or device could be obtained
func NewDevice(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...DeviceBuilderOption) (device.Device, error) {
	if surfaceDescriptor == nil {
		panic("wgpu_device: NewDevice requires a non-nil surface descriptor")
	}
	runtime.LockOSThread()

	d := &wgpuDevice{
		mu:          &sync.Mutex{},
		id:          uuid.New(),
		presentMode: wgpu.PresentModeFifo,
		label:       "Wayfare Device",
	}
	for _, opt := range options {
		opt(d)
	}

	d.instance = wgpu.CreateInstance(nil)
	d.surface = d.instance.CreateSurface(surfaceDescriptor)

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: d.forceFallback,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		d.Destroy()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	d.adapter = adapter

	limits := wgpu.DefaultLimits()
	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: d.label,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		d.Destroy()
		return nil, fmt.Errorf("request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surfaceFormat = capabilities.Formats[0]
	for _, f := range capabilities.Formats {
		if _, ok := fromTextureFormat(f); ok {
			d.surfaceFormat = f
			break
		}
	}

	return d, nil
}

func (d *wgpuDevice) ID() uuid.UUID {
	return d.id
}

func (d *wgpuDevice) CreateBuffer(desc device.BufferDescriptor) (device.Buffer, error) {
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  alignBufferSize(desc.Size),
		Usage: toBufferUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %q: %w", desc.Label, err)
	}
	return &buffer{label: desc.Label, size: desc.Size, buf: buf}, nil
}

func (d *wgpuDevice) WriteBuffer(buf device.Buffer, offset uint64, data []byte) error {
	b, ok := buf.(*buffer)
	if !ok {
		return ErrForeignHandle
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("write of %d bytes at %d overflows buffer %q of %d bytes", len(data), offset, b.label, b.size)
	}
	if len(data) == 0 {
		return nil
	}
	// Queue writes must be 4-byte aligned.
	if pad := len(data) % 4; pad != 0 {
		padded := make([]byte, len(data)+4-pad)
		copy(padded, data)
		data = padded
	}
	d.queue.WriteBuffer(b.buf, offset, data)
	return nil
}

func (d *wgpuDevice) CreateBindGroupLayout(desc device.BindGroupLayoutDescriptor) (device.BindGroupLayout, error) {
	entries := make([]wgpu.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: toShaderStage(e.Visibility),
			Buffer: wgpu.BufferBindingLayout{
				Type:           toBindingType(e.Type),
				MinBindingSize: e.MinBindingSize,
			},
		}
	}
	layout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout %q: %w", desc.Label, err)
	}
	return &bindGroupLayout{layout: layout}, nil
}

func (d *wgpuDevice) CreateBindGroup(desc device.BindGroupDescriptor) (device.BindGroup, error) {
	layout, ok := desc.Layout.(*bindGroupLayout)
	if !ok {
		return nil, ErrForeignHandle
	}
	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		b, ok := e.Buffer.(*buffer)
		if !ok {
			return nil, ErrForeignHandle
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  b.buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}
	bg, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group %q: %w", desc.Label, err)
	}
	return &bindGroup{group: bg}, nil
}

func (d *wgpuDevice) CreateRenderPipeline(desc device.RenderPipelineDescriptor) (device.RenderPipeline, error) {
	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.ShaderSource,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("compile shader %q: %w", desc.Label, err)
	}
	defer module.Release()

	layouts := make([]*wgpu.BindGroupLayout, len(desc.BindGroupLayouts))
	for i, l := range desc.BindGroupLayouts {
		bl, ok := l.(*bindGroupLayout)
		if !ok {
			return nil, ErrForeignHandle
		}
		layouts[i] = bl.layout
	}
	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label + " Layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout %q: %w", desc.Label, err)
	}

	vertexBuffers := make([]wgpu.VertexBufferLayout, len(desc.VertexBuffers))
	for i, vb := range desc.VertexBuffers {
		attrs := make([]wgpu.VertexAttribute, len(vb.Attributes))
		for j, a := range vb.Attributes {
			attrs[j] = wgpu.VertexAttribute{
				Format:         toVertexFormat(a.Format),
				Offset:         a.Offset,
				ShaderLocation: a.ShaderLocation,
			}
		}
		vertexBuffers[i] = wgpu.VertexBufferLayout{
			ArrayStride: vb.ArrayStride,
			StepMode:    toStepMode(vb.StepMode),
			Attributes:  attrs,
		}
	}

	colorFormat := d.surfaceFormat
	if desc.ColorFormat != device.TextureFormatUndefined {
		colorFormat = toTextureFormat(desc.ColorFormat)
	}

	rpDesc := &wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntry,
			Buffers:    vertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: desc.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    colorFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
				Blend:     toBlendState(desc.Blend),
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  toTopology(desc.Topology),
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  toCullMode(desc.CullMode),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if desc.DepthFormat != device.TextureFormatUndefined {
		rpDesc.DepthStencil = &wgpu.DepthStencilState{
			Format:            toTextureFormat(desc.DepthFormat),
			DepthWriteEnabled: desc.DepthWrite,
			DepthCompare:      toCompare(desc.DepthCompare),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	rp, err := d.device.CreateRenderPipeline(rpDesc)
	if err != nil {
		pipelineLayout.Release()
		return nil, fmt.Errorf("create render pipeline %q: %w", desc.Label, err)
	}
	return &renderPipeline{pipeline: rp, layout: pipelineLayout}, nil
}

func (d *wgpuDevice) CreateTexture(desc device.TextureDescriptor) (device.Texture, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        toTextureFormat(desc.Format),
		Usage:         toTextureUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create texture view %q: %w", desc.Label, err)
	}
	return &texture{desc: desc, tex: tex, view: &textureView{view: view}}, nil
}

func (d *wgpuDevice) SurfaceFormat() device.TextureFormat {
	f, _ := fromTextureFormat(d.surfaceFormat)
	return f
}

func (d *wgpuDevice) ConfigureSurface(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("cannot configure surface to %dx%d", width, height)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: d.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	return nil
}

func (d *wgpuDevice) CurrentTextureView() (device.TextureView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameSurface != nil {
		return d.frameView, nil
	}
	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("acquire surface texture: %w", err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, fmt.Errorf("create surface view: %w", err)
	}
	d.frameSurface = surfaceTexture
	d.frameView = &textureView{view: view}
	return d.frameView, nil
}

func (d *wgpuDevice) BeginRenderPass(desc device.RenderPassDescriptor) (device.RenderPass, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameEncoder == nil {
		encoder, err := d.device.CreateCommandEncoder(nil)
		if err != nil {
			return nil, fmt.Errorf("create command encoder: %w", err)
		}
		d.frameEncoder = encoder
	}

	colors := make([]wgpu.RenderPassColorAttachment, len(desc.ColorAttachments))
	for i, c := range desc.ColorAttachments {
		v, ok := c.View.(*textureView)
		if !ok {
			return nil, ErrForeignHandle
		}
		colors[i] = wgpu.RenderPassColorAttachment{
			View:    v.view,
			LoadOp:  toLoadOp(c.Load),
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: c.Clear.R,
				G: c.Clear.G,
				B: c.Clear.B,
				A: c.Clear.A,
			},
		}
	}
	rpDesc := &wgpu.RenderPassDescriptor{
		Label:            desc.Label,
		ColorAttachments: colors,
	}
	if desc.DepthAttachment != nil {
		v, ok := desc.DepthAttachment.View.(*textureView)
		if !ok {
			return nil, ErrForeignHandle
		}
		rpDesc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            v.view,
			DepthLoadOp:     toLoadOp(desc.DepthAttachment.Load),
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: desc.DepthAttachment.Clear,
		}
	}
	return &renderPass{pass: d.frameEncoder.BeginRenderPass(rpDesc)}, nil
}

func (d *wgpuDevice) Submit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameEncoder == nil {
		return nil
	}
	commandBuffer, err := d.frameEncoder.Finish(nil)
	d.frameEncoder.Release()
	d.frameEncoder = nil
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (d *wgpuDevice) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameSurface == nil {
		return nil
	}
	d.surface.Present()
	d.frameView.Release()
	d.frameView = nil
	d.frameSurface.Release()
	d.frameSurface = nil
	return nil
}

func (d *wgpuDevice) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameEncoder != nil {
		d.frameEncoder.Release()
		d.frameEncoder = nil
	}
	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	if d.frameSurface != nil {
		d.frameSurface.Release()
		d.frameSurface = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// alignBufferSize rounds size up to the 4-byte multiple WebGPU requires for mapped copies.
func alignBufferSize(size uint64) uint64 {
	return (size + 3) &^ 3
}
