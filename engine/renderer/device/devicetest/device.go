// Package devicetest provides an in-memory device.Device that records every call.
//
// It is used by renderer, material and mesh tests to assert on resource lifetimes
// and draw calls without a GPU.
package devicetest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/google/uuid"
)

// ErrPipelineFailure is returned by CreateRenderPipeline when FailPipelines is set.
var ErrPipelineFailure = errors.New("devicetest: pipeline creation failed")

// Buffer is a recorded buffer. Data mirrors every WriteBuffer call.
type Buffer struct {
	label    string
	Usage    device.BufferUsage
	Data     []byte
	Released bool
}

func (b *Buffer) Label() string { return b.label }
func (b *Buffer) Size() uint64  { return uint64(len(b.Data)) }
func (b *Buffer) Release()      { b.Released = true }

// BindGroupLayout is a recorded bind group layout.
type BindGroupLayout struct {
	Desc     device.BindGroupLayoutDescriptor
	Released bool
}

func (l *BindGroupLayout) Release() { l.Released = true }

// BindGroup is a recorded bind group.
type BindGroup struct {
	Desc     device.BindGroupDescriptor
	Released bool
}

func (g *BindGroup) Release() { g.Released = true }

// Pipeline is a recorded render pipeline.
type Pipeline struct {
	Desc     device.RenderPipelineDescriptor
	Released bool
}

func (p *Pipeline) Release() { p.Released = true }

// TextureView is a recorded texture view.
type TextureView struct {
	Label    string
	Released bool
}

func (v *TextureView) Release() { v.Released = true }

// Texture is a recorded texture.
type Texture struct {
	Desc     device.TextureDescriptor
	view     *TextureView
	Released bool
}

func (t *Texture) View() device.TextureView     { return t.view }
func (t *Texture) Width() uint32                { return t.Desc.Width }
func (t *Texture) Height() uint32               { return t.Desc.Height }
func (t *Texture) Format() device.TextureFormat { return t.Desc.Format }
func (t *Texture) Release()                     { t.Released = true; t.view.Released = true }

// DrawCall captures the pass state at the time Draw was called.
type DrawCall struct {
	Pass          int
	Pipeline      *Pipeline
	BindGroups    map[uint32]*BindGroup
	VertexBuffers map[uint32]*Buffer
	VertexCount   uint32
	InstanceCount uint32
}

// Pass is a recorded render pass.
type Pass struct {
	Desc  device.RenderPassDescriptor
	Ended bool

	dev        *Device
	index      int
	pipeline   *Pipeline
	bindGroups map[uint32]*BindGroup
	vertex     map[uint32]*Buffer
}

var _ device.RenderPass = &Pass{}

func (p *Pass) SetPipeline(rp device.RenderPipeline) { p.pipeline = rp.(*Pipeline) }

func (p *Pass) SetBindGroup(index uint32, bg device.BindGroup) {
	p.bindGroups[index] = bg.(*BindGroup)
}

func (p *Pass) SetVertexBuffer(slot uint32, buf device.Buffer) {
	p.vertex[slot] = buf.(*Buffer)
}

func (p *Pass) Draw(vertexCount, instanceCount uint32) {
	call := DrawCall{
		Pass:          p.index,
		Pipeline:      p.pipeline,
		BindGroups:    make(map[uint32]*BindGroup, len(p.bindGroups)),
		VertexBuffers: make(map[uint32]*Buffer, len(p.vertex)),
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
	}
	for k, v := range p.bindGroups {
		call.BindGroups[k] = v
	}
	for k, v := range p.vertex {
		call.VertexBuffers[k] = v
	}
	p.dev.mu.Lock()
	p.dev.draws = append(p.dev.draws, call)
	p.dev.mu.Unlock()
}

func (p *Pass) End() error {
	if p.Ended {
		return fmt.Errorf("devicetest: pass %d ended twice", p.index)
	}
	p.Ended = true
	return nil
}

// Device is a recording device.Device.
type Device struct {
	// Format is returned by SurfaceFormat.
	Format device.TextureFormat
	// FailPipelines makes CreateRenderPipeline fail with ErrPipelineFailure.
	FailPipelines bool

	mu          sync.Mutex
	id          uuid.UUID
	buffers     []*Buffer
	layouts     []*BindGroupLayout
	bindGroups  []*BindGroup
	pipelines   []*Pipeline
	textures    []*Texture
	passes      []*Pass
	draws       []DrawCall
	writes      int
	submits     int
	presents    int
	surfaceView *TextureView
	surfaceSize [2]uint32
	destroyed   bool
}

var _ device.Device = &Device{}
var _ device.Presenter = &Device{}

// New returns an empty recording device with a BGRA8 surface.
func New() *Device {
	return &Device{
		Format: device.TextureFormatBGRA8Unorm,
		id:     uuid.New(),
	}
}

func (d *Device) ID() uuid.UUID { return d.id }

func (d *Device) CreateBuffer(desc device.BufferDescriptor) (device.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := &Buffer{label: desc.Label, Usage: desc.Usage, Data: make([]byte, desc.Size)}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *Device) WriteBuffer(buf device.Buffer, offset uint64, data []byte) error {
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("devicetest: foreign buffer %T", buf)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if b.Released {
		return fmt.Errorf("devicetest: write to released buffer %q", b.label)
	}
	if offset+uint64(len(data)) > uint64(len(b.Data)) {
		return fmt.Errorf("devicetest: write of %d bytes at %d overflows buffer %q of %d bytes", len(data), offset, b.label, len(b.Data))
	}
	copy(b.Data[offset:], data)
	d.writes++
	return nil
}

func (d *Device) CreateBindGroupLayout(desc device.BindGroupLayoutDescriptor) (device.BindGroupLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l := &BindGroupLayout{Desc: desc}
	d.layouts = append(d.layouts, l)
	return l, nil
}

func (d *Device) CreateBindGroup(desc device.BindGroupDescriptor) (device.BindGroup, error) {
	if desc.Layout == nil {
		return nil, fmt.Errorf("devicetest: bind group %q has no layout", desc.Label)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	g := &BindGroup{Desc: desc}
	d.bindGroups = append(d.bindGroups, g)
	return g, nil
}

func (d *Device) CreateRenderPipeline(desc device.RenderPipelineDescriptor) (device.RenderPipeline, error) {
	if d.FailPipelines {
		return nil, ErrPipelineFailure
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &Pipeline{Desc: desc}
	d.pipelines = append(d.pipelines, p)
	return p, nil
}

func (d *Device) CreateTexture(desc device.TextureDescriptor) (device.Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("devicetest: texture %q has zero extent", desc.Label)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	t := &Texture{Desc: desc, view: &TextureView{Label: desc.Label + " View"}}
	d.textures = append(d.textures, t)
	return t, nil
}

func (d *Device) SurfaceFormat() device.TextureFormat { return d.Format }

func (d *Device) ConfigureSurface(width, height uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.surfaceSize = [2]uint32{width, height}
	return nil
}

func (d *Device) CurrentTextureView() (device.TextureView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.surfaceView == nil {
		d.surfaceView = &TextureView{Label: "Surface View"}
	}
	return d.surfaceView, nil
}

func (d *Device) BeginRenderPass(desc device.RenderPassDescriptor) (device.RenderPass, error) {
	if len(desc.ColorAttachments) == 0 {
		return nil, fmt.Errorf("devicetest: pass %q has no color attachment", desc.Label)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &Pass{
		Desc:       desc,
		dev:        d,
		index:      len(d.passes),
		bindGroups: make(map[uint32]*BindGroup),
		vertex:     make(map[uint32]*Buffer),
	}
	d.passes = append(d.passes, p)
	return p, nil
}

func (d *Device) Submit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.passes {
		if !p.Ended {
			return fmt.Errorf("devicetest: submit with open pass %d", p.index)
		}
	}
	d.submits++
	return nil
}

func (d *Device) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.presents++
	d.surfaceView = nil
	return nil
}

func (d *Device) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyed = true
}

// Draws returns every draw call recorded so far.
func (d *Device) Draws() []DrawCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DrawCall(nil), d.draws...)
}

// Passes returns every render pass begun so far.
func (d *Device) Passes() []*Pass {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Pass(nil), d.passes...)
}

// ResetDraws forgets recorded passes and draw calls.
func (d *Device) ResetDraws() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draws = nil
	d.passes = nil
}

// Buffers returns every buffer created so far, released or not.
func (d *Device) Buffers() []*Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Buffer(nil), d.buffers...)
}

// LiveBuffers counts buffers that have not been released.
func (d *Device) LiveBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, b := range d.buffers {
		if !b.Released {
			n++
		}
	}
	return n
}

// LiveBindGroups counts bind groups that have not been released.
func (d *Device) LiveBindGroups() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, g := range d.bindGroups {
		if !g.Released {
			n++
		}
	}
	return n
}

// Pipelines returns every pipeline created so far.
func (d *Device) Pipelines() []*Pipeline {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Pipeline(nil), d.pipelines...)
}

// Textures returns every texture created so far.
func (d *Device) Textures() []*Texture {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Texture(nil), d.textures...)
}

// Writes counts successful WriteBuffer calls.
func (d *Device) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// Submits counts successful Submit calls.
func (d *Device) Submits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submits
}

// Presents counts Present calls.
func (d *Device) Presents() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presents
}

// SurfaceSize returns the size passed to the last ConfigureSurface.
func (d *Device) SurfaceSize() (uint32, uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.surfaceSize[0], d.surfaceSize[1]
}

// Destroyed reports whether Destroy was called.
func (d *Device) Destroyed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}
