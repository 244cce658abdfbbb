package wgpu_device

import (
	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
	"github.com/cogentcore/webgpu/wgpu"
)

type buffer struct {
	label string
	size  uint64
	buf   *wgpu.Buffer
}

func (b *buffer) Label() string { return b.label }
func (b *buffer) Size() uint64  { return b.size }

func (b *buffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

type bindGroupLayout struct {
	layout *wgpu.BindGroupLayout
}

func (l *bindGroupLayout) Release() {
	if l.layout != nil {
		l.layout.Release()
		l.layout = nil
	}
}

type bindGroup struct {
	group *wgpu.BindGroup
}

func (g *bindGroup) Release() {
	if g.group != nil {
		g.group.Release()
		g.group = nil
	}
}

type renderPipeline struct {
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
}

func (p *renderPipeline) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
}

type textureView struct {
	view *wgpu.TextureView
}

func (v *textureView) Release() {
	if v.view != nil {
		v.view.Release()
		v.view = nil
	}
}

type texture struct {
	desc device.TextureDescriptor
	tex  *wgpu.Texture
	view *textureView
}

func (t *texture) View() device.TextureView     { return t.view }
func (t *texture) Width() uint32                { return t.desc.Width }
func (t *texture) Height() uint32               { return t.desc.Height }
func (t *texture) Format() device.TextureFormat { return t.desc.Format }

func (t *texture) Release() {
	t.view.Release()
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

type renderPass struct {
	pass *wgpu.RenderPassEncoder
}

func (p *renderPass) SetPipeline(rp device.RenderPipeline) {
	p.pass.SetPipeline(rp.(*renderPipeline).pipeline)
}

func (p *renderPass) SetBindGroup(index uint32, bg device.BindGroup) {
	p.pass.SetBindGroup(index, bg.(*bindGroup).group, nil)
}

func (p *renderPass) SetVertexBuffer(slot uint32, buf device.Buffer) {
	p.pass.SetVertexBuffer(slot, buf.(*buffer).buf, 0, wgpu.WholeSize)
}

func (p *renderPass) Draw(vertexCount, instanceCount uint32) {
	p.pass.Draw(vertexCount, instanceCount, 0, 0)
}

func (p *renderPass) End() error {
	if p.pass == nil {
		return nil
	}
	p.pass.End()
	p.pass.Release()
	p.pass = nil
	return nil
}
