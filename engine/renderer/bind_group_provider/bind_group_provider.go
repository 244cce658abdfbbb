package bind_group_provider

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string
	dev   device.Device

	bindGroup device.BindGroup
	// buffers holds the buffers bound by this provider, keyed by binding index.
	buffers map[uint32]device.Buffer
	// borrowed marks buffers supplied with WithBuffer; they are not released by Release.
	borrowed map[uint32]bool
	// sizes overrides the MinBindingSize of a layout entry when allocating its buffer.
	sizes map[uint32]uint64
}

// BindGroupProvider owns one bind group and the buffers behind its bindings.
//
// Usage pattern:
//  1. The material or renderer creates a provider from a layout and its entries
//  2. Per-frame data is uploaded with Write, or collected as BufferWrite values and applied with Apply
//  3. BindGroup() is set on the render pass
//  4. Release frees the bind group and every owned buffer
type BindGroupProvider interface {
	// Release releases the bind group and every buffer this provider allocated.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the bind group for shader binding.
	//
	// Returns:
	//   - device.BindGroup: the bind group, or nil after Release
	BindGroup() device.BindGroup

	// Buffer returns the buffer bound at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - device.Buffer: the buffer, or nil if the binding is unknown
	Buffer(binding uint32) device.Buffer

	// Write uploads data to the buffer bound at binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - offset: byte offset into the buffer
	//   - data: the bytes to upload
	//
	// Returns:
	//   - error: error if the binding is unknown or the write fails
	Write(binding uint32, offset uint64, data []byte) error
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider allocates a buffer for every layout entry and creates the bind group over them.
//
// Parameters:
//   - dev: the device that owns the resources
//   - label: the debug label, used as a prefix for every resource label
//   - layout: the bind group layout to create the group against
//   - entries: the layout entries describing each binding
//   - options: builder options, e.g. WithBufferSize or WithBuffer
//
// Returns:
//   - BindGroupProvider: the ready-to-bind provider
//   - error: error if a buffer or the bind group could not be created
func NewBindGroupProvider(dev device.Device, label string, layout device.BindGroupLayout, entries []device.BindGroupLayoutEntry, options ...BindGroupProviderOption) (BindGroupProvider, error) {
	if dev == nil {
		panic("bind_group_provider: NewBindGroupProvider requires a non-nil Device")
	}
	p := &bindGroupProvider{
		label:    label,
		dev:      dev,
		buffers:  make(map[uint32]device.Buffer),
		borrowed: make(map[uint32]bool),
		sizes:    make(map[uint32]uint64),
	}
	for _, opt := range options {
		opt(p)
	}

	bgEntries := make([]device.BindGroupEntry, 0, len(entries))
	for _, entry := range entries {
		buf, ok := p.buffers[entry.Binding]
		if !ok {
			size := entry.MinBindingSize
			if override, ok := p.sizes[entry.Binding]; ok {
				size = override
			}
			if size == 0 {
				p.Release()
				return nil, fmt.Errorf("%s: binding %d has no size", label, entry.Binding)
			}
			usage := device.BufferUsageUniform | device.BufferUsageCopyDst
			if entry.Type == device.BindingTypeReadOnlyStorage {
				usage = device.BufferUsageStorage | device.BufferUsageCopyDst
			}
			var err error
			buf, err = dev.CreateBuffer(device.BufferDescriptor{
				Label: fmt.Sprintf("%s Buffer %d", label, entry.Binding),
				Size:  size,
				Usage: usage,
			})
			if err != nil {
				p.Release()
				return nil, err
			}
			p.buffers[entry.Binding] = buf
		}
		bgEntries = append(bgEntries, device.BindGroupEntry{Binding: entry.Binding, Buffer: buf})
	}

	bg, err := dev.CreateBindGroup(device.BindGroupDescriptor{
		Label:   label + " Bind Group",
		Layout:  layout,
		Entries: bgEntries,
	})
	if err != nil {
		p.Release()
		return nil, err
	}
	p.bindGroup = bg
	return p, nil
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() device.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding uint32) device.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Write(binding uint32, offset uint64, data []byte) error {
	buf, ok := p.buffers[binding]
	if !ok {
		return fmt.Errorf("%s: no buffer at binding %d", p.label, binding)
	}
	return p.dev.WriteBuffer(buf, offset, data)
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	bindings := make([]uint32, 0, len(p.buffers))
	for b := range p.buffers {
		bindings = append(bindings, b)
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i] < bindings[j] })
	for _, b := range bindings {
		if !p.borrowed[b] {
			p.buffers[b].Release()
		}
		delete(p.buffers, b)
	}
}
