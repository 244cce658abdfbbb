package bind_group_provider

import "github.com/Carmen-Shannon/wayfare/engine/renderer/device"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBufferSize overrides the allocation size of the buffer at a binding.
//
// Parameters:
//   - binding: the binding index
//   - size: the buffer size in bytes
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer size for the binding
func WithBufferSize(binding uint32, size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.sizes[binding] = size
	}
}

// WithBuffer binds an existing buffer instead of allocating one. The provider does not release it.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding uint32, buf device.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
		p.borrowed[binding] = true
	}
}
