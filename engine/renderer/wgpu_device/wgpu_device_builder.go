package wgpu_device

import "github.com/cogentcore/webgpu/wgpu"

// DeviceBuilderOption configures a device before it is created.
type DeviceBuilderOption func(d *wgpuDevice)

// WithVSync selects FIFO presentation when enabled and immediate presentation otherwise.
//
// Parameters:
//   - enabled: whether frames wait for vertical blank
//
// Returns:
//   - DeviceBuilderOption: a function that applies the present mode
func WithVSync(enabled bool) DeviceBuilderOption {
	return func(d *wgpuDevice) {
		if enabled {
			d.presentMode = wgpu.PresentModeFifo
		} else {
			d.presentMode = wgpu.PresentModeImmediate
		}
	}
}

// WithFallbackAdapter forces the software fallback adapter.
//
// Parameters:
//   - force: whether the fallback adapter is required
//
// Returns:
//   - DeviceBuilderOption: a function that applies the adapter preference
func WithFallbackAdapter(force bool) DeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.forceFallback = force
	}
}

// WithLabel sets the debug label of the native device.
func WithLabel(label string) DeviceBuilderOption {
	return func(d *wgpuDevice) {
		d.label = label
	}
}
