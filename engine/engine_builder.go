package engine

import (
	"time"

	"github.com/Carmen-Shannon/wayfare/engine/scene"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//   - interval: how often statistics are logged; 1 second when <= 0
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool, interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
		e.profileInterval = interval
	}
}

// WithSurface sets the presentation surface Run polls. Its resize events update the
// renderer viewport. Without a surface Run only stops on its context or Stop.
//
// Parameters:
//   - s: the surface, usually a window.Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurface(s Surface) EngineBuilderOption {
	return func(e *engine) {
		e.surface = s
	}
}

// WithFrameCallback registers the gameplay callback during engine construction.
func WithFrameCallback(callback FrameFunc) EngineBuilderOption {
	return func(e *engine) {
		e.onFrame = callback
	}
}

// WithFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetFrameLimit(fps)
	}
}

// WithMaxDeltaTime caps the frame time Run reports, so a stalled frame does not move
// everything by a large step. Values <= 0 are ignored (default 100ms).
func WithMaxDeltaTime(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if d > 0 {
			e.maxDelta = d
		}
	}
}

// WithGraphOptions forwards options to the transform graph the engine creates.
func WithGraphOptions(options ...scene.GraphBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.graphOptions = append(e.graphOptions, options...)
	}
}
