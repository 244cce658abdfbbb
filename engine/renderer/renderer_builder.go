package renderer

import "github.com/Carmen-Shannon/wayfare/common"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithWorkers sets the size of the worker pool used to prepare object uniforms.
// Defaults to one less than the number of CPUs.
//
// Parameters:
//   - workers: the number of workers, at least 1
//
// Returns:
//   - RendererBuilderOption: a function that applies the workers option to a renderer
func WithWorkers(workers int) RendererBuilderOption {
	return func(r *renderer) {
		r.workers = max(workers, 1)
	}
}

// WithParallelThreshold sets the object count from which uniform preparation is spread
// over the worker pool. Defaults to 64.
//
// Parameters:
//   - n: the minimum object count for parallel preparation
//
// Returns:
//   - RendererBuilderOption: a function that applies the threshold option to a renderer
func WithParallelThreshold(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.parallelThreshold = n
	}
}

// WithClearColor sets the color the surface is cleared to until an active camera provides
// its own.
func WithClearColor(c common.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.view.Clear = c
		r.current.Clear = c
	}
}
