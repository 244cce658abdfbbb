package camera

import "github.com/Carmen-Shannon/wayfare/common"

// PerspectiveOption is a functional option applied to a Perspective by NewPerspective.
type PerspectiveOption func(*Perspective)

// NewPerspective creates a Perspective from DefaultPerspective with the options applied.
//
// Parameters:
//   - options: variadic list of PerspectiveOption functions
//
// Returns:
//   - Perspective: the configured perspective
func NewPerspective(options ...PerspectiveOption) Perspective {
	p := DefaultPerspective()
	for _, opt := range options {
		opt(&p)
	}
	return p
}

// WithFOV sets the vertical field of view.
//
// Parameters:
//   - degrees: the field of view in degrees
//
// Returns:
//   - PerspectiveOption: functional option to set the field of view
func WithFOV(degrees float32) PerspectiveOption {
	return func(p *Perspective) {
		p.FOV = degrees
	}
}

// WithClipPlanes sets the near and far clipping distances.
func WithClipPlanes(near, far float32) PerspectiveOption {
	return func(p *Perspective) {
		p.Near = near
		p.Far = far
	}
}

// WithClearColor sets the clear color.
func WithClearColor(c common.Color) PerspectiveOption {
	return func(p *Perspective) {
		p.Clear = c
	}
}
