package camera

// FollowControllerOption is a functional option for configuring a FollowController.
type FollowControllerOption func(*followController)

// WithHeight sets the vertical offset above the target.
//
// Parameters:
//   - height: the offset along +Y
//
// Returns:
//   - FollowControllerOption: functional option to set the height
func WithHeight(height float32) FollowControllerOption {
	return func(fc *followController) {
		fc.height = height
	}
}

// WithFactor sets the per-second encroach factor: the fraction of the horizontal distance
// that remains after one second.
//
// Parameters:
//   - factor: a value in (0, 1]; smaller follows tighter
//
// Returns:
//   - FollowControllerOption: functional option to set the factor
func WithFactor(factor float32) FollowControllerOption {
	return func(fc *followController) {
		fc.factor = factor
	}
}
