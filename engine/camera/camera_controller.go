package camera

import (
	"github.com/Carmen-Shannon/wayfare/common"
	"github.com/Carmen-Shannon/wayfare/engine/scene"
)

// followController is the implementation of the FollowController interface.
type followController struct {
	height float32
	factor float32
}

// FollowController moves a camera after a target. The horizontal position eases toward the
// target and the vertical position is pinned at a fixed offset from it.
type FollowController interface {
	// Update moves the camera transform toward the target.
	//
	// Parameters:
	//   - cam: the camera transform to move
	//   - target: the followed world-space position
	//   - deltaSeconds: the frame time
	Update(cam *scene.Transform, target common.Vec3, deltaSeconds float32)

	// Height returns the vertical offset above the target.
	Height() float32

	// Factor returns the fraction of the horizontal distance left after one second.
	Factor() float32
}

var _ FollowController = &followController{}

// NewFollowController creates a FollowController. Defaults to a 0.7 offset and a 0.0001
// per-second factor, which keeps the camera nearly locked on the target.
//
// Parameters:
//   - options: variadic list of FollowControllerOption functions
//
// Returns:
//   - FollowController: the controller
func NewFollowController(options ...FollowControllerOption) FollowController {
	fc := &followController{
		height: 0.7,
		factor: 0.0001,
	}
	for _, opt := range options {
		opt(fc)
	}
	return fc
}

func (fc *followController) Update(cam *scene.Transform, target common.Vec3, deltaSeconds float32) {
	cam.Position[0] = common.Encroach(cam.Position[0], target[0], fc.factor, deltaSeconds)
	cam.Position[1] = target[1] + fc.height
	cam.Position[2] = common.Encroach(cam.Position[2], target[2], fc.factor, deltaSeconds)
}

func (fc *followController) Height() float32 {
	return fc.height
}

func (fc *followController) Factor() float32 {
	return fc.factor
}
