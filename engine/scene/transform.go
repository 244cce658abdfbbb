package scene

import "github.com/Carmen-Shannon/wayfare/common"

// Transform is the entity-owned local placement: translation, rotation and scale.
type Transform struct {
	Position common.Vec3
	Rotation common.Quat
	Scale    common.Vec3
}

// DefaultTransform returns a transform at the origin with no rotation and unit scale.
func DefaultTransform() Transform {
	return Transform{
		Rotation: common.QuatIdentity(),
		Scale:    common.Vec3{1, 1, 1},
	}
}

// LocalMatrix composes the transform as translate * scale * rotate. The order is part of
// the contract: it decides how non-uniform scale interacts with rotation.
//
// Returns:
//   - common.Mat4: the local matrix
func (t Transform) LocalMatrix() common.Mat4 {
	return common.Mat4Translation(t.Position).
		Mul(common.Mat4Scaling(t.Scale)).
		Mul(common.Mat4FromQuat(t.Rotation))
}

// Matrices holds the matrices derived from a Transform each frame.
type Matrices struct {
	Local common.Mat4
	World common.Mat4
}

// NewMatrices returns identity local and world matrices.
func NewMatrices() Matrices {
	return Matrices{
		Local: common.Mat4Identity(),
		World: common.Mat4Identity(),
	}
}
