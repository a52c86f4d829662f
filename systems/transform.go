package systems

import (
	"math"

	"github.com/pthm-cable/zeroturn/components"
)

// FieldTransform moves the field underneath a stationary mower. Driving
// forward slides the field backwards; turning rotates the field about the
// mower in the opposite direction.
type FieldTransform struct {
	Pose          components.Pose
	Speed         float64 // Field units per unit of move input
	ForwardOffset float64 // Added to the reference angle to get the forward axis
}

// NewFieldTransform returns a transform at the identity pose.
func NewFieldTransform(speed, forwardOffset float64) *FieldTransform {
	return &FieldTransform{Speed: speed, ForwardOffset: forwardOffset}
}

// Advance applies one tick of input and returns the change in field pose.
// agent is the mower's world position and referenceAngle the view rotation
// that defines "forward". The field is translated first, then its position
// is rotated about agent by -turn. Zero input leaves the pose untouched.
func (t *FieldTransform) Advance(move, turn float64, agent components.Vec2, referenceAngle float64) (dPos components.Vec2, dRot float64) {
	before := t.Pose

	if move != 0 {
		angle := referenceAngle + t.ForwardOffset
		sin, cos := math.Sincos(angle)
		t.Pose.Position.X += -cos * move * t.Speed
		t.Pose.Position.Y += -sin * move * t.Speed
	}

	if turn != 0 {
		rot := -turn
		t.Pose.Position = t.Pose.Position.RotateAbout(agent, rot)
		t.Pose.Rotation += rot
	}

	return t.Pose.Position.Sub(before.Position), t.Pose.Rotation - before.Rotation
}

// AgentLocal returns the mower's position in field-local coordinates.
func (t *FieldTransform) AgentLocal(agent components.Vec2) components.Vec2 {
	return t.Pose.ToLocal(agent)
}

// LocalHeading returns the direction the mower faces in field-local
// coordinates, wrapped to [-Pi, Pi].
func (t *FieldTransform) LocalHeading(referenceAngle float64) float64 {
	return normalizeAngle(referenceAngle + t.ForwardOffset - t.Pose.Rotation)
}
