package components

// Pose places the field in world space. The mower stays fixed in world space
// while the field translates and rotates underneath it.
type Pose struct {
	Position Vec2    // World position of the field origin
	Rotation float64 // Radians, counter-clockwise
}

// ToLocal converts a world point into field-local coordinates.
func (p Pose) ToLocal(world Vec2) Vec2 {
	return world.Sub(p.Position).Rotate(-p.Rotation)
}

// ToWorld converts a field-local point into world coordinates.
func (p Pose) ToWorld(local Vec2) Vec2 {
	return local.Rotate(p.Rotation).Add(p.Position)
}
