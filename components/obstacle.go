package components

// Position is an obstacle's field-local position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a Vec2.
func (p Position) Vec() Vec2 { return Vec2{p.X, p.Y} }

// Rotation is an obstacle's field-local heading in radians.
type Rotation struct {
	Heading float64
}

// Scale is the uniform size multiplier applied to an obstacle sprite and its buffer.
type Scale struct {
	Factor float64
}

// CutBuffer is the pre-cut ellipse around an obstacle, at scale 1.
type CutBuffer struct {
	Width, Height float64
}

// Placement records how an obstacle was placed.
type Placement struct {
	Degraded    bool    // Spacing constraint could not be met within the attempt cap
	MinDistance float64 // Distance to the nearest previously placed point
}

// Shape returns the buffer ellipse for an obstacle at pos with heading and scale.
func (b CutBuffer) Shape(pos Position, rot Rotation, scale Scale) CutShape {
	return CutShape{
		Center:   pos.Vec(),
		Width:    b.Width * scale.Factor,
		Height:   b.Height * scale.Factor,
		Rotation: rot.Heading,
	}
}
