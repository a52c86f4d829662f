package components

import "math"

// CutShape is one elliptical cut in field-local coordinates.
type CutShape struct {
	Center   Vec2
	Width    float64 // Full extent along the shape's local X axis
	Height   float64 // Full extent along the shape's local Y axis
	Rotation float64 // Radians, relative to the field
}

// Bounds returns the axis-aligned bounding box of the rotated ellipse.
func (c CutShape) Bounds() Rect {
	a, b := c.Width/2, c.Height/2
	sin, cos := math.Sincos(c.Rotation)
	hw := math.Sqrt(a*a*cos*cos + b*b*sin*sin)
	hh := math.Sqrt(a*a*sin*sin + b*b*cos*cos)
	return Rect{
		Min: Vec2{c.Center.X - hw, c.Center.Y - hh},
		Max: Vec2{c.Center.X + hw, c.Center.Y + hh},
	}
}

// Degenerate reports whether the shape covers no area.
func (c CutShape) Degenerate() bool {
	return c.Width <= 0 || c.Height <= 0
}
