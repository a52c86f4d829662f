// Package camera provides a 2D camera system for viewport control.
package camera

import "math"

// Mode selects what the camera centres on.
type Mode uint8

const (
	ModeOverview Mode = iota // Whole field in view, resting on its original centre
	ModeFollow               // Centred on the mower
)

// String returns the display name for a Mode.
func (m Mode) String() string {
	switch m {
	case ModeOverview:
		return "Overview"
	case ModeFollow:
		return "Follow"
	}
	return "Unknown"
}

// Camera controls the viewport into the world. World coordinates are y-up;
// screen coordinates are y-down with the origin at the top-left.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	Mode Mode

	// Target the camera eases toward
	TargetX, TargetY, TargetZoom float32

	// Fraction of the remaining distance closed per second; 0 snaps.
	Ease float32
}

// New creates a camera centered on the world origin with 1:1 zoom.
func New(viewportW, viewportH float32) *Camera {
	return &Camera{
		Zoom:       1.0,
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		MinZoom:    0.05,
		MaxZoom:    4.0,
		TargetZoom: 1.0,
	}
}

// SetMode switches mode and reports whether it changed.
func (c *Camera) SetMode(m Mode) bool {
	if c.Mode == m {
		return false
	}
	c.Mode = m
	return true
}

// SwitchMode toggles between overview and follow.
func (c *Camera) SwitchMode() {
	if c.Mode == ModeFollow {
		c.Mode = ModeOverview
	} else {
		c.Mode = ModeFollow
	}
}

// SetTarget sets the point and zoom the camera eases toward.
func (c *Camera) SetTarget(x, y, zoom float32) {
	c.TargetX = x
	c.TargetY = y
	c.TargetZoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// Update moves the camera toward its target for a frame of dt seconds.
func (c *Camera) Update(dt float32) {
	f := float32(1)
	if c.Ease > 0 {
		f = 1 - float32(math.Exp(float64(-c.Ease*dt)))
	}
	c.X += (c.TargetX - c.X) * f
	c.Y += (c.TargetY - c.Y) * f
	c.Zoom = clamp(c.Zoom+(c.TargetZoom-c.Zoom)*f, c.MinZoom, c.MaxZoom)
}

// Snap jumps straight to the target.
func (c *Camera) Snap() {
	c.X, c.Y, c.Zoom = c.TargetX, c.TargetY, c.TargetZoom
}

// FitZoom returns the zoom that fits a w x h world-space box inside the
// viewport with margin screen pixels on every side.
func (c *Camera) FitZoom(w, h, margin float32) float32 {
	if w <= 0 || h <= 0 {
		return c.MaxZoom
	}
	availW := max(c.ViewportW-2*margin, 1)
	availH := max(c.ViewportH-2*margin, 1)
	return clamp(min(availW/w, availH/h), c.MinZoom, c.MaxZoom)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 - (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y - (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
