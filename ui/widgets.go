package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws panel primitives with a shared Theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer returns a Renderer using DefaultTheme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a bordered panel.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawLabelValue draws "label: value" and returns the next line's y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	t := r.Theme
	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	rl.DrawText(value, x+t.LabelWidth, y, t.FontSize, t.ValueColor)
	return y + t.LineHeight
}

// DrawBar draws a labelled fraction bar, clamping value to [0, 1], and
// returns the next line's y.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	t := r.Theme
	value = min(max(value, 0), 1)

	barX := x + t.LabelWidth
	barW := width - t.LabelWidth - t.ValueWidth

	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	rl.DrawRectangle(barX, y+2, barW, t.BarHeight, t.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*value), t.BarHeight, t.RampColor(value))
	rl.DrawText(fmt.Sprintf("%3.0f%%", value*100), barX+barW+5, y, t.FontSize, t.ValueColor)

	return y + t.LineHeight + 2
}
