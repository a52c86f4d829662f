// Package ui draws the heads-up display and debug panels.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Palette holds the colors shared by panels.
type Palette struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color

	// Ramp colors bars from freshly cut (low) to fully mowed (high).
	Ramp      [3]rl.Color
	RampSteps [2]float32
}

// Metrics holds panel spacing and font sizes in pixels.
type Metrics struct {
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	ValueWidth     int32
	FontSize       int32
	HeaderFontSize int32
}

// Theme is the styling used by every panel.
type Theme struct {
	Palette
	Metrics
}

// DefaultTheme returns a dark theme with a grass-green bar ramp.
func DefaultTheme() Theme {
	return Theme{
		Palette: Palette{
			PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 240},
			PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
			SectionHeader: rl.Color{R: 230, G: 210, B: 90, A: 255},
			LabelColor:    rl.LightGray,
			ValueColor:    rl.RayWhite,
			BarBg:         rl.Color{R: 40, G: 40, B: 40, A: 255},
			Ramp: [3]rl.Color{
				{R: 90, G: 150, B: 60, A: 255},
				{R: 140, G: 180, B: 80, A: 255},
				{R: 190, G: 220, B: 110, A: 255},
			},
			RampSteps: [2]float32{0.3, 0.6},
		},
		Metrics: Metrics{
			Padding:        10,
			LineHeight:     16,
			LabelWidth:     60,
			BarHeight:      12,
			ValueWidth:     50,
			FontSize:       12,
			HeaderFontSize: 14,
		},
	}
}

// RampColor picks the bar color for a value in [0, 1].
func (p Palette) RampColor(v float32) rl.Color {
	switch {
	case v < p.RampSteps[0]:
		return p.Ramp[0]
	case v < p.RampSteps[1]:
		return p.Ramp[1]
	}
	return p.Ramp[2]
}
