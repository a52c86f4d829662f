// Coverage raster preview tool - interactive cut rasterization with sliders.
//
// Usage: go run ./cmd/rasterpreview
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/zeroturn/components"
	"github.com/pthm-cable/zeroturn/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30

	// fieldSize is the side of the square preview field in field units.
	fieldSize = 400.0
)

// PreviewParams holds the stroke being rasterized.
type PreviewParams struct {
	Width      float32 // Tool width
	Height     float32 // Tool length
	Rotation   float32 // Degrees
	Cuts       int     // Number of cuts along the stroke
	Spacing    float32 // Distance between consecutive cuts
	Resolution float32 // Pixels per field unit
	Downscale  float32 // Whole-field sampling factor
}

func defaultParams() PreviewParams {
	return PreviewParams{
		Width:      80,
		Height:     40,
		Rotation:   0,
		Cuts:       1,
		Spacing:    4,
		Resolution: 1,
		Downscale:  0.25,
	}
}

// result is one rasterization with its measurements.
type result struct {
	raster   *systems.Raster
	local    float64
	total    float64
	analytic float64
	err      error
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Coverage Raster Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	field := components.RectCentered(components.Vec2{}, fieldSize, fieldSize)

	var texture rl.Texture2D
	texW, texH := 0, 0
	defer func() {
		if texW > 0 {
			rl.UnloadTexture(texture)
		}
	}()

	var res result
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			res = rasterize(params, field)
			if res.err != nil {
				slog.Warn("rasterize failed", "error", res.err)
			} else {
				b := res.raster.Pix.Bounds()
				if b.Dx() != texW || b.Dy() != texH {
					if texW > 0 {
						rl.UnloadTexture(texture)
					}
					img := rl.GenImageColor(b.Dx(), b.Dy(), rl.Black)
					texture = rl.LoadTextureFromImage(img)
					rl.UnloadImage(img)
					texW, texH = b.Dx(), b.Dy()
				}
				updateTexture(texture, res.raster)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		if texW > 0 {
			rl.DrawTexturePro(
				texture,
				rl.Rectangle{X: 0, Y: 0, Width: float32(texW), Height: float32(texH)},
				rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
				rl.Vector2{X: 0, Y: 0},
				0,
				rl.White,
			)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Raster: %dx%d px", texW, texH), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Local: %.3f  Total: %.4f  Analytic: %.4f", res.local, res.total, res.analytic), 15, statsY+20, 16, rl.DarkGray)
		if res.analytic > 0 {
			errPct := 100 * (res.total - res.analytic) / res.analytic
			rl.DrawText(fmt.Sprintf("Total error vs analytic: %+.2f%%", errPct), 15, statsY+40, 16, rl.DarkGray)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Cut Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if v, changed := slider(&panelY, panelX, "Tool width", "%.0f", params.Width, 1, 200); changed {
			params.Width = v
			needsRegen = true
		}
		if v, changed := slider(&panelY, panelX, "Tool length", "%.0f", params.Height, 1, 200); changed {
			params.Height = v
			needsRegen = true
		}
		if v, changed := slider(&panelY, panelX, "Rotation (degrees)", "%.0f", params.Rotation, -180, 180); changed {
			params.Rotation = v
			needsRegen = true
		}
		if v, changed := slider(&panelY, panelX, "Cuts along stroke", "%.0f", float32(params.Cuts), 1, 60); changed && int(v) != params.Cuts {
			params.Cuts = int(v)
			needsRegen = true
		}
		if v, changed := slider(&panelY, panelX, "Cut spacing", "%.1f", params.Spacing, 0.5, 20); changed {
			params.Spacing = v
			needsRegen = true
		}
		if v, changed := slider(&panelY, panelX, "Resolution (px per unit)", "%.2f", params.Resolution, 0.1, 2); changed {
			params.Resolution = v
			needsRegen = true
		}
		if v, changed := slider(&panelY, panelX, "Total downscale", "%.2f", params.Downscale, 0.05, 1); changed {
			params.Downscale = v
			needsRegen = true
		}

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRegen = true
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and advances y past it.
func slider(y *float32, x float32, label, format string, value, lo, hi float32) (float32, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v, v != value
}

// stroke lays cuts along the tool's forward axis, centred on the field origin.
func stroke(p PreviewParams) []components.CutShape {
	rot := float64(p.Rotation) * math.Pi / 180
	forward := components.Vec2{X: 0, Y: 1}.Rotate(rot)
	start := -float64(p.Spacing) * float64(p.Cuts-1) / 2

	shapes := make([]components.CutShape, p.Cuts)
	for i := range shapes {
		shapes[i] = components.CutShape{
			Center:   forward.Scale(start + float64(i)*float64(p.Spacing)),
			Width:    float64(p.Width),
			Height:   float64(p.Height),
			Rotation: rot,
		}
	}
	return shapes
}

func rasterize(p PreviewParams, field components.Rect) result {
	r := systems.NewVectorRasterizer(float64(p.Resolution))
	raster, err := r.Rasterize(nil, stroke(p), field)
	if err != nil {
		return result{err: err}
	}

	var s systems.AreaAverage
	window := components.RectCentered(components.Vec2{}, float64(p.Width), float64(p.Height))
	res := result{
		raster: raster,
		local:  s.Sample(raster, window),
		total:  systems.TotalCoverage(raster, field, float64(p.Downscale), s),
	}
	if p.Cuts == 1 {
		res.analytic = math.Pi * float64(p.Width) * float64(p.Height) / 4 / field.Area()
	}
	return res
}

// updateTexture uploads the raster flipped so field +Y points up on screen.
func updateTexture(texture rl.Texture2D, raster *systems.Raster) {
	b := raster.Pix.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]color.RGBA, w*h)
	for y := 0; y < h; y++ {
		src := raster.Pix.Pix[(h-1-y)*raster.Pix.Stride:]
		for x := 0; x < w; x++ {
			a := src[x]
			pixels[y*w+x] = color.RGBA{R: 40 + a/2, G: 90 + a/2, B: 30 + a/4, A: 255}
		}
	}
	rl.UpdateTexture(texture, pixels)
}
