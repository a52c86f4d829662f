package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/zeroturn/camera"
	"github.com/pthm-cable/zeroturn/components"
	"github.com/pthm-cable/zeroturn/systems"
)

// Field colors.
var (
	GrassColor    = rl.Color{R: 46, G: 110, B: 44, A: 255}
	MowedColor    = rl.Color{R: 132, G: 190, B: 92, A: 255}
	ObstacleColor = rl.Color{R: 92, G: 74, B: 58, A: 255}
	MowerColor    = rl.Color{R: 210, G: 60, B: 40, A: 255}
	DebugColor    = rl.Color{R: 255, G: 220, B: 60, A: 200}
	PendingColor  = rl.Color{R: 255, G: 120, B: 220, A: 200}
)

// ellipseSegments is the polygon resolution for drawn ellipses.
const ellipseSegments = 24

// FieldRenderer draws the field, its coverage raster and the mower.
// The raster is uploaded to a texture only when a new compaction is published.
type FieldRenderer struct {
	maskTex     rl.Texture2D
	texW, texH  int
	texMin      components.Vec2 // Field-local position of the texture's min corner
	texScale    float64
	generation  uint64
	initialized bool

	pixels []color.RGBA
}

// NewFieldRenderer creates a renderer. Textures are created lazily once the
// raylib window exists.
func NewFieldRenderer() *FieldRenderer {
	return &FieldRenderer{}
}

// Sync uploads the mask's raster if it changed since the last call.
func (r *FieldRenderer) Sync(mask *systems.CoverageMask) {
	gen := mask.Generation()
	if r.initialized && gen == r.generation {
		return
	}
	raster := mask.Raster()
	if raster == nil || raster.Pix == nil {
		return
	}

	pr := raster.Pix.Bounds()
	w, h := pr.Dx(), pr.Dy()
	if !r.initialized || w != r.texW || h != r.texH {
		r.unloadTexture()
		img := rl.GenImageColor(w, h, rl.Blank)
		r.maskTex = rl.LoadTextureFromImage(img)
		rl.SetTextureFilter(r.maskTex, rl.FilterBilinear)
		rl.UnloadImage(img)
		r.texW, r.texH = w, h
		r.pixels = make([]color.RGBA, w*h)
		r.initialized = true
	}

	// Row 0 of the texture is the raster's max-Y row so the image reads
	// top-down on screen.
	for y := 0; y < h; y++ {
		src := raster.Pix.Pix[(h-1-y)*raster.Pix.Stride:]
		row := r.pixels[y*w : (y+1)*w]
		for x := range row {
			a := src[x]
			row[x] = color.RGBA{R: MowedColor.R, G: MowedColor.G, B: MowedColor.B, A: a}
		}
	}
	rl.UpdateTexture(r.maskTex, r.pixels)

	r.texScale = raster.Scale
	r.texMin = components.Vec2{X: float64(pr.Min.X) / raster.Scale, Y: float64(pr.Min.Y) / raster.Scale}
	r.generation = gen
}

// Frame is the per-draw input for FieldRenderer.Draw.
type Frame struct {
	Pose      components.Pose
	Bounds    components.Rect
	Pending   []components.CutShape
	Obstacles []ObstacleSprite
	Crop      components.Rect
	Mower     MowerSprite

	ShowBuffers bool
	ShowPending bool
	ShowCrop    bool
}

// ObstacleSprite is one obstacle in field-local coordinates.
type ObstacleSprite struct {
	Center   components.Vec2
	Radius   float64
	Rotation float64
	Buffer   components.CutShape
	Degraded bool
}

// MowerSprite is the mower body and tool footprint in world coordinates.
type MowerSprite struct {
	Position  components.Vec2
	Heading   float64 // World heading of the mower's forward axis
	BodyWidth float64
	BodyLen   float64
	ToolWidth float64
	ToolLen   float64
	Intensity float64
}

// Draw renders one frame of the field through cam.
func (r *FieldRenderer) Draw(cam *camera.Camera, f Frame) {
	rl.DisableBackfaceCulling()
	defer rl.EnableBackfaceCulling()

	drawQuad(cam, f.Pose, f.Bounds, GrassColor)

	if r.initialized {
		r.drawMask(cam, f.Pose)
	}

	for _, s := range f.Pending {
		drawEllipse(cam, f.Pose, s, MowedColor)
	}

	for _, o := range f.Obstacles {
		c := worldToScreen(cam, f.Pose.ToWorld(o.Center))
		rl.DrawCircleV(c, float32(o.Radius)*cam.Zoom, ObstacleColor)
	}

	r.drawMower(cam, f.Mower)

	if f.ShowBuffers {
		for _, o := range f.Obstacles {
			outlineEllipse(cam, f.Pose, o.Buffer, DebugColor)
			if o.Degraded {
				c := worldToScreen(cam, f.Pose.ToWorld(o.Center))
				rl.DrawCircleLines(int32(c.X), int32(c.Y), float32(o.Radius)*cam.Zoom+4, rl.Red)
			}
		}
	}
	if f.ShowPending {
		for _, s := range f.Pending {
			outlineEllipse(cam, f.Pose, s, PendingColor)
		}
	}
	if f.ShowCrop && !f.Crop.Empty() {
		outlineQuad(cam, f.Pose, f.Crop, DebugColor)
	}
}

// drawMask draws the coverage texture with the field pose. raylib rotates
// clockwise in screen space, which is counter-clockwise in world space.
func (r *FieldRenderer) drawMask(cam *camera.Camera, pose components.Pose) {
	z := cam.Zoom
	w := float32(float64(r.texW) / r.texScale)
	h := float32(float64(r.texH) / r.texScale)

	origin := worldToScreen(cam, pose.Position)
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dst := rl.Rectangle{X: origin.X, Y: origin.Y, Width: w * z, Height: h * z}
	// Pivot is the field origin measured from the texture's top-left corner.
	pivot := rl.Vector2{
		X: float32(-r.texMin.X) * z,
		Y: (float32(r.texMin.Y) + h) * z,
	}
	rl.DrawTexturePro(r.maskTex, src, dst, pivot, -float32(pose.Rotation*180/math.Pi), rl.White)
}

func (r *FieldRenderer) drawMower(cam *camera.Camera, m MowerSprite) {
	pose := components.Pose{Position: m.Position, Rotation: m.Heading - math.Pi/2}
	body := components.RectCentered(components.Vec2{}, m.BodyWidth, m.BodyLen)
	tool := components.CutShape{Width: m.ToolWidth, Height: m.ToolLen}

	drawQuad(cam, pose, body, MowerColor)
	a := uint8(80 + 175*clamp01(m.Intensity))
	outlineEllipse(cam, pose, tool, rl.Color{R: 255, G: 255, B: 255, A: a})
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	r.unloadTexture()
	r.initialized = false
}

func (r *FieldRenderer) unloadTexture() {
	if r.initialized {
		rl.UnloadTexture(r.maskTex)
	}
}

func worldToScreen(cam *camera.Camera, p components.Vec2) rl.Vector2 {
	x, y := cam.WorldToScreen(float32(p.X), float32(p.Y))
	return rl.Vector2{X: x, Y: y}
}

func quadPoints(cam *camera.Camera, pose components.Pose, rect components.Rect) [4]rl.Vector2 {
	corners := [4]components.Vec2{
		rect.Min,
		{X: rect.Max.X, Y: rect.Min.Y},
		rect.Max,
		{X: rect.Min.X, Y: rect.Max.Y},
	}
	var out [4]rl.Vector2
	for i, c := range corners {
		out[i] = worldToScreen(cam, pose.ToWorld(c))
	}
	return out
}

func drawQuad(cam *camera.Camera, pose components.Pose, rect components.Rect, col rl.Color) {
	p := quadPoints(cam, pose, rect)
	rl.DrawTriangle(p[0], p[1], p[2], col)
	rl.DrawTriangle(p[0], p[2], p[3], col)
}

func outlineQuad(cam *camera.Camera, pose components.Pose, rect components.Rect, col rl.Color) {
	p := quadPoints(cam, pose, rect)
	for i := range p {
		rl.DrawLineV(p[i], p[(i+1)%len(p)], col)
	}
}

func ellipsePoints(cam *camera.Camera, pose components.Pose, s components.CutShape) []rl.Vector2 {
	pts := make([]rl.Vector2, ellipseSegments)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / ellipseSegments
		local := components.Vec2{X: math.Cos(t) * s.Width / 2, Y: math.Sin(t) * s.Height / 2}
		local = local.Rotate(s.Rotation).Add(s.Center)
		pts[i] = worldToScreen(cam, pose.ToWorld(local))
	}
	return pts
}

func drawEllipse(cam *camera.Camera, pose components.Pose, s components.CutShape, col rl.Color) {
	pts := ellipsePoints(cam, pose, s)
	center := worldToScreen(cam, pose.ToWorld(s.Center))
	for i := range pts {
		rl.DrawTriangle(center, pts[i], pts[(i+1)%len(pts)], col)
	}
}

func outlineEllipse(cam *camera.Camera, pose components.Pose, s components.CutShape, col rl.Color) {
	pts := ellipsePoints(cam, pose, s)
	for i := range pts {
		rl.DrawLineV(pts[i], pts[(i+1)%len(pts)], col)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
