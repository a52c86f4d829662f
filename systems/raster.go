package systems

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/pthm-cable/zeroturn/components"
)

// Raster polarity: alpha 0 is uncut grass, alpha 255 is fully cut. Coverage
// of a region is the mean alpha divided by 255.
const cutAlpha = 255

var (
	// ErrScaleMismatch is returned when a base raster was produced at a
	// different resolution than the rasterizer.
	ErrScaleMismatch = errors.New("raster scale mismatch")
	// ErrEmptyCrop is returned when the crop rectangle covers no pixels.
	ErrEmptyCrop = errors.New("empty crop")
)

// Raster is an immutable compacted coverage image. Pix bounds are expressed
// on a pixel grid anchored at field-local (0,0), so rasters produced by
// successive compactions line up pixel for pixel.
type Raster struct {
	Pix   *image.Alpha
	Scale float64 // Pixels per field unit
}

// PixelRect returns the smallest pixel rectangle covering r at scale.
func PixelRect(r components.Rect, scale float64) image.Rectangle {
	const eps = 1e-9
	return image.Rect(
		int(math.Floor(r.Min.X*scale+eps)),
		int(math.Floor(r.Min.Y*scale+eps)),
		int(math.Ceil(r.Max.X*scale-eps)),
		int(math.Ceil(r.Max.Y*scale-eps)),
	)
}

// Bounds returns the field-local rectangle covered by the raster.
func (r *Raster) Bounds() components.Rect {
	if r == nil || r.Pix == nil {
		return components.Rect{}
	}
	b := r.Pix.Bounds()
	return components.Rect{
		Min: components.Vec2{X: float64(b.Min.X) / r.Scale, Y: float64(b.Min.Y) / r.Scale},
		Max: components.Vec2{X: float64(b.Max.X) / r.Scale, Y: float64(b.Max.Y) / r.Scale},
	}
}

// Rasterizer renders a base raster plus pending shapes into a new raster
// covering crop. Implementations must not modify base.
type Rasterizer interface {
	Rasterize(base *Raster, shapes []components.CutShape, crop components.Rect) (*Raster, error)
}

// RasterizeFunc adapts a plain function to the Rasterizer interface.
type RasterizeFunc func(base *Raster, shapes []components.CutShape, crop components.Rect) (*Raster, error)

// Rasterize calls f.
func (f RasterizeFunc) Rasterize(base *Raster, shapes []components.CutShape, crop components.Rect) (*Raster, error) {
	return f(base, shapes, crop)
}

// VectorRasterizer fills cut ellipses with anti-aliasing on the CPU using gg.
type VectorRasterizer struct {
	Scale float64
}

// NewVectorRasterizer returns a rasterizer producing scale pixels per field unit.
func NewVectorRasterizer(scale float64) *VectorRasterizer {
	return &VectorRasterizer{Scale: scale}
}

// Rasterize implements Rasterizer.
func (v *VectorRasterizer) Rasterize(base *Raster, shapes []components.CutShape, crop components.Rect) (*Raster, error) {
	if base != nil && base.Scale != v.Scale {
		return nil, fmt.Errorf("%w: base %v, rasterizer %v", ErrScaleMismatch, base.Scale, v.Scale)
	}
	pr := PixelRect(crop, v.Scale)
	if pr.Empty() {
		return nil, ErrEmptyCrop
	}

	dst := image.NewAlpha(pr)
	if base != nil && base.Pix != nil {
		r := base.Pix.Bounds().Intersect(pr)
		if !r.Empty() {
			xdraw.Draw(dst, r, base.Pix, r.Min, xdraw.Src)
		}
	}

	var dirty components.Rect
	for _, s := range shapes {
		if !s.Degenerate() {
			dirty = dirty.Union(s.Bounds())
		}
	}
	dr := PixelRect(dirty.Intersect(crop), v.Scale).Intersect(pr)
	if dr.Empty() {
		return &Raster{Pix: dst, Scale: v.Scale}, nil
	}

	layer, err := v.fill(shapes, dr)
	if err != nil {
		return nil, err
	}
	xdraw.Draw(dst, dr, layer, image.Point{}, xdraw.Over)

	return &Raster{Pix: dst, Scale: v.Scale}, nil
}

// fill draws shapes into a context sized to dr and returns its image, whose
// origin corresponds to dr.Min.
func (v *VectorRasterizer) fill(shapes []components.CutShape, dr image.Rectangle) (image.Image, error) {
	ctx := gg.NewContext(dr.Dx(), dr.Dy())
	defer ctx.Close()
	ctx.SetRGBA(1, 1, 1, 1)

	ox, oy := float64(dr.Min.X), float64(dr.Min.Y)
	for i, s := range shapes {
		if s.Degenerate() {
			continue
		}
		ctx.Push()
		ctx.Translate(s.Center.X*v.Scale-ox, s.Center.Y*v.Scale-oy)
		ctx.Rotate(s.Rotation)
		ctx.DrawEllipse(0, 0, s.Width*v.Scale/2, s.Height*v.Scale/2)
		err := ctx.Fill()
		ctx.Pop()
		if err != nil {
			return nil, fmt.Errorf("filling shape %d: %w", i, err)
		}
	}
	return ctx.Image(), nil
}
