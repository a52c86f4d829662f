package systems

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/zeroturn/components"
)

// Sampler returns the fraction of a field-local window that is cut.
type Sampler interface {
	Sample(r *Raster, window components.Rect) float64
}

// AreaAverage is a CPU Sampler that averages raster alpha over the window.
// Pixels of the window that fall outside the raster count as uncut.
type AreaAverage struct{}

// Sample implements Sampler. Edge pixels the window only partly covers are
// weighted by the covered fraction, so the result does not depend on where
// the window sits relative to the pixel grid.
func (AreaAverage) Sample(r *Raster, window components.Rect) float64 {
	if r == nil || r.Pix == nil || window.Empty() {
		return 0
	}
	x0, x1 := window.Min.X*r.Scale, window.Max.X*r.Scale
	y0, y1 := window.Min.Y*r.Scale, window.Max.Y*r.Scale
	area := (x1 - x0) * (y1 - y0)
	if area <= 0 {
		return 0
	}
	wr := PixelRect(window, r.Scale)
	return clamp01(weightedAlpha(r.Pix, wr, x0, x1, y0, y1) / (cutAlpha * area))
}

// pixelOverlap returns how much of the unit pixel span [p, p+1] lies inside
// [lo, hi].
func pixelOverlap(p int, lo, hi float64) float64 {
	return max(0, min(float64(p+1), hi)-max(float64(p), lo))
}

// weightedAlpha sums alpha inside rect, scaling each pixel by the fraction of
// it covered by the pixel-space window [x0,x1]×[y0,y1]. Pixels outside img
// contribute nothing.
func weightedAlpha(img *image.Alpha, rect image.Rectangle, x0, x1, y0, y1 float64) float64 {
	clip := rect.Intersect(img.Bounds())
	if clip.Empty() {
		return 0
	}
	n := clip.Dx()
	weights := make([]float32, n)
	for i := range weights {
		weights[i] = float32(pixelOverlap(clip.Min.X+i, x0, x1))
	}
	row := make([]float32, n)
	wv := blas32.Vector{N: n, Inc: 1, Data: weights}
	rv := blas32.Vector{N: n, Inc: 1, Data: row}

	var sum float64
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		wy := pixelOverlap(y, y0, y1)
		if wy == 0 {
			continue
		}
		off := img.PixOffset(clip.Min.X, y)
		for i, a := range img.Pix[off : off+n] {
			row[i] = float32(a)
		}
		sum += wy * float64(blas32.Dot(wv, rv))
	}
	return sum
}

// Downscale returns a copy of r shrunk by factor in each dimension. The copy
// keeps the same mean coverage but is only meant for whole-image statistics.
func Downscale(r *Raster, factor float64) *Raster {
	if r == nil || r.Pix == nil {
		return nil
	}
	if factor <= 0 || factor >= 1 {
		return r
	}
	src := r.Pix.Bounds()
	w := max(1, int(math.Round(float64(src.Dx())*factor)))
	h := max(1, int(math.Round(float64(src.Dy())*factor)))
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), r.Pix, src, xdraw.Src, nil)
	return &Raster{Pix: dst, Scale: r.Scale * factor}
}

// TotalCoverage estimates the cut fraction of field from a raster
// downscaled by factor. Field area outside the raster counts as uncut.
func TotalCoverage(r *Raster, field components.Rect, factor float64, s Sampler) float64 {
	if r == nil || r.Pix == nil || field.Empty() {
		return 0
	}
	covered := r.Bounds().Intersect(field).Area()
	if covered == 0 {
		return 0
	}
	small := Downscale(r, factor)
	mean := s.Sample(small, small.Bounds())
	return clamp01(mean * covered / field.Area())
}
