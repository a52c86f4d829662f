package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/zeroturn/components"
)

var testField = components.Rect{Max: components.Vec2{X: 1000, Y: 1800}}

func newTestMask(threshold int) *CoverageMask {
	return NewCoverageMask(testField, MaskOptions{Threshold: threshold, MaxInFlight: 2})
}

func TestLocalCoverageSingleCut(t *testing.T) {
	// Ellipse area over its bounding box; small slack for anti-aliasing.
	const aaSlack = 0.005
	want := math.Pi / 4

	centers := []components.Vec2{
		{X: 500, Y: 900},
		{X: 500.5, Y: 900.5},
		{X: 500.3, Y: 900.7},
	}
	for _, center := range centers {
		m := newTestMask(75)
		m.Cut(center, 80, 40, 0)
		window := components.RectCentered(center, 80, 40)

		if got := m.LocalCoverage(window, AreaAverage{}); got != 0 {
			t.Errorf("%v: pending cuts should not be visible, got %f", center, got)
		}

		if err := m.Compact(NewVectorRasterizer(1)); err != nil {
			t.Fatalf("compact: %v", err)
		}

		got := m.LocalCoverage(window, AreaAverage{})
		if math.Abs(got-want) > aaSlack {
			t.Errorf("%v: local coverage = %f, want %f ± %f", center, got, want, aaSlack)
		}
	}
}

func TestLocalCoverageFullyCut(t *testing.T) {
	m := newTestMask(75)
	center := components.Vec2{X: 500, Y: 900}
	m.Cut(center, 300, 300, 0)
	if err := m.Compact(NewVectorRasterizer(1)); err != nil {
		t.Fatalf("compact: %v", err)
	}
	if got := m.LocalCoverage(components.RectCentered(center, 80, 40), AreaAverage{}); got < 0.99 {
		t.Errorf("window inside a large cut should be covered, got %f", got)
	}
	if got := m.LocalCoverage(components.RectCentered(components.Vec2{X: 100, Y: 100}, 80, 40), AreaAverage{}); got != 0 {
		t.Errorf("window far from any cut should be uncovered, got %f", got)
	}
}

func TestCompactIdempotent(t *testing.T) {
	m := newTestMask(75)
	m.Cut(components.Vec2{X: 300, Y: 300}, 80, 40, 0.3)
	m.Cut(components.Vec2{X: 340, Y: 320}, 80, 40, 0.6)
	rast := NewVectorRasterizer(1)

	if err := m.Compact(rast); err != nil {
		t.Fatalf("first compact: %v", err)
	}
	first := m.Raster()
	gen := m.Generation()

	if err := m.Compact(rast); err != nil {
		t.Fatalf("second compact: %v", err)
	}
	if m.Raster() != first || m.Generation() != gen {
		t.Error("compact with nothing pending should leave the raster untouched")
	}
	if m.Pending() != 0 {
		t.Errorf("pending = %d after compaction", m.Pending())
	}
}

func TestCompactPreservesEarlierCuts(t *testing.T) {
	m := newTestMask(75)
	rast := NewVectorRasterizer(1)

	m.Cut(components.Vec2{X: 200, Y: 200}, 80, 40, 0)
	if err := m.Compact(rast); err != nil {
		t.Fatal(err)
	}
	region := PixelRect(components.RectCentered(components.Vec2{X: 200, Y: 200}, 80, 40), 1)
	before := m.Raster().Pix.SubImage(region)

	m.Cut(components.Vec2{X: 800, Y: 1500}, 80, 40, 1.0)
	if err := m.Compact(rast); err != nil {
		t.Fatal(err)
	}
	after := m.Raster().Pix.SubImage(region)

	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			if before.At(x, y) != after.At(x, y) {
				t.Fatalf("pixel (%d,%d) changed across compaction", x, y)
			}
		}
	}
	rb := m.Raster().Bounds()
	if !rb.Contains(components.Vec2{X: 200, Y: 200}) || !rb.Contains(components.Vec2{X: 800, Y: 1500}) {
		t.Errorf("raster should span both cuts, got %+v", rb)
	}
}

func TestCompactDegenerateIsNoop(t *testing.T) {
	m := newTestMask(75)
	if err := m.Compact(NewVectorRasterizer(1)); err != nil {
		t.Fatalf("empty compact: %v", err)
	}
	if m.Raster() != nil {
		t.Error("empty compact should not publish a raster")
	}

	m.Cut(components.Vec2{X: -500, Y: -500}, 80, 40, 0)
	m.Cut(components.Vec2{X: 500, Y: 900}, 0, 40, 0)
	if m.Pending() != 0 {
		t.Errorf("out-of-field and zero-size cuts should be dropped, pending = %d", m.Pending())
	}
}

func TestCompactFailureLeavesState(t *testing.T) {
	m := newTestMask(75)
	m.Cut(components.Vec2{X: 500, Y: 900}, 80, 40, 0)

	boom := errors.New("backend lost")
	err := m.Compact(RasterizeFunc(func(*Raster, []components.CutShape, components.Rect) (*Raster, error) {
		return nil, boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if m.Pending() != 1 || m.Raster() != nil || m.Generation() != 0 {
		t.Error("failed compaction should leave pending cuts and raster unchanged")
	}
	if m.Maintain(true, RasterizeFunc(func(*Raster, []components.CutShape, components.Rect) (*Raster, error) {
		return nil, boom
	})) {
		t.Error("Maintain should report false when compaction fails")
	}
}

func TestCompactRejectsScaleMismatch(t *testing.T) {
	m := newTestMask(75)
	m.Cut(components.Vec2{X: 500, Y: 900}, 80, 40, 0)
	if err := m.Compact(NewVectorRasterizer(1)); err != nil {
		t.Fatal(err)
	}
	m.Cut(components.Vec2{X: 500, Y: 950}, 80, 40, 0)
	if err := m.Compact(NewVectorRasterizer(2)); !errors.Is(err, ErrScaleMismatch) {
		t.Errorf("expected ErrScaleMismatch, got %v", err)
	}
}

func TestTriggerPolicy(t *testing.T) {
	m := newTestMask(3)
	if m.ShouldCompact(true) {
		t.Error("idle with nothing pending should not compact")
	}
	m.Cut(components.Vec2{X: 100, Y: 100}, 10, 10, 0)
	if m.ShouldCompact(false) {
		t.Error("one pending cut while active should not compact")
	}
	if !m.ShouldCompact(true) {
		t.Error("idle with pending cuts should compact")
	}
	m.Cut(components.Vec2{X: 110, Y: 100}, 10, 10, 0)
	m.Cut(components.Vec2{X: 120, Y: 100}, 10, 10, 0)
	if !m.ShouldCompact(false) {
		t.Error("reaching the threshold should compact")
	}
	if !m.Maintain(false, NewVectorRasterizer(1)) {
		t.Error("Maintain should compact at threshold")
	}
	if m.Pending() != 0 {
		t.Errorf("pending = %d after Maintain", m.Pending())
	}
}

func TestTotalCoverageMonotonic(t *testing.T) {
	m := newTestMask(75)
	rast := NewVectorRasterizer(1)

	prev := 0.0
	for i := 0; i < 8; i++ {
		m.Cut(components.Vec2{X: 100 + float64(i)*100, Y: 200 + float64(i)*150}, 160, 90, float64(i)*0.4)
		if err := m.Compact(rast); err != nil {
			t.Fatal(err)
		}
		ch, ok := m.RequestTotalCoverage(0.25, AreaAverage{})
		if !ok {
			if err := m.Wait(); err != nil {
				t.Fatal(err)
			}
			ch, ok = m.RequestTotalCoverage(0.25, AreaAverage{})
			if !ok {
				t.Fatal("request skipped with nothing in flight")
			}
		}
		got := <-ch
		if got < prev {
			t.Fatalf("total coverage decreased: %f -> %f", prev, got)
		}
		if _, open := <-ch; open {
			t.Fatal("result channel should be closed after delivery")
		}
		prev = got
	}
	if err := m.Wait(); err != nil {
		t.Fatal(err)
	}
	if m.TotalCoverage() != prev {
		t.Errorf("cached total %f != last delivered %f", m.TotalCoverage(), prev)
	}
}

func TestTotalCoverageValue(t *testing.T) {
	m := newTestMask(75)
	m.Cut(components.Vec2{X: 500, Y: 900}, 400, 400, 0)
	if err := m.Compact(NewVectorRasterizer(1)); err != nil {
		t.Fatal(err)
	}
	ch, ok := m.RequestTotalCoverage(0.25, AreaAverage{})
	if !ok {
		t.Fatal("request skipped")
	}
	got := <-ch
	want := math.Pi * 200 * 200 / (1000 * 1800)
	if math.Abs(got-want) > 0.01 {
		t.Errorf("total coverage = %f, want ~%f", got, want)
	}
}

func TestTotalCoverageStaleResultIgnored(t *testing.T) {
	m := newTestMask(75)
	if v := m.publishTotal(3, 0.4); v != 0.4 {
		t.Fatalf("publish gen 3 = %f", v)
	}
	if v := m.publishTotal(2, 0.9); v != 0.4 {
		t.Errorf("older generation overwrote newer: %f", v)
	}
	if v := m.publishTotal(4, 0.35); v != 0.4 {
		t.Errorf("newer generation lowered the cached value: %f", v)
	}
	if v := m.publishTotal(5, 0.5); v != 0.5 || m.TotalCoverage() != 0.5 {
		t.Errorf("expected 0.5, got %f", v)
	}
}

func TestTotalCoverageNoRaster(t *testing.T) {
	m := newTestMask(75)
	ch, ok := m.RequestTotalCoverage(0.25, AreaAverage{})
	if !ok {
		t.Fatal("request skipped")
	}
	if got := <-ch; got != 0 {
		t.Errorf("empty field coverage = %f", got)
	}
}

func TestRasterMatchesAcrossCompactions(t *testing.T) {
	// Cutting in one batch or two must give the same coverage when shapes do not overlap.
	shapes := []components.CutShape{
		{Center: components.Vec2{X: 150, Y: 150}, Width: 80, Height: 40, Rotation: 0.2},
		{Center: components.Vec2{X: 700, Y: 1200}, Width: 80, Height: 40, Rotation: 1.1},
	}
	rast := NewVectorRasterizer(1)

	one := newTestMask(75)
	for _, s := range shapes {
		one.Cut(s.Center, s.Width, s.Height, s.Rotation)
	}
	if err := one.Compact(rast); err != nil {
		t.Fatal(err)
	}

	two := newTestMask(75)
	for _, s := range shapes {
		two.Cut(s.Center, s.Width, s.Height, s.Rotation)
		if err := two.Compact(rast); err != nil {
			t.Fatal(err)
		}
	}

	a, b := one.Raster().Pix, two.Raster().Pix
	if a.Bounds() != b.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", a.Bounds(), b.Bounds())
	}
	for _, s := range shapes {
		w := s.Bounds()
		ca := AreaAverage{}.Sample(one.Raster(), w)
		cb := AreaAverage{}.Sample(two.Raster(), w)
		if math.Abs(ca-cb) > 1e-3 {
			t.Errorf("coverage around %+v differs: %f vs %f", s.Center, ca, cb)
		}
	}
}
