package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/zeroturn/components"
)

func TestPlaceSpacing(t *testing.T) {
	rng := NewRandomSource(20250101)
	p := NewObstaclePlacer(rng, 100)
	field := components.Vec2{X: 1000, Y: 1800}
	start := []components.Vec2{{}}

	got := p.Place(6, 250, 60, field, start)
	if len(got) != 6 {
		t.Fatalf("expected 6 points, got %d", len(got))
	}

	all := append([]components.Vec2{}, start...)
	for _, pt := range got {
		if pt.Point.X < -440 || pt.Point.X > 440 || pt.Point.Y < -840 || pt.Point.Y > 840 {
			t.Errorf("point %+v outside placement range", pt.Point)
		}
		if !pt.Degraded {
			for _, q := range all {
				if d := pt.Point.Dist(q); d < 250 {
					t.Errorf("point %+v only %.1f from %+v", pt.Point, d, q)
				}
			}
		}
		all = append(all, pt.Point)
	}
}

func TestPlaceDailySeedReproducible(t *testing.T) {
	field := components.Vec2{X: 1000, Y: 1800}
	place := func() []PlacedPoint {
		p := NewObstaclePlacer(NewRandomSource(20250101), 100)
		return p.Place(2, 250, 60, field, []components.Vec2{{}})
	}

	first := place()
	for run := 0; run < 5; run++ {
		again := place()
		if len(again) != 2 {
			t.Fatalf("expected 2 points, got %d", len(again))
		}
		for i := range first {
			if first[i].Point != again[i].Point {
				t.Fatalf("run %d point %d: %+v != %+v", run, i, again[i].Point, first[i].Point)
			}
		}
	}
}

func TestPlaceDegradedWhenCrowded(t *testing.T) {
	p := NewObstaclePlacer(NewRandomSource(1), 100)
	// 200x200 field with 50 margin leaves a 100x100 box; spacing 500 is impossible.
	got := p.Place(3, 500, 50, components.Vec2{X: 200, Y: 200}, []components.Vec2{{}})
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	for i, pt := range got {
		if !pt.Degraded {
			t.Errorf("point %d should be flagged degraded", i)
		}
		if pt.MinDistance >= 500 {
			t.Errorf("point %d reports min distance %.1f", i, pt.MinDistance)
		}
	}
}

func TestPlaceKeepsBestCandidate(t *testing.T) {
	seed := int64(99)
	field := components.Vec2{X: 400, Y: 400}
	existing := []components.Vec2{{X: 0, Y: 0}}

	got := NewObstaclePlacer(NewRandomSource(seed), 100).Place(1, 1e6, 20, field, existing)

	// Replay the same draws and find the farthest candidate from the origin.
	rng := NewRandomSource(seed)
	best := 0.0
	for i := 0; i < 100; i++ {
		c := components.Vec2{X: rng.Float(-180, 180), Y: rng.Float(-180, 180)}
		best = math.Max(best, c.Len())
	}
	if math.Abs(got[0].MinDistance-best) > 1e-9 {
		t.Errorf("kept candidate at %.3f, best was %.3f", got[0].MinDistance, best)
	}
}

func TestPlaceInvertedRangeCollapses(t *testing.T) {
	p := NewObstaclePlacer(NewRandomSource(3), 10)
	got := p.Place(1, 0, 100, components.Vec2{X: 50, Y: 50}, nil)
	if got[0].Point != (components.Vec2{}) {
		t.Errorf("expected centre point, got %+v", got[0].Point)
	}
}
