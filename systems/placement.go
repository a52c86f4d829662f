package systems

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/zeroturn/components"
)

// DefaultMaxAttempts caps rejection sampling per obstacle.
const DefaultMaxAttempts = 100

// PlacedPoint is one obstacle position produced by ObstaclePlacer.
type PlacedPoint struct {
	Point components.Vec2
	components.Placement
}

// ObstaclePlacer scatters points over a field with a minimum spacing using
// rejection sampling. When the cap is hit the best candidate seen is kept and
// marked degraded instead of violating the cap.
type ObstaclePlacer struct {
	Rand        *RandomSource
	MaxAttempts int
}

// NewObstaclePlacer returns a placer drawing from rng.
func NewObstaclePlacer(rng *RandomSource, maxAttempts int) *ObstaclePlacer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &ObstaclePlacer{Rand: rng, MaxAttempts: maxAttempts}
}

// Place returns count points inside fieldSize (centred on the origin), each
// at least obstacleSize from the edge and, unless degraded, at least
// minSpacing from every point in existing and every earlier result.
func (p *ObstaclePlacer) Place(count int, minSpacing, obstacleSize float64, fieldSize components.Vec2, existing []components.Vec2) []PlacedPoint {
	if count <= 0 {
		return nil
	}

	xLo, xHi := placementRange(fieldSize.X, obstacleSize)
	yLo, yHi := placementRange(fieldSize.Y, obstacleSize)

	previous := make([]components.Vec2, 0, len(existing)+count)
	previous = append(previous, existing...)
	out := make([]PlacedPoint, 0, count)

	for i := 0; i < count; i++ {
		var best components.Vec2
		bestDist := -1.0
		accepted := false

		for attempt := 0; attempt < p.MaxAttempts; attempt++ {
			candidate := components.Vec2{
				X: p.Rand.Float(xLo, xHi),
				Y: p.Rand.Float(yLo, yHi),
			}
			d := nearestDistance(candidate, previous)
			if d > bestDist {
				best, bestDist = candidate, d
			}
			if d >= minSpacing {
				accepted = true
				break
			}
		}

		placed := PlacedPoint{Point: best}
		placed.MinDistance = bestDist
		if !accepted {
			placed.Degraded = true
			slog.Warn("obstacle placement degraded",
				"index", i,
				"attempts", p.MaxAttempts,
				"min_spacing", minSpacing,
				"nearest", bestDist,
			)
		}
		out = append(out, placed)
		previous = append(previous, best)
	}

	return out
}

// placementRange returns the sampling interval for one axis. An interval that
// would be inverted collapses to the field centre.
func placementRange(size, margin float64) (lo, hi float64) {
	lo, hi = -size/2+margin, size/2-margin
	if hi < lo {
		return 0, 0
	}
	return lo, hi
}

// nearestDistance returns the distance from p to the closest point in set,
// or +Inf when set is empty.
func nearestDistance(p components.Vec2, set []components.Vec2) float64 {
	best := math.Inf(1)
	for _, q := range set {
		if d := p.Dist(q); d < best {
			best = d
		}
	}
	return best
}
