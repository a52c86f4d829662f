package systems

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// DailySeed returns year*10000 + month*100 + day for t in UTC, so every
// player sees the same layout on the same calendar day.
func DailySeed(t time.Time) int64 {
	u := t.UTC()
	return int64(u.Year())*10000 + int64(u.Month())*100 + int64(u.Day())
}

// RandomSource is a seeded, platform-independent uniform generator.
// It is not safe for concurrent use.
type RandomSource struct {
	seed int64
	src  *rand.PCG
}

// NewRandomSource creates a generator whose output depends only on seed.
func NewRandomSource(seed int64) *RandomSource {
	s := uint64(seed)
	return &RandomSource{
		seed: seed,
		src:  rand.NewPCG(s, s^0x9e3779b97f4a7c15),
	}
}

// Seed returns the seed the source was created with.
func (r *RandomSource) Seed() int64 { return r.seed }

// Float returns a uniform value in [low, high). low == high returns low.
func (r *RandomSource) Float(low, high float64) float64 {
	if high <= low {
		return low
	}
	u := distuv.Uniform{Min: low, Max: high, Src: r.src}
	v := u.Rand()
	if v >= high {
		// Rounding of low + f*(high-low) can land on high.
		v = math.Nextafter(high, low)
	}
	return v
}

// Angle returns a uniform angle in [0, 2π).
func (r *RandomSource) Angle() float64 {
	return r.Float(0, 2*math.Pi)
}
