package systems

import (
	"math"
	"testing"
	"time"
)

func TestDailySeed(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int64
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 20250101},
		{time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), 20241231},
		// 23:30 in UTC-5 is already the next day in UTC
		{time.Date(2025, 3, 14, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)), 20250315},
	}
	for _, tc := range tests {
		if got := DailySeed(tc.in); got != tc.want {
			t.Errorf("DailySeed(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRandomSourceDeterministic(t *testing.T) {
	a := NewRandomSource(20250101)
	b := NewRandomSource(20250101)
	for i := 0; i < 1000; i++ {
		var x, y float64
		if i%2 == 0 {
			x, y = a.Float(-50, 50), b.Float(-50, 50)
		} else {
			x, y = a.Angle(), b.Angle()
		}
		if x != y {
			t.Fatalf("call %d diverged: %v != %v", i, x, y)
		}
	}
}

func TestRandomSourceSeedsDiffer(t *testing.T) {
	a := NewRandomSource(20250101)
	b := NewRandomSource(20250102)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Float(0, 1) == b.Float(0, 1) {
			same++
		}
	}
	if same > 1 {
		t.Errorf("different seeds produced %d identical draws", same)
	}
}

func TestRandomSourceRanges(t *testing.T) {
	r := NewRandomSource(7)
	for i := 0; i < 10000; i++ {
		if v := r.Float(-3, 5); v < -3 || v >= 5 {
			t.Fatalf("Float out of range: %v", v)
		}
		if a := r.Angle(); a < 0 || a >= 2*math.Pi {
			t.Fatalf("Angle out of range: %v", a)
		}
	}
	if v := r.Float(2, 2); v != 2 {
		t.Errorf("Float(2, 2) = %v, want 2", v)
	}
}
