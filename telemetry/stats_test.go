package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{0.5}, 0.5, 0.5},
		{"p0", []float64{0.1, 0.2, 0.3, 0.4, 0.5}, 0.0, 0.1},
		{"p100", []float64{0.1, 0.2, 0.3, 0.4, 0.5}, 1.0, 0.5},
		{"p50 odd", []float64{0.1, 0.2, 0.3, 0.4, 0.5}, 0.5, 0.3},
		{"p50 even", []float64{0.1, 0.2, 0.3, 0.4}, 0.5, 0.25},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeCoverageStats(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, p10, p50, p90 := ComputeCoverageStats(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(p10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", p10)
	}
	if math.Abs(p50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", p50)
	}
	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}

	// Input must not be reordered
	if values[0] != 1.0 {
		t.Error("ComputeCoverageStats sorted the caller's slice")
	}
}

func TestComputeCoverageStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeCoverageStats(nil)
	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("expected all zeros for empty input")
	}
}
