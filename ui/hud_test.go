package ui

import "testing"

func TestFormatTimer(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00.0"},
		{-3, "0:00.0"},
		{0.1, "0:00.1"},
		{9.95, "0:10.0"},
		{61.2, "1:01.2"},
		{600, "10:00.0"},
	}
	for _, tt := range tests {
		if got := FormatTimer(tt.seconds); got != tt.want {
			t.Errorf("FormatTimer(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestRampColor(t *testing.T) {
	p := DefaultTheme().Palette
	tests := []struct {
		v    float32
		want int
	}{
		{0, 0},
		{0.29, 0},
		{0.3, 1},
		{0.59, 1},
		{0.6, 2},
		{1, 2},
	}
	for _, tt := range tests {
		if got := p.RampColor(tt.v); got != p.Ramp[tt.want] {
			t.Errorf("RampColor(%v) = %v, want ramp[%d]", tt.v, got, tt.want)
		}
	}
}
