package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("ticks per window = %d, want 10", c.WindowDurationTicks())
	}
	if c.ShouldFlush(9) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(10) {
		t.Error("should flush at window end")
	}
}

func TestCollectorWindowRoundsFloat32DT(t *testing.T) {
	tests := []struct {
		window float64
		dt     float32
		want   int32
	}{
		{1.0, 0.1, 10},
		{10, 1.0 / 60, 600},
		{0.5, 1.0 / 60, 30},
		{0.001, 1.0 / 60, 1},
	}
	for _, tt := range tests {
		if got := NewCollector(tt.window, tt.dt).WindowDurationTicks(); got != tt.want {
			t.Errorf("NewCollector(%v, %v) ticks = %d, want %d", tt.window, tt.dt, got, tt.want)
		}
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	for i := 1; i <= 5; i++ {
		c.RecordCut(i)
		c.RecordLocalCoverage(float64(i) / 10)
	}
	c.RecordCompaction(5)
	c.RecordCompactFailure()
	c.RecordTotalRequest(true)
	c.RecordTotalRequest(false)
	c.RecordDistance(12.5)

	s := c.Flush(10, 0.42, 3.1)
	if s.Cuts != 5 || s.PeakPending != 5 || s.Compactions != 1 || s.ShapesCompacted != 5 {
		t.Errorf("unexpected counters: %+v", s)
	}
	if s.CompactFailures != 1 || s.TotalRequests != 1 || s.TotalSkipped != 1 {
		t.Errorf("unexpected request counters: %+v", s)
	}
	if math.Abs(s.LocalMean-0.3) > 1e-9 || s.TotalCoverage != 0.42 || s.MowingTimeSec != 3.1 {
		t.Errorf("unexpected coverage fields: %+v", s)
	}
	if math.Abs(s.SimTimeSec-1.0) > 1e-6 || s.Distance != 12.5 {
		t.Errorf("unexpected time/distance: %+v", s)
	}

	next := c.Flush(20, 0.5, 4)
	if next.WindowStartTick != 10 || next.Cuts != 0 || next.PeakPending != 0 || next.LocalMean != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
