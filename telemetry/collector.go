package telemetry

import "math"

// Collector accumulates mowing events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	cuts            int
	compactions     int
	shapesCompacted int
	compactFailures int
	peakPending     int
	totalRequests   int
	totalSkipped    int
	distance        float64
	localSamples    []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		localSamples:        make([]float64, 0, ticksPerWindow),
	}
}

// RecordCut records one cut and the pending count after it.
func (c *Collector) RecordCut(pending int) {
	c.cuts++
	if pending > c.peakPending {
		c.peakPending = pending
	}
}

// RecordCompaction records a compaction of n shapes.
func (c *Collector) RecordCompaction(n int) {
	c.compactions++
	c.shapesCompacted += n
}

// RecordCompactFailure records a compaction the backend rejected.
func (c *Collector) RecordCompactFailure() {
	c.compactFailures++
}

// RecordTotalRequest records a whole-field coverage request.
func (c *Collector) RecordTotalRequest(started bool) {
	if started {
		c.totalRequests++
	} else {
		c.totalSkipped++
	}
}

// RecordLocalCoverage records the coverage under the tool for one tick.
func (c *Collector) RecordLocalCoverage(v float64) {
	c.localSamples = append(c.localSamples, v)
}

// RecordDistance adds driven distance in field units.
func (c *Collector) RecordDistance(d float64) {
	c.distance += d
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// totalCoverage is the cached whole-field value and mowingTime the session
// timer, both read at window end.
func (c *Collector) Flush(currentTick int32, totalCoverage, mowingTime float64) WindowStats {
	mean, p10, p50, p90 := ComputeCoverageStats(c.localSamples)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		MowingTimeSec:   mowingTime,

		Cuts:            c.cuts,
		Compactions:     c.compactions,
		ShapesCompacted: c.shapesCompacted,
		CompactFailures: c.compactFailures,
		PeakPending:     c.peakPending,
		TotalRequests:   c.totalRequests,
		TotalSkipped:    c.totalSkipped,

		LocalMean: mean,
		LocalP10:  p10,
		LocalP50:  p50,
		LocalP90:  p90,

		TotalCoverage: totalCoverage,
		Distance:      c.distance,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.cuts = 0
	c.compactions = 0
	c.shapesCompacted = 0
	c.compactFailures = 0
	c.peakPending = 0
	c.totalRequests = 0
	c.totalSkipped = 0
	c.distance = 0
	c.localSamples = c.localSamples[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
