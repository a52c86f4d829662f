package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	MowingTimeSec   float64 `csv:"mowing_time"`

	// Events during window
	Cuts            int `csv:"cuts"`
	Compactions     int `csv:"compactions"`
	ShapesCompacted int `csv:"shapes_compacted"`
	CompactFailures int `csv:"compact_failures"`
	PeakPending     int `csv:"peak_pending"`
	TotalRequests   int `csv:"total_requests"`
	TotalSkipped    int `csv:"total_skipped"`

	// Local coverage under the tool (sampled every tick while cutting)
	LocalMean float64 `csv:"local_mean"`
	LocalP10  float64 `csv:"local_p10"`
	LocalP50  float64 `csv:"local_p50"`
	LocalP90  float64 `csv:"local_p90"`

	// Whole-field coverage at window end
	TotalCoverage float64 `csv:"total_coverage"`

	// Distance driven in field units during the window
	Distance float64 `csv:"distance"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeCoverageStats calculates mean and percentiles from coverage samples.
func ComputeCoverageStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("mowing_time", s.MowingTimeSec),
		slog.Int("cuts", s.Cuts),
		slog.Int("compactions", s.Compactions),
		slog.Int("shapes_compacted", s.ShapesCompacted),
		slog.Int("compact_failures", s.CompactFailures),
		slog.Int("peak_pending", s.PeakPending),
		slog.Int("total_requests", s.TotalRequests),
		slog.Int("total_skipped", s.TotalSkipped),
		slog.Float64("local_mean", s.LocalMean),
		slog.Float64("local_p50", s.LocalP50),
		slog.Float64("total_coverage", s.TotalCoverage),
		slog.Float64("distance", s.Distance),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
