package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the mowing step.
const (
	PhaseDrive         = "drive"
	PhaseTransform     = "transform"
	PhaseCut           = "cut"
	PhaseLocalCoverage = "local_coverage"
	PhaseCompact       = "compact"
	PhaseTotalRequest  = "total_request"
	PhaseCamera        = "camera"
	PhaseTelemetry     = "telemetry"
)

// Phases lists phase names in step order.
var Phases = []string{
	PhaseDrive, PhaseTransform, PhaseCut, PhaseLocalCoverage,
	PhaseCompact, PhaseTotalRequest, PhaseCamera, PhaseTelemetry,
}

// tickSample is the timing of one step. phases is indexed by slot.
type tickSample struct {
	total  time.Duration
	phases []time.Duration
}

// PerfCollector times step phases over a ring of recent ticks. Phase names
// are assigned a slot on first use so a tick records into a flat slice.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	slots map[string]int
	names []string

	// budget is the wall time one tick may take before it counts as slow
	// (0 disables the check).
	budget time.Duration

	cur        []time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      int // current slot, -1 outside a phase

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		ring:  make([]tickSample, windowSize),
		slots: make(map[string]int, len(Phases)),
		phase: -1,
	}
	for _, name := range Phases {
		p.slot(name)
	}
	return p
}

// SetBudget sets the per-tick time budget used for OverBudget counts.
func (p *PerfCollector) SetBudget(d time.Duration) {
	p.budget = d
}

func (p *PerfCollector) slot(name string) int {
	if i, ok := p.slots[name]; ok {
		return i
	}
	i := len(p.names)
	p.slots[name] = i
	p.names = append(p.names, name)
	return i
}

// StartTick begins timing a new step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = make([]time.Duration, len(p.names))
	p.phase = -1
}

// StartPhase closes the running phase, if any, and starts timing name.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	i := p.slot(name)
	for len(p.cur) <= i {
		p.cur = append(p.cur, 0)
	}
	p.phase = i
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur[p.phase] += now.Sub(p.phaseStart)
	}
	p.phase = -1
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.ring[p.next] = tickSample{total: now.Sub(p.tickStart), phases: p.cur}
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame measures the time since the previous call (graphics mode).
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes the ticks in the current window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Per-phase mean, share of the mean tick, and worst single tick.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64
	PhaseMax map[string]time.Duration

	// SlowestPhase is the phase that took longest in the slowest tick.
	SlowestPhase string
	// OverBudget counts ticks longer than the collector's budget.
	OverBudget int

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the window. It never returns nil maps.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		PhaseMax:      make(map[string]time.Duration),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.count == 0 {
		return s
	}

	sums := make([]time.Duration, len(p.names))
	maxes := make([]time.Duration, len(p.names))
	seen := make([]bool, len(p.names))
	var total time.Duration
	var slowest tickSample

	for i := 0; i < p.count; i++ {
		t := p.ring[i]
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		if t.total >= s.MaxTickDuration {
			s.MaxTickDuration = t.total
			slowest = t
		}
		if p.budget > 0 && t.total > p.budget {
			s.OverBudget++
		}
		for slot, d := range t.phases {
			sums[slot] += d
			maxes[slot] = max(maxes[slot], d)
			seen[slot] = true
		}
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	for slot, name := range p.names {
		if !seen[slot] {
			continue
		}
		avg := sums[slot] / n
		s.PhaseAvg[name] = avg
		s.PhaseMax[name] = maxes[slot]
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}

	var worst time.Duration
	for slot, d := range slowest.phases {
		if d > worst {
			worst = d
			s.SlowestPhase = p.names[slot]
		}
	}
	return s
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases appear in step order and
// phases under 0.1% are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
		slog.Int("over_budget", s.OverBudget),
	}
	if s.SlowestPhase != "" {
		attrs = append(attrs, slog.String("slowest_phase", s.SlowestPhase))
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd        int32   `csv:"window_end"`
	AvgTickUS        int64   `csv:"avg_tick_us"`
	MinTickUS        int64   `csv:"min_tick_us"`
	MaxTickUS        int64   `csv:"max_tick_us"`
	TicksPerSec      float64 `csv:"ticks_per_sec"`
	FPS              float64 `csv:"fps"`
	OverBudget       int     `csv:"over_budget"`
	SlowestPhase     string  `csv:"slowest_phase"`
	CompactMaxUS     int64   `csv:"compact_max_us"`
	DrivePct         float64 `csv:"drive_pct"`
	TransformPct     float64 `csv:"transform_pct"`
	CutPct           float64 `csv:"cut_pct"`
	LocalCoveragePct float64 `csv:"local_coverage_pct"`
	CompactPct       float64 `csv:"compact_pct"`
	TotalRequestPct  float64 `csv:"total_request_pct"`
	CameraPct        float64 `csv:"camera_pct"`
	TelemetryPct     float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a row ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:        windowEnd,
		AvgTickUS:        s.AvgTickDuration.Microseconds(),
		MinTickUS:        s.MinTickDuration.Microseconds(),
		MaxTickUS:        s.MaxTickDuration.Microseconds(),
		TicksPerSec:      s.TicksPerSecond,
		FPS:              s.FPS,
		OverBudget:       s.OverBudget,
		SlowestPhase:     s.SlowestPhase,
		CompactMaxUS:     s.PhaseMax[PhaseCompact].Microseconds(),
		DrivePct:         s.PhasePct[PhaseDrive],
		TransformPct:     s.PhasePct[PhaseTransform],
		CutPct:           s.PhasePct[PhaseCut],
		LocalCoveragePct: s.PhasePct[PhaseLocalCoverage],
		CompactPct:       s.PhasePct[PhaseCompact],
		TotalRequestPct:  s.PhasePct[PhaseTotalRequest],
		CameraPct:        s.PhasePct[PhaseCamera],
		TelemetryPct:     s.PhasePct[PhaseTelemetry],
	}
}
