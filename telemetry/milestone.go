package telemetry

import (
	"fmt"
	"log/slog"
)

// MilestoneType identifies the type of milestone.
type MilestoneType string

const (
	MilestoneCoverage     MilestoneType = "coverage"      // Whole-field coverage crossed a threshold
	MilestoneCompactStall MilestoneType = "compact_stall" // Pending cuts kept hitting the threshold
	MilestoneIdleStreak   MilestoneType = "idle_streak"   // A full window without driving
)

// DefaultCoverageSteps are the whole-field fractions reported as milestones.
var DefaultCoverageSteps = []float64{0.25, 0.5, 0.75, 0.9, 0.99}

// Milestone represents an automatically detected moment in a session.
type Milestone struct {
	Type        MilestoneType `csv:"type"`
	Tick        int32         `csv:"tick"`
	MowingTime  float64       `csv:"mowing_time"`
	Description string        `csv:"description"`
}

// LogMilestone logs the milestone using slog.
func (m Milestone) LogMilestone() {
	slog.Info("milestone",
		"type", string(m.Type),
		"tick", m.Tick,
		"mowing_time", m.MowingTime,
		"description", m.Description,
	)
}

// MilestoneDetector watches window stats for notable moments.
type MilestoneDetector struct {
	steps    []float64
	nextStep int

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	idleWindows int
}

// NewMilestoneDetector creates a detector reporting the given coverage steps
// (ascending) with a history of historySize windows.
func NewMilestoneDetector(steps []float64, historySize int) *MilestoneDetector {
	if len(steps) == 0 {
		steps = DefaultCoverageSteps
	}
	if historySize < 3 {
		historySize = 3
	}
	return &MilestoneDetector{
		steps:       steps,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered milestones.
func (md *MilestoneDetector) Check(stats WindowStats) []Milestone {
	var out []Milestone

	for md.nextStep < len(md.steps) && stats.TotalCoverage >= md.steps[md.nextStep] {
		step := md.steps[md.nextStep]
		out = append(out, Milestone{
			Type:        MilestoneCoverage,
			Tick:        stats.WindowEndTick,
			MowingTime:  stats.MowingTimeSec,
			Description: fmt.Sprintf("field %.0f%% cut", step*100),
		})
		md.nextStep++
	}

	if m := md.checkCompactStall(stats); m != nil {
		out = append(out, *m)
	}
	if m := md.checkIdle(stats); m != nil {
		out = append(out, *m)
	}

	md.addToHistory(stats)
	return out
}

func (md *MilestoneDetector) addToHistory(stats WindowStats) {
	md.history[md.historyIdx] = stats
	md.historyIdx = (md.historyIdx + 1) % md.historySize
	if md.historyIdx == 0 {
		md.historyFull = true
	}
}

func (md *MilestoneDetector) getHistory() []WindowStats {
	if md.historyFull {
		return md.history
	}
	return md.history[:md.historyIdx]
}

// checkCompactStall fires when compactions per window jump to more than
// twice the rolling average, which means the threshold is being hit while
// driving instead of compaction riding on idle time.
func (md *MilestoneDetector) checkCompactStall(stats WindowStats) *Milestone {
	history := md.getHistory()
	if len(history) < 3 || stats.Compactions < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Compactions
	}
	avg := float64(total) / float64(len(history))
	if float64(stats.Compactions) <= 2*avg {
		return nil
	}

	return &Milestone{
		Type:        MilestoneCompactStall,
		Tick:        stats.WindowEndTick,
		MowingTime:  stats.MowingTimeSec,
		Description: fmt.Sprintf("%d compactions vs %.1f average", stats.Compactions, avg),
	}
}

// checkIdle fires once when a window passes without any cuts after driving.
func (md *MilestoneDetector) checkIdle(stats WindowStats) *Milestone {
	if stats.Cuts > 0 {
		md.idleWindows = 0
		return nil
	}
	md.idleWindows++
	if md.idleWindows != 1 || len(md.getHistory()) == 0 {
		return nil
	}
	return &Milestone{
		Type:        MilestoneIdleStreak,
		Tick:        stats.WindowEndTick,
		MowingTime:  stats.MowingTimeSec,
		Description: "mower idle for a full window",
	}
}
