package game

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pthm-cable/zeroturn/camera"
	"github.com/pthm-cable/zeroturn/components"
	"github.com/pthm-cable/zeroturn/config"
	"github.com/pthm-cable/zeroturn/renderer"
	"github.com/pthm-cable/zeroturn/systems"
	"github.com/pthm-cable/zeroturn/telemetry"
	"github.com/pthm-cable/zeroturn/ui"
)

// mowerPosition is the mower's fixed world position. The field moves instead.
var mowerPosition = components.Vec2{}

// Options configures a game session.
type Options struct {
	Seed           int64   // Layout seed (callers pass systems.DailySeed for the daily field)
	LogStats       bool    // Log window stats via slog
	StatsWindowSec float64 // Stats window size (0 = config)
	OutputDir      string  // CSV/config output directory ("" = disabled)
	Headless       bool    // No raylib resources
	StepsPerUpdate int     // Simulation steps per Update call
	Autopilot      bool    // Drive handles automatically
}

// Game holds the complete session state.
type Game struct {
	field      *Field
	rasterizer systems.Rasterizer
	sampler    systems.Sampler
	registry   *systems.SystemRegistry

	handles        systems.Handles
	autopilot      *Autopilot
	referenceAngle float64

	camera *camera.Camera

	// Per-tick feedback
	idle          bool
	speed         float64
	localCoverage float64
	intensity     float64
	volume        float64

	// Timers
	tick        int32
	mowingTime  float64
	timerAccum  float64
	totalAccum  float64
	totalResult <-chan float64
	lastTotal   float64

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	milestones    *telemetry.MilestoneDetector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// Rendering (nil when headless)
	fieldRenderer *renderer.FieldRenderer
	hud           *ui.HUD
	perfPanel     *ui.PerfPanel
	controls      *ui.ControlsPanel
	sessionPanel  *ui.SessionStatsPanel
	overlays      *ui.OverlayRegistry

	// State
	paused         bool
	debugMode      bool
	headless       bool
	stepsPerUpdate int

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a new session. config.Init must have been called.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	rasterizer := systems.NewVectorRasterizer(cfg.Field.Resolution)
	field, err := NewField(cfg, opts.Seed, rasterizer)
	if err != nil {
		return nil, fmt.Errorf("creating field: %w", err)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		field:      field,
		rasterizer: rasterizer,
		sampler:    systems.AreaAverage{},
		registry:   systems.NewSystemRegistry(),
		handles:    systems.Handles{Deadzone: cfg.Drive.Deadzone},
		camera:     camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32),

		collector:     telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		milestones:    telemetry.NewMilestoneDetector(telemetry.DefaultCoverageSteps, 10),
		logStats:      opts.LogStats,

		headless:       opts.Headless,
		stepsPerUpdate: steps,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}
	g.camera.Ease = float32(cfg.Camera.Ease)
	g.perfCollector.SetBudget(time.Duration(cfg.Physics.DT * float64(time.Second)))

	if opts.Autopilot {
		g.autopilot = NewAutopilot(
			field.Bounds,
			cfg.Agent.ToolWidth*0.85,
			cfg.Obstacles.Size,
			min(1, 2*cfg.Drive.Deadzone+0.05),
		)
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
		if err := om.WriteObstacles(field.ObstacleRecords()); err != nil {
			slog.Error("failed to write obstacles", "error", err)
		}
	}

	if !opts.Headless {
		g.fieldRenderer = renderer.NewFieldRenderer()
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-240, 80)
		g.controls = ui.NewControlsPanel(10, 140, 200)
		g.sessionPanel = ui.NewSessionStatsPanel(10, 300, 200)
		g.overlays = ui.NewOverlayRegistry()
	}

	g.updateCameraTarget()
	g.camera.Snap()

	// Pre-cut buffers count towards the starting total.
	g.requestTotal()

	return g, nil
}

// SetStatsCallback registers a function called at the end of every stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// SetHandles sets both lever positions in [-1, 1].
func (g *Game) SetHandles(left, right float64) {
	g.handles.Left = left
	g.handles.Right = right
}

// UpdateHeadless runs simulation steps without input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Update handles input and runs simulation steps.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Step runs a single tick: drive, move the field, cut, sample, compact,
// schedule whole-field coverage, update the camera and telemetry.
func (g *Game) Step() {
	cfg := config.Cfg()
	dt := cfg.Physics.DT
	transform := g.field.Transform
	mask := g.field.Mask

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseDrive)
	before := transform.AgentLocal(mowerPosition)
	if g.autopilot != nil {
		l, r := g.autopilot.Handles(before, transform.LocalHeading(g.referenceAngle), dt)
		g.SetHandles(l, r)
	}
	move, turn := g.handles.Drive(dt)
	g.idle = g.handles.Released()
	g.speed = 0
	if !g.idle {
		g.speed = systems.Speed(g.handles.Left, g.handles.Right)
	}
	g.updateMode()
	g.advanceTimer(dt, cfg.Telemetry.TimerStep)

	g.perfCollector.StartPhase(telemetry.PhaseTransform)
	transform.Advance(move, turn, mowerPosition, g.referenceAngle)
	agent := transform.AgentLocal(mowerPosition)
	g.collector.RecordDistance(agent.Dist(before))

	g.perfCollector.StartPhase(telemetry.PhaseCut)
	if !g.idle {
		heading := transform.LocalHeading(g.referenceAngle)
		mask.Cut(agent, cfg.Agent.ToolWidth, cfg.Agent.ToolHeight, heading-math.Pi/2)
		g.collector.RecordCut(mask.Pending())
	}

	g.perfCollector.StartPhase(telemetry.PhaseLocalCoverage)
	window := components.RectCentered(agent, cfg.Agent.ToolWidth, cfg.Agent.ToolHeight)
	g.localCoverage = mask.LocalCoverage(window, g.sampler)
	g.intensity = systems.EmissionIntensity(g.localCoverage, g.speed)
	g.volume = systems.BladeVolume(g.speed, cfg.Feedback.MinVolume)
	if !g.idle {
		g.collector.RecordLocalCoverage(g.localCoverage)
	}

	g.perfCollector.StartPhase(telemetry.PhaseCompact)
	g.compact(cfg.Compaction.CompactOnIdle && g.idle)

	g.perfCollector.StartPhase(telemetry.PhaseTotalRequest)
	g.pollTotal()
	g.totalAccum += dt
	if g.totalAccum >= cfg.Coverage.TotalInterval {
		g.totalAccum -= cfg.Coverage.TotalInterval
		g.requestTotal()
	}

	g.perfCollector.StartPhase(telemetry.PhaseCamera)
	g.updateCameraTarget()
	g.camera.Update(float32(dt))

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// updateMode follows the mower while it moves and shows the whole field
// while both handles are released.
func (g *Game) updateMode() {
	mode := camera.ModeFollow
	if g.idle {
		mode = camera.ModeOverview
	}
	if g.camera.SetMode(mode) {
		slog.Debug("camera mode", "mode", mode.String(), "tick", g.tick)
	}
}

// advanceTimer adds whole timer steps while the camera follows the mower.
func (g *Game) advanceTimer(dt, step float64) {
	if g.camera.Mode != camera.ModeFollow || step <= 0 {
		return
	}
	g.timerAccum += dt
	for g.timerAccum >= step {
		g.timerAccum -= step
		g.mowingTime += step
	}
}

// compact applies the trigger policy and records the outcome.
func (g *Game) compact(idle bool) {
	mask := g.field.Mask
	if !mask.ShouldCompact(idle) {
		return
	}
	n := mask.Pending()
	if mask.Maintain(idle, g.rasterizer) {
		g.collector.RecordCompaction(n)
		return
	}
	g.collector.RecordCompactFailure()
}

// requestTotal schedules a whole-field sample unless the in-flight limit is
// reached.
func (g *Game) requestTotal() {
	result, ok := g.field.Mask.RequestTotalCoverage(config.Cfg().Coverage.Downscale, g.sampler)
	g.collector.RecordTotalRequest(ok)
	if ok && g.totalResult == nil {
		g.totalResult = result
	}
}

// pollTotal picks up a finished whole-field sample without blocking.
func (g *Game) pollTotal() {
	if g.totalResult == nil {
		return
	}
	select {
	case v, ok := <-g.totalResult:
		if ok && v > g.lastTotal {
			g.lastTotal = v
		}
		g.totalResult = nil
	default:
	}
}

// updateCameraTarget points the camera at the mower or the field's
// original centre depending on mode.
func (g *Game) updateCameraTarget() {
	cfg := config.Cfg()
	switch g.camera.Mode {
	case camera.ModeFollow:
		g.camera.SetTarget(float32(mowerPosition.X), float32(mowerPosition.Y), float32(cfg.Camera.FollowZoom))
	default:
		center := g.field.Pose().ToWorld(g.field.OriginalCenter)
		wb := g.field.WorldBounds()
		zoom := g.camera.FitZoom(float32(wb.Width()), float32(wb.Height()), float32(cfg.Camera.Margin))
		g.camera.SetTarget(float32(center.X), float32(center.Y), zoom)
	}
}

// Unload waits for background coverage work and releases resources.
func (g *Game) Unload() {
	if err := g.field.Mask.Wait(); err != nil {
		slog.Error("coverage worker failed", "error", err)
	}
	if g.fieldRenderer != nil {
		g.fieldRenderer.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of completed steps.
func (g *Game) Tick() int32 { return g.tick }

// Field returns the session's field.
func (g *Game) Field() *Field { return g.field }

// Camera returns the session camera.
func (g *Game) Camera() *camera.Camera { return g.camera }

// MowingTime returns the timer value in seconds.
func (g *Game) MowingTime() float64 { return g.mowingTime }

// LocalCoverage returns the cut fraction under the tool at the last step.
func (g *Game) LocalCoverage() float64 { return g.localCoverage }

// TotalCoverage returns the latest whole-field coverage.
func (g *Game) TotalCoverage() float64 {
	return max(g.lastTotal, g.field.Mask.TotalCoverage())
}

// Intensity returns the clipping emission rate at the last step.
func (g *Game) Intensity() float64 { return g.intensity }

// Volume returns the engine volume at the last step.
func (g *Game) Volume() float64 { return g.volume }

// Idle reports whether both handles were released at the last step.
func (g *Game) Idle() bool { return g.idle }

// Autopilot returns the autopilot, or nil when driving manually.
func (g *Game) Autopilot() *Autopilot { return g.autopilot }
