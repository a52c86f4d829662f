package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/zeroturn/config"
	"github.com/pthm-cable/zeroturn/renderer"
	"github.com/pthm-cable/zeroturn/ui"
)

// Draw renders the game.
func (g *Game) Draw() {
	if g.fieldRenderer == nil {
		return
	}
	g.perfCollector.RecordFrame()

	g.fieldRenderer.Sync(g.field.Mask)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 24, G: 40, B: 22, A: 255})

	g.fieldRenderer.Draw(g.camera, g.frame())

	actions := g.hud.Draw(ui.HUDData{
		Title:         "Zero Turn",
		MowingTime:    g.mowingTime,
		TotalCoverage: g.TotalCoverage(),
		LocalCoverage: g.localCoverage,
		Intensity:     g.intensity,
		Volume:        g.volume,
		Pending:       g.field.Mask.Pending(),
		Mode:          g.camera.Mode.String(),
		Seed:          g.field.Seed(),
		Tick:          g.tick,
		FPS:           rl.GetFPS(),
		Paused:        g.paused,
		Debug:         g.debugMode,
		ScreenWidth:   int32(g.screenWidth),
		ScreenHeight:  int32(g.screenHeight),
	})
	if actions.ToggleDebug {
		g.setDebug(!g.debugMode)
	}

	if g.debugMode {
		g.controls.Draw(g.overlays)
		g.sessionPanel.Draw(g.sessionStats())
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perfCollector.Stats()
		g.perfPanel.Draw(ui.PerfPanelData{
			SystemTimes:  stats.PhaseAvg,
			Total:        stats.AvgTickDuration,
			Registry:     g.registry,
			SlowestPhase: stats.SlowestPhase,
			OverBudget:   stats.OverBudget,
		})
	}

	controls := "[W/S] left  [Up/Down] right  [D] debug  [B/P/C/T] overlays  [Space] pause  [</>] speed"
	if g.autopilot != nil {
		controls = "[Autopilot]  [D] debug  [B/P/C/T] overlays  [Space] pause  [</>] speed"
	}
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controls)

	rl.EndDrawing()
}

// frame collects what the field renderer needs for one draw.
func (g *Game) frame() renderer.Frame {
	cfg := config.Cfg()
	mask := g.field.Mask

	obstacles := g.field.Obstacles()
	sprites := make([]renderer.ObstacleSprite, len(obstacles))
	for i, o := range obstacles {
		sprites[i] = renderer.ObstacleSprite{
			Center:   o.Position.Vec(),
			Radius:   cfg.Obstacles.Size * o.Scale.Factor / 2,
			Rotation: o.Rotation.Heading,
			Buffer:   o.Buffer.Shape(o.Position, o.Rotation, o.Scale),
			Degraded: o.Placement.Degraded,
		}
	}

	return renderer.Frame{
		Pose:      g.field.Pose(),
		Bounds:    g.field.Bounds,
		Pending:   mask.PendingShapes(),
		Obstacles: sprites,
		Crop:      mask.Crop(),

		ShowBuffers: g.overlays.IsEnabled(ui.OverlayCutBuffers),
		ShowPending: g.overlays.IsEnabled(ui.OverlayPending),
		ShowCrop:    g.overlays.IsEnabled(ui.OverlayCrop),

		Mower: renderer.MowerSprite{
			Position:  mowerPosition,
			Heading:   g.referenceAngle + cfg.Agent.ForwardOffset,
			BodyWidth: cfg.Agent.BodyWidth,
			BodyLen:   cfg.Agent.BodyHeight,
			ToolWidth: cfg.Agent.ToolWidth,
			ToolLen:   cfg.Agent.ToolHeight,
			Intensity: g.intensity,
		},
	}
}

// sessionStats collects coverage bookkeeping for the debug panel.
func (g *Game) sessionStats() ui.SessionStatsData {
	mask := g.field.Mask
	started, skipped := mask.TotalRequests()
	degraded := 0
	for _, o := range g.field.Obstacles() {
		if o.Placement.Degraded {
			degraded++
		}
	}
	return ui.SessionStatsData{
		Pending:       mask.Pending(),
		Threshold:     mask.Threshold(),
		Generation:    mask.Generation(),
		TotalRequests: started,
		TotalSkipped:  skipped,
		Degraded:      degraded,
	}
}
