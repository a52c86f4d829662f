package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/zeroturn/systems"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	MowingTime    float64 // Seconds, already quantised to the timer step
	TotalCoverage float64
	LocalCoverage float64
	Intensity     float64
	Volume        float64
	Pending       int
	Mode          string
	Seed          int64
	Tick          int32
	FPS           int32
	Paused        bool
	Debug         bool
	ScreenWidth   int32
	ScreenHeight  int32
}

// HUDActions reports widget interactions from one frame.
type HUDActions struct {
	ToggleDebug bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// FormatTimer renders a mowing time as m:ss.t.
func FormatTimer(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	tenths := int64(seconds*10 + 0.5)
	return fmt.Sprintf("%d:%02d.%d", tenths/600, (tenths/10)%60, tenths%10)
}

// Draw renders the HUD and returns any button presses.
func (h *HUD) Draw(data HUDData) HUDActions {
	var actions HUDActions
	r := h.renderer
	pad := r.Theme.Padding

	rl.DrawText(data.Title, pad, pad, 20, rl.White)
	rl.DrawText(FormatTimer(data.MowingTime), pad, pad+26, 28, rl.White)

	barW := float32(260)
	barX := float32(data.ScreenWidth) - barW - float32(pad) - 40
	gui.ProgressBar(
		rl.Rectangle{X: barX, Y: float32(pad), Width: barW, Height: 20},
		"Cut", fmt.Sprintf("%.1f%%", data.TotalCoverage*100),
		float32(data.TotalCoverage), 0, 1,
	)

	y := pad + 62
	y = r.DrawBar(pad, y, "Under", float32(data.LocalCoverage), 240)
	y = r.DrawBar(pad, y, "Clip", float32(data.Intensity), 240)
	y = r.DrawBar(pad, y, "Vol", float32(data.Volume), 240)

	rl.DrawText(
		fmt.Sprintf("Seed: %d | Tick: %d | FPS: %d | %s", data.Seed, data.Tick, data.FPS, data.Mode),
		pad, y+4, 14, rl.LightGray,
	)

	debugLabel := "Debug: off"
	if data.Debug {
		debugLabel = "Debug: on"
		rl.DrawText(fmt.Sprintf("Pending cuts: %d", data.Pending), pad, y+22, 14, rl.Yellow)
	}
	if gui.Button(rl.Rectangle{X: barX, Y: float32(pad) + 28, Width: 100, Height: 24}, debugLabel) {
		actions.ToggleDebug = true
	}

	if data.Paused {
		rl.DrawText("PAUSED", data.ScreenWidth/2-40, pad, 20, rl.Yellow)
	}
	return actions
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	SystemTimes  map[string]time.Duration
	Total        time.Duration
	Registry     *systems.SystemRegistry
	SlowestPhase string
	OverBudget   int
}

// PerfPanel renders the phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with phases in registry order.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Step Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s", data.Total.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	if data.OverBudget > 0 {
		name := data.SlowestPhase
		if data.Registry != nil {
			if info, ok := data.Registry.Get(name); ok {
				name = info.Name
			}
		}
		rl.DrawText(fmt.Sprintf("%d slow ticks, worst: %s", data.OverBudget, name), x, y, 12, rl.Red)
		y += 14
	}

	if data.Registry == nil {
		return
	}
	for _, info := range data.Registry.All() {
		avg := data.SystemTimes[info.ID]
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-16s %6s %5.1f%%", info.Name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
