package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/zeroturn/config"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyD) {
		g.setDebug(!g.debugMode)
	}

	if key := rl.GetKeyPressed(); key != 0 {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", string(id), "enabled", on)
		}
	}

	if g.autopilot == nil && !g.paused {
		g.handleHandleInput()
	}
}

// handleHandleInput moves the levers while keys are held and springs them
// back to neutral when released. W/S drive the left lever, Up/Down the right.
func (g *Game) handleHandleInput() {
	cfg := config.Cfg()
	step := cfg.Drive.HandleRate * float64(rl.GetFrameTime())

	left := keyAxis(rl.KeyW, rl.KeyS)
	right := keyAxis(rl.KeyUp, rl.KeyDown)
	g.SetHandles(
		approach(g.handles.Left, left, step),
		approach(g.handles.Right, right, step),
	)
}

// setDebug shows or hides the debug panels.
func (g *Game) setDebug(on bool) {
	g.debugMode = on
	g.controls.SetVisible(on)
}

// keyAxis returns +1 while pos is held, -1 while neg is held, otherwise 0.
func keyAxis(pos, neg int32) float64 {
	v := 0.0
	if rl.IsKeyDown(pos) {
		v++
	}
	if rl.IsKeyDown(neg) {
		v--
	}
	return v
}

// approach moves v towards target by at most step.
func approach(v, target, step float64) float64 {
	switch {
	case v < target:
		return min(v+step, target)
	case v > target:
		return max(v-step, target)
	}
	return v
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	if g.perfPanel != nil {
		g.perfPanel.SetPosition(int32(w)-240, 80)
	}
}
