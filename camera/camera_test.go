package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720)

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at origin, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if cam.Mode != ModeOverview {
		t.Errorf("expected overview mode, got %v", cam.Mode)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720)
	cam.X, cam.Y = 300, -200

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(300, -200)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestWorldYUpScreenYDown(t *testing.T) {
	cam := New(1280, 720)
	_, above := cam.WorldToScreen(0, 100)
	if above >= 360 {
		t.Errorf("world +Y should appear above screen centre, got y=%f", above)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720)
	cam.X, cam.Y = 55, 910
	cam.SetZoom(0.4)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestSwitchMode(t *testing.T) {
	cam := New(1280, 720)
	cam.SwitchMode()
	if cam.Mode != ModeFollow {
		t.Errorf("expected follow after switch, got %v", cam.Mode)
	}
	cam.SwitchMode()
	if cam.Mode != ModeOverview {
		t.Errorf("expected overview after second switch, got %v", cam.Mode)
	}
	if cam.SetMode(ModeOverview) {
		t.Error("SetMode to the current mode should report no change")
	}
	if !cam.SetMode(ModeFollow) {
		t.Error("SetMode to a new mode should report a change")
	}
}

func TestUpdateEasesTowardTarget(t *testing.T) {
	cam := New(1280, 720)
	cam.Ease = 4
	cam.SetTarget(100, -50, 2)

	prev := float32(100)
	for i := 0; i < 120; i++ {
		cam.Update(1.0 / 60)
		d := absf(cam.X - 100)
		if d > prev {
			t.Fatalf("camera moved away from target at step %d", i)
		}
		prev = d
	}
	if absf(cam.X-100) > 1 || absf(cam.Y+50) > 1 || absf(cam.Zoom-2) > 0.05 {
		t.Errorf("camera did not converge: (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}

func TestUpdateSnapsWithoutEase(t *testing.T) {
	cam := New(1280, 720)
	cam.SetTarget(10, 20, 1.5)
	cam.Update(1.0 / 60)
	if cam.X != 10 || cam.Y != 20 || cam.Zoom != 1.5 {
		t.Errorf("expected snap to target, got (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}

func TestFitZoom(t *testing.T) {
	cam := New(1280, 800)
	// 1000x1800 field, 40px margin: height is the limiting side.
	z := cam.FitZoom(1000, 1800, 40)
	want := float32(720.0 / 1800.0)
	if absf(z-want) > 1e-4 {
		t.Errorf("FitZoom = %f, want %f", z, want)
	}
}

func TestZoomClamping(t *testing.T) {
	cam := New(1280, 720)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected max zoom %f, got %f", cam.MaxZoom, cam.Zoom)
	}

	cam.SetZoom(0.0001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected min zoom %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720)

	if !cam.IsVisible(0, 0, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(5000, 5000, 10) {
		t.Error("far point should not be visible")
	}
}
