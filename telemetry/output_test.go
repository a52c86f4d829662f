package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/zeroturn/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}
	// Methods on a nil manager are no-ops.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), Cuts: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteMilestone(Milestone{Type: MilestoneCoverage, Tick: 600, Description: "field 25% cut"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteObstacles([]ObstacleRecord{{Index: 0, X: 10, Y: 20, Scale: 1}, {Index: 1, Degraded: true}}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,") || strings.Count(string(data), "window_end") != 1 {
		t.Errorf("unexpected header: %q", lines[0])
	}

	obs, err := os.ReadFile(filepath.Join(dir, "obstacles.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if got := len(strings.Split(strings.TrimSpace(string(obs)), "\n")); got != 3 {
		t.Errorf("expected header + 2 obstacle rows, got %d", got)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	reloaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if reloaded.Field != cfg.Field || reloaded.Compaction != cfg.Compaction {
		t.Errorf("config roundtrip changed values: %+v vs %+v", reloaded.Field, cfg.Field)
	}
}
