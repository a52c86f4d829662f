package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/zeroturn/config"
)

// OutputManager handles structured session output with CSV logging.
type OutputManager struct {
	dir string

	telemetry  csvSink[WindowStats]
	perf       csvSink[PerfStatsCSV]
	milestones csvSink[Milestone]
	obstacles  csvSink[ObstacleRecord]
}

// ObstacleRecord is one placed obstacle, written once per session.
type ObstacleRecord struct {
	Index       int     `csv:"index"`
	X           float64 `csv:"x"`
	Y           float64 `csv:"y"`
	Rotation    float64 `csv:"rotation"`
	Scale       float64 `csv:"scale"`
	Degraded    bool    `csv:"degraded"`
	MinDistance float64 `csv:"min_distance"`
}

// csvSink appends records to one CSV file, writing the header once.
type csvSink[T any] struct {
	file          *os.File
	headerWritten bool
}

func (s *csvSink[T]) open(dir, name string) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	s.file = f
	return nil
}

func (s *csvSink[T]) write(records []T) error {
	var out io.Writer = s.file
	if !s.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, out); err != nil {
			return err
		}
		s.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, out)
}

func (s *csvSink[T]) close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	opens := []func() error{
		func() error { return om.telemetry.open(dir, "telemetry.csv") },
		func() error { return om.perf.open(dir, "perf.csv") },
		func() error { return om.milestones.open(dir, "milestones.csv") },
		func() error { return om.obstacles.open(dir, "obstacles.csv") },
	}
	for _, open := range opens {
		if err := open(); err != nil {
			om.Close()
			return nil, err
		}
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteMilestone writes a milestone record to milestones.csv.
func (om *OutputManager) WriteMilestone(m Milestone) error {
	if om == nil {
		return nil
	}
	if err := om.milestones.write([]Milestone{m}); err != nil {
		return fmt.Errorf("writing milestone: %w", err)
	}
	return nil
}

// WriteObstacles writes the session's obstacle layout to obstacles.csv.
func (om *OutputManager) WriteObstacles(records []ObstacleRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if err := om.obstacles.write(records); err != nil {
		return fmt.Errorf("writing obstacles: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, closeFn := range []func() error{om.telemetry.close, om.perf.close, om.milestones.close, om.obstacles.close} {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
