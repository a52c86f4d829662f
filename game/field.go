package game

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/zeroturn/components"
	"github.com/pthm-cable/zeroturn/config"
	"github.com/pthm-cable/zeroturn/systems"
	"github.com/pthm-cable/zeroturn/telemetry"
)

// Field is the mowable landscape: its bounds, obstacles, coverage mask and
// pose relative to the mower. All positions stored here are field-local with
// the origin at the field centre.
type Field struct {
	Bounds         components.Rect
	OriginalCenter components.Vec2 // Centre of bounds plus obstacles at creation

	Transform *systems.FieldTransform
	Mask      *systems.CoverageMask

	world *ecs.World

	obstacleMap *ecs.Map5[
		components.Position,
		components.Rotation,
		components.Scale,
		components.CutBuffer,
		components.Placement,
	]
	obstacleFilter *ecs.Filter5[
		components.Position,
		components.Rotation,
		components.Scale,
		components.CutBuffer,
		components.Placement,
	]

	seed int64
}

// NewField builds a field for seed: obstacles are placed away from the mower
// start, their buffers are pre-cut and the result is compacted so the first
// frame already shows them.
func NewField(cfg *config.Config, seed int64, r systems.Rasterizer) (*Field, error) {
	world := ecs.NewWorld()

	bounds := components.RectCentered(components.Vec2{}, cfg.Field.Width, cfg.Field.Height)
	f := &Field{
		Bounds:    bounds,
		Transform: systems.NewFieldTransform(cfg.Agent.MoveSpeed, cfg.Agent.ForwardOffset),
		Mask: systems.NewCoverageMask(bounds, systems.MaskOptions{
			Threshold:   cfg.Compaction.Threshold,
			MaxInFlight: cfg.Coverage.MaxInFlight,
		}),
		world: world,
		obstacleMap: ecs.NewMap5[
			components.Position,
			components.Rotation,
			components.Scale,
			components.CutBuffer,
			components.Placement,
		](world),
		obstacleFilter: ecs.NewFilter5[
			components.Position,
			components.Rotation,
			components.Scale,
			components.CutBuffer,
			components.Placement,
		](world),
		seed: seed,
	}

	f.spawnObstacles(cfg, systems.NewRandomSource(seed))
	f.OriginalCenter = f.ObstacleBounds().Union(bounds).Center()

	if err := f.Mask.Compact(r); err != nil {
		return nil, err
	}
	return f, nil
}

// spawnObstacles places the configured obstacles and queues their buffers.
// The mower starts at the field centre, which counts as an occupied point.
func (f *Field) spawnObstacles(cfg *config.Config, rng *systems.RandomSource) {
	oc := cfg.Obstacles
	placer := systems.NewObstaclePlacer(rng, oc.MaxAttempts)
	size := components.Vec2{X: f.Bounds.Width(), Y: f.Bounds.Height()}
	start := []components.Vec2{f.Bounds.Center()}

	points := placer.Place(oc.Count, oc.MinSpacing, oc.Size, size, start)
	degraded := 0
	for _, p := range points {
		pos := components.Position{X: p.Point.X, Y: p.Point.Y}
		rot := components.Rotation{Heading: rng.Angle()}
		scale := components.Scale{Factor: rng.Float(oc.MinScale, oc.MaxScale)}
		buf := components.CutBuffer{Width: oc.BufferWidth, Height: oc.BufferHeight}
		placement := p.Placement

		f.obstacleMap.NewEntity(&pos, &rot, &scale, &buf, &placement)

		s := buf.Shape(pos, rot, scale)
		f.Mask.Cut(s.Center, s.Width, s.Height, s.Rotation)
		if p.Degraded {
			degraded++
		}
	}

	slog.Info("field created",
		"seed", f.seed,
		"obstacles", len(points),
		"degraded", degraded,
		"width", f.Bounds.Width(),
		"height", f.Bounds.Height(),
	)
}

// Obstacle is a read-only view of one obstacle entity.
type Obstacle struct {
	Position  components.Position
	Rotation  components.Rotation
	Scale     components.Scale
	Buffer    components.CutBuffer
	Placement components.Placement
}

// Obstacles returns every obstacle in creation order.
func (f *Field) Obstacles() []Obstacle {
	var out []Obstacle
	query := f.obstacleFilter.Query()
	for query.Next() {
		pos, rot, scale, buf, placement := query.Get()
		out = append(out, Obstacle{
			Position:  *pos,
			Rotation:  *rot,
			Scale:     *scale,
			Buffer:    *buf,
			Placement: *placement,
		})
	}
	return out
}

// ObstacleBounds returns the union of every obstacle buffer's bounds.
func (f *Field) ObstacleBounds() components.Rect {
	var r components.Rect
	query := f.obstacleFilter.Query()
	for query.Next() {
		pos, rot, scale, buf, _ := query.Get()
		r = r.Union(buf.Shape(*pos, *rot, *scale).Bounds())
	}
	return r
}

// ObstacleRecords converts the obstacle layout for CSV output.
func (f *Field) ObstacleRecords() []telemetry.ObstacleRecord {
	obstacles := f.Obstacles()
	out := make([]telemetry.ObstacleRecord, len(obstacles))
	for i, o := range obstacles {
		out[i] = telemetry.ObstacleRecord{
			Index:       i,
			X:           o.Position.X,
			Y:           o.Position.Y,
			Rotation:    o.Rotation.Heading,
			Scale:       o.Scale.Factor,
			Degraded:    o.Placement.Degraded,
			MinDistance: finiteOrZero(o.Placement.MinDistance),
		}
	}
	return out
}

// Pose returns the field's current placement in world space.
func (f *Field) Pose() components.Pose { return f.Transform.Pose }

// WorldBounds returns the world-space bounding box of the rotated field.
func (f *Field) WorldBounds() components.Rect {
	pose := f.Pose()
	b := f.Bounds
	corners := [4]components.Vec2{
		b.Min,
		{X: b.Max.X, Y: b.Min.Y},
		b.Max,
		{X: b.Min.X, Y: b.Max.Y},
	}
	w := pose.ToWorld(corners[0])
	out := components.Rect{Min: w, Max: w}
	for _, c := range corners[1:] {
		p := pose.ToWorld(c)
		out.Min.X = math.Min(out.Min.X, p.X)
		out.Min.Y = math.Min(out.Min.Y, p.Y)
		out.Max.X = math.Max(out.Max.X, p.X)
		out.Max.Y = math.Max(out.Max.Y, p.Y)
	}
	return out
}

// Seed returns the seed the layout was generated from.
func (f *Field) Seed() int64 { return f.seed }

func finiteOrZero(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
