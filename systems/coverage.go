package systems

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/zeroturn/components"
)

// DefaultCompactThreshold is the pending-shape count that forces a compaction.
const DefaultCompactThreshold = 75

// MaskOptions configures a CoverageMask.
type MaskOptions struct {
	Threshold   int // Pending shapes that force a compaction
	MaxInFlight int // Concurrent whole-field samples; extra requests are skipped
}

// rasterSnapshot pairs a compacted raster with the compaction that produced it.
type rasterSnapshot struct {
	raster *Raster
	gen    uint64
}

// totalSample is a published whole-field coverage value.
type totalSample struct {
	gen   uint64
	value float64
}

// CoverageMask records cuts over a bounded field. New cuts are appended to a
// pending list and periodically flattened into one immutable raster.
//
// Cut, Compact, Maintain and LocalCoverage must be called from a single
// goroutine. Raster, TotalCoverage and RequestTotalCoverage may be called
// from any goroutine.
type CoverageMask struct {
	bounds      components.Rect
	threshold   int
	pending     []components.CutShape
	accumulated components.Rect

	raster atomic.Pointer[rasterSnapshot]
	total  atomic.Pointer[totalSample]

	group    errgroup.Group
	requests atomic.Uint64
	skipped  atomic.Uint64
}

// NewCoverageMask creates an empty mask over bounds (field-local units).
func NewCoverageMask(bounds components.Rect, opts MaskOptions) *CoverageMask {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultCompactThreshold
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = 1
	}
	m := &CoverageMask{
		bounds:    bounds,
		threshold: opts.Threshold,
		pending:   make([]components.CutShape, 0, opts.Threshold),
	}
	m.group.SetLimit(opts.MaxInFlight)
	m.raster.Store(&rasterSnapshot{})
	m.total.Store(&totalSample{})
	return m
}

// Bounds returns the field rectangle the mask covers.
func (m *CoverageMask) Bounds() components.Rect { return m.bounds }

// Threshold returns the pending count that forces compaction.
func (m *CoverageMask) Threshold() int { return m.threshold }

// Cut appends an elliptical cut at a field-local position. Nothing is
// rasterized until the next Compact. Degenerate shapes and shapes entirely
// outside the field are dropped.
func (m *CoverageMask) Cut(center components.Vec2, width, height, rotation float64) {
	s := components.CutShape{Center: center, Width: width, Height: height, Rotation: rotation}
	if s.Degenerate() {
		return
	}
	b := s.Bounds()
	if b.Intersect(m.bounds).Empty() {
		return
	}
	m.pending = append(m.pending, s)
	m.accumulated = m.accumulated.Union(b)
}

// Pending returns the number of cuts not yet compacted.
func (m *CoverageMask) Pending() int { return len(m.pending) }

// PendingShapes returns the cuts not yet compacted. The slice is only valid
// until the next Cut or Compact.
func (m *CoverageMask) PendingShapes() []components.CutShape { return m.pending }

// Crop returns the rectangle compaction rasterizes over.
func (m *CoverageMask) Crop() components.Rect { return m.accumulated.Intersect(m.bounds) }

// ShouldCompact reports whether the trigger policy asks for a compaction:
// the pending count reached the threshold, or the caller is idle and at least
// one cut is pending.
func (m *CoverageMask) ShouldCompact(idle bool) bool {
	n := len(m.pending)
	return n >= m.threshold || (idle && n > 0)
}

// Maintain compacts when ShouldCompact(idle) holds and reports whether a
// compaction ran. A failed compaction is logged and leaves the mask unchanged.
func (m *CoverageMask) Maintain(idle bool, r Rasterizer) bool {
	if !m.ShouldCompact(idle) {
		return false
	}
	if err := m.Compact(r); err != nil {
		slog.Warn("compaction failed", "pending", len(m.pending), "error", err)
		return false
	}
	return true
}

// Compact flattens the current raster and all pending cuts into a new raster
// covering the accumulated crop, publishes it and clears the pending list.
// With nothing pending or a zero-area crop it does nothing. On error the
// mask is left exactly as it was.
func (m *CoverageMask) Compact(r Rasterizer) error {
	if len(m.pending) == 0 {
		return nil
	}
	crop := m.Crop()
	if crop.Empty() {
		return nil
	}

	cur := m.raster.Load()
	next, err := r.Rasterize(cur.raster, m.pending, crop)
	if err != nil {
		return fmt.Errorf("compacting %d shapes: %w", len(m.pending), err)
	}

	m.raster.Store(&rasterSnapshot{raster: next, gen: cur.gen + 1})
	clear(m.pending)
	m.pending = m.pending[:0]
	return nil
}

// Raster returns the current compacted raster, or nil before the first
// compaction. The raster is never modified after publication.
func (m *CoverageMask) Raster() *Raster { return m.raster.Load().raster }

// Generation returns the number of compactions published so far.
func (m *CoverageMask) Generation() uint64 { return m.raster.Load().gen }

// LocalCoverage returns the cut fraction of a field-local window using the
// compacted raster only. Pending cuts are not visible until compacted.
func (m *CoverageMask) LocalCoverage(window components.Rect, s Sampler) float64 {
	r := m.Raster()
	if r == nil || window.Empty() {
		return 0
	}
	return clamp01(s.Sample(r, window))
}

// TotalCoverage returns the most recently completed whole-field coverage.
// It never decreases.
func (m *CoverageMask) TotalCoverage() float64 { return m.total.Load().value }

// RequestTotalCoverage samples the current raster on a background goroutine.
// The returned channel receives the published value and is then closed. When
// the in-flight limit is reached no work is started and ok is false.
func (m *CoverageMask) RequestTotalCoverage(factor float64, s Sampler) (result <-chan float64, ok bool) {
	snap := m.raster.Load()
	out := make(chan float64, 1)

	started := m.group.TryGo(func() error {
		defer close(out)
		v := TotalCoverage(snap.raster, m.bounds, factor, s)
		out <- m.publishTotal(snap.gen, v)
		return nil
	})
	if !started {
		m.skipped.Add(1)
		return nil, false
	}
	m.requests.Add(1)
	return out, true
}

// publishTotal stores v unless a sample from a newer raster is already
// published, and returns the value now cached. Newer samples never lower the
// cached value.
func (m *CoverageMask) publishTotal(gen uint64, v float64) float64 {
	for {
		cur := m.total.Load()
		if gen < cur.gen {
			return cur.value
		}
		next := &totalSample{gen: gen, value: max(cur.value, v)}
		if m.total.CompareAndSwap(cur, next) {
			return next.value
		}
	}
}

// TotalRequests returns how many whole-field samples were started and how
// many were skipped because the in-flight limit was reached.
func (m *CoverageMask) TotalRequests() (started, skipped uint64) {
	return m.requests.Load(), m.skipped.Load()
}

// Wait blocks until all background work has finished.
func (m *CoverageMask) Wait() error {
	return m.group.Wait()
}
