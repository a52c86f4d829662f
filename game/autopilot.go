package game

import (
	"math"

	"github.com/pthm-cable/zeroturn/components"
)

type autopilotPhase uint8

const (
	phaseSeekTurn autopilotPhase = iota // Face the left edge
	phaseSeek                           // Drive to the first lane
	phaseTurnIn                         // Face along the lane
	phaseStripe                         // Mow one lane end to end
	phaseTurnOut                        // Face the next lane
	phaseShift                          // Drive one lane width sideways
	phaseDone
)

// headingTolerance is the closest a pivot needs to get before the next phase.
const headingTolerance = 1e-3

// Autopilot drives the handles in back-and-forth stripes across the field,
// pivoting in place at each end. It is used for headless runs.
type Autopilot struct {
	bounds    components.Rect
	laneWidth float64
	margin    float64
	minPivot  float64

	phase   autopilotPhase
	dir     float64 // +1 mowing towards +Y, -1 towards -Y
	shiftX0 float64
}

// NewAutopilot creates an autopilot for field-local bounds. laneWidth is the
// spacing between stripes and margin the distance kept from every edge.
// minPivot is the smallest handle magnitude used while pivoting and should be
// above the drive deadzone.
func NewAutopilot(bounds components.Rect, laneWidth, margin, minPivot float64) *Autopilot {
	return &Autopilot{
		bounds:    bounds,
		laneWidth: laneWidth,
		margin:    margin,
		minPivot:  minPivot,
		dir:       1,
	}
}

// Done reports whether every lane has been mowed.
func (a *Autopilot) Done() bool { return a.phase == phaseDone }

// Handles returns the lever positions for the next tick of length dt given the
// mower's field-local position and heading.
func (a *Autopilot) Handles(pos components.Vec2, heading, dt float64) (left, right float64) {
	minX := a.bounds.Min.X + a.margin
	maxX := a.bounds.Max.X - a.margin

	for {
		switch a.phase {
		case phaseSeekTurn:
			if l, r, ok := a.pivot(heading, math.Pi, dt); ok {
				return l, r
			}
			a.phase = phaseSeek

		case phaseSeek:
			if pos.X > minX {
				return 1, 1
			}
			a.phase = phaseTurnIn

		case phaseTurnIn:
			if l, r, ok := a.pivot(heading, a.dir*math.Pi/2, dt); ok {
				return l, r
			}
			a.phase = phaseStripe

		case phaseStripe:
			if (a.dir > 0 && pos.Y < a.bounds.Max.Y-a.margin) || (a.dir < 0 && pos.Y > a.bounds.Min.Y+a.margin) {
				return 1, 1
			}
			if pos.X+a.laneWidth > maxX {
				a.phase = phaseDone
				continue
			}
			a.phase = phaseTurnOut

		case phaseTurnOut:
			if l, r, ok := a.pivot(heading, 0, dt); ok {
				return l, r
			}
			a.shiftX0 = pos.X
			a.phase = phaseShift

		case phaseShift:
			if pos.X-a.shiftX0 < a.laneWidth {
				return 1, 1
			}
			a.dir = -a.dir
			a.phase = phaseTurnIn

		default:
			return 0, 0
		}
	}
}

// pivot returns opposing handles that turn towards target without
// overshooting by more than one minimum-magnitude step. ok is false once the
// heading is within tolerance.
func (a *Autopilot) pivot(heading, target, dt float64) (left, right float64, ok bool) {
	diff := math.Remainder(target-heading, 2*math.Pi)
	// The smallest step turns 2*minPivot*dt, so stop within half of it.
	if math.Abs(diff) <= math.Max(headingTolerance, a.minPivot*dt) {
		return 0, 0, false
	}
	// Opposing handles at magnitude m turn 2*m*dt per tick.
	m := math.Abs(diff) / (2 * dt)
	m = math.Max(a.minPivot, math.Min(1, m))
	if diff < 0 {
		m = -m
	}
	return -m, m, true
}
