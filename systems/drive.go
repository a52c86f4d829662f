package systems

// Handles maps two tank-drive levers to per-tick move and turn amounts.
// Each lever is in [-1, 1]; pushing both forward drives straight, opposing
// levers pivot in place.
type Handles struct {
	Left, Right float64
	Deadzone    float64
}

// Released reports whether both levers are inside the deadzone.
func (h Handles) Released() bool {
	return h.lever(h.Left) == 0 && h.lever(h.Right) == 0
}

// Drive returns move and turn amounts for a tick of length dt.
func (h Handles) Drive(dt float64) (move, turn float64) {
	return TankDrive(h.lever(h.Left), h.lever(h.Right), dt)
}

func (h Handles) lever(v float64) float64 {
	v = clampFloat(v, -1, 1)
	if v > -h.Deadzone && v < h.Deadzone {
		return 0
	}
	return v
}

// TankDrive converts lever positions to move and turn for a tick of length dt.
// turn is positive when the right lever leads, which turns the mower left.
func TankDrive(left, right, dt float64) (move, turn float64) {
	left = clampFloat(left, -1, 1)
	right = clampFloat(right, -1, 1)
	return (right + left) * dt, (right - left) * dt
}

// Speed returns the normalised ground speed for a lever pair, in [0, 1].
func Speed(left, right float64) float64 {
	left = clampFloat(left, -1, 1)
	right = clampFloat(right, -1, 1)
	return clamp01(max(abs(left), abs(right)))
}

// BladeVolume returns the engine volume for a speed, never quieter than floor.
func BladeVolume(speed, floor float64) float64 {
	return clamp01(max(speed, floor))
}

// EmissionIntensity returns the clipping emission rate for the fraction of
// the tool footprint already cut. Fresh grass at full speed gives 1.
func EmissionIntensity(localCoverage, speed float64) float64 {
	return clamp01((1 - clamp01(localCoverage)) * clamp01(speed))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
