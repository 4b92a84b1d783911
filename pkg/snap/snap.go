// Package snap provides grid and angle snapping with threshold-based
// magnetism, plus the hard clamps applied to every size and depth value
// before it crosses a public boundary.
package snap

import "math"

// Hard limits for emitted sizes and depths, in meters.
const (
	MinSize  = 0.05
	MaxSize  = 3.0
	MinDepth = -2.0
	MaxDepth = 2.0
)

// GridResult is the outcome of a grid snap attempt.
type GridResult struct {
	Value   float64
	Snapped bool
}

// Grid snaps value to the nearest multiple of gridSize when within
// threshold of it. Outside the threshold the value passes through
// unchanged.
func Grid(value, gridSize, threshold float64) GridResult {
	if gridSize <= 0 {
		return GridResult{Value: value}
	}
	nearest := math.Round(value/gridSize) * gridSize
	if math.Abs(value-nearest) < threshold {
		return GridResult{Value: nearest, Snapped: true}
	}
	return GridResult{Value: value}
}

// AngleResult is the outcome of an angle snap attempt.
type AngleResult struct {
	Angle       float64 // radians
	Snapped     bool
	NearestSnap float64 // nearest increment in radians, even when unsnapped
}

// Angle snaps an angle (radians) to the nearest incrementDeg multiple
// when within thresholdDeg of it. The comparison happens in degree
// space; the result is converted back to radians.
func Angle(angleRad, incrementDeg, thresholdDeg float64) AngleResult {
	if incrementDeg <= 0 {
		return AngleResult{Angle: angleRad, NearestSnap: angleRad}
	}
	deg := angleRad * 180 / math.Pi
	nearestDeg := math.Round(deg/incrementDeg) * incrementDeg
	nearestRad := nearestDeg * math.Pi / 180
	if math.Abs(deg-nearestDeg) < thresholdDeg {
		return AngleResult{Angle: nearestRad, Snapped: true, NearestSnap: nearestRad}
	}
	return AngleResult{Angle: angleRad, NearestSnap: nearestRad}
}

// ClampSize restricts a width or height to [MinSize, MaxSize].
func ClampSize(v float64) float64 {
	return clamp(v, MinSize, MaxSize)
}

// ClampDepth restricts a depth offset to [MinDepth, MaxDepth].
func ClampDepth(v float64) float64 {
	return clamp(v, MinDepth, MaxDepth)
}

// AspectLockedSize computes a resize under aspect lock. The dominant
// drag axis (larger absolute delta, signed by the combined direction)
// drives width; height follows from the locked ratio. Both dimensions
// therefore move together even when the drag is diagonal.
func AspectLockedSize(dx, dy, initW, initH, ratio float64) (width, height float64) {
	if ratio <= 0 {
		ratio = 1
	}
	dominant := math.Max(math.Abs(dx), math.Abs(dy))
	if dx+dy < 0 {
		dominant = -dominant
	}
	width = initW + dominant
	height = width / ratio
	return width, height
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
