// Package twohand coordinates simultaneous two-handed grab input into
// scale and rotation deltas. A fresh grab first arms the coordinator;
// only once the hands move apart or together past an activation
// threshold does manipulation begin, so simply holding an object with
// both hands never jumps its scale.
package twohand

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Tuning constants, distances in meters.
const (
	// ActivationThreshold is how far the inter-hand distance must
	// change from the armed distance before manipulation starts.
	ActivationThreshold = 0.1

	// ScaleDeadZone collapses scale factors within this band of 1.0
	// to exactly 1.0, ignoring micro-jitter.
	ScaleDeadZone = 0.05

	// NotifyEpsilon is the minimum change since the last notification
	// before a new scale (ratio) or rotation (radians) event fires.
	NotifyEpsilon = 0.01
)

// Phase is the coordinator's lifecycle state.
type Phase int

const (
	Inactive Phase = iota
	Armed
	Active
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Armed:
		return "armed"
	case Active:
		return "active"
	default:
		return "inactive"
	}
}

// State is a snapshot of the coordinator for dashboards and tests.
// It only carries meaningful values while the phase is Active.
type State struct {
	Active          bool
	InitialDistance float64
	InitialWidth    float64
	InitialHeight   float64
	InitialAngle    float64
	LeftHandPos     mgl64.Vec3
	RightHandPos    mgl64.Vec3
}

// Update is the outcome of one frame of coordination.
type Update struct {
	// Started is true on the frame the coordinator became active.
	Started bool

	// ScaleChanged/RotationChanged report debounced notifications;
	// Scale and Rotation hold the values to emit when set.
	Scale           float64
	ScaleChanged    bool
	Rotation        float64
	RotationChanged bool

	// Magnitude of the change that triggered a notification, for
	// proportional haptic feedback.
	Magnitude float64

	// Ended is true on the frame either hand released while active.
	// FinalScale/FinalRotation carry the last computed values.
	Ended         bool
	FinalScale    float64
	FinalRotation float64
}

// Coordinator runs the inactive → armed → active state machine. It is
// advanced once per frame, after both hands' gesture states have been
// refreshed, and is not safe for concurrent use.
type Coordinator struct {
	phase Phase

	initialDistance float64
	initialWidth    float64
	initialHeight   float64
	initialAngle    float64

	leftPos  mgl64.Vec3
	rightPos mgl64.Vec3

	currentScale    float64
	currentRotation float64
	lastScale       float64 // last notified
	lastRotation    float64
}

// New creates an inactive coordinator.
func New() *Coordinator {
	return &Coordinator{}
}

// Phase returns the current lifecycle phase.
func (c *Coordinator) Phase() Phase {
	return c.phase
}

// State returns a snapshot for display.
func (c *Coordinator) State() State {
	return State{
		Active:          c.phase == Active,
		InitialDistance: c.initialDistance,
		InitialWidth:    c.initialWidth,
		InitialHeight:   c.initialHeight,
		InitialAngle:    c.initialAngle,
		LeftHandPos:     c.leftPos,
		RightHandPos:    c.rightPos,
	}
}

// Update advances the state machine by one frame. leftGrab/rightGrab
// are the per-side grab signals (controller grip winning over hand
// gestures is the caller's concern); width/height are the object's
// current dimensions, captured at the moment of activation.
func (c *Coordinator) Update(leftGrab, rightGrab bool, left, right mgl64.Vec3, width, height float64) Update {
	if !leftGrab || !rightGrab {
		return c.release()
	}

	dist := right.Sub(left).Len()
	c.leftPos, c.rightPos = left, right

	switch c.phase {
	case Inactive:
		// Prime the activation check without manipulating anything.
		c.phase = Armed
		c.initialDistance = dist
		return Update{}

	case Armed:
		if math.Abs(dist-c.initialDistance) < ActivationThreshold {
			return Update{}
		}
		c.phase = Active
		c.initialWidth = width
		c.initialHeight = height
		c.initialAngle = handAngle(left, right)
		c.currentScale = 1
		c.currentRotation = 0
		c.lastScale = 1
		c.lastRotation = 0
		return Update{Started: true}
	}

	// Active: compute debounced scale and rotation.
	var out Update

	scale := 1.0
	if c.initialDistance > 0 {
		scale = dist / c.initialDistance
	}
	if math.Abs(scale-1) < ScaleDeadZone {
		scale = 1
	}
	c.currentScale = scale
	if diff := math.Abs(scale - c.lastScale); diff > NotifyEpsilon {
		out.Scale = scale
		out.ScaleChanged = true
		out.Magnitude = diff
		c.lastScale = scale
	}

	rotation := normalizeAngle(handAngle(left, right) - c.initialAngle)
	c.currentRotation = rotation
	if diff := math.Abs(rotation - c.lastRotation); diff > NotifyEpsilon {
		out.Rotation = rotation
		out.RotationChanged = true
		if diff > out.Magnitude {
			out.Magnitude = diff
		}
		c.lastRotation = rotation
	}

	return out
}

// Reset forces the coordinator back to inactive without reporting an
// end, for session teardown and tracking loss.
func (c *Coordinator) Reset() {
	*c = Coordinator{}
}

// release handles either hand letting go. An active session reports its
// final values exactly once; an armed one just disarms.
func (c *Coordinator) release() Update {
	wasActive := c.phase == Active
	finalScale := c.currentScale
	finalRotation := c.currentRotation
	c.Reset()
	if !wasActive {
		return Update{}
	}
	return Update{
		Ended:         true,
		FinalScale:    finalScale,
		FinalRotation: finalRotation,
	}
}

// handAngle is the angle of the left→right baseline in the XY plane.
func handAngle(left, right mgl64.Vec3) float64 {
	return math.Atan2(right.Y()-left.Y(), right.X()-left.X())
}

// normalizeAngle wraps an angle into (-π, π] so rotation deltas never
// accumulate without bound.
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
