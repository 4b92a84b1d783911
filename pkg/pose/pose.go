// Package pose defines normalized per-frame input samples for hands and
// controllers. A host samples its tracking runtime once per rendered frame
// into a Frame, which is the sole input to the manipulation engine's tick.
package pose

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Hand identifies the input side.
type Hand int

const (
	Left Hand = iota
	Right
)

// String returns the hand name for logging.
func (h Hand) String() string {
	if h == Left {
		return "left"
	}
	return "right"
}

// Other returns the opposite hand.
func (h Hand) Other() Hand {
	if h == Left {
		return Right
	}
	return Left
}

// Finger indexes the fingertip and metacarpal arrays in a Sample.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky

	FingerCount = 5
)

// Controller holds raw controller input for one side.
// Present when the side is driven by a tracked controller rather than
// (or in addition to) skeletal hand tracking.
type Controller struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Grip        float64 // 0..1 analog grip squeeze
	GripPressed bool
	Trigger     float64 // 0..1
	Buttons     []bool
	Axes        []float64
}

// Sample is one hand's (or controller's) input for a single frame.
// Samples are ephemeral: hosts rebuild them every frame and the engine
// never retains them across ticks.
type Sample struct {
	Hand    Hand
	Tracked bool

	// HasJoints is true only when the full joint set below was reported
	// this frame. When false the skeletal fields are undefined and the
	// gesture classifier carries its previous discrete state forward.
	HasJoints bool

	Wrist        mgl64.Vec3
	Palm         mgl64.Vec3
	PalmRotation mgl64.Quat

	Tips        [FingerCount]mgl64.Vec3
	Metacarpals [FingerCount]mgl64.Vec3

	Controller *Controller
}

// Frame is one rendered frame's worth of input for both sides.
type Frame struct {
	Left  Sample
	Right Sample

	// Seq increases by one per host frame. Used only for logging and
	// dashboard display, never for timing.
	Seq uint64
}

// Sample returns the sample for the given hand.
func (f *Frame) Sample(h Hand) *Sample {
	if h == Left {
		return &f.Left
	}
	return &f.Right
}

// Source is anything that can produce per-hand samples once per frame.
// Hosts embed their tracking runtime behind this; tests use fixed samples.
type Source interface {
	Sample(h Hand) Sample
}

// ReadFrame assembles a Frame from a Source.
func ReadFrame(src Source, seq uint64) Frame {
	return Frame{
		Left:  src.Sample(Left),
		Right: src.Sample(Right),
		Seq:   seq,
	}
}

// Grabbing reports whether this side should count as grabbing for
// two-handed coordination. Controller grip takes priority over the
// skeletal pinch/grab signal when both are available.
func (s *Sample) Grabbing(pinchOrGrab bool) bool {
	if s.Controller != nil {
		return s.Controller.GripPressed || s.Controller.Grip > 0.8
	}
	return s.Tracked && pinchOrGrab
}

// GripPoint returns the position used for two-handed distance and angle
// computation: the controller position when present, otherwise the palm.
func (s *Sample) GripPoint() mgl64.Vec3 {
	if s.Controller != nil {
		return s.Controller.Position
	}
	return s.Palm
}
