// Package gesture classifies per-frame hand samples into debounced
// discrete gestures (pinch, grab, point) and continuous strengths.
//
// Pinch uses hysteresis: the enter threshold is tighter than the exit
// threshold, so a fingertip hovering near the boundary cannot flicker
// the flag on and off between frames. Classification is pure state
// estimation - no side effects, no errors, never panics.
package gesture

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/spatialkit/go-manipulate/pkg/pose"
)

// Pinch hysteresis thresholds, in meters between thumb and index tips.
const (
	PinchStartDistance = 0.02
	PinchEndDistance   = 0.04
)

// Grab and point curl thresholds.
const (
	GrabCurlThreshold  = 0.7
	PointIndexCurlMax  = 0.3
	PointOthersCurlMin = 0.5
)

// Direction classifies which way the palm faces.
type Direction int

const (
	PalmUp Direction = iota
	PalmDown
	PalmForward
	PalmSide
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case PalmUp:
		return "up"
	case PalmDown:
		return "down"
	case PalmForward:
		return "forward"
	default:
		return "side"
	}
}

// State is one hand's classified gesture output for a frame. The
// previous frame's State feeds back into classification so the pinch
// hysteresis has something to latch against.
type State struct {
	IsTracking bool

	IsPinching    bool
	PinchStrength float64 // 0..1

	IsGrabbing   bool
	GrabStrength float64 // 0..1, mean curl

	IsPointing bool

	Palm Direction

	PinchPosition mgl64.Vec3 // midpoint of thumb and index tips
	WristPosition mgl64.Vec3
	PalmPosition  mgl64.Vec3
	PalmRotation  mgl64.Quat
}

// Classify computes the gesture state for one hand from this frame's
// sample and the previous frame's state.
//
// When the hand is untracked or the joint set is incomplete, the
// previous discrete flags carry over untouched with zero strengths, so
// a single dropped frame never releases an in-progress gesture.
func Classify(s *pose.Sample, prev State) State {
	if !s.Tracked || !s.HasJoints {
		out := prev
		out.IsTracking = false
		out.PinchStrength = 0
		out.GrabStrength = 0
		return out
	}

	out := State{
		IsTracking:    true,
		WristPosition: s.Wrist,
		PalmPosition:  s.Palm,
		PalmRotation:  s.PalmRotation,
	}

	// Pinch with hysteresis.
	pinchDist := s.Tips[pose.Thumb].Sub(s.Tips[pose.Index]).Len()
	if prev.IsPinching {
		out.IsPinching = pinchDist < PinchEndDistance
	} else {
		out.IsPinching = pinchDist < PinchStartDistance
	}
	out.PinchStrength = 1 - math.Min(1, pinchDist/PinchEndDistance)
	out.PinchPosition = s.Tips[pose.Thumb].Add(s.Tips[pose.Index]).Mul(0.5)

	// Grab: mean curl over the four non-thumb fingers.
	indexCurl := fingerCurl(s, pose.Index)
	middleCurl := fingerCurl(s, pose.Middle)
	ringCurl := fingerCurl(s, pose.Ring)
	pinkyCurl := fingerCurl(s, pose.Pinky)
	out.GrabStrength = (indexCurl + middleCurl + ringCurl + pinkyCurl) / 4
	out.IsGrabbing = out.GrabStrength > GrabCurlThreshold

	// Point: extended index, curled middle and ring.
	out.IsPointing = indexCurl < PointIndexCurlMax &&
		middleCurl > PointOthersCurlMin &&
		ringCurl > PointOthersCurlMin

	out.Palm = palmDirection(s.PalmRotation)

	return out
}

// fingerCurl estimates how curled a finger is from the ratio of the
// tip-to-wrist distance to the metacarpal-to-wrist distance. A fully
// extended finger has a tip far beyond its metacarpal (curl near 0); a
// closed fist pulls the tip back toward the wrist (curl near 1).
func fingerCurl(s *pose.Sample, f pose.Finger) float64 {
	metaDist := s.Metacarpals[f].Sub(s.Wrist).Len()
	if metaDist <= 0 {
		return 0
	}
	tipDist := s.Tips[f].Sub(s.Wrist).Len()
	return 1 - math.Min(1, tipDist/metaDist)
}

// palmNormalLocal is the palm normal in the hand's local frame.
var palmNormalLocal = mgl64.Vec3{0, -1, 0}

// palmDirection rotates the local palm normal into world space and
// classifies it by dominant axis.
func palmDirection(rot mgl64.Quat) Direction {
	n := rot.Rotate(palmNormalLocal)
	ax, ay, az := math.Abs(n.X()), math.Abs(n.Y()), math.Abs(n.Z())
	switch {
	case ay >= ax && ay >= az:
		if n.Y() > 0 {
			return PalmUp
		}
		return PalmDown
	case az >= ax:
		return PalmForward
	default:
		return PalmSide
	}
}

// Classifier tracks previous-frame state for both hands so callers can
// feed raw frames without threading State through themselves.
type Classifier struct {
	prev [2]State
}

// Update classifies one hand's sample and stores the result as the
// previous state for the next frame.
func (c *Classifier) Update(s *pose.Sample) State {
	st := Classify(s, c.prev[s.Hand])
	c.prev[s.Hand] = st
	return st
}

// State returns the most recent classification for a hand.
func (c *Classifier) State(h pose.Hand) State {
	return c.prev[h]
}

// Reset clears all retained state, for example when the input sources
// change or a session ends.
func (c *Classifier) Reset() {
	c.prev = [2]State{}
}
