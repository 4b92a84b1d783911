package protocol

import (
	"encoding/json"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/spatialkit/go-manipulate/pkg/pose"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewInputMessage creates an input message from one frame of samples.
func NewInputMessage(seq uint64, left, right HandData, pointers []PointerEventData) (*Message, error) {
	return NewMessage(TypeInput, InputData{
		Seq:      seq,
		Left:     left,
		Right:    right,
		Pointers: pointers,
	})
}

// NewEmissionMessage wraps an already-encoded emission.
func NewEmissionMessage(sessionID string, emission any) (*Message, error) {
	raw, err := json.Marshal(emission)
	if err != nil {
		return nil, err
	}
	return NewMessage(TypeEmission, EmissionData{SessionID: sessionID, Emission: raw})
}

// NewStateMessage wraps a state and object snapshot.
func NewStateMessage(sessionID string, seq uint64, state, object any) (*Message, error) {
	rawState, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	rawObject, err := json.Marshal(object)
	if err != nil {
		return nil, err
	}
	return NewMessage(TypeState, StateData{
		SessionID: sessionID,
		Seq:       seq,
		State:     rawState,
		Object:    rawObject,
	})
}

// NewHapticMessage creates a host-side pulse request.
func NewHapticMessage(hand string, intensity float64, duration time.Duration) (*Message, error) {
	return NewMessage(TypeHaptic, HapticData{
		Hand:       hand,
		Intensity:  intensity,
		DurationMs: duration.Milliseconds(),
	})
}

// =============================================================================
// Wire ↔ engine conversions
// =============================================================================

// ToVec converts a wire vector to mgl64.
func (v Vec3) ToVec() mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

// FromVec converts an mgl64 vector to the wire format.
func FromVec(v mgl64.Vec3) Vec3 {
	return Vec3{v.X(), v.Y(), v.Z()}
}

// ToQuat converts a wire quaternion to mgl64.
func (q Quat) ToQuat() mgl64.Quat {
	return mgl64.Quat{W: q[0], V: mgl64.Vec3{q[1], q[2], q[3]}}
}

// FromQuat converts an mgl64 quaternion to the wire format.
func FromQuat(q mgl64.Quat) Quat {
	return Quat{q.W, q.V.X(), q.V.Y(), q.V.Z()}
}

// Sample converts wire hand data into an engine pose sample.
func (h HandData) Sample(hand pose.Hand) pose.Sample {
	s := pose.Sample{
		Hand:         hand,
		Tracked:      h.Tracked,
		HasJoints:    h.HasJoints,
		Wrist:        h.Wrist.ToVec(),
		Palm:         h.Palm.ToVec(),
		PalmRotation: h.PalmRotation.ToQuat(),
	}
	for i := 0; i < pose.FingerCount; i++ {
		s.Tips[i] = h.Tips[i].ToVec()
		s.Metacarpals[i] = h.Metacarpals[i].ToVec()
	}
	if h.Controller != nil {
		s.Controller = &pose.Controller{
			Position:    h.Controller.Position.ToVec(),
			Orientation: h.Controller.Orientation.ToQuat(),
			Grip:        h.Controller.Grip,
			GripPressed: h.Controller.GripPressed,
			Trigger:     h.Controller.Trigger,
			Buttons:     h.Controller.Buttons,
			Axes:        h.Controller.Axes,
		}
	}
	return s
}

// FromSample converts an engine pose sample to wire hand data.
func FromSample(s pose.Sample) HandData {
	h := HandData{
		Tracked:      s.Tracked,
		HasJoints:    s.HasJoints,
		Wrist:        FromVec(s.Wrist),
		Palm:         FromVec(s.Palm),
		PalmRotation: FromQuat(s.PalmRotation),
	}
	for i := 0; i < pose.FingerCount; i++ {
		h.Tips[i] = FromVec(s.Tips[i])
		h.Metacarpals[i] = FromVec(s.Metacarpals[i])
	}
	if s.Controller != nil {
		h.Controller = &ControllerData{
			Position:    FromVec(s.Controller.Position),
			Orientation: FromQuat(s.Controller.Orientation),
			Grip:        s.Controller.Grip,
			GripPressed: s.Controller.GripPressed,
			Trigger:     s.Controller.Trigger,
			Buttons:     s.Controller.Buttons,
			Axes:        s.Controller.Axes,
		}
	}
	return h
}

// Frame converts wire input into an engine frame.
func (in InputData) Frame() pose.Frame {
	return pose.Frame{
		Left:  in.Left.Sample(pose.Left),
		Right: in.Right.Sample(pose.Right),
		Seq:   in.Seq,
	}
}

// ParseHand maps a wire hand name to a pose.Hand, defaulting to right.
func ParseHand(name string) pose.Hand {
	if name == "left" {
		return pose.Left
	}
	return pose.Right
}
