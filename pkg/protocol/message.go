// Package protocol defines the WebSocket message types between a host
// (the immersive renderer sampling hand and pointer input) and the
// manipulation bridge. This package is shared with host-side clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Host → Bridge messages
	TypeInput    MessageType = "input"    // Per-frame pose + pointer events
	TypeSelect   MessageType = "select"   // Object selected, start a session
	TypeDeselect MessageType = "deselect" // Object deselected, end the session
	TypePrefs    MessageType = "prefs"    // Haptic preferences update

	// Bridge → Host messages
	TypeEmission MessageType = "emission" // Manipulation callback event
	TypeState    MessageType = "state"    // Session state snapshot
	TypeHaptic   MessageType = "haptic"   // Pulse for the host to play

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Host → Bridge Message Types
// =============================================================================

// Vec3 is a JSON-friendly 3D vector.
type Vec3 [3]float64

// Quat is a JSON-friendly quaternion as [w, x, y, z].
type Quat [4]float64

// ControllerData is one side's controller input.
type ControllerData struct {
	Position    Vec3      `json:"position"`
	Orientation Quat      `json:"orientation"`
	Grip        float64   `json:"grip"`
	GripPressed bool      `json:"grip_pressed"`
	Trigger     float64   `json:"trigger"`
	Buttons     []bool    `json:"buttons,omitempty"`
	Axes        []float64 `json:"axes,omitempty"`
}

// HandData is one hand's skeletal sample for a frame.
type HandData struct {
	Tracked   bool `json:"tracked"`
	HasJoints bool `json:"has_joints"`

	Wrist        Vec3 `json:"wrist"`
	Palm         Vec3 `json:"palm"`
	PalmRotation Quat `json:"palm_rotation"`

	// Thumb, index, middle, ring, pinky.
	Tips        [5]Vec3 `json:"tips"`
	Metacarpals [5]Vec3 `json:"metacarpals"`

	Controller *ControllerData `json:"controller,omitempty"`
}

// PointerEventData is one pointer event from the host's hit-testing
// layer, delivered inside the frame it occurred in.
type PointerEventData struct {
	Event  string `json:"event"` // down, move, up, enter, leave, double_tap, bounds_exit
	Hand   string `json:"hand"`  // left, right
	Handle string `json:"handle,omitempty"`
	Point  Vec3   `json:"point,omitempty"`
}

// InputData is one frame of host input.
type InputData struct {
	Seq      uint64             `json:"seq"`
	Left     HandData           `json:"left"`
	Right    HandData           `json:"right"`
	Pointers []PointerEventData `json:"pointers,omitempty"`
}

// HapticCapsData reports one hand's actuator capability, negotiated by
// the host from its input sources rather than inferred from device
// identifier strings.
type HapticCapsData struct {
	Supported     bool    `json:"supported"`
	HDHaptics     bool    `json:"hd_haptics"`
	MaxIntensity  float64 `json:"max_intensity"`
	MaxDurationMs int64   `json:"max_duration_ms"`
}

// SelectData starts a manipulation session for an object.
type SelectData struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Depth    float64 `json:"depth"`
	Rotation float64 `json:"rotation"`
	Accent   string  `json:"accent,omitempty"`

	EnableHaptics      bool    `json:"enable_haptics"`
	EnableTwoHanded    bool    `json:"enable_two_handed"`
	SnapToGrid         bool    `json:"snap_to_grid"`
	GridSize           float64 `json:"grid_size,omitempty"`
	SnapAngles         bool    `json:"snap_angles"`
	SnapAngleIncrement float64 `json:"snap_angle_increment,omitempty"`
	LockAspectRatio    bool    `json:"lock_aspect_ratio"`
	HandleOffset       float64 `json:"handle_offset,omitempty"`

	// Per-hand haptic capability, re-sent when input sources change.
	LeftHaptics  *HapticCapsData `json:"left_haptics,omitempty"`
	RightHaptics *HapticCapsData `json:"right_haptics,omitempty"`
}

// PrefsData carries the user's haptic preferences, owned by the host's
// preferences store and only read by the bridge.
type PrefsData struct {
	Enabled             bool    `json:"enabled"`
	IntensityMultiplier float64 `json:"intensity_multiplier"`
	ReduceMotion        bool    `json:"reduce_motion"`
	SnapFeedback        bool    `json:"snap_feedback"`
	ContinuousFeedback  bool    `json:"continuous_feedback"`
}

// =============================================================================
// Bridge → Host Message Types
// =============================================================================

// EmissionData wraps a manipulation emission with its session.
type EmissionData struct {
	SessionID string          `json:"session_id"`
	Emission  json.RawMessage `json:"emission"`
}

// StateData is a session state snapshot for dashboards.
type StateData struct {
	SessionID string          `json:"session_id"`
	Seq       uint64          `json:"seq"`
	State     json.RawMessage `json:"state"`
	Object    json.RawMessage `json:"object,omitempty"`
}

// HapticData asks the host to play a pulse on a hand's actuator when
// actuation happens host-side rather than bridge-side.
type HapticData struct {
	Hand       string  `json:"hand"`
	Intensity  float64 `json:"intensity"`
	DurationMs int64   `json:"duration_ms"`
}
