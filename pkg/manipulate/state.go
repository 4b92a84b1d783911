package manipulate

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/spatialkit/go-manipulate/pkg/layout"
)

// State is the externally visible manipulation state for one session.
// At most one handle is active at a time; IsSnapped is only meaningful
// while a drag is in progress.
type State struct {
	ActiveHandle    layout.HandleKind `json:"active_handle"`
	IsHovering      bool              `json:"is_hovering"`
	IsSnapped       bool              `json:"is_snapped"`
	TwoHandScale    float64           `json:"two_hand_scale"`
	TwoHandRotation float64           `json:"two_hand_rotation"`
	AspectLocked    bool              `json:"aspect_locked"`
}

// dragState is the ephemeral per-drag record. Created on drag start,
// zeroed on drag end, never persisted.
type dragState struct {
	startPoint   mgl64.Vec3
	initWidth    float64
	initHeight   float64
	initRotation float64
	initDepth    float64
	aspectRatio  float64

	// Rotation bookkeeping: the pointer angle sampled last frame and
	// the angle most recently emitted, so deltas stay frame-relative
	// and snapping stays edge-triggered.
	lastPointerAngle float64
	emittedAngle     float64

	// depthAxis is the object's world-space depth axis captured at
	// drag start.
	depthAxis mgl64.Vec3
}

// EmissionKind discriminates session output events.
type EmissionKind string

const (
	EmitResizeStart   EmissionKind = "resize_start"
	EmitResize        EmissionKind = "resize"
	EmitResizeEnd     EmissionKind = "resize_end"
	EmitRotateStart   EmissionKind = "rotate_start"
	EmitRotate        EmissionKind = "rotate"
	EmitRotateEnd     EmissionKind = "rotate_end"
	EmitDepthChange   EmissionKind = "depth_change"
	EmitTwoHandStart  EmissionKind = "twohand_start"
	EmitTwoHandScale  EmissionKind = "twohand_scale"
	EmitTwoHandRotate EmissionKind = "twohand_rotate"
	EmitTwoHandEnd    EmissionKind = "twohand_end"
	EmitAspectLock    EmissionKind = "aspect_lock"
	EmitHover         EmissionKind = "hover"
)

// Emission is one event crossing the session's public boundary. Sizes
// and depths are clamped before an Emission is constructed.
type Emission struct {
	Kind   EmissionKind      `json:"kind"`
	Handle layout.HandleKind `json:"handle,omitempty"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// AngleDelta is relative to the previously emitted angle, never an
	// absolute accumulated value.
	AngleDelta float64 `json:"angle_delta,omitempty"`

	DepthDelta float64 `json:"depth_delta,omitempty"`

	Scale    float64 `json:"scale,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`

	// Snapped marks the frame the value entered a snap point; it is
	// edge-triggered, not the steady snapped state.
	Snapped      bool `json:"snapped,omitempty"`
	Hovering     bool `json:"hovering,omitempty"`
	AspectLocked bool `json:"aspect_locked,omitempty"`
}
