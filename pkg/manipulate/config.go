package manipulate

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// Snap tuning defaults. Grid snapping uses an absolute threshold in
// meters; angle snapping a threshold in degrees.
const (
	DefaultGridSize           = 0.05
	DefaultGridSnapThreshold  = 0.008
	DefaultSnapAngleIncrement = 15.0
	DefaultSnapAngleThreshold = 3.0
)

// Config is the per-object manipulation configuration, supplied by the
// host alongside the selected object descriptor.
type Config struct {
	EnableHaptics   bool
	EnableTwoHanded bool

	SnapToGrid        bool
	GridSize          float64
	GridSnapThreshold float64

	SnapAngles         bool
	SnapAngleIncrement float64 // degrees
	SnapAngleThreshold float64 // degrees

	LockAspectRatio bool

	// HandleOffset pushes handle anchors outward from the object
	// bounds (meters). Zero keeps them flush.
	HandleOffset float64
}

// DefaultConfig returns a config with haptics and two-handed
// manipulation on and snapping off.
func DefaultConfig() Config {
	return Config{
		EnableHaptics:      true,
		EnableTwoHanded:    true,
		GridSize:           DefaultGridSize,
		GridSnapThreshold:  DefaultGridSnapThreshold,
		SnapAngleIncrement: DefaultSnapAngleIncrement,
		SnapAngleThreshold: DefaultSnapAngleThreshold,
	}
}

// normalized fills zero-valued snap parameters with defaults so hosts
// that only toggle the booleans get sensible behavior.
func (c Config) normalized() Config {
	if c.GridSize <= 0 {
		c.GridSize = DefaultGridSize
	}
	if c.GridSnapThreshold <= 0 {
		c.GridSnapThreshold = DefaultGridSnapThreshold
	}
	if c.SnapAngleIncrement <= 0 {
		c.SnapAngleIncrement = DefaultSnapAngleIncrement
	}
	if c.SnapAngleThreshold <= 0 {
		c.SnapAngleThreshold = DefaultSnapAngleThreshold
	}
	return c
}

// Object describes the selected object being manipulated. The host
// owns the authoritative object; this copy tracks the dimensions the
// engine last emitted so consecutive manipulations compose correctly.
type Object struct {
	Width    float64
	Height   float64
	Depth    float64
	Rotation float64 // radians, about the view axis

	// Orientation rotates the object's local frame into world space;
	// depth drags project motion onto its local z axis.
	Orientation mgl64.Quat

	// Accent is the host's styling hint, carried through to the
	// dashboard untouched.
	Accent string
}

// ErrInvalidObject is returned when a session is created for an object
// with non-positive dimensions.
var ErrInvalidObject = errors.New("manipulate: object must have positive width and height")

func (o Object) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return ErrInvalidObject
	}
	return nil
}

// AspectRatio returns width over height.
func (o Object) AspectRatio() float64 {
	if o.Height == 0 {
		return 1
	}
	return o.Width / o.Height
}
