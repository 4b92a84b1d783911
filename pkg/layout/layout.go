// Package layout maps an object's dimensions to anchor positions for its
// manipulation handles. All functions are pure; positions are expressed in
// the object's local frame (x right, y up, z toward the viewer) with the
// object centered at the origin.
package layout

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HandleKind identifies one manipulation handle.
type HandleKind int

const (
	HandleNone HandleKind = iota
	CornerNW
	CornerNE
	CornerSE
	CornerSW
	EdgeN
	EdgeE
	EdgeS
	EdgeW
	Rotate
	Depth
)

var handleNames = map[HandleKind]string{
	HandleNone: "none",
	CornerNW:   "corner-nw",
	CornerNE:   "corner-ne",
	CornerSE:   "corner-se",
	CornerSW:   "corner-sw",
	EdgeN:      "edge-n",
	EdgeE:      "edge-e",
	EdgeS:      "edge-s",
	EdgeW:      "edge-w",
	Rotate:     "rotate",
	Depth:      "depth",
}

// String returns the handle's wire name.
func (k HandleKind) String() string {
	if name, ok := handleNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the handle as its wire name.
func (k HandleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a wire name, mapping unknown names to
// HandleNone.
func (k *HandleKind) UnmarshalText(text []byte) error {
	*k = ParseHandle(string(text))
	return nil
}

// ParseHandle returns the HandleKind for a wire name.
func ParseHandle(name string) HandleKind {
	for k, n := range handleNames {
		if n == name {
			return k
		}
	}
	return HandleNone
}

// IsCorner reports whether the handle is one of the four corners.
func (k HandleKind) IsCorner() bool {
	return k >= CornerNW && k <= CornerSW
}

// IsEdge reports whether the handle is one of the four edges.
func (k HandleKind) IsEdge() bool {
	return k >= EdgeN && k <= EdgeW
}

// IsResize reports whether the handle resizes the object.
func (k HandleKind) IsResize() bool {
	return k.IsCorner() || k.IsEdge()
}

// ResizeSigns returns the per-axis sign table for a resize handle: how
// a positive drag delta maps onto width/height growth. Drag deltas are
// expressed in pointer space (x toward the east edge, y toward the
// south edge), so dragging the SE corner outward grows both dimensions.
// Non-resize handles return zeros.
func (k HandleKind) ResizeSigns() (sw, sh float64) {
	switch k {
	case CornerNW:
		return -1, -1
	case CornerNE:
		return 1, -1
	case CornerSE:
		return 1, 1
	case CornerSW:
		return -1, 1
	case EdgeN:
		return 0, -1
	case EdgeS:
		return 0, 1
	case EdgeE:
		return 1, 0
	case EdgeW:
		return -1, 0
	}
	return 0, 0
}

// Standoff distances from the object bounds, in meters.
const (
	rotateStandoff = 0.06
	depthStandoff  = 0.06
)

// ResizeHandles lists the eight resize handles in a stable order.
var ResizeHandles = []HandleKind{
	CornerNW, CornerNE, CornerSE, CornerSW,
	EdgeN, EdgeE, EdgeS, EdgeW,
}

// AllHandles lists every handle in a stable order.
var AllHandles = append(append([]HandleKind{}, ResizeHandles...), Rotate, Depth)

// Anchor returns the local-frame anchor position of a handle for an
// object of the given width and height. offset pushes corner and edge
// anchors outward along their own direction (zero for a flush fit).
func Anchor(k HandleKind, width, height, offset float64) mgl64.Vec3 {
	hw := width/2 + offset
	hh := height/2 + offset
	switch k {
	case CornerNW:
		return mgl64.Vec3{-hw, hh, 0}
	case CornerNE:
		return mgl64.Vec3{hw, hh, 0}
	case CornerSE:
		return mgl64.Vec3{hw, -hh, 0}
	case CornerSW:
		return mgl64.Vec3{-hw, -hh, 0}
	case EdgeN:
		return mgl64.Vec3{0, hh, 0}
	case EdgeS:
		return mgl64.Vec3{0, -hh, 0}
	case EdgeE:
		return mgl64.Vec3{hw, 0, 0}
	case EdgeW:
		return mgl64.Vec3{-hw, 0, 0}
	case Rotate:
		return mgl64.Vec3{0, height/2 + offset + rotateStandoff, 0}
	case Depth:
		return mgl64.Vec3{0, -(height/2 + offset + depthStandoff), 0}
	}
	return mgl64.Vec3{}
}

// HitRadius returns the selection radius for a handle kind. Corners get
// a slightly larger target than edges; the rotate ring is the largest.
func HitRadius(k HandleKind) float64 {
	switch {
	case k == Rotate:
		return 0.035
	case k.IsCorner():
		return 0.03
	default:
		return 0.025
	}
}

// Nearest returns the handle whose anchor is closest to point, and the
// distance to it, for hosts that have no hit-testing layer of their own.
// Returns HandleNone when no anchor lies within its hit radius.
func Nearest(point mgl64.Vec3, width, height, offset float64) (HandleKind, float64) {
	best := HandleNone
	bestDist := math.Inf(1)
	for _, k := range AllHandles {
		d := point.Sub(Anchor(k, width, height, offset)).Len()
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	if best == HandleNone || bestDist > HitRadius(best) {
		return HandleNone, bestDist
	}
	return best, bestDist
}

// DepthAxis returns the object's local depth axis rotated into world
// space. Depth drags project hand motion onto this axis only.
func DepthAxis(orientation mgl64.Quat) mgl64.Vec3 {
	return orientation.Rotate(mgl64.Vec3{0, 0, 1})
}
