package manipulate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/spatialkit/go-manipulate/pkg/layout"
	"github.com/spatialkit/go-manipulate/pkg/snap"
)

// controller runs the idle → dragging(handle) → idle state machine for
// one session. It mutates nothing outside itself; the session applies
// returned emissions to its object copy and fans them out.
type controller struct {
	cfg Config

	active       layout.HandleKind
	drag         dragState
	snapped      bool // edge-trigger latch for snap haptics
	aspectLocked bool
}

// dragStart begins a drag on a handle. Returns false while another
// handle is active; a second pointer cannot steal the drag.
func (c *controller) dragStart(h layout.HandleKind, point mgl64.Vec3, obj Object) ([]Emission, bool) {
	if c.active != layout.HandleNone || h == layout.HandleNone {
		return nil, false
	}
	c.active = h
	c.snapped = false
	c.drag = dragState{
		startPoint:   point,
		initWidth:    obj.Width,
		initHeight:   obj.Height,
		initRotation: obj.Rotation,
		initDepth:    obj.Depth,
		aspectRatio:  obj.AspectRatio(),
		depthAxis:    layout.DepthAxis(obj.Orientation),
	}

	switch {
	case h == layout.Rotate:
		c.drag.lastPointerAngle = pointerAngle(point)
		c.drag.emittedAngle = obj.Rotation
		return []Emission{{Kind: EmitRotateStart, Handle: h}}, true
	case h == layout.Depth:
		// Depth drags have no start callback in the contract; the
		// first depth_change emission announces them.
		return nil, true
	default:
		return []Emission{{Kind: EmitResizeStart, Handle: h}}, true
	}
}

// dragMove advances an active drag to a new pointer position.
func (c *controller) dragMove(point mgl64.Vec3) []Emission {
	switch {
	case c.active == layout.HandleNone:
		return nil
	case c.active == layout.Rotate:
		return c.rotateMove(point)
	case c.active == layout.Depth:
		return c.depthMove(point)
	default:
		return c.resizeMove(point)
	}
}

func (c *controller) resizeMove(point mgl64.Vec3) []Emission {
	dx := point.X() - c.drag.startPoint.X()
	dy := point.Y() - c.drag.startPoint.Y()
	sw, sh := c.active.ResizeSigns()

	var width, height float64
	if c.aspectLocked && c.active.IsCorner() {
		width, height = snap.AspectLockedSize(dx*sw, dy*sh,
			c.drag.initWidth, c.drag.initHeight, c.drag.aspectRatio)
	} else {
		width = c.drag.initWidth + dx*sw
		height = c.drag.initHeight + dy*sh
	}

	snappedNow := false
	if c.cfg.SnapToGrid {
		rw := snap.Grid(width, c.cfg.GridSize, c.cfg.GridSnapThreshold)
		rh := snap.Grid(height, c.cfg.GridSize, c.cfg.GridSnapThreshold)
		width, height = rw.Value, rh.Value
		snappedNow = rw.Snapped || rh.Snapped
	}

	em := Emission{
		Kind:   EmitResize,
		Handle: c.active,
		Width:  snap.ClampSize(width),
		Height: snap.ClampSize(height),
		// Snapped marks the transition into snap, not the steady
		// state, so feedback fires once per snap rather than per
		// frame.
		Snapped: snappedNow && !c.snapped,
	}
	c.snapped = snappedNow
	return []Emission{em}
}

func (c *controller) rotateMove(point mgl64.Vec3) []Emission {
	angle := pointerAngle(point)
	delta := wrapAngle(angle - c.drag.lastPointerAngle)
	c.drag.lastPointerAngle = angle

	total := c.drag.emittedAngle + delta
	snappedNow := false
	if c.cfg.SnapAngles {
		res := snap.Angle(total, c.cfg.SnapAngleIncrement, c.cfg.SnapAngleThreshold)
		total = res.Angle
		snappedNow = res.Snapped
	}

	emitDelta := total - c.drag.emittedAngle
	c.drag.emittedAngle = total

	em := Emission{
		Kind:       EmitRotate,
		Handle:     layout.Rotate,
		AngleDelta: emitDelta,
		Snapped:    snappedNow && !c.snapped,
	}
	c.snapped = snappedNow
	if emitDelta == 0 && !em.Snapped {
		return nil
	}
	return []Emission{em}
}

func (c *controller) depthMove(point mgl64.Vec3) []Emission {
	motion := point.Sub(c.drag.startPoint)
	along := motion.Dot(c.drag.depthAxis)
	depth := snap.ClampDepth(c.drag.initDepth + along)
	return []Emission{{
		Kind:       EmitDepthChange,
		Handle:     layout.Depth,
		DepthDelta: depth - c.drag.initDepth,
	}}
}

// dragEnd finishes the active drag. Idempotent: a second call returns
// nothing and changes nothing.
func (c *controller) dragEnd() []Emission {
	if c.active == layout.HandleNone {
		return nil
	}
	var out []Emission
	switch {
	case c.active == layout.Rotate:
		out = []Emission{{Kind: EmitRotateEnd, Handle: c.active}}
	case c.active == layout.Depth:
		// No end callback for depth in the contract.
	default:
		out = []Emission{{Kind: EmitResizeEnd, Handle: c.active}}
	}
	c.active = layout.HandleNone
	c.drag = dragState{}
	c.snapped = false
	return out
}

// cancel clears the drag without emitting end callbacks, for tracking
// loss and session teardown.
func (c *controller) cancel() {
	c.active = layout.HandleNone
	c.drag = dragState{}
	c.snapped = false
}

// toggleAspectLock flips the aspect lock, driven by the host's
// double-tap signal on a corner handle.
func (c *controller) toggleAspectLock() Emission {
	c.aspectLocked = !c.aspectLocked
	return Emission{Kind: EmitAspectLock, AspectLocked: c.aspectLocked}
}

// pointerAngle matches the reference behavior: atan2 over (x, y) of
// the pointer position in the manipulation plane.
func pointerAngle(p mgl64.Vec3) float64 {
	return math.Atan2(p.X(), p.Y())
}

// wrapAngle keeps per-frame rotation deltas in (-π, π] so a pointer
// crossing the atan2 seam never produces a full-turn jump.
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
