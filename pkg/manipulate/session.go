// Package manipulate turns classified gesture and pointer input into
// the manipulation callback contract for one selected object: handle
// drags (resize, rotate, depth), two-handed scale/rotate, snapping and
// haptic feedback.
//
// A Session is single-threaded and frame-synchronous: the host calls
// Tick exactly once per rendered frame, and delivers pointer events
// from its hit-testing layer between ticks on the same goroutine.
package manipulate

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/spatialkit/go-manipulate/internal/log"
	"github.com/spatialkit/go-manipulate/pkg/events"
	"github.com/spatialkit/go-manipulate/pkg/gesture"
	"github.com/spatialkit/go-manipulate/pkg/haptics"
	"github.com/spatialkit/go-manipulate/pkg/layout"
	"github.com/spatialkit/go-manipulate/pkg/pose"
	"github.com/spatialkit/go-manipulate/pkg/snap"
	"github.com/spatialkit/go-manipulate/pkg/twohand"
)

// twoHandHapticGain converts a scale/rotation change magnitude into a
// pulse intensity; the sequencer caps the result.
const twoHandHapticGain = 2.0

// Session owns one object's manipulation state. Create one per
// selected object; independent sessions need no coordination.
type Session struct {
	id  string
	cfg Config
	obj Object

	classifier *gesture.Classifier
	coord      *twohand.Coordinator
	ctrl       controller

	seq *haptics.Sequencer
	bus *events.Bus

	listeners []Listener
	logger    *slog.Logger

	hoverHandle     layout.HandleKind
	dragHand        pose.Hand
	twoHandScale    float64
	twoHandRotation float64
	tickCount       uint64
}

// NewSession creates a session for a selected object. The descriptor
// must have positive width and height; that is the only configuration
// misuse rejected here, everything downstream degrades gracefully.
func NewSession(obj Object, cfg Config) (*Session, error) {
	if err := obj.validate(); err != nil {
		return nil, err
	}
	if (obj.Orientation == mgl64.Quat{}) {
		obj.Orientation = mgl64.QuatIdent()
	}
	s := &Session{
		id:         uuid.NewString(),
		cfg:        cfg.normalized(),
		obj:        obj,
		classifier: &gesture.Classifier{},
		coord:      twohand.New(),
	}
	s.ctrl.cfg = s.cfg
	s.ctrl.aspectLocked = s.cfg.LockAspectRatio
	s.logger = log.Component("session").With("session_id", s.id)
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Object returns the session's current view of the object.
func (s *Session) Object() Object { return s.obj }

// Config returns the active configuration.
func (s *Session) Config() Config { return s.cfg }

// SetHaptics attaches a haptic sequencer. Nil disables feedback.
func (s *Session) SetHaptics(seq *haptics.Sequencer) { s.seq = seq }

// SetBus attaches an event bus for debug/telemetry. Nil disables it.
func (s *Session) SetBus(bus *events.Bus) { s.bus = bus }

// AddListener registers a callback listener.
func (s *Session) AddListener(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// State returns the externally visible manipulation state.
func (s *Session) State() State {
	return State{
		ActiveHandle:    s.ctrl.active,
		IsHovering:      s.hoverHandle != layout.HandleNone,
		IsSnapped:       s.ctrl.snapped,
		AspectLocked:    s.ctrl.aspectLocked,
		TwoHandScale:    s.twoHandScale,
		TwoHandRotation: s.twoHandRotation,
	}
}

// Gesture returns the latest classified state for a hand.
func (s *Session) Gesture(h pose.Hand) gesture.State {
	return s.classifier.State(h)
}

// TwoHanded returns the coordinator snapshot.
func (s *Session) TwoHanded() twohand.State {
	return s.coord.State()
}

// Tick advances the session by one frame. Both hands are classified
// before the two-handed coordinator reads either, so coordination never
// mixes state from different frames. Returned emissions have already
// been delivered to listeners; they are returned for hosts that prefer
// polling over callbacks.
func (s *Session) Tick(frame *pose.Frame) []Emission {
	s.tickCount++

	left := s.classifier.Update(&frame.Left)
	right := s.classifier.Update(&frame.Right)
	s.bus.Publish(events.TopicGesture, [2]gesture.State{left, right})

	var out []Emission

	// The dragging hand losing tracking releases the drag this same
	// tick. A present controller counts as tracked even without joints.
	if s.ctrl.active != layout.HandleNone {
		dragged := right
		if s.dragHand == pose.Left {
			dragged = left
		}
		if !dragged.IsTracking && frame.Sample(s.dragHand).Controller == nil {
			s.logger.Debug("tracking lost, releasing drag", "handle", s.ctrl.active.String())
			out = append(out, s.endDrag()...)
		}
	}

	if s.cfg.EnableTwoHanded {
		out = append(out, s.tickTwoHanded(frame, left, right)...)
	}

	for _, em := range out {
		s.dispatch(em)
	}
	return out
}

func (s *Session) tickTwoHanded(frame *pose.Frame, left, right gesture.State) []Emission {
	leftGrab := frame.Left.Grabbing(left.IsPinching || left.IsGrabbing)
	rightGrab := frame.Right.Grabbing(right.IsPinching || right.IsGrabbing)

	upd := s.coord.Update(leftGrab, rightGrab,
		frame.Left.GripPoint(), frame.Right.GripPoint(),
		s.obj.Width, s.obj.Height)

	var out []Emission
	if upd.Started {
		s.twoHandScale = 1
		s.twoHandRotation = 0
		out = append(out, Emission{Kind: EmitTwoHandStart})
	}
	if upd.ScaleChanged {
		s.twoHandScale = upd.Scale
		out = append(out, Emission{Kind: EmitTwoHandScale, Scale: upd.Scale})
	}
	if upd.RotationChanged {
		s.twoHandRotation = upd.Rotation
		out = append(out, Emission{Kind: EmitTwoHandRotate, AngleDelta: upd.Rotation})
	}
	if upd.ScaleChanged || upd.RotationChanged {
		intensity := upd.Magnitude * twoHandHapticGain
		s.hapticScaled(pose.Left, haptics.EventDrag, intensity)
		s.hapticScaled(pose.Right, haptics.EventDrag, intensity)
	}
	if upd.Ended {
		// Fold the final scale into our object copy so the next
		// manipulation starts from the size the host now renders.
		s.twoHandScale = 0
		s.twoHandRotation = 0
		s.obj.Width = snap.ClampSize(s.obj.Width * upd.FinalScale)
		s.obj.Height = snap.ClampSize(s.obj.Height * upd.FinalScale)
		s.obj.Rotation += upd.FinalRotation
		out = append(out, Emission{
			Kind:     EmitTwoHandEnd,
			Scale:    upd.FinalScale,
			Rotation: upd.FinalRotation,
		})
	}
	return out
}

// PointerDown begins a drag on a handle. Returns false when another
// handle already owns the drag.
func (s *Session) PointerDown(hand pose.Hand, h layout.HandleKind, point mgl64.Vec3) bool {
	ems, ok := s.ctrl.dragStart(h, point, s.obj)
	if !ok {
		return false
	}
	s.dragHand = hand
	s.haptic(hand, haptics.EventGrab)
	for _, em := range ems {
		s.dispatch(em)
	}
	return true
}

// PointerMove advances an active drag. No-op while idle.
func (s *Session) PointerMove(point mgl64.Vec3) {
	for _, em := range s.ctrl.dragMove(point) {
		s.apply(em)
		s.dispatch(em)
	}
}

// PointerUp ends the active drag. Idempotent; a second call emits no
// duplicate end callback.
func (s *Session) PointerUp() {
	for _, em := range s.endDrag() {
		s.dispatch(em)
	}
}

// PointerEnter marks a handle hovered.
func (s *Session) PointerEnter(hand pose.Hand, h layout.HandleKind) {
	if s.hoverHandle == h {
		return
	}
	s.hoverHandle = h
	s.haptic(hand, haptics.EventHover)
	s.notifyHover(h, true)
}

// PointerLeave clears the hover for a handle.
func (s *Session) PointerLeave(h layout.HandleKind) {
	if s.hoverHandle != h {
		return
	}
	s.hoverHandle = layout.HandleNone
	s.notifyHover(h, false)
}

// DoubleTap toggles aspect lock when the tapped handle is a corner.
// Double-tap detection itself belongs to the host's pointer layer.
func (s *Session) DoubleTap(h layout.HandleKind) {
	if !h.IsCorner() {
		return
	}
	s.dispatch(s.ctrl.toggleAspectLock())
}

// BoundsExit handles the pointer leaving the interactive bounds
// entirely: any drag and any two-handed session are released within
// this call, never deferred.
func (s *Session) BoundsExit() {
	for _, em := range s.endDrag() {
		s.dispatch(em)
	}
	s.coord.Reset()
	s.hoverHandle = layout.HandleNone
}

// Close cancels everything without emitting callbacks and stops any
// pending haptic pulses.
func (s *Session) Close() {
	s.ctrl.cancel()
	s.coord.Reset()
	s.classifier.Reset()
	if s.seq != nil {
		s.seq.StopAll()
	}
	s.bus.Publish(events.TopicSession, map[string]string{"session_id": s.id, "event": "closed"})
}

// Anchors returns the current handle anchor positions for rendering.
func (s *Session) Anchors() map[layout.HandleKind]mgl64.Vec3 {
	out := make(map[layout.HandleKind]mgl64.Vec3, len(layout.AllHandles))
	for _, k := range layout.AllHandles {
		out[k] = layout.Anchor(k, s.obj.Width, s.obj.Height, s.cfg.HandleOffset)
	}
	return out
}

// endDrag finishes the drag and fires release feedback once.
func (s *Session) endDrag() []Emission {
	ems := s.ctrl.dragEnd()
	if s.ctrl.active == layout.HandleNone && len(ems) > 0 {
		s.haptic(s.dragHand, haptics.EventRelease)
	}
	return ems
}

// apply folds an emission into the session's object copy.
func (s *Session) apply(em Emission) {
	switch em.Kind {
	case EmitResize:
		s.obj.Width = em.Width
		s.obj.Height = em.Height
	case EmitRotate:
		s.obj.Rotation += em.AngleDelta
	case EmitDepthChange:
		s.obj.Depth = s.ctrl.drag.initDepth + em.DepthDelta
	}
}

// dispatch fans an emission out to listeners, the event bus, and the
// haptic sequencer.
func (s *Session) dispatch(em Emission) {
	s.bus.Publish(events.TopicManipulation, em)

	switch em.Kind {
	case EmitResizeStart:
		for _, l := range s.listeners {
			l.OnResizeStart(em.Handle)
		}
	case EmitResize:
		if em.Snapped {
			s.haptic(s.dragHand, haptics.EventSnap)
		} else {
			s.haptic(s.dragHand, haptics.EventDrag)
		}
		for _, l := range s.listeners {
			l.OnResize(em.Width, em.Height, em.Handle)
		}
	case EmitResizeEnd:
		for _, l := range s.listeners {
			l.OnResizeEnd()
		}
	case EmitRotateStart:
		for _, l := range s.listeners {
			l.OnRotateStart()
		}
	case EmitRotate:
		if em.Snapped {
			s.haptic(s.dragHand, haptics.EventSnap)
		}
		for _, l := range s.listeners {
			l.OnRotate(em.AngleDelta)
		}
	case EmitRotateEnd:
		for _, l := range s.listeners {
			l.OnRotateEnd()
		}
	case EmitDepthChange:
		for _, l := range s.listeners {
			l.OnDepthChange(em.DepthDelta)
		}
	case EmitTwoHandStart:
		s.haptic(pose.Left, haptics.EventTwoHandStart)
		s.haptic(pose.Right, haptics.EventTwoHandStart)
	case EmitTwoHandScale:
		for _, l := range s.listeners {
			l.OnTwoHandedScale(em.Scale)
		}
	case EmitTwoHandRotate:
		for _, l := range s.listeners {
			l.OnTwoHandedRotate(em.AngleDelta)
		}
	case EmitTwoHandEnd:
		s.haptic(pose.Left, haptics.EventRelease)
		s.haptic(pose.Right, haptics.EventRelease)
		for _, l := range s.listeners {
			l.OnTwoHandedEnd(em.Scale, em.Rotation)
		}
	case EmitAspectLock:
		for _, l := range s.listeners {
			l.OnToggleAspectLock(em.AspectLocked)
		}
	}
}

func (s *Session) notifyHover(h layout.HandleKind, hovering bool) {
	em := Emission{Kind: EmitHover, Handle: h, Hovering: hovering}
	s.bus.Publish(events.TopicManipulation, em)
	for _, l := range s.listeners {
		l.OnHover(h, hovering)
	}
}

func (s *Session) haptic(hand pose.Hand, ev haptics.Event) {
	if s.seq == nil || !s.cfg.EnableHaptics {
		return
	}
	s.seq.Trigger(hand, ev)
}

func (s *Session) hapticScaled(hand pose.Hand, ev haptics.Event, intensity float64) {
	if s.seq == nil || !s.cfg.EnableHaptics {
		return
	}
	s.seq.TriggerScaled(hand, ev, intensity)
}
