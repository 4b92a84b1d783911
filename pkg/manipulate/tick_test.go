package manipulate

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/spatialkit/go-manipulate/pkg/layout"
	"github.com/spatialkit/go-manipulate/pkg/pose"
)

// controllerFrame builds a frame where both sides are tracked
// controllers at the given x positions.
func controllerFrame(seq uint64, leftX, rightX float64, leftGrip, rightGrip bool) *pose.Frame {
	return &pose.Frame{
		Seq: seq,
		Left: pose.Sample{
			Hand:    pose.Left,
			Tracked: true,
			Controller: &pose.Controller{
				Position:    mgl64.Vec3{leftX, 0, 0},
				GripPressed: leftGrip,
			},
		},
		Right: pose.Sample{
			Hand:    pose.Right,
			Tracked: true,
			Controller: &pose.Controller{
				Position:    mgl64.Vec3{rightX, 0, 0},
				GripPressed: rightGrip,
			},
		},
	}
}

// trackedSample builds an open, fully tracked hand.
func trackedSample(h pose.Hand) pose.Sample {
	s := pose.Sample{
		Hand:         h,
		Tracked:      true,
		HasJoints:    true,
		Palm:         mgl64.Vec3{0, 0.05, 0},
		PalmRotation: mgl64.QuatIdent(),
	}
	for i := 0; i < pose.FingerCount; i++ {
		s.Metacarpals[i] = mgl64.Vec3{0, 0.04, 0}
		s.Tips[i] = mgl64.Vec3{float64(i)*0.03 - 0.06, 0.14, 0}
	}
	return s
}

func lostFrame(seq uint64) *pose.Frame {
	return &pose.Frame{
		Seq:   seq,
		Left:  pose.Sample{Hand: pose.Left},
		Right: pose.Sample{Hand: pose.Right},
	}
}

func TestTwoHandedScaleThroughTick(t *testing.T) {
	s, rec := newTestSession(t, Object{Width: 0.30, Height: 0.20},
		Config{EnableTwoHanded: true})

	// Both grips close: arms at distance 0.4 without callbacks.
	s.Tick(controllerFrame(1, -0.2, 0.2, true, true))
	if len(rec.thScales) != 0 {
		t.Fatal("armed phase must not emit scale")
	}

	// Spread to 0.52: crosses the 0.1 activation threshold.
	s.Tick(controllerFrame(2, -0.26, 0.26, true, true))
	st := s.State()
	if !floatEquals(st.TwoHandScale, 1) {
		t.Errorf("scale at activation: got %v, want 1", st.TwoHandScale)
	}

	// Spread to 0.6: scale relative to the arming distance, 0.6/0.4.
	s.Tick(controllerFrame(3, -0.3, 0.3, true, true))
	if len(rec.thScales) != 1 || !floatEquals(rec.thScales[0], 1.5) {
		t.Fatalf("scale callbacks: %v", rec.thScales)
	}
	if !floatEquals(s.State().TwoHandScale, 1.5) {
		t.Errorf("state scale: %v", s.State().TwoHandScale)
	}

	// Release one grip: the gesture ends with the final factors and the
	// session folds them into its object copy.
	s.Tick(controllerFrame(4, -0.3, 0.3, true, false))
	if len(rec.thEnds) != 1 {
		t.Fatalf("end callbacks: %d", len(rec.thEnds))
	}
	end := rec.thEnds[0]
	if !floatEquals(end.scale, 1.5) || !floatEquals(end.rotation, 0) {
		t.Errorf("final factors: %+v", end)
	}
	obj := s.Object()
	if !floatEquals(obj.Width, 0.45) || !floatEquals(obj.Height, 0.30) {
		t.Errorf("folded size: %vx%v", obj.Width, obj.Height)
	}
	if s.State().TwoHandScale != 0 {
		t.Errorf("state scale after end: %v", s.State().TwoHandScale)
	}
}

func TestTwoHandedScaleInsideDeadZone(t *testing.T) {
	s, rec := newTestSession(t, Object{Width: 0.30, Height: 0.20},
		Config{EnableTwoHanded: true})

	s.Tick(controllerFrame(1, -0.2, 0.2, true, true))   // armed at 0.4
	s.Tick(controllerFrame(2, -0.26, 0.26, true, true)) // active
	// 0.41/0.4 = 1.025, inside the 0.05 dead zone: no scale callback.
	s.Tick(controllerFrame(3, -0.205, 0.205, true, true))
	if len(rec.thScales) != 0 {
		t.Errorf("dead zone leaked scale: %v", rec.thScales)
	}
}

func TestTwoHandedDisabledByConfig(t *testing.T) {
	s, rec := newTestSession(t, Object{Width: 0.30, Height: 0.20}, Config{})

	s.Tick(controllerFrame(1, -0.2, 0.2, true, true))
	s.Tick(controllerFrame(2, -0.3, 0.3, true, true))
	s.Tick(controllerFrame(3, -0.4, 0.4, true, true))
	if len(rec.thScales) != 0 || len(rec.thEnds) != 0 {
		t.Error("two-handed callbacks despite disabled config")
	}
}

func TestTrackingLossReleasesDrag(t *testing.T) {
	s, rec := newTestSession(t, Object{Width: 0.30, Height: 0.20}, Config{})

	s.PointerDown(pose.Right, layout.CornerSE, mgl64.Vec3{0.15, -0.10, 0})
	s.Tick(lostFrame(1))

	if rec.resizeEnds != 1 {
		t.Errorf("resize ends after tracking loss: %d", rec.resizeEnds)
	}
	if s.State().ActiveHandle != layout.HandleNone {
		t.Errorf("drag still active: %v", s.State().ActiveHandle)
	}

	// Another lost frame must not double-release.
	s.Tick(lostFrame(2))
	if rec.resizeEnds != 1 {
		t.Errorf("double release: %d", rec.resizeEnds)
	}
}

func TestDraggingHandTrackingLossReleasesDrag(t *testing.T) {
	s, rec := newTestSession(t, Object{Width: 0.30, Height: 0.20}, Config{})

	s.PointerDown(pose.Right, layout.CornerSE, mgl64.Vec3{0.15, -0.10, 0})

	// The dragging hand drops out while the other stays tracked.
	s.Tick(&pose.Frame{
		Seq:   1,
		Left:  trackedSample(pose.Left),
		Right: pose.Sample{Hand: pose.Right},
	})

	if rec.resizeEnds != 1 {
		t.Errorf("resize ends: got %d, want 1", rec.resizeEnds)
	}
	if s.State().ActiveHandle != layout.HandleNone {
		t.Errorf("drag still active: %v", s.State().ActiveHandle)
	}
}

func TestOtherHandTrackingLossKeepsDrag(t *testing.T) {
	s, rec := newTestSession(t, Object{Width: 0.30, Height: 0.20}, Config{})

	s.PointerDown(pose.Right, layout.CornerSE, mgl64.Vec3{0.15, -0.10, 0})

	// Losing the idle hand must not disturb the drag.
	s.Tick(&pose.Frame{
		Seq:   1,
		Left:  pose.Sample{Hand: pose.Left},
		Right: trackedSample(pose.Right),
	})

	if rec.resizeEnds != 0 {
		t.Errorf("resize ends: got %d, want 0", rec.resizeEnds)
	}
	if s.State().ActiveHandle != layout.CornerSE {
		t.Errorf("drag released: %v", s.State().ActiveHandle)
	}
}

func TestControllerDragSurvivesMissingJoints(t *testing.T) {
	s, rec := newTestSession(t, Object{Width: 0.30, Height: 0.20}, Config{})

	s.PointerDown(pose.Right, layout.CornerSE, mgl64.Vec3{0.15, -0.10, 0})

	// A controller-driven hand reports no joints; the controller's
	// presence still counts as tracked.
	s.Tick(&pose.Frame{
		Seq:   1,
		Left:  pose.Sample{Hand: pose.Left},
		Right: pose.Sample{Hand: pose.Right, Controller: &pose.Controller{}},
	})

	if rec.resizeEnds != 0 {
		t.Errorf("resize ends: got %d, want 0", rec.resizeEnds)
	}
	if s.State().ActiveHandle != layout.CornerSE {
		t.Errorf("drag released: %v", s.State().ActiveHandle)
	}
}

func TestBoundsExitReleasesEverything(t *testing.T) {
	s, rec := newTestSession(t, Object{Width: 0.30, Height: 0.20},
		Config{EnableTwoHanded: true})

	s.PointerDown(pose.Right, layout.Rotate, mgl64.Vec3{0, 1, 0})
	s.PointerEnter(pose.Left, layout.CornerNW)
	s.BoundsExit()

	if rec.rotateEnds != 1 {
		t.Errorf("rotate ends: %d", rec.rotateEnds)
	}
	st := s.State()
	if st.ActiveHandle != layout.HandleNone || st.IsHovering {
		t.Errorf("state after bounds exit: %+v", st)
	}
}

func TestAnchorsTrackObjectSize(t *testing.T) {
	s, _ := newTestSession(t, Object{Width: 0.4, Height: 0.2}, Config{})

	anchors := s.Anchors()
	se, ok := anchors[layout.CornerSE]
	if !ok {
		t.Fatal("missing corner-se anchor")
	}
	if !floatEquals(se.X(), 0.2) || !floatEquals(se.Y(), -0.1) {
		t.Errorf("corner-se anchor: %v", se)
	}
	if _, ok := anchors[layout.Rotate]; !ok {
		t.Error("missing rotate anchor")
	}
	if len(anchors) != len(layout.AllHandles) {
		t.Errorf("anchor count: %d", len(anchors))
	}
}

func TestRotationDragFoldsIntoObject(t *testing.T) {
	s, _ := newTestSession(t, Object{Width: 0.30, Height: 0.20}, Config{})

	s.PointerDown(pose.Right, layout.Rotate, mgl64.Vec3{0, 1, 0})
	thirty := 30 * math.Pi / 180
	s.PointerMove(mgl64.Vec3{math.Sin(thirty), math.Cos(thirty), 0})
	s.PointerUp()

	if math.Abs(s.Object().Rotation-thirty) > 1e-9 {
		t.Errorf("object rotation: got %v, want %v", s.Object().Rotation, thirty)
	}
}
