package twohand

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// hands returns left/right grip points the given distance apart on x.
func hands(distance float64) (mgl64.Vec3, mgl64.Vec3) {
	return mgl64.Vec3{0, 0, 0}, mgl64.Vec3{distance, 0, 0}
}

func TestArmsOnFirstGrabWithoutActivating(t *testing.T) {
	c := New()
	l, r := hands(0.30)
	upd := c.Update(true, true, l, r, 0.3, 0.2)

	if c.Phase() != Armed {
		t.Errorf("phase: got %v, want armed", c.Phase())
	}
	if upd.Started || upd.ScaleChanged || upd.RotationChanged || upd.Ended {
		t.Errorf("arming must emit nothing: %+v", upd)
	}
}

func TestStaysArmedBelowActivationThreshold(t *testing.T) {
	c := New()
	l, r := hands(0.30)
	c.Update(true, true, l, r, 0.3, 0.2)

	// 0.09 below the 0.1 m activation threshold.
	l, r = hands(0.39)
	upd := c.Update(true, true, l, r, 0.3, 0.2)
	if c.Phase() != Armed || upd.Started {
		t.Errorf("phase: got %v, started %v; want still armed", c.Phase(), upd.Started)
	}
}

func TestActivatesPastThreshold(t *testing.T) {
	c := New()
	l, r := hands(0.30)
	c.Update(true, true, l, r, 0.3, 0.2)

	l, r = hands(0.41)
	upd := c.Update(true, true, l, r, 0.3, 0.2)
	if c.Phase() != Active {
		t.Fatalf("phase: got %v, want active", c.Phase())
	}
	if !upd.Started {
		t.Error("expected Started on activation frame")
	}
	st := c.State()
	if !floatEquals(st.InitialWidth, 0.3) || !floatEquals(st.InitialHeight, 0.2) {
		t.Errorf("initial size: got %vx%v", st.InitialWidth, st.InitialHeight)
	}
	if !floatEquals(st.InitialDistance, 0.30) {
		t.Errorf("initial distance must stay at arming value: got %v", st.InitialDistance)
	}
}

func TestScaleDeadZone(t *testing.T) {
	c := New()
	l, r := hands(0.30)
	c.Update(true, true, l, r, 0.3, 0.2)
	l, r = hands(0.41)
	c.Update(true, true, l, r, 0.3, 0.2)

	// Raw factor 0.31/0.30 = 1.033: inside the 0.05 dead zone, so the
	// scale collapses to exactly 1.0 and no event fires (1.0 was the
	// last notified value at activation).
	l, r = hands(0.31)
	upd := c.Update(true, true, l, r, 0.3, 0.2)
	if upd.ScaleChanged {
		t.Errorf("dead-zone scale must not notify: got %v", upd.Scale)
	}

	// Raw factor 0.33/0.30 = 1.10: outside the dead zone, reported.
	l, r = hands(0.33)
	upd = c.Update(true, true, l, r, 0.3, 0.2)
	if !upd.ScaleChanged {
		t.Fatal("expected scale notification")
	}
	if !floatEquals(upd.Scale, 1.1) {
		t.Errorf("scale: got %v, want 1.1", upd.Scale)
	}
	if upd.Magnitude <= 0 {
		t.Errorf("magnitude must be positive: %v", upd.Magnitude)
	}
}

func TestNotifyEpsilonSuppressesJitter(t *testing.T) {
	c := New()
	l, r := hands(0.30)
	c.Update(true, true, l, r, 0.3, 0.2)
	l, r = hands(0.45)
	c.Update(true, true, l, r, 0.3, 0.2)

	l, r = hands(0.451)
	upd := c.Update(true, true, l, r, 0.3, 0.2)
	if !upd.ScaleChanged {
		t.Fatal("first active frame past activation should notify")
	}

	// A further 0.001 m change moves scale by ~0.003, under the 0.01
	// notify epsilon.
	l, r = hands(0.452)
	upd = c.Update(true, true, l, r, 0.3, 0.2)
	if upd.ScaleChanged {
		t.Errorf("sub-epsilon change must not notify: got %v", upd.Scale)
	}
}

func TestRotationDelta(t *testing.T) {
	c := New()
	l, r := hands(0.30)
	c.Update(true, true, l, r, 0.3, 0.2)
	l, r = hands(0.45)
	c.Update(true, true, l, r, 0.3, 0.2)

	// Rotate the baseline 10 degrees while holding the distance.
	angle := 10 * math.Pi / 180
	r2 := mgl64.Vec3{0.45 * math.Cos(angle), 0.45 * math.Sin(angle), 0}
	upd := c.Update(true, true, mgl64.Vec3{}, r2, 0.3, 0.2)
	if !upd.RotationChanged {
		t.Fatal("expected rotation notification")
	}
	if math.Abs(upd.Rotation-angle) > 1e-9 {
		t.Errorf("rotation: got %v, want %v", upd.Rotation, angle)
	}
}

func TestReleaseEndsImmediately(t *testing.T) {
	c := New()
	l, r := hands(0.30)
	c.Update(true, true, l, r, 0.3, 0.2)
	l, r = hands(0.45)
	c.Update(true, true, l, r, 0.3, 0.2)
	l, r = hands(0.45)
	c.Update(true, true, l, r, 0.3, 0.2)

	upd := c.Update(true, false, l, r, 0.3, 0.2)
	if !upd.Ended {
		t.Fatal("release must end the session")
	}
	if !floatEquals(upd.FinalScale, 1.5) {
		t.Errorf("final scale: got %v, want 1.5", upd.FinalScale)
	}
	if c.Phase() != Inactive {
		t.Errorf("phase after release: got %v", c.Phase())
	}

	// The next grab must re-arm from scratch.
	l, r = hands(0.50)
	c.Update(true, true, l, r, 0.3, 0.2)
	if c.Phase() != Armed {
		t.Errorf("new grab must arm, got %v", c.Phase())
	}
	if !floatEquals(c.State().InitialDistance, 0.50) {
		t.Errorf("stale activation distance: got %v", c.State().InitialDistance)
	}
}

func TestArmedReleaseEmitsNothing(t *testing.T) {
	c := New()
	l, r := hands(0.30)
	c.Update(true, true, l, r, 0.3, 0.2)
	upd := c.Update(false, false, l, r, 0.3, 0.2)
	if upd.Ended {
		t.Error("armed release must not report an end")
	}
	if c.Phase() != Inactive {
		t.Errorf("phase: got %v", c.Phase())
	}
}
