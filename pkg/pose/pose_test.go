package pose

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestGrabbingControllerWinsOverGesture(t *testing.T) {
	tests := []struct {
		name        string
		sample      Sample
		pinchOrGrab bool
		want        bool
	}{
		{"grip pressed", Sample{Controller: &Controller{GripPressed: true}}, false, true},
		{"analog grip past threshold", Sample{Controller: &Controller{Grip: 0.9}}, false, true},
		{"analog grip below threshold", Sample{Controller: &Controller{Grip: 0.5}}, true, false},
		{"tracked hand pinching", Sample{Tracked: true}, true, true},
		{"tracked hand idle", Sample{Tracked: true}, false, false},
		{"untracked hand", Sample{}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sample.Grabbing(tt.pinchOrGrab); got != tt.want {
				t.Errorf("Grabbing(%v) = %v, want %v", tt.pinchOrGrab, got, tt.want)
			}
		})
	}
}

func TestGripPointPrefersController(t *testing.T) {
	s := Sample{
		Palm:       mgl64.Vec3{0.1, 0.2, 0.3},
		Controller: &Controller{Position: mgl64.Vec3{1, 2, 3}},
	}
	if got := s.GripPoint(); got != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("grip point: %v", got)
	}

	s.Controller = nil
	if got := s.GripPoint(); got != (mgl64.Vec3{0.1, 0.2, 0.3}) {
		t.Errorf("grip point without controller: %v", got)
	}
}

func TestFrameSample(t *testing.T) {
	f := Frame{
		Left:  Sample{Hand: Left, Tracked: true},
		Right: Sample{Hand: Right},
	}
	if !f.Sample(Left).Tracked {
		t.Error("left lookup")
	}
	if f.Sample(Right).Tracked {
		t.Error("right lookup")
	}
}

func TestHandOther(t *testing.T) {
	if Left.Other() != Right || Right.Other() != Left {
		t.Error("Other is not an involution")
	}
	if Left.String() != "left" || Right.String() != "right" {
		t.Error("hand names")
	}
}
