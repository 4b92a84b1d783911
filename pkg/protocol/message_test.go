package protocol

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/spatialkit/go-manipulate/pkg/pose"
)

func TestMessageRoundTrip(t *testing.T) {
	msg, err := NewMessage(TypeSelect, SelectData{Width: 0.3, Height: 0.2, EnableHaptics: true})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if msg.Timestamp == 0 {
		t.Error("timestamp not set")
	}

	raw, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	parsed, err := ParseMessage(raw)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if parsed.Type != TypeSelect {
		t.Errorf("type: got %q", parsed.Type)
	}

	var sel SelectData
	if err := parsed.ParseData(&sel); err != nil {
		t.Fatalf("ParseData: %v", err)
	}
	if sel.Width != 0.3 || sel.Height != 0.2 || !sel.EnableHaptics {
		t.Errorf("select data: %+v", sel)
	}
}

func TestParseMessageRejectsGarbage(t *testing.T) {
	if _, err := ParseMessage([]byte("not json")); err == nil {
		t.Error("expected parse error")
	}
}

func TestParseDataNilPayload(t *testing.T) {
	msg, err := NewMessage(TypePing, nil)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	var out InputData
	if err := msg.ParseData(&out); err != nil {
		t.Errorf("nil data must parse as no-op: %v", err)
	}
}

func TestInputDataFrameConversion(t *testing.T) {
	in := InputData{
		Seq: 42,
		Left: HandData{
			Tracked:   true,
			HasJoints: true,
			Wrist:     Vec3{0.1, 0.2, 0.3},
			Palm:      Vec3{0.1, 0.25, 0.3},
		},
		Right: HandData{
			Tracked: true,
			Controller: &ControllerData{
				Position:    Vec3{1, 2, 3},
				Orientation: Quat{1, 0, 0, 0},
				GripPressed: true,
			},
		},
	}

	frame := in.Frame()
	if frame.Seq != 42 {
		t.Errorf("seq: %d", frame.Seq)
	}
	if frame.Left.Hand != pose.Left || !frame.Left.HasJoints {
		t.Errorf("left sample: %+v", frame.Left)
	}
	if frame.Left.Wrist != (mgl64.Vec3{0.1, 0.2, 0.3}) {
		t.Errorf("wrist: %v", frame.Left.Wrist)
	}
	if frame.Right.Controller == nil || !frame.Right.Controller.GripPressed {
		t.Fatalf("right controller: %+v", frame.Right.Controller)
	}
	if frame.Right.Controller.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("controller position: %v", frame.Right.Controller.Position)
	}
}

func TestSampleWireRoundTrip(t *testing.T) {
	s := pose.Sample{
		Hand:         pose.Left,
		Tracked:      true,
		HasJoints:    true,
		Wrist:        mgl64.Vec3{0.1, 0.2, 0.3},
		Palm:         mgl64.Vec3{0.1, 0.24, 0.3},
		PalmRotation: mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0}),
	}
	for i := 0; i < pose.FingerCount; i++ {
		s.Tips[i] = mgl64.Vec3{float64(i), 0.1, 0}
		s.Metacarpals[i] = mgl64.Vec3{float64(i), 0.05, 0}
	}

	got := FromSample(s).Sample(pose.Left)
	if got.Wrist != s.Wrist || got.Palm != s.Palm {
		t.Errorf("positions: %+v", got)
	}
	if got.PalmRotation != s.PalmRotation {
		t.Errorf("rotation: got %v, want %v", got.PalmRotation, s.PalmRotation)
	}
	for i := 0; i < pose.FingerCount; i++ {
		if got.Tips[i] != s.Tips[i] || got.Metacarpals[i] != s.Metacarpals[i] {
			t.Errorf("finger %d mismatch", i)
		}
	}
	if got.Controller != nil {
		t.Error("controller appeared from nowhere")
	}
}

func TestNewEmissionMessage(t *testing.T) {
	msg, err := NewEmissionMessage("sess-1", map[string]any{"kind": "resize", "width": 0.35})
	if err != nil {
		t.Fatalf("NewEmissionMessage: %v", err)
	}
	if msg.Type != TypeEmission {
		t.Errorf("type: %q", msg.Type)
	}

	var data EmissionData
	if err := msg.ParseData(&data); err != nil {
		t.Fatalf("ParseData: %v", err)
	}
	if data.SessionID != "sess-1" {
		t.Errorf("session: %q", data.SessionID)
	}
	if len(data.Emission) == 0 {
		t.Error("empty emission payload")
	}
}

func TestNewHapticMessage(t *testing.T) {
	msg, err := NewHapticMessage("left", 0.5, 25000000) // 25ms
	if err != nil {
		t.Fatalf("NewHapticMessage: %v", err)
	}
	var data HapticData
	if err := msg.ParseData(&data); err != nil {
		t.Fatalf("ParseData: %v", err)
	}
	if data.Hand != "left" || data.Intensity != 0.5 || data.DurationMs != 25 {
		t.Errorf("haptic data: %+v", data)
	}
}

func TestParseHand(t *testing.T) {
	tests := []struct {
		name string
		want pose.Hand
	}{
		{"left", pose.Left},
		{"right", pose.Right},
		{"", pose.Right},
		{"LEFT", pose.Right}, // wire names are lowercase
	}
	for _, tt := range tests {
		if got := ParseHand(tt.name); got != tt.want {
			t.Errorf("ParseHand(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
