// Package haptics maps semantic manipulation events to timed pulse
// sequences on whatever actuators the session has attached. It degrades
// across hardware tiers: HD actuators play short waveforms, basic
// actuators get a single capped pulse, and missing or failing actuators
// are silently skipped so manipulation logic is never blocked.
package haptics

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Event is a semantic trigger for haptic feedback.
type Event string

const (
	EventHover        Event = "hover"
	EventGrab         Event = "grab"
	EventDrag         Event = "drag"
	EventRelease      Event = "release"
	EventSnap         Event = "snap"
	EventTwoHandStart Event = "twoHandStart"
)

// Pulse is a single constant-intensity vibration.
type Pulse struct {
	Intensity float64 // 0..1
	Duration  time.Duration
}

// Step is one segment of a waveform. Zero intensity is a pause.
type Step struct {
	Intensity float64
	Duration  time.Duration
}

// Waveform is an ordered pulse/pause sequence for HD actuators.
type Waveform []Step

// Capabilities describes what an actuator can do. It is a snapshot
// taken when the actuator is attached and re-read whenever input
// sources change; it is never persisted.
type Capabilities struct {
	Supported    bool
	HDHaptics    bool
	MaxIntensity float64
	MaxDuration  time.Duration
}

// Actuator is a haptic output device for one hand. Implementations
// report their own capabilities rather than being sniffed from device
// identifier strings.
type Actuator interface {
	Capabilities() Capabilities
	Pulse(intensity float64, duration time.Duration) error
}

// Preferences are the user-facing haptic settings. They are owned by an
// external preferences store and only read here.
type Preferences struct {
	Enabled             bool
	IntensityMultiplier float64
	ReduceMotion        bool
	SnapFeedback        bool
	ContinuousFeedback  bool
}

// DefaultPreferences returns haptics fully enabled at unit intensity.
func DefaultPreferences() Preferences {
	return Preferences{
		Enabled:             true,
		IntensityMultiplier: 1,
		SnapFeedback:        true,
		ContinuousFeedback:  true,
	}
}

// presets are the fixed per-event pulses for basic actuators.
var presets = map[Event]Pulse{
	EventHover:        {Intensity: 0.15, Duration: 8 * time.Millisecond},
	EventGrab:         {Intensity: 0.5, Duration: 25 * time.Millisecond},
	EventDrag:         {Intensity: 0.1, Duration: 10 * time.Millisecond},
	EventRelease:      {Intensity: 0.3, Duration: 20 * time.Millisecond},
	EventSnap:         {Intensity: 0.6, Duration: 15 * time.Millisecond},
	EventTwoHandStart: {Intensity: 0.7, Duration: 40 * time.Millisecond},
}

// Preset returns the fixed pulse for an event.
func Preset(ev Event) (Pulse, bool) {
	p, ok := presets[ev]
	return p, ok
}

// hdWaveforms are the richer patterns for HD-capable actuators.
var hdWaveforms = map[Event]Waveform{
	EventHover: {
		{Intensity: 0.15, Duration: 8 * time.Millisecond},
	},
	EventGrab: envelope(0.5, 40*time.Millisecond, 4, ease.OutQuad),
	EventDrag: {
		{Intensity: 0.1, Duration: 10 * time.Millisecond},
	},
	EventRelease: envelope(0.3, 30*time.Millisecond, 3, ease.InQuad),
	EventSnap: {
		{Intensity: 0.6, Duration: 10 * time.Millisecond},
		{Intensity: 0, Duration: 20 * time.Millisecond},
		{Intensity: 0.4, Duration: 8 * time.Millisecond},
	},
	EventTwoHandStart: envelope(0.7, 60*time.Millisecond, 5, ease.OutCubic),
}

// envelope builds a waveform whose intensity follows an easing curve
// from full down to zero over the given duration, split into steps.
func envelope(peak float64, total time.Duration, steps int, fn ease.TweenFunc) Waveform {
	if steps < 1 {
		steps = 1
	}
	tw := gween.New(float32(peak), 0, float32(total.Seconds()), fn)
	stepDur := total / time.Duration(steps)
	wf := make(Waveform, 0, steps)
	// Each step carries the intensity at its start, so the first step
	// plays the peak and the fade never reaches a silent tail.
	intensity := peak
	for i := 0; i < steps; i++ {
		wf = append(wf, Step{Intensity: intensity, Duration: stepDur})
		v, _ := tw.Update(float32(stepDur.Seconds()))
		intensity = float64(v)
	}
	return wf
}

// HDWaveform returns the HD pattern for an event, falling back to a
// single-step waveform built from the preset when no pattern exists.
func HDWaveform(ev Event) (Waveform, bool) {
	if wf, ok := hdWaveforms[ev]; ok {
		return wf, true
	}
	if p, ok := presets[ev]; ok {
		return Waveform{{Intensity: p.Intensity, Duration: p.Duration}}, true
	}
	return nil, false
}
