package haptics

import (
	"sync"
	"time"

	"github.com/spatialkit/go-manipulate/internal/log"
	"github.com/spatialkit/go-manipulate/pkg/pose"
)

// Limits applied regardless of preferences.
const (
	// fallbackMaxDuration caps single-pulse fallback on non-HD devices.
	fallbackMaxDuration = 1000 * time.Millisecond

	// reducedMotionMaxDuration caps every pulse in reduced-motion mode.
	reducedMotionMaxDuration = 30 * time.Millisecond

	// twoHandMaxIntensity caps the magnitude-scaled continuous pulses
	// fired during two-handed scale/rotate.
	twoHandMaxIntensity = 0.3
)

// Sequencer routes semantic events to per-hand actuators, applying user
// preferences and device capabilities. Triggers on the same hand are
// serialized through that hand's pulse queue, so overlapping events
// play back to back instead of overwriting each other.
type Sequencer struct {
	mu      sync.Mutex
	players [2]*player
	prefs   Preferences
}

// NewSequencer creates a sequencer with the given preferences.
func NewSequencer(prefs Preferences) *Sequencer {
	return &Sequencer{prefs: prefs}
}

// SetPreferences replaces the active preferences.
func (s *Sequencer) SetPreferences(prefs Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs
}

// Attach binds an actuator to a hand, replacing any previous one and
// re-reading its capabilities. Pending pulses on the old actuator are
// cancelled.
func (s *Sequencer) Attach(h pose.Hand, act Actuator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old := s.players[h]; old != nil {
		old.stop()
	}
	if act == nil {
		s.players[h] = nil
		return
	}
	s.players[h] = newPlayer(act)
}

// Detach removes the actuator for a hand, cancelling pending pulses.
func (s *Sequencer) Detach(h pose.Hand) {
	s.Attach(h, nil)
}

// Capabilities returns the attached actuator's capability snapshot for
// a hand. The zero value means no actuator is attached.
func (s *Sequencer) Capabilities(h pose.Hand) Capabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.players[h]; p != nil {
		return p.caps
	}
	return Capabilities{}
}

// Trigger fires the preset feedback for an event on one hand. Filtered
// triggers and actuator failures are silent; manipulation never waits
// on haptics.
func (s *Sequencer) Trigger(h pose.Hand, ev Event) {
	s.trigger(h, ev, -1)
}

// TriggerScaled fires an event with an explicit intensity, used for the
// magnitude-proportional pulses of two-handed manipulation. Intensity
// is capped before any preference scaling.
func (s *Sequencer) TriggerScaled(h pose.Hand, ev Event, intensity float64) {
	if intensity > twoHandMaxIntensity {
		intensity = twoHandMaxIntensity
	}
	if intensity <= 0 {
		return
	}
	s.trigger(h, ev, intensity)
}

// Stop cancels all pending pulses for a hand.
func (s *Sequencer) Stop(h pose.Hand) {
	s.mu.Lock()
	p := s.players[h]
	s.mu.Unlock()
	if p != nil {
		p.stop()
	}
}

// StopAll cancels pending pulses on both hands.
func (s *Sequencer) StopAll() {
	s.Stop(pose.Left)
	s.Stop(pose.Right)
}

func (s *Sequencer) trigger(h pose.Hand, ev Event, intensityOverride float64) {
	s.mu.Lock()
	prefs := s.prefs
	p := s.players[h]
	s.mu.Unlock()

	if p == nil || !p.caps.Supported {
		return
	}
	if !prefs.Enabled {
		return
	}
	switch ev {
	case EventSnap:
		if !prefs.SnapFeedback {
			return
		}
	case EventDrag:
		if !prefs.ContinuousFeedback {
			return
		}
	}

	var wf Waveform
	if p.caps.HDHaptics {
		var ok bool
		wf, ok = HDWaveform(ev)
		if !ok {
			return
		}
	} else {
		pre, ok := Preset(ev)
		if !ok {
			return
		}
		d := pre.Duration
		if d > fallbackMaxDuration {
			d = fallbackMaxDuration
		}
		wf = Waveform{{Intensity: pre.Intensity, Duration: d}}
	}

	wf = shape(wf, prefs, p.caps, intensityOverride)
	if len(wf) == 0 {
		return
	}
	if ev == EventDrag {
		// Continuous drag feedback fires every frame; dropping it
		// while the queue is busy keeps the queue bounded.
		p.playIfIdle(wf)
		return
	}
	p.play(wf)
}

// shape applies the preference and capability filters to a waveform.
func shape(wf Waveform, prefs Preferences, caps Capabilities, intensityOverride float64) Waveform {
	mult := prefs.IntensityMultiplier
	if mult <= 0 {
		return nil
	}
	out := make(Waveform, 0, len(wf))
	for _, st := range wf {
		intensity := st.Intensity
		if intensityOverride >= 0 && intensity > 0 {
			intensity = intensityOverride
		}
		intensity *= mult
		if prefs.ReduceMotion {
			intensity /= 2
			if st.Duration > reducedMotionMaxDuration {
				st.Duration = reducedMotionMaxDuration
			}
		}
		if caps.MaxIntensity > 0 && intensity > caps.MaxIntensity {
			intensity = caps.MaxIntensity
		}
		if caps.MaxDuration > 0 && st.Duration > caps.MaxDuration {
			st.Duration = caps.MaxDuration
		}
		out = append(out, Step{Intensity: intensity, Duration: st.Duration})
	}
	return out
}

// player serializes waveform playback on a single actuator. Steps are
// appended to a queue and fired one at a time off a timer; stop is safe
// to call concurrently with a firing timer.
type player struct {
	mu      sync.Mutex
	act     Actuator
	caps    Capabilities
	queue   []Step
	timer   *time.Timer
	playing bool
	gen     uint64 // bumped by stop to invalidate in-flight timer fires
}

func newPlayer(act Actuator) *player {
	return &player{act: act, caps: act.Capabilities()}
}

// play enqueues a waveform. If the queue is idle the first step fires
// immediately; otherwise the steps play after whatever is pending.
func (p *player) play(wf Waveform) {
	p.mu.Lock()
	p.queue = append(p.queue, wf...)
	if p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = true
	gen := p.gen
	p.mu.Unlock()
	p.next(gen)
}

// playIfIdle enqueues a waveform only when nothing is playing.
func (p *player) playIfIdle(wf Waveform) {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return
	}
	p.queue = append(p.queue, wf...)
	p.playing = true
	gen := p.gen
	p.mu.Unlock()
	p.next(gen)
}

// next pops and fires the head of the queue, then schedules itself.
func (p *player) next(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || len(p.queue) == 0 {
		p.playing = false
		p.timer = nil
		p.mu.Unlock()
		return
	}
	st := p.queue[0]
	p.queue = p.queue[1:]
	act := p.act
	p.timer = time.AfterFunc(st.Duration, func() { p.next(gen) })
	p.mu.Unlock()

	if st.Intensity > 0 {
		if err := act.Pulse(st.Intensity, st.Duration); err != nil {
			// Disconnected or unsupported actuators are expected;
			// drop the pulse and keep the queue draining.
			log.Debug("haptic pulse failed", "err", err)
		}
	}
}

// stop cancels pending steps. A timer callback already in flight sees
// the bumped generation and exits without firing.
func (p *player) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.queue = nil
	p.playing = false
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
