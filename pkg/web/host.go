package web

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gofiber/websocket/v2"

	"github.com/spatialkit/go-manipulate/internal/log"
	"github.com/spatialkit/go-manipulate/pkg/events"
	"github.com/spatialkit/go-manipulate/pkg/haptics"
	"github.com/spatialkit/go-manipulate/pkg/layout"
	"github.com/spatialkit/go-manipulate/pkg/manipulate"
	"github.com/spatialkit/go-manipulate/pkg/pose"
	"github.com/spatialkit/go-manipulate/pkg/protocol"
)

// hostBridge is the per-connection state for one host. All session
// work happens on the connection's read loop, so Ticks and pointer
// events stay frame-synchronous without extra locking. Dashboard
// handlers never touch the session directly; they read the immutable
// snapshot published after each tick.
type hostBridge struct {
	server *Server
	conn   *websocket.Conn

	// writeMu guards conn writes: emissions, haptic pulses, and pongs
	// can originate from timer goroutines via the sequencer.
	writeMu sync.Mutex

	session *manipulate.Session
	seq     *haptics.Sequencer
	bus     *events.Bus
	prefs   haptics.Preferences

	// snapMu guards snap, the only session-derived data other
	// goroutines may read.
	snapMu sync.RWMutex
	snap   *sessionSnapshot
}

// sessionSnapshot is a point-in-time copy of a session's externally
// visible state. Built fresh on the read loop and never mutated after
// publication.
type sessionSnapshot struct {
	ID      string
	State   manipulate.State
	Object  manipulate.Object
	Anchors map[layout.HandleKind]mgl64.Vec3
}

// publishSnapshot captures the session for dashboard reads. Read-loop
// only.
func (b *hostBridge) publishSnapshot() {
	var snap *sessionSnapshot
	if b.session != nil {
		snap = &sessionSnapshot{
			ID:      b.session.ID(),
			State:   b.session.State(),
			Object:  b.session.Object(),
			Anchors: b.session.Anchors(),
		}
	}
	b.snapMu.Lock()
	b.snap = snap
	b.snapMu.Unlock()
}

// snapshot returns the last published snapshot, nil without a session.
func (b *hostBridge) snapshot() *sessionSnapshot {
	b.snapMu.RLock()
	defer b.snapMu.RUnlock()
	return b.snap
}

// handleHostWS runs one host connection until it closes.
func (s *Server) handleHostWS(conn *websocket.Conn) {
	logger := log.Component("host")
	b := &hostBridge{
		server: s,
		conn:   conn,
		prefs:  haptics.DefaultPreferences(),
	}

	s.mu.Lock()
	s.hosts++
	s.mu.Unlock()
	logger.Info("host connected")

	defer func() {
		b.closeSession()
		s.mu.Lock()
		s.hosts--
		s.mu.Unlock()
		logger.Info("host disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			logger.Warn("bad message, dropping", "err", err)
			continue
		}
		b.handle(msg)
	}
}

func (b *hostBridge) handle(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeInput:
		b.handleInput(msg)
	case protocol.TypeSelect:
		b.handleSelect(msg)
	case protocol.TypeDeselect:
		b.closeSession()
	case protocol.TypePrefs:
		b.handlePrefs(msg)
	case protocol.TypePing:
		if reply, err := protocol.NewMessage(protocol.TypePong, nil); err == nil {
			b.send(reply)
		}
	default:
		log.Debug("unknown message type, dropping", "type", string(msg.Type))
	}
}

func (b *hostBridge) handleSelect(msg *protocol.Message) {
	var sel protocol.SelectData
	if err := msg.ParseData(&sel); err != nil {
		log.Warn("bad select payload, dropping", "err", err)
		return
	}

	// A new selection replaces any current session.
	b.closeSession()

	cfg := manipulate.Config{
		EnableHaptics:      sel.EnableHaptics,
		EnableTwoHanded:    sel.EnableTwoHanded,
		SnapToGrid:         sel.SnapToGrid,
		GridSize:           sel.GridSize,
		SnapAngles:         sel.SnapAngles,
		SnapAngleIncrement: sel.SnapAngleIncrement,
		LockAspectRatio:    sel.LockAspectRatio,
		HandleOffset:       sel.HandleOffset,
	}
	obj := manipulate.Object{
		Width:    sel.Width,
		Height:   sel.Height,
		Depth:    sel.Depth,
		Rotation: sel.Rotation,
		Accent:   sel.Accent,
	}

	sess, err := manipulate.NewSession(obj, cfg)
	if err != nil {
		log.Warn("select rejected", "err", err)
		return
	}

	b.seq = haptics.NewSequencer(b.prefs)
	b.attachActuator(pose.Left, sel.LeftHaptics)
	b.attachActuator(pose.Right, sel.RightHaptics)
	sess.SetHaptics(b.seq)

	b.bus = events.New()
	b.bus.Subscribe(events.TopicManipulation, b.onManipulationEvent)
	sess.SetBus(b.bus)

	b.session = sess
	b.server.registerSession(b, sess.ID())
	log.Info("session started", "session_id", sess.ID(),
		"width", obj.Width, "height", obj.Height)

	b.publishSnapshot()
	b.sendState(0)
}

// attachActuator wires one hand's capability descriptor to an actuator
// that forwards pulses back to the host for playback.
func (b *hostBridge) attachActuator(h pose.Hand, caps *protocol.HapticCapsData) {
	if caps == nil || !caps.Supported {
		return
	}
	b.seq.Attach(h, &wsActuator{
		bridge: b,
		hand:   h,
		caps: haptics.Capabilities{
			Supported:    true,
			HDHaptics:    caps.HDHaptics,
			MaxIntensity: caps.MaxIntensity,
			MaxDuration:  time.Duration(caps.MaxDurationMs) * time.Millisecond,
		},
	})
}

func (b *hostBridge) handleInput(msg *protocol.Message) {
	if b.session == nil {
		return
	}
	var in protocol.InputData
	if err := msg.ParseData(&in); err != nil {
		log.Warn("bad input payload, dropping", "err", err)
		return
	}

	b.server.mu.Lock()
	b.server.frames++
	b.server.mu.Unlock()

	frame := in.Frame()
	b.session.Tick(&frame)

	for _, pe := range in.Pointers {
		b.applyPointer(pe)
	}

	b.publishSnapshot()
	b.sendState(in.Seq)
}

func (b *hostBridge) applyPointer(pe protocol.PointerEventData) {
	hand := protocol.ParseHand(pe.Hand)
	handle := layout.ParseHandle(pe.Handle)
	switch pe.Event {
	case "down":
		b.session.PointerDown(hand, handle, pe.Point.ToVec())
	case "move":
		b.session.PointerMove(pe.Point.ToVec())
	case "up":
		b.session.PointerUp()
	case "enter":
		b.session.PointerEnter(hand, handle)
	case "leave":
		b.session.PointerLeave(handle)
	case "double_tap":
		b.session.DoubleTap(handle)
	case "bounds_exit":
		b.session.BoundsExit()
	default:
		log.Debug("unknown pointer event, dropping", "event", pe.Event)
	}
}

func (b *hostBridge) handlePrefs(msg *protocol.Message) {
	var p protocol.PrefsData
	if err := msg.ParseData(&p); err != nil {
		log.Warn("bad prefs payload, dropping", "err", err)
		return
	}
	b.prefs = haptics.Preferences{
		Enabled:             p.Enabled,
		IntensityMultiplier: p.IntensityMultiplier,
		ReduceMotion:        p.ReduceMotion,
		SnapFeedback:        p.SnapFeedback,
		ContinuousFeedback:  p.ContinuousFeedback,
	}
	if b.seq != nil {
		b.seq.SetPreferences(b.prefs)
	}
}

// onManipulationEvent forwards emissions to the host and the dashboard.
func (b *hostBridge) onManipulationEvent(ev events.Event) {
	em, ok := ev.Data.(manipulate.Emission)
	if !ok || b.session == nil {
		return
	}
	msg, err := protocol.NewEmissionMessage(b.session.ID(), em)
	if err != nil {
		return
	}
	b.send(msg)
	if data, err := msg.Bytes(); err == nil {
		b.server.emissionHub.Broadcast(data)
	}
}

func (b *hostBridge) sendState(seq uint64) {
	if b.session == nil {
		return
	}
	msg, err := protocol.NewStateMessage(b.session.ID(), seq, b.session.State(), b.session.Object())
	if err != nil {
		return
	}
	if data, err := msg.Bytes(); err == nil {
		b.server.stateHub.Broadcast(data)
	}
}

func (b *hostBridge) closeSession() {
	if b.session == nil {
		return
	}
	id := b.session.ID()
	b.session.Close()
	b.server.unregisterSession(id)
	b.session = nil
	b.seq = nil
	b.bus = nil
	b.publishSnapshot()
	log.Info("session closed", "session_id", id)
}

func (b *hostBridge) send(msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		return
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	b.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := b.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Debug("host write failed", "err", err)
	}
}

// wsActuator plays pulses by asking the host to actuate its own
// hardware. Errors surface to the sequencer, which drops them.
type wsActuator struct {
	bridge *hostBridge
	hand   pose.Hand
	caps   haptics.Capabilities
}

func (a *wsActuator) Capabilities() haptics.Capabilities {
	return a.caps
}

func (a *wsActuator) Pulse(intensity float64, duration time.Duration) error {
	msg, err := protocol.NewHapticMessage(a.hand.String(), intensity, duration)
	if err != nil {
		return err
	}
	a.bridge.send(msg)
	return nil
}
