// Command simulate streams a synthetic manipulation scenario into a
// running bridge: it selects an object, pinch-drags the SE corner,
// then performs a two-handed stretch, printing every emission the
// bridge sends back.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spatialkit/go-manipulate/internal/config"
	"github.com/spatialkit/go-manipulate/pkg/layout"
	"github.com/spatialkit/go-manipulate/pkg/protocol"
)

func main() {
	host := flag.String("host", "localhost", "Bridge host")
	rate := flag.Int("rate", config.FrameRate(72), "Frame rate in Hz")
	flag.Parse()

	url := config.BridgeURL(*host)
	fmt.Printf("🔌 Connecting to %s\n", url)

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect failed: %v\n", err)
		os.Exit(1)
	}
	defer ws.Close()

	// Print everything the bridge sends back.
	go func() {
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			msg, err := protocol.ParseMessage(data)
			if err != nil {
				continue
			}
			switch msg.Type {
			case protocol.TypeEmission:
				fmt.Printf("📤 %s\n", string(msg.Data))
			case protocol.TypeHaptic:
				fmt.Printf("📳 %s\n", string(msg.Data))
			}
		}
	}()

	send := func(msg *protocol.Message, err error) {
		if err != nil {
			return
		}
		data, err := msg.Bytes()
		if err != nil {
			return
		}
		if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
			fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
			os.Exit(1)
		}
	}

	// Select a 30x20 cm panel with haptics and two-handed enabled.
	send(protocol.NewMessage(protocol.TypeSelect, protocol.SelectData{
		Width:           0.30,
		Height:          0.20,
		EnableHaptics:   true,
		EnableTwoHanded: true,
		SnapToGrid:      true,
		GridSize:        0.05,
		LeftHaptics:     &protocol.HapticCapsData{Supported: true, MaxIntensity: 1},
		RightHaptics:    &protocol.HapticCapsData{Supported: true, HDHaptics: true, MaxIntensity: 1},
	}))

	tick := time.Second / time.Duration(*rate)
	var seq uint64

	frame := func(left, right protocol.HandData, pointers ...protocol.PointerEventData) {
		seq++
		send(protocol.NewInputMessage(seq, left, right, pointers))
		time.Sleep(tick)
	}

	fmt.Println("▶ Corner drag")
	right := trackedHand(protocol.Vec3{0.15, -0.10, 0}, 0.01) // pinched at SE corner
	idle := protocol.HandData{}
	frame(idle, right, protocol.PointerEventData{
		Event: "down", Hand: "right",
		Handle: layout.CornerSE.String(),
		Point:  protocol.Vec3{0.15, -0.10, 0},
	})
	for i := 1; i <= 30; i++ {
		t := float64(i) / 30
		p := protocol.Vec3{0.15 + 0.05*t, -0.10 + 0.03*t, 0}
		right = trackedHand(p, 0.01)
		frame(idle, right, protocol.PointerEventData{Event: "move", Hand: "right", Point: p})
	}
	frame(idle, right, protocol.PointerEventData{Event: "up", Hand: "right"})

	fmt.Println("▶ Two-handed stretch")
	for i := 0; i <= 90; i++ {
		// Hands start 0.30 m apart and spread to 0.55 m.
		spread := 0.15 + 0.125*math.Min(1, float64(i)/60)
		left := grabbingHand(protocol.Vec3{-spread, 0, 0})
		right := grabbingHand(protocol.Vec3{spread, 0, 0})
		frame(left, right)
	}
	// Release both hands.
	frame(protocol.HandData{}, protocol.HandData{})

	send(protocol.NewMessage(protocol.TypeDeselect, nil))
	time.Sleep(200 * time.Millisecond)
	fmt.Println("✅ Scenario complete")
}

// trackedHand builds a hand pinching at p with the given thumb-index
// gap.
func trackedHand(p protocol.Vec3, pinchGap float64) protocol.HandData {
	h := openHand(p)
	h.Tips[0] = protocol.Vec3{p[0] - pinchGap/2, p[1], p[2]}
	h.Tips[1] = protocol.Vec3{p[0] + pinchGap/2, p[1], p[2]}
	return h
}

// grabbingHand builds a hand making a fist at p.
func grabbingHand(p protocol.Vec3) protocol.HandData {
	h := openHand(p)
	for i := 1; i < 5; i++ {
		// Tips pulled back next to the wrist: high curl.
		h.Tips[i] = protocol.Vec3{p[0], p[1] - 0.075, p[2]}
	}
	return h
}

// openHand builds a neutral tracked hand centered at p.
func openHand(p protocol.Vec3) protocol.HandData {
	h := protocol.HandData{
		Tracked:      true,
		HasJoints:    true,
		Wrist:        protocol.Vec3{p[0], p[1] - 0.08, p[2]},
		Palm:         p,
		PalmRotation: protocol.Quat{1, 0, 0, 0},
	}
	for i := 0; i < 5; i++ {
		h.Metacarpals[i] = protocol.Vec3{p[0], p[1] - 0.04, p[2]}
		h.Tips[i] = protocol.Vec3{p[0] + float64(i-2)*0.02, p[1] + 0.06, p[2]}
	}
	return h
}
