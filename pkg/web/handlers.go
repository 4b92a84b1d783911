package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/spatialkit/go-manipulate/pkg/hub"
)

// handleStatus returns the bridge's current state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Status())
}

// SessionInfo summarizes one active session for the dashboard.
type SessionInfo struct {
	ID      string `json:"id"`
	State   any    `json:"state"`
	Object  any    `json:"object"`
	Anchors any    `json:"anchors"`
}

// handleSessions lists active sessions from their published snapshots.
func (s *Server) handleSessions(c *fiber.Ctx) error {
	s.mu.RLock()
	bridges := make([]*hostBridge, 0, len(s.sessions))
	for _, b := range s.sessions {
		bridges = append(bridges, b)
	}
	s.mu.RUnlock()

	out := make([]SessionInfo, 0, len(bridges))
	for _, b := range bridges {
		snap := b.snapshot()
		if snap == nil {
			continue
		}
		out = append(out, SessionInfo{
			ID:     snap.ID,
			State:  snap.State,
			Object: snap.Object,
		})
	}
	return c.JSON(out)
}

// handleSession returns one session with its handle anchors.
func (s *Server) handleSession(c *fiber.Ctx) error {
	id := c.Params("id")
	s.mu.RLock()
	b, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "session not found"})
	}
	snap := b.snapshot()
	if snap == nil || snap.ID != id {
		return c.Status(404).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(SessionInfo{
		ID:      snap.ID,
		State:   snap.State,
		Object:  snap.Object,
		Anchors: snap.Anchors,
	})
}

// handleEventsWS streams emissions to a dashboard client.
func (s *Server) handleEventsWS(conn *websocket.Conn) {
	client := hub.NewClient(s.emissionHub, conn)
	client.Run()
}

// handleStateWS streams session state snapshots to a dashboard client.
func (s *Server) handleStateWS(conn *websocket.Conn) {
	client := hub.NewClient(s.stateHub, conn)
	client.Run()
}
