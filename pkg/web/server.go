// Package web provides the manipulation bridge server: a websocket
// endpoint that hosts stream per-frame input into, and a dashboard
// feed broadcasting emissions and session state.
package web

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/spatialkit/go-manipulate/internal/log"
	"github.com/spatialkit/go-manipulate/pkg/hub"
)

// Status is the bridge's current state for the dashboard.
type Status struct {
	Hosts          int      `json:"hosts"`
	Sessions       []string `json:"sessions"`
	EventClients   int      `json:"event_clients"`
	StateClients   int      `json:"state_clients"`
	FramesReceived uint64   `json:"frames_received"`
}

// Server is the bridge server.
type Server struct {
	app  *fiber.App
	port string

	// Hubs for websocket broadcast to dashboard clients.
	emissionHub *hub.Hub
	stateHub    *hub.Hub

	mu       sync.RWMutex
	hosts    int
	sessions map[string]*hostBridge
	frames   uint64
}

// NewServer creates a new bridge server listening on port.
func NewServer(port string) *Server {
	s := &Server{
		port:        port,
		emissionHub: hub.New("emissions"),
		stateHub:    hub.New("state"),
		sessions:    make(map[string]*hostBridge),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Manipulation Bridge",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/sessions", s.handleSessions)
	api.Get("/sessions/:id", s.handleSession)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/host", websocket.New(s.handleHostWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	app.Get("/ws/state", websocket.New(s.handleStateWS))

	s.app = app
	return s
}

// Start starts the bridge server. Blocks.
func (s *Server) Start() error {
	log.Info("bridge listening", "port", s.port)

	go s.emissionHub.Run()
	go s.stateHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the bridge server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("bridge server error", "err", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Status returns a snapshot for the dashboard.
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return Status{
		Hosts:          s.hosts,
		Sessions:       ids,
		EventClients:   s.emissionHub.ClientCount(),
		StateClients:   s.stateHub.ClientCount(),
		FramesReceived: s.frames,
	}
}

func (s *Server) registerSession(b *hostBridge, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = b
}

func (s *Server) unregisterSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
