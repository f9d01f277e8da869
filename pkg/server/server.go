// Package server exposes the voice session endpoint over WebSocket plus
// health and metrics routes.
package server

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/voxline/voxline/pkg/inference"
	"github.com/voxline/voxline/pkg/protocol"
	"github.com/voxline/voxline/pkg/session"
	"github.com/voxline/voxline/pkg/stt"
	"github.com/voxline/voxline/pkg/tools"
	"github.com/voxline/voxline/pkg/tts"
)

// Deps are the external services every session is built from.
type Deps struct {
	STT      stt.Provider
	LLM      inference.Provider
	TTS      tts.Provider
	Registry *tools.Registry
	Logger   *slog.Logger
}

// Server accepts voice WebSocket connections and spawns one session
// actor per connection.
type Server struct {
	app    *fiber.App
	deps   Deps
	port   int
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session.Session

	// Stats
	sessionsTotal  atomic.Uint64
	framesReceived atomic.Uint64
	eventsSent     atomic.Uint64
}

// New creates a server. Deps must carry non-nil providers and registry.
func New(port int, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Server{
		deps:     deps,
		port:     port,
		logger:   deps.Logger.With("component", "server"),
		sessions: make(map[string]*session.Session),
	}

	app := fiber.New(fiber.Config{
		AppName:               "voxlined",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	s.app = app
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleSession))

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"service":  "voice-assistant-backend",
			"sessions": s.SessionCount(),
		})
	})

	s.app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"active_sessions": s.SessionCount(),
			"total_sessions":  s.sessionsTotal.Load(),
			"frames_received": s.framesReceived.Load(),
			"events_sent":     s.eventsSent.Load(),
		})
	})
}

// handleSession owns one WebSocket connection: a write pump drains the
// session's events while this goroutine runs the read loop. All session
// state lives inside the actor; the transport only forwards frames.
func (s *Server) handleSession(c *websocket.Conn) {
	id := uuid.New().String()
	logger := s.logger.With("session_id", id)

	history := session.NewHistory()
	chat := session.NewChat(s.deps.LLM, s.deps.Registry, history, s.deps.Logger)
	pipeline := session.NewPipeline(s.deps.STT, chat, s.deps.TTS, s.deps.Logger)
	sess := session.New(id, pipeline, history, s.deps.Logger)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	s.sessionsTotal.Add(1)
	logger.Info("websocket connection established")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range sess.Events() {
			data, err := event.Bytes()
			if err != nil {
				logger.Error("encode event", "error", err)
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Warn("write failed", "error", err)
				return
			}
			s.eventsSent.Add(1)
		}
	}()

	for {
		mt, data, err := c.ReadMessage()
		if err != nil {
			logger.Info("websocket disconnected", "error", err)
			break
		}

		switch mt {
		case websocket.BinaryMessage:
			s.framesReceived.Add(1)
			sess.HandleFrame(data)
		case websocket.TextMessage:
			ctrl, err := protocol.ParseControl(data)
			if err != nil {
				logger.Warn("rejected control message", "error", err)
				continue
			}
			sess.HandleControl(ctrl)
		}
	}

	sess.Close()
	<-done

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	logger.Info("session removed")
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Listen serves on the configured port, blocking until shutdown.
func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Serve accepts connections from an existing listener. Used by tests to
// bind an ephemeral port.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown drains connections and stops the server.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.Close()
	}
	s.mu.Unlock()
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
