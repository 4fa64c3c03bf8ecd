package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/padsync/padsync/internal/gamepad"
	"github.com/padsync/padsync/internal/infrastructure/config"
	"github.com/padsync/padsync/internal/infrastructure/logging"
	"github.com/padsync/padsync/internal/remote"
)

// sendBufferSize is the session's outbound message buffer size.
const sendBufferSize = 256

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Loopback development tool; no cross-origin surface to protect.
		return true
	},
}

// Server is the development backend simulator.
//
// It serves the request/response and push-event surfaces over a single
// WebSocket session, persisting profiles, game rules, and settings through
// the injected Repository while keeping the device table in memory.
type Server struct {
	cfg    config.SimulatorConfig
	wsCfg  config.WebSocketConfig
	logger *logging.Logger
	repo   Repository

	server *http.Server

	// mu guards the simulated hardware state.
	mu         sync.Mutex
	devices    []gamepad.PhysicalDevice
	applied    []gamepad.SlotAssignment
	forwarding bool
	watcher    bool

	// sessMu guards the single active session.
	sessMu  sync.Mutex
	session *session
}

// session is one connected WebSocket client.
type session struct {
	srv  *Server
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

// New creates a simulator with its device table seeded from configuration.
//
// The server is not started until Start() is called; Router() can be used
// directly to serve the endpoints on an external listener.
func New(cfg config.SimulatorConfig, wsCfg config.WebSocketConfig, repo Repository, logger *logging.Logger) (*Server, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	s := &Server{
		cfg:    cfg,
		wsCfg:  wsCfg,
		logger: logger,
		repo:   repo,
	}
	for i, d := range cfg.Devices {
		s.devices = append(s.devices, seedDevice(i, d))
	}
	return s, nil
}

// seedDevice builds one simulated device from its config entry.
// IDs and instance paths are deterministic so scripted scenarios can
// reference devices by position.
func seedDevice(index int, d config.SimulatorDeviceConfig) gamepad.PhysicalDevice {
	devType := gamepad.DeviceType(d.Type)
	switch devType {
	case gamepad.DeviceTypeXInput, gamepad.DeviceTypeDirectInput:
	default:
		devType = gamepad.DeviceTypeUnknown
	}
	return gamepad.PhysicalDevice{
		ID:           fmt.Sprintf("sim-%02d", index+1),
		Name:         d.Name,
		InstancePath: fmt.Sprintf(`SIM\VID_%04X&PID_%04X\%02d`, d.VendorID, d.ProductID, index+1),
		Type:         devType,
		Connected:    true,
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
	}
}

// Router builds the HTTP handler exposing /ws and /healthz.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/ws", s.handleWebSocket)

	return r
}

// Start begins listening for connections. Stop with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.Info("simulator listening", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("simulator server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server and disconnects the session.
func (s *Server) Close() error {
	s.sessMu.Lock()
	if s.session != nil {
		s.session.close()
		s.session = nil
	}
	s.sessMu.Unlock()

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("simulator shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down simulator: %w", err)
	}
	return nil
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort health response
	w.Write([]byte(`{"status":"ok"}`))
}

// handleWebSocket upgrades the HTTP connection to the session.
// One session at a time; a second connection is rejected before upgrade.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.sessMu.Lock()
	if s.session != nil {
		s.sessMu.Unlock()
		http.Error(w, ErrSessionActive.Error(), http.StatusConflict)
		return
	}
	s.sessMu.Unlock()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := &session{
		srv:  s,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	s.sessMu.Lock()
	// Re-check under lock; a race between two upgrades is resolved here.
	if s.session != nil {
		s.sessMu.Unlock()
		conn.Close() //nolint:errcheck // Rejecting duplicate session
		return
	}
	s.session = sess
	s.sessMu.Unlock()

	s.logger.Info("client connected", "remote", r.RemoteAddr)

	go sess.writePump(s.wsCfg)
	go sess.readPump(s.wsCfg)
}

// detach removes the session from the server if it is still the active one.
func (s *Server) detach(sess *session) {
	s.sessMu.Lock()
	if s.session == sess {
		s.session = nil
	}
	s.sessMu.Unlock()
	s.logger.Info("client disconnected")
}

// emit pushes an event frame to the active session, if any.
// Events carry no correlation ID; they are fire-and-forget.
func (s *Server) emit(eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal event payload", "event", eventType, "error", err)
		return
	}
	frame, err := json.Marshal(remote.Frame{
		Type:      remote.FrameEvent,
		EventType: eventType,
		Payload:   data,
	})
	if err != nil {
		s.logger.Error("failed to marshal event frame", "event", eventType, "error", err)
		return
	}

	s.sessMu.Lock()
	sess := s.session
	s.sessMu.Unlock()
	if sess == nil {
		return
	}
	sess.trySend(frame)
	s.logger.Debug("event emitted", "event", eventType)
}

// readPump reads frames from the connection and dispatches requests.
// Each request runs on its own goroutine so a suspended call (slot
// detection) never blocks the others.
func (c *session) readPump(cfg config.WebSocketConfig) {
	defer func() {
		c.srv.detach(c)
		c.close()
	}()

	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	pongWait := time.Duration(cfg.PongTimeout) * time.Second
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.srv.logger.Warn("websocket read error", "error", err)
			} else {
				c.srv.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		// Any client message resets the read deadline.
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))

		var frame remote.Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			c.sendError("", "invalid JSON frame")
			continue
		}
		if frame.Type != remote.FrameRequest {
			c.sendError(frame.ID, "unexpected frame type: "+frame.Type)
			continue
		}

		go c.srv.handleRequest(c, frame)
	}
}

// writePump writes outbound frames and keepalive pings.
func (c *session) writePump(cfg config.WebSocketConfig) {
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	pongWait := time.Duration(cfg.PongTimeout) * time.Second

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close tears the connection down exactly once.
func (c *session) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		c.conn.Close() //nolint:errcheck // Teardown
	})
}

// trySend attempts to queue data for the session.
// A full buffer drops the frame (slow client); a closed channel is absorbed.
func (c *session) trySend(data []byte) {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel panic
	}()

	select {
	case c.send <- data:
	default:
		// Session buffer full, skip
	}
}

// sendResponse sends a response frame for the given correlation ID.
func (c *session) sendResponse(id string, payload any) {
	frame := remote.Frame{
		Type: remote.FrameResponse,
		ID:   id,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			c.sendError(id, "failed to encode response")
			return
		}
		frame.Payload = data
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	c.trySend(data)
}

// sendError sends an error frame for the given correlation ID.
func (c *session) sendError(id, message string) {
	data, err := json.Marshal(remote.Frame{
		Type:  remote.FrameError,
		ID:    id,
		Error: message,
	})
	if err != nil {
		return
	}
	c.trySend(data)
}
