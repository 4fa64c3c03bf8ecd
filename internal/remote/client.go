package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/padsync/padsync/internal/infrastructure/config"
)

// sendBufferSize is the outbound frame buffer size.
const sendBufferSize = 64

// Logger is the minimal logging interface used by the client.
// Compatible with logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Client implements Backend and Events over a single WebSocket session.
//
// Requests are correlated with responses by client-assigned UUIDs.
// Push events are dispatched to registered handlers on the read-pump
// goroutine, in arrival order, so event application is sequential with
// respect to other events.
//
// All methods are safe for concurrent use. Concurrent requests share the
// session; their responses resolve in whichever order the backend answers.
type Client struct {
	conn *websocket.Conn
	cfg  config.WebSocketConfig

	send chan []byte

	pendingMu sync.Mutex
	pending   map[string]chan Frame

	subMu          sync.Mutex
	nextSubID      int
	deviceSubs     map[int]func(DeviceChangeEvent)
	forwardingSubs map[int]func(ForwardingStatusEvent)
	profileSubs    map[int]func(ProfileActivatedEvent)

	closed    chan struct{}
	closeOnce sync.Once

	loggerMu sync.RWMutex
	logger   Logger
}

// Compile-time interface checks.
var (
	_ Backend = (*Client)(nil)
	_ Events  = (*Client)(nil)
)

// Dial connects to the companion service and starts the session pumps.
//
// If the server config carries a token it is sent as a bearer Authorization
// header on the upgrade request.
func Dial(ctx context.Context, server config.ServerConfig, ws config.WebSocketConfig) (*Client, error) {
	var header http.Header
	if server.Token != "" {
		header = http.Header{}
		header.Set("Authorization", "Bearer "+server.Token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, server.URL, header)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", server.URL, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c := &Client{
		conn:           conn,
		cfg:            ws,
		send:           make(chan []byte, sendBufferSize),
		pending:        make(map[string]chan Frame),
		deviceSubs:     make(map[int]func(DeviceChangeEvent)),
		forwardingSubs: make(map[int]func(ForwardingStatusEvent)),
		profileSubs:    make(map[int]func(ProfileActivatedEvent)),
		closed:         make(chan struct{}),
		logger:         noopLogger{},
	}

	go c.readPump()
	go c.writePump()

	return c, nil
}

// SetLogger sets the logger for the client. Safe to call while the pumps
// are already running.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

// getLogger returns the current logger.
func (c *Client) getLogger() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	return c.logger
}

// Close tears down the session. It is idempotent. All pending calls fail
// with ErrClosed; in-flight backend operations are not retracted.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.conn.Close()
		c.failPending(ErrClosed)
	})
	return nil
}

// call issues one request and decodes the response payload into out.
// A nil out discards the payload. payload may be nil for no-argument calls.
func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	frame := Frame{
		Type:   FrameRequest,
		ID:     uuid.NewString(),
		Method: method,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding %s payload: %w", method, err)
		}
		frame.Payload = data
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	respCh := make(chan Frame, 1)
	c.pendingMu.Lock()
	c.pending[frame.ID] = respCh
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, frame.ID)
		c.pendingMu.Unlock()
	}()

	select {
	case c.send <- data:
	case <-c.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	timer := time.NewTimer(c.cfg.GetRequestTimeout())
	defer timer.Stop()

	select {
	case resp := <-respCh:
		if resp.Type == frameClosed {
			return ErrClosed
		}
		if resp.Type == FrameError {
			return &BackendError{Method: method, Message: resp.Error}
		}
		if out != nil && len(resp.Payload) > 0 {
			if err := json.Unmarshal(resp.Payload, out); err != nil {
				return fmt.Errorf("decoding %s response: %w", method, err)
			}
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: %s", ErrTimeout, method)
	case <-c.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readPump reads frames from the session until it fails or is closed.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(int64(c.cfg.MaxMessageSize))
	deadline := c.cfg.GetPingInterval() + c.cfg.GetPongTimeout()
	//nolint:errcheck // Best-effort deadline on session setup
	c.conn.SetReadDeadline(time.Now().Add(deadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.getLogger().Warn("session read error", "error", err)
			} else {
				c.getLogger().Debug("session closed", "error", err)
			}
			return
		}
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(deadline))

		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			c.getLogger().Warn("discarding malformed frame", "error", err)
			continue
		}

		switch frame.Type {
		case FrameResponse, FrameError:
			c.deliverResponse(frame)
		case FrameEvent:
			c.dispatchEvent(frame)
		default:
			c.getLogger().Warn("discarding frame with unknown type", "type", frame.Type)
		}
	}
}

// writePump writes outbound frames and protocol pings until closed.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.GetPingInterval())
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	pongWait := c.cfg.GetPongTimeout()

	for {
		select {
		case message := <-c.send:
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.getLogger().Warn("session write failed", "error", err)
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			//nolint:errcheck // Best-effort close message
			c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}

// deliverResponse routes a response frame to its waiting call.
// Responses for unknown ids are dropped (the call timed out or was closed).
func (c *Client) deliverResponse(frame Frame) {
	c.pendingMu.Lock()
	respCh, ok := c.pending[frame.ID]
	c.pendingMu.Unlock()

	if !ok {
		c.getLogger().Debug("dropping response with no pending call", "id", frame.ID)
		return
	}
	respCh <- frame
}

// frameClosed is an internal frame type used to resolve pending calls when
// the session ends. Never sent on the wire.
const frameClosed = "_closed"

// failPending resolves every pending call as closed.
func (c *Client) failPending(err error) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for id, respCh := range c.pending {
		respCh <- Frame{Type: frameClosed, ID: id, Error: err.Error()}
		delete(c.pending, id)
	}
}
