package remote

import "errors"

// Errors returned by the WebSocket client.
var (
	// ErrClosed is returned for calls issued after Close, and fails any
	// calls still pending when the session ends.
	ErrClosed = errors.New("remote: connection closed")

	// ErrTimeout is returned when the backend does not answer a request
	// within the configured request timeout.
	ErrTimeout = errors.New("remote: request timed out")
)

// BackendError carries failure text the backend returned for one request.
type BackendError struct {
	Method  string
	Message string
}

func (e *BackendError) Error() string {
	return "remote: " + e.Method + ": " + e.Message
}
