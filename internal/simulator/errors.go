package simulator

import "errors"

// Sentinel errors for simulator operations.
var (
	// ErrProfileNotFound indicates the referenced profile does not exist.
	ErrProfileNotFound = errors.New("simulator: profile not found")

	// ErrRuleNotFound indicates the referenced game rule does not exist.
	ErrRuleNotFound = errors.New("simulator: game rule not found")

	// ErrDeviceNotFound indicates the referenced device is not in the
	// simulated device table.
	ErrDeviceNotFound = errors.New("simulator: device not found")

	// ErrSessionActive indicates a second WebSocket session was attempted
	// while one is already connected.
	ErrSessionActive = errors.New("simulator: session already active")
)
