package gamepad

import "errors"

// Domain errors for the gamepad package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, gamepad.ErrInvalidRoutingMode) {
//	    // handle unknown mode case
//	}
var (
	// ErrInvalidRoutingMode is returned when a routing mode value on the
	// wire is not recognised.
	ErrInvalidRoutingMode = errors.New("gamepad: invalid routing mode")
)
