package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrIdentifyBusy is returned when identification is requested while
	// another device's identification is still in progress. The second
	// request is refused, not queued.
	ErrIdentifyBusy = errors.New("engine: identification already in progress")
)
