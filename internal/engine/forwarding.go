package engine

import (
	"context"

	"github.com/padsync/padsync/internal/gamepad"
)

// StartForwarding transmits the assignment snapshot derived from the
// current device order and, only if that succeeds, issues the start call.
// Success sets the forwarding flag; a forwarding-status push can assert
// either state afterwards and always wins.
func (e *Engine) StartForwarding(ctx context.Context) error {
	e.mu.Lock()
	assignments := gamepad.AssignmentsOf(e.devices)
	e.mu.Unlock()

	if err := e.backend.ApplyAssignments(ctx, assignments); err != nil {
		e.setError("start forwarding", err)
		return err
	}
	if err := e.backend.StartForwarding(ctx); err != nil {
		e.setError("start forwarding", err)
		return err
	}

	e.mu.Lock()
	e.forwarding = true
	e.mu.Unlock()
	e.notify()

	e.getLogger().Info("forwarding started")
	return nil
}

// StopForwarding issues the unconditional stop call; success clears the
// forwarding flag.
func (e *Engine) StopForwarding(ctx context.Context) error {
	if err := e.backend.StopForwarding(ctx); err != nil {
		e.setError("stop forwarding", err)
		return err
	}

	e.mu.Lock()
	e.forwarding = false
	e.mu.Unlock()
	e.notify()

	e.getLogger().Info("forwarding stopped")
	return nil
}

// StartWatcher starts the backend's process watcher.
func (e *Engine) StartWatcher(ctx context.Context) error {
	if err := e.backend.StartWatcher(ctx); err != nil {
		e.setError("start watcher", err)
		return err
	}

	e.mu.Lock()
	e.watcherRunning = true
	e.mu.Unlock()
	e.notify()
	return nil
}

// StopWatcher stops the backend's process watcher.
func (e *Engine) StopWatcher(ctx context.Context) error {
	if err := e.backend.StopWatcher(ctx); err != nil {
		e.setError("stop watcher", err)
		return err
	}

	e.mu.Lock()
	e.watcherRunning = false
	e.mu.Unlock()
	e.notify()
	return nil
}

// ResetAll requests the backend's full reset (stop forwarding and watcher,
// re-enable and unhide everything, clear the active profile), then aligns
// local flags and re-fetches the device list. The backend also pushes
// forwarding-status and profile-activated events for the same reset; the
// handlers apply them idempotently.
func (e *Engine) ResetAll(ctx context.Context) error {
	if err := e.backend.ResetAll(ctx); err != nil {
		e.setError("reset", err)
		return err
	}

	e.mu.Lock()
	e.forwarding = false
	e.watcherRunning = false
	e.activeProfileID = nil
	e.mu.Unlock()
	e.notify()

	devices, err := e.backend.ListDevices(ctx)
	if err != nil {
		e.setError("reset", err)
		return err
	}

	e.mu.Lock()
	e.devices = devices
	e.mu.Unlock()
	e.notify()

	e.getLogger().Info("full reset complete")
	return nil
}
