package engine

import (
	"context"

	"github.com/padsync/padsync/internal/gamepad"
	"github.com/padsync/padsync/internal/remote"
)

// Push-notification reconciliation. The three handlers are independent;
// there is no ordering relationship between notification kinds, and they
// mutate the same store as user-driven operations under the same
// last-writer-wins policy.

// handleDeviceChange replaces the device list wholesale with the payload.
// The pushed list is already in final display order, so it bypasses the
// merge algorithm.
func (e *Engine) handleDeviceChange(ev remote.DeviceChangeEvent) {
	e.mu.Lock()
	e.devices = gamepad.CloneDevices(ev.Devices)
	e.mu.Unlock()
	e.notify()
	e.getLogger().Debug("device list replaced from push", "devices", len(ev.Devices))
}

// handleForwardingStatus asserts the forwarding flag from the backend. A
// pushed state always wins over any locally assumed state. Accompanying
// error text is surfaced through the single error slot.
func (e *Engine) handleForwardingStatus(ev remote.ForwardingStatusEvent) {
	e.mu.Lock()
	e.forwarding = ev.Active
	if ev.Error != nil {
		e.lastErr = *ev.Error
	}
	e.mu.Unlock()
	e.notify()
}

// handleProfileActivated applies an activation that may have originated
// outside direct user action (an automatic game rule, a reset). For a
// non-nil profile id the pushed assignments are merged into the current
// device list and the result is re-transmitted as a confirmatory round
// trip.
//
// The confirmation is issued off the delivery goroutine: a request cannot
// await its response on the goroutine that reads responses.
func (e *Engine) handleProfileActivated(ev remote.ProfileActivatedEvent) {
	e.mu.Lock()
	if ev.ProfileID != nil {
		id := *ev.ProfileID
		e.activeProfileID = &id
	} else {
		e.activeProfileID = nil
	}
	e.routingMode = ev.RoutingMode
	var confirmed []gamepad.SlotAssignment
	if ev.ProfileID != nil {
		e.devices = gamepad.Merge(e.devices, ev.Assignments)
		confirmed = gamepad.AssignmentsOf(e.devices)
	}
	e.mu.Unlock()
	e.notify()

	if confirmed == nil {
		return
	}
	go func() {
		if err := e.backend.ApplyAssignments(context.Background(), confirmed); err != nil {
			e.setError("confirm assignments", err)
		}
	}()
}
