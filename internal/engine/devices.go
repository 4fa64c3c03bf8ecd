package engine

import (
	"context"

	"github.com/padsync/padsync/internal/gamepad"
)

// Reorder moves the device movedID to the position currently held by
// targetID, shifting intermediate devices (remove and reinsert, not a
// swap). If either id is absent the device list is left unchanged and no
// call is made.
//
// The reorder is optimistic: the local list is updated first, then the
// derived assignment list is transmitted. A transmission failure is
// surfaced through the error slot but does not roll back the local
// order; the local view may diverge from the backend until the next
// refresh or push event.
func (e *Engine) Reorder(ctx context.Context, movedID, targetID string) error {
	e.mu.Lock()

	movedIdx, targetIdx := -1, -1
	for i := range e.devices {
		switch e.devices[i].ID {
		case movedID:
			movedIdx = i
		case targetID:
			targetIdx = i
		}
	}
	if movedIdx < 0 || targetIdx < 0 {
		e.mu.Unlock()
		return nil
	}

	// Insert at the target's pre-removal index so the moved device lands
	// on the target's former position.
	moved := e.devices[movedIdx]
	e.devices = append(e.devices[:movedIdx], e.devices[movedIdx+1:]...)
	e.devices = append(e.devices[:targetIdx], append([]gamepad.PhysicalDevice{moved}, e.devices[targetIdx:]...)...)

	assignments := gamepad.AssignmentsOf(e.devices)
	e.mu.Unlock()
	e.notify()

	if err := e.backend.ApplyAssignments(ctx, assignments); err != nil {
		e.setError("reorder", err)
		return err
	}
	return nil
}

// ToggleVisibility hides or shows a device. The operation is pessimistic,
// the opposite policy from Reorder: the remote toggle touches driver-level
// hiding, so the local flag flips only after the backend confirms. On
// failure local state is untouched and the error is surfaced.
func (e *Engine) ToggleVisibility(ctx context.Context, deviceID string, hidden bool) error {
	if err := e.backend.ToggleDevice(ctx, deviceID, hidden); err != nil {
		e.setError("toggle visibility", err)
		return err
	}

	e.mu.Lock()
	for i := range e.devices {
		if e.devices[i].ID == deviceID {
			e.devices[i].Hidden = hidden
			break
		}
	}
	e.mu.Unlock()
	e.notify()
	return nil
}
