package engine

import "context"

// Identify runs the slot-detection workflow for one device: a suspending
// detect call polls the physical slots for a button press; on a resolved
// slot index a confirmation call persists the mapping and the local
// device's XInput slot is updated.
//
// The workflow is single-flight: while one identification is in progress,
// further Identify calls are refused with ErrIdentifyBusy, not queued. The
// machine always returns to idle: on "no detection" (nil, nil) or on any
// failure the device's slot is left unchanged.
func (e *Engine) Identify(ctx context.Context, deviceID string) (*int, error) {
	e.mu.Lock()
	if e.identifying != nil {
		e.mu.Unlock()
		return nil, ErrIdentifyBusy
	}
	id := deviceID
	e.identifying = &id
	e.mu.Unlock()
	e.notify()

	defer func() {
		e.mu.Lock()
		e.identifying = nil
		e.mu.Unlock()
		e.notify()
	}()

	slot, err := e.backend.DetectSlot(ctx)
	if err != nil {
		e.setError("identify", err)
		return nil, err
	}
	if slot == nil {
		e.getLogger().Debug("identification timed out without input", "device", deviceID)
		return nil, nil
	}

	if err := e.backend.ConfirmSlot(ctx, deviceID, *slot); err != nil {
		e.setError("confirm slot", err)
		return nil, err
	}

	e.mu.Lock()
	for i := range e.devices {
		if e.devices[i].ID == deviceID {
			s := *slot
			e.devices[i].XInputSlot = &s
			break
		}
	}
	e.mu.Unlock()
	e.notify()

	e.getLogger().Info("device identified", "device", deviceID, "slot", *slot)
	return slot, nil
}
