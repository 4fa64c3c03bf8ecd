package engine

import (
	"context"

	"github.com/padsync/padsync/internal/gamepad"
)

// SaveProfile snapshots the current device order as an assignment list and
// creates a profile from it on the backend, which assigns the id. The new
// profile is appended to the local cache and marked active, then a second
// call persists the active profile id into the backend's settings.
//
// The two calls are not transactional. If the second fails, the profile
// exists remotely and is active locally but the persisted setting is
// stale; the failure is surfaced and not silently compensated.
func (e *Engine) SaveProfile(ctx context.Context, name string, mode gamepad.RoutingMode) (gamepad.Profile, error) {
	e.mu.Lock()
	assignments := gamepad.AssignmentsOf(e.devices)
	e.mu.Unlock()

	profile, err := e.backend.SaveProfile(ctx, name, assignments, mode)
	if err != nil {
		e.setError("save profile", err)
		return gamepad.Profile{}, err
	}

	e.mu.Lock()
	e.profiles = append(e.profiles, profile.Clone())
	id := profile.ID
	e.activeProfileID = &id
	e.routingMode = mode
	settings := e.settings
	settings.ActiveProfileID = &id
	e.mu.Unlock()
	e.notify()

	e.getLogger().Info("profile saved", "id", profile.ID, "name", name, "mode", mode)

	stored, err := e.backend.UpdateSettings(ctx, settings)
	if err != nil {
		e.setError("persist active profile", err)
		return profile, err
	}

	e.mu.Lock()
	e.settings = stored
	e.mu.Unlock()
	e.notify()
	return profile, nil
}

// ActivateProfile requests remote activation of a profile. The backend
// returns the assignment list it considers authoritative, which may differ
// from the profile's stored list if devices are unavailable; that list is
// merged into the current device order and the resulting assignments are
// re-confirmed to the backend.
//
// The active id and routing mode are set from the local profile cache: the
// cached copy's routing mode is trusted over anything server-side.
func (e *Engine) ActivateProfile(ctx context.Context, profileID string) error {
	assignments, err := e.backend.ActivateProfile(ctx, profileID)
	if err != nil {
		e.setError("activate profile", err)
		return err
	}

	e.mu.Lock()
	e.devices = gamepad.Merge(e.devices, assignments)
	id := profileID
	e.activeProfileID = &id
	e.routingMode = gamepad.RoutingMinimal
	for i := range e.profiles {
		if e.profiles[i].ID == profileID {
			e.routingMode = e.profiles[i].RoutingMode
			break
		}
	}
	confirmed := gamepad.AssignmentsOf(e.devices)
	e.mu.Unlock()
	e.notify()

	e.getLogger().Info("profile activated", "id", profileID)

	if err := e.backend.ApplyAssignments(ctx, confirmed); err != nil {
		e.setError("confirm assignments", err)
		return err
	}
	return nil
}

// DeleteProfile deletes a profile remotely, then removes it from the local
// cache. If the deleted profile was active, only the local active pointer
// is cleared; the persisted active_profile_id setting on the backend is
// deliberately left untouched by this path.
func (e *Engine) DeleteProfile(ctx context.Context, profileID string) error {
	if err := e.backend.DeleteProfile(ctx, profileID); err != nil {
		e.setError("delete profile", err)
		return err
	}

	e.mu.Lock()
	kept := e.profiles[:0]
	for _, p := range e.profiles {
		if p.ID != profileID {
			kept = append(kept, p)
		}
	}
	e.profiles = kept
	if e.activeProfileID != nil && *e.activeProfileID == profileID {
		e.activeProfileID = nil
	}
	e.mu.Unlock()
	e.notify()

	e.getLogger().Info("profile deleted", "id", profileID)
	return nil
}
