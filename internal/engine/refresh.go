package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/padsync/padsync/internal/gamepad"
)

// Refresh re-fetches the full backend snapshot: devices, driver status,
// forwarding state, profiles, settings, elevation, game rules, and watcher
// state, all concurrently.
//
// The working device order is then derived from the active profile: if the
// settings' active profile id resolves in the fetched profile list, the
// fetched devices are merged with that profile's assignments and the
// routing mode is taken from the profile. Otherwise the raw fetched list is
// used and routing mode defaults to Minimal.
//
// On any fetch failure the snapshot is discarded, the error is surfaced
// through the error slot, and local state is left as it was.
func (e *Engine) Refresh(ctx context.Context) error {
	var (
		devices    []gamepad.PhysicalDevice
		driver     gamepad.DriverStatus
		forwarding bool
		profiles   []gamepad.Profile
		settings   gamepad.Settings
		elevated   bool
		rules      []gamepad.GameRule
		watcher    bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		devices, err = e.backend.ListDevices(gctx)
		return err
	})
	g.Go(func() (err error) {
		driver, err = e.backend.DriverStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		forwarding, err = e.backend.IsForwarding(gctx)
		return err
	})
	g.Go(func() (err error) {
		profiles, err = e.backend.ListProfiles(gctx)
		return err
	})
	g.Go(func() (err error) {
		settings, err = e.backend.GetSettings(gctx)
		return err
	})
	g.Go(func() (err error) {
		elevated, err = e.backend.IsElevated(gctx)
		return err
	})
	g.Go(func() (err error) {
		rules, err = e.backend.ListGameRules(gctx)
		return err
	})
	g.Go(func() (err error) {
		watcher, err = e.backend.IsWatcherRunning(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		e.setError("refresh", err)
		return err
	}

	// Resolve the active profile; a dangling or absent id leaves the raw
	// fetched order in place.
	var active *gamepad.Profile
	if settings.ActiveProfileID != nil {
		for i := range profiles {
			if profiles[i].ID == *settings.ActiveProfileID {
				active = &profiles[i]
				break
			}
		}
	}

	e.mu.Lock()
	e.driverStatus = driver
	e.forwarding = forwarding
	e.profiles = profiles
	e.settings = settings
	e.elevated = elevated
	e.rules = rules
	e.watcherRunning = watcher
	if active != nil {
		e.devices = gamepad.Merge(devices, active.Assignments)
		e.routingMode = active.RoutingMode
		id := active.ID
		e.activeProfileID = &id
	} else {
		e.devices = devices
		e.routingMode = gamepad.RoutingMinimal
		e.activeProfileID = nil
	}
	e.mu.Unlock()

	e.getLogger().Debug("snapshot refreshed",
		"devices", len(devices),
		"profiles", len(profiles),
		"rules", len(rules),
	)
	e.notify()
	return nil
}
