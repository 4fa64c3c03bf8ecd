package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/padsync/padsync/internal/gamepad"
	"github.com/padsync/padsync/internal/remote"
)

// Simulated driver component versions reported by drivers.status.
const (
	hidHideVersion  = "1.5.3"
	viGEmBusVersion = "1.22.0"
)

// handleRequest executes one request frame and sends the response or error.
// Runs on its own goroutine per request.
func (s *Server) handleRequest(sess *session, frame remote.Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), s.wsCfg.GetRequestTimeout())
	defer cancel()

	payload, err := s.dispatch(ctx, frame.Method, frame.Payload)
	if err != nil {
		s.logger.Warn("request failed", "method", frame.Method, "error", err)
		sess.sendError(frame.ID, err.Error())
		return
	}
	sess.sendResponse(frame.ID, payload)
}

// dispatch routes a method name to its handler.
//
//nolint:gocyclo // Flat method table, one case per operation
func (s *Server) dispatch(ctx context.Context, method string, payload json.RawMessage) (any, error) {
	switch method {
	case remote.MethodListDevices:
		return s.listDevices(), nil
	case remote.MethodDriverStatus:
		return s.driverStatus(), nil
	case remote.MethodIsElevated:
		return remote.FlagResponse{Value: true}, nil
	case remote.MethodToggleDevice:
		var req remote.ToggleDeviceRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, s.toggleDevice(req.DeviceID, req.Hidden)
	case remote.MethodApplyAssignments:
		var req remote.ApplyAssignmentsRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, s.applyAssignments(req.Assignments)
	case remote.MethodStartForwarding:
		s.setForwarding(true)
		return nil, nil
	case remote.MethodStopForwarding:
		s.setForwarding(false)
		return nil, nil
	case remote.MethodIsForwarding:
		s.mu.Lock()
		active := s.forwarding
		s.mu.Unlock()
		return remote.FlagResponse{Value: active}, nil
	case remote.MethodListProfiles:
		profiles, err := s.repo.ListProfiles(ctx)
		if err != nil {
			return nil, err
		}
		return profiles, nil
	case remote.MethodSaveProfile:
		var req remote.SaveProfileRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return s.saveProfile(ctx, req)
	case remote.MethodDeleteProfile:
		var req remote.ProfileIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, s.repo.DeleteProfile(ctx, req.ProfileID)
	case remote.MethodActivateProfile:
		var req remote.ProfileIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return s.activateProfile(ctx, req.ProfileID)
	case remote.MethodDetectSlot:
		return s.detectSlot(ctx)
	case remote.MethodConfirmSlot:
		var req remote.ConfirmSlotRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, s.confirmSlot(req.DeviceID, req.XInputSlot)
	case remote.MethodListGameRules:
		rules, err := s.repo.ListGameRules(ctx)
		if err != nil {
			return nil, err
		}
		return rules, nil
	case remote.MethodAddGameRule:
		var req remote.AddGameRuleRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return s.addGameRule(ctx, req)
	case remote.MethodDeleteGameRule:
		var req remote.RuleIDRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, s.repo.DeleteGameRule(ctx, req.RuleID)
	case remote.MethodToggleGameRule:
		var req remote.ToggleGameRuleRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, s.repo.SetGameRuleEnabled(ctx, req.RuleID, req.Enabled)
	case remote.MethodStartWatcher:
		s.setWatcher(true)
		return nil, nil
	case remote.MethodStopWatcher:
		s.setWatcher(false)
		return nil, nil
	case remote.MethodIsWatcherRunning:
		s.mu.Lock()
		running := s.watcher
		s.mu.Unlock()
		return remote.FlagResponse{Value: running}, nil
	case remote.MethodGetSettings:
		settings, err := s.repo.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		return settings, nil
	case remote.MethodUpdateSettings:
		var settings gamepad.Settings
		if err := decode(payload, &settings); err != nil {
			return nil, err
		}
		if err := s.repo.UpdateSettings(ctx, settings); err != nil {
			return nil, err
		}
		return settings, nil
	case remote.MethodResetAll:
		return nil, s.resetAll(ctx)
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

// decode unmarshals a request payload, mapping malformed input to a
// client-visible error.
func decode(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("missing request payload")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}
	return nil
}

// listDevices snapshots the device table.
func (s *Server) listDevices() []gamepad.PhysicalDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gamepad.CloneDevices(s.devices)
}

// driverStatus reports both driver components installed.
func (s *Server) driverStatus() gamepad.DriverStatus {
	hh := hidHideVersion
	vb := viGEmBusVersion
	return gamepad.DriverStatus{
		HidHideInstalled:  true,
		ViGEmBusInstalled: true,
		HidHideVersion:    &hh,
		ViGEmBusVersion:   &vb,
	}
}

// toggleDevice sets a device's hidden flag.
func (s *Server) toggleDevice(deviceID string, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.devices {
		if s.devices[i].ID == deviceID {
			s.devices[i].Hidden = hidden
			return nil
		}
	}
	return ErrDeviceNotFound
}

// applyAssignments stores the assignment list and mirrors enabled flags
// onto the device table, the way the real driver boundary would.
func (s *Server) applyAssignments(assignments []gamepad.SlotAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = make([]gamepad.SlotAssignment, len(assignments))
	copy(s.applied, assignments)

	for _, a := range assignments {
		for i := range s.devices {
			if s.devices[i].ID == a.DeviceID {
				s.devices[i].Hidden = !a.Enabled
				break
			}
		}
	}
	return nil
}

// AppliedAssignments returns the most recently applied assignment list.
// Exposed for scripted scenarios and tests.
func (s *Server) AppliedAssignments() []gamepad.SlotAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]gamepad.SlotAssignment, len(s.applied))
	copy(out, s.applied)
	return out
}

// setForwarding flips the forwarding flag and pushes forwarding-status.
// The event is authoritative; clients adopt it over local assumptions.
func (s *Server) setForwarding(active bool) {
	s.mu.Lock()
	s.forwarding = active
	s.mu.Unlock()
	s.emit(remote.EventForwardingStatus, remote.ForwardingStatusEvent{Active: active})
}

// setWatcher flips the process-watcher flag.
func (s *Server) setWatcher(running bool) {
	s.mu.Lock()
	s.watcher = running
	s.mu.Unlock()
}

// saveProfile persists a new profile with a server-assigned id.
func (s *Server) saveProfile(ctx context.Context, req remote.SaveProfileRequest) (gamepad.Profile, error) {
	profile := gamepad.Profile{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Assignments: req.Assignments,
		RoutingMode: req.RoutingMode,
	}
	if profile.RoutingMode == "" {
		profile.RoutingMode = gamepad.RoutingMinimal
	}
	if err := s.repo.CreateProfile(ctx, &profile); err != nil {
		return gamepad.Profile{}, err
	}
	return profile, nil
}

// activateProfile marks a profile active, applies its stored assignments,
// and pushes profile-activated. The stored assignment list is returned as
// the authoritative answer.
func (s *Server) activateProfile(ctx context.Context, profileID string) (remote.AssignmentsResponse, error) {
	profile, err := s.repo.GetProfile(ctx, profileID)
	if err != nil {
		return remote.AssignmentsResponse{}, err
	}
	if err := s.repo.SetActiveProfileID(ctx, &profile.ID); err != nil {
		return remote.AssignmentsResponse{}, err
	}
	if err := s.applyAssignments(profile.Assignments); err != nil {
		return remote.AssignmentsResponse{}, err
	}

	s.emit(remote.EventProfileActivated, remote.ProfileActivatedEvent{
		ProfileID:   &profile.ID,
		Assignments: profile.Assignments,
		RoutingMode: profile.RoutingMode,
	})

	return remote.AssignmentsResponse{Assignments: profile.Assignments}, nil
}

// detectSlot simulates polling the XInput slots for a button press.
// It suspends for the configured delay, then answers with the scripted
// slot, or nil when the script says nothing was pressed.
func (s *Server) detectSlot(ctx context.Context) (remote.DetectSlotResponse, error) {
	delay := time.Duration(s.cfg.IdentifyDelay) * time.Millisecond
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return remote.DetectSlotResponse{}, ctx.Err()
		}
	}

	if s.cfg.IdentifySlot < 0 {
		return remote.DetectSlotResponse{Slot: nil}, nil
	}
	slot := s.cfg.IdentifySlot
	return remote.DetectSlotResponse{Slot: &slot}, nil
}

// confirmSlot records a device's identified XInput slot.
func (s *Server) confirmSlot(deviceID string, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.devices {
		if s.devices[i].ID == deviceID {
			v := slot
			s.devices[i].XInputSlot = &v
			return nil
		}
	}
	return ErrDeviceNotFound
}

// addGameRule persists a new rule. The referenced profile must exist;
// dangling references only arise later, through profile deletion.
func (s *Server) addGameRule(ctx context.Context, req remote.AddGameRuleRequest) (gamepad.GameRule, error) {
	if _, err := s.repo.GetProfile(ctx, req.ProfileID); err != nil {
		return gamepad.GameRule{}, err
	}
	rule := gamepad.GameRule{
		ID:        uuid.NewString(),
		ExeName:   req.ExeName,
		ProfileID: req.ProfileID,
		Enabled:   true,
	}
	if err := s.repo.CreateGameRule(ctx, &rule); err != nil {
		return gamepad.GameRule{}, err
	}
	return rule, nil
}

// resetAll returns the simulated hardware to its neutral state: forwarding
// and watcher off, every device visible, no active profile. Both state
// events are pushed so clients converge without polling.
func (s *Server) resetAll(ctx context.Context) error {
	if err := s.repo.SetActiveProfileID(ctx, nil); err != nil {
		return err
	}

	s.mu.Lock()
	s.forwarding = false
	s.watcher = false
	s.applied = nil
	for i := range s.devices {
		s.devices[i].Hidden = false
	}
	s.mu.Unlock()

	s.emit(remote.EventForwardingStatus, remote.ForwardingStatusEvent{Active: false})
	s.emit(remote.EventProfileActivated, remote.ProfileActivatedEvent{
		ProfileID:   nil,
		Assignments: []gamepad.SlotAssignment{},
		RoutingMode: gamepad.RoutingMinimal,
	})
	return nil
}

// ConnectDevice adds a device to the table and pushes device-change.
// Exposed for hot-plug scripting.
func (s *Server) ConnectDevice(device gamepad.PhysicalDevice) {
	s.mu.Lock()
	s.devices = append(s.devices, device.Clone())
	snapshot := gamepad.CloneDevices(s.devices)
	s.mu.Unlock()

	s.emit(remote.EventDeviceChange, remote.DeviceChangeEvent{Devices: snapshot})
}

// DisconnectDevice removes a device from the table and pushes device-change.
// Unknown ids are ignored; the event still reflects the current table.
func (s *Server) DisconnectDevice(deviceID string) {
	s.mu.Lock()
	for i := range s.devices {
		if s.devices[i].ID == deviceID {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			break
		}
	}
	snapshot := gamepad.CloneDevices(s.devices)
	s.mu.Unlock()

	s.emit(remote.EventDeviceChange, remote.DeviceChangeEvent{Devices: snapshot})
}
