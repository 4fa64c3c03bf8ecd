package remote

import (
	"context"

	"github.com/padsync/padsync/internal/gamepad"
)

// ListDevices returns the backend's ordered device list.
func (c *Client) ListDevices(ctx context.Context) ([]gamepad.PhysicalDevice, error) {
	var devices []gamepad.PhysicalDevice
	if err := c.call(ctx, MethodListDevices, nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// DriverStatus reports which driver components are installed.
func (c *Client) DriverStatus(ctx context.Context) (gamepad.DriverStatus, error) {
	var status gamepad.DriverStatus
	err := c.call(ctx, MethodDriverStatus, nil, &status)
	return status, err
}

// IsElevated reports whether the backend process runs elevated.
func (c *Client) IsElevated(ctx context.Context) (bool, error) {
	var resp FlagResponse
	err := c.call(ctx, MethodIsElevated, nil, &resp)
	return resp.Value, err
}

// ToggleDevice hides or shows a device at the driver level.
func (c *Client) ToggleDevice(ctx context.Context, deviceID string, hidden bool) error {
	return c.call(ctx, MethodToggleDevice, ToggleDeviceRequest{DeviceID: deviceID, Hidden: hidden}, nil)
}

// ApplyAssignments transmits the full slot-assignment list.
func (c *Client) ApplyAssignments(ctx context.Context, assignments []gamepad.SlotAssignment) error {
	return c.call(ctx, MethodApplyAssignments, ApplyAssignmentsRequest{Assignments: assignments}, nil)
}

// StartForwarding starts the backend's input-forwarding loop.
func (c *Client) StartForwarding(ctx context.Context) error {
	return c.call(ctx, MethodStartForwarding, nil, nil)
}

// StopForwarding stops the backend's input-forwarding loop.
func (c *Client) StopForwarding(ctx context.Context) error {
	return c.call(ctx, MethodStopForwarding, nil, nil)
}

// IsForwarding queries the forwarding state.
func (c *Client) IsForwarding(ctx context.Context) (bool, error) {
	var resp FlagResponse
	err := c.call(ctx, MethodIsForwarding, nil, &resp)
	return resp.Value, err
}

// ListProfiles returns all saved profiles.
func (c *Client) ListProfiles(ctx context.Context) ([]gamepad.Profile, error) {
	var profiles []gamepad.Profile
	if err := c.call(ctx, MethodListProfiles, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// SaveProfile creates a profile on the backend, which assigns the id.
func (c *Client) SaveProfile(ctx context.Context, name string, assignments []gamepad.SlotAssignment, mode gamepad.RoutingMode) (gamepad.Profile, error) {
	var profile gamepad.Profile
	req := SaveProfileRequest{Name: name, Assignments: assignments, RoutingMode: mode}
	err := c.call(ctx, MethodSaveProfile, req, &profile)
	return profile, err
}

// DeleteProfile deletes a profile by id.
func (c *Client) DeleteProfile(ctx context.Context, profileID string) error {
	return c.call(ctx, MethodDeleteProfile, ProfileIDRequest{ProfileID: profileID}, nil)
}

// ActivateProfile activates a profile and returns the backend's
// authoritative assignment list.
func (c *Client) ActivateProfile(ctx context.Context, profileID string) ([]gamepad.SlotAssignment, error) {
	var resp AssignmentsResponse
	if err := c.call(ctx, MethodActivateProfile, ProfileIDRequest{ProfileID: profileID}, &resp); err != nil {
		return nil, err
	}
	return resp.Assignments, nil
}

// DetectSlot suspends until a button press resolves a slot index, or the
// backend-side timeout elapses (nil result).
func (c *Client) DetectSlot(ctx context.Context) (*int, error) {
	var resp DetectSlotResponse
	if err := c.call(ctx, MethodDetectSlot, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Slot, nil
}

// ConfirmSlot persists a device's identified XInput slot.
func (c *Client) ConfirmSlot(ctx context.Context, deviceID string, slot int) error {
	return c.call(ctx, MethodConfirmSlot, ConfirmSlotRequest{DeviceID: deviceID, XInputSlot: slot}, nil)
}

// ListGameRules returns all game rules.
func (c *Client) ListGameRules(ctx context.Context) ([]gamepad.GameRule, error) {
	var rules []gamepad.GameRule
	if err := c.call(ctx, MethodListGameRules, nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// AddGameRule creates a game rule; the backend assigns the id.
func (c *Client) AddGameRule(ctx context.Context, exeName, profileID string) (gamepad.GameRule, error) {
	var rule gamepad.GameRule
	err := c.call(ctx, MethodAddGameRule, AddGameRuleRequest{ExeName: exeName, ProfileID: profileID}, &rule)
	return rule, err
}

// DeleteGameRule deletes a game rule by id.
func (c *Client) DeleteGameRule(ctx context.Context, ruleID string) error {
	return c.call(ctx, MethodDeleteGameRule, RuleIDRequest{RuleID: ruleID}, nil)
}

// ToggleGameRule enables or disables a game rule.
func (c *Client) ToggleGameRule(ctx context.Context, ruleID string, enabled bool) error {
	return c.call(ctx, MethodToggleGameRule, ToggleGameRuleRequest{RuleID: ruleID, Enabled: enabled}, nil)
}

// StartWatcher starts the backend's process watcher.
func (c *Client) StartWatcher(ctx context.Context) error {
	return c.call(ctx, MethodStartWatcher, nil, nil)
}

// StopWatcher stops the backend's process watcher.
func (c *Client) StopWatcher(ctx context.Context) error {
	return c.call(ctx, MethodStopWatcher, nil, nil)
}

// IsWatcherRunning queries the process watcher state.
func (c *Client) IsWatcherRunning(ctx context.Context) (bool, error) {
	var resp FlagResponse
	err := c.call(ctx, MethodIsWatcherRunning, nil, &resp)
	return resp.Value, err
}

// GetSettings returns the backend's persisted settings record.
func (c *Client) GetSettings(ctx context.Context) (gamepad.Settings, error) {
	var settings gamepad.Settings
	err := c.call(ctx, MethodGetSettings, nil, &settings)
	return settings, err
}

// UpdateSettings persists a settings record and returns the stored copy.
func (c *Client) UpdateSettings(ctx context.Context, settings gamepad.Settings) (gamepad.Settings, error) {
	var stored gamepad.Settings
	err := c.call(ctx, MethodUpdateSettings, settings, &stored)
	return stored, err
}

// ResetAll performs the backend's full reset.
func (c *Client) ResetAll(ctx context.Context) error {
	return c.call(ctx, MethodResetAll, nil, nil)
}
