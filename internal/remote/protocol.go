package remote

import (
	"encoding/json"

	"github.com/padsync/padsync/internal/gamepad"
)

// Frame types exchanged on the WebSocket session.
const (
	FrameRequest  = "request"
	FrameResponse = "response"
	FrameError    = "error"
	FrameEvent    = "event"
)

// Method names of the request/response surface. One per Backend method.
const (
	MethodListDevices      = "devices.list"
	MethodDriverStatus     = "drivers.status"
	MethodIsElevated       = "environment.elevated"
	MethodToggleDevice     = "devices.toggle"
	MethodApplyAssignments = "assignments.apply"
	MethodStartForwarding  = "forwarding.start"
	MethodStopForwarding   = "forwarding.stop"
	MethodIsForwarding     = "forwarding.state"
	MethodListProfiles     = "profiles.list"
	MethodSaveProfile      = "profiles.save"
	MethodDeleteProfile    = "profiles.delete"
	MethodActivateProfile  = "profiles.activate"
	MethodDetectSlot       = "identify.detect"
	MethodConfirmSlot      = "identify.confirm"
	MethodListGameRules    = "rules.list"
	MethodAddGameRule      = "rules.add"
	MethodDeleteGameRule   = "rules.delete"
	MethodToggleGameRule   = "rules.toggle"
	MethodStartWatcher     = "watcher.start"
	MethodStopWatcher      = "watcher.stop"
	MethodIsWatcherRunning = "watcher.state"
	MethodGetSettings      = "settings.get"
	MethodUpdateSettings   = "settings.update"
	MethodResetAll         = "reset.all"
)

// Event types pushed by the backend.
const (
	EventDeviceChange     = "device-change"
	EventForwardingStatus = "forwarding-status"
	EventProfileActivated = "profile-activated"
)

// Frame is the single wire envelope for both directions of the session.
//
// Requests carry Type=request, a client-assigned correlation ID, Method and
// Payload. The backend answers with Type=response (same ID, result payload)
// or Type=error (same ID, Error text). Pushes arrive as Type=event with
// EventType and Payload and no ID.
type Frame struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Method    string          `json:"method,omitempty"`
	EventType string          `json:"event_type,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Request payloads.

// ToggleDeviceRequest is the payload for devices.toggle.
type ToggleDeviceRequest struct {
	DeviceID string `json:"device_id"`
	Hidden   bool   `json:"hidden"`
}

// ApplyAssignmentsRequest is the payload for assignments.apply.
type ApplyAssignmentsRequest struct {
	Assignments []gamepad.SlotAssignment `json:"assignments"`
}

// SaveProfileRequest is the payload for profiles.save.
type SaveProfileRequest struct {
	Name        string                   `json:"name"`
	Assignments []gamepad.SlotAssignment `json:"assignments"`
	RoutingMode gamepad.RoutingMode      `json:"routing_mode"`
}

// ProfileIDRequest is the payload for profiles.delete and profiles.activate.
type ProfileIDRequest struct {
	ProfileID string `json:"profile_id"`
}

// ConfirmSlotRequest is the payload for identify.confirm.
type ConfirmSlotRequest struct {
	DeviceID   string `json:"device_id"`
	XInputSlot int    `json:"xinput_slot"`
}

// AddGameRuleRequest is the payload for rules.add.
type AddGameRuleRequest struct {
	ExeName   string `json:"exe_name"`
	ProfileID string `json:"profile_id"`
}

// RuleIDRequest is the payload for rules.delete.
type RuleIDRequest struct {
	RuleID string `json:"rule_id"`
}

// ToggleGameRuleRequest is the payload for rules.toggle.
type ToggleGameRuleRequest struct {
	RuleID  string `json:"rule_id"`
	Enabled bool   `json:"enabled"`
}

// Response payloads.

// AssignmentsResponse is the result of profiles.activate.
type AssignmentsResponse struct {
	Assignments []gamepad.SlotAssignment `json:"assignments"`
}

// DetectSlotResponse is the result of identify.detect.
// Slot is nil when no input was detected before the backend timeout.
type DetectSlotResponse struct {
	Slot *int `json:"slot"`
}

// FlagResponse is the result of the boolean state queries
// (forwarding.state, watcher.state, environment.elevated).
type FlagResponse struct {
	Value bool `json:"value"`
}
