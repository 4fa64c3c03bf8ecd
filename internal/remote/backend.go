package remote

import (
	"context"

	"github.com/padsync/padsync/internal/gamepad"
)

// Backend is the request/response surface of the companion service.
//
// Every method issues one remote call and returns its result. Calls may
// suspend the issuing operation (DetectSlot blocks until input or timeout)
// but never block each other; implementations must be safe for concurrent
// use. No call can be aborted once issued — cancelling the context stops
// waiting for the reply, it does not retract the call on the backend.
type Backend interface {
	// ListDevices returns the backend's ordered device list.
	ListDevices(ctx context.Context) ([]gamepad.PhysicalDevice, error)

	// DriverStatus reports which driver components are installed.
	DriverStatus(ctx context.Context) (gamepad.DriverStatus, error)

	// IsElevated reports whether the backend process runs elevated.
	IsElevated(ctx context.Context) (bool, error)

	// ToggleDevice hides or shows a device at the driver level.
	ToggleDevice(ctx context.Context, deviceID string, hidden bool) error

	// ApplyAssignments transmits the full slot-assignment list.
	ApplyAssignments(ctx context.Context, assignments []gamepad.SlotAssignment) error

	StartForwarding(ctx context.Context) error
	StopForwarding(ctx context.Context) error
	IsForwarding(ctx context.Context) (bool, error)

	ListProfiles(ctx context.Context) ([]gamepad.Profile, error)

	// SaveProfile creates a profile on the backend, which assigns the id.
	SaveProfile(ctx context.Context, name string, assignments []gamepad.SlotAssignment, mode gamepad.RoutingMode) (gamepad.Profile, error)

	DeleteProfile(ctx context.Context, profileID string) error

	// ActivateProfile activates a profile and returns the assignment list
	// the backend considers authoritative. It may differ from the profile's
	// stored list if devices are unavailable.
	ActivateProfile(ctx context.Context, profileID string) ([]gamepad.SlotAssignment, error)

	// DetectSlot polls all XInput slots for a button press. It suspends
	// until input arrives or the backend-side timeout elapses, returning
	// the slot index or nil on no detection.
	DetectSlot(ctx context.Context) (*int, error)

	// ConfirmSlot persists a device's identified XInput slot.
	ConfirmSlot(ctx context.Context, deviceID string, slot int) error

	ListGameRules(ctx context.Context) ([]gamepad.GameRule, error)
	AddGameRule(ctx context.Context, exeName, profileID string) (gamepad.GameRule, error)
	DeleteGameRule(ctx context.Context, ruleID string) error
	ToggleGameRule(ctx context.Context, ruleID string, enabled bool) error

	StartWatcher(ctx context.Context) error
	StopWatcher(ctx context.Context) error
	IsWatcherRunning(ctx context.Context) (bool, error)

	GetSettings(ctx context.Context) (gamepad.Settings, error)
	UpdateSettings(ctx context.Context, settings gamepad.Settings) (gamepad.Settings, error)

	// ResetAll stops forwarding and the watcher, re-enables and unhides all
	// devices, and clears the active profile on the backend.
	ResetAll(ctx context.Context) error
}

// DeviceChangeEvent carries a wholesale replacement device list.
// The list is already in final display order; it bypasses the merge
// algorithm on the client.
type DeviceChangeEvent struct {
	Devices []gamepad.PhysicalDevice `json:"devices"`
}

// ForwardingStatusEvent asserts the forwarding state asynchronously.
// It always wins over any locally assumed state. Error, when present,
// carries backend-side failure text for the user-facing error slot.
type ForwardingStatusEvent struct {
	Active bool    `json:"active"`
	Error  *string `json:"error,omitempty"`
}

// ProfileActivatedEvent reports a profile activation, which may originate
// outside direct user action (an automatic game rule, a reset).
// A nil ProfileID means no profile is active.
type ProfileActivatedEvent struct {
	ProfileID   *string                  `json:"profile_id"`
	Assignments []gamepad.SlotAssignment `json:"assignments"`
	RoutingMode gamepad.RoutingMode      `json:"routing_mode"`
}

// Subscription is a handle to one push-notification registration.
// Cancel is idempotent.
type Subscription interface {
	Cancel()
}

// Events is the push-notification surface of the companion service.
//
// Handlers run on the delivery goroutine in arrival order. There is no
// ordering relationship between the three notification kinds, and
// cancellation does not drain in-flight deliveries.
type Events interface {
	OnDeviceChange(fn func(DeviceChangeEvent)) Subscription
	OnForwardingStatus(fn func(ForwardingStatusEvent)) Subscription
	OnProfileActivated(fn func(ProfileActivatedEvent)) Subscription
}
