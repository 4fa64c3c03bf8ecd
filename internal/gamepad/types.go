package gamepad

import (
	"encoding/json"
	"fmt"
)

// DeviceType classifies how a physical input device presents itself to the OS.
type DeviceType string

// Supported device types.
const (
	DeviceTypeXInput      DeviceType = "XInput"
	DeviceTypeDirectInput DeviceType = "DirectInput"
	DeviceTypeUnknown     DeviceType = "Unknown"
)

// PhysicalDevice represents one physical input device as reported by the
// backend. The backend owns device lifecycle (enumeration, hot-plug); the
// client only reorders devices and annotates the hidden flag and XInput slot.
//
// The device's position in the client's ordered device list is the
// authoritative slot number. Assignment lists are a serialization of that
// position for transport and must be re-derived from current order before
// every transmission.
type PhysicalDevice struct {
	// ID is an opaque identifier, stable per physical device instance.
	ID   string `json:"id"`
	Name string `json:"name"`

	// InstancePath is the OS device path the backend uses for driver calls.
	// Opaque to the client.
	InstancePath string `json:"instance_path"`

	Type      DeviceType `json:"device_type"`
	Hidden    bool       `json:"hidden"`
	Connected bool       `json:"connected"`

	VendorID  uint16 `json:"vendor_id"`
	ProductID uint16 `json:"product_id"`

	// XInputSlot is the physical XInput slot (0-3) resolved by the identify
	// workflow, or nil if never identified.
	XInputSlot *int `json:"xinput_slot,omitempty"`
}

// Clone returns an independent copy of the device.
func (d PhysicalDevice) Clone() PhysicalDevice {
	cpy := d
	if d.XInputSlot != nil {
		slot := *d.XInputSlot
		cpy.XInputSlot = &slot
	}
	return cpy
}

// CloneDevices returns an independent copy of a device list.
// Used so store snapshots never alias engine-internal state.
func CloneDevices(devices []PhysicalDevice) []PhysicalDevice {
	if devices == nil {
		return nil
	}
	out := make([]PhysicalDevice, len(devices))
	for i := range devices {
		out[i] = devices[i].Clone()
	}
	return out
}

// SlotAssignment maps a physical device to a logical player slot.
// Enabled is the inverse of the device's hidden flag: a disabled assignment
// hides the device from games.
type SlotAssignment struct {
	DeviceID string `json:"device_id"`
	Slot     int    `json:"slot"`
	Enabled  bool   `json:"enabled"`
}

// RoutingMode selects which backend capabilities a profile requires.
type RoutingMode string

// Routing modes.
const (
	// RoutingMinimal performs slot reordering only, using OS-level
	// device disable/enable.
	RoutingMinimal RoutingMode = "Minimal"

	// RoutingForce performs full hide-and-forward through the filter
	// driver and virtual controllers.
	RoutingForce RoutingMode = "Force"
)

// UnmarshalJSON validates routing mode values on the wire.
// Unknown values are rejected rather than silently passed through.
func (m *RoutingMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch RoutingMode(s) {
	case RoutingMinimal, RoutingForce:
		*m = RoutingMode(s)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidRoutingMode, s)
}

// Profile is a named, saved assignment list plus routing mode.
// Profiles are immutable once saved; changes go through delete and recreate.
type Profile struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Assignments []SlotAssignment `json:"assignments"`
	RoutingMode RoutingMode      `json:"routing_mode"`
}

// Clone returns an independent copy of the profile.
func (p Profile) Clone() Profile {
	cpy := p
	if p.Assignments != nil {
		cpy.Assignments = make([]SlotAssignment, len(p.Assignments))
		copy(cpy.Assignments, p.Assignments)
	}
	return cpy
}

// GameRule maps a process executable name to a profile to auto-activate.
// ProfileID is a weak reference: the referenced profile may have been
// deleted, and consumers must tolerate the dangling id.
type GameRule struct {
	ID        string `json:"id"`
	ExeName   string `json:"exe_name"`
	ProfileID string `json:"profile_id"`
	Enabled   bool   `json:"enabled"`
}

// Settings is the backend's persisted settings record.
// ActiveProfileID is a weak, nullable reference.
type Settings struct {
	AutoStart           bool    `json:"auto_start"`
	StartMinimized      bool    `json:"start_minimized"`
	AutoForwardOnLaunch bool    `json:"auto_forward_on_launch"`
	AutoSwitch          bool    `json:"auto_switch"`
	ActiveProfileID     *string `json:"active_profile_id"`
}

// DriverStatus reports which driver components the backend found installed,
// with optional version strings.
type DriverStatus struct {
	HidHideInstalled  bool    `json:"hidhide_installed"`
	ViGEmBusInstalled bool    `json:"vigembus_installed"`
	HidHideVersion    *string `json:"hidhide_version,omitempty"`
	ViGEmBusVersion   *string `json:"vigembus_version,omitempty"`
}
