// Package gamepad defines the Padsync domain model: physical input devices,
// slot assignments, profiles, game rules, and settings, together with the
// assignment merge algorithm that combines a device list with a saved
// assignment list into one ordered device list.
//
// # Key Types
//
//   - PhysicalDevice: one physical controller as reported by the backend
//   - SlotAssignment: (device id, slot, enabled) triple used on the wire
//   - Profile: a named, saved assignment list plus routing mode
//   - GameRule: exe name → profile auto-activation mapping
//   - Settings: the backend's persisted settings record
//
// # Slot Invariant
//
// A device's position in the ordered device list is its slot number. An
// assignment list is only a serialization of that order for transport:
// AssignmentsOf derives it from the list, Merge applies one onto a list.
// Assignment lists are never cached between transmissions.
//
// All types and functions in this package are pure data and pure functions;
// nothing here performs I/O or holds locks.
package gamepad
