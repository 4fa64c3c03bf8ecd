// Package engine implements the Padsync synchronization core.
//
// The Engine reconciles three independent sources of truth into one
// ordered device list:
//
//   - user-initiated operations (reorder, visibility toggles, profile
//     save/activate/delete, forwarding, identify, game rules, settings)
//   - push notifications from the companion service (device-change,
//     forwarding-status, profile-activated)
//   - periodically re-fetched full snapshots (Refresh)
//
// # State and Consistency
//
// A device's array position in the engine's device list is its slot
// number. Every mutation affecting device or slot state re-derives the
// assignment list from the current order and re-transmits it.
//
// Two update policies coexist deliberately:
//
//   - Reorder is optimistic: local first, transmit after; a failed
//     transmission leaves the local order in place until the next refresh
//     or push event.
//   - ToggleVisibility is pessimistic: remote first, local flip only on
//     success, because visibility touches driver-level hiding and must not
//     claim success optimistically.
//
// Concurrent completions and pushed events apply last-writer-wins; there
// is no mutual exclusion between in-flight operations, no version
// counters, and no cancellation of issued calls. The identify workflow is
// the only single-flight guard.
//
// # Error Surface
//
// Remote-call failures are converted at the call site into a single-slot
// last error, overwriting any previous unacknowledged value. ClearError
// acknowledges it and has no other effect. No operation is retried.
// Multi-step flows (SaveProfile, DeleteProfile) are not transactional; a
// partial failure leaves partially applied state with only the failing
// step's error reported.
//
// # Observation
//
// State is read through snapshot accessors; Subscribe registers a callback
// invoked after every observable change. The engine owns no UI concepts.
package engine
