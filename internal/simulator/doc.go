// Package simulator provides a development stand-in for the Windows
// companion service.
//
// It speaks the same WebSocket frame protocol as the real backend and
// reproduces its observable behaviour: device enumeration, slot
// assignments, profile persistence, identify, forwarding, and the three
// push events. Hardware is faked; persistence is real (SQLite).
//
//	┌────────────┐   ws frames   ┌───────────────────────────┐
//	│ remote     │◄─────────────►│ simulator.Server          │
//	│ .Client    │               │  ├ session (pumps)        │
//	└────────────┘               │  ├ device table (memory)  │
//	                             │  └ Repository (SQLite)    │
//	                             └───────────────────────────┘
//
// One session at a time is served; a second connection attempt is
// rejected with HTTP 409 before upgrade. Requests run on independent
// goroutines so a suspended identify.detect call never delays other
// traffic.
//
// Hot-plug scenarios are scripted through ConnectDevice and
// DisconnectDevice, which push device-change to the session.
//
// Thread Safety: all methods are safe for concurrent use.
package simulator
