// Package remote defines the boundary to the Padsync companion service and
// implements it over a WebSocket session.
//
// The boundary has two halves:
//
//   - Backend: the request/response surface (device listing, visibility
//     toggles, assignment transmission, profiles, game rules, settings,
//     forwarding, identify, watcher, reset)
//   - Events: the push-notification surface (device-change,
//     forwarding-status, profile-activated)
//
// # Wire Protocol
//
// Both halves share one JSON frame envelope over a single session:
//
//	→ {"type":"request","id":"<uuid>","method":"devices.list"}
//	← {"type":"response","id":"<uuid>","payload":[...]}
//	← {"type":"error","id":"<uuid>","error":"..."}
//	← {"type":"event","event_type":"device-change","payload":{...}}
//
// Correlation IDs are client-assigned UUIDs, so any number of requests may
// be in flight; responses resolve in whichever order the backend answers.
// Events are dispatched to handlers on the read-pump goroutine in arrival
// order.
//
// The simulator package implements the server side of the same protocol
// for development and integration testing.
package remote
