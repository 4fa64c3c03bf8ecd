package engine

import (
	"sync"

	"github.com/padsync/padsync/internal/gamepad"
	"github.com/padsync/padsync/internal/remote"
)

// Logger defines the logging interface used by the Engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Engine is the client-side synchronization core. It owns the canonical
// ordered device list, profiles, game rules, settings, and status flags,
// and keeps them consistent with the companion service through
// request/response calls and push notifications.
//
// A device's position in the device list is its slot number. Every mutation
// that affects device or slot state re-derives the assignment list from the
// current order and re-transmits it, so the two copies stay aligned.
//
// Completions of concurrent operations and pushed events apply in whichever
// order they resolve; the later write wins. There are no version counters
// and no rollback on transmission failure, except where an operation is
// documented as pessimistic (visibility toggles).
//
// All public methods are safe for concurrent use. Remote calls are issued
// with the state lock released.
type Engine struct {
	backend remote.Backend

	loggerMu sync.RWMutex
	logger   Logger

	mu              sync.Mutex
	devices         []gamepad.PhysicalDevice
	profiles        []gamepad.Profile
	activeProfileID *string
	routingMode     gamepad.RoutingMode
	rules           []gamepad.GameRule
	settings        gamepad.Settings
	driverStatus    gamepad.DriverStatus
	elevated        bool
	forwarding      bool
	watcherRunning  bool
	identifying     *string // device id under identification, nil when idle
	lastErr         string  // single-slot error surface, "" when clear

	subsMu  sync.Mutex
	subs    map[int]func()
	nextSub int

	eventSubs []remote.Subscription
	closeOnce sync.Once
}

// New creates an Engine bound to a backend. If events is non-nil the three
// push-notification subscriptions are established immediately and exactly
// once; Close tears them down exactly once.
func New(backend remote.Backend, events remote.Events) *Engine {
	e := &Engine{
		backend:     backend,
		logger:      noopLogger{},
		routingMode: gamepad.RoutingMinimal,
		subs:        make(map[int]func()),
	}
	if events != nil {
		e.eventSubs = []remote.Subscription{
			events.OnDeviceChange(e.handleDeviceChange),
			events.OnForwardingStatus(e.handleForwardingStatus),
			events.OnProfileActivated(e.handleProfileActivated),
		}
	}
	return e
}

// SetLogger sets the logger for the engine. Safe to call while push
// deliveries are already running.
func (e *Engine) SetLogger(logger Logger) {
	e.loggerMu.Lock()
	e.logger = logger
	e.loggerMu.Unlock()
}

// getLogger returns the current logger.
func (e *Engine) getLogger() Logger {
	e.loggerMu.RLock()
	defer e.loggerMu.RUnlock()
	return e.logger
}

// Close cancels the push-notification subscriptions. Idempotent. It stops
// future reactions only: in-flight remote calls are not retracted and
// deliveries already dispatched may still apply.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		for _, sub := range e.eventSubs {
			sub.Cancel()
		}
	})
}

// Subscribe registers a callback invoked after every observable state
// change. The returned function removes the registration and is idempotent.
// Callbacks run outside the state lock and may call accessors freely.
func (e *Engine) Subscribe(fn func()) (unsubscribe func()) {
	e.subsMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.subsMu.Lock()
			delete(e.subs, id)
			e.subsMu.Unlock()
		})
	}
}

// notify invokes all subscriber callbacks. Callers must not hold e.mu.
func (e *Engine) notify() {
	e.subsMu.Lock()
	fns := make([]func(), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// setError stores err in the single error slot, overwriting any previous
// unacknowledged error, and notifies subscribers.
func (e *Engine) setError(op string, err error) {
	e.getLogger().Warn("operation failed", "op", op, "error", err)
	e.mu.Lock()
	e.lastErr = err.Error()
	e.mu.Unlock()
	e.notify()
}

// LastError returns the current error text, or "" if the slot is clear.
func (e *Engine) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// ClearError acknowledges and clears the error slot. It has no other effect.
func (e *Engine) ClearError() {
	e.mu.Lock()
	e.lastErr = ""
	e.mu.Unlock()
	e.notify()
}

// Devices returns a copy of the current ordered device list.
func (e *Engine) Devices() []gamepad.PhysicalDevice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gamepad.CloneDevices(e.devices)
}

// Profiles returns a copy of the cached profile list.
func (e *Engine) Profiles() []gamepad.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	profiles := make([]gamepad.Profile, len(e.profiles))
	for i := range e.profiles {
		profiles[i] = e.profiles[i].Clone()
	}
	return profiles
}

// ActiveProfileID returns the active profile id, or nil if none is active.
func (e *Engine) ActiveProfileID() *string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeProfileID == nil {
		return nil
	}
	id := *e.activeProfileID
	return &id
}

// RoutingMode returns the routing mode in effect.
func (e *Engine) RoutingMode() gamepad.RoutingMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.routingMode
}

// GameRules returns a copy of the cached game rules. Rules may reference
// deleted profiles; callers must tolerate dangling profile ids.
func (e *Engine) GameRules() []gamepad.GameRule {
	e.mu.Lock()
	defer e.mu.Unlock()
	rules := make([]gamepad.GameRule, len(e.rules))
	copy(rules, e.rules)
	return rules
}

// Settings returns the cached settings record.
func (e *Engine) Settings() gamepad.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// DriverStatus returns the last fetched driver status.
func (e *Engine) DriverStatus() gamepad.DriverStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.driverStatus
}

// IsElevated reports whether the backend runs elevated.
func (e *Engine) IsElevated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elevated
}

// ForwardingActive reports the forwarding flag.
func (e *Engine) ForwardingActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.forwarding
}

// WatcherRunning reports the process-watcher flag.
func (e *Engine) WatcherRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.watcherRunning
}

// Identifying returns the device id under identification and true, or
// ("", false) when the identify machine is idle.
func (e *Engine) Identifying() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.identifying == nil {
		return "", false
	}
	return *e.identifying, true
}
