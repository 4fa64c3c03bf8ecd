package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIdentify_ResolvesSlot(t *testing.T) {
	backend := newMockBackend()
	slot := 2
	backend.detectSlot = &slot
	e := newTestEngine(backend, threeDevices())

	got, err := e.Identify(context.Background(), "b")
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if got == nil || *got != 2 {
		t.Fatalf("Identify() = %v, want slot 2", got)
	}

	if len(backend.confirmed) != 1 || backend.confirmed[0] != 2 {
		t.Errorf("confirmed slots = %v, want [2]", backend.confirmed)
	}

	devices := e.Devices()
	if devices[1].XInputSlot == nil || *devices[1].XInputSlot != 2 {
		t.Error("device b should carry the resolved XInput slot")
	}

	if _, busy := e.Identifying(); busy {
		t.Error("state should return to idle after resolution")
	}
}

func TestIdentify_NoDetectionLeavesSlotUnchanged(t *testing.T) {
	backend := newMockBackend()
	backend.detectSlot = nil // timeout, no input
	e := newTestEngine(backend, threeDevices())

	got, err := e.Identify(context.Background(), "a")
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if got != nil {
		t.Errorf("Identify() = %v, want nil on no detection", got)
	}

	if len(backend.confirmed) != 0 {
		t.Error("no confirmation call should be made without a detection")
	}
	if e.Devices()[0].XInputSlot != nil {
		t.Error("device slot must be unchanged")
	}
	if _, busy := e.Identifying(); busy {
		t.Error("state should return to idle")
	}
	if e.LastError() != "" {
		t.Error("no detection is not a failure")
	}
}

func TestIdentify_FailureReturnsToIdle(t *testing.T) {
	backend := newMockBackend()
	backend.detectErr = errors.New("detect failed")
	e := newTestEngine(backend, threeDevices())

	if _, err := e.Identify(context.Background(), "a"); err == nil {
		t.Fatal("Identify() expected error")
	}

	if _, busy := e.Identifying(); busy {
		t.Error("state should return to idle after failure")
	}
	if e.LastError() == "" {
		t.Error("failure should surface in the error slot")
	}
	if e.Devices()[0].XInputSlot != nil {
		t.Error("device slot must be unchanged on failure")
	}
}

func TestIdentify_ConfirmFailureReturnsToIdle(t *testing.T) {
	backend := newMockBackend()
	slot := 1
	backend.detectSlot = &slot
	backend.confirmErr = errors.New("confirm failed")
	e := newTestEngine(backend, threeDevices())

	if _, err := e.Identify(context.Background(), "a"); err == nil {
		t.Fatal("Identify() expected error")
	}

	if e.Devices()[0].XInputSlot != nil {
		t.Error("device slot must be unchanged when confirmation fails")
	}
	if _, busy := e.Identifying(); busy {
		t.Error("state should return to idle")
	}
}

func TestIdentify_SingleFlight(t *testing.T) {
	backend := newMockBackend()
	slot := 0
	backend.detectSlot = &slot
	backend.detectStarted = make(chan struct{})
	backend.detectRelease = make(chan struct{})
	e := newTestEngine(backend, threeDevices())

	done := make(chan error, 1)
	go func() {
		_, err := e.Identify(context.Background(), "a")
		done <- err
	}()

	// Wait for the first identification to be in flight.
	select {
	case <-backend.detectStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("first identification never started")
	}

	if id, busy := e.Identifying(); !busy || id != "a" {
		t.Errorf("Identifying() = (%q, %v), want (a, true)", id, busy)
	}

	// A second request while busy is refused, not queued.
	if _, err := e.Identify(context.Background(), "b"); !errors.Is(err, ErrIdentifyBusy) {
		t.Errorf("second Identify() error = %v, want ErrIdentifyBusy", err)
	}

	close(backend.detectRelease)
	if err := <-done; err != nil {
		t.Fatalf("first Identify() error = %v", err)
	}

	if _, busy := e.Identifying(); busy {
		t.Error("state should return to idle after the first resolves")
	}

	// Idle again: a new identification is accepted.
	backend.mu.Lock()
	backend.detectStarted = nil
	backend.detectRelease = nil
	backend.mu.Unlock()
	if _, err := e.Identify(context.Background(), "b"); err != nil {
		t.Errorf("Identify() after idle error = %v", err)
	}
}
