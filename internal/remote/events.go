package remote

import (
	"encoding/json"
	"sync"
)

// subscription is the handle returned by the On* methods.
type subscription struct {
	cancel func()
	once   sync.Once
}

// Cancel removes the registration. Idempotent. It does not drain
// deliveries already in flight on the read pump.
func (s *subscription) Cancel() {
	s.once.Do(s.cancel)
}

// OnDeviceChange registers a handler for device-change events.
func (c *Client) OnDeviceChange(fn func(DeviceChangeEvent)) Subscription {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.deviceSubs[id] = fn
	return &subscription{cancel: func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.deviceSubs, id)
	}}
}

// OnForwardingStatus registers a handler for forwarding-status events.
func (c *Client) OnForwardingStatus(fn func(ForwardingStatusEvent)) Subscription {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.forwardingSubs[id] = fn
	return &subscription{cancel: func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.forwardingSubs, id)
	}}
}

// OnProfileActivated registers a handler for profile-activated events.
func (c *Client) OnProfileActivated(fn func(ProfileActivatedEvent)) Subscription {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.profileSubs[id] = fn
	return &subscription{cancel: func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.profileSubs, id)
	}}
}

// dispatchEvent decodes one event frame and invokes matching handlers.
// Runs on the read-pump goroutine; handlers see events in arrival order.
func (c *Client) dispatchEvent(frame Frame) {
	switch frame.EventType {
	case EventDeviceChange:
		var ev DeviceChangeEvent
		if err := json.Unmarshal(frame.Payload, &ev); err != nil {
			c.getLogger().Warn("discarding malformed device-change event", "error", err)
			return
		}
		for _, fn := range c.snapshotDeviceSubs() {
			fn(ev)
		}
	case EventForwardingStatus:
		var ev ForwardingStatusEvent
		if err := json.Unmarshal(frame.Payload, &ev); err != nil {
			c.getLogger().Warn("discarding malformed forwarding-status event", "error", err)
			return
		}
		for _, fn := range c.snapshotForwardingSubs() {
			fn(ev)
		}
	case EventProfileActivated:
		var ev ProfileActivatedEvent
		if err := json.Unmarshal(frame.Payload, &ev); err != nil {
			c.getLogger().Warn("discarding malformed profile-activated event", "error", err)
			return
		}
		for _, fn := range c.snapshotProfileSubs() {
			fn(ev)
		}
	default:
		c.getLogger().Debug("ignoring unknown event type", "event_type", frame.EventType)
	}
}

// Handler snapshots are taken under the subscription lock, then invoked
// outside it so a handler can cancel its own subscription.

func (c *Client) snapshotDeviceSubs() []func(DeviceChangeEvent) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	fns := make([]func(DeviceChangeEvent), 0, len(c.deviceSubs))
	for _, fn := range c.deviceSubs {
		fns = append(fns, fn)
	}
	return fns
}

func (c *Client) snapshotForwardingSubs() []func(ForwardingStatusEvent) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	fns := make([]func(ForwardingStatusEvent), 0, len(c.forwardingSubs))
	for _, fn := range c.forwardingSubs {
		fns = append(fns, fn)
	}
	return fns
}

func (c *Client) snapshotProfileSubs() []func(ProfileActivatedEvent) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	fns := make([]func(ProfileActivatedEvent), 0, len(c.profileSubs))
	for _, fn := range c.profileSubs {
		fns = append(fns, fn)
	}
	return fns
}
