// Package bus is the in-process broadcast used to keep independently
// mounted views consistent after a contact mutation. Delivery is
// best-effort and fire-and-forget: nothing is queued, and a subscriber
// that mounts after a publish has missed it and must perform its own
// initial load.
package bus

import (
	"sync"

	"github.com/google/uuid"
)

type Handler func(payload any)

type Bus struct {
	mu       sync.RWMutex
	handlers map[string]map[string]Handler
}

func New() *Bus {
	return &Bus{handlers: make(map[string]map[string]Handler)}
}

// Subscribe registers a handler for an event and returns the release
// function. Views subscribe on mount and must call the release on
// unmount; a released handler is never invoked again.
func (b *Bus) Subscribe(event string, handler Handler) func() {
	if handler == nil {
		return func() {}
	}

	token := uuid.NewString()

	b.mu.Lock()
	if b.handlers[event] == nil {
		b.handlers[event] = make(map[string]Handler)
	}
	b.handlers[event][token] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		if subs, ok := b.handlers[event]; ok {
			delete(subs, token)
			if len(subs) == 0 {
				delete(b.handlers, event)
			}
		}
		b.mu.Unlock()
	}
}

// Publish delivers the payload to every current subscriber of the
// event. Handlers run synchronously on the caller's goroutine; they are
// expected to be cheap (flip a flag, schedule a reload) rather than do
// I/O inline.
func (b *Bus) Publish(event string, payload any) {
	b.mu.RLock()
	subs := make([]Handler, 0, len(b.handlers[event]))
	for _, h := range b.handlers[event] {
		subs = append(subs, h)
	}
	b.mu.RUnlock()

	for _, h := range subs {
		h(payload)
	}
}
