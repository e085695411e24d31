package event

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/Iron-Ham/uploadsim/internal/logging"
)

// Handler is a function that handles an event.
type Handler func(Event)

// wildcard is the pseudo event type used by SubscribeAll.
const wildcard = "*"

// subscription represents a registered event handler.
type subscription struct {
	id        string
	eventType string
	handler   Handler
}

// Bus is a synchronous pub-sub event bus.
// It lets the registry notify renderers and runners without knowing them.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription // eventType -> subscriptions
	nextID        atomic.Uint64
	logger        *logging.Logger
}

// NewBus creates a new event bus. A nil logger discards handler panics.
func NewBus(logger *logging.Logger) *Bus {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Bus{
		subscriptions: make(map[string][]subscription),
		logger:        logger.WithComponent("event"),
	}
}

// Subscribe registers a handler for a specific event type.
// Returns a subscription ID that can be used to unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := fmt.Sprintf("sub-%d", b.nextID.Add(1))
	b.subscriptions[eventType] = append(b.subscriptions[eventType], subscription{
		id:        id,
		eventType: eventType,
		handler:   handler,
	})
	return id
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(handler Handler) string {
	return b.Subscribe(wildcard, handler)
}

// Unsubscribe removes a subscription by ID.
// Returns true if the subscription was found and removed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id == id {
				// Copy so a Publish iterating the old slice is unaffected
				remaining := make([]subscription, 0, len(subs)-1)
				remaining = append(remaining, subs[:i]...)
				remaining = append(remaining, subs[i+1:]...)
				b.subscriptions[eventType] = remaining
				return true
			}
		}
	}
	return false
}

// Publish dispatches an event to all registered handlers on the caller's
// goroutine. Specific handlers run first, then wildcard handlers, each group
// in registration order. A panicking handler is logged and skipped.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	specific := b.subscriptions[e.EventType()]
	wild := b.subscriptions[wildcard]
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub.handler, e)
	}
	for _, sub := range wild {
		b.safeCall(sub.handler, e)
	}
}

// safeCall invokes a handler and recovers from any panics.
func (b *Bus) safeCall(handler Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event_type", e.EventType(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	handler(e)
}
