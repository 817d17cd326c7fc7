// Package eventbus provides the synchronous EventBus implementation used by
// the engine. Handlers run on the publishing goroutine in subscription order.
package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/radarwhisper/radarwhisper/internal/domain"
	"github.com/radarwhisper/radarwhisper/internal/ports"
)

// wildcard is the internal subscription key for SubscribeAll handlers.
const wildcard domain.EventType = "*"

// SyncBus delivers events synchronously to subscribers.
//
// Thread-safety: publish, subscribe and unsubscribe may be called from any
// goroutine. Slow handlers block delivery; handlers that need to do real
// work should hand off to a goroutine.
type SyncBus struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[domain.EventType][]subscription
	closed      bool

	idCounter uint64
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncBus creates a new synchronous event bus.
// The logger may be nil; debug delivery logging is then disabled.
func NewSyncBus(logger *slog.Logger) *SyncBus {
	return &SyncBus{
		logger:      logger,
		subscribers: make(map[domain.EventType][]subscription),
	}
}

// Publish delivers the event to type subscribers, then wildcard subscribers.
// Publishing on a closed bus is a no-op. A panicking handler is recovered
// and logged; remaining handlers still run.
func (b *SyncBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	// Snapshot under the read lock so handlers can subscribe/unsubscribe.
	targets := make([]subscription, 0, len(b.subscribers[event.Type()])+len(b.subscribers[wildcard]))
	targets = append(targets, b.subscribers[event.Type()]...)
	targets = append(targets, b.subscribers[wildcard]...)
	b.mu.RUnlock()

	for _, sub := range targets {
		b.deliver(sub.handler, event)
	}
}

func (b *SyncBus) deliver(handler domain.EventHandler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				b.logger.Error("event handler panicked",
					slog.Any("panic", r),
					slog.String("event_type", string(event.Type())))
			}
		}
	}()
	handler(event)
}

// Subscribe registers a handler for one event type.
func (b *SyncBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return b.subscribe(eventType, handler)
}

// SubscribeAll registers a handler for every event.
func (b *SyncBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return b.subscribe(wildcard, handler)
}

func (b *SyncBus) subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("eventbus: nil handler")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("eventbus: subscribe on closed bus")
	}

	id := domain.SubscriptionID(fmt.Sprintf("sub-%d", atomic.AddUint64(&b.idCounter, 1)))
	b.subscribers[eventType] = append(b.subscribers[eventType], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
func (b *SyncBus) Unsubscribe(id domain.SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for i, sub := range subs {
			if sub.id == id {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Close drops all subscriptions. Further publishes are no-ops.
func (b *SyncBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return errors.New("eventbus: already closed")
	}
	b.closed = true
	b.subscribers = make(map[domain.EventType][]subscription)
	return nil
}

// SubscriberCount returns the number of active subscriptions, for tests.
func (b *SyncBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.subscribers {
		count += len(subs)
	}
	return count
}

// Verify interface implementation
var _ ports.EventBus = (*SyncBus)(nil)
