// Package ports defines the interfaces the engine's core depends on.
// Keeping these as small interfaces lets the services stay independent of
// the audio backend, the tag library and the persistence layer.
package ports

import (
	"github.com/radarwhisper/radarwhisper/internal/domain"
)

// EventBus is the notification channel between the engine and its host.
// Services publish domain events; the host (UI layer, logging, tests)
// subscribes to the types it cares about.
//
// Implementations must be thread-safe: events may be published and handlers
// registered from multiple goroutines.
type EventBus interface {
	// Publish delivers an event to every subscriber of its type.
	// Handlers must return quickly; long work belongs in a goroutine.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the given type and
	// returns an ID usable with Unsubscribe. The same handler may be
	// registered more than once.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered handler.
	// Unknown or already removed IDs are a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler for every event regardless of type.
	// Useful for logging and debugging.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// Close shuts the bus down and drops all subscriptions.
	Close() error
}
