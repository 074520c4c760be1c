// Package ports define the EventBus interface for event-driven communication.
package ports

import (
	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
// The bus decouples event producers (services) from event consumers (UI, logging).
//
// Thread-safety: Implementations must be thread-safe as events may be published
// and subscribed from multiple goroutines simultaneously.
type EventBus interface {
	// Publish publishes an event to all subscribers of that event type.
	// This method must not block for long periods; handlers should process
	// events quickly or dispatch to a background goroutine.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// The same handler can be registered multiple times, each with its own ID.
	//
	// Returns a SubscriptionID that can be used to unsubscribe later.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// If the subscription ID is invalid or already unsubscribed, this is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	// This is useful for logging and debugging.
	//
	// Returns a SubscriptionID that can be used to unsubscribe later.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for the
	// given event type.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and cleans up resources.
	// After calling Close, no more events should be published or subscribed.
	Close() error
}
