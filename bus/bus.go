// Package bus provides the global publish/subscribe side channel of the
// event system. Every triggered event is mirrored onto the bus,
// independent of the priority queues, so external systems can observe
// traffic without participating in dispatch. Subscribers are bounded
// rings that drop their oldest event on overflow.
package bus

import (
	"github.com/ringo380/robin-sub007/event"
)

// EventBus distributes published events to subscribers.
type EventBus interface {
	// Publish delivers an event to all matching subscribers.
	Publish(e *event.Event)

	// Subscribe registers a subscriber for events whose names match the
	// glob pattern.
	Subscribe(pattern string) Subscription

	// SubscribeAll registers a subscriber for every event.
	SubscribeAll() Subscription

	// Close shuts down the bus and all active subscriptions.
	Close() error
}

// Subscription is a handle to a stream of bus events.
type Subscription interface {
	// Events returns the subscriber's channel. It is closed when the
	// subscription or the bus closes.
	Events() <-chan *event.Event

	// Close unsubscribes and releases resources.
	Close() error
}
