package bus

import (
	"context"
	"log/slog"

	"github.com/ringo380/robin-sub007/event"
)

// StoreSubscriber drains a bus subscription into an EventStore. It is
// the bridge between the live event stream and persisted history.
type StoreSubscriber struct {
	store  EventStore
	logger *slog.Logger
}

// NewStoreSubscriber creates a subscriber writing to the given store.
func NewStoreSubscriber(store EventStore, logger *slog.Logger) *StoreSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreSubscriber{store: store, logger: logger}
}

// Handle appends a single event to the store. Errors are logged, not
// propagated; a failed write must not stall the event stream.
func (ss *StoreSubscriber) Handle(ctx context.Context, e *event.Event) {
	if err := ss.store.Append(ctx, e); err != nil {
		ss.logger.Error("event store append failed",
			"event", e.Name(),
			"error", err)
	}
}

// Run consumes events from the subscription until the context is
// cancelled or the subscription channel closes.
func (ss *StoreSubscriber) Run(ctx context.Context, sub Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub.Events():
			if !ok {
				return
			}
			ss.Handle(ctx, e)
		}
	}
}
