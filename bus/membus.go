package bus

import (
	"sync"

	"github.com/ringo380/robin-sub007/event"
)

// MemBusConfig configures an in-memory event bus.
type MemBusConfig struct {
	// SubscriberBufferSize is the ring capacity per subscriber
	// (default: 256).
	SubscriberBufferSize int
}

// MemBus is an in-memory event bus. Each subscriber owns a bounded ring:
// when a subscriber falls behind, its oldest buffered event is dropped to
// make room, so slow consumers see recent traffic rather than stale.
type MemBus struct {
	mu      sync.RWMutex
	subs    []*memSub
	bufSize int
	closed  bool
}

// NewMemBus creates a new in-memory event bus with the given
// configuration.
func NewMemBus(config MemBusConfig) *MemBus {
	bufSize := config.SubscriberBufferSize
	if bufSize <= 0 {
		bufSize = 256
	}
	return &MemBus{bufSize: bufSize}
}

// Publish sends an event to all subscribers whose pattern matches. If the
// bus is closed, the event is silently dropped.
func (b *MemBus) Publish(e *event.Event) {
	if e == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, sub := range b.subs {
		if sub.pattern == "" || event.MatchPattern(sub.pattern, e.Name()) {
			sub.send(e)
		}
	}
}

// Subscribe registers a subscriber for events matching the glob pattern.
// Returns a Subscription that must be closed when done.
func (b *MemBus) Subscribe(pattern string) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newMemSub(pattern, b.bufSize)
	b.subs = append(b.subs, sub)
	return sub
}

// SubscribeAll registers a subscriber that receives every event.
func (b *MemBus) SubscribeAll() Subscription {
	return b.Subscribe("")
}

// Close shuts down the bus and all active subscriptions.
func (b *MemBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for _, sub := range b.subs {
		sub.close()
	}
	return nil
}

// memSub is an in-memory subscription with drop-oldest overflow.
type memSub struct {
	pattern string
	ch      chan *event.Event
	mu      sync.Mutex
	closed  bool
}

func newMemSub(pattern string, bufSize int) *memSub {
	return &memSub{
		pattern: pattern,
		ch:      make(chan *event.Event, bufSize),
	}
}

// Events returns a channel of events for this subscription.
func (s *memSub) Events() <-chan *event.Event {
	return s.ch
}

// Close unsubscribes and releases resources.
func (s *memSub) Close() error {
	s.close()
	return nil
}

// close performs the actual channel close, guarded against double-close.
func (s *memSub) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// send delivers an event, evicting the oldest buffered event when the
// ring is full.
func (s *memSub) send(e *event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- e:
			return
		default:
		}
		select {
		case <-s.ch:
			// Dropped the oldest; retry the send.
		default:
			return
		}
	}
}

// Compile-time interface checks.
var (
	_ EventBus     = (*MemBus)(nil)
	_ Subscription = (*memSub)(nil)
)
