// Package event provides the priority-bucketed event system that behavior
// trees and external game systems use to communicate. Producers enqueue
// events with TriggerEvent; the owning game loop drains them once per
// frame with Update, which dispatches to pattern-matched handlers and
// condition-matched triggers under a soft wall-clock budget.
package event

import (
	"strings"
	"time"

	"github.com/google/uuid"

	robin "github.com/ringo380/robin-sub007"
)

// Priority orders event processing. Higher priorities drain first.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// String returns the string representation of the Priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParsePriority converts a string to a Priority, defaulting to Normal.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	case "critical":
		return PriorityCritical
	default:
		return PriorityNormal
	}
}

// Event is a message with a name, priority, source, and arbitrary data
// payload. Identity is fixed at creation; only the payload (SetData) and
// the propagation flag (StopPropagation) mutate afterwards. Events are
// consumed during System.Update and are not persisted by the core.
type Event struct {
	id        string
	name      string
	data      map[string]robin.Value
	timestamp time.Time
	priority  Priority
	source    string

	propagationStopped bool
}

// New creates an event with a generated ID and the current timestamp.
func New(name string, priority Priority, source string) *Event {
	return &Event{
		id:        uuid.NewString(),
		name:      name,
		data:      make(map[string]robin.Value),
		timestamp: time.Now(),
		priority:  priority,
		source:    source,
	}
}

// ID returns the event's unique identifier.
func (e *Event) ID() string {
	return e.id
}

// Name returns the event name handlers match against.
func (e *Event) Name() string {
	return e.name
}

// Timestamp returns the creation time.
func (e *Event) Timestamp() time.Time {
	return e.timestamp
}

// Priority returns the processing priority.
func (e *Event) Priority() Priority {
	return e.priority
}

// Source identifies the producer.
func (e *Event) Source() string {
	return e.source
}

// Data returns the payload value for a key, or None when absent.
func (e *Event) Data(key string) robin.Value {
	if v, ok := e.data[key]; ok {
		return v
	}
	return robin.None()
}

// HasData reports whether the payload contains a key.
func (e *Event) HasData(key string) bool {
	_, ok := e.data[key]
	return ok
}

// DataKeys returns the payload keys in unspecified order.
func (e *Event) DataKeys() []string {
	keys := make([]string, 0, len(e.data))
	for k := range e.data {
		keys = append(keys, k)
	}
	return keys
}

// SetData stores a payload value.
func (e *Event) SetData(key string, value robin.Value) {
	e.data[key] = value
}

// WithData stores a payload value and returns the event for chaining.
func (e *Event) WithData(key string, value robin.Value) *Event {
	e.SetData(key, value)
	return e
}

// StopPropagation prevents any further handlers from seeing this event.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// PropagationStopped reports whether propagation has been stopped.
func (e *Event) PropagationStopped() bool {
	return e.propagationStopped
}

// Clone returns a copy with the same identity and a copied payload, used
// when the same event travels both the priority queues and the global bus.
func (e *Event) Clone() *Event {
	out := &Event{
		id:                 e.id,
		name:               e.name,
		data:               make(map[string]robin.Value, len(e.data)),
		timestamp:          e.timestamp,
		priority:           e.priority,
		source:             e.source,
		propagationStopped: e.propagationStopped,
	}
	for k, v := range e.data {
		out.data[k] = v
	}
	return out
}

// MatchPattern reports whether an event name matches a glob-like pattern.
// A pattern is either an exact name or contains `*` wildcards that match
// any run of characters; a bare `*` matches everything.
func MatchPattern(pattern, name string) bool {
	if pattern == "*" || pattern == name {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	name = name[len(parts[0]):]

	last := len(parts) - 1
	for i := 1; i < last; i++ {
		idx := strings.Index(name, parts[i])
		if idx < 0 {
			return false
		}
		name = name[idx+len(parts[i]):]
	}
	return strings.HasSuffix(name, parts[last])
}
