package bus

import (
	"context"
	"time"

	"github.com/ringo380/robin-sub007/event"
)

// Record is the stored form of an event. Payload values are flattened to
// their string rendering: the store is a history and debugging sink, not
// a round-trip serialization of live events (tree and event definitions
// are never persisted).
type Record struct {
	EventID  string
	Name     string
	Priority string
	Source   string
	Time     time.Time
	Data     map[string]string
}

// RecordOf flattens an event into its stored form.
func RecordOf(e *event.Event) Record {
	data := make(map[string]string)
	for _, k := range e.DataKeys() {
		data[k] = e.Data(k).AsString()
	}
	return Record{
		EventID:  e.ID(),
		Name:     e.Name(),
		Priority: e.Priority().String(),
		Source:   e.Source(),
		Time:     e.Timestamp(),
		Data:     data,
	}
}

// EventStore persists event history for inspection.
type EventStore interface {
	// Append stores an event.
	Append(ctx context.Context, e *event.Event) error

	// List returns stored records whose names match the glob pattern
	// ("*" for all), oldest first. limit caps the result (0 means no
	// limit).
	List(ctx context.Context, pattern string, limit int) ([]Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}
