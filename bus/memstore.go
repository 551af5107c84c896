package bus

import (
	"context"
	"sync"

	"github.com/ringo380/robin-sub007/event"
)

// MemEventStore is an in-memory EventStore, suitable for tests and
// short-lived sessions.
type MemEventStore struct {
	mu      sync.RWMutex
	records []Record
	maxSize int
}

// NewMemEventStore creates an in-memory store. maxSize bounds retained
// history (0 means unbounded); the oldest records are evicted first.
func NewMemEventStore(maxSize int) *MemEventStore {
	return &MemEventStore{maxSize: maxSize}
}

// Append stores an event.
func (s *MemEventStore) Append(_ context.Context, e *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, RecordOf(e))
	if s.maxSize > 0 && len(s.records) > s.maxSize {
		s.records = s.records[len(s.records)-s.maxSize:]
	}
	return nil
}

// List returns matching records, oldest first.
func (s *MemEventStore) List(_ context.Context, pattern string, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.records {
		if pattern != "" && pattern != "*" && !event.MatchPattern(pattern, r.Name) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *MemEventStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Compile-time interface check.
var _ EventStore = (*MemEventStore)(nil)
