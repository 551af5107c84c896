package bus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ringo380/robin-sub007/event"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS events (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id TEXT NOT NULL,
	name     TEXT NOT NULL,
	priority TEXT NOT NULL,
	source   TEXT NOT NULL,
	time     TEXT NOT NULL,
	data     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_name ON events(name);
CREATE INDEX IF NOT EXISTS idx_events_time ON events(time);
`

// SQLiteStoreConfig configures the SQLite event store.
type SQLiteStoreConfig struct {
	// DSN is the database connection string (e.g. a file path or
	// "file::memory:?cache=shared").
	DSN string

	// RetentionAge deletes records older than this duration (0 = no age
	// pruning).
	RetentionAge time.Duration

	// RetentionCount keeps at most this many records (0 = no count
	// pruning).
	RetentionCount int

	// PruneInterval is how often the background pruner runs (default 1
	// hour).
	PruneInterval time.Duration
}

// SQLiteEventStore persists event history to a SQLite database. It
// enables WAL mode for concurrent read access and runs a background
// pruner when retention is configured.
type SQLiteEventStore struct {
	db   *sql.DB
	cfg  SQLiteStoreConfig
	stop chan struct{}
	done chan struct{}
}

// NewSQLiteEventStore opens (or creates) a SQLite event store.
func NewSQLiteEventStore(cfg SQLiteStoreConfig) (*SQLiteEventStore, error) {
	if cfg.PruneInterval == 0 {
		cfg.PruneInterval = time.Hour
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: set WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: create schema: %w", err)
	}

	s := &SQLiteEventStore{
		db:   db,
		cfg:  cfg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	if cfg.RetentionAge > 0 || cfg.RetentionCount > 0 {
		go s.pruneLoop()
	} else {
		close(s.done)
	}

	return s, nil
}

// Append stores an event in the database.
func (s *SQLiteEventStore) Append(ctx context.Context, e *event.Event) error {
	rec := RecordOf(e)
	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("sqlitestore: marshal data: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, name, priority, source, time, data)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.EventID,
		rec.Name,
		rec.Priority,
		rec.Source,
		rec.Time.Format(time.RFC3339Nano),
		string(dataJSON),
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: append: %w", err)
	}
	return nil
}

// List returns matching records, oldest first. Glob patterns translate
// to SQL LIKE; other metacharacters are matched literally.
func (s *SQLiteEventStore) List(ctx context.Context, pattern string, limit int) ([]Record, error) {
	query := `SELECT event_id, name, priority, source, time, data FROM events`
	var args []any

	if pattern != "" && pattern != "*" {
		query += ` WHERE name LIKE ?`
		args = append(args, strings.ReplaceAll(pattern, "*", "%"))
	}
	query += ` ORDER BY id ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var ts, dataJSON string
		if err := rows.Scan(&rec.EventID, &rec.Name, &rec.Priority, &rec.Source, &ts, &dataJSON); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan: %w", err)
		}
		rec.Time, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("sqlitestore: parse time: %w", err)
		}
		if err := json.Unmarshal([]byte(dataJSON), &rec.Data); err != nil {
			return nil, fmt.Errorf("sqlitestore: unmarshal data: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (s *SQLiteEventStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: count: %w", err)
	}
	return count, nil
}

// Close stops the background pruner and closes the database connection.
func (s *SQLiteEventStore) Close() error {
	select {
	case <-s.stop:
		// Already closed.
	default:
		close(s.stop)
	}
	<-s.done
	return s.db.Close()
}

// Prune runs a single pruning pass. Exported for testing.
func (s *SQLiteEventStore) Prune(ctx context.Context) error {
	if s.cfg.RetentionAge > 0 {
		cutoff := time.Now().Add(-s.cfg.RetentionAge).Format(time.RFC3339Nano)
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM events WHERE time < ?`, cutoff,
		); err != nil {
			return fmt.Errorf("sqlitestore: prune by age: %w", err)
		}
	}

	if s.cfg.RetentionCount > 0 {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM events WHERE id NOT IN (
				SELECT id FROM events ORDER BY id DESC LIMIT ?
			)`, s.cfg.RetentionCount,
		); err != nil {
			return fmt.Errorf("sqlitestore: prune by count: %w", err)
		}
	}

	return nil
}

func (s *SQLiteEventStore) pruneLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.Prune(context.Background()); err != nil {
				// Pruning is best-effort; the next tick retries.
				continue
			}
		}
	}
}

// Compile-time interface check.
var _ EventStore = (*SQLiteEventStore)(nil)
