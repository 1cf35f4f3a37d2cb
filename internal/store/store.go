// Package store persists the single reconciled contact record in SQLite
// and notifies subscribers when it changes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"cardbox/internal/config"
	"cardbox/internal/contact"
	"cardbox/internal/logging"
)

// RecordKey identifies the single contact row. Keeping it versioned lets a
// future payload change live next to old rows instead of migrating them.
const RecordKey = "contact-v1"

type subscriber struct {
	id int64
	fn func(contact.Record)
}

// Store is the observable contact store. The in-memory record is the
// source of truth while the process runs; SQLite writes are best effort
// and failures are logged rather than surfaced, so a broken disk never
// loses an in-flight capture.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger

	mu          sync.Mutex
	current     contact.Record
	subscribers []subscriber
	nextSubID   int64
}

// Open initializes or connects to the contact database and loads the
// persisted record into memory.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   dbPath,
		logger: logging.NewComponentLogger(logger, "store"),
	}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.load(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the current record.
func (s *Store) Get() contact.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set merges the patch into the current record. Existing non-note fields
// win over incoming values; notes accumulate. Every call notifies all
// subscribers with the post-merge snapshot, whether or not the merge
// changed anything, so observers can treat each capture as an event.
func (s *Store) Set(ctx context.Context, patch contact.Patch) contact.Record {
	s.mu.Lock()
	merged := contact.Merge(s.current, patch)
	s.current = merged
	subs := s.snapshotSubscribersLocked()
	s.mu.Unlock()

	s.notify(subs, merged)
	s.persist(ctx, merged)
	return merged
}

// Replace overwrites the record wholesale. Forced manual edits use this;
// merge rules do not apply.
func (s *Store) Replace(ctx context.Context, rec contact.Record) contact.Record {
	s.mu.Lock()
	s.current = rec
	subs := s.snapshotSubscribersLocked()
	s.mu.Unlock()

	s.notify(subs, rec)
	s.persist(ctx, rec)
	return rec
}

// Reset clears the record in memory and on disk.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.current = contact.Record{}
	subs := s.snapshotSubscribersLocked()
	s.mu.Unlock()

	s.notify(subs, contact.Record{})
	if _, err := s.db.ExecContext(ctx, "DELETE FROM contact_record WHERE key = ?", RecordKey); err != nil {
		s.logger.Warn("clear persisted record", logging.Error(err))
	}
}

// Subscribe registers fn for change notifications. Subscribers are called
// synchronously, in registration order, with the post-change record. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(contact.Record)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) snapshotSubscribersLocked() []subscriber {
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	return subs
}

func (s *Store) notify(subs []subscriber, rec contact.Record) {
	for _, sub := range subs {
		sub.fn(rec)
	}
}

// load reads the persisted record into memory. A missing row means a
// fresh start, not an error. A corrupt payload is logged and discarded.
func (s *Store) load(ctx context.Context) error {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM contact_record WHERE key = ?", RecordKey,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load contact record: %w", err)
	}

	var rec contact.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		s.logger.Warn("discard corrupt persisted record", logging.Error(err))
		return nil
	}
	s.mu.Lock()
	s.current = rec
	s.mu.Unlock()
	return nil
}

func (s *Store) persist(ctx context.Context, rec contact.Record) {
	payload, err := json.Marshal(rec)
	if err != nil {
		s.logger.Warn("encode contact record", logging.Error(err))
		return
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO contact_record (key, payload, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		RecordKey,
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.logger.Warn("persist contact record", logging.Error(err))
	}
}
