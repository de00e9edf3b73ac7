// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package wal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/metrics"
)

var (
	ErrClosed        = errors.New("wal is closed")
	ErrEntryNotFound = errors.New("wal entry not found")
	ErrEmptyTopic    = errors.New("wal entry needs a topic")
)

const prefixPending = "pending:"

// Config tunes the log. Zero values take the defaults below.
type Config struct {
	// Path is the Badger directory. Empty opens an in-memory log for tests.
	Path          string
	SyncWrites    bool
	RetryInterval time.Duration
	RetryBackoff  time.Duration
	MaxRetries    int
	EntryTTL      time.Duration
	// CompactInterval is how often the retry loop reclaims value log space.
	CompactInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.RetryInterval <= 0 {
		c.RetryInterval = 30 * time.Second
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 5 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 100
	}
	if c.EntryTTL <= 0 {
		c.EntryTTL = 7 * 24 * time.Hour
	}
	if c.CompactInterval <= 0 {
		c.CompactInterval = time.Hour
	}
	return c
}

// Entry is one unpublished event.
type Entry struct {
	ID            string            `json:"id"`
	Topic         string            `json:"topic"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	Attempts      int               `json:"attempts"`
	LastAttemptAt time.Time         `json:"last_attempt_at,omitempty"`
	LastError     string            `json:"last_error,omitempty"`
}

// Stats are counters since Open.
type Stats struct {
	Writes   int64
	Confirms int64
	Retries  int64
	Dropped  int64
}

// WAL stores pending events in Badger.
type WAL struct {
	db  *badger.DB
	cfg Config

	writes   atomic.Int64
	confirms atomic.Int64
	retries  atomic.Int64
	dropped  atomic.Int64

	// inflight holds entry IDs currently being published.
	inflight sync.Map

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the log at cfg.Path.
func Open(cfg Config) (*WAL, error) {
	cfg = cfg.withDefaults()
	opts := badger.DefaultOptions(cfg.Path).
		WithSyncWrites(cfg.SyncWrites).
		WithCompression(options.Snappy).
		WithLogger(nil)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open event wal: %w", err)
	}
	logging.Info().Str("path", cfg.Path).Bool("sync_writes", cfg.SyncWrites).Msg("Event WAL opened")
	return &WAL{db: db, cfg: cfg}, nil
}

// Config returns the effective configuration.
func (w *WAL) Config() Config { return w.cfg }

func (w *WAL) checkOpen() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}
	return nil
}

// Write persists an event and returns its entry ID. The ID doubles as the
// broker message UUID so retries are recognisable downstream.
func (w *WAL) Write(_ context.Context, topic string, payload []byte, metadata map[string]string) (string, error) {
	if err := w.checkOpen(); err != nil {
		return "", err
	}
	if topic == "" {
		return "", ErrEmptyTopic
	}
	e := &Entry{
		ID:        uuid.NewString(),
		Topic:     topic,
		Payload:   payload,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := w.put(e); err != nil {
		return "", err
	}
	w.inflight.Store(e.ID, struct{}{})
	w.writes.Add(1)
	metrics.RecordWALEntry("written")
	return e.ID, nil
}

func (w *WAL) put(e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal wal entry: %w", err)
	}
	return w.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(prefixPending+e.ID), data).WithTTL(w.cfg.EntryTTL))
	})
}

// Confirm removes a published entry.
func (w *WAL) Confirm(_ context.Context, id string) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	defer w.inflight.Delete(id)
	if err := w.remove(id); err != nil {
		return err
	}
	w.confirms.Add(1)
	metrics.RecordWALEntry("confirmed")
	return nil
}

// Release hands an entry written by Write over to the retry loop after a
// failed publish.
func (w *WAL) Release(id string) {
	w.inflight.Delete(id)
}

func (w *WAL) remove(id string) error {
	key := []byte(prefixPending + id)
	return w.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// Pending returns every unconfirmed entry in key order.
func (w *WAL) Pending(ctx context.Context) ([]*Entry, error) {
	if err := w.checkOpen(); err != nil {
		return nil, err
	}
	var out []*Entry
	err := w.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e Entry
			if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &e) }); err != nil {
				logging.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("Skipping unreadable WAL entry")
				continue
			}
			out = append(out, &e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate wal: %w", err)
	}
	return out, nil
}

// recordAttempt stores a failed publish on the entry.
func (w *WAL) recordAttempt(e *Entry, cause error) error {
	e.Attempts++
	e.LastAttemptAt = time.Now().UTC()
	e.LastError = cause.Error()
	w.retries.Add(1)
	metrics.RecordWALEntry("retried")
	return w.put(e)
}

// drop deletes an entry that will never be published.
func (w *WAL) drop(e *Entry, outcome string) {
	if err := w.remove(e.ID); err != nil && !errors.Is(err, ErrEntryNotFound) {
		logging.Error().Err(err).Str("entry_id", e.ID).Msg("Failed to delete WAL entry")
		return
	}
	w.dropped.Add(1)
	metrics.RecordWALEntry(outcome)
	logging.Warn().
		Str("entry_id", e.ID).
		Str("topic", e.Topic).
		Int("attempts", e.Attempts).
		Str("last_error", e.LastError).
		Msg("Event dropped from WAL")
}

// claim marks an entry in flight; false means another publisher has it.
func (w *WAL) claim(id string) bool {
	_, loaded := w.inflight.LoadOrStore(id, struct{}{})
	return !loaded
}

// Stats returns the counters.
func (w *WAL) Stats() Stats {
	return Stats{
		Writes:   w.writes.Load(),
		Confirms: w.confirms.Load(),
		Retries:  w.retries.Load(),
		Dropped:  w.dropped.Load(),
	}
}

// Compact runs Badger value log GC until nothing is reclaimed and returns
// the number of files rewritten. In-memory logs have nothing to reclaim.
func (w *WAL) Compact() int {
	if w.checkOpen() != nil {
		return 0
	}
	rounds := 0
	for w.db.RunValueLogGC(0.5) == nil {
		rounds++
	}
	return rounds
}

// Close flushes and closes the log.
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.db.Close()
}
