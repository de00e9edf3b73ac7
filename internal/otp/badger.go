// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const badgerKeyPrefix = "otp:"

// BadgerStore persists records in BadgerDB using entry TTLs.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
}

// NewBadgerStore wraps db. When ownsDB is set, Close closes the database.
func NewBadgerStore(db *badger.DB, ownsDB bool) *BadgerStore {
	return &BadgerStore{db: db, ownsDB: ownsDB}
}

func (s *BadgerStore) Save(_ context.Context, key string, rec Record, ttl time.Duration) error {
	if rec.ExpiresAt.IsZero() {
		rec.ExpiresAt = time.Now().Add(ttl)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(badgerKeyPrefix+key), data).WithTTL(ttl)
		return txn.SetEntry(e)
	})
}

func (s *BadgerStore) Get(_ context.Context, key string) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get otp record: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return Record{}, err
	}
	if rec.Expired(time.Now()) {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *BadgerStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(badgerKeyPrefix + key))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete otp record: %w", err)
		}
		return nil
	})
}

// Purge runs value log GC; expired keys are already invisible.
func (s *BadgerStore) Purge(_ context.Context) (int, error) {
	if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrGCInMemoryMode) {
		return 0, fmt.Errorf("otp value log gc: %w", err)
	}
	return 0, nil
}

func (s *BadgerStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
