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
	"github.com/go-redis/redis/v8"

	"github.com/tomtom215/alphaweb/internal/config"
)

// ErrNotFound is returned by stores for missing or expired keys.
var ErrNotFound = errors.New("otp record not found")

// Record is a stored code or reset token.
type Record struct {
	Code      string    `json:"code,omitempty"`
	Subject   string    `json:"subject"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its expiry at now.
func (r *Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Store persists records with a time to live.
type Store interface {
	Save(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Get(ctx context.Context, key string) (Record, error)
	Delete(ctx context.Context, key string) error
	// Purge removes expired records and returns how many were removed.
	// Stores with native expiry return zero.
	Purge(ctx context.Context) (int, error)
	Close() error
}

// NewStore builds the store selected by cfg.Store.
func NewStore(ctx context.Context, cfg *config.OTPConfig) (Store, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(), nil
	case "badger":
		opts := badger.DefaultOptions(cfg.BadgerPath).WithLogger(nil)
		if cfg.BadgerPath == "" {
			opts = opts.WithInMemory(true)
		}
		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open otp badger store: %w", err)
		}
		return NewBadgerStore(db, true), nil
	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return NewRedisStore(client, "alphaweb:"), nil
	default:
		return nil, fmt.Errorf("unknown otp store %q", cfg.Store)
	}
}
