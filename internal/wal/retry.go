// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package wal

import (
	"context"
	"time"

	"github.com/tomtom215/alphaweb/internal/logging"
)

const maxBackoff = 5 * time.Minute

// Publisher re-sends a pending entry. *events.Bus implements it.
type Publisher interface {
	PublishEntry(ctx context.Context, e *Entry) error
}

// RetryLoop republishes pending entries. It implements suture.Service.
type RetryLoop struct {
	wal *WAL
	pub Publisher
	now func() time.Time
}

// NewRetryLoop returns a loop that drains w through pub.
func NewRetryLoop(w *WAL, pub Publisher) *RetryLoop {
	return &RetryLoop{wal: w, pub: pub, now: time.Now}
}

// Serve replays pending entries at once, then on every RetryInterval.
// The value log is compacted every CompactInterval.
func (r *RetryLoop) Serve(ctx context.Context) error {
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.wal.cfg.RetryInterval)
	defer ticker.Stop()
	compact := time.NewTicker(r.wal.cfg.CompactInterval)
	defer compact.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-compact.C:
			if n := r.wal.Compact(); n > 0 {
				logging.Debug().Int("rounds", n).Msg("Compacted WAL value log")
			}
		}
	}
}

func (r *RetryLoop) String() string {
	return "event-wal"
}

// RunOnce makes one pass over the pending entries and returns how many
// were published.
func (r *RetryLoop) RunOnce(ctx context.Context) int {
	entries, err := r.wal.Pending(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Reading pending WAL entries failed")
		return 0
	}

	published := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		if !r.wal.claim(e.ID) {
			continue
		}
		if r.handle(ctx, e) {
			published++
		}
		r.wal.Release(e.ID)
	}
	if published > 0 {
		logging.Info().Int("published", published).Int("pending", len(entries)).Msg("Republished events from WAL")
	}
	return published
}

func (r *RetryLoop) handle(ctx context.Context, e *Entry) bool {
	now := r.now()
	cfg := r.wal.cfg
	switch {
	case now.Sub(e.CreatedAt) > cfg.EntryTTL:
		r.wal.drop(e, "expired")
		return false
	case e.Attempts >= cfg.MaxRetries:
		r.wal.drop(e, "dropped")
		return false
	case !e.LastAttemptAt.IsZero() && now.Before(e.LastAttemptAt.Add(backoff(cfg.RetryBackoff, e.Attempts))):
		return false
	}

	if err := r.pub.PublishEntry(ctx, e); err != nil {
		if uerr := r.wal.recordAttempt(e, err); uerr != nil {
			logging.Error().Err(uerr).Str("entry_id", e.ID).Msg("Failed to record WAL attempt")
		}
		return false
	}
	if err := r.wal.Confirm(ctx, e.ID); err != nil {
		logging.Warn().Err(err).Str("entry_id", e.ID).Msg("Published event still in WAL")
	}
	return true
}

// backoff is base*2^attempts, capped at five minutes.
func backoff(base time.Duration, attempts int) time.Duration {
	if attempts > 16 {
		return maxBackoff
	}
	d := base << attempts
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}
