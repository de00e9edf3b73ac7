// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package wal is a BadgerDB write-ahead log for domain events published to
// an external broker.
//
// With the NATS backend a publish can fail while the broker is unreachable.
// The event bus writes every event here first, publishes, and deletes the
// entry on success:
//
//	Publish → WAL Write (fsync) → NATS Publish → WAL Confirm
//	                                   ↓ (on failure)
//	                             entry kept for RetryLoop
//
// RetryLoop runs under the supervisor. It replays entries left by a crash
// when it starts, then retries pending entries on an interval with
// exponential backoff. Entries past EntryTTL or MaxRetries are dropped and
// logged.
//
// Badger holds an exclusive lock on its directory, so one process owns the
// log; in-flight claims are therefore tracked in memory.
package wal
