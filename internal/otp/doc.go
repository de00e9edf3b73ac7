// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package otp issues and verifies numeric one-time codes and the short-lived
// password reset tokens that a verified reset code is exchanged for.
//
// Codes are keyed by purpose, principal kind and lower-cased email, expire
// after the configured TTL (10 minutes by default), allow a bounded number of
// wrong guesses and are deleted once used. Issuing is rate limited per key.
//
// Three stores are provided: MemoryStore for single-instance and test use,
// BadgerStore for durable embedded storage, and RedisStore when several API
// instances must share state. Badger and Redis expire records natively.
package otp
