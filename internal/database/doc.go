// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package database owns the relational connection used by every repository.
//
// # Drivers
//
// Two drivers are supported behind a single *sqlx.DB:
//   - duckdb (default): embedded, file backed or ":memory:" for tests
//   - postgres: github.com/lib/pq, selected with database.driver=postgres
//
// Queries are written with "?" placeholders and passed through Rebind, so the
// same SQL runs on both drivers.
//
// # Schema
//
// The schema is portable DDL: sequences for surrogate keys, CREATE ... IF NOT
// EXISTS, TEXT for JSON payloads, BIGINT minor units for money and FLOAT8 for
// rates. Versioned migrations are tracked in schema_migrations and applied
// once each, in order, inside their own transaction.
//
// # Errors
//
// MapError normalises driver errors into ErrNotFound and ErrConflict so
// callers can branch with errors.Is regardless of the driver in use.
package database
