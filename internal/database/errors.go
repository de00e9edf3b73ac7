// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a unique or reference constraint.
	ErrConflict = errors.New("record conflicts with existing data")
	// ErrTxConflict is returned when a concurrent transaction touched the
	// same rows. The whole transaction may be retried.
	ErrTxConflict = errors.New("concurrent transaction conflict")
)

// PostgreSQL SQLSTATE codes mapped to ErrConflict and ErrTxConflict.
const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// MapError normalises driver errors. Unrecognised errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation, pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pqErr.Message)
		case pqSerializationFailure, pqDeadlockDetected:
			return fmt.Errorf("%w: %s", ErrTxConflict, pqErr.Message)
		}
		return err
	}

	// DuckDB reports constraint failures as "Constraint Error: Duplicate key ...".
	msg := err.Error()
	if strings.Contains(msg, "Conflict on") || strings.Contains(msg, "write-write conflict") {
		return fmt.Errorf("%w: %s", ErrTxConflict, msg)
	}
	if strings.Contains(msg, "Constraint Error") || strings.Contains(msg, "Duplicate key") {
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	}
	return err
}

// closeQuietly closes a resource in error paths where the close error is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
