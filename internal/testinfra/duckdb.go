// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package testinfra

import (
	"testing"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/database"
)

// NewDuckDB returns a migrated in-memory database closed on test cleanup.
func NewDuckDB(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{
		Driver:       database.DriverDuckDB,
		Path:         ":memory:",
		MaxOpenConns: 4,
		AutoMigrate:  true,
	})
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("close duckdb: %v", err)
		}
	})
	return db
}
