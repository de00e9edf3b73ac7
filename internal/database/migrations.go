// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/alphaweb/internal/logging"
)

// Migration is a versioned, append-only schema change.
type Migration struct {
	Version     int       `db:"version"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Statements  []string  `db:"-"`
	AppliedAt   time.Time `db:"applied_at"`
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	applied_at TIMESTAMP NOT NULL
)`

// Migrations returns every migration in version order. Never edit or remove
// an entry once released; append a new version instead.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Name:        "initial_schema",
			Description: "Create tenant, platform, lending and support tables",
			Statements:  initialSchema(),
		},
		{
			Version:     2,
			Name:        "tenant_indexes",
			Description: "Index merchant scoped lookups and audit queries",
			Statements:  indexes,
		},
	}
}

// Migrate applies pending migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return db.migrate(ctx, Migrations())
}

func (db *DB) migrate(ctx context.Context, migrations []Migration) error {
	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		err := db.WithTx(ctx, func(tx *sqlx.Tx) error {
			for _, stmt := range m.Statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx, tx.Rebind(
				`INSERT INTO schema_migrations (version, name, description, applied_at) VALUES (?, ?, ?, ?)`),
				m.Version, m.Name, m.Description, time.Now().UTC())
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration v%d (%s): %w", m.Version, m.Name, err)
		}
		count++
	}

	if count > 0 {
		logging.Info().Int("count", count).Msg("Applied database migrations")
	}
	return nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[int]bool, error) {
	var versions []int
	if err := db.conn.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations ORDER BY version`); err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// SchemaVersion returns the highest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := db.conn.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// MigrationHistory returns applied migrations in order.
func (db *DB) MigrationHistory(ctx context.Context) ([]Migration, error) {
	var history []Migration
	err := db.conn.SelectContext(ctx, &history,
		`SELECT version, name, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}
	return history, nil
}
