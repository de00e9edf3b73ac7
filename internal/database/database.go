// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/logging"
)

const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

func init() {
	sqlx.BindDriver(DriverDuckDB, sqlx.QUESTION)
}

// DB wraps the pooled connection shared by the repositories.
type DB struct {
	conn   *sqlx.DB
	driver string
	path   string
}

// Queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type Queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// New opens the configured database and, when AutoMigrate is set, applies
// pending migrations.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	var dsn string
	switch cfg.Driver {
	case DriverDuckDB:
		dsn = cfg.Path
		if dsn == ":memory:" {
			dsn = ""
		}
		if dsn != "" {
			dir := filepath.Dir(dsn)
			if dir != "" && dir != "." {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
				}
			}
		}
	case DriverPostgres:
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	db := &DB{conn: conn, driver: cfg.Driver, path: dsn}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			closeQuietly(conn)
			return nil, err
		}
	}

	logging.Info().Str("driver", cfg.Driver).Msg("Database ready")
	return db, nil
}

// NewWithConn wraps an existing *sql.DB, for example a sqlmock connection.
func NewWithConn(conn *sql.DB, driver string) *DB {
	return &DB{conn: sqlx.NewDb(conn, driver), driver: driver}
}

// Conn returns the pooled connection.
func (db *DB) Conn() *sqlx.DB { return db.conn }

// Driver returns the driver name in use.
func (db *DB) Driver() string { return db.driver }

// Path returns the DuckDB file path, or "" for postgres and in-memory databases.
func (db *DB) Path() string {
	if db.driver != DriverDuckDB {
		return ""
	}
	return db.path
}

// Checkpoint flushes the DuckDB write-ahead log into the database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	if db.driver != DriverDuckDB {
		return nil
	}
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// RecordCounts returns row counts for the given tables.
func (db *DB) RecordCounts(ctx context.Context, tables ...string) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		//nolint:gosec // table names come from a fixed list
		if err := db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Warn().Err(rbErr).Msg("Transaction rollback failed")
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", MapError(err))
	}
	return nil
}
