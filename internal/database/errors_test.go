// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("get merchant: %w", sql.ErrNoRows), ErrNotFound},
		{"pq unique", &pq.Error{Code: "23505", Message: "duplicate key"}, ErrConflict},
		{"pq foreign key", &pq.Error{Code: "23503", Message: "fk"}, ErrConflict},
		{"pq other", &pq.Error{Code: "42P01", Message: "undefined table"}, nil},
		{"duckdb constraint", errors.New(`Constraint Error: Duplicate key "email: a@b.c" violates unique constraint`), ErrConflict},
		{"pq serialization", &pq.Error{Code: "40001", Message: "could not serialize access"}, ErrTxConflict},
		{"pq deadlock", &pq.Error{Code: "40P01", Message: "deadlock detected"}, ErrTxConflict},
		{"duckdb update conflict", errors.New("TransactionContext Error: Conflict on update!"), ErrTxConflict},
		{"passthrough", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.in)
			switch {
			case tt.in == nil:
				if got != nil {
					t.Fatalf("MapError(nil) = %v", got)
				}
			case tt.want == nil:
				if errors.Is(got, ErrConflict) || errors.Is(got, ErrNotFound) || errors.Is(got, ErrTxConflict) {
					t.Fatalf("MapError() = %v, want passthrough", got)
				}
			default:
				if !errors.Is(got, tt.want) {
					t.Fatalf("MapError() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMigrate_SkipsAppliedVersions(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer conn.Close()
	db := NewWithConn(conn, DriverPostgres)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"version"})
	for _, m := range Migrations() {
		rows.AddRow(m.Version)
	}
	mock.ExpectQuery("SELECT version FROM schema_migrations").WillReturnRows(rows)

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMigrate_RollsBackFailedMigration(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer conn.Close()
	db := NewWithConn(conn, DriverPostgres)

	migrations := []Migration{{
		Version:    7,
		Name:       "broken",
		Statements: []string{"ALTER TABLE merchants ADD COLUMN nope"},
	}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE merchants ADD COLUMN nope")).
		WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	err = db.migrate(context.Background(), migrations)
	if err == nil {
		t.Fatal("expected migration error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMigrate_RecordsVersionWithPostgresPlaceholders(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer conn.Close()
	db := NewWithConn(conn, DriverPostgres)

	migrations := []Migration{{Version: 1, Name: "one", Statements: []string{"CREATE TABLE t (id INTEGER)"}}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE t (id INTEGER)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3, $4)")).
		WithArgs(1, "one", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := db.migrate(context.Background(), migrations); err != nil {
		t.Fatalf("migrate() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
