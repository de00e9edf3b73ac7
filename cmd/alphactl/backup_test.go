// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/database"
)

func newFileHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: database.DriverDuckDB, Path: filepath.Join(dir, "alphaweb.duckdb"), AutoMigrate: true},
		Backup:   config.BackupConfig{Dir: filepath.Join(dir, "backups"), Compress: true, MinCount: 1, MaxCount: 10},
	}
	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("open file database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	out := &bytes.Buffer{}
	return &harness{
		db:  db,
		out: out,
		env: &env{
			out:    out,
			config: func() (*config.Config, error) { return cfg, nil },
			open: func(context.Context, bool) (*database.DB, *config.Config, error) {
				return db, cfg, nil
			},
			close: func(*database.DB) {},
		},
	}
}

func TestBackupCommands(t *testing.T) {
	h := newFileHarness(t)

	if err := h.run(t, "backup", "create", "--notes", "before upgrade"); err != nil {
		t.Fatalf("backup create: %v", err)
	}
	fields := strings.Fields(h.out.String())
	if len(fields) < 2 || fields[0] != "created" {
		t.Fatalf("create output = %q", h.out.String())
	}
	id := fields[1]

	if err := h.run(t, "backup", "list"); err != nil {
		t.Fatal(err)
	}
	if got := h.out.String(); !strings.Contains(got, "before upgrade") || !strings.Contains(got, "1 backup(s)") {
		t.Errorf("list output = %q", got)
	}

	if err := h.run(t, "backup", "verify", id[:8]); err != nil {
		t.Fatalf("backup verify: %v", err)
	}

	other := filepath.Join(t.TempDir(), "copy.duckdb")
	if err := h.run(t, "backup", "restore", id, "--dest", other); err != nil {
		t.Fatalf("restore to new path: %v", err)
	}
	if !strings.Contains(h.out.String(), "restored "+id) {
		t.Errorf("restore output = %q", h.out.String())
	}

	if err := h.run(t, "backup", "restore", id); err == nil {
		t.Error("restore over the live database without --force accepted")
	}
	if err := h.run(t, "backup", "restore", id, "--force"); err != nil {
		t.Fatalf("forced restore: %v", err)
	}
	if !strings.Contains(h.out.String(), "saved current database") {
		t.Errorf("forced restore output = %q", h.out.String())
	}

	if err := h.run(t, "backup", "prune"); err != nil {
		t.Fatal(err)
	}
	if got := h.out.String(); !strings.Contains(got, "0 backup(s) removed") {
		t.Errorf("prune output = %q", got)
	}
	if err := h.run(t, "backup", "verify", "does-not-exist"); err == nil {
		t.Error("verify of unknown backup succeeded")
	}
}
