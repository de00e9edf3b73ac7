// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/database"
)

func setupFileDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{
		Driver:      database.DriverDuckDB,
		Path:        filepath.Join(t.TempDir(), "alphaweb.duckdb"),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testConfig(t *testing.T) *config.BackupConfig {
	t.Helper()
	return &config.BackupConfig{
		Enabled:  true,
		Dir:      filepath.Join(t.TempDir(), "backups"),
		Compress: true,
		MinCount: 1,
		MaxCount: 5,
	}
}

func TestCreateAndVerify(t *testing.T) {
	db := setupFileDB(t)
	ctx := context.Background()
	if _, err := db.Conn().ExecContext(ctx,
		"INSERT INTO merchants (business_name, email, password_hash, created_at, updated_at) VALUES ('Backup Shop', 'b@shop.ng', 'x', now(), now())"); err != nil {
		t.Fatalf("seed merchant: %v", err)
	}

	m, err := NewManager(testConfig(t), db, "merchants")
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	b, err := m.Create(ctx, TriggerManual, "test snapshot")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if b.Status != StatusCompleted || b.Checksum == "" || b.FileSize == 0 {
		t.Errorf("backup = %+v", b)
	}
	if !strings.HasSuffix(b.FilePath, ".tar.gz") {
		t.Errorf("FilePath = %s, want .tar.gz", b.FilePath)
	}
	if b.RecordCounts["merchants"] != 1 {
		t.Errorf("RecordCounts = %v", b.RecordCounts)
	}
	if b.SchemaVersion == 0 {
		t.Error("SchemaVersion not recorded")
	}
	if err := m.Verify(b.ID[:8]); err != nil {
		t.Errorf("Verify() error = %v", err)
	}

	reloaded, err := NewManager(testConfigAt(m.cfg), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.List(); len(got) != 1 || got[0].ID != b.ID {
		t.Errorf("reloaded index = %+v", got)
	}
}

func testConfigAt(cfg config.BackupConfig) *config.BackupConfig { return &cfg }

func TestVerifyDetectsCorruption(t *testing.T) {
	db := setupFileDB(t)
	cfg := testConfig(t)
	cfg.Compress = false
	m, err := NewManager(cfg, db)
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Create(context.Background(), TriggerManual, "")
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(b.FilePath, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("garbage"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := m.Verify(b.ID); err == nil {
		t.Fatal("Verify() should fail on a modified archive")
	}
	got, _ := m.Get(b.ID)
	if got.Status != StatusCorrupted {
		t.Errorf("Status = %s, want corrupted", got.Status)
	}
	if _, err := m.Restore(b.ID, RestoreOptions{Dest: filepath.Join(t.TempDir(), "x.duckdb")}); err == nil {
		t.Error("Restore() of a corrupted backup should fail")
	}
}

func TestRestore(t *testing.T) {
	db := setupFileDB(t)
	ctx := context.Background()
	if _, err := db.Conn().ExecContext(ctx,
		"INSERT INTO merchants (business_name, email, password_hash, created_at, updated_at) VALUES ('Restore Shop', 'r@shop.ng', 'x', now(), now())"); err != nil {
		t.Fatal(err)
	}
	m, err := NewManager(testConfig(t), db)
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Create(ctx, TriggerManual, "")
	if err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "restored", "alphaweb.duckdb")
	if _, err := m.Restore(b.ID, RestoreOptions{Dest: dest}); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if _, err := m.Restore(b.ID, RestoreOptions{Dest: dest}); !errors.Is(err, ErrDestination) {
		t.Errorf("second Restore() error = %v, want ErrDestination", err)
	}

	restored, err := database.New(&config.DatabaseConfig{Driver: database.DriverDuckDB, Path: dest})
	if err != nil {
		t.Fatalf("open restored database: %v", err)
	}
	defer restored.Close()
	var n int
	if err := restored.Conn().GetContext(ctx, &n, "SELECT COUNT(*) FROM merchants WHERE email = 'r@shop.ng'"); err != nil || n != 1 {
		t.Errorf("restored merchants = %d, %v", n, err)
	}
}

func TestCreateGuards(t *testing.T) {
	cfg := testConfig(t)
	cfg.Enabled = false
	m, err := NewManager(cfg, setupFileDB(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create(context.Background(), TriggerManual, ""); !errors.Is(err, ErrDisabled) {
		t.Errorf("disabled Create() error = %v", err)
	}

	memDB, err := database.New(&config.DatabaseConfig{Driver: database.DriverDuckDB, Path: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	defer memDB.Close()
	m, err = NewManager(testConfig(t), memDB)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create(context.Background(), TriggerManual, ""); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("in-memory Create() error = %v", err)
	}
	if _, err := m.Get("missing-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v", err)
	}
}

func TestApplyRetentionRemovesFiles(t *testing.T) {
	db := setupFileDB(t)
	cfg := testConfig(t)
	cfg.MinCount = 1
	cfg.MaxCount = 2
	m, err := NewManager(cfg, db)
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for i := 0; i < 4; i++ {
		b, err := m.Create(context.Background(), TriggerScheduled, "")
		if err != nil {
			t.Fatal(err)
		}
		paths = append(paths, b.FilePath)
	}

	removed, err := m.ApplyRetention(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 || len(m.List()) != 2 {
		t.Fatalf("removed = %d, remaining = %d", removed, len(m.List()))
	}
	gone := 0
	for _, p := range paths {
		if !fileExists(p) {
			gone++
		}
	}
	if gone != 2 {
		t.Errorf("%d archive files removed, want 2", gone)
	}
	if s := m.Stats(); s.TotalCount != 2 || s.LastBackup == nil {
		t.Errorf("Stats() = %+v", s)
	}
}
