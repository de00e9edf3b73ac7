// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package backup snapshots the embedded DuckDB database into tar archives.
//
// Each archive holds the database file (and its WAL when present) plus a
// backup-metadata.json entry carrying SHA-256 checksums for every file.
// An index of all archives is kept in metadata.json inside the backup
// directory.
//
// Archive layout:
//
//	backup-20260314T020000Z-1a2b3c4d.tar.gz
//	├── database/alphaweb.duckdb
//	├── database/alphaweb.duckdb.wal   (when present)
//	└── backup-metadata.json
//
// Retention keeps the MinCount newest archives unconditionally, removes
// archives older than MaxAgeDays and trims the rest down to MaxCount.
//
// Backups only apply to the duckdb driver; a postgres deployment relies on
// the database server's own tooling. Restore is an offline operation run by
// alphactl while the server is stopped.
//
// Usage:
//
//	m, err := backup.NewManager(&cfg.Backup, db)
//	b, err := m.Create(ctx, backup.TriggerManual, "before upgrade")
//	removed, err := m.ApplyRetention(ctx)
package backup
