// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/metrics"
)

const (
	archiveDBName   = "database/alphaweb.duckdb"
	archiveWALName  = "database/alphaweb.duckdb.wal"
	archiveMetaName = "backup-metadata.json"
)

type archiveWriters struct {
	tw      *tar.Writer
	closers []io.Closer
}

// Close closes the writers innermost first and returns the first error.
func (aw *archiveWriters) Close() error {
	var firstErr error
	for i := len(aw.closers) - 1; i >= 0; i-- {
		if err := aw.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Create checkpoints the database and writes a new archive.
func (m *Manager) Create(ctx context.Context, trigger Trigger, notes string) (*Backup, error) {
	if !m.cfg.Enabled {
		return nil, ErrDisabled
	}
	if m.db == nil || m.db.Path() == "" {
		return nil, ErrNoDatabase
	}

	m.createMu.Lock()
	defer m.createMu.Unlock()

	start := time.Now().UTC()
	id := uuid.New().String()
	ext := ".tar"
	if m.cfg.Compress {
		ext = ".tar.gz"
	}
	b := &Backup{
		ID:         id,
		Status:     StatusInProgress,
		Trigger:    trigger,
		CreatedAt:  start,
		FilePath:   filepath.Join(m.cfg.Dir, fmt.Sprintf("backup-%s-%s%s", start.Format("20060102T150405Z"), id[:8], ext)),
		Compressed: m.cfg.Compress,
		AppVersion: AppVersion,
		Notes:      notes,
	}
	pending := *b
	if err := m.saveBackup(&pending); err != nil {
		return nil, err
	}

	err := m.writeArchive(ctx, b)
	if err == nil {
		b.Checksum, err = fileChecksum(b.FilePath)
	}
	done := time.Now().UTC()
	b.CompletedAt = &done
	b.Duration = done.Sub(start)
	if err != nil {
		b.Status = StatusFailed
		b.Error = err.Error()
		_ = os.Remove(b.FilePath)
	} else {
		b.Status = StatusCompleted
		b.FileSize = fileSize(b.FilePath)
	}
	metrics.RecordBackup(string(trigger), b.FileSize, err)

	if saveErr := m.saveBackup(b); saveErr != nil && err == nil {
		err = saveErr
	}
	if err != nil {
		logging.Error().Err(err).Str("backup_id", b.ID).Msg("Backup failed")
		return b, fmt.Errorf("backup %s failed: %w", b.ID, err)
	}

	logging.Info().
		Str("backup_id", b.ID).
		Str("file", b.FilePath).
		Int64("size", b.FileSize).
		Dur("duration", b.Duration).
		Msg("Backup completed")
	return b, nil
}

func (m *Manager) writeArchive(ctx context.Context, b *Backup) (err error) {
	aw, err := m.openArchive(b.FilePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := aw.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := m.db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Checkpoint failed, backup may miss uncommitted pages")
	}
	if v, err := m.db.SchemaVersion(ctx); err == nil {
		b.SchemaVersion = v
	}
	if len(m.tables) > 0 {
		counts, err := m.db.RecordCounts(ctx, m.tables...)
		if err != nil {
			logging.Warn().Err(err).Msg("Could not count records for backup metadata")
		} else {
			b.RecordCounts = counts
		}
	}

	dbPath := m.db.Path()
	if err := addFile(aw.tw, dbPath, archiveDBName, b); err != nil {
		return err
	}
	if fileExists(dbPath + ".wal") {
		if err := addFile(aw.tw, dbPath+".wal", archiveWALName, b); err != nil {
			return err
		}
	}
	return addMetadata(aw.tw, b)
}

//nolint:gosec // path is derived from the configured backup directory
func (m *Manager) openArchive(path string) (*archiveWriters, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}
	aw := &archiveWriters{closers: []io.Closer{f}}

	var dst io.Writer = f
	if m.cfg.Compress {
		gz := gzip.NewWriter(f)
		aw.closers = append(aw.closers, gz)
		dst = gz
	}
	aw.tw = tar.NewWriter(dst)
	aw.closers = append(aw.closers, aw.tw)
	return aw, nil
}

//nolint:gosec // src is the configured database path
func addFile(tw *tar.Writer, src, name string, b *Backup) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", name, err)
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tw, h), io.LimitReader(f, info.Size())); err != nil {
		return fmt.Errorf("failed to archive %s: %w", src, err)
	}
	b.Files = append(b.Files, File{
		Path:         name,
		OriginalPath: src,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		Checksum:     hex.EncodeToString(h.Sum(nil)),
	})
	return nil
}

func addMetadata(tw *tar.Writer, b *Backup) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	hdr := &tar.Header{Name: archiveMetaName, Size: int64(len(data)), Mode: 0o640, ModTime: time.Now()}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = tw.Write(data)
	return err
}

// Verify recomputes the archive checksum and every member checksum. A
// mismatch marks the backup corrupted.
func (m *Manager) Verify(id string) error {
	b, err := m.Get(id)
	if err != nil {
		return err
	}
	verr := verifyArchive(b)
	if verr != nil && b.Status == StatusCompleted {
		corrupted := *b
		corrupted.Status = StatusCorrupted
		corrupted.Error = verr.Error()
		if err := m.saveBackup(&corrupted); err != nil {
			logging.Warn().Err(err).Msg("Failed to record corrupted backup")
		}
	}
	return verr
}

func verifyArchive(b *Backup) error {
	sum, err := fileChecksum(b.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	if sum != b.Checksum {
		return fmt.Errorf("archive checksum mismatch: got %s, want %s", sum, b.Checksum)
	}

	want := make(map[string]string, len(b.Files))
	for _, f := range b.Files {
		want[f.Path] = f.Checksum
	}
	return walkArchive(b.FilePath, func(hdr *tar.Header, r io.Reader) error {
		expected, ok := want[hdr.Name]
		if !ok {
			return nil
		}
		h := sha256.New()
		if _, err := io.Copy(h, r); err != nil {
			return err
		}
		if got := hex.EncodeToString(h.Sum(nil)); got != expected {
			return fmt.Errorf("%s checksum mismatch", hdr.Name)
		}
		delete(want, hdr.Name)
		return nil
	}, func() error {
		for name := range want {
			return fmt.Errorf("%s missing from archive", name)
		}
		return nil
	})
}

// walkArchive calls fn for every regular file in the archive, then done.
//
//nolint:gosec // path comes from the backup index
func walkArchive(path string, fn func(*tar.Header, io.Reader) error, done func() error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // read-only

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close() //nolint:errcheck // read-only
		r = gz
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
	if done != nil {
		return done()
	}
	return nil
}

//nolint:gosec // path comes from the backup index
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck // read-only

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
