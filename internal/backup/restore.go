// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package backup

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tomtom215/alphaweb/internal/logging"
)

// maxRestoreFileSize bounds a single extracted member.
const maxRestoreFileSize = 32 << 30

// RestoreOptions controls an offline restore.
type RestoreOptions struct {
	// Dest is the database file to write.
	Dest string
	// Overwrite replaces an existing Dest (and its WAL).
	Overwrite bool
}

// Restore verifies the archive and extracts the database into opts.Dest.
// The server must not have Dest open.
func (m *Manager) Restore(id string, opts RestoreOptions) (*Backup, error) {
	b, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusCompleted {
		return nil, fmt.Errorf("backup %s is %s and cannot be restored", b.ID, b.Status)
	}
	if err := verifyArchive(b); err != nil {
		return nil, fmt.Errorf("backup %s failed verification: %w", b.ID, err)
	}
	if opts.Dest == "" {
		return nil, errors.New("restore destination is required")
	}
	if fileExists(opts.Dest) && !opts.Overwrite {
		return nil, fmt.Errorf("%w: %s", ErrDestination, opts.Dest)
	}

	dir := filepath.Dir(opts.Dest)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	tmpDir, err := os.MkdirTemp(dir, ".restore-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck // scratch space

	targets := map[string]string{
		archiveDBName:  filepath.Join(tmpDir, "db"),
		archiveWALName: filepath.Join(tmpDir, "db.wal"),
	}
	err = walkArchive(b.FilePath, func(hdr *tar.Header, r io.Reader) error {
		dst, ok := targets[hdr.Name]
		if !ok {
			return nil
		}
		return extractFile(r, dst, hdr.Size)
	}, nil)
	if err != nil {
		return nil, err
	}
	if !fileExists(targets[archiveDBName]) {
		return nil, fmt.Errorf("backup %s has no database file", b.ID)
	}

	_ = os.Remove(opts.Dest + ".wal")
	if err := os.Rename(targets[archiveDBName], opts.Dest); err != nil {
		return nil, fmt.Errorf("failed to move restored database into place: %w", err)
	}
	if fileExists(targets[archiveWALName]) {
		if err := os.Rename(targets[archiveWALName], opts.Dest+".wal"); err != nil {
			return nil, fmt.Errorf("failed to move restored WAL into place: %w", err)
		}
	}

	logging.Info().Str("backup_id", b.ID).Str("dest", opts.Dest).Msg("Database restored from backup")
	return b, nil
}

//nolint:gosec // dst is inside a private temp directory
func extractFile(r io.Reader, dst string, size int64) error {
	if size > maxRestoreFileSize {
		return fmt.Errorf("archive member too large: %d bytes", size)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o640)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, io.LimitReader(r, size))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
	}
	return err
}
