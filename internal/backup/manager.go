// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/alphaweb/internal/config"
)

// AppVersion is stamped into every archive; cmd binaries set it at startup.
var AppVersion = "dev"

var (
	ErrDisabled    = errors.New("backups are disabled")
	ErrNotFound    = errors.New("backup not found")
	ErrNoDatabase  = errors.New("database has no file to back up")
	ErrDestination = errors.New("restore destination already exists")
)

// Database is what the manager needs from the open database.
type Database interface {
	Path() string
	Checkpoint(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	RecordCounts(ctx context.Context, tables ...string) (map[string]int64, error)
}

// Manager creates, verifies, prunes and restores archives. It is safe for
// concurrent use; creating archives is serialised.
type Manager struct {
	cfg    config.BackupConfig
	db     Database
	tables []string

	createMu   sync.Mutex
	metadataMu sync.RWMutex
	metadata   *metadataIndex
	metaFile   string
}

// NewManager loads the archive index from cfg.Dir, creating the directory
// when backups are enabled. db may be nil for restore-only use.
func NewManager(cfg *config.BackupConfig, db Database, tables ...string) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("backup configuration is required")
	}
	if cfg.Dir == "" {
		return nil, errors.New("backup directory is required")
	}
	if cfg.Enabled {
		if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create backup directory: %w", err)
		}
	}

	m := &Manager{
		cfg:      *cfg,
		db:       db,
		tables:   tables,
		metaFile: filepath.Join(cfg.Dir, "metadata.json"),
	}
	if err := m.loadMetadata(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read backup index: %w", err)
		}
		m.metadata = &metadataIndex{}
	}
	return m, nil
}

// Policy returns the configured retention policy.
func (m *Manager) Policy() RetentionPolicy {
	return RetentionPolicy{
		MinCount:   m.cfg.MinCount,
		MaxCount:   m.cfg.MaxCount,
		MaxAgeDays: m.cfg.MaxAgeDays,
	}
}

// List returns every indexed backup, newest first.
func (m *Manager) List() []*Backup {
	m.metadataMu.RLock()
	defer m.metadataMu.RUnlock()

	out := make([]*Backup, len(m.metadata.Backups))
	copy(out, m.metadata.Backups)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Get returns the backup with the given ID or a unique ID prefix.
func (m *Manager) Get(id string) (*Backup, error) {
	m.metadataMu.RLock()
	defer m.metadataMu.RUnlock()

	var match *Backup
	for _, b := range m.metadata.Backups {
		if b.ID == id {
			return b, nil
		}
		if len(id) >= 8 && strings.HasPrefix(b.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("backup id %q is ambiguous", id)
			}
			match = b
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}

// Delete removes an archive and its index entry.
func (m *Manager) Delete(id string) error {
	b, err := m.Get(id)
	if err != nil {
		return err
	}
	if err := os.Remove(b.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", b.FilePath, err)
	}

	m.metadataMu.Lock()
	defer m.metadataMu.Unlock()
	kept := m.metadata.Backups[:0]
	for _, existing := range m.metadata.Backups {
		if existing.ID != b.ID {
			kept = append(kept, existing)
		}
	}
	m.metadata.Backups = kept
	return m.saveMetadataLocked()
}

// Stats summarises the index.
func (m *Manager) Stats() Stats {
	m.metadataMu.RLock()
	defer m.metadataMu.RUnlock()

	stats := Stats{CountByStatus: make(map[Status]int), Retention: m.Policy()}
	for _, b := range m.metadata.Backups {
		stats.TotalCount++
		stats.TotalSizeBytes += b.FileSize
		stats.CountByStatus[b.Status]++
		if b.Status == StatusCompleted && (stats.LastBackup == nil || b.CreatedAt.After(stats.LastBackup.CreatedAt)) {
			stats.LastBackup = b
		}
	}
	return stats
}

func (m *Manager) saveBackup(b *Backup) error {
	m.metadataMu.Lock()
	defer m.metadataMu.Unlock()

	for i, existing := range m.metadata.Backups {
		if existing.ID == b.ID {
			m.metadata.Backups[i] = b
			return m.saveMetadataLocked()
		}
	}
	m.metadata.Backups = append(m.metadata.Backups, b)
	return m.saveMetadataLocked()
}

func (m *Manager) loadMetadata() error {
	data, err := os.ReadFile(m.metaFile)
	if err != nil {
		return err
	}
	var idx metadataIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return err
	}
	m.metadata = &idx
	return nil
}

// saveMetadataLocked writes the index atomically. Callers hold metadataMu.
func (m *Manager) saveMetadataLocked() error {
	data, err := json.MarshalIndent(m.metadata, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.metaFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write backup index: %w", err)
	}
	return os.Rename(tmp, m.metaFile)
}
