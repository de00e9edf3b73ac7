// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package backup

import "time"

// Status is the state of a backup archive.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	// StatusCorrupted marks an archive whose checksum no longer matches.
	StatusCorrupted Status = "corrupted"
)

// Trigger records what started a backup.
type Trigger string

const (
	TriggerManual     Trigger = "manual"
	TriggerScheduled  Trigger = "scheduled"
	TriggerPreRestore Trigger = "pre_restore"
)

// Backup is the index entry for one archive.
type Backup struct {
	ID            string           `json:"id"`
	Status        Status           `json:"status"`
	Trigger       Trigger          `json:"trigger"`
	CreatedAt     time.Time        `json:"created_at"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	Duration      time.Duration    `json:"duration_ms"`
	FilePath      string           `json:"file_path"`
	FileSize      int64            `json:"file_size"`
	Checksum      string           `json:"checksum"`
	Compressed    bool             `json:"compressed"`
	AppVersion    string           `json:"app_version"`
	SchemaVersion int              `json:"schema_version"`
	RecordCounts  map[string]int64 `json:"record_counts,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Error         string           `json:"error,omitempty"`
	Files         []File           `json:"files"`
}

// File is one archive member.
type File struct {
	Path         string    `json:"path"`
	OriginalPath string    `json:"original_path"`
	Size         int64     `json:"size"`
	ModTime      time.Time `json:"mod_time"`
	Checksum     string    `json:"checksum"`
}

// RetentionPolicy decides which completed archives survive a prune.
type RetentionPolicy struct {
	MinCount   int `json:"min_count"`
	MaxCount   int `json:"max_count"`
	MaxAgeDays int `json:"max_age_days"`
}

// Stats summarises the archive index.
type Stats struct {
	TotalCount     int             `json:"total_count"`
	TotalSizeBytes int64           `json:"total_size_bytes"`
	CountByStatus  map[Status]int  `json:"count_by_status"`
	LastBackup     *Backup         `json:"last_backup,omitempty"`
	Retention      RetentionPolicy `json:"retention"`
}

// metadataIndex is persisted as metadata.json in the backup directory.
type metadataIndex struct {
	Backups []*Backup `json:"backups"`
}
