// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package backup

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/alphaweb/internal/logging"
)

// ApplyRetention deletes archives the policy no longer keeps and returns
// how many were removed. Failed and corrupted entries are always pruned.
func (m *Manager) ApplyRetention(ctx context.Context) (int, error) {
	doomed := selectForDeletion(m.List(), m.Policy(), time.Now())

	removed := 0
	for _, b := range doomed {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := m.Delete(b.ID); err != nil {
			logging.Warn().Err(err).Str("backup_id", b.ID).Msg("Failed to delete expired backup")
			continue
		}
		removed++
	}
	if removed > 0 {
		logging.Info().Int("removed", removed).Msg("Backup retention applied")
	}
	return removed, nil
}

// selectForDeletion applies the policy to backups. The MinCount newest
// completed archives are always kept.
func selectForDeletion(backups []*Backup, policy RetentionPolicy, now time.Time) []*Backup {
	var completed, doomed []*Backup
	for _, b := range backups {
		switch b.Status {
		case StatusCompleted:
			completed = append(completed, b)
		case StatusFailed, StatusCorrupted:
			doomed = append(doomed, b)
		}
	}
	sort.Slice(completed, func(i, j int) bool { return completed[i].CreatedAt.After(completed[j].CreatedAt) })

	var cutoff time.Time
	if policy.MaxAgeDays > 0 {
		cutoff = now.AddDate(0, 0, -policy.MaxAgeDays)
	}
	kept := 0
	for i, b := range completed {
		switch {
		case i < policy.MinCount:
			kept++
		case !cutoff.IsZero() && b.CreatedAt.Before(cutoff):
			doomed = append(doomed, b)
		case policy.MaxCount > 0 && kept >= policy.MaxCount:
			doomed = append(doomed, b)
		default:
			kept++
		}
	}
	return doomed
}

// RunScheduled creates a scheduled backup and then applies retention.
func (m *Manager) RunScheduled(ctx context.Context) error {
	if _, err := m.Create(ctx, TriggerScheduled, "Scheduled backup"); err != nil {
		return err
	}
	_, err := m.ApplyRetention(ctx)
	return err
}
