// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package scheduler

import (
	"context"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/store"
)

// Job names.
const (
	JobOverdueSweep   = "overdue-collection-sweep"
	JobAuditRetention = "audit-retention"
	JobOTPPurge       = "otp-purge"
	JobBackup         = "database-backup"
)

type CollectionSweeper interface {
	SweepCollections(ctx context.Context) (store.SweepResult, error)
}

type AuditCleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

type OTPPurger interface {
	Purge(ctx context.Context) (int, error)
}

type LockoutCleaner interface {
	Cleanup(ctx context.Context) int
}

type BackupRunner interface {
	RunScheduled(ctx context.Context) error
}

// Deps are the job targets. Nil targets skip their job.
type Deps struct {
	Collections CollectionSweeper
	Audit       AuditCleaner
	OTP         OTPPurger
	Lockout     LockoutCleaner
	Backups     BackupRunner
}

// Register adds the maintenance jobs configured in cfg.
func Register(s *Scheduler, cfg config.SchedulerConfig, d Deps) error {
	var jobs []Job
	if d.Collections != nil {
		jobs = append(jobs, Job{Name: JobOverdueSweep, Spec: cfg.OverdueSweep, Run: func(ctx context.Context) error {
			res, err := d.Collections.SweepCollections(ctx)
			if err != nil {
				return err
			}
			logging.Info().Int("scanned", res.Scanned).Int("overdue", res.MarkedOverdue).
				Int("reprioritised", res.Reprioritised).Msg("Collection sweep finished")
			return nil
		}})
	}
	if d.Audit != nil {
		jobs = append(jobs, Job{Name: JobAuditRetention, Spec: cfg.AuditRetention, Run: func(ctx context.Context) error {
			n, err := d.Audit.Cleanup(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logging.Info().Int64("deleted", n).Msg("Audit retention cleanup finished")
			}
			return nil
		}})
	}
	if d.OTP != nil || d.Lockout != nil {
		jobs = append(jobs, Job{Name: JobOTPPurge, Spec: cfg.OTPPurge, Run: func(ctx context.Context) error {
			purged, locks := 0, 0
			if d.Lockout != nil {
				locks = d.Lockout.Cleanup(ctx)
			}
			if d.OTP != nil {
				n, err := d.OTP.Purge(ctx)
				if err != nil {
					return err
				}
				purged = n
			}
			logging.Debug().Int("otp_records", purged).Int("lockout_entries", locks).Msg("Expired credentials purged")
			return nil
		}})
	}
	if d.Backups != nil {
		jobs = append(jobs, Job{Name: JobBackup, Spec: cfg.Backup, Run: d.Backups.RunScheduled})
	}
	for _, j := range jobs {
		if err := s.Add(j); err != nil {
			return err
		}
	}
	return nil
}
