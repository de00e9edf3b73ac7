// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/alphaweb/internal/backup"
	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/database"
)

func backupCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list, verify, prune and restore DuckDB backups",
		Long: `Manage archives of the DuckDB database in BACKUP_DIR.

Restore must run while the server is stopped.

Examples:
  alphactl backup create --notes "before upgrade"
  alphactl backup list
  alphactl backup verify 1a2b3c4d
  alphactl backup restore 1a2b3c4d --force`,
	}
	cmd.AddCommand(backupCreateCmd(e), backupListCmd(e), backupVerifyCmd(e), backupPruneCmd(e), backupRestoreCmd(e))
	return cmd
}

// indexOnly opens the archive index without touching the database.
func (e *env) indexOnly() (*backup.Manager, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	return backup.NewManager(&cfg.Backup, nil)
}

func backupCreateCmd(e *env) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Archive the database now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := e.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.close(db)

			backupCfg := cfg.Backup
			backupCfg.Enabled = true
			backup.AppVersion = Version
			m, err := backup.NewManager(&backupCfg, db, database.Tables...)
			if err != nil {
				return err
			}
			b, err := m.Create(cmd.Context(), backup.TriggerManual, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "created %s (%d bytes) %s\n", b.ID, b.FileSize, b.FilePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "free-form note stored with the backup")
	return cmd
}

func backupListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archives, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := e.indexOnly()
			if err != nil {
				return err
			}
			for _, b := range m.List() {
				fmt.Fprintf(e.out, "%s  %-11s  %-9s  %s  %10d  %s\n",
					b.ID[:8], b.Status, b.Trigger, b.CreatedAt.Format("2006-01-02 15:04:05"), b.FileSize, b.Notes)
			}
			s := m.Stats()
			fmt.Fprintf(e.out, "%d backup(s), %d bytes\n", s.TotalCount, s.TotalSizeBytes)
			return nil
		},
	}
}

func backupVerifyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "verify ID",
		Short: "Recompute archive checksums",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := e.indexOnly()
			if err != nil {
				return err
			}
			if err := m.Verify(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "backup %s ok\n", args[0])
			return nil
		},
	}
}

func backupPruneCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Apply the retention policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := e.indexOnly()
			if err != nil {
				return err
			}
			n, err := m.ApplyRetention(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%d backup(s) removed\n", n)
			return nil
		},
	}
}

func backupRestoreCmd(e *env) *cobra.Command {
	var dest string
	var force bool
	cmd := &cobra.Command{
		Use:   "restore ID",
		Short: "Replace the database file with an archive",
		Long: `Extract a verified archive over the configured DuckDB file.

With --force an existing database is first archived with trigger pre_restore.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			if dest == "" {
				if cfg.Database.Driver != database.DriverDuckDB {
					return fmt.Errorf("restore needs a duckdb database, configured driver is %s", cfg.Database.Driver)
				}
				dest = cfg.Database.Path
			}

			backupCfg := cfg.Backup
			backupCfg.Enabled = true
			m, err := backup.NewManager(&backupCfg, nil)
			if err != nil {
				return err
			}
			if force && dest == cfg.Database.Path {
				if err := e.preRestoreSnapshot(cmd, &backupCfg); err != nil {
					return fmt.Errorf("pre-restore backup: %w", err)
				}
				if m, err = backup.NewManager(&backupCfg, nil); err != nil {
					return err
				}
			}

			b, err := m.Restore(args[0], backup.RestoreOptions{Dest: dest, Overwrite: force})
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "restored %s into %s (schema version %d)\n", b.ID, dest, b.SchemaVersion)
			return nil
		},
	}
	cmd.Flags().StringVar(&dest, "dest", "", "database file to write (default DUCKDB_PATH)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing database file")
	return cmd
}

func (e *env) preRestoreSnapshot(cmd *cobra.Command, cfg *config.BackupConfig) error {
	db, _, err := e.open(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer e.close(db)
	if db.Path() == "" {
		return nil
	}
	m, err := backup.NewManager(cfg, db, database.Tables...)
	if err != nil {
		return err
	}
	b, err := m.Create(cmd.Context(), backup.TriggerPreRestore, "Automatic snapshot before restore")
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "saved current database as %s\n", b.ID[:8])
	return nil
}
