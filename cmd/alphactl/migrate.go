// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func migrateCmd(e *env) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply every pending schema migration, then print the migration history.

Examples:
  alphactl migrate
  alphactl migrate --status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, _, err := e.open(ctx, false)
			if err != nil {
				return err
			}
			defer e.close(db)

			before, err := db.SchemaVersion(ctx)
			if err != nil {
				if status {
					return fmt.Errorf("schema not initialized, run alphactl migrate: %w", err)
				}
				before = 0
			}
			if !status {
				if err := db.Migrate(ctx); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			history, err := db.MigrationHistory(ctx)
			if err != nil {
				return err
			}
			for _, m := range history {
				fmt.Fprintf(e.out, "%4d  %-32s  %s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			after, err := db.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			if status {
				fmt.Fprintf(e.out, "schema version %d\n", after)
			} else {
				fmt.Fprintf(e.out, "schema version %d -> %d\n", before, after)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "show applied migrations without changing anything")
	return cmd
}
