// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Command alphactl runs offline maintenance against the Alphaweb database:
// schema migrations, bootstrapping the first super admin, seeding the
// standard plans, listing console permissions and managing DuckDB backups.
//
// It reads the same configuration as the server (config.yaml and the
// environment), so DATABASE_DRIVER, DATABASE_URL and DUCKDB_PATH select
// the target database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/logging"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// env carries what every subcommand needs. Tests replace the functions.
type env struct {
	out    io.Writer
	config func() (*config.Config, error)
	open   func(ctx context.Context, migrate bool) (*database.DB, *config.Config, error)
	close  func(db *database.DB)
}

func openConfigured(_ context.Context, migrate bool) (*database.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	dbCfg := cfg.Database
	dbCfg.AutoMigrate = migrate
	db, err := database.New(&dbCfg)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}

func closeDB(db *database.DB) {
	if err := db.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing database")
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "alphactl",
		Short:         "Alphaweb maintenance commands",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(e.out)

	root.AddCommand(migrateCmd(e))
	root.AddCommand(createSuperAdminCmd(e))
	root.AddCommand(seedPlansCmd(e))
	root.AddCommand(permissionsCmd(e))
	root.AddCommand(backupCmd(e))
	root.AddCommand(versionCmd(e))
	return root
}

func versionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(e.out, "alphactl %s\n", Version)
		},
	}
}

func main() {
	logging.Init(logging.Config{Level: "warn", Format: "console"})

	e := &env{out: os.Stdout, config: config.Load, open: openConfigured, close: closeDB}
	if err := newRootCmd(e).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
