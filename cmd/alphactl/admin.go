// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/store"
)

func createSuperAdminCmd(e *env) *cobra.Command {
	var name, email, password string
	var resetExisting bool

	cmd := &cobra.Command{
		Use:   "create-super-admin",
		Short: "Create the platform owner account",
		Long: `Create a super admin. The password may be passed with --password or
the ALPHAWEB_ADMIN_PASSWORD environment variable.

Examples:
  alphactl create-super-admin --name "Ops" --email ops@alphaweb.ng
  alphactl create-super-admin --email ops@alphaweb.ng --reset-password`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ALPHAWEB_ADMIN_PASSWORD")
			}
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("--email is required")
			}

			ctx := cmd.Context()
			db, cfg, err := e.open(ctx, true)
			if err != nil {
				return err
			}
			defer e.close(db)

			hash, err := auth.HashPassword(password, cfg.Security.BcryptCost)
			if err != nil {
				return err
			}

			st := store.New(db)
			existing, err := st.GetSuperAdminByEmail(ctx, email)
			switch {
			case err == nil && resetExisting:
				if err := st.SetSuperAdminPassword(ctx, existing.ID, hash); err != nil {
					return fmt.Errorf("reset password: %w", err)
				}
				fmt.Fprintf(e.out, "password reset for super admin %d (%s)\n", existing.ID, existing.Email)
				return nil
			case err == nil:
				return fmt.Errorf("super admin %s already exists; use --reset-password", existing.Email)
			case !errors.Is(err, database.ErrNotFound):
				return err
			}

			if name == "" {
				name = "Super Admin"
			}
			a := &models.SuperAdmin{Name: name, Email: email, PasswordHash: hash}
			if err := st.CreateSuperAdmin(ctx, a); err != nil {
				return fmt.Errorf("create super admin: %w", err)
			}
			fmt.Fprintf(e.out, "created super admin %d (%s)\n", a.ID, a.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password (min 8 characters)")
	cmd.Flags().BoolVar(&resetExisting, "reset-password", false, "set the password of an existing super admin")
	return cmd
}
