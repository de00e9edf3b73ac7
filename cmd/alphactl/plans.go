// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/alphaweb/internal/authz"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/store"
)

// standardPlans are the tiers offered to new merchants. Zero limits mean unlimited.
func standardPlans() []models.Plan {
	return []models.Plan{
		{
			Type: models.PlanStandard, Name: "Starter", BillingCycle: models.BillingMonthly,
			Pricing: 5_000_00, Currency: "NGN",
			Features:     models.StringList{"1 branch", "5 agents", "Daily collections"},
			Description:  "For a single shop getting started with agent collections",
			NoOfBranches: 1, NoOfAgents: 5, NoOfCustomers: 200,
		},
		{
			Type: models.PlanStandard, Name: "Growth", BillingCycle: models.BillingMonthly,
			Pricing: 25_000_00, Currency: "NGN",
			Features:     models.StringList{"5 branches", "25 agents", "Loans and investments"},
			Description:  "For merchants running several branches",
			NoOfBranches: 5, NoOfAgents: 25, NoOfCustomers: 2000,
		},
		{
			Type: models.PlanStandard, Name: "Enterprise", BillingCycle: models.BillingYearly,
			Pricing: 2_500_000_00, Currency: "NGN",
			Features:    models.StringList{"Unlimited branches", "Unlimited agents", "Priority support"},
			Description: "Unlimited usage billed yearly",
		},
	}
}

func seedPlansCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-plans",
		Short: "Create the standard subscription plans that do not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, _, err := e.open(ctx, true)
			if err != nil {
				return err
			}
			defer e.close(db)

			st := store.New(db)
			created := 0
			for _, p := range standardPlans() {
				_, err := st.GetPlanByName(ctx, p.Name)
				if err == nil {
					fmt.Fprintf(e.out, "skip   %s (exists)\n", p.Name)
					continue
				}
				if !errors.Is(err, database.ErrNotFound) {
					return err
				}
				if err := st.CreatePlan(ctx, &p); err != nil {
					return fmt.Errorf("create plan %s: %w", p.Name, err)
				}
				fmt.Fprintf(e.out, "create %s (id %d, %s %s)\n", p.Name, p.ID, p.Pricing, p.BillingCycle)
				created++
			}
			fmt.Fprintf(e.out, "%d plan(s) created\n", created)
			return nil
		},
	}
}

func permissionsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "List the permissions an admin role may hold",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range authz.Permissions {
				fmt.Fprintln(e.out, p)
			}
		},
	}
}
