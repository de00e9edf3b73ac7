// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/alphaweb/internal/finance"
	"github.com/tomtom215/alphaweb/internal/models"
)

func seedActivity(t *testing.T, s *Store) *models.Merchant {
	t.Helper()
	ctx := context.Background()
	m := seedMerchant(t, s, "dash@shop.ng")
	c := seedCustomer(t, s, m.ID, "Ada")
	if err := s.CreateAgent(ctx, &models.Agent{MerchantID: m.ID, FullName: "Agent A", Email: "a@shop.ng"}); err != nil {
		t.Fatal(err)
	}
	loan := seedLoan(t, s, m.ID, c)
	if _, err := s.CreateRepayment(ctx, &models.Repayment{
		MerchantID: m.ID, LoanID: loan.ID, Amount: 10_000_00,
		PaidAt: time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateInvestment(ctx, &models.Investment{MerchantID: m.ID, CustomerID: c.ID, Amount: 50_000_00, Plan: "Gold", Duration: 6}); err != nil {
		t.Fatal(err)
	}
	fundMerchant(t, s, m.ID, 7_000_00)
	return m
}

func TestDashboardStats(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	m := seedActivity(t, s)

	st, err := s.DashboardStats(context.Background(), m.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := DashboardStats{
		WalletBalance:       7_000_00,
		AllCollectionWallet: 7_000_00,
		TotalDue:            100_000_00,
		TotalCustomers:      1,
		TotalAgents:         1,
		ActiveLoans:         1,
		ActiveInvestments:   1,
		TotalCollections:    10_000_00,
	}
	if *st != want {
		t.Errorf("DashboardStats() = %+v, want %+v", *st, want)
	}

	pie, err := s.AgentCustomerStats(context.Background(), m.ID)
	if err != nil || len(pie) != 2 || pie[0].Value != 1 || pie[1].Value != 1 {
		t.Errorf("AgentCustomerStats() = %+v, %v", pie, err)
	}
}

func TestTransactionStats(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	m := seedActivity(t, s)
	ctx := context.Background()

	months, err := s.TransactionStats(ctx, m.ID, "Last 3 months")
	if err != nil {
		t.Fatal(err)
	}
	if len(months) != 3 {
		t.Fatalf("len = %d, want 3", len(months))
	}
	names := []string{months[0].Name, months[1].Name, months[2].Name}
	if names[0] != "Apr" || names[1] != "May" || names[2] != "Jun" {
		t.Errorf("names = %v", names)
	}
	if months[0].Collection != 10_000_00 || months[1] != (TransactionMonth{Name: "May"}) {
		t.Errorf("Apr/May = %+v / %+v", months[0], months[1])
	}
	if months[2].Loan != 100_000_00 || months[2].Investment != 50_000_00 {
		t.Errorf("Jun = %+v", months[2])
	}

	year, err := s.TransactionStats(ctx, m.ID, "")
	if err != nil || len(year) != 12 {
		t.Errorf("default duration = %d buckets, %v", len(year), err)
	}
	if _, err := s.TransactionStats(ctx, m.ID, "Last 2 weeks"); !errors.Is(err, finance.ErrInvalidDuration) {
		t.Errorf("invalid duration = %v, want ErrInvalidDuration", err)
	}
}
