// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

//go:build integration

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/testinfra"
)

func newPostgresStore(t *testing.T) *Store {
	t.Helper()
	container := testinfra.Start(t, testinfra.NewPostgresContainer)

	db, err := database.New(&config.DatabaseConfig{
		Driver:      database.DriverPostgres,
		DSN:         container.DSN,
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("database.New(postgres) error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestPostgresTenantFlow(t *testing.T) {
	ctx := context.Background()
	s := newPostgresStore(t)

	m := seedMerchant(t, s, "pg@shop.ng")
	if err := s.CreateMerchant(ctx, &models.Merchant{BusinessName: "Dup", Email: "PG@shop.ng", PasswordHash: "x"}); !errors.Is(err, database.ErrConflict) {
		t.Errorf("duplicate email = %v, want ErrConflict", err)
	}

	c := seedCustomer(t, s, m.ID, "Ngozi")
	w := seedWallet(t, s, c, 0)
	fundMerchant(t, s, m.ID, 10_000_00)

	res, err := s.TransferToCustomer(ctx, Transfer{MerchantID: m.ID, CustomerID: c.ID, Amount: 4_000_00})
	if err != nil {
		t.Fatalf("TransferToCustomer() error = %v", err)
	}
	if res.Wallet.ID != w.ID || res.Wallet.Balance != 4_000_00 {
		t.Errorf("customer wallet = %+v", res.Wallet)
	}
	if _, err := s.TransferToCustomer(ctx, Transfer{MerchantID: m.ID, CustomerID: c.ID, Amount: 50_000_00}); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("overdraft = %v, want ErrInsufficientFunds", err)
	}

	bal, err := s.WalletBalance(ctx, m.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if bal.Balance != 6_000_00 {
		t.Errorf("merchant balance = %d, want 600000", bal.Balance)
	}

	loan := seedLoan(t, s, m.ID, c)
	if loan.TotalAmount != 110_000_00 {
		t.Errorf("TotalAmount = %d", loan.TotalAmount)
	}
	got, err := s.CreateRepayment(ctx, &models.Repayment{MerchantID: m.ID, LoanID: loan.ID, Amount: 110_000_00})
	if err != nil {
		t.Fatalf("CreateRepayment() error = %v", err)
	}
	if got.Status != models.LoanCompleted {
		t.Errorf("loan status = %s, want Completed", got.Status)
	}

	other := seedMerchant(t, s, "other@shop.ng")
	if _, err := s.GetLoan(ctx, other.ID, loan.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("foreign loan = %v, want ErrNotFound", err)
	}
}
