// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/models"
)

func seedLoan(t *testing.T, s *Store, merchantID int64, c *models.Customer) *models.Loan {
	t.Helper()
	l := &models.Loan{
		MerchantID:   merchantID,
		CustomerID:   c.ID,
		CustomerName: c.FullName,
		LoanAmount:   100_000_00,
		InterestRate: 10,
		Duration:     6,
		Status:       models.LoanActive,
	}
	if err := s.CreateLoan(context.Background(), l); err != nil {
		t.Fatalf("CreateLoan() error = %v", err)
	}
	return l
}

func TestCreateLoanDerivesTotals(t *testing.T) {
	s := newTestStore(t)
	m := seedMerchant(t, s, "l@shop.ng")
	l := seedLoan(t, s, m.ID, seedCustomer(t, s, m.ID, "Ada"))

	if l.TotalAmount != 110_000_00 || l.RemainingAmount != 110_000_00 {
		t.Errorf("totals = %d / %d, want 11000000", l.TotalAmount, l.RemainingAmount)
	}
	if want := l.DateIssued.AddDate(0, 6, 0); !l.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", l.DueDate, want)
	}
}

func TestRepaymentsAdjustLoan(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := seedMerchant(t, s, "r@shop.ng")
	l := seedLoan(t, s, m.ID, seedCustomer(t, s, m.ID, "Ada"))

	first := &models.Repayment{MerchantID: m.ID, LoanID: l.ID, Amount: 60_000_00}
	loan, err := s.CreateRepayment(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	if loan.AmountPaid != 60_000_00 || loan.RemainingAmount != 50_000_00 || loan.Status != models.LoanActive {
		t.Errorf("after first payment: %+v", loan)
	}
	if first.TransactionID == "" || first.CustomerName != "Ada" {
		t.Errorf("repayment defaults not applied: %+v", first)
	}

	second := &models.Repayment{MerchantID: m.ID, LoanID: l.ID, Amount: 50_000_00}
	if loan, err = s.CreateRepayment(ctx, second); err != nil {
		t.Fatal(err)
	}
	if loan.Status != models.LoanCompleted || loan.RemainingAmount != 0 {
		t.Errorf("after full payment: %+v", loan)
	}
	if _, err := s.CreateRepayment(ctx, &models.Repayment{MerchantID: m.ID, LoanID: l.ID, Amount: 1}); !errors.Is(err, ErrLoanClosed) {
		t.Errorf("payment on closed loan = %v, want ErrLoanClosed", err)
	}

	if err := s.DeleteRepayment(ctx, m.ID, second.ID); err != nil {
		t.Fatal(err)
	}
	stored, err := s.GetLoan(ctx, m.ID, l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.AmountPaid != 60_000_00 || stored.Status != models.LoanActive {
		t.Errorf("after delete: %+v", stored)
	}

	if _, err := s.SetRepaymentStatus(ctx, m.ID, first.ID, models.PaymentFailed); err != nil {
		t.Fatal(err)
	}
	stored, _ = s.GetLoan(ctx, m.ID, l.ID)
	if stored.AmountPaid != 0 || stored.RemainingAmount != 110_000_00 {
		t.Errorf("after failing payment: %+v", stored)
	}

	stats, err := s.RepaymentStats(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRepayments != 1 || stats.FailedCount != 1 || stats.CompletedAmount != 0 {
		t.Errorf("RepaymentStats() = %+v", stats)
	}
}

func TestPendingRepaymentDoesNotApply(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := seedMerchant(t, s, "p@shop.ng")
	l := seedLoan(t, s, m.ID, seedCustomer(t, s, m.ID, "Ada"))

	r := &models.Repayment{MerchantID: m.ID, LoanID: l.ID, Amount: 10_000_00, Status: models.PaymentPending}
	loan, err := s.CreateRepayment(ctx, r)
	if err != nil {
		t.Fatal(err)
	}
	if loan.AmountPaid != 0 {
		t.Errorf("pending repayment applied: %+v", loan)
	}
	if _, err := s.SetRepaymentStatus(ctx, m.ID, r.ID, models.PaymentCompleted); err != nil {
		t.Fatal(err)
	}
	stored, _ := s.GetLoan(ctx, m.ID, l.ID)
	if stored.AmountPaid != 10_000_00 {
		t.Errorf("completed repayment not applied: %+v", stored)
	}
}

func TestRepaymentForeignLoan(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := seedMerchant(t, s, "a@shop.ng")
	b := seedMerchant(t, s, "b@shop.ng")
	l := seedLoan(t, s, a.ID, seedCustomer(t, s, a.ID, "Ada"))

	_, err := s.CreateRepayment(ctx, &models.Repayment{MerchantID: b.ID, LoanID: l.ID, Amount: 100})
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("repayment on another tenant's loan = %v, want ErrNotFound", err)
	}
}

func TestLoanApplicationStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := seedMerchant(t, s, "app@shop.ng")
	c := seedCustomer(t, s, m.ID, "Ada")

	app := &models.LoanApplication{MerchantID: m.ID, CustomerID: c.ID, CustomerName: c.FullName, RequestedAmount: 5000_00, InterestRate: 5, Duration: 3}
	if err := s.CreateLoanApplication(ctx, app); err != nil {
		t.Fatal(err)
	}
	approver := int64(42)
	got, err := s.SetLoanApplicationStatus(ctx, m.ID, app.ID, models.ApplicationApproved, &approver, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != 42 || got.ApprovedAt == nil {
		t.Errorf("approval not stamped: %+v", got)
	}

	other := &models.LoanApplication{MerchantID: m.ID, CustomerID: c.ID, CustomerName: c.FullName, RequestedAmount: 1, InterestRate: 5, Duration: 1}
	if err := s.CreateLoanApplication(ctx, other); err != nil {
		t.Fatal(err)
	}
	got, err = s.SetLoanApplicationStatus(ctx, m.ID, other.ID, models.ApplicationRejected, nil, "insufficient history")
	if err != nil {
		t.Fatal(err)
	}
	if got.RejectionReason != "insufficient history" || got.ApprovedAt != nil {
		t.Errorf("rejection = %+v", got)
	}

	pending, total, err := s.ListLoanApplications(ctx, m.ID, Filter{Status: models.ApplicationPending})
	if err != nil || total != 0 || len(pending) != 0 {
		t.Errorf("pending applications = %d, %v", total, err)
	}
}

func TestLoanStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := seedMerchant(t, s, "ls@shop.ng")
	c := seedCustomer(t, s, m.ID, "Ada")
	seedLoan(t, s, m.ID, c)
	done := seedLoan(t, s, m.ID, c)
	if err := s.SetLoanStatus(ctx, m.ID, done.ID, models.LoanCompleted, nil); err != nil {
		t.Fatal(err)
	}
	st, err := s.LoanStats(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalLoans != 2 || st.ActiveLoans != 1 || st.CompletedLoans != 1 {
		t.Errorf("LoanStats() counts = %+v", st)
	}
	if st.TotalDisbursed != 200_000_00 || st.TotalOutstanding != 110_000_00 {
		t.Errorf("LoanStats() sums = %+v", st)
	}
}

func TestInvestmentDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := seedMerchant(t, s, "inv@shop.ng")
	c := seedCustomer(t, s, m.ID, "Ada")

	inv := &models.Investment{MerchantID: m.ID, CustomerID: c.ID, CustomerName: c.FullName, Amount: 100_000_00, Plan: "Gold", Duration: 12}
	if err := s.CreateInvestment(ctx, inv); err != nil {
		t.Fatal(err)
	}
	if inv.InterestRate != 15 || inv.ExpectedReturns != 115_000_00 || inv.Status != "Active" {
		t.Errorf("investment terms = %+v", inv)
	}
	items, total, err := s.ListInvestments(ctx, m.ID, Filter{Type: "Gold"})
	if err != nil || total != 1 || len(items) != 1 {
		t.Errorf("ListInvestments(Gold) = %d, %v", total, err)
	}

	tx := &models.InvestmentTransaction{MerchantID: m.ID, CustomerID: c.ID, Customer: c.FullName, Amount: 500_00, TransactionType: "deposit"}
	if err := s.CreateInvestmentTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}
	if tx.Status != "pending" || tx.TransactionDate.IsZero() {
		t.Errorf("transaction defaults = %+v", tx)
	}
}
