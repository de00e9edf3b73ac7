// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tomtom215/alphaweb/internal/finance"
	"github.com/tomtom215/alphaweb/internal/models"
)

// ErrLoanClosed is returned when a repayment targets a completed loan.
var ErrLoanClosed = errors.New("loan is already fully repaid")

// Loan applications

// CreateLoanApplication inserts a loan application and fills in its id and timestamps.
func (s *Store) CreateLoanApplication(ctx context.Context, a *models.LoanApplication) error {
	now := s.timestamp()
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	id, err := insert(ctx, s.q, "loan_applications",
		[]string{"merchant_id", "customer_id", "customer_name", "account_number", "requested_amount",
			"interest_rate", "duration", "agent_id", "agent_name", "branch", "purpose", "collateral",
			"notes", "status", "created_at", "updated_at"},
		a.MerchantID, a.CustomerID, a.CustomerName, a.AccountNumber, a.RequestedAmount,
		a.InterestRate, a.Duration, a.AgentID, a.AgentName, a.Branch, a.Purpose, a.Collateral,
		a.Notes, a.Status, now, now)
	if err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

// GetLoanApplication returns one loan application of the merchant.
func (s *Store) GetLoanApplication(ctx context.Context, merchantID, id int64) (*models.LoanApplication, error) {
	return byID[models.LoanApplication](ctx, s.q, "loan_applications", one(id, merchantID))
}

// ListLoanApplications returns one page of loan applications matching f and the total count.
func (s *Store) ListLoanApplications(ctx context.Context, merchantID int64, f Filter) ([]models.LoanApplication, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).search(f.Search, "customer_name", "account_number", "agent_name")
	return page[models.LoanApplication](ctx, s.q, "loan_applications", w, "created_at DESC, id DESC", f)
}

// UpdateLoanApplication saves the editable fields of a loan application.
func (s *Store) UpdateLoanApplication(ctx context.Context, a *models.LoanApplication) error {
	a.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "loan_applications", map[string]interface{}{
		"requested_amount": a.RequestedAmount,
		"interest_rate":    a.InterestRate,
		"duration":         a.Duration,
		"agent_id":         a.AgentID,
		"agent_name":       a.AgentName,
		"branch":           a.Branch,
		"purpose":          a.Purpose,
		"collateral":       a.Collateral,
		"notes":            a.Notes,
		"updated_at":       a.UpdatedAt,
	}, one(a.ID, a.MerchantID))
}

// SetLoanApplicationStatus moves an application to status. Approval stamps
// the approver and time; rejection stores reason.
func (s *Store) SetLoanApplicationStatus(ctx context.Context, merchantID, id int64, status string, approver *int64, reason string) (*models.LoanApplication, error) {
	now := s.timestamp()
	set := map[string]interface{}{"status": status, "updated_at": now}
	switch status {
	case models.ApplicationApproved:
		set["approved_by"] = approver
		set["approved_at"] = now
	case models.ApplicationRejected:
		set["rejection_reason"] = reason
	}
	if err := update(ctx, s.q, "loan_applications", set, one(id, merchantID)); err != nil {
		return nil, err
	}
	return s.GetLoanApplication(ctx, merchantID, id)
}

// DeleteLoanApplication removes a loan application of the merchant.
func (s *Store) DeleteLoanApplication(ctx context.Context, merchantID, id int64) error {
	return remove(ctx, s.q, "loan_applications", one(id, merchantID))
}

// Loans

// CreateLoan derives the total and remaining amounts from the principal and
// rate when they are unset.
func (s *Store) CreateLoan(ctx context.Context, l *models.Loan) error {
	now := s.timestamp()
	if l.Status == "" {
		l.Status = models.LoanPending
	}
	if l.TotalAmount == 0 {
		l.TotalAmount = finance.LoanTotal(l.LoanAmount, l.InterestRate)
	}
	l.RemainingAmount = l.TotalAmount - l.AmountPaid
	if l.DateIssued.IsZero() {
		l.DateIssued = now
	}
	if l.DueDate.IsZero() {
		l.DueDate = l.DateIssued.AddDate(0, l.Duration, 0)
	}
	id, err := insert(ctx, s.q, "loans",
		[]string{"merchant_id", "customer_id", "customer_name", "account_number", "loan_amount",
			"interest_rate", "duration", "agent_id", "agent_name", "branch", "status", "date_issued",
			"due_date", "notes", "total_amount", "amount_paid", "remaining_amount", "created_at", "updated_at"},
		l.MerchantID, l.CustomerID, l.CustomerName, l.AccountNumber, l.LoanAmount,
		l.InterestRate, l.Duration, l.AgentID, l.AgentName, l.Branch, l.Status, l.DateIssued.UTC(),
		l.DueDate.UTC(), l.Notes, l.TotalAmount, l.AmountPaid, l.RemainingAmount, now, now)
	if err != nil {
		return err
	}
	l.ID, l.CreatedAt, l.UpdatedAt = id, now, now
	return nil
}

// GetLoan returns one loan of the merchant.
func (s *Store) GetLoan(ctx context.Context, merchantID, id int64) (*models.Loan, error) {
	return byID[models.Loan](ctx, s.q, "loans", one(id, merchantID))
}

// ListLoans returns one page of loans matching f and the total count.
func (s *Store) ListLoans(ctx context.Context, merchantID int64, f Filter) ([]models.Loan, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).search(f.Search, "customer_name", "account_number", "agent_name", "branch")
	return page[models.Loan](ctx, s.q, "loans", w, "created_at DESC, id DESC", f)
}

// UpdateLoan rewrites the editable terms and recomputes the total and
// remaining amounts.
func (s *Store) UpdateLoan(ctx context.Context, l *models.Loan) error {
	l.UpdatedAt = s.timestamp()
	l.TotalAmount = finance.LoanTotal(l.LoanAmount, l.InterestRate)
	res := finance.ApplyRepayment(l.TotalAmount, l.AmountPaid, 0)
	l.RemainingAmount = res.RemainingAmount
	return update(ctx, s.q, "loans", map[string]interface{}{
		"loan_amount":      l.LoanAmount,
		"interest_rate":    l.InterestRate,
		"duration":         l.Duration,
		"agent_id":         l.AgentID,
		"agent_name":       l.AgentName,
		"branch":           l.Branch,
		"due_date":         l.DueDate.UTC(),
		"notes":            l.Notes,
		"total_amount":     l.TotalAmount,
		"remaining_amount": l.RemainingAmount,
		"updated_at":       l.UpdatedAt,
	}, one(l.ID, l.MerchantID))
}

// SetLoanStatus changes the status; Active stamps the approver.
func (s *Store) SetLoanStatus(ctx context.Context, merchantID, id int64, status string, approver *int64) error {
	now := s.timestamp()
	set := map[string]interface{}{"status": status, "updated_at": now}
	if status == models.LoanActive && approver != nil {
		set["approved_by"] = approver
		set["approved_at"] = now
	}
	return update(ctx, s.q, "loans", set, one(id, merchantID))
}

// DeleteLoan removes a loan of the merchant.
func (s *Store) DeleteLoan(ctx context.Context, merchantID, id int64) error {
	return remove(ctx, s.q, "loans", one(id, merchantID))
}

// LoanStats summarises a merchant's loan book.
type LoanStats struct {
	TotalLoans       int64        `db:"total_loans" json:"totalLoans"`
	ActiveLoans      int64        `db:"active_loans" json:"activeLoans"`
	CompletedLoans   int64        `db:"completed_loans" json:"completedLoans"`
	DefaultedLoans   int64        `db:"defaulted_loans" json:"defaultedLoans"`
	PendingLoans     int64        `db:"pending_loans" json:"pendingLoans"`
	TotalDisbursed   models.Money `db:"total_disbursed" json:"totalDisbursed"`
	TotalRepaid      models.Money `db:"total_repaid" json:"totalRepaid"`
	TotalOutstanding models.Money `db:"total_outstanding" json:"totalOutstanding"`
}

// LoanStats aggregates loan counts and amounts for the loans summary.
func (s *Store) LoanStats(ctx context.Context, merchantID int64) (*LoanStats, error) {
	var st LoanStats
	err := get(ctx, s.q, "loans", &st, `SELECT
		COUNT(*) AS total_loans,
		COUNT(CASE WHEN status = 'Active' THEN 1 END) AS active_loans,
		COUNT(CASE WHEN status = 'Completed' THEN 1 END) AS completed_loans,
		COUNT(CASE WHEN status = 'Defaulted' THEN 1 END) AS defaulted_loans,
		COUNT(CASE WHEN status = 'Pending' THEN 1 END) AS pending_loans,
		CAST(COALESCE(SUM(loan_amount), 0) AS BIGINT) AS total_disbursed,
		CAST(COALESCE(SUM(amount_paid), 0) AS BIGINT) AS total_repaid,
		CAST(COALESCE(SUM(CASE WHEN status = 'Active' THEN remaining_amount ELSE 0 END), 0) AS BIGINT) AS total_outstanding
		FROM loans WHERE merchant_id = ?`, merchantID)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Repayments

// applyToLoan adds delta to the loan's paid amount and returns the new state.
func (s *Store) applyToLoan(ctx context.Context, merchantID, loanID int64, delta models.Money) (*models.Loan, error) {
	loan, err := s.GetLoan(ctx, merchantID, loanID)
	if err != nil {
		return nil, err
	}
	if delta > 0 && loan.Status == models.LoanCompleted {
		return nil, ErrLoanClosed
	}
	res := finance.ApplyRepayment(loan.TotalAmount, loan.AmountPaid, delta)
	err = update(ctx, s.q, "loans", map[string]interface{}{
		"amount_paid":      res.AmountPaid,
		"remaining_amount": res.RemainingAmount,
		"status":           res.Status,
		"updated_at":       s.timestamp(),
	}, one(loanID, merchantID))
	if err != nil {
		return nil, err
	}
	loan.AmountPaid, loan.RemainingAmount, loan.Status = res.AmountPaid, res.RemainingAmount, res.Status
	return loan, nil
}

// CreateRepayment records a payment and, when it is completed, applies it
// to the loan in the same transaction.
func (s *Store) CreateRepayment(ctx context.Context, r *models.Repayment) (*models.Loan, error) {
	var loan *models.Loan
	err := s.InTx(ctx, func(tx *Store) error {
		var err error
		loan, err = tx.GetLoan(ctx, r.MerchantID, r.LoanID)
		if err != nil {
			return err
		}
		if r.Status == "" {
			r.Status = models.PaymentCompleted
		}
		if r.Status == models.PaymentCompleted {
			if loan, err = tx.applyToLoan(ctx, r.MerchantID, r.LoanID, r.Amount); err != nil {
				return err
			}
		}
		now := tx.timestamp()
		if r.TransactionID == "" {
			r.TransactionID = "RPY-" + uuid.NewString()
		}
		if r.PaidAt.IsZero() {
			r.PaidAt = now
		}
		if r.CustomerID == 0 {
			r.CustomerID, r.CustomerName, r.AccountNumber = loan.CustomerID, loan.CustomerName, loan.AccountNumber
		}
		id, err := insert(ctx, tx.q, "repayments",
			[]string{"merchant_id", "transaction_id", "loan_id", "customer_id", "customer_name", "account_number",
				"package", "amount", "branch", "agent_id", "agent_name", "status", "payment_method", "reference",
				"notes", "paid_at", "created_at", "updated_at"},
			r.MerchantID, r.TransactionID, r.LoanID, r.CustomerID, r.CustomerName, r.AccountNumber,
			r.Package, r.Amount, r.Branch, r.AgentID, r.AgentName, r.Status, r.PaymentMethod, r.Reference,
			r.Notes, r.PaidAt.UTC(), now, now)
		if err != nil {
			return err
		}
		r.ID, r.CreatedAt, r.UpdatedAt = id, now, now
		return nil
	})
	return loan, err
}

// GetRepayment returns one repayment of the merchant.
func (s *Store) GetRepayment(ctx context.Context, merchantID, id int64) (*models.Repayment, error) {
	return byID[models.Repayment](ctx, s.q, "repayments", one(id, merchantID))
}

// RepaymentFilter adds a loan constraint to Filter.
type RepaymentFilter struct {
	Filter
	LoanID int64
}

// ListRepayments returns one page of repayments matching f and the total count.
func (s *Store) ListRepayments(ctx context.Context, merchantID int64, f RepaymentFilter) ([]models.Repayment, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).search(f.Search, "customer_name", "account_number", "transaction_id", "reference")
	if f.LoanID > 0 {
		w.add("loan_id = ?", f.LoanID)
	}
	return page[models.Repayment](ctx, s.q, "repayments", w, "paid_at DESC, id DESC", f.Filter)
}

// UpdateRepayment saves the editable fields of a repayment.
func (s *Store) UpdateRepayment(ctx context.Context, r *models.Repayment) error {
	r.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "repayments", map[string]interface{}{
		"payment_method": r.PaymentMethod,
		"reference":      r.Reference,
		"notes":          r.Notes,
		"branch":         r.Branch,
		"updated_at":     r.UpdatedAt,
	}, one(r.ID, r.MerchantID))
}

// SetRepaymentStatus changes the status and keeps the loan balance in step:
// entering Completed applies the amount, leaving it reverses it.
func (s *Store) SetRepaymentStatus(ctx context.Context, merchantID, id int64, status string) (*models.Repayment, error) {
	var out *models.Repayment
	err := s.InTx(ctx, func(tx *Store) error {
		r, err := tx.GetRepayment(ctx, merchantID, id)
		if err != nil {
			return err
		}
		switch {
		case r.Status != models.PaymentCompleted && status == models.PaymentCompleted:
			_, err = tx.applyToLoan(ctx, merchantID, r.LoanID, r.Amount)
		case r.Status == models.PaymentCompleted && status != models.PaymentCompleted:
			_, err = tx.applyToLoan(ctx, merchantID, r.LoanID, -r.Amount)
		}
		if err != nil {
			return err
		}
		r.Status, r.UpdatedAt = status, tx.timestamp()
		if err := update(ctx, tx.q, "repayments", map[string]interface{}{
			"status": status, "updated_at": r.UpdatedAt,
		}, one(id, merchantID)); err != nil {
			return err
		}
		out = r
		return nil
	})
	return out, err
}

// DeleteRepayment removes a payment and reverses it on the loan when it was
// completed.
func (s *Store) DeleteRepayment(ctx context.Context, merchantID, id int64) error {
	return s.InTx(ctx, func(tx *Store) error {
		r, err := tx.GetRepayment(ctx, merchantID, id)
		if err != nil {
			return err
		}
		if r.Status == models.PaymentCompleted {
			if _, err := tx.applyToLoan(ctx, merchantID, r.LoanID, -r.Amount); err != nil {
				return fmt.Errorf("reverse repayment %d: %w", id, err)
			}
		}
		return remove(ctx, tx.q, "repayments", one(id, merchantID))
	})
}

// RepaymentStats summarises repayments for a merchant.
type RepaymentStats struct {
	TotalRepayments int64        `db:"total_repayments" json:"totalRepayments"`
	CompletedCount  int64        `db:"completed_count" json:"completedCount"`
	PendingCount    int64        `db:"pending_count" json:"pendingCount"`
	FailedCount     int64        `db:"failed_count" json:"failedCount"`
	TotalAmount     models.Money `db:"total_amount" json:"totalAmount"`
	CompletedAmount models.Money `db:"completed_amount" json:"completedAmount"`
}

// RepaymentStats aggregates repayment counts and amounts by status.
func (s *Store) RepaymentStats(ctx context.Context, merchantID int64) (*RepaymentStats, error) {
	var st RepaymentStats
	err := get(ctx, s.q, "repayments", &st, `SELECT
		COUNT(*) AS total_repayments,
		COUNT(CASE WHEN status = 'Completed' THEN 1 END) AS completed_count,
		COUNT(CASE WHEN status = 'Pending' THEN 1 END) AS pending_count,
		COUNT(CASE WHEN status = 'Failed' THEN 1 END) AS failed_count,
		CAST(COALESCE(SUM(amount), 0) AS BIGINT) AS total_amount,
		CAST(COALESCE(SUM(CASE WHEN status = 'Completed' THEN amount ELSE 0 END), 0) AS BIGINT) AS completed_amount
		FROM repayments WHERE merchant_id = ?`, merchantID)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
