// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"

	"github.com/tomtom215/alphaweb/internal/finance"
	"github.com/tomtom215/alphaweb/internal/models"
)

// Investments

// CreateInvestment fills the rate, maturity and expected returns from the
// plan when the caller leaves them empty.
func (s *Store) CreateInvestment(ctx context.Context, inv *models.Investment) error {
	now := s.timestamp()
	terms := finance.NewInvestmentTerms(inv.Amount, inv.Plan, inv.InterestRate, inv.Duration, now)
	inv.InterestRate = terms.InterestRate
	if inv.MaturityDate.IsZero() {
		inv.MaturityDate = terms.MaturityDate
	}
	if inv.ExpectedReturns == 0 {
		inv.ExpectedReturns = terms.ExpectedReturns
	}
	if inv.CurrentValue == 0 {
		inv.CurrentValue = terms.CurrentValue
	}
	if inv.Status == "" {
		inv.Status = "Active"
	}
	id, err := insert(ctx, s.q, "investments",
		[]string{"merchant_id", "customer_id", "customer_name", "account_number", "amount", "plan",
			"duration", "interest_rate", "status", "maturity_date", "expected_returns", "current_value",
			"created_at", "updated_at"},
		inv.MerchantID, inv.CustomerID, inv.CustomerName, inv.AccountNumber, inv.Amount, inv.Plan,
		inv.Duration, inv.InterestRate, inv.Status, inv.MaturityDate.UTC(), inv.ExpectedReturns, inv.CurrentValue,
		now, now)
	if err != nil {
		return err
	}
	inv.ID, inv.CreatedAt, inv.UpdatedAt = id, now, now
	return nil
}

// GetInvestment returns one investment of the merchant.
func (s *Store) GetInvestment(ctx context.Context, merchantID, id int64) (*models.Investment, error) {
	return byID[models.Investment](ctx, s.q, "investments", one(id, merchantID))
}

// ListInvestments returns one page of investments matching f and the total count.
func (s *Store) ListInvestments(ctx context.Context, merchantID int64, f Filter) ([]models.Investment, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).eq("plan", f.Type).search(f.Search, "customer_name", "account_number", "plan")
	return page[models.Investment](ctx, s.q, "investments", w, "created_at DESC, id DESC", f)
}

// UpdateInvestment saves the editable fields of an investment.
func (s *Store) UpdateInvestment(ctx context.Context, inv *models.Investment) error {
	inv.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "investments", map[string]interface{}{
		"plan":             inv.Plan,
		"status":           inv.Status,
		"interest_rate":    inv.InterestRate,
		"maturity_date":    inv.MaturityDate.UTC(),
		"expected_returns": inv.ExpectedReturns,
		"current_value":    inv.CurrentValue,
		"updated_at":       inv.UpdatedAt,
	}, one(inv.ID, inv.MerchantID))
}

// DeleteInvestment removes an investment of the merchant.
func (s *Store) DeleteInvestment(ctx context.Context, merchantID, id int64) error {
	return remove(ctx, s.q, "investments", one(id, merchantID))
}

// Investment applications

// CreateInvestmentApplication inserts an investment application and fills in its id and timestamps.
func (s *Store) CreateInvestmentApplication(ctx context.Context, a *models.InvestmentApplication) error {
	now := s.timestamp()
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	id, err := insert(ctx, s.q, "investment_applications",
		[]string{"merchant_id", "customer_id", "customer_name", "account_number", "target_amount", "duration",
			"agent_id", "agent_name", "branch", "notes", "status", "created_at", "updated_at"},
		a.MerchantID, a.CustomerID, a.CustomerName, a.AccountNumber, a.TargetAmount, a.Duration,
		a.AgentID, a.AgentName, a.Branch, a.Notes, a.Status, now, now)
	if err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

// GetInvestmentApplication returns one investment application of the merchant.
func (s *Store) GetInvestmentApplication(ctx context.Context, merchantID, id int64) (*models.InvestmentApplication, error) {
	return byID[models.InvestmentApplication](ctx, s.q, "investment_applications", one(id, merchantID))
}

// ListInvestmentApplications returns one page of investment applications matching f and the
// total count.
func (s *Store) ListInvestmentApplications(ctx context.Context, merchantID int64, f Filter) ([]models.InvestmentApplication, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).search(f.Search, "customer_name", "account_number", "agent_name")
	return page[models.InvestmentApplication](ctx, s.q, "investment_applications", w, "created_at DESC, id DESC", f)
}

// UpdateInvestmentApplication saves the editable fields of an investment application.
func (s *Store) UpdateInvestmentApplication(ctx context.Context, a *models.InvestmentApplication) error {
	a.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "investment_applications", map[string]interface{}{
		"target_amount": a.TargetAmount,
		"duration":      a.Duration,
		"agent_id":      a.AgentID,
		"agent_name":    a.AgentName,
		"branch":        a.Branch,
		"notes":         a.Notes,
		"updated_at":    a.UpdatedAt,
	}, one(a.ID, a.MerchantID))
}

// SetInvestmentApplicationStatus follows the loan application rules.
func (s *Store) SetInvestmentApplicationStatus(ctx context.Context, merchantID, id int64, status string, approver *int64, reason string) (*models.InvestmentApplication, error) {
	now := s.timestamp()
	set := map[string]interface{}{"status": status, "updated_at": now}
	switch status {
	case models.ApplicationApproved:
		set["approved_by"] = approver
		set["approved_at"] = now
	case models.ApplicationRejected:
		set["rejection_reason"] = reason
	}
	if err := update(ctx, s.q, "investment_applications", set, one(id, merchantID)); err != nil {
		return nil, err
	}
	return s.GetInvestmentApplication(ctx, merchantID, id)
}

// DeleteInvestmentApplication removes an investment application of the merchant.
func (s *Store) DeleteInvestmentApplication(ctx context.Context, merchantID, id int64) error {
	return remove(ctx, s.q, "investment_applications", one(id, merchantID))
}

// Investment transactions

// CreateInvestmentTransaction inserts an investment transaction and fills in its id and timestamps.
func (s *Store) CreateInvestmentTransaction(ctx context.Context, t *models.InvestmentTransaction) error {
	now := s.timestamp()
	if t.Status == "" {
		t.Status = "pending"
	}
	if t.TransactionDate.IsZero() {
		t.TransactionDate = now
	}
	id, err := insert(ctx, s.q, "investment_transactions",
		[]string{"merchant_id", "customer_id", "customer", "account_number", "package", "amount", "branch",
			"agent", "transaction_type", "status", "notes", "transaction_date", "created_at", "updated_at"},
		t.MerchantID, t.CustomerID, t.Customer, t.AccountNumber, t.Package, t.Amount, t.Branch,
		t.Agent, t.TransactionType, t.Status, t.Notes, t.TransactionDate.UTC(), now, now)
	if err != nil {
		return err
	}
	t.ID, t.CreatedAt, t.UpdatedAt = id, now, now
	return nil
}

// GetInvestmentTransaction returns one investment transaction of the merchant.
func (s *Store) GetInvestmentTransaction(ctx context.Context, merchantID, id int64) (*models.InvestmentTransaction, error) {
	return byID[models.InvestmentTransaction](ctx, s.q, "investment_transactions", one(id, merchantID))
}

// ListInvestmentTransactions returns one page of investment transactions matching f and the
// total count.
func (s *Store) ListInvestmentTransactions(ctx context.Context, merchantID int64, f Filter) ([]models.InvestmentTransaction, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).eq("transaction_type", f.Type).
		search(f.Search, "customer", "account_number", "package", "agent")
	return page[models.InvestmentTransaction](ctx, s.q, "investment_transactions", w, "transaction_date DESC, id DESC", f)
}

// UpdateInvestmentTransaction saves the editable fields of an investment transaction.
func (s *Store) UpdateInvestmentTransaction(ctx context.Context, t *models.InvestmentTransaction) error {
	t.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "investment_transactions", map[string]interface{}{
		"package":          t.Package,
		"amount":           t.Amount,
		"branch":           t.Branch,
		"agent":            t.Agent,
		"transaction_type": t.TransactionType,
		"status":           t.Status,
		"notes":            t.Notes,
		"updated_at":       t.UpdatedAt,
	}, one(t.ID, t.MerchantID))
}

// DeleteInvestmentTransaction removes an investment transaction of the merchant.
func (s *Store) DeleteInvestmentTransaction(ctx context.Context, merchantID, id int64) error {
	return remove(ctx, s.q, "investment_transactions", one(id, merchantID))
}
