// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"time"

	"github.com/tomtom215/alphaweb/internal/finance"
	"github.com/tomtom215/alphaweb/internal/models"
)

// DashboardStats is the merchant dashboard header.
type DashboardStats struct {
	WalletBalance       models.Money `json:"walletBalance"`
	AllCollectionWallet models.Money `json:"allCollectionWallet"`
	TotalDue            models.Money `db:"total_due" json:"totalDue"`
	TotalCustomers      int64        `db:"total_customers" json:"totalCustomers"`
	TotalAgents         int64        `db:"total_agents" json:"totalAgents"`
	ActiveLoans         int64        `db:"active_loans" json:"activeLoans"`
	ActiveInvestments   int64        `db:"active_investments" json:"activeInvestments"`
	TotalCollections    models.Money `db:"total_collections" json:"totalCollections"`
}

// DashboardStats computes the merchant dashboard totals.
func (s *Store) DashboardStats(ctx context.Context, merchantID int64) (*DashboardStats, error) {
	var st DashboardStats
	err := get(ctx, s.q, "dashboard", &st, `SELECT
		(SELECT COUNT(*) FROM customers WHERE merchant_id = ?) AS total_customers,
		(SELECT COUNT(*) FROM agents WHERE merchant_id = ?) AS total_agents,
		(SELECT COUNT(*) FROM loans WHERE merchant_id = ? AND status = 'Active') AS active_loans,
		(SELECT COUNT(*) FROM investments WHERE merchant_id = ? AND status = 'Active') AS active_investments,
		(SELECT CAST(COALESCE(SUM(amount), 0) AS BIGINT) FROM repayments
			WHERE merchant_id = ? AND status = 'Completed') AS total_collections,
		(SELECT CAST(COALESCE(SUM(remaining_amount), 0) AS BIGINT) FROM loans
			WHERE merchant_id = ? AND status = 'Active') AS total_due`,
		merchantID, merchantID, merchantID, merchantID, merchantID, merchantID)
	if err != nil {
		return nil, err
	}
	bal, err := s.WalletBalance(ctx, merchantID, "")
	if err != nil {
		return nil, err
	}
	st.WalletBalance = bal.Balance
	st.AllCollectionWallet = bal.Balance
	return &st, nil
}

// TransactionMonth is one month of the dashboard chart.
type TransactionMonth struct {
	Name       string       `json:"name"`
	Collection models.Money `json:"Collection"`
	Investment models.Money `json:"Investment"`
	Loan       models.Money `json:"Loan"`
}

type datedAmount struct {
	At     time.Time    `db:"at"`
	Amount models.Money `db:"amount"`
}

// TransactionStats buckets completed repayments, new investments and issued
// loans by calendar month. An empty duration means the last 12 months.
func (s *Store) TransactionStats(ctx context.Context, merchantID int64, duration string) ([]TransactionMonth, error) {
	if duration == "" {
		duration = "Last 12 months"
	}
	buckets, err := finance.MonthBuckets(duration, s.now())
	if err != nil {
		return nil, err
	}
	since := buckets[0].Start
	months := make([]TransactionMonth, len(buckets))
	for i, b := range buckets {
		months[i].Name = b.Name
	}

	sources := []struct {
		table string
		query string
		add   func(m *TransactionMonth, v models.Money)
	}{
		{"repayments", "SELECT paid_at AS at, amount FROM repayments WHERE merchant_id = ? AND status = 'Completed' AND paid_at >= ?",
			func(m *TransactionMonth, v models.Money) { m.Collection += v }},
		{"investments", "SELECT created_at AS at, amount FROM investments WHERE merchant_id = ? AND created_at >= ?",
			func(m *TransactionMonth, v models.Money) { m.Investment += v }},
		{"loans", "SELECT date_issued AS at, loan_amount AS amount FROM loans WHERE merchant_id = ? AND date_issued >= ?",
			func(m *TransactionMonth, v models.Money) { m.Loan += v }},
	}
	for _, src := range sources {
		var rows []datedAmount
		if err := selectAll(ctx, s.q, src.table, &rows, src.query, merchantID, since); err != nil {
			return nil, err
		}
		for _, r := range rows {
			if i := monthIndex(buckets, r.At); i >= 0 {
				src.add(&months[i], r.Amount)
			}
		}
	}
	return months, nil
}

func monthIndex(buckets []finance.MonthBucket, t time.Time) int {
	t = t.UTC()
	for i := len(buckets) - 1; i >= 0; i-- {
		if !t.Before(buckets[i].Start) {
			return i
		}
	}
	return -1
}

// PieSlice is one segment of a dashboard pie chart.
type PieSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// AgentCustomerStats returns the agent and customer counts for the pie chart.
func (s *Store) AgentCustomerStats(ctx context.Context, merchantID int64) ([]PieSlice, error) {
	u, err := s.TenantUsage(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	return []PieSlice{
		{Name: "Agents", Value: u.Agents},
		{Name: "Customers", Value: u.Customers},
	}, nil
}
