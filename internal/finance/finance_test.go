// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/alphaweb/internal/models"
)

func naira(n int64) models.Money { return models.Money(n * 100) }

func TestLoanTotal(t *testing.T) {
	tests := []struct {
		amount models.Money
		rate   float64
		want   models.Money
	}{
		{naira(50000), 15, naira(57500)},
		{naira(10000), 0, naira(10000)},
		{naira(1000), 12.5, naira(1125)},
		{models.Money(333), 10, models.Money(366)},
	}
	for _, tt := range tests {
		if got := LoanTotal(tt.amount, tt.rate); got != tt.want {
			t.Errorf("LoanTotal(%v, %v) = %v, want %v", tt.amount, tt.rate, got, tt.want)
		}
	}
}

func TestApplyRepayment(t *testing.T) {
	total := naira(57500)

	r := ApplyRepayment(total, 0, naira(20000))
	if r.AmountPaid != naira(20000) || r.RemainingAmount != naira(37500) || r.Status != models.LoanActive {
		t.Errorf("partial = %+v", r)
	}

	r = ApplyRepayment(total, naira(50000), naira(10000))
	if r.RemainingAmount != 0 || r.Status != models.LoanCompleted {
		t.Errorf("overpay = %+v, want remaining 0 Completed", r)
	}

	r = ApplyRepayment(total, total, -naira(7500))
	if r.AmountPaid != naira(50000) || r.Status != models.LoanActive {
		t.Errorf("reversal = %+v", r)
	}
}

func TestNewInvestmentTerms(t *testing.T) {
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	terms := NewInvestmentTerms(naira(100000), "Gold", 0, 12, start)
	if terms.InterestRate != 15 {
		t.Errorf("rate = %v, want 15", terms.InterestRate)
	}
	if terms.ExpectedReturns != naira(115000) {
		t.Errorf("expected = %v, want 115000.00", terms.ExpectedReturns)
	}
	if terms.CurrentValue != naira(100000) {
		t.Errorf("current = %v", terms.CurrentValue)
	}
	if !terms.MaturityDate.Equal(start.AddDate(0, 12, 0)) {
		t.Errorf("maturity = %v", terms.MaturityDate)
	}

	for plan, want := range map[string]float64{"silver": 12, "bronze": 10, "platinum": 8} {
		if got := DefaultInvestmentRate(plan); got != want {
			t.Errorf("DefaultInvestmentRate(%q) = %v, want %v", plan, got, want)
		}
	}

	explicit := NewInvestmentTerms(naira(1000), "gold", 20, 6, start)
	if explicit.InterestRate != 20 {
		t.Errorf("explicit rate overridden: %v", explicit.InterestRate)
	}
}

func TestCollectionPriority(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		due        time.Time
		status     string
		wantPrio   string
		wantStatus string
	}{
		{"past due pending", now.Add(-48 * time.Hour), models.CollectionPending, models.PriorityUrgent, models.CollectionOverdue},
		{"past due collected", now.Add(-48 * time.Hour), models.CollectionCollected, models.PriorityUrgent, models.CollectionCollected},
		{"two days", now.Add(48 * time.Hour), models.CollectionPending, models.PriorityHigh, models.CollectionPending},
		{"three days", now.Add(72 * time.Hour), models.CollectionPending, models.PriorityHigh, models.CollectionPending},
		{"six days", now.Add(6 * 24 * time.Hour), models.CollectionPending, models.PriorityMedium, models.CollectionPending},
		{"month", now.Add(30 * 24 * time.Hour), models.CollectionPending, models.PriorityLow, models.CollectionPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prio, status := CollectionPriority(tt.due, now, tt.status)
			if prio != tt.wantPrio || status != tt.wantStatus {
				t.Errorf("got (%s, %s), want (%s, %s)", prio, status, tt.wantPrio, tt.wantStatus)
			}
		})
	}
}

func TestApplyPackageDefaults(t *testing.T) {
	tests := []struct {
		amount   models.Money
		wantRate float64
	}{
		{naira(6000), 15},
		{naira(5000), 15},
		{naira(2000), 12},
		{naira(1999), 10},
	}
	for _, tt := range tests {
		p := &models.Package{Amount: tt.amount}
		ApplyPackageDefaults(p)
		if p.InterestRate != tt.wantRate {
			t.Errorf("amount %v: rate = %v, want %v", tt.amount, p.InterestRate, tt.wantRate)
		}
		if p.MinimumSavings != tt.amount/10 {
			t.Errorf("amount %v: minimum savings = %v", tt.amount, p.MinimumSavings)
		}
		if p.SeedAmount != tt.amount {
			t.Errorf("amount %v: seed = %v", tt.amount, p.SeedAmount)
		}
		if len(p.Benefits) != 2 || p.Benefits[0] != "Daily savings" {
			t.Errorf("benefits = %v", p.Benefits)
		}
	}

	custom := &models.Package{Amount: naira(100), InterestRate: 3, Benefits: models.StringList{"x"}}
	ApplyPackageDefaults(custom)
	if custom.InterestRate != 3 || len(custom.Benefits) != 1 {
		t.Errorf("caller values overwritten: %+v", custom)
	}
}

func TestWalletBalance(t *testing.T) {
	got := WalletBalance([]WalletEntry{
		{Type: models.WalletCredit, Status: models.PaymentCompleted, Amount: naira(1000)},
		{Type: models.WalletDebit, Status: models.PaymentCompleted, Amount: naira(300)},
		{Type: models.WalletTransfer, Status: models.PaymentCompleted, Amount: naira(100)},
		{Type: models.WalletCredit, Status: models.PaymentPending, Amount: naira(50)},
		{Type: models.WalletCredit, Status: models.PaymentFailed, Amount: naira(999)},
	}, "")
	if got.Balance != naira(600) || got.PendingBalance != naira(50) || got.Currency != "NGN" {
		t.Errorf("WalletBalance = %+v", got)
	}
}

func TestMonthBuckets(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	buckets, err := MonthBuckets("Last 3 months", now)
	if err != nil {
		t.Fatal(err)
	}
	names := []string{buckets[0].Name, buckets[1].Name, buckets[2].Name}
	if names[0] != "Jan" || names[1] != "Feb" || names[2] != "Mar" {
		t.Errorf("names = %v", names)
	}

	AddToBuckets(buckets, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), models.MerchantActive)
	AddToBuckets(buckets, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), models.MerchantInactive)
	AddToBuckets(buckets, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), models.MerchantActive)
	if buckets[1].Total != 1 || buckets[1].Active != 1 {
		t.Errorf("feb = %+v", buckets[1])
	}
	if buckets[2].Inactive != 1 || buckets[0].Total != 0 {
		t.Errorf("buckets = %+v", buckets)
	}

	if b, _ := MonthBuckets("Last 12 months", now); len(b) != 12 || b[0].Name != "Apr" {
		t.Errorf("12 month buckets = %d starting %s", len(b), b[0].Name)
	}
	if _, err := MonthBuckets("Last week", now); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("err = %v, want ErrInvalidDuration", err)
	}
}
