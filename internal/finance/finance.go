// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package finance holds the pure money and scheduling rules shared by the
// merchant workspace and the admin console. Nothing here touches storage.
package finance

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/alphaweb/internal/models"
)

var hundred = decimal.NewFromInt(100)

// LoanTotal returns amount * (1 + ratePct/100) rounded to minor units.
func LoanTotal(amount models.Money, ratePct float64) models.Money {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(ratePct).Div(hundred))
	return models.Money(decimal.NewFromInt(int64(amount)).Mul(factor).Round(0).IntPart())
}

// RepaymentResult is the loan state after applying a payment.
type RepaymentResult struct {
	AmountPaid      models.Money
	RemainingAmount models.Money
	Status          string
}

// ApplyRepayment adds delta (negative to reverse) to the paid total. The
// remaining amount never drops below zero and the loan completes once
// nothing remains.
func ApplyRepayment(total, paid, delta models.Money) RepaymentResult {
	newPaid := paid + delta
	if newPaid < 0 {
		newPaid = 0
	}
	remaining := total - newPaid
	if remaining < 0 {
		remaining = 0
	}
	status := models.LoanActive
	if remaining <= 0 {
		status = models.LoanCompleted
	}
	return RepaymentResult{AmountPaid: newPaid, RemainingAmount: remaining, Status: status}
}

// DefaultInvestmentRate returns the annual rate for a named plan.
func DefaultInvestmentRate(plan string) float64 {
	switch strings.ToLower(plan) {
	case "gold":
		return 15
	case "silver":
		return 12
	case "bronze":
		return 10
	default:
		return 8
	}
}

// InvestmentTerms are the derived values stored on a new investment.
type InvestmentTerms struct {
	InterestRate    float64
	MaturityDate    time.Time
	ExpectedReturns models.Money
	CurrentValue    models.Money
}

// NewInvestmentTerms computes terms for principal over months. A zero
// ratePct selects the plan default. Expected returns compound annually:
// P * (1 + r)^(months/12).
func NewInvestmentTerms(principal models.Money, plan string, ratePct float64, months int, start time.Time) InvestmentTerms {
	if ratePct <= 0 {
		ratePct = DefaultInvestmentRate(plan)
	}
	growth := math.Pow(1+ratePct/100, float64(months)/12)
	expected := decimal.NewFromInt(int64(principal)).Mul(decimal.NewFromFloat(growth)).Round(0).IntPart()
	return InvestmentTerms{
		InterestRate:    ratePct,
		MaturityDate:    start.AddDate(0, months, 0),
		ExpectedReturns: models.Money(expected),
		CurrentValue:    principal,
	}
}

// CollectionPriority returns the priority for a due date and, for pending
// collections already past due, the Overdue status. Otherwise status is
// returned unchanged.
func CollectionPriority(due, now time.Time, status string) (priority, newStatus string) {
	days := math.Ceil(due.Sub(now).Hours() / 24)
	switch {
	case days < 0:
		if status == models.CollectionPending {
			status = models.CollectionOverdue
		}
		return models.PriorityUrgent, status
	case days <= 3:
		return models.PriorityHigh, status
	case days <= 7:
		return models.PriorityMedium, status
	default:
		return models.PriorityLow, status
	}
}

// DefaultPackageBenefits are applied when a package is created without benefits.
var DefaultPackageBenefits = models.StringList{"Daily savings", "Low interest loans"}

// ApplyPackageDefaults fills derived package fields left empty by the caller.
// Amount thresholds are in major units: 5000 and above earns 15%, 2000 and
// above 12%, otherwise 10%.
func ApplyPackageDefaults(p *models.Package) {
	if len(p.Benefits) == 0 {
		p.Benefits = append(models.StringList(nil), DefaultPackageBenefits...)
	}
	if p.InterestRate == 0 {
		switch {
		case p.Amount >= models.Money(5000_00):
			p.InterestRate = 15
		case p.Amount >= models.Money(2000_00):
			p.InterestRate = 12
		default:
			p.InterestRate = 10
		}
	}
	if p.MinimumSavings == 0 {
		p.MinimumSavings = models.Money(decimal.NewFromInt(int64(p.Amount)).Div(decimal.NewFromInt(10)).Round(0).IntPart())
	}
	if p.SeedAmount == 0 {
		p.SeedAmount = p.Amount
	}
	if p.Type == "" {
		p.Type = "Fixed"
	}
	if p.Category == "" {
		p.Category = "Investment"
	}
	if p.CollectionDays == "" {
		p.CollectionDays = "Daily"
	}
	if p.SavingsFrequency == "" {
		p.SavingsFrequency = "Daily"
	}
	if p.Status == "" {
		p.Status = "Active"
	}
}

// WalletEntry is the subset of a wallet transaction needed for balances.
type WalletEntry struct {
	Type   string       `db:"type"`
	Status string       `db:"status"`
	Amount models.Money `db:"amount"`
}

// WalletBalance sums completed credits minus completed debits and transfers.
// Pending entries of any direction are reported separately.
func WalletBalance(entries []WalletEntry, currency string) models.WalletBalance {
	var balance, pending models.Money
	for _, e := range entries {
		switch e.Status {
		case models.PaymentCompleted:
			if e.Type == models.WalletCredit {
				balance += e.Amount
			} else {
				balance -= e.Amount
			}
		case models.PaymentPending:
			pending += e.Amount
		}
	}
	if currency == "" {
		currency = "NGN"
	}
	return models.WalletBalance{
		Balance:          balance,
		AvailableBalance: balance,
		PendingBalance:   pending,
		Currency:         currency,
	}
}

// ErrInvalidDuration is returned for unsupported merchant stats windows.
var ErrInvalidDuration = errors.New("duration must be one of: Last 3 months, Last 6 months, Last 12 months")

// StatsDurations maps the accepted labels to a month count.
var StatsDurations = map[string]int{
	"Last 3 months":  3,
	"Last 6 months":  6,
	"Last 12 months": 12,
}

// MonthBucket is one month of merchant signups.
type MonthBucket struct {
	Name     string    `json:"name"`
	Start    time.Time `json:"-"`
	Total    int       `json:"Total"`
	Active   int       `json:"Active"`
	Inactive int       `json:"Inactive"`
}

// MonthBuckets returns empty buckets for the calendar months covered by
// duration, oldest first, ending with the month containing now.
func MonthBuckets(duration string, now time.Time) ([]MonthBucket, error) {
	months, ok := StatsDurations[duration]
	if !ok {
		return nil, ErrInvalidDuration
	}
	now = now.UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]MonthBucket, months)
	for i := 0; i < months; i++ {
		start := current.AddDate(0, -(months - 1 - i), 0)
		buckets[i] = MonthBucket{Name: start.Format("Jan"), Start: start}
	}
	return buckets, nil
}

// AddToBuckets counts a merchant created at t with the given status.
func AddToBuckets(buckets []MonthBucket, t time.Time, status string) {
	t = t.UTC()
	for i := len(buckets) - 1; i >= 0; i-- {
		if !t.Before(buckets[i].Start) {
			if i == len(buckets)-1 || t.Before(buckets[i+1].Start) {
				buckets[i].Total++
				if status == models.MerchantActive {
					buckets[i].Active++
				} else {
					buckets[i].Inactive++
				}
			}
			return
		}
	}
}
