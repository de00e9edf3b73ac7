// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package models

import "time"

// Package is a savings, loan or investment product offered by a merchant.
type Package struct {
	ID               int64      `db:"id" json:"id"`
	MerchantID       int64      `db:"merchant_id" json:"merchantId"`
	Name             string     `db:"name" json:"name"`
	Type             string     `db:"type" json:"type"`
	Category         string     `db:"category" json:"packageCategory"`
	Amount           Money      `db:"amount" json:"amount"`
	SeedAmount       Money      `db:"seed_amount" json:"seedAmount"`
	SeedType         string     `db:"seed_type" json:"seedType"`
	Period           int        `db:"period" json:"period"`
	CollectionDays   string     `db:"collection_days" json:"collectionDays"`
	Duration         int        `db:"duration" json:"duration"`
	Benefits         StringList `db:"benefits" json:"benefits"`
	Description      string     `db:"description" json:"description"`
	Status           string     `db:"status" json:"status"`
	MaxCustomers     *int       `db:"max_customers" json:"maxCustomers,omitempty"`
	CurrentCustomers int        `db:"current_customers" json:"currentCustomers"`
	InterestRate     float64    `db:"interest_rate" json:"interestRate"`
	MinimumSavings   Money      `db:"minimum_savings" json:"minimumSavings"`
	SavingsFrequency string     `db:"savings_frequency" json:"savingsFrequency"`
	ExtraCharges     Money      `db:"extra_charges" json:"extraCharges"`
	DefaultPenalty   Money      `db:"default_penalty" json:"defaultPenalty"`
	GracePeriod      int        `db:"grace_period" json:"gracePeriod"`
	CreatedAt        time.Time  `db:"created_at" json:"dateCreated"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

// Collection is a scheduled amount due from a customer.
type Collection struct {
	ID                int64      `db:"id" json:"id"`
	MerchantID        int64      `db:"merchant_id" json:"merchantId"`
	CustomerID        int64      `db:"customer_id" json:"customerId"`
	CustomerName      string     `db:"customer_name" json:"customerName"`
	PackageID         *int64     `db:"package_id" json:"packageId,omitempty"`
	PackageName       string     `db:"package_name" json:"packageName"`
	PackageAmount     Money      `db:"package_amount" json:"packageAmount"`
	Amount            Money      `db:"amount" json:"amount"`
	AmountCollected   Money      `db:"amount_collected" json:"amountCollected"`
	CollectedDate     *time.Time `db:"collected_date" json:"collectedDate,omitempty"`
	DueDate           time.Time  `db:"due_date" json:"dueDate"`
	Type              string     `db:"type" json:"type"`
	Status            string     `db:"status" json:"status"`
	Priority          string     `db:"priority" json:"priority"`
	Description       string     `db:"description" json:"description"`
	CollectionNotes   string     `db:"collection_notes" json:"collectionNotes"`
	ReminderSent      bool       `db:"reminder_sent" json:"reminderSent"`
	Cycle             int        `db:"cycle" json:"cycle"`
	CycleCounter      int        `db:"cycle_counter" json:"cycleCounter"`
	IsFirstCollection bool       `db:"is_first_collection" json:"isFirstCollection"`
	CreatedAt         time.Time  `db:"created_at" json:"dateCreated"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}

// LoanApplication is a customer's request for credit awaiting review.
type LoanApplication struct {
	ID              int64      `db:"id" json:"id"`
	MerchantID      int64      `db:"merchant_id" json:"merchantId"`
	CustomerID      int64      `db:"customer_id" json:"customerId"`
	CustomerName    string     `db:"customer_name" json:"customerName"`
	AccountNumber   string     `db:"account_number" json:"accountNumber"`
	RequestedAmount Money      `db:"requested_amount" json:"requestedAmount"`
	InterestRate    float64    `db:"interest_rate" json:"interestRate"`
	Duration        int        `db:"duration" json:"duration"`
	AgentID         *int64     `db:"agent_id" json:"agentId,omitempty"`
	AgentName       string     `db:"agent_name" json:"agentName"`
	Branch          string     `db:"branch" json:"branch"`
	Purpose         string     `db:"purpose" json:"purpose"`
	Collateral      string     `db:"collateral" json:"collateral"`
	Notes           string     `db:"notes" json:"notes"`
	Status          string     `db:"status" json:"status"`
	ApprovedBy      *int64     `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	RejectionReason string     `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"dateApplied"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// Loan is issued credit with running repayment totals.
type Loan struct {
	ID              int64      `db:"id" json:"id"`
	MerchantID      int64      `db:"merchant_id" json:"merchantId"`
	CustomerID      int64      `db:"customer_id" json:"customerId"`
	CustomerName    string     `db:"customer_name" json:"customerName"`
	AccountNumber   string     `db:"account_number" json:"accountNumber"`
	LoanAmount      Money      `db:"loan_amount" json:"loanAmount"`
	InterestRate    float64    `db:"interest_rate" json:"interestRate"`
	Duration        int        `db:"duration" json:"duration"`
	AgentID         *int64     `db:"agent_id" json:"agentId,omitempty"`
	AgentName       string     `db:"agent_name" json:"agentName"`
	Branch          string     `db:"branch" json:"branch"`
	Status          string     `db:"status" json:"status"`
	DateIssued      time.Time  `db:"date_issued" json:"dateIssued"`
	DueDate         time.Time  `db:"due_date" json:"dueDate"`
	Notes           string     `db:"notes" json:"notes"`
	ApprovedBy      *int64     `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	TotalAmount     Money      `db:"total_amount" json:"totalAmount"`
	AmountPaid      Money      `db:"amount_paid" json:"amountPaid"`
	RemainingAmount Money      `db:"remaining_amount" json:"remainingAmount"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// Repayment is a payment applied to a loan.
type Repayment struct {
	ID            int64     `db:"id" json:"id"`
	MerchantID    int64     `db:"merchant_id" json:"merchantId"`
	TransactionID string    `db:"transaction_id" json:"transactionId"`
	LoanID        int64     `db:"loan_id" json:"loanId"`
	CustomerID    int64     `db:"customer_id" json:"customerId"`
	CustomerName  string    `db:"customer_name" json:"customerName"`
	AccountNumber string    `db:"account_number" json:"accountNumber"`
	Package       string    `db:"package" json:"package"`
	Amount        Money     `db:"amount" json:"amount"`
	Branch        string    `db:"branch" json:"branch"`
	AgentID       *int64    `db:"agent_id" json:"agentId,omitempty"`
	AgentName     string    `db:"agent_name" json:"agentName"`
	Status        string    `db:"status" json:"status"`
	PaymentMethod string    `db:"payment_method" json:"paymentMethod"`
	Reference     string    `db:"reference" json:"reference"`
	Notes         string    `db:"notes" json:"notes"`
	PaidAt        time.Time `db:"paid_at" json:"date"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Investment is a customer's fixed-term placement.
type Investment struct {
	ID              int64     `db:"id" json:"id"`
	MerchantID      int64     `db:"merchant_id" json:"merchantId"`
	CustomerID      int64     `db:"customer_id" json:"customerId"`
	CustomerName    string    `db:"customer_name" json:"customerName"`
	AccountNumber   string    `db:"account_number" json:"accountNumber"`
	Amount          Money     `db:"amount" json:"amount"`
	Plan            string    `db:"plan" json:"plan"`
	Duration        int       `db:"duration" json:"duration"`
	InterestRate    float64   `db:"interest_rate" json:"interestRate"`
	Status          string    `db:"status" json:"status"`
	MaturityDate    time.Time `db:"maturity_date" json:"maturityDate"`
	ExpectedReturns Money     `db:"expected_returns" json:"expectedReturns"`
	CurrentValue    Money     `db:"current_value" json:"currentValue"`
	CreatedAt       time.Time `db:"created_at" json:"dateCreated"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

type InvestmentApplication struct {
	ID              int64      `db:"id" json:"id"`
	MerchantID      int64      `db:"merchant_id" json:"merchantId"`
	CustomerID      int64      `db:"customer_id" json:"customerId"`
	CustomerName    string     `db:"customer_name" json:"customerName"`
	AccountNumber   string     `db:"account_number" json:"accountNumber"`
	TargetAmount    Money      `db:"target_amount" json:"targetAmount"`
	Duration        int        `db:"duration" json:"duration"`
	AgentID         *int64     `db:"agent_id" json:"agentId,omitempty"`
	AgentName       string     `db:"agent_name" json:"agentName"`
	Branch          string     `db:"branch" json:"branch"`
	Notes           string     `db:"notes" json:"notes"`
	Status          string     `db:"status" json:"status"`
	ApprovedBy      *int64     `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	RejectionReason string     `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"dateApplied"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

type InvestmentTransaction struct {
	ID              int64     `db:"id" json:"id"`
	MerchantID      int64     `db:"merchant_id" json:"merchantId"`
	CustomerID      int64     `db:"customer_id" json:"customerId"`
	Customer        string    `db:"customer" json:"customer"`
	AccountNumber   string    `db:"account_number" json:"accountNumber"`
	Package         string    `db:"package" json:"package"`
	Amount          Money     `db:"amount" json:"amount"`
	Branch          string    `db:"branch" json:"branch"`
	Agent           string    `db:"agent" json:"agent"`
	TransactionType string    `db:"transaction_type" json:"transactionType"`
	Status          string    `db:"status" json:"status"`
	Notes           string    `db:"notes" json:"notes"`
	TransactionDate time.Time `db:"transaction_date" json:"transactionDate"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
