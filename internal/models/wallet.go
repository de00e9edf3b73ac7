// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package models

import "time"

// WalletTransaction is a movement on the merchant's own wallet.
type WalletTransaction struct {
	ID              int64     `db:"id" json:"id"`
	MerchantID      int64     `db:"merchant_id" json:"merchantId"`
	Type            string    `db:"type" json:"type"`
	TransactionType string    `db:"transaction_type" json:"transactionType"`
	Amount          Money     `db:"amount" json:"amount"`
	Description     string    `db:"description" json:"description"`
	Reference       string    `db:"reference" json:"reference"`
	Status          string    `db:"status" json:"status"`
	BalanceBefore   Money     `db:"balance_before" json:"balanceBefore"`
	BalanceAfter    Money     `db:"balance_after" json:"balanceAfter"`
	Category        string    `db:"category" json:"category"`
	RelatedID       *int64    `db:"related_id" json:"relatedId,omitempty"`
	RelatedType     string    `db:"related_type" json:"relatedType"`
	PaymentMethod   string    `db:"payment_method" json:"paymentMethod"`
	Notes           string    `db:"notes" json:"notes"`
	ProcessedBy     *int64    `db:"processed_by" json:"processedBy,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"date"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// WalletBalance summarises the merchant wallet.
type WalletBalance struct {
	Balance          Money  `json:"balance"`
	AvailableBalance Money  `json:"availableBalance"`
	PendingBalance   Money  `json:"pendingBalance"`
	Currency         string `json:"currency"`
}

// CustomerWallet is the stored-value account opened for each customer.
type CustomerWallet struct {
	ID                  int64      `db:"id" json:"id"`
	MerchantID          int64      `db:"merchant_id" json:"merchantId"`
	CustomerID          int64      `db:"customer_id" json:"customerId"`
	CustomerName        string     `db:"customer_name" json:"customerName,omitempty"`
	AccountNumber       string     `db:"account_number" json:"accountNumber"`
	AccountLevel        string     `db:"account_level" json:"accountLevel"`
	Balance             Money      `db:"balance" json:"balance"`
	Status              string     `db:"status" json:"status"`
	LastTransactionDate *time.Time `db:"last_transaction_date" json:"lastTransactionDate,omitempty"`
	ActivationDate      time.Time  `db:"activation_date" json:"activationDate"`
	DailyLimit          Money      `db:"daily_limit" json:"dailyLimit"`
	MonthlyLimit        Money      `db:"monthly_limit" json:"monthlyLimit"`
	Notes               string     `db:"notes" json:"notes"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

// Customer wallet defaults.
const (
	DefaultWalletLevel        = "Tier 1"
	DefaultWalletDailyLimit   = Money(1_000_000_00)
	DefaultWalletMonthlyLimit = Money(10_000_000_00)
)

// Remittance is cash an agent has collected and must hand over.
type Remittance struct {
	ID            int64      `db:"id" json:"id"`
	MerchantID    int64      `db:"merchant_id" json:"merchantId"`
	CollectionID  *int64     `db:"collection_id" json:"collectionId,omitempty"`
	CustomerID    int64      `db:"customer_id" json:"customerId"`
	CustomerName  string     `db:"customer_name" json:"customerName"`
	AccountNumber string     `db:"account_number" json:"accountNumber"`
	Amount        Money      `db:"amount" json:"amount"`
	AgentID       *int64     `db:"agent_id" json:"agentId,omitempty"`
	AgentName     string     `db:"agent_name" json:"agentName"`
	Status        string     `db:"status" json:"status"`
	Notes         string     `db:"notes" json:"notes"`
	ApprovedAt    *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// Charge is a fee a merchant can levy on customers.
type Charge struct {
	ID         int64     `db:"id" json:"id"`
	MerchantID int64     `db:"merchant_id" json:"merchantId"`
	ChargeName string    `db:"charge_name" json:"chargeName"`
	Type       string    `db:"type" json:"type"`
	Amount     Money     `db:"amount" json:"amount"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// ChargeAssignment applies a charge to one customer.
type ChargeAssignment struct {
	ID           int64      `db:"id" json:"id"`
	MerchantID   int64      `db:"merchant_id" json:"merchantId"`
	ChargeID     int64      `db:"charge_id" json:"chargeId"`
	ChargeName   string     `db:"charge_name" json:"chargeName,omitempty"`
	CustomerID   int64      `db:"customer_id" json:"customerId"`
	CustomerName string     `db:"customer_name" json:"customerName,omitempty"`
	Amount       Money      `db:"amount" json:"amount"`
	DueDate      time.Time  `db:"due_date" json:"dueDate"`
	Status       string     `db:"status" json:"status"`
	DateApplied  time.Time  `db:"date_applied" json:"dateApplied"`
	DatePaid     *time.Time `db:"date_paid" json:"datePaid,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}
