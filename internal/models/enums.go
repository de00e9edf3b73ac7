// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package models

// Merchant status values set by the admin console.
const (
	MerchantActive   = "Active"
	MerchantInactive = "Inactive"
)

// ValidMerchantStatus reports whether s may be assigned to a merchant.
func ValidMerchantStatus(s string) bool {
	return s == MerchantActive || s == MerchantInactive
}

// Plan enumerations.
const (
	PlanStandard = "standard"
	PlanCustom   = "custom"

	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

// Collection statuses and priorities.
const (
	CollectionPending   = "Pending"
	CollectionCollected = "Collected"
	CollectionOverdue   = "Overdue"
	CollectionPartial   = "Partial"
	CollectionCancelled = "Cancelled"

	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

var collectionStatuses = []string{CollectionPending, CollectionCollected, CollectionOverdue, CollectionPartial, CollectionCancelled}

var collectionTypes = []string{"Loan Repayment", "Savings Collection", "Investment Return", "Package Payment", "Other"}

func ValidCollectionStatus(s string) bool { return oneOf(s, collectionStatuses) }

func ValidCollectionType(s string) bool { return oneOf(s, collectionTypes) }

// Loan and application statuses.
const (
	LoanPending   = "Pending"
	LoanActive    = "Active"
	LoanCompleted = "Completed"
	LoanDefaulted = "Defaulted"

	ApplicationPending   = "Pending"
	ApplicationApproved  = "Approved"
	ApplicationRejected  = "Rejected"
	ApplicationCompleted = "Completed"
)

func ValidLoanStatus(s string) bool {
	return oneOf(s, []string{LoanPending, LoanActive, LoanCompleted, LoanDefaulted})
}

func ValidApplicationStatus(s string) bool {
	return oneOf(s, []string{ApplicationPending, ApplicationApproved, ApplicationRejected, ApplicationCompleted})
}

// Repayment and wallet statuses.
const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
)

func ValidPaymentStatus(s string) bool {
	return oneOf(s, []string{PaymentPending, PaymentCompleted, PaymentFailed})
}

// Wallet transaction directions.
const (
	WalletCredit   = "credit"
	WalletDebit    = "debit"
	WalletTransfer = "transfer"
)

// Customer wallet statuses.
const (
	CustomerWalletActive    = "Active"
	CustomerWalletSuspended = "Suspended"
	CustomerWalletClosed    = "Closed"
)

func ValidCustomerWalletStatus(s string) bool {
	return oneOf(s, []string{CustomerWalletActive, CustomerWalletSuspended, CustomerWalletClosed})
}

// Investment transaction types and statuses.
var (
	investmentTxTypes    = []string{"deposit", "withdrawal", "interest", "penalty"}
	investmentTxStatuses = []string{"pending", "completed", "cancelled"}
)

func ValidInvestmentTxType(s string) bool { return oneOf(s, investmentTxTypes) }

func ValidInvestmentTxStatus(s string) bool { return oneOf(s, investmentTxStatuses) }

// Charge types and assignment statuses.
func ValidChargeType(s string) bool { return oneOf(s, []string{"Loan", "Penalty", "Service"}) }

func ValidChargeAssignmentStatus(s string) bool {
	return oneOf(s, []string{"Pending", "Paid", "Overdue"})
}

// Remittance statuses.
const (
	RemittancePending  = "Pending"
	RemittanceApproved = "Approved"
	RemittanceRejected = "Rejected"
)

// Package enumerations.
var (
	packageTypes      = []string{"Fixed", "Variable", "Flexible"}
	packageCategories = []string{"Investment", "Loan", "Collection"}
	collectionDays    = []string{"Daily", "Weekly", "Monthly", "Custom"}
)

func ValidPackageType(s string) bool { return oneOf(s, packageTypes) }

func ValidPackageCategory(s string) bool { return oneOf(s, packageCategories) }

func ValidCollectionDays(s string) bool { return oneOf(s, collectionDays) }

// Support enumerations.
const (
	TicketOpen     = "open"
	TicketPending  = "pending"
	TicketResolved = "resolved"
	TicketClosed   = "closed"

	SenderMerchant = "merchant"
	SenderAdmin    = "admin"
	SenderSystem   = "system"
)

func ValidTicketStatus(s string) bool {
	return oneOf(s, []string{TicketOpen, TicketPending, TicketResolved, TicketClosed})
}

func ValidTicketPriority(s string) bool {
	return oneOf(s, []string{"low", "medium", "high", "urgent"})
}

func ValidAudience(s string) bool { return oneOf(s, []string{"all", "merchants", "agents"}) }

// Admin staff statuses.
const (
	StaffActive    = "active"
	StaffInactive  = "inactive"
	StaffSuspended = "suspended"
)

func ValidAdminStaffStatus(s string) bool {
	return oneOf(s, []string{StaffActive, StaffInactive, StaffSuspended})
}

// Activity persons.
const (
	PersonMerchant = "merchant"
	PersonAgent    = "agent"
	PersonStaff    = "staff"
)

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
