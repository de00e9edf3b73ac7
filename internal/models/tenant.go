// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package models

import "time"

// Merchant is a tenant business.
type Merchant struct {
	ID            int64     `db:"id" json:"id"`
	BusinessName  string    `db:"business_name" json:"businessName"`
	BusinessAlias string    `db:"business_alias" json:"businessAlias"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	Currency      string    `db:"currency" json:"currency"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	IsVerified    bool      `db:"is_verified" json:"isVerified"`
	Status        string    `db:"status" json:"status"`
	PlanID        *int64    `db:"plan_id" json:"planId,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// MerchantSummary is a merchant row with derived counts for the admin console.
type MerchantSummary struct {
	Merchant
	PlanName      string `db:"plan_name" json:"planName"`
	AgentCount    int64  `db:"agent_count" json:"agentCount"`
	CustomerCount int64  `db:"customer_count" json:"customerCount"`
}

// Collaborator is a merchant team member with their own login.
type Collaborator struct {
	ID           int64     `db:"id" json:"id"`
	MerchantID   int64     `db:"merchant_id" json:"merchantId"`
	FullName     string    `db:"full_name" json:"fullName"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	Role         string    `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsVerified   bool      `db:"is_verified" json:"isVerified"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Agent is a merchant's field collector.
type Agent struct {
	ID           int64     `db:"id" json:"id"`
	MerchantID   int64     `db:"merchant_id" json:"merchantId"`
	FullName     string    `db:"full_name" json:"fullName"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	Branch       string    `db:"branch" json:"branch"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type Branch struct {
	ID         int64     `db:"id" json:"id"`
	MerchantID int64     `db:"merchant_id" json:"merchantId"`
	Name       string    `db:"name" json:"name"`
	State      string    `db:"state" json:"state"`
	Location   string    `db:"location" json:"location"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Customer belongs to a merchant and is served by one agent at one branch.
type Customer struct {
	ID                   int64     `db:"id" json:"id"`
	MerchantID           int64     `db:"merchant_id" json:"merchantId"`
	AgentID              int64     `db:"agent_id" json:"agentId"`
	BranchID             int64     `db:"branch_id" json:"branchId"`
	PackageID            *int64    `db:"package_id" json:"packageId,omitempty"`
	FullName             string    `db:"full_name" json:"fullName"`
	Phone                string    `db:"phone" json:"phoneNumber"`
	Email                string    `db:"email" json:"email"`
	AccountNumber        string    `db:"account_number" json:"accountNumber"`
	Alias                string    `db:"alias" json:"alias"`
	Address              string    `db:"address" json:"address"`
	VirtualAccountNumber string    `db:"virtual_account_number" json:"virtualAccountNumber,omitempty"`
	VirtualBankName      string    `db:"virtual_bank_name" json:"virtualBankName,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time `db:"updated_at" json:"updatedAt"`
}

// Role is a merchant-defined staff role.
type Role struct {
	ID          int64      `db:"id" json:"id"`
	MerchantID  int64      `db:"merchant_id" json:"merchantId"`
	RoleName    string     `db:"role_name" json:"roleName"`
	Permissions StringList `db:"permissions" json:"permissions"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// Staff is a merchant employee record without a login.
type Staff struct {
	ID         int64     `db:"id" json:"id"`
	MerchantID int64     `db:"merchant_id" json:"merchantId"`
	RoleID     int64     `db:"role_id" json:"roleId"`
	FullName   string    `db:"full_name" json:"fullName"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phoneNumber"`
	Branch     string    `db:"branch" json:"branch"`
	Role       string    `db:"role" json:"role"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
