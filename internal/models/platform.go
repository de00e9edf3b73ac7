// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package models

import "time"

// Plan is a billing tier. Standard plans have no merchant; custom plans are
// created for one merchant. Zero quotas mean unlimited.
type Plan struct {
	ID            int64      `db:"id" json:"id"`
	MerchantID    *int64     `db:"merchant_id" json:"merchantId,omitempty"`
	Type          string     `db:"type" json:"type"`
	Name          string     `db:"name" json:"name"`
	BillingCycle  string     `db:"billing_cycle" json:"billingCycle"`
	Pricing       Money      `db:"pricing" json:"pricing"`
	Currency      string     `db:"currency" json:"currency"`
	Features      StringList `db:"features" json:"features"`
	Description   string     `db:"description" json:"description"`
	Status        string     `db:"status" json:"status"`
	StartDate     *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate       *time.Time `db:"end_date" json:"endDate,omitempty"`
	NoOfBranches  int        `db:"no_of_branches" json:"noOfBranches"`
	NoOfCustomers int        `db:"no_of_customers" json:"noOfCustomers"`
	NoOfAgents    int        `db:"no_of_agents" json:"noOfAgents"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// SuperAdmin is a platform owner account holding every permission.
type SuperAdmin struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// AdminRole groups platform permissions for admin staff.
type AdminRole struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Permissions StringList `db:"permissions" json:"permissions"`
	Status      string     `db:"status" json:"status"`
	StaffCount  int64      `db:"staff_count" json:"staffCount"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// SuperAdministratorRole cannot be deleted.
const SuperAdministratorRole = "Super Administrator"

// AdminStaff is a platform operator bound to one AdminRole.
type AdminStaff struct {
	ID           int64      `db:"id" json:"id"`
	RoleID       int64      `db:"role_id" json:"roleId"`
	RoleName     string     `db:"role_name" json:"roleName,omitempty"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phoneNumber"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Status       string     `db:"status" json:"status"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	ProfileImage string     `db:"profile_image" json:"profileImage,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// AdminLog records a privileged action.
type AdminLog struct {
	ID        int64     `db:"id" json:"id"`
	StaffID   int64     `db:"staff_id" json:"staffId"`
	ActorKind string    `db:"actor_kind" json:"actorKind"`
	Action    string    `db:"action" json:"action"`
	Entity    string    `db:"entity" json:"entity"`
	EntityID  *int64    `db:"entity_id" json:"entityId,omitempty"`
	Details   string    `db:"details" json:"details"`
	IPAddress string    `db:"ip_address" json:"ipAddress"`
	UserAgent string    `db:"user_agent" json:"userAgent"`
	Metadata  JSONMap   `db:"metadata" json:"metadata"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Activity is a human-readable feed entry for merchant, agent or staff actions.
type Activity struct {
	ID         int64     `db:"id" json:"id"`
	MerchantID *int64    `db:"merchant_id" json:"merchantId,omitempty"`
	AgentID    *int64    `db:"agent_id" json:"agentId,omitempty"`
	StaffID    *int64    `db:"staff_id" json:"staffId,omitempty"`
	Person     string    `db:"person" json:"person"`
	Action     string    `db:"action" json:"action"`
	Details    string    `db:"details" json:"details"`
	CreatedAt  time.Time `db:"created_at" json:"date"`
}

// Transaction is a platform-level merchant transaction.
type Transaction struct {
	ID          int64     `db:"id" json:"id"`
	MerchantID  int64     `db:"merchant_id" json:"merchantId"`
	Amount      Money     `db:"amount" json:"amount"`
	Currency    string    `db:"currency" json:"currency"`
	Type        string    `db:"type" json:"type"`
	Status      string    `db:"status" json:"status"`
	Reference   string    `db:"reference" json:"reference"`
	Description string    `db:"description" json:"description"`
	Metadata    JSONMap   `db:"metadata" json:"metadata"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// TransactionWithMerchant adds the merchant summary used by the admin list.
type TransactionWithMerchant struct {
	Transaction
	BusinessName string `db:"business_name" json:"businessName"`
	MerchantMail string `db:"merchant_email" json:"merchantEmail"`
}

// MergedTransaction is one row of the unified merchant transaction view.
type MergedTransaction struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Type        string    `json:"type"`
	Amount      Money     `json:"amount"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}
