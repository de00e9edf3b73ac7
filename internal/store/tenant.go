// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"

	"github.com/tomtom215/alphaweb/internal/models"
)

// Agents

// CreateAgent inserts an agent and fills in its id and timestamps.
func (s *Store) CreateAgent(ctx context.Context, a *models.Agent) error {
	now := s.timestamp()
	if a.Status == "" {
		a.Status = models.MerchantActive
	}
	a.Email = normalizeEmail(a.Email)
	id, err := insert(ctx, s.q, "agents",
		[]string{"merchant_id", "full_name", "email", "phone", "branch", "password_hash", "status", "created_at", "updated_at"},
		a.MerchantID, a.FullName, a.Email, a.Phone, a.Branch, a.PasswordHash, a.Status, now, now)
	if err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

// GetAgent returns one agent of the merchant.
func (s *Store) GetAgent(ctx context.Context, merchantID, id int64) (*models.Agent, error) {
	return byID[models.Agent](ctx, s.q, "agents", one(id, merchantID))
}

// AgentEmailTaken reports whether the merchant already has an agent with email.
func (s *Store) AgentEmailTaken(ctx context.Context, merchantID int64, email string) (bool, error) {
	n, err := count(ctx, s.q, "agents", scoped(merchantID).add("email = ?", normalizeEmail(email)))
	return n > 0, err
}

// ListAgents returns one page of agents matching f and the total count.
func (s *Store) ListAgents(ctx context.Context, merchantID int64, f Filter) ([]models.Agent, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).search(f.Search, "full_name", "email", "phone", "branch")
	return page[models.Agent](ctx, s.q, "agents", w, "created_at DESC, id DESC", f)
}

// UpdateAgent saves the editable fields of an agent.
func (s *Store) UpdateAgent(ctx context.Context, a *models.Agent) error {
	a.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "agents", map[string]interface{}{
		"full_name":  a.FullName,
		"email":      normalizeEmail(a.Email),
		"phone":      a.Phone,
		"branch":     a.Branch,
		"updated_at": a.UpdatedAt,
	}, one(a.ID, a.MerchantID))
}

// SetAgentStatus changes the status of an agent.
func (s *Store) SetAgentStatus(ctx context.Context, merchantID, id int64, status string) error {
	return update(ctx, s.q, "agents", map[string]interface{}{
		"status": status, "updated_at": s.timestamp(),
	}, one(id, merchantID))
}

// Branches

// CreateBranch inserts a branch and fills in its id and timestamps.
func (s *Store) CreateBranch(ctx context.Context, b *models.Branch) error {
	now := s.timestamp()
	id, err := insert(ctx, s.q, "branches",
		[]string{"merchant_id", "name", "state", "location", "created_at", "updated_at"},
		b.MerchantID, b.Name, b.State, b.Location, now, now)
	if err != nil {
		return err
	}
	b.ID, b.CreatedAt, b.UpdatedAt = id, now, now
	return nil
}

// GetBranch returns one branch of the merchant.
func (s *Store) GetBranch(ctx context.Context, merchantID, id int64) (*models.Branch, error) {
	return byID[models.Branch](ctx, s.q, "branches", one(id, merchantID))
}

// ListBranches returns one page of branches matching f and the total count.
func (s *Store) ListBranches(ctx context.Context, merchantID int64, f Filter) ([]models.Branch, int64, error) {
	w := scoped(merchantID).search(f.Search, "name", "state", "location")
	return page[models.Branch](ctx, s.q, "branches", w, "name ASC, id ASC", f)
}

// UpdateBranch saves the editable fields of a branch.
func (s *Store) UpdateBranch(ctx context.Context, b *models.Branch) error {
	b.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "branches", map[string]interface{}{
		"name": b.Name, "state": b.State, "location": b.Location, "updated_at": b.UpdatedAt,
	}, one(b.ID, b.MerchantID))
}

// DeleteBranch removes a branch of the merchant.
func (s *Store) DeleteBranch(ctx context.Context, merchantID, id int64) error {
	return remove(ctx, s.q, "branches", one(id, merchantID))
}

// Customers

// CreateCustomer inserts a customer with a normalised email.
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	now := s.timestamp()
	c.Email = normalizeEmail(c.Email)
	id, err := insert(ctx, s.q, "customers",
		[]string{"merchant_id", "agent_id", "branch_id", "package_id", "full_name", "phone", "email",
			"account_number", "alias", "address", "created_at", "updated_at"},
		c.MerchantID, c.AgentID, c.BranchID, c.PackageID, c.FullName, c.Phone, c.Email,
		c.AccountNumber, c.Alias, c.Address, now, now)
	if err != nil {
		return err
	}
	c.ID, c.CreatedAt, c.UpdatedAt = id, now, now
	return nil
}

// GetCustomer returns one customer of the merchant.
func (s *Store) GetCustomer(ctx context.Context, merchantID, id int64) (*models.Customer, error) {
	return byID[models.Customer](ctx, s.q, "customers", one(id, merchantID))
}

// CustomerEmailTaken reports whether the merchant already has a customer
// with this email.
func (s *Store) CustomerEmailTaken(ctx context.Context, merchantID int64, email string) (bool, error) {
	n, err := count(ctx, s.q, "customers", scoped(merchantID).add("email = ?", normalizeEmail(email)))
	return n > 0, err
}

// ListCustomers returns one page of customers matching f and the total count.
func (s *Store) ListCustomers(ctx context.Context, merchantID int64, f Filter) ([]models.Customer, int64, error) {
	w := scoped(merchantID).search(f.Search, "full_name", "email", "phone", "account_number")
	return page[models.Customer](ctx, s.q, "customers", w, "created_at DESC, id DESC", f)
}

// UpdateCustomer saves the editable fields of a customer.
func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	c.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "customers", map[string]interface{}{
		"agent_id":   c.AgentID,
		"branch_id":  c.BranchID,
		"package_id": c.PackageID,
		"full_name":  c.FullName,
		"phone":      c.Phone,
		"email":      normalizeEmail(c.Email),
		"alias":      c.Alias,
		"address":    c.Address,
		"updated_at": c.UpdatedAt,
	}, one(c.ID, c.MerchantID))
}

// SetVirtualAccount stores the provider account issued for a customer.
func (s *Store) SetVirtualAccount(ctx context.Context, merchantID, customerID int64, number, bank string) error {
	return update(ctx, s.q, "customers", map[string]interface{}{
		"virtual_account_number": number,
		"virtual_bank_name":      bank,
		"updated_at":             s.timestamp(),
	}, one(customerID, merchantID))
}

// Usage counts quota-limited resources for one merchant.
type Usage struct {
	Agents    int64 `db:"agents" json:"agents"`
	Customers int64 `db:"customers" json:"customers"`
	Branches  int64 `db:"branches" json:"branches"`
}

// TenantUsage counts the agents, customers and branches a merchant has,
// for plan quota checks.
func (s *Store) TenantUsage(ctx context.Context, merchantID int64) (Usage, error) {
	var u Usage
	err := get(ctx, s.q, "merchants", &u, `SELECT
		(SELECT COUNT(*) FROM agents WHERE merchant_id = ?) AS agents,
		(SELECT COUNT(*) FROM customers WHERE merchant_id = ?) AS customers,
		(SELECT COUNT(*) FROM branches WHERE merchant_id = ?) AS branches`,
		merchantID, merchantID, merchantID)
	return u, err
}

// Merchant roles and staff

// CreateRole inserts a role and fills in its id and timestamps.
func (s *Store) CreateRole(ctx context.Context, r *models.Role) error {
	now := s.timestamp()
	id, err := insert(ctx, s.q, "roles",
		[]string{"merchant_id", "role_name", "permissions", "created_at", "updated_at"},
		r.MerchantID, r.RoleName, r.Permissions, now, now)
	if err != nil {
		return err
	}
	r.ID, r.CreatedAt, r.UpdatedAt = id, now, now
	return nil
}

// GetRole returns one role of the merchant.
func (s *Store) GetRole(ctx context.Context, merchantID, id int64) (*models.Role, error) {
	return byID[models.Role](ctx, s.q, "roles", one(id, merchantID))
}

// ListRoles returns one page of roles matching f and the total count.
func (s *Store) ListRoles(ctx context.Context, merchantID int64, f Filter) ([]models.Role, int64, error) {
	w := scoped(merchantID).search(f.Search, "role_name")
	return page[models.Role](ctx, s.q, "roles", w, "role_name ASC, id ASC", f)
}

// UpdateRole saves the editable fields of a role.
func (s *Store) UpdateRole(ctx context.Context, r *models.Role) error {
	r.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "roles", map[string]interface{}{
		"role_name": r.RoleName, "permissions": r.Permissions, "updated_at": r.UpdatedAt,
	}, one(r.ID, r.MerchantID))
}

// CreateStaff inserts a staff and fills in its id and timestamps.
func (s *Store) CreateStaff(ctx context.Context, st *models.Staff) error {
	now := s.timestamp()
	if st.Status == "" {
		st.Status = models.StaffActive
	}
	id, err := insert(ctx, s.q, "staff",
		[]string{"merchant_id", "role_id", "full_name", "email", "phone", "branch", "role", "status", "created_at", "updated_at"},
		st.MerchantID, st.RoleID, st.FullName, normalizeEmail(st.Email), st.Phone, st.Branch, st.Role, st.Status, now, now)
	if err != nil {
		return err
	}
	st.ID, st.CreatedAt, st.UpdatedAt = id, now, now
	return nil
}

// GetStaff returns one staff of the merchant.
func (s *Store) GetStaff(ctx context.Context, merchantID, id int64) (*models.Staff, error) {
	return byID[models.Staff](ctx, s.q, "staff", one(id, merchantID))
}

// ListStaff returns one page of staff matching f and the total count.
func (s *Store) ListStaff(ctx context.Context, merchantID int64, f Filter) ([]models.Staff, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).search(f.Search, "full_name", "email", "role")
	return page[models.Staff](ctx, s.q, "staff", w, "created_at DESC, id DESC", f)
}

// UpdateStaff saves the editable fields of a staff.
func (s *Store) UpdateStaff(ctx context.Context, st *models.Staff) error {
	st.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "staff", map[string]interface{}{
		"role_id":    st.RoleID,
		"full_name":  st.FullName,
		"email":      normalizeEmail(st.Email),
		"phone":      st.Phone,
		"branch":     st.Branch,
		"role":       st.Role,
		"status":     st.Status,
		"updated_at": st.UpdatedAt,
	}, one(st.ID, st.MerchantID))
}
