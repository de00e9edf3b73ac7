// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/alphaweb/internal/models"
)

// Plans

// CreatePlan inserts a plan and fills in its id and timestamps.
func (s *Store) CreatePlan(ctx context.Context, p *models.Plan) error {
	now := s.timestamp()
	if p.Currency == "" {
		p.Currency = "NGN"
	}
	if p.Status == "" {
		p.Status = "active"
	}
	id, err := insert(ctx, s.q, "plans",
		[]string{"merchant_id", "type", "name", "billing_cycle", "pricing", "currency", "features", "description",
			"status", "start_date", "end_date", "no_of_branches", "no_of_customers", "no_of_agents", "created_at", "updated_at"},
		p.MerchantID, p.Type, p.Name, p.BillingCycle, p.Pricing, p.Currency, p.Features, p.Description,
		p.Status, utcPtr(p.StartDate), utcPtr(p.EndDate), p.NoOfBranches, p.NoOfCustomers, p.NoOfAgents, now, now)
	if err != nil {
		return err
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	return nil
}

// GetPlan returns one plan by id.
func (s *Store) GetPlan(ctx context.Context, id int64) (*models.Plan, error) {
	return byID[models.Plan](ctx, s.q, "plans", (&where{}).add("id = ?", id))
}

// GetPlanByName looks a plan up by its exact name.
func (s *Store) GetPlanByName(ctx context.Context, name string) (*models.Plan, error) {
	return byID[models.Plan](ctx, s.q, "plans", (&where{}).add("name = ?", name))
}

// ListPlans filters by plan type (standard or custom) and status.
func (s *Store) ListPlans(ctx context.Context, f Filter) ([]models.Plan, int64, error) {
	w := (&where{}).eq("type", f.Type).eq("status", f.Status).search(f.Search, "name", "description")
	return page[models.Plan](ctx, s.q, "plans", w, "created_at DESC, id DESC", f)
}

// PlansForMerchant returns custom plans created for the merchant plus the
// plan it is subscribed to.
func (s *Store) PlansForMerchant(ctx context.Context, merchantID int64) ([]models.Plan, error) {
	out := make([]models.Plan, 0)
	err := selectAll(ctx, s.q, "plans", &out, `SELECT * FROM plans
		WHERE merchant_id = ? OR id = (SELECT plan_id FROM merchants WHERE id = ?)
		ORDER BY created_at DESC, id DESC`, merchantID, merchantID)
	return out, err
}

// UpdatePlan saves the editable fields of a plan.
func (s *Store) UpdatePlan(ctx context.Context, p *models.Plan) error {
	p.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "plans", map[string]interface{}{
		"merchant_id":     p.MerchantID,
		"type":            p.Type,
		"name":            p.Name,
		"billing_cycle":   p.BillingCycle,
		"pricing":         p.Pricing,
		"currency":        p.Currency,
		"features":        p.Features,
		"description":     p.Description,
		"status":          p.Status,
		"start_date":      utcPtr(p.StartDate),
		"end_date":        utcPtr(p.EndDate),
		"no_of_branches":  p.NoOfBranches,
		"no_of_customers": p.NoOfCustomers,
		"no_of_agents":    p.NoOfAgents,
		"updated_at":      p.UpdatedAt,
	}, (&where{}).add("id = ?", p.ID))
}

// DeletePlan removes a plan.
func (s *Store) DeletePlan(ctx context.Context, id int64) error {
	return remove(ctx, s.q, "plans", (&where{}).add("id = ?", id))
}

// ActivePlanFor returns the plan the merchant is subscribed to, or
// database.ErrNotFound when it has none.
func (s *Store) ActivePlanFor(ctx context.Context, merchantID int64) (*models.Plan, error) {
	var p models.Plan
	err := get(ctx, s.q, "plans", &p, `SELECT p.* FROM plans p
		JOIN merchants m ON m.plan_id = p.id
		WHERE m.id = ?`, merchantID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Super admins

// CreateSuperAdmin inserts a super admin and fills in its id and timestamps.
func (s *Store) CreateSuperAdmin(ctx context.Context, a *models.SuperAdmin) error {
	now := s.timestamp()
	if a.Role == "" {
		a.Role = "superadmin"
	}
	a.Email = normalizeEmail(a.Email)
	id, err := insert(ctx, s.q, "super_admins",
		[]string{"name", "email", "password_hash", "role", "created_at", "updated_at"},
		a.Name, a.Email, a.PasswordHash, a.Role, now, now)
	if err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

// GetSuperAdminByEmail matches the normalised email.
func (s *Store) GetSuperAdminByEmail(ctx context.Context, email string) (*models.SuperAdmin, error) {
	return byID[models.SuperAdmin](ctx, s.q, "super_admins", (&where{}).add("email = ?", normalizeEmail(email)))
}

// SetSuperAdminPassword stores a new bcrypt hash.
func (s *Store) SetSuperAdminPassword(ctx context.Context, id int64, hash string) error {
	return update(ctx, s.q, "super_admins", map[string]interface{}{
		"password_hash": hash, "updated_at": s.timestamp(),
	}, (&where{}).add("id = ?", id))
}

// Admin roles

const adminRoleSelect = `SELECT r.*,
	(SELECT COUNT(*) FROM admin_staff st WHERE st.role_id = r.id) AS staff_count
FROM admin_roles r`

// CreateAdminRole inserts a console role. Names are unique.
func (s *Store) CreateAdminRole(ctx context.Context, r *models.AdminRole) error {
	now := s.timestamp()
	if r.Status == "" {
		r.Status = models.StaffActive
	}
	id, err := insert(ctx, s.q, "admin_roles",
		[]string{"name", "description", "permissions", "status", "created_at", "updated_at"},
		r.Name, r.Description, r.Permissions, r.Status, now, now)
	if err != nil {
		return err
	}
	r.ID, r.CreatedAt, r.UpdatedAt = id, now, now
	return nil
}

// GetAdminRole returns one admin role by id.
func (s *Store) GetAdminRole(ctx context.Context, id int64) (*models.AdminRole, error) {
	var r models.AdminRole
	if err := get(ctx, s.q, "admin_roles", &r, adminRoleSelect+" WHERE r.id = ?", id); err != nil {
		return nil, err
	}
	return &r, nil
}

// AllAdminRoles returns every role, newest first.
func (s *Store) AllAdminRoles(ctx context.Context) ([]models.AdminRole, error) {
	out := make([]models.AdminRole, 0)
	err := selectAll(ctx, s.q, "admin_roles", &out, adminRoleSelect+" ORDER BY r.created_at DESC, r.id DESC")
	return out, err
}

// UpdateAdminRole saves the editable fields of an admin role.
func (s *Store) UpdateAdminRole(ctx context.Context, r *models.AdminRole) error {
	r.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "admin_roles", map[string]interface{}{
		"name":        r.Name,
		"description": r.Description,
		"permissions": r.Permissions,
		"status":      r.Status,
		"updated_at":  r.UpdatedAt,
	}, (&where{}).add("id = ?", r.ID))
}

// DeleteAdminRole removes an admin role.
func (s *Store) DeleteAdminRole(ctx context.Context, id int64) error {
	return remove(ctx, s.q, "admin_roles", (&where{}).add("id = ?", id))
}

// Admin staff

const adminStaffSelect = `SELECT st.*, COALESCE(r.name, '') AS role_name
FROM admin_staff st
LEFT JOIN admin_roles r ON r.id = st.role_id`

// CreateAdminStaff inserts a staff member. Status defaults to active.
func (s *Store) CreateAdminStaff(ctx context.Context, a *models.AdminStaff) error {
	now := s.timestamp()
	if a.Status == "" {
		a.Status = models.StaffActive
	}
	a.Email = normalizeEmail(a.Email)
	id, err := insert(ctx, s.q, "admin_staff",
		[]string{"role_id", "name", "email", "phone", "password_hash", "status", "profile_image", "created_at", "updated_at"},
		a.RoleID, a.Name, a.Email, a.Phone, a.PasswordHash, a.Status, a.ProfileImage, now, now)
	if err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

// GetAdminStaff returns a staff member with the role name.
func (s *Store) GetAdminStaff(ctx context.Context, id int64) (*models.AdminStaff, error) {
	var a models.AdminStaff
	if err := get(ctx, s.q, "admin_staff", &a, adminStaffSelect+" WHERE st.id = ?", id); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAdminStaffByEmail returns the staff row with its role name.
func (s *Store) GetAdminStaffByEmail(ctx context.Context, email string) (*models.AdminStaff, error) {
	var a models.AdminStaff
	if err := get(ctx, s.q, "admin_staff", &a, adminStaffSelect+" WHERE st.email = ?", normalizeEmail(email)); err != nil {
		return nil, err
	}
	return &a, nil
}

// AllAdminStaff returns every staff member with role name, newest first.
func (s *Store) AllAdminStaff(ctx context.Context) ([]models.AdminStaff, error) {
	out := make([]models.AdminStaff, 0)
	err := selectAll(ctx, s.q, "admin_staff", &out, adminStaffSelect+" ORDER BY st.created_at DESC, st.id DESC")
	return out, err
}

// ListAdminStaff returns one page of admin staff matching f and the total count.
func (s *Store) ListAdminStaff(ctx context.Context, f Filter) ([]models.AdminStaff, int64, error) {
	w := (&where{}).eq("st.status", f.Status).search(f.Search, "st.name", "st.email")
	var total int64
	if err := get(ctx, s.q, "admin_staff", &total, "SELECT COUNT(*) FROM admin_staff st"+w.String(), w.values()...); err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	out := make([]models.AdminStaff, 0)
	query := fmt.Sprintf("%s%s ORDER BY st.created_at DESC, st.id DESC LIMIT %d OFFSET %d", adminStaffSelect, w.String(), limit, offset)
	if err := selectAll(ctx, s.q, "admin_staff", &out, query, w.values()...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateAdminStaff saves the editable fields of a staff member.
func (s *Store) UpdateAdminStaff(ctx context.Context, a *models.AdminStaff) error {
	a.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "admin_staff", map[string]interface{}{
		"role_id":       a.RoleID,
		"name":          a.Name,
		"email":         normalizeEmail(a.Email),
		"phone":         a.Phone,
		"status":        a.Status,
		"profile_image": a.ProfileImage,
		"updated_at":    a.UpdatedAt,
	}, (&where{}).add("id = ?", a.ID))
}

// SetAdminStaffStatus changes the status of a staff member. Callers keep
// the authorization bindings in step.
func (s *Store) SetAdminStaffStatus(ctx context.Context, id int64, status string) error {
	return update(ctx, s.q, "admin_staff", map[string]interface{}{
		"status": status, "updated_at": s.timestamp(),
	}, (&where{}).add("id = ?", id))
}

// TouchAdminStaffLogin stamps last_login after a successful staff login.
func (s *Store) TouchAdminStaffLogin(ctx context.Context, id int64) error {
	return update(ctx, s.q, "admin_staff", map[string]interface{}{
		"last_login": s.timestamp(),
	}, (&where{}).add("id = ?", id))
}

// CountStaffWithRole is used to refuse deleting roles in use.
func (s *Store) CountStaffWithRole(ctx context.Context, roleID int64) (int64, error) {
	return count(ctx, s.q, "admin_staff", (&where{}).add("role_id = ?", roleID))
}
