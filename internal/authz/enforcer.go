// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package authz

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/models"
)

//go:embed model.conf
var embeddedModel string

// SuperAdminRole is the policy subject holding every permission.
const SuperAdminRole = "role:super_admin"

// EnforcerConfig holds configuration for the enforcer.
type EnforcerConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// RoleSource loads the persisted roles and staff bindings.
type RoleSource interface {
	AllAdminRoles(ctx context.Context) ([]models.AdminRole, error)
	AllAdminStaff(ctx context.Context) ([]models.AdminStaff, error)
}

// Enforcer wraps the Casbin enforcer with the admin role vocabulary.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	cache    *decisionCache
	recorder DecisionRecorder
}

// NewEnforcer builds an enforcer with only the super admin policy loaded.
// Call Sync to load stored roles.
func NewEnforcer(cfg EnforcerConfig) (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	se, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if _, err := se.AddPolicy(SuperAdminRole, "*", "*"); err != nil {
		return nil, fmt.Errorf("failed to add super admin policy: %w", err)
	}

	e := &Enforcer{enforcer: se}
	if cfg.CacheEnabled {
		e.cache = newDecisionCache(cfg.CacheTTL)
	}
	return e, nil
}

// RoleSubject returns the policy subject for an admin role id.
func RoleSubject(roleID int64) string {
	return "role:" + strconv.FormatInt(roleID, 10)
}

// StaffSubject returns the policy subject for an admin staff id.
func StaffSubject(staffID int64) string {
	return "staff:" + strconv.FormatInt(staffID, 10)
}

func principalSubject(p *auth.Principal) string {
	switch p.Kind {
	case auth.KindSuperAdmin:
		return "super_admin:" + strconv.FormatInt(p.ID, 10)
	case auth.KindAdminStaff:
		return StaffSubject(p.ID)
	}
	return string(p.Kind) + ":" + strconv.FormatInt(p.ID, 10)
}

// Sync replaces every role policy and staff binding with the stored state.
// Only active staff are bound; anyone else loses a binding they held.
func (e *Enforcer) Sync(ctx context.Context, src RoleSource) error {
	roles, err := src.AllAdminRoles(ctx)
	if err != nil {
		return fmt.Errorf("load admin roles: %w", err)
	}
	staff, err := src.AllAdminStaff(ctx)
	if err != nil {
		return fmt.Errorf("load admin staff: %w", err)
	}

	for _, r := range roles {
		if err := e.SetRole(r); err != nil {
			return err
		}
	}
	bound := 0
	for _, s := range staff {
		if s.Status != models.StaffActive {
			if err := e.UnbindStaff(s.ID); err != nil {
				return err
			}
			continue
		}
		if err := e.BindStaff(s.ID, s.RoleID); err != nil {
			return err
		}
		bound++
	}
	logging.Info().Int("roles", len(roles)).Int("staff", bound).Msg("Authorization policy synced")
	return nil
}

// SetRole replaces the policies of one role. Inactive roles grant nothing.
// The Super Administrator role inherits the wildcard policy.
func (e *Enforcer) SetRole(r models.AdminRole) error {
	sub := RoleSubject(r.ID)
	if _, err := e.enforcer.RemoveFilteredPolicy(0, sub); err != nil {
		return fmt.Errorf("failed to clear role %d: %w", r.ID, err)
	}
	if _, err := e.enforcer.RemoveFilteredGroupingPolicy(0, sub); err != nil {
		return fmt.Errorf("failed to clear role %d inheritance: %w", r.ID, err)
	}
	defer e.clearCache()

	if r.Status != "" && r.Status != "active" {
		return nil
	}
	if r.Name == models.SuperAdministratorRole {
		if _, err := e.enforcer.AddGroupingPolicy(sub, SuperAdminRole); err != nil {
			return fmt.Errorf("failed to link super administrator role: %w", err)
		}
		return nil
	}

	rules := make([][]string, 0, len(r.Permissions))
	for _, perm := range r.Permissions {
		if !ValidPermission(perm) {
			logging.Warn().Int64("role_id", r.ID).Str("permission", perm).Msg("Ignoring unknown permission")
			continue
		}
		obj, act := split(perm)
		rules = append(rules, []string{sub, obj, act})
	}
	if len(rules) == 0 {
		return nil
	}
	if _, err := e.enforcer.AddPolicies(rules); err != nil {
		return fmt.Errorf("failed to add policies for role %d: %w", r.ID, err)
	}
	return nil
}

// RemoveRole drops a role's policies. Staff still bound to it lose access.
func (e *Enforcer) RemoveRole(roleID int64) error {
	sub := RoleSubject(roleID)
	if _, err := e.enforcer.RemoveFilteredPolicy(0, sub); err != nil {
		return fmt.Errorf("failed to remove role %d: %w", roleID, err)
	}
	if _, err := e.enforcer.RemoveFilteredGroupingPolicy(0, sub); err != nil {
		return fmt.Errorf("failed to remove role %d inheritance: %w", roleID, err)
	}
	e.clearCache()
	return nil
}

// BindStaff assigns a staff member to exactly one role.
func (e *Enforcer) BindStaff(staffID, roleID int64) error {
	sub := StaffSubject(staffID)
	if _, err := e.enforcer.RemoveFilteredGroupingPolicy(0, sub); err != nil {
		return fmt.Errorf("failed to unbind staff %d: %w", staffID, err)
	}
	if _, err := e.enforcer.AddGroupingPolicy(sub, RoleSubject(roleID)); err != nil {
		return fmt.Errorf("failed to bind staff %d: %w", staffID, err)
	}
	e.invalidate(sub)
	return nil
}

// UnbindStaff removes a staff member's role.
func (e *Enforcer) UnbindStaff(staffID int64) error {
	sub := StaffSubject(staffID)
	if _, err := e.enforcer.RemoveFilteredGroupingPolicy(0, sub); err != nil {
		return fmt.Errorf("failed to unbind staff %d: %w", staffID, err)
	}
	e.invalidate(sub)
	return nil
}

// Can reports whether the principal holds perm. Super admins hold every
// permission; merchants and collaborators hold none.
func (e *Enforcer) Can(p *auth.Principal, perm string) (bool, error) {
	if !ValidPermission(perm) {
		return false, fmt.Errorf("unknown permission %q", perm)
	}
	switch p.Kind {
	case auth.KindSuperAdmin:
		return true, nil
	case auth.KindAdminStaff:
	default:
		return false, nil
	}

	sub := principalSubject(p)
	obj, act := split(perm)
	var epoch uint64
	if e.cache != nil {
		if allowed, ok := e.cache.get(sub, perm); ok {
			return allowed, nil
		}
		epoch = e.cache.snapshot()
	}
	allowed, err := e.enforcer.Enforce(sub, obj, act)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	if e.cache != nil {
		e.cache.set(epoch, sub, perm, allowed)
	}
	return allowed, nil
}

// PermissionsFor lists the permissions a principal effectively holds.
func (e *Enforcer) PermissionsFor(p *auth.Principal) []string {
	out := make([]string, 0, len(Permissions))
	for _, perm := range Permissions {
		if ok, err := e.Can(p, perm); err == nil && ok {
			out = append(out, perm)
		}
	}
	return out
}

// Close drops cached decisions.
func (e *Enforcer) Close() {
	e.clearCache()
}

func (e *Enforcer) clearCache() {
	if e.cache != nil {
		e.cache.clear()
	}
}

func (e *Enforcer) invalidate(sub string) {
	if e.cache != nil {
		e.cache.invalidateSubject(sub)
	}
}
