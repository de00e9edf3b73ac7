// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package authz

import "strings"

// Admin console permissions.
const (
	PermViewMerchants       = "view_merchants"
	PermCreateMerchant      = "create_merchant"
	PermEditMerchant        = "edit_merchant"
	PermDeleteMerchant      = "delete_merchant"
	PermApproveMerchant     = "approve_merchant"
	PermSuspendMerchant     = "suspend_merchant"
	PermViewTransactions    = "view_transactions"
	PermApproveTransaction  = "approve_transaction"
	PermRejectTransaction   = "reject_transaction"
	PermRefundTransaction   = "refund_transaction"
	PermViewPlans           = "view_plans"
	PermCreatePlan          = "create_plan"
	PermEditPlan            = "edit_plan"
	PermDeletePlan          = "delete_plan"
	PermViewRoles           = "view_roles"
	PermCreateRole          = "create_role"
	PermEditRole            = "edit_role"
	PermDeleteRole          = "delete_role"
	PermViewStaff           = "view_staff"
	PermCreateStaff         = "create_staff"
	PermEditStaff           = "edit_staff"
	PermDeleteStaff         = "delete_staff"
	PermViewActivities      = "view_activities"
	PermViewLogs            = "view_logs"
	PermViewDashboard       = "view_dashboard"
	PermViewAnalytics       = "view_analytics"
	PermManageSettings      = "manage_settings"
	PermManageNotifications = "manage_notifications"
)

// Permissions is the complete, ordered list an admin role may hold.
var Permissions = []string{
	PermViewMerchants, PermCreateMerchant, PermEditMerchant, PermDeleteMerchant,
	PermApproveMerchant, PermSuspendMerchant,
	PermViewTransactions, PermApproveTransaction, PermRejectTransaction, PermRefundTransaction,
	PermViewPlans, PermCreatePlan, PermEditPlan, PermDeletePlan,
	PermViewRoles, PermCreateRole, PermEditRole, PermDeleteRole,
	PermViewStaff, PermCreateStaff, PermEditStaff, PermDeleteStaff,
	PermViewActivities, PermViewLogs, PermViewDashboard, PermViewAnalytics,
	PermManageSettings, PermManageNotifications,
}

var permissionSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Permissions))
	for _, p := range Permissions {
		m[p] = struct{}{}
	}
	return m
}()

// ValidPermission reports whether p is in Permissions.
func ValidPermission(p string) bool {
	_, ok := permissionSet[p]
	return ok
}

// InvalidPermissions returns the entries of perms that are not known.
func InvalidPermissions(perms []string) []string {
	var bad []string
	for _, p := range perms {
		if !ValidPermission(p) {
			bad = append(bad, p)
		}
	}
	return bad
}

// split maps "view_merchants" to object "merchants" and action "view".
func split(perm string) (object, action string) {
	action, object, ok := strings.Cut(perm, "_")
	if !ok {
		return perm, ""
	}
	return object, action
}
