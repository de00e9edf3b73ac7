// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package authz enforces admin console permissions with Casbin.
//
// Every permission in Permissions is a verb_object pair such as
// "view_merchants" or "delete_plan"; it is split into the Casbin object and
// action. Admin roles stored in admin_roles become policy subjects named
// "role:<id>", admin staff are bound to their role with a grouping rule
// ("staff:<id>" -> "role:<id>"), and super admins inherit the wildcard
// "role:super_admin" policy.
//
// The model (model.conf):
//
//	[request_definition]
//	r = sub, obj, act
//
//	[policy_definition]
//	p = sub, obj, act
//
//	[role_definition]
//	g = _, _
//
//	[matchers]
//	m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
//
// Roles and bindings live in the database; Sync loads them at startup and the
// admin handlers call SetRole, RemoveRole, BindStaff and UnbindStaff after
// every successful write so the enforcer never drifts from the tables.
//
// Routes are guarded with RequirePermission:
//
//	r.With(az.RequirePermission(authz.PermCreatePlan)).Post("/plans", h.CreatePlan)
package authz
