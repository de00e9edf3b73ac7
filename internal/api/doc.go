// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package api implements the Alphaweb HTTP API on chi.

# Route groups

All business routes live under /api/v1:

	/auth/...      signup, OTP verification, login and password reset for
	               merchants, collaborators, super admins and admin staff
	/admin/...     the console: merchants, plans, roles, staff, admin logs,
	               support and system jobs. Super admins pass every check;
	               staff need the named permission from their role.
	/merchant/...  tenant operations: agents, branches, customers, charges,
	               packages, collections, remittances, loans, repayments,
	               investments, wallets and the dashboard. Merchants and their
	               collaborators are scoped to one merchant id.

Health probes are served at /health, /health/live and /health/ready, and
Prometheus metrics at the configured metrics path.

# Responses

Every handler writes the APIResponse envelope through ResponseWriter:

	{"success": true, "message": "...", "data": {...}, "meta": {...}}

Errors carry a stable code (VALIDATION_ERROR, NOT_FOUND, QUOTA_EXCEEDED and
so on) in error.code. respondErr maps domain errors from the store, accounts,
auth and otp packages to a status and code in one place, so handlers return
errors instead of choosing statuses.

# Request binding

bind decodes a JSON body with unknown fields rejected and runs validator
tags. Path ids go through pathID, list filters through filterFromQuery.

# Tenancy

RequireMerchantScope resolves the merchant id for the caller and handlers
read it with tenant(r). Every store call takes that id, so a record owned by
another merchant is indistinguishable from a missing one.
*/
package api
