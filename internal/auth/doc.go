// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package auth issues and verifies access tokens and guards HTTP routes.

Four kinds of principal sign in to the platform:

  - super_admin: platform owners, implicitly holding every permission
  - admin_staff: platform operators bound to an admin role
  - merchant: tenant owners
  - collaborator: merchant team members acting on behalf of one tenant

Tokens are HS256 JWTs carrying the principal id, email, kind, tenant id and
role. They are read from the Authorization bearer header or, failing that,
from the session cookie.

Middleware:

	r.Group(func(r chi.Router) {
	    r.Use(mw.Authenticate)
	    r.Use(auth.RequireKind(auth.KindMerchant, auth.KindCollaborator))
	    r.Use(auth.RequireMerchantScope)
	    r.Get("/customers", h.ListCustomers)
	})

A missing token is answered with 401 and an invalid or expired token with
403. Handlers read the caller with SubjectFromContext and the tenant with
MerchantIDFromContext.

Repeated failed logins lock the account for a growing period; see
LockoutManager.
*/
package auth
