// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package validation wraps go-playground/validator with the request rules
// used by the HTTP handlers.
//
// Custom tags:
//
//	permission  value is a member of the admin PERMISSIONS list
//	currency    three letter ISO 4217 code, any case
//	phone       7 to 15 digits with optional leading +, separators ignored
//
// Example:
//
//	type createRoleRequest struct {
//	    Name        string   `json:"name" validate:"required,max=100"`
//	    Permissions []string `json:"permissions" validate:"required,min=1,dive,permission"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondValidationError(w, verr)
//	    return
//	}
package validation
