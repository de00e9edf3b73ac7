// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Swagger general API info, read by swag init:
//
//	swag init -g cmd/server/docs.go -o internal/apidocs --packageName apidocs
//
// @title Alphaweb API
// @version 1.0
// @description Multi-tenant merchant collections and lending platform.
// @description
// @description ## Tenancy
// @description
// @description Merchant routes under /merchant act on the tenant in the caller's token.
// @description Collaborators act on the merchant that invited them. Records of another
// @description tenant are reported as not found.
// @description
// @description ## Money
// @description
// @description Amounts are integers in kobo. Requests also accept decimal strings such as "75000.00".
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {"code": "VALIDATION_ERROR", "message": "Request validation failed", "details": {"email": "must be a valid email"}},
// @description   "metadata": {"timestamp": "2026-03-09T12:34:56Z", "request_id": "..."}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/alphaweb/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Bearer " followed by the JWT from any login endpoint.
//
// @tag.name Auth
// @tag.description Merchant, collaborator, super admin and staff sign-in flows
//
// @tag.name Merchant
// @tag.description Tenant operations: branches, agents, customers, wallets, collections, loans, investments
//
// @tag.name Admin
// @tag.description Super admin console: merchants, plans, roles, staff, logs, support
//
// @tag.name Core
// @tag.description Health and metrics
package main
