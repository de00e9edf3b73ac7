// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package audit records the admin log and the activity feed.
//
// Admin logs capture every mutating action taken in the super-admin console:
// who acted (staff id and principal kind), what they did, the entity touched,
// and the request source. Activities are short human-readable lines for
// merchant, agent and staff actions shown on dashboards.
//
// # Architecture
//
// Writes go through an asynchronous buffer so that handlers never wait on
// the audit table:
//
//	Logger.Admin() / Logger.Activity() -> buffer (chan) -> writer goroutine -> Store
//	                                                             |
//	                                                        Notifier (admin.action)
//
// When the buffer is full the entry is dropped with a warning and counted in
// alphaweb_audit_events_dropped_total. Close drains the buffer.
//
// # Stores
//
//   - SQLStore: admin_logs and activities tables through sqlx (DuckDB or PostgreSQL)
//   - MemoryStore: bounded in-memory store for tests and development
//
// # Usage
//
//	logger := audit.NewLogger(audit.NewSQLStore(db), audit.Config{Enabled: true, BufferSize: 1000})
//	defer logger.Close()
//
//	logger.Admin(ctx, models.AdminLog{
//	    StaffID:  subject.ID,
//	    Action:   "merchant.status",
//	    Entity:   "merchant",
//	    EntityID: &merchantID,
//	    Details:  "Set status to Inactive",
//	}, audit.SourceFromRequest(r))
//
// Retention cleanup is driven by the scheduler via Logger.Cleanup.
package audit
