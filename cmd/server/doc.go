// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Command server runs the Alphaweb API.

Alphaweb lets merchants onboard customers and field agents, fund customer
wallets, record collections, issue loans and track investments, while a
super admin console manages merchants, plans, roles and staff.

# Process Layout

	alphaweb
	├── background-layer
	│   ├── scheduler      (overdue sweep, audit retention, OTP purge, DuckDB backup)
	│   └── stats-cache    (dashboard totals, expiry sweeper)
	├── messaging-layer
	│   ├── event-bus      (watermill; in-process gochannel or NATS JetStream)
	│   ├── event-wal      (badger; republishes events NATS did not accept)
	│   └── websocket-hub  (admin live feed)
	└── api-layer
	    └── http-server    (chi router under /api/v1)

Startup order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB or PostgreSQL through sqlx, migrations when DB_AUTO_MIGRATE=true
 4. Auth: JWT manager, login lockout, casbin enforcer loaded from stored roles
 5. OTP store (memory, badger or redis) and mailer (SMTP or log-only)
 6. Event bus with its subscribers and optional WAL, audit logger, websocket hub
 7. Scheduler jobs, stats cache, API handler and router
 8. Supervisor tree

# Configuration

Priority is environment over config file over defaults.

	PORT=5000
	ENVIRONMENT=development        # production rejects the development JWT secret
	JWT_SECRET=<32+ chars>
	DATABASE_DRIVER=duckdb         # or postgres with DATABASE_URL
	DUCKDB_PATH=/data/alphaweb.duckdb
	OTP_STORE=memory               # memory, badger or redis (REDIS_URL)
	EVENTS_BACKEND=memory          # or nats (NATS_URL)
	WAL_ENABLED=false              # journal events in WAL_PATH before publishing
	TRANSACTPAY_ENABLED=false
	MAIL_ENABLED=false
	STATS_CACHE_TTL=30s            # 0 disables dashboard caching
	BACKUP_ENABLED=false           # nightly DuckDB archives in BACKUP_DIR
	SCHEDULE_BACKUP="0 2 * * *"
	LOG_LEVEL=info
	LOG_FORMAT=json

The first super admin is created offline with alphactl create-super-admin.
Backups are listed, verified and restored with alphactl backup.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
SHUTDOWN_TIMEOUT, the scheduler waits for running jobs, the event router
closes, and the audit logger flushes before the database is closed.
*/
package main
