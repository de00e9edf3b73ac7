// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package database

import "fmt"

// Tables lists every application table in creation order.
var Tables = []string{
	"merchants", "collaborators", "agents", "branches", "customers", "roles", "staff",
	"plans", "super_admins", "admin_roles", "admin_staff", "admin_logs", "activities",
	"packages", "collections", "loan_applications", "loans", "repayments",
	"investments", "investment_applications", "investment_transactions",
	"wallet_transactions", "customer_wallets", "transactions", "remittances",
	"charges", "charge_assignments", "support_tickets", "ticket_messages", "faqs",
	"announcements",
}

// tableDDL holds the column list for each table. The id column and its
// sequence are added by createTableStatements.
var tableDDL = map[string]string{
	"merchants": `
	business_name TEXT NOT NULL,
	business_alias TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	currency TEXT NOT NULL DEFAULT 'NGN',
	password_hash TEXT NOT NULL,
	is_verified BOOLEAN NOT NULL DEFAULT FALSE,
	status TEXT NOT NULL DEFAULT 'Active',
	plan_id BIGINT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"collaborators": `
	merchant_id BIGINT NOT NULL,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	is_verified BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"agents": `
	merchant_id BIGINT NOT NULL,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	branch TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Active',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"branches": `
	merchant_id BIGINT NOT NULL,
	name TEXT NOT NULL,
	state TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"customers": `
	merchant_id BIGINT NOT NULL,
	agent_id BIGINT NOT NULL,
	branch_id BIGINT NOT NULL,
	package_id BIGINT,
	full_name TEXT NOT NULL,
	phone TEXT NOT NULL,
	email TEXT NOT NULL,
	account_number TEXT NOT NULL DEFAULT '',
	alias TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	virtual_account_number TEXT NOT NULL DEFAULT '',
	virtual_bank_name TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"roles": `
	merchant_id BIGINT NOT NULL,
	role_name TEXT NOT NULL,
	permissions TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"staff": `
	merchant_id BIGINT NOT NULL,
	role_id BIGINT NOT NULL,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	branch TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"plans": `
	merchant_id BIGINT,
	type TEXT NOT NULL DEFAULT 'standard',
	name TEXT NOT NULL,
	billing_cycle TEXT NOT NULL DEFAULT 'monthly',
	pricing BIGINT NOT NULL DEFAULT 0,
	currency TEXT NOT NULL DEFAULT 'NGN',
	features TEXT NOT NULL DEFAULT '[]',
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active',
	start_date TIMESTAMP,
	end_date TIMESTAMP,
	no_of_branches INTEGER NOT NULL DEFAULT 0,
	no_of_customers INTEGER NOT NULL DEFAULT 0,
	no_of_agents INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"super_admins": `
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'superadmin',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"admin_roles": `
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	permissions TEXT NOT NULL DEFAULT '[]',
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"admin_staff": `
	role_id BIGINT NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	last_login TIMESTAMP,
	profile_image TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"admin_logs": `
	staff_id BIGINT NOT NULL,
	actor_kind TEXT NOT NULL DEFAULT '',
	action TEXT NOT NULL,
	entity TEXT NOT NULL DEFAULT '',
	entity_id BIGINT,
	details TEXT NOT NULL DEFAULT '',
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at TIMESTAMP NOT NULL`,

	"activities": `
	merchant_id BIGINT,
	agent_id BIGINT,
	staff_id BIGINT,
	person TEXT NOT NULL,
	action TEXT NOT NULL,
	details TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL`,

	"packages": `
	merchant_id BIGINT NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT 'Fixed',
	category TEXT NOT NULL DEFAULT 'Investment',
	amount BIGINT NOT NULL,
	seed_amount BIGINT NOT NULL DEFAULT 0,
	seed_type TEXT NOT NULL DEFAULT '',
	period INTEGER NOT NULL,
	collection_days TEXT NOT NULL DEFAULT 'Daily',
	duration INTEGER NOT NULL,
	benefits TEXT NOT NULL DEFAULT '[]',
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Active',
	max_customers INTEGER,
	current_customers INTEGER NOT NULL DEFAULT 0,
	interest_rate FLOAT8 NOT NULL DEFAULT 0,
	minimum_savings BIGINT NOT NULL DEFAULT 0,
	savings_frequency TEXT NOT NULL DEFAULT 'Daily',
	extra_charges BIGINT NOT NULL DEFAULT 0,
	default_penalty BIGINT NOT NULL DEFAULT 0,
	grace_period INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"collections": `
	merchant_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	customer_name TEXT NOT NULL,
	package_id BIGINT,
	package_name TEXT NOT NULL DEFAULT '',
	package_amount BIGINT NOT NULL DEFAULT 0,
	amount BIGINT NOT NULL,
	amount_collected BIGINT NOT NULL DEFAULT 0,
	collected_date TIMESTAMP,
	due_date TIMESTAMP NOT NULL,
	type TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'Pending',
	priority TEXT NOT NULL DEFAULT 'Medium',
	description TEXT NOT NULL DEFAULT '',
	collection_notes TEXT NOT NULL DEFAULT '',
	reminder_sent BOOLEAN NOT NULL DEFAULT FALSE,
	cycle INTEGER NOT NULL DEFAULT 31,
	cycle_counter INTEGER NOT NULL DEFAULT 1,
	is_first_collection BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"loan_applications": `
	merchant_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	customer_name TEXT NOT NULL,
	account_number TEXT NOT NULL DEFAULT '',
	requested_amount BIGINT NOT NULL,
	interest_rate FLOAT8 NOT NULL,
	duration INTEGER NOT NULL,
	agent_id BIGINT,
	agent_name TEXT NOT NULL DEFAULT '',
	branch TEXT NOT NULL DEFAULT '',
	purpose TEXT NOT NULL DEFAULT '',
	collateral TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Pending',
	approved_by BIGINT,
	approved_at TIMESTAMP,
	rejection_reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"loans": `
	merchant_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	customer_name TEXT NOT NULL,
	account_number TEXT NOT NULL DEFAULT '',
	loan_amount BIGINT NOT NULL,
	interest_rate FLOAT8 NOT NULL,
	duration INTEGER NOT NULL,
	agent_id BIGINT,
	agent_name TEXT NOT NULL DEFAULT '',
	branch TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Pending',
	date_issued TIMESTAMP NOT NULL,
	due_date TIMESTAMP NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	approved_by BIGINT,
	approved_at TIMESTAMP,
	total_amount BIGINT NOT NULL,
	amount_paid BIGINT NOT NULL DEFAULT 0,
	remaining_amount BIGINT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"repayments": `
	merchant_id BIGINT NOT NULL,
	transaction_id TEXT NOT NULL UNIQUE,
	loan_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	customer_name TEXT NOT NULL,
	account_number TEXT NOT NULL DEFAULT '',
	package TEXT NOT NULL DEFAULT '',
	amount BIGINT NOT NULL,
	branch TEXT NOT NULL DEFAULT '',
	agent_id BIGINT,
	agent_name TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Completed',
	payment_method TEXT NOT NULL DEFAULT '',
	reference TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	paid_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"investments": `
	merchant_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	customer_name TEXT NOT NULL,
	account_number TEXT NOT NULL DEFAULT '',
	amount BIGINT NOT NULL,
	plan TEXT NOT NULL,
	duration INTEGER NOT NULL,
	interest_rate FLOAT8 NOT NULL,
	status TEXT NOT NULL DEFAULT 'Active',
	maturity_date TIMESTAMP NOT NULL,
	expected_returns BIGINT NOT NULL,
	current_value BIGINT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"investment_applications": `
	merchant_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	customer_name TEXT NOT NULL,
	account_number TEXT NOT NULL DEFAULT '',
	target_amount BIGINT NOT NULL,
	duration INTEGER NOT NULL,
	agent_id BIGINT,
	agent_name TEXT NOT NULL DEFAULT '',
	branch TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Pending',
	approved_by BIGINT,
	approved_at TIMESTAMP,
	rejection_reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"investment_transactions": `
	merchant_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	customer TEXT NOT NULL,
	account_number TEXT NOT NULL DEFAULT '',
	package TEXT NOT NULL DEFAULT '',
	amount BIGINT NOT NULL,
	branch TEXT NOT NULL DEFAULT '',
	agent TEXT NOT NULL DEFAULT '',
	transaction_type TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	notes TEXT NOT NULL DEFAULT '',
	transaction_date TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"wallet_transactions": `
	merchant_id BIGINT NOT NULL,
	type TEXT NOT NULL,
	transaction_type TEXT NOT NULL DEFAULT '',
	amount BIGINT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	reference TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Completed',
	balance_before BIGINT NOT NULL DEFAULT 0,
	balance_after BIGINT NOT NULL DEFAULT 0,
	category TEXT NOT NULL DEFAULT '',
	related_id BIGINT,
	related_type TEXT NOT NULL DEFAULT '',
	payment_method TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	processed_by BIGINT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"customer_wallets": `
	merchant_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	account_number TEXT NOT NULL UNIQUE,
	account_level TEXT NOT NULL DEFAULT 'Tier 1',
	balance BIGINT NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'Active',
	last_transaction_date TIMESTAMP,
	activation_date TIMESTAMP NOT NULL,
	daily_limit BIGINT NOT NULL,
	monthly_limit BIGINT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"transactions": `
	merchant_id BIGINT NOT NULL,
	amount BIGINT NOT NULL,
	currency TEXT NOT NULL DEFAULT 'NGN',
	type TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	reference TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"remittances": `
	merchant_id BIGINT NOT NULL,
	collection_id BIGINT,
	customer_id BIGINT NOT NULL,
	customer_name TEXT NOT NULL,
	account_number TEXT NOT NULL DEFAULT '',
	amount BIGINT NOT NULL,
	agent_id BIGINT,
	agent_name TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Pending',
	notes TEXT NOT NULL DEFAULT '',
	approved_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"charges": `
	merchant_id BIGINT NOT NULL,
	charge_name TEXT NOT NULL,
	type TEXT NOT NULL,
	amount BIGINT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"charge_assignments": `
	merchant_id BIGINT NOT NULL,
	charge_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	amount BIGINT NOT NULL,
	due_date TIMESTAMP NOT NULL,
	status TEXT NOT NULL DEFAULT 'Pending',
	date_applied TIMESTAMP NOT NULL,
	date_paid TIMESTAMP,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"support_tickets": `
	ticket_ref TEXT NOT NULL UNIQUE,
	merchant_id BIGINT,
	subject TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT 'Others',
	priority TEXT NOT NULL DEFAULT 'medium',
	status TEXT NOT NULL DEFAULT 'open',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"ticket_messages": `
	ticket_id BIGINT NOT NULL,
	sender_type TEXT NOT NULL,
	sender_id BIGINT,
	message TEXT NOT NULL,
	has_attachment BOOLEAN NOT NULL DEFAULT FALSE,
	attachment_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL`,

	"faqs": `
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT 'General',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,

	"announcements": `
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	target_audience TEXT NOT NULL DEFAULT 'all',
	created_by BIGINT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL`,
}

// indexes are created after the tables; tenant scoped lookups dominate.
var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_agents_merchant ON agents (merchant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_branches_merchant ON branches (merchant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_merchant ON customers (merchant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_staff_merchant ON staff (merchant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_collections_merchant_status ON collections (merchant_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_loans_merchant ON loans (merchant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_repayments_loan ON repayments (loan_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wallet_tx_merchant ON wallet_transactions (merchant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_admin_logs_staff ON admin_logs (staff_id)`,
	`CREATE INDEX IF NOT EXISTS idx_admin_logs_entity ON admin_logs (entity, entity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_created ON activities (created_at)`,
}

func createTableStatements(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE SEQUENCE IF NOT EXISTS %s_id_seq`, table),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\tid BIGINT PRIMARY KEY DEFAULT nextval('%s_id_seq'),%s\n)",
			table, table, tableDDL[table]),
	}
}

func initialSchema() []string {
	stmts := make([]string, 0, len(Tables)*2)
	for _, t := range Tables {
		stmts = append(stmts, createTableStatements(t)...)
	}
	return stmts
}
