// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package store holds the sqlx repositories for every persisted entity.

All queries are written with ? placeholders and rebound for the active
driver, so the same SQL runs on DuckDB and PostgreSQL. Every query on a
merchant-owned table carries a merchant_id predicate; a row owned by another
tenant is indistinguishable from a missing row and yields
database.ErrNotFound.

List methods take a Filter and return the page of items together with the
total number of matching rows:

	customers, total, err := st.ListCustomers(ctx, merchantID, store.Filter{
		Search: "ada", Page: 2, Limit: 20,
	})

Money columns hold minor units (kobo). Aggregates are cast to BIGINT so
that both drivers scan them into int64.
*/
package store
