// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package cache provides a thread-safe in-memory TTL cache for dashboard totals.

Dashboard endpoints aggregate across every table a tenant owns. The cache
keeps each result for a short window so that a console refreshing on a timer
does not rescan the database on every poll. Keys are built with Key and are
scoped by tenant, so InvalidatePrefix can drop one merchant's entries after a
write without touching the rest.

	c := cache.New(30 * time.Second)
	st, err := cache.Load(c, cache.Key("dashboard", merchantID), func() (*store.DashboardStats, error) {
	    return db.DashboardStats(ctx, merchantID)
	})

Expired entries are removed lazily on Get and in bulk by Serve, which runs
under the supervisor tree. A nil *Cache is valid and never caches.
*/
package cache
