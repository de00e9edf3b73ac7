// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package metrics defines the Prometheus collectors exported at /metrics.

All collectors are registered on the default registry with promauto and are
prefixed alphaweb_. They cover:

  - HTTP traffic: requests, latency and in-flight count, labelled by chi route pattern
  - repository query latency and errors per table
  - login attempts by principal kind and outcome, permission decisions
  - one-time code issue and verification, outbound mail
  - TransactPay calls and circuit breaker state (0=closed, 1=half-open, 2=open)
  - domain event publish and handling
  - audit buffer writes and drops
  - scheduler job runs, including skipped overlapping runs
  - connected websocket clients

Callers use the Record* helpers rather than touching collectors directly:

	start := time.Now()
	err := repo.Create(ctx, c)
	metrics.RecordDBQuery("insert", "customers", time.Since(start), err)
*/
package metrics
