// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package testinfra provides shared test infrastructure.
//
// Unit tests use NewDuckDB for a migrated in-memory database and
// NewMockProviderServer to stand in for outbound HTTP providers:
//
//	db := testinfra.NewDuckDB(t)
//	srv := testinfra.NewMockProviderServer(t)
//	srv.ResponseBody = []byte(`{"status":"success"}`)
//
// Files guarded by the integration build tag start real PostgreSQL and Redis
// containers with testcontainers-go:
//
//	go test -tags integration ./...
package testinfra
