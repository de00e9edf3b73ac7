// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package models defines the persisted entities and their enumerations.
//
// Struct tags carry both the column name (db) used by sqlx and the camelCase
// JSON name exposed by the API. Secrets such as password hashes are tagged
// json:"-". Monetary fields use Money, an integer count of minor units.
package models
