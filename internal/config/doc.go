// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package config loads alphaweb configuration in three layers using koanf:
// struct defaults, an optional YAML file (config.yaml or CONFIG_PATH), and
// environment variables. Environment variables use the flat names operators
// already know (JWT_SECRET, DATABASE_URL, EMAIL_USER, TRANSACTPAY_SECRET_KEY)
// and are mapped onto the nested koanf paths by envTransformFunc.
package config
