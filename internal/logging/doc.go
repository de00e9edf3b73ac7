// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package logging provides the zerolog-based structured logger shared by every
// alphaweb component.
//
// The global logger is configured once from main:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("merchant", alias).Msg("merchant registered")
//
// Request-scoped logging carries request and correlation IDs:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("wallet transfer rejected")
//
// The slog adapter lets suture and watermill write through the same sink, and
// the auth helpers mask credentials and email addresses before they reach the log.
package logging
