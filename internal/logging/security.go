// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// AuthLogger writes authentication events with identifiers masked.
type AuthLogger struct {
	logger zerolog.Logger
}

// NewAuthLogger returns an AuthLogger on the global logger.
func NewAuthLogger() *AuthLogger {
	return &AuthLogger{logger: WithComponent("auth")}
}

// NewAuthLoggerWithLogger is used by tests to capture output.
//
//nolint:gocritic // zerolog.Logger is passed by value by design
func NewAuthLoggerWithLogger(l zerolog.Logger) *AuthLogger {
	return &AuthLogger{logger: l.With().Str("component", "auth").Logger()}
}

// LoginSucceeded records a successful login for the given principal kind.
func (a *AuthLogger) LoginSucceeded(kind, email, ip string) {
	a.logger.Info().
		Str("event", "login_success").
		Str("principal", kind).
		Str("email", MaskEmail(email)).
		Str("ip", ip).
		Msg("login succeeded")
}

// LoginFailed records a failed login. reason is free text and is scrubbed.
func (a *AuthLogger) LoginFailed(kind, email, ip, reason string) {
	a.logger.Warn().
		Str("event", "login_failure").
		Str("principal", kind).
		Str("email", MaskEmail(email)).
		Str("ip", ip).
		Str("reason", ScrubError(reason)).
		Msg("login failed")
}

// OTPIssued records that a one-time code was generated. The code is never logged.
func (a *AuthLogger) OTPIssued(kind, email, purpose string, delivered bool) {
	a.logger.Info().
		Str("event", "otp_issued").
		Str("principal", kind).
		Str("email", MaskEmail(email)).
		Str("purpose", purpose).
		Bool("delivered", delivered).
		Msg("otp issued")
}

// PasswordChanged records a completed password change or admin reset.
func (a *AuthLogger) PasswordChanged(kind, email, via string) {
	a.logger.Info().
		Str("event", "password_changed").
		Str("principal", kind).
		Str("email", MaskEmail(email)).
		Str("via", via).
		Msg("password changed")
}

// MaskToken keeps the first and last four characters of a token.
func MaskToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 12:
		return "***"
	default:
		return token[:4] + "..." + token[len(token)-4:]
	}
}

// MaskEmail keeps the first two characters of the local part.
//
//	MaskEmail("ada@alphaweb.ng") == "ad***@alphaweb.ng"
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

var sensitiveWords = []string{"password", "secret", "token", "otp", "bearer", "authorization", "api-key"}

// ScrubError replaces error text that looks like it carries credentials.
func ScrubError(msg string) string {
	lower := strings.ToLower(msg)
	for _, w := range sensitiveWords {
		if strings.Contains(lower, w) {
			return "credential error"
		}
	}
	if len(msg) > 200 {
		return msg[:200] + "..."
	}
	return msg
}
