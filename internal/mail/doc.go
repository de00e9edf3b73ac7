// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package mail sends transactional email: one-time passwords, admin staff
invitations and support ticket reply notifications.

Two Mailer implementations are provided. SMTPMailer talks to a relay with
optional STARTTLS and PLAIN authentication. LogMailer writes the message to
the structured log instead, which is the default when mail.enabled is false
so that local development never needs an SMTP server.

	m := mail.New(&cfg.Mail)
	msg := mail.OTPMessage(merchant.Email, code, otpSvc.TTL())
	if err := m.Send(ctx, msg); err != nil {
		// signup still succeeds; the user can request a new code
	}
*/
package mail
