// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package accounts implements signup, login and the OTP-based email
verification and password reset flows for every principal kind.

Merchants and collaborators sign themselves up and verify their email with a
one-time code. Super admins and admin staff only log in; their accounts are
created from the console or with alphactl.

Password reset is a three step flow:

 1. ForgotPassword mails a reset_password code.
 2. VerifyOTP with purpose reset_password returns a single-use reset token.
 3. ChangePassword sets the new password when given that token.

Logins pass through an auth.LockoutManager keyed by kind and email, and
every rejected attempt is published as an auth.login_failed event.
*/
package accounts
