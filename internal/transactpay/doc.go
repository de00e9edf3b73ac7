// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package transactpay creates customer virtual accounts with the TransactPay
payment API.

Requests are JSON documents encrypted with the provider's RSA public key
(RSAES-PKCS1-v1_5) and posted as {"data": "<base64 ciphertext>"}. The key is
distributed as base64 of an XML RSAKeyValue document, optionally prefixed with
"4096!".

Calls go through a sony/gobreaker circuit breaker named "transactpay-api" and
are recorded in the transactpay_* Prometheus metrics.

Usage:

	client, err := transactpay.NewClient(&cfg.TransactPay)
	acct, err := client.CreateVirtualAccount(ctx, transactpay.CustomerDetails{...})

Provisioning runs from the customer.created event subscriber; a failure is
logged and never fails customer creation.
*/
package transactpay
