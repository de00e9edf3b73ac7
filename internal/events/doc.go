// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package events carries domain events between the API and background work.

The bus is a Watermill router over either an in-process gochannel (the
default) or a NATS connection when events.backend is "nats". Handlers run
with panic recovery and a bounded retry, so a failing subscriber never
blocks the request that published the event.

Topics:

	merchant.registered  a merchant completed signup
	customer.created     a customer was added; triggers virtual account provisioning
	admin.action         an admin log entry was recorded; broadcast to the live feed
	auth.login_failed    a login attempt failed; recorded in the activity feed

Usage:

	bus, err := events.New(cfg.Events)
	bus.Subscribe("provision-virtual-account", events.TopicCustomerCreated,
	    events.ProvisionVirtualAccounts(client, store))
	if err := bus.Start(ctx); err != nil { ... }
	defer bus.Shutdown(context.Background())

	_ = bus.Publish(ctx, events.TopicCustomerCreated, events.CustomerCreated{...})
*/
package events
