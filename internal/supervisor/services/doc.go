// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package services adapts Alphaweb components to suture.Service.

Each component has its own lifecycle shape; the wrappers here turn them
into a single context-driven Serve:

	HTTPServerService   Listen, Serve / Shutdown   (*http.Server)
	HubService          RunWithContext             (*websocket.Hub)
	EventBusService     Start / Shutdown           (*events.Bus)
	SchedulerService    Start / Stop               (*scheduler.Scheduler)

Every wrapper returns ctx.Err() after a clean stop, and implements
fmt.Stringer so supervisor log lines name the service.
*/
package services
