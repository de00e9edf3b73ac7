// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package supervisor runs Alphaweb's long-running services under a suture v4
supervisor tree.

# Layout

	alphaweb
	├── background-layer
	│   ├── SchedulerService  (cron jobs: overdue sweep, audit retention, OTP purge, backup)
	│   └── stats-cache       (*cache.Cache sweeper)
	├── messaging-layer
	│   ├── EventBusService   (watermill router, NATS or in-process)
	│   ├── event-wal         (*wal.RetryLoop, when WAL_ENABLED)
	│   └── HubService        (websocket broadcast hub)
	└── api-layer
	    └── HTTPServerService

Services that panic or return a non-nil error are restarted with
exponential backoff. Returning suture.ErrDoNotRestart removes a service
for good; the event bus uses this because a closed watermill router
cannot run again.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddBackgroundService(services.NewSchedulerService(sched))
	tree.AddBackgroundService(statsCache)
	tree.AddMessagingService(services.NewEventBusService(bus, 5*time.Second))
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, cfg.Server.ShutdownTimeout))

	err = tree.Serve(ctx)

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog on the slog bridge from internal/logging.
*/
package supervisor
