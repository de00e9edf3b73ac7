// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

/*
Package websocket serves the super-admin live activity feed.

A Hub tracks connected console clients and fans out messages to them. The
hub runs under the supervisor via RunWithContext; when its context ends every
client is closed.

Message format:

	{"type": "admin_action", "data": {...}}

Types sent by the server:

	admin_action   an admin log entry was stored
	login_failed   a login attempt was rejected
	pong           reply to a client "ping"

Each client has a buffered send queue. A client whose queue is full is
dropped rather than blocking the broadcast. The server pings every 54s and
expects a pong within 60s.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)
	r.Get("/api/v1/admin/ws", websocket.Handler(hub, cfg.Server.CORSOrigins))
	hub.BroadcastJSON("admin_action", log)
*/
package websocket
