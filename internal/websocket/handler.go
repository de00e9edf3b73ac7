// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package websocket

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/logging"
)

// Handler upgrades authenticated console requests and registers the client.
// Requests must already carry a principal (auth.Middleware.Authenticate).
// Browser requests must send an Origin in allowedOrigins; "*" allows any.
func Handler(hub *Hub, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      originChecker(allowedOrigins),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := auth.SubjectFromContext(r.Context())
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
			return
		}
		c := NewClient(hub, conn, p.ID)
		select {
		case hub.Register <- c:
			c.Start()
		case <-hub.stopped:
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			_ = conn.Close()
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
			return false
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		logging.Warn().Str("origin", strconv.Quote(origin)).Msg("WebSocket connection rejected from unauthorized origin")
		return false
	}
}
