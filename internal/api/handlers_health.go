// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"databaseConnected"`
	EventsRunning     bool    `json:"eventsRunning"`
	WebSocketClients  int     `json:"websocketClients"`
	Uptime            float64 `json:"uptime"`
}

type runningChecker interface {
	IsRunning() bool
}

func (h *Handler) dbConnected(ctx context.Context) bool {
	if h.store == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.store.Ping(ctx) == nil
}

// Health reports dependency status.
//
// @Summary System health
// @Description Returns database connectivity, event bus state, websocket clients and uptime.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:            "healthy",
		Version:           h.version,
		DatabaseConnected: h.dbConnected(r.Context()),
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if rc, ok := h.events.(runningChecker); ok {
		status.EventsRunning = rc.IsRunning()
	}
	if h.hub != nil {
		status.WebSocketClients = h.hub.ClientCount()
	}
	if !status.DatabaseConnected {
		status.Status = "degraded"
	}
	WriteSuccess(w, r, status)
}

// HealthLive reports that the process is alive.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 503 until the database answers.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.dbConnected(r.Context()) {
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "database unavailable")
		return
	}
	WriteSuccess(w, r, map[string]bool{"ready": true})
}
