// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package services

import "context"

// ContextRunner is satisfied by *websocket.Hub.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// HubService supervises the admin websocket hub. The hub closes every
// client when its context ends.
type HubService struct {
	hub ContextRunner
}

// NewHubService wraps hub.
func NewHubService(hub ContextRunner) *HubService {
	return &HubService{hub: hub}
}

// Serve implements suture.Service.
func (s *HubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

func (s *HubService) String() string {
	return "websocket-hub"
}
