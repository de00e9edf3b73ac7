// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/authz"
)

// Router wires handlers, authentication and authorization into a chi mux.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
	enforcer      *authz.Enforcer
}

// NewRouter builds a Router. CORS origins and the rate limit switch come
// from the handler's configuration.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware) *Router {
	mwCfg := DefaultChiMiddlewareConfig()
	if handler.cfg != nil {
		mwCfg.CORSAllowedOrigins = handler.cfg.Server.CORSOrigins
		mwCfg.RateLimitDisabled = handler.cfg.Security.RateLimitDisabled
	}
	return &Router{
		handler:       handler,
		middleware:    authMiddleware,
		chiMiddleware: NewChiMiddleware(mwCfg),
		enforcer:      handler.enforcer,
	}
}
