// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/alphaweb/internal/accounts"
	"github.com/tomtom215/alphaweb/internal/audit"
	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/authz"
	"github.com/tomtom215/alphaweb/internal/cache"
	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/events"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/mail"
	"github.com/tomtom215/alphaweb/internal/middleware"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/scheduler"
	"github.com/tomtom215/alphaweb/internal/store"
	"github.com/tomtom215/alphaweb/internal/websocket"
)

// Deps are the collaborators a Handler needs. Cache, Events, Hub, Perf and
// Scheduler are optional.
type Deps struct {
	Config    *config.Config
	Store     *store.Store
	Accounts  *accounts.Service
	Audit     *audit.Logger
	Enforcer  *authz.Enforcer
	Cache     *cache.Cache
	Events    events.Publisher
	Hub       *websocket.Hub
	Mailer    mail.Mailer
	Perf      *middleware.PerformanceMonitor
	Scheduler *scheduler.Scheduler
	Version   string
}

// Handler serves every HTTP endpoint.
type Handler struct {
	cfg       *config.Config
	store     *store.Store
	accounts  *accounts.Service
	audit     *audit.Logger
	enforcer  *authz.Enforcer
	cache     *cache.Cache
	events    events.Publisher
	hub       *websocket.Hub
	mailer    mail.Mailer
	perf      *middleware.PerformanceMonitor
	scheduler *scheduler.Scheduler
	version   string
	startTime time.Time
	now       func() time.Time
}

func NewHandler(d Deps) *Handler {
	if d.Mailer == nil {
		d.Mailer = mail.NewLogMailer()
	}
	if d.Version == "" {
		d.Version = "dev"
	}
	return &Handler{
		cfg:       d.Config,
		store:     d.Store,
		accounts:  d.Accounts,
		audit:     d.Audit,
		enforcer:  d.Enforcer,
		cache:     d.Cache,
		events:    d.Events,
		hub:       d.Hub,
		mailer:    d.Mailer,
		perf:      d.Perf,
		scheduler: d.Scheduler,
		version:   d.Version,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// principal returns the authenticated caller. Routes that call it are behind
// Authenticate, so a missing principal is a wiring bug.
func principal(r *http.Request) *auth.Principal {
	p, err := auth.SubjectFromContext(r.Context())
	if err != nil {
		return &auth.Principal{}
	}
	return p
}

// tenant returns the merchant id resolved by RequireMerchantScope.
func tenant(r *http.Request) int64 {
	id, _ := auth.MerchantIDFromContext(r.Context())
	return id
}

// logAdmin records a console action in the admin log. Every console write
// goes through here, so it also drops the cached console totals.
func (h *Handler) logAdmin(r *http.Request, action, entity string, entityID int64, details string, meta models.JSONMap) {
	h.cache.InvalidatePrefix(adminStatsKey)
	if h.audit == nil {
		return
	}
	p := principal(r)
	entry := models.AdminLog{
		StaffID:   p.ID,
		ActorKind: string(p.Kind),
		Action:    action,
		Entity:    entity,
		Details:   details,
		Metadata:  meta,
	}
	if entityID != 0 {
		entry.EntityID = &entityID
	}
	h.audit.Admin(r.Context(), entry, audit.SourceFromRequest(r))
}

// activity records a merchant-side action in the activity feed and drops the
// tenant's cached dashboard totals.
func (h *Handler) activity(r *http.Request, action, details string) {
	merchantID := tenant(r)
	h.invalidateDashboard(merchantID)
	if h.audit == nil {
		return
	}
	p := principal(r)
	a := models.Activity{
		MerchantID: &merchantID,
		Person:     personOf(p),
		Action:     action,
		Details:    details,
	}
	if a.Person == models.PersonStaff {
		staffID := p.ID
		a.StaffID = &staffID
	}
	h.audit.Activity(r.Context(), a)
}

// personOf names the activity-feed actor for a tenant principal.
// Collaborators are merchant staff.
func personOf(p *auth.Principal) string {
	if p.Kind == auth.KindCollaborator {
		return models.PersonStaff
	}
	return models.PersonMerchant
}

const adminStatsKey = "admin-stats"

func dashboardKey(merchantID int64) string { return cache.Key("dashboard", merchantID) }

func (h *Handler) invalidateDashboard(merchantID int64) {
	h.cache.InvalidatePrefix(dashboardKey(merchantID) + ":")
}

// Plan quota resources.
const (
	quotaAgents    = "agents"
	quotaCustomers = "customers"
	quotaBranches  = "branches"
)

// checkQuota fails with errQuota when the merchant's active plan caps
// resource and the cap is reached. No plan, or a zero limit, is unlimited.
func (h *Handler) checkQuota(ctx context.Context, merchantID int64, resource string) error {
	plan, err := h.store.ActivePlanFor(ctx, merchantID)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var limit int
	switch resource {
	case quotaAgents:
		limit = plan.NoOfAgents
	case quotaCustomers:
		limit = plan.NoOfCustomers
	case quotaBranches:
		limit = plan.NoOfBranches
	}
	if limit <= 0 {
		return nil
	}

	usage, err := h.store.TenantUsage(ctx, merchantID)
	if err != nil {
		return err
	}
	used := map[string]int64{
		quotaAgents:    usage.Agents,
		quotaCustomers: usage.Customers,
		quotaBranches:  usage.Branches,
	}[resource]
	if used >= int64(limit) {
		return errQuota{resource: resource}
	}
	return nil
}

func (h *Handler) publish(ctx context.Context, topic string, payload interface{}) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(ctx, topic, payload); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}
