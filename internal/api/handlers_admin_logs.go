// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/alphaweb/internal/audit"
	"github.com/tomtom215/alphaweb/internal/middleware"
	"github.com/tomtom215/alphaweb/internal/scheduler"
)

// logFilterFromQuery reads action, entity, actorKind, since and limit.
func logFilterFromQuery(r *http.Request) (audit.LogFilter, error) {
	q := r.URL.Query()
	f := audit.LogFilter{
		Action:    q.Get("action"),
		Entity:    q.Get("entity"),
		ActorKind: q.Get("actorKind"),
		Limit:     getIntParam(r, "limit", audit.DefaultQueryLimit),
	}
	since, err := parseDate("since", q.Get("since"))
	if err != nil {
		return f, err
	}
	if since != nil {
		f.Since = *since
	}
	return f, nil
}

func (h *Handler) writeLogs(w http.ResponseWriter, r *http.Request, f audit.LogFilter) {
	logs, err := h.audit.AdminLogs(r.Context(), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, logs)
}

// AdminLogs returns console actions, most recent first.
//
// @Summary Admin logs
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param action query string false "Action"
// @Param entity query string false "Entity"
// @Param since query string false "YYYY-MM-DD"
// @Param limit query int false "Maximum entries" default(100)
// @Success 200 {object} APIResponse{data=[]models.AdminLog}
// @Router /admin/logs [get]
func (h *Handler) AdminLogs(w http.ResponseWriter, r *http.Request) {
	f, err := logFilterFromQuery(r)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.writeLogs(w, r, f)
}

// @Summary Admin logs by staff member
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param staffId path int true "Staff or super admin ID"
// @Success 200 {object} APIResponse{data=[]models.AdminLog}
// @Router /admin/logs/staff/{staffId} [get]
func (h *Handler) AdminLogsByStaff(w http.ResponseWriter, r *http.Request) {
	staffID, err := pathID(r, "staffId")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	f, err := logFilterFromQuery(r)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	f.StaffID = &staffID
	h.writeLogs(w, r, f)
}

// @Summary Admin logs for one entity
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param entity path string true "Entity name"
// @Param id path int true "Entity ID"
// @Success 200 {object} APIResponse{data=[]models.AdminLog}
// @Router /admin/logs/entity/{entity}/{id} [get]
func (h *Handler) AdminLogsByEntity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	f, err := logFilterFromQuery(r)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	f.Entity = chi.URLParam(r, "entity")
	f.EntityID = &id
	h.writeLogs(w, r, f)
}

// AdminActivities returns the merchant, agent and staff feed.
//
// @Summary Activity feed
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param merchantId query int false "Merchant ID"
// @Param person query string false "merchant, agent or staff"
// @Param limit query int false "Maximum entries" default(100)
// @Success 200 {object} APIResponse{data=[]models.Activity}
// @Router /admin/activities [get]
func (h *Handler) AdminActivities(w http.ResponseWriter, r *http.Request) {
	f := audit.ActivityFilter{
		Person: r.URL.Query().Get("person"),
		Limit:  getIntParam(r, "limit", audit.DefaultQueryLimit),
	}
	if raw := r.URL.Query().Get("merchantId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondErr(w, r, badRequest("invalid merchantId"), "")
			return
		}
		f.MerchantID = &id
	}
	acts, err := h.audit.Activities(r.Context(), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, acts)
}

// PerformanceReport is the body of GET /admin/system/performance.
type PerformanceReport struct {
	Endpoints []middleware.EndpointStats `json:"endpoints"`
	Recent    []middleware.RequestSample `json:"recent"`
	Uptime    float64                    `json:"uptime"`
}

// @Summary Request latency by route
// @Tags System
// @Produce json
// @Security BearerAuth
// @Param recent query int false "Recent samples to include" default(20)
// @Success 200 {object} APIResponse{data=PerformanceReport}
// @Router /admin/system/performance [get]
func (h *Handler) AdminPerformance(w http.ResponseWriter, r *http.Request) {
	report := PerformanceReport{
		Endpoints: []middleware.EndpointStats{},
		Recent:    []middleware.RequestSample{},
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if h.perf != nil {
		report.Endpoints = h.perf.Stats()
		report.Recent = h.perf.Recent(getIntParam(r, "recent", 20))
	}
	WriteSuccess(w, r, report)
}

// JobInfo is one scheduled job and its next run.
type JobInfo struct {
	Name    string    `json:"name"`
	NextRun time.Time `json:"nextRun"`
}

// @Summary Scheduled jobs
// @Tags System
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]JobInfo}
// @Router /admin/system/jobs [get]
func (h *Handler) AdminJobs(w http.ResponseWriter, r *http.Request) {
	jobs := []JobInfo{}
	if h.scheduler != nil {
		for name, next := range h.scheduler.Jobs() {
			jobs = append(jobs, JobInfo{Name: name, NextRun: next})
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	WriteSuccess(w, r, jobs)
}

// AdminRunJob runs a job immediately. A job already running is skipped.
//
// @Summary Run a job now
// @Tags System
// @Produce json
// @Security BearerAuth
// @Param name path string true "Job name"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /admin/system/jobs/{name}/run [post]
func (h *Handler) AdminRunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.scheduler == nil {
		respondErr(w, r, notFound("scheduler is not running"), "")
		return
	}
	if err := h.scheduler.RunNow(r.Context(), name); err != nil {
		if errors.Is(err, scheduler.ErrUnknownJob) {
			respondErr(w, r, notFound("unknown job: "+sanitizeLogValue(name)), "")
			return
		}
		respondErr(w, r, err, "")
		return
	}
	h.logAdmin(r, "run_job", entitySystem, 0, "Ran job "+name, nil)
	NewResponseWriter(w, r).Message("Job completed", map[string]string{"job": name})
}
