// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/alphaweb/internal/audit"
	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/authz"
	"github.com/tomtom215/alphaweb/internal/cache"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/events"
	"github.com/tomtom215/alphaweb/internal/finance"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/store"
)

// Admin log entity names.
const (
	entityMerchant     = "merchant"
	entityTransaction  = "transaction"
	entityPlan         = "plan"
	entityRole         = "role"
	entityStaff        = "staff"
	entityTicket       = "ticket"
	entityFAQ          = "faq"
	entityAnnouncement = "announcement"
	entitySystem       = "system"
)

// AdminStats is the console dashboard headline.
type AdminStats struct {
	store.MerchantCounts
	Tickets *store.TicketCounts `json:"tickets"`
}

// AdminStats returns merchant totals and support ticket counts.
//
// @Summary Console dashboard stats
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=AdminStats}
// @Router /admin/stats [get]
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	st, err := cache.Load(h.cache, adminStatsKey, func() (AdminStats, error) {
		counts, err := h.store.MerchantCounts(r.Context())
		if err != nil {
			return AdminStats{}, err
		}
		tickets, err := h.store.TicketCounts(r.Context())
		if err != nil {
			return AdminStats{}, err
		}
		return AdminStats{MerchantCounts: counts, Tickets: tickets}, nil
	})
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, st)
}

// AdminMerchantStats buckets merchant signups by month.
//
// @Summary Monthly merchant signups
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param duration query string false "Last 3 months, Last 6 months or Last 12 months" default(Last 6 months)
// @Success 200 {object} APIResponse{data=[]finance.MonthBucket}
// @Failure 422 {object} APIResponse
// @Router /admin/merchant-stats [get]
func (h *Handler) AdminMerchantStats(w http.ResponseWriter, r *http.Request) {
	duration := r.URL.Query().Get("duration")
	if duration == "" {
		duration = "Last 6 months"
	}
	buckets, err := finance.MonthBuckets(duration, h.now())
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	signups, err := h.store.MerchantSignupsSince(r.Context(), buckets[0].Start)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	for _, s := range signups {
		finance.AddToBuckets(buckets, s.CreatedAt, s.Status)
	}
	WriteSuccess(w, r, buckets)
}

// CreateMerchantRequest is used by admins to onboard a merchant directly.
// Merchants created here are verified.
type CreateMerchantRequest struct {
	BusinessName  string `json:"businessName" validate:"required,min=2,max=200"`
	BusinessAlias string `json:"businessAlias" validate:"omitempty,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,phone"`
	Currency      string `json:"currency" validate:"omitempty,currency"`
	Password      string `json:"password" validate:"required,min=8,max=128"`
	PlanID        *int64 `json:"planId" validate:"omitempty,gt=0"`
}

type UpdateMerchantRequest struct {
	BusinessName  *string `json:"businessName" validate:"omitempty,min=2,max=200"`
	BusinessAlias *string `json:"businessAlias" validate:"omitempty,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,phone"`
	Currency      *string `json:"currency" validate:"omitempty,currency"`
	PlanID        *int64  `json:"planId" validate:"omitempty,gt=0"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// @Summary List merchants
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Active or Inactive"
// @Param search query string false "Business name, alias or email"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} APIResponse{data=[]models.MerchantSummary}
// @Router /admin/merchants [get]
func (h *Handler) AdminListMerchants(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListMerchants(r.Context(), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Create a merchant
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateMerchantRequest true "Merchant"
// @Success 201 {object} APIResponse{data=models.Merchant}
// @Failure 409 {object} APIResponse
// @Router /admin/merchants [post]
func (h *Handler) AdminCreateMerchant(w http.ResponseWriter, r *http.Request) {
	var req CreateMerchantRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.PlanID != nil {
		if _, err := h.store.GetPlan(r.Context(), *req.PlanID); err != nil {
			respondErr(w, r, err, "plan not found")
			return
		}
	}
	hash, err := auth.HashPassword(req.Password, h.bcryptCost())
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	m := &models.Merchant{
		BusinessName:  req.BusinessName,
		BusinessAlias: req.BusinessAlias,
		Email:         normalizeEmail(req.Email),
		Phone:         req.Phone,
		Currency:      req.Currency,
		PasswordHash:  hash,
		IsVerified:    true,
		PlanID:        req.PlanID,
	}
	if err := h.store.CreateMerchant(r.Context(), m); err != nil {
		if errors.Is(err, database.ErrConflict) {
			respondErr(w, r, conflict("a merchant with this email already exists"), "")
			return
		}
		respondErr(w, r, err, "")
		return
	}
	h.logAdmin(r, "create_merchant", entityMerchant, m.ID, "Created merchant "+m.BusinessName, nil)
	h.publish(r.Context(), events.TopicMerchantRegistered, events.MerchantRegistered{
		MerchantID: m.ID, BusinessName: m.BusinessName, Email: m.Email,
	})
	NewResponseWriter(w, r).Created("Merchant created successfully", m)
}

// @Summary Get a merchant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Merchant ID"
// @Success 200 {object} APIResponse{data=models.Merchant}
// @Failure 404 {object} APIResponse
// @Router /admin/merchants/{id} [get]
func (h *Handler) AdminGetMerchant(w http.ResponseWriter, r *http.Request) {
	m, ok := h.merchantFromPath(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, r, m)
}

// merchantFromPath loads the merchant named by {id} or writes the error.
func (h *Handler) merchantFromPath(w http.ResponseWriter, r *http.Request) (*models.Merchant, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	m, err := h.store.GetMerchant(r.Context(), id)
	if err != nil {
		respondErr(w, r, err, "merchant not found")
		return nil, false
	}
	return m, true
}

// @Summary Update a merchant
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Merchant ID"
// @Param body body UpdateMerchantRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.Merchant}
// @Router /admin/merchants/{id} [put]
func (h *Handler) AdminUpdateMerchant(w http.ResponseWriter, r *http.Request) {
	m, ok := h.merchantFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateMerchantRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.PlanID != nil {
		if _, err := h.store.GetPlan(r.Context(), *req.PlanID); err != nil {
			respondErr(w, r, err, "plan not found")
			return
		}
		m.PlanID = req.PlanID
	}
	setString(&m.BusinessName, req.BusinessName)
	setString(&m.BusinessAlias, req.BusinessAlias)
	setString(&m.Phone, req.Phone)
	setString(&m.Currency, req.Currency)

	if err := h.store.UpdateMerchant(r.Context(), m); err != nil {
		respondErr(w, r, err, "merchant not found")
		return
	}
	h.logAdmin(r, "update_merchant", entityMerchant, m.ID, "Updated merchant "+m.BusinessName, nil)
	NewResponseWriter(w, r).Message("Merchant updated successfully", m)
}

// @Summary Delete a merchant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Merchant ID"
// @Success 200 {object} APIResponse
// @Router /admin/merchants/{id} [delete]
func (h *Handler) AdminDeleteMerchant(w http.ResponseWriter, r *http.Request) {
	m, ok := h.merchantFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteMerchant(r.Context(), m.ID); err != nil {
		respondErr(w, r, err, "merchant not found")
		return
	}
	h.logAdmin(r, "delete_merchant", entityMerchant, m.ID, "Deleted merchant "+m.BusinessName,
		models.JSONMap{"email": m.Email})
	NewResponseWriter(w, r).Message("Merchant deleted successfully", nil)
}

// AdminSetMerchantStatus activates or suspends a merchant.
//
// @Summary Set merchant status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Merchant ID"
// @Param body body StatusRequest true "Active or Inactive"
// @Success 200 {object} APIResponse
// @Router /admin/merchants/{id}/status [patch]
func (h *Handler) AdminSetMerchantStatus(w http.ResponseWriter, r *http.Request) {
	m, ok := h.merchantFromPath(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if !models.ValidMerchantStatus(req.Status) {
		respondErr(w, r, badRequest("status must be Active or Inactive"), "")
		return
	}
	if err := h.store.SetMerchantStatus(r.Context(), m.ID, req.Status); err != nil {
		respondErr(w, r, err, "merchant not found")
		return
	}
	h.logAdmin(r, "update_merchant_status", entityMerchant, m.ID,
		fmt.Sprintf("Changed %s status from %s to %s", m.BusinessName, m.Status, req.Status),
		models.JSONMap{"from": m.Status, "to": req.Status})
	m.Status = req.Status
	NewResponseWriter(w, r).Message("Merchant status updated successfully", m)
}

// AdminApproveMerchant marks the merchant verified and active.
//
// @Summary Approve a merchant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Merchant ID"
// @Success 200 {object} APIResponse{data=models.Merchant}
// @Router /admin/merchants/{id}/approve [post]
func (h *Handler) AdminApproveMerchant(w http.ResponseWriter, r *http.Request) {
	m, ok := h.merchantFromPath(w, r)
	if !ok {
		return
	}
	err := h.store.InTx(r.Context(), func(tx *store.Store) error {
		if err := tx.MarkMerchantVerified(r.Context(), m.ID); err != nil {
			return err
		}
		return tx.SetMerchantStatus(r.Context(), m.ID, models.MerchantActive)
	})
	if err != nil {
		respondErr(w, r, err, "merchant not found")
		return
	}
	m.IsVerified, m.Status = true, models.MerchantActive
	h.logAdmin(r, "approve_merchant", entityMerchant, m.ID, "Approved merchant "+m.BusinessName, nil)
	NewResponseWriter(w, r).Message("Merchant approved successfully", m)
}

// @Summary Reset a merchant password
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Merchant ID"
// @Param body body ResetPasswordRequest true "New password"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /admin/merchants/{id}/reset-password [post]
func (h *Handler) AdminResetMerchantPassword(w http.ResponseWriter, r *http.Request) {
	m, ok := h.merchantFromPath(w, r)
	if !ok {
		return
	}
	var req ResetPasswordRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	hash, err := auth.HashPassword(req.Password, h.bcryptCost())
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.store.SetMerchantPassword(r.Context(), m.ID, hash); err != nil {
		respondErr(w, r, err, "merchant not found")
		return
	}
	h.logAdmin(r, "reset_merchant_password", entityMerchant, m.ID, "Reset password for "+m.BusinessName, nil)
	NewResponseWriter(w, r).Message("Merchant password reset successfully", nil)
}

// AdminMerchantTransactions merges platform, wallet and repayment rows.
//
// @Summary Merchant transactions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Merchant ID"
// @Param limit query int false "Maximum rows" default(50)
// @Success 200 {object} APIResponse{data=[]models.MergedTransaction}
// @Router /admin/merchants/{id}/transactions [get]
func (h *Handler) AdminMerchantTransactions(w http.ResponseWriter, r *http.Request) {
	m, ok := h.merchantFromPath(w, r)
	if !ok {
		return
	}
	items, err := h.store.MergedTransactions(r.Context(), m.ID, getIntParam(r, "limit", 50))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, items)
}

// Subscription describes the plan a merchant is on.
type Subscription struct {
	MerchantID  int64         `json:"merchantId"`
	CurrentPlan *models.Plan  `json:"currentPlan"`
	Plans       []models.Plan `json:"plans"`
	Usage       store.Usage   `json:"usage"`
}

func (h *Handler) subscription(r *http.Request, merchantID int64) (*Subscription, error) {
	sub := &Subscription{MerchantID: merchantID}
	current, err := h.store.ActivePlanFor(r.Context(), merchantID)
	switch {
	case err == nil:
		sub.CurrentPlan = current
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}
	if sub.Plans, err = h.store.PlansForMerchant(r.Context(), merchantID); err != nil {
		return nil, err
	}
	if sub.Usage, err = h.store.TenantUsage(r.Context(), merchantID); err != nil {
		return nil, err
	}
	return sub, nil
}

// @Summary Merchant subscription
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Merchant ID"
// @Success 200 {object} APIResponse{data=Subscription}
// @Router /admin/merchants/{id}/subscription [get]
func (h *Handler) AdminMerchantSubscription(w http.ResponseWriter, r *http.Request) {
	m, ok := h.merchantFromPath(w, r)
	if !ok {
		return
	}
	sub, err := h.subscription(r, m.ID)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, sub)
}

// MerchantLogs pairs the console actions taken on a merchant with the
// merchant's own activity feed.
type MerchantLogs struct {
	AdminLogs  []models.AdminLog `json:"adminLogs"`
	Activities []models.Activity `json:"activities"`
}

// @Summary Merchant audit trail
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Merchant ID"
// @Param limit query int false "Maximum entries per list" default(100)
// @Success 200 {object} APIResponse{data=MerchantLogs}
// @Router /admin/merchants/{id}/logs [get]
func (h *Handler) AdminMerchantLogs(w http.ResponseWriter, r *http.Request) {
	m, ok := h.merchantFromPath(w, r)
	if !ok {
		return
	}
	limit := getIntParam(r, "limit", audit.DefaultQueryLimit)
	logs, err := h.audit.AdminLogs(r.Context(), audit.LogFilter{Entity: entityMerchant, EntityID: &m.ID, Limit: limit})
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	acts, err := h.audit.Activities(r.Context(), audit.ActivityFilter{MerchantID: &m.ID, Limit: limit})
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, MerchantLogs{AdminLogs: logs, Activities: acts})
}

// @Summary List platform transactions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param type query string false "Type"
// @Param search query string false "Reference, description or business name"
// @Success 200 {object} APIResponse{data=[]models.TransactionWithMerchant}
// @Router /admin/transactions [get]
func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListTransactions(r.Context(), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// TransactionActionRequest approves, rejects or refunds a transaction.
type TransactionActionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject refund"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

var transactionActions = map[string]struct {
	perm   string
	status string
}{
	"approve": {authz.PermApproveTransaction, "completed"},
	"reject":  {authz.PermRejectTransaction, "rejected"},
	"refund":  {authz.PermRefundTransaction, "refunded"},
}

// AdminSetTransactionStatus applies an action. Each action has its own
// permission, checked here since the route only requires view access.
//
// @Summary Approve, reject or refund a transaction
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param body body TransactionActionRequest true "Action"
// @Success 200 {object} APIResponse{data=models.Transaction}
// @Failure 403 {object} APIResponse
// @Router /admin/transactions/{id}/status [patch]
func (h *Handler) AdminSetTransactionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	var req TransactionActionRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	action := transactionActions[req.Action]
	allowed, err := h.enforcer.Can(principal(r), action.perm)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if !allowed {
		respondErr(w, r, forbidden("missing permission: "+action.perm), "")
		return
	}
	txn, err := h.store.SetTransactionStatus(r.Context(), id, action.status)
	if err != nil {
		respondErr(w, r, err, "transaction not found")
		return
	}
	h.logAdmin(r, req.Action+"_transaction", entityTransaction, id,
		fmt.Sprintf("Marked transaction %s as %s", txn.Reference, action.status),
		models.JSONMap{"reason": req.Reason})
	NewResponseWriter(w, r).Message("Transaction updated successfully", txn)
}

func (h *Handler) bcryptCost() int {
	if h.cfg == nil {
		return 0
	}
	return h.cfg.Security.BcryptCost
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
