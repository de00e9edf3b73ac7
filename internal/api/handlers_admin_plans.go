// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/alphaweb/internal/models"
)

// PlanRequest creates a plan. Quotas of zero mean unlimited.
type PlanRequest struct {
	Type          string       `json:"type" validate:"required,oneof=standard custom"`
	Name          string       `json:"name" validate:"required,min=2,max=100"`
	BillingCycle  string       `json:"billingCycle" validate:"required,oneof=monthly yearly"`
	Pricing       models.Money `json:"pricing" validate:"required,gt=0"`
	Currency      string       `json:"currency" validate:"omitempty,currency"`
	Features      []string     `json:"features" validate:"omitempty,dive,min=1,max=200"`
	Description   string       `json:"description" validate:"omitempty,max=1000"`
	Status        string       `json:"status" validate:"omitempty,oneof=active inactive"`
	MerchantID    *int64       `json:"merchantId" validate:"omitempty,gt=0"`
	StartDate     string       `json:"startDate"`
	EndDate       string       `json:"endDate"`
	NoOfBranches  int          `json:"noOfBranches" validate:"gte=0"`
	NoOfCustomers int          `json:"noOfCustomers" validate:"gte=0"`
	NoOfAgents    int          `json:"noOfAgents" validate:"gte=0"`
}

// UpdatePlanRequest changes only the fields present.
type UpdatePlanRequest struct {
	Type          *string       `json:"type" validate:"omitempty,oneof=standard custom"`
	Name          *string       `json:"name" validate:"omitempty,min=2,max=100"`
	BillingCycle  *string       `json:"billingCycle" validate:"omitempty,oneof=monthly yearly"`
	Pricing       *models.Money `json:"pricing" validate:"omitempty,gt=0"`
	Currency      *string       `json:"currency" validate:"omitempty,currency"`
	Features      []string      `json:"features" validate:"omitempty,dive,min=1,max=200"`
	Description   *string       `json:"description" validate:"omitempty,max=1000"`
	Status        *string       `json:"status" validate:"omitempty,oneof=active inactive"`
	MerchantID    *int64        `json:"merchantId" validate:"omitempty,gt=0"`
	StartDate     *string       `json:"startDate"`
	EndDate       *string       `json:"endDate"`
	NoOfBranches  *int          `json:"noOfBranches" validate:"omitempty,gte=0"`
	NoOfCustomers *int          `json:"noOfCustomers" validate:"omitempty,gte=0"`
	NoOfAgents    *int          `json:"noOfAgents" validate:"omitempty,gte=0"`
}

// planDates parses both bounds and rejects an end before the start. Both
// failures are 422.
func planDates(start, end string) (*time.Time, *time.Time, error) {
	s, err := parseDate("startDate", start)
	if err != nil {
		return nil, nil, unprocessable(err.Error())
	}
	e, err := parseDate("endDate", end)
	if err != nil {
		return nil, nil, unprocessable(err.Error())
	}
	if s != nil && e != nil && e.Before(*s) {
		return nil, nil, unprocessable("endDate must not be before startDate")
	}
	return s, e, nil
}

func (h *Handler) requireMerchant(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := h.store.GetMerchant(ctx, *id); err != nil {
		return notFoundIf(err, "merchant not found")
	}
	return nil
}

// @Summary List plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param type query string false "standard or custom"
// @Param status query string false "active or inactive"
// @Success 200 {object} APIResponse{data=[]models.Plan}
// @Router /admin/plans [get]
func (h *Handler) AdminListPlans(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListPlans(r.Context(), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Create a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PlanRequest true "Plan"
// @Success 201 {object} APIResponse{data=models.Plan}
// @Failure 404 {object} APIResponse
// @Failure 422 {object} APIResponse
// @Router /admin/plans [post]
func (h *Handler) AdminCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	start, end, err := planDates(req.StartDate, req.EndDate)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.requireMerchant(r.Context(), req.MerchantID); err != nil {
		respondErr(w, r, err, "")
		return
	}
	p := &models.Plan{
		MerchantID:    req.MerchantID,
		Type:          req.Type,
		Name:          req.Name,
		BillingCycle:  req.BillingCycle,
		Pricing:       req.Pricing,
		Currency:      req.Currency,
		Features:      models.StringList(req.Features),
		Description:   req.Description,
		Status:        req.Status,
		StartDate:     start,
		EndDate:       end,
		NoOfBranches:  req.NoOfBranches,
		NoOfCustomers: req.NoOfCustomers,
		NoOfAgents:    req.NoOfAgents,
	}
	if err := h.store.CreatePlan(r.Context(), p); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.logAdmin(r, "create_plan", entityPlan, p.ID, "Created plan "+p.Name,
		models.JSONMap{"type": p.Type, "pricing": p.Pricing.String()})
	NewResponseWriter(w, r).Created("Plan created successfully", p)
}

func (h *Handler) planFromPath(w http.ResponseWriter, r *http.Request) (*models.Plan, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	p, err := h.store.GetPlan(r.Context(), id)
	if err != nil {
		respondErr(w, r, err, "plan not found")
		return nil, false
	}
	return p, true
}

// @Summary Get a plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 200 {object} APIResponse{data=models.Plan}
// @Router /admin/plans/{id} [get]
func (h *Handler) AdminGetPlan(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.planFromPath(w, r); ok {
		WriteSuccess(w, r, p)
	}
}

// @Summary Update a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param body body UpdatePlanRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.Plan}
// @Router /admin/plans/{id} [put]
func (h *Handler) AdminUpdatePlan(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planFromPath(w, r)
	if !ok {
		return
	}
	var req UpdatePlanRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.requireMerchant(r.Context(), req.MerchantID); err != nil {
		respondErr(w, r, err, "")
		return
	}

	startRaw, endRaw := formatDate(p.StartDate), formatDate(p.EndDate)
	setString(&startRaw, req.StartDate)
	setString(&endRaw, req.EndDate)
	start, end, err := planDates(startRaw, endRaw)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	p.StartDate, p.EndDate = start, end

	setString(&p.Type, req.Type)
	setString(&p.Name, req.Name)
	setString(&p.BillingCycle, req.BillingCycle)
	setString(&p.Currency, req.Currency)
	setString(&p.Description, req.Description)
	setString(&p.Status, req.Status)
	if req.Pricing != nil {
		p.Pricing = *req.Pricing
	}
	if req.Features != nil {
		p.Features = models.StringList(req.Features)
	}
	if req.MerchantID != nil {
		p.MerchantID = req.MerchantID
	}
	setInt(&p.NoOfBranches, req.NoOfBranches)
	setInt(&p.NoOfCustomers, req.NoOfCustomers)
	setInt(&p.NoOfAgents, req.NoOfAgents)

	if err := h.store.UpdatePlan(r.Context(), p); err != nil {
		respondErr(w, r, err, "plan not found")
		return
	}
	h.logAdmin(r, "update_plan", entityPlan, p.ID, "Updated plan "+p.Name, nil)
	NewResponseWriter(w, r).Message("Plan updated successfully", p)
}

// @Summary Delete a plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 200 {object} APIResponse
// @Router /admin/plans/{id} [delete]
func (h *Handler) AdminDeletePlan(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeletePlan(r.Context(), p.ID); err != nil {
		respondErr(w, r, err, "plan not found")
		return
	}
	h.logAdmin(r, "delete_plan", entityPlan, p.ID, "Deleted plan "+p.Name, nil)
	NewResponseWriter(w, r).Message("Plan deleted successfully", nil)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
