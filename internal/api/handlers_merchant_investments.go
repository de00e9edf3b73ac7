// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/alphaweb/internal/models"
)

type InvestmentRequest struct {
	CustomerID   int64        `json:"customerId" validate:"required,gt=0"`
	Amount       models.Money `json:"amount" validate:"gt=0"`
	Plan         string       `json:"plan" validate:"required,min=2,max=100"`
	Duration     int          `json:"duration" validate:"required,gt=0,lte=360"`
	InterestRate float64      `json:"interestRate" validate:"gte=0,lte=100"`
	Status       string       `json:"status" validate:"omitempty,max=50"`
}

type UpdateInvestmentRequest struct {
	Plan            *string       `json:"plan" validate:"omitempty,min=2,max=100"`
	Status          *string       `json:"status" validate:"omitempty,max=50"`
	InterestRate    *float64      `json:"interestRate" validate:"omitempty,gte=0,lte=100"`
	MaturityDate    *string       `json:"maturityDate"`
	ExpectedReturns *models.Money `json:"expectedReturns" validate:"omitempty,gte=0"`
	CurrentValue    *models.Money `json:"currentValue" validate:"omitempty,gte=0"`
}

// @Summary List investments
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param type query string false "Plan"
// @Success 200 {object} APIResponse{data=[]models.Investment}
// @Router /merchant/investments [get]
func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListInvestments(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// CreateInvestment places funds for a customer. A zero rate takes the plan
// default, and maturity and expected returns are derived from the term.
//
// @Summary Create an investment
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InvestmentRequest true "Investment"
// @Success 201 {object} APIResponse{data=models.Investment}
// @Router /merchant/investments [post]
func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req InvestmentRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	c, err := h.store.GetCustomer(r.Context(), merchantID, req.CustomerID)
	if err != nil {
		respondErr(w, r, err, "customer not found")
		return
	}
	inv := &models.Investment{
		MerchantID:    merchantID,
		CustomerID:    c.ID,
		CustomerName:  c.FullName,
		AccountNumber: c.AccountNumber,
		Amount:        req.Amount,
		Plan:          req.Plan,
		Duration:      req.Duration,
		InterestRate:  req.InterestRate,
		Status:        req.Status,
	}
	if err := h.store.CreateInvestment(r.Context(), inv); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created investment", fmt.Sprintf("%s invested %s on %s", inv.CustomerName, inv.Amount, inv.Plan))
	NewResponseWriter(w, r).Created("Investment created successfully", inv)
}

func (h *Handler) investmentFromPath(w http.ResponseWriter, r *http.Request) (*models.Investment, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	inv, err := h.store.GetInvestment(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "investment not found")
		return nil, false
	}
	return inv, true
}

// @Summary Get an investment
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Investment ID"
// @Success 200 {object} APIResponse{data=models.Investment}
// @Router /merchant/investments/{id} [get]
func (h *Handler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	if inv, ok := h.investmentFromPath(w, r); ok {
		WriteSuccess(w, r, inv)
	}
}

// @Summary Update an investment
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Investment ID"
// @Param body body UpdateInvestmentRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.Investment}
// @Router /merchant/investments/{id} [put]
func (h *Handler) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.investmentFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateInvestmentRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.MaturityDate != nil {
		due, err := parseDate("maturityDate", *req.MaturityDate)
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		if due != nil {
			inv.MaturityDate = *due
		}
	}
	setString(&inv.Plan, req.Plan)
	setString(&inv.Status, req.Status)
	if req.InterestRate != nil {
		inv.InterestRate = *req.InterestRate
	}
	if req.ExpectedReturns != nil {
		inv.ExpectedReturns = *req.ExpectedReturns
	}
	if req.CurrentValue != nil {
		inv.CurrentValue = *req.CurrentValue
	}
	if err := h.store.UpdateInvestment(r.Context(), inv); err != nil {
		respondErr(w, r, err, "investment not found")
		return
	}
	h.activity(r, "Updated investment", fmt.Sprintf("Updated investment %d for %s", inv.ID, inv.CustomerName))
	NewResponseWriter(w, r).Message("Investment updated successfully", inv)
}

// @Summary Delete an investment
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Investment ID"
// @Success 200 {object} APIResponse
// @Router /merchant/investments/{id} [delete]
func (h *Handler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.investmentFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteInvestment(r.Context(), inv.MerchantID, inv.ID); err != nil {
		respondErr(w, r, err, "investment not found")
		return
	}
	h.activity(r, "Deleted investment", fmt.Sprintf("Deleted investment %d for %s", inv.ID, inv.CustomerName))
	NewResponseWriter(w, r).Message("Investment deleted successfully", nil)
}

// Investment applications

type InvestmentApplicationRequest struct {
	CustomerID   int64        `json:"customerId" validate:"required,gt=0"`
	TargetAmount models.Money `json:"targetAmount" validate:"gt=0"`
	Duration     int          `json:"duration" validate:"required,gt=0,lte=360"`
	AgentID      *int64       `json:"agentId" validate:"omitempty,gt=0"`
	Notes        string       `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateInvestmentApplicationRequest struct {
	TargetAmount *models.Money `json:"targetAmount" validate:"omitempty,gt=0"`
	Duration     *int          `json:"duration" validate:"omitempty,gt=0,lte=360"`
	AgentID      *int64        `json:"agentId" validate:"omitempty,gt=0"`
	Notes        *string       `json:"notes" validate:"omitempty,max=2000"`
}

// @Summary List investment applications
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pending, Approved, Rejected or Completed"
// @Success 200 {object} APIResponse{data=[]models.InvestmentApplication}
// @Router /merchant/investment-applications [get]
func (h *Handler) ListInvestmentApplications(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListInvestmentApplications(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Submit an investment application
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InvestmentApplicationRequest true "Application"
// @Success 201 {object} APIResponse{data=models.InvestmentApplication}
// @Router /merchant/investment-applications [post]
func (h *Handler) CreateInvestmentApplication(w http.ResponseWriter, r *http.Request) {
	var req InvestmentApplicationRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	p, err := h.resolveParties(r, merchantID, req.CustomerID, req.AgentID)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	a := &models.InvestmentApplication{
		MerchantID:    merchantID,
		CustomerID:    p.customer.ID,
		CustomerName:  p.customer.FullName,
		AccountNumber: p.customer.AccountNumber,
		TargetAmount:  req.TargetAmount,
		Duration:      req.Duration,
		AgentID:       p.agentID,
		AgentName:     p.agentName,
		Branch:        p.branch,
		Notes:         req.Notes,
	}
	if err := h.store.CreateInvestmentApplication(r.Context(), a); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created investment application", fmt.Sprintf("%s applied to invest %s", a.CustomerName, a.TargetAmount))
	NewResponseWriter(w, r).Created("Investment application created successfully", a)
}

func (h *Handler) investmentApplicationFromPath(w http.ResponseWriter, r *http.Request) (*models.InvestmentApplication, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	a, err := h.store.GetInvestmentApplication(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "investment application not found")
		return nil, false
	}
	return a, true
}

// @Summary Get an investment application
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} APIResponse{data=models.InvestmentApplication}
// @Router /merchant/investment-applications/{id} [get]
func (h *Handler) GetInvestmentApplication(w http.ResponseWriter, r *http.Request) {
	if a, ok := h.investmentApplicationFromPath(w, r); ok {
		WriteSuccess(w, r, a)
	}
}

// @Summary Update an investment application
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body UpdateInvestmentApplicationRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.InvestmentApplication}
// @Router /merchant/investment-applications/{id} [put]
func (h *Handler) UpdateInvestmentApplication(w http.ResponseWriter, r *http.Request) {
	a, ok := h.investmentApplicationFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateInvestmentApplicationRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.AgentID != nil {
		p, err := h.resolveParties(r, a.MerchantID, a.CustomerID, req.AgentID)
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		a.AgentID, a.AgentName, a.Branch = p.agentID, p.agentName, p.branch
	}
	if req.TargetAmount != nil {
		a.TargetAmount = *req.TargetAmount
	}
	setInt(&a.Duration, req.Duration)
	setString(&a.Notes, req.Notes)
	if err := h.store.UpdateInvestmentApplication(r.Context(), a); err != nil {
		respondErr(w, r, err, "investment application not found")
		return
	}
	h.activity(r, "Updated investment application", fmt.Sprintf("Updated investment application %d", a.ID))
	NewResponseWriter(w, r).Message("Investment application updated successfully", a)
}

// @Summary Review an investment application
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body ApplicationStatusRequest true "New status"
// @Success 200 {object} APIResponse{data=models.InvestmentApplication}
// @Router /merchant/investment-applications/{id}/status [patch]
func (h *Handler) SetInvestmentApplicationStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := h.investmentApplicationFromPath(w, r)
	if !ok {
		return
	}
	var req ApplicationStatusRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := req.check(); err != nil {
		respondErr(w, r, err, "")
		return
	}
	approver := principal(r).ID
	updated, err := h.store.SetInvestmentApplicationStatus(r.Context(), a.MerchantID, a.ID, req.Status, &approver, req.Reason)
	if err != nil {
		respondErr(w, r, err, "investment application not found")
		return
	}
	h.activity(r, "Reviewed investment application", fmt.Sprintf("Set investment application %d to %s", a.ID, req.Status))
	NewResponseWriter(w, r).Message("Investment application status updated successfully", updated)
}

// @Summary Delete an investment application
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} APIResponse
// @Router /merchant/investment-applications/{id} [delete]
func (h *Handler) DeleteInvestmentApplication(w http.ResponseWriter, r *http.Request) {
	a, ok := h.investmentApplicationFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteInvestmentApplication(r.Context(), a.MerchantID, a.ID); err != nil {
		respondErr(w, r, err, "investment application not found")
		return
	}
	h.activity(r, "Deleted investment application", fmt.Sprintf("Deleted investment application %d", a.ID))
	NewResponseWriter(w, r).Message("Investment application deleted successfully", nil)
}

// Investment transactions

type InvestmentTransactionRequest struct {
	CustomerID      int64        `json:"customerId" validate:"required,gt=0"`
	Package         string       `json:"package" validate:"omitempty,max=200"`
	Amount          models.Money `json:"amount" validate:"gt=0"`
	TransactionType string       `json:"transactionType" validate:"required,investment_tx_type"`
	Status          string       `json:"status" validate:"omitempty,investment_tx_status"`
	Notes           string       `json:"notes" validate:"omitempty,max=1000"`
	TransactionDate string       `json:"transactionDate"`
}

type UpdateInvestmentTransactionRequest struct {
	Package         *string       `json:"package" validate:"omitempty,max=200"`
	Amount          *models.Money `json:"amount" validate:"omitempty,gt=0"`
	TransactionType *string       `json:"transactionType" validate:"omitempty,investment_tx_type"`
	Status          *string       `json:"status" validate:"omitempty,investment_tx_status"`
	Notes           *string       `json:"notes" validate:"omitempty,max=1000"`
}

// @Summary List investment transactions
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, completed or cancelled"
// @Param type query string false "deposit, withdrawal, interest or penalty"
// @Success 200 {object} APIResponse{data=[]models.InvestmentTransaction}
// @Router /merchant/investment-transactions [get]
func (h *Handler) ListInvestmentTransactions(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListInvestmentTransactions(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Record an investment transaction
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InvestmentTransactionRequest true "Transaction"
// @Success 201 {object} APIResponse{data=models.InvestmentTransaction}
// @Router /merchant/investment-transactions [post]
func (h *Handler) CreateInvestmentTransaction(w http.ResponseWriter, r *http.Request) {
	var req InvestmentTransactionRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	at, err := parseDate("transactionDate", req.TransactionDate)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	p, err := h.resolveParties(r, merchantID, req.CustomerID, nil)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	t := &models.InvestmentTransaction{
		MerchantID:      merchantID,
		CustomerID:      p.customer.ID,
		Customer:        p.customer.FullName,
		AccountNumber:   p.customer.AccountNumber,
		Package:         req.Package,
		Amount:          req.Amount,
		Branch:          p.branch,
		Agent:           p.agentName,
		TransactionType: req.TransactionType,
		Status:          req.Status,
		Notes:           req.Notes,
	}
	if at != nil {
		t.TransactionDate = *at
	}
	if err := h.store.CreateInvestmentTransaction(r.Context(), t); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Recorded investment transaction", fmt.Sprintf("Recorded %s %s for %s", t.Amount, t.TransactionType, t.Customer))
	NewResponseWriter(w, r).Created("Investment transaction created successfully", t)
}

func (h *Handler) investmentTransactionFromPath(w http.ResponseWriter, r *http.Request) (*models.InvestmentTransaction, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	t, err := h.store.GetInvestmentTransaction(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "investment transaction not found")
		return nil, false
	}
	return t, true
}

// @Summary Get an investment transaction
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} APIResponse{data=models.InvestmentTransaction}
// @Router /merchant/investment-transactions/{id} [get]
func (h *Handler) GetInvestmentTransaction(w http.ResponseWriter, r *http.Request) {
	if t, ok := h.investmentTransactionFromPath(w, r); ok {
		WriteSuccess(w, r, t)
	}
}

// @Summary Update an investment transaction
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param body body UpdateInvestmentTransactionRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.InvestmentTransaction}
// @Router /merchant/investment-transactions/{id} [put]
func (h *Handler) UpdateInvestmentTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := h.investmentTransactionFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateInvestmentTransactionRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	setString(&t.Package, req.Package)
	setString(&t.TransactionType, req.TransactionType)
	setString(&t.Status, req.Status)
	setString(&t.Notes, req.Notes)
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	if err := h.store.UpdateInvestmentTransaction(r.Context(), t); err != nil {
		respondErr(w, r, err, "investment transaction not found")
		return
	}
	h.activity(r, "Updated investment transaction", fmt.Sprintf("Updated investment transaction %d", t.ID))
	NewResponseWriter(w, r).Message("Investment transaction updated successfully", t)
}

// @Summary Delete an investment transaction
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} APIResponse
// @Router /merchant/investment-transactions/{id} [delete]
func (h *Handler) DeleteInvestmentTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := h.investmentTransactionFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteInvestmentTransaction(r.Context(), t.MerchantID, t.ID); err != nil {
		respondErr(w, r, err, "investment transaction not found")
		return
	}
	h.activity(r, "Deleted investment transaction", fmt.Sprintf("Deleted investment transaction %d", t.ID))
	NewResponseWriter(w, r).Message("Investment transaction deleted successfully", nil)
}
