// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/store"
)

// parties is the customer and agent a loan or investment record refers to.
type parties struct {
	customer  *models.Customer
	agentID   *int64
	agentName string
	branch    string
}

// resolveParties loads the customer and its agent. agentID overrides the
// customer's own agent when set.
func (h *Handler) resolveParties(r *http.Request, merchantID, customerID int64, agentID *int64) (parties, error) {
	var p parties
	c, err := h.store.GetCustomer(r.Context(), merchantID, customerID)
	if err != nil {
		return p, notFoundIf(err, "customer not found")
	}
	p.customer = c

	id := c.AgentID
	if agentID != nil {
		id = *agentID
	}
	if id > 0 {
		agent, err := h.store.GetAgent(r.Context(), merchantID, id)
		switch {
		case err == nil:
			p.agentID, p.agentName, p.branch = &agent.ID, agent.FullName, agent.Branch
		case agentID != nil:
			return p, notFoundIf(err, "agent not found")
		}
	}
	if c.BranchID > 0 {
		if b, err := h.store.GetBranch(r.Context(), merchantID, c.BranchID); err == nil {
			p.branch = b.Name
		}
	}
	return p, nil
}

// ApplicationStatusRequest moves a loan or investment application.
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,application_status"`
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

func (req ApplicationStatusRequest) check() error {
	if req.Status == models.ApplicationRejected && strings.TrimSpace(req.Reason) == "" {
		return badRequest("a reason is required when rejecting an application")
	}
	return nil
}

// Loan applications

type LoanApplicationRequest struct {
	CustomerID      int64        `json:"customerId" validate:"required,gt=0"`
	RequestedAmount models.Money `json:"requestedAmount" validate:"gt=0"`
	InterestRate    float64      `json:"interestRate" validate:"gte=0,lte=100"`
	Duration        int          `json:"duration" validate:"required,gt=0,lte=120"`
	AgentID         *int64       `json:"agentId" validate:"omitempty,gt=0"`
	Purpose         string       `json:"purpose" validate:"omitempty,max=1000"`
	Collateral      string       `json:"collateral" validate:"omitempty,max=1000"`
	Notes           string       `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateLoanApplicationRequest struct {
	RequestedAmount *models.Money `json:"requestedAmount" validate:"omitempty,gt=0"`
	InterestRate    *float64      `json:"interestRate" validate:"omitempty,gte=0,lte=100"`
	Duration        *int          `json:"duration" validate:"omitempty,gt=0,lte=120"`
	AgentID         *int64        `json:"agentId" validate:"omitempty,gt=0"`
	Purpose         *string       `json:"purpose" validate:"omitempty,max=1000"`
	Collateral      *string       `json:"collateral" validate:"omitempty,max=1000"`
	Notes           *string       `json:"notes" validate:"omitempty,max=2000"`
}

// @Summary List loan applications
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pending, Approved, Rejected or Completed"
// @Success 200 {object} APIResponse{data=[]models.LoanApplication}
// @Router /merchant/loan-applications [get]
func (h *Handler) ListLoanApplications(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListLoanApplications(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Submit a loan application
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LoanApplicationRequest true "Application"
// @Success 201 {object} APIResponse{data=models.LoanApplication}
// @Router /merchant/loan-applications [post]
func (h *Handler) CreateLoanApplication(w http.ResponseWriter, r *http.Request) {
	var req LoanApplicationRequest
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
	a := &models.LoanApplication{
		MerchantID:      merchantID,
		CustomerID:      p.customer.ID,
		CustomerName:    p.customer.FullName,
		AccountNumber:   p.customer.AccountNumber,
		RequestedAmount: req.RequestedAmount,
		InterestRate:    req.InterestRate,
		Duration:        req.Duration,
		AgentID:         p.agentID,
		AgentName:       p.agentName,
		Branch:          p.branch,
		Purpose:         req.Purpose,
		Collateral:      req.Collateral,
		Notes:           req.Notes,
	}
	if err := h.store.CreateLoanApplication(r.Context(), a); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created loan application", fmt.Sprintf("%s applied for %s", a.CustomerName, a.RequestedAmount))
	NewResponseWriter(w, r).Created("Loan application created successfully", a)
}

func (h *Handler) loanApplicationFromPath(w http.ResponseWriter, r *http.Request) (*models.LoanApplication, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	a, err := h.store.GetLoanApplication(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "loan application not found")
		return nil, false
	}
	return a, true
}

// @Summary Get a loan application
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} APIResponse{data=models.LoanApplication}
// @Router /merchant/loan-applications/{id} [get]
func (h *Handler) GetLoanApplication(w http.ResponseWriter, r *http.Request) {
	if a, ok := h.loanApplicationFromPath(w, r); ok {
		WriteSuccess(w, r, a)
	}
}

// @Summary Update a loan application
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body UpdateLoanApplicationRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.LoanApplication}
// @Router /merchant/loan-applications/{id} [put]
func (h *Handler) UpdateLoanApplication(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loanApplicationFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateLoanApplicationRequest
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
	if req.RequestedAmount != nil {
		a.RequestedAmount = *req.RequestedAmount
	}
	if req.InterestRate != nil {
		a.InterestRate = *req.InterestRate
	}
	setInt(&a.Duration, req.Duration)
	setString(&a.Purpose, req.Purpose)
	setString(&a.Collateral, req.Collateral)
	setString(&a.Notes, req.Notes)
	if err := h.store.UpdateLoanApplication(r.Context(), a); err != nil {
		respondErr(w, r, err, "loan application not found")
		return
	}
	h.activity(r, "Updated loan application", fmt.Sprintf("Updated loan application %d", a.ID))
	NewResponseWriter(w, r).Message("Loan application updated successfully", a)
}

// SetLoanApplicationStatus reviews an application. Approval records the
// caller and time; rejection requires a reason.
//
// @Summary Review a loan application
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body ApplicationStatusRequest true "New status"
// @Success 200 {object} APIResponse{data=models.LoanApplication}
// @Router /merchant/loan-applications/{id}/status [patch]
func (h *Handler) SetLoanApplicationStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loanApplicationFromPath(w, r)
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
	updated, err := h.store.SetLoanApplicationStatus(r.Context(), a.MerchantID, a.ID, req.Status, &approver, req.Reason)
	if err != nil {
		respondErr(w, r, err, "loan application not found")
		return
	}
	h.activity(r, "Reviewed loan application", fmt.Sprintf("Set loan application %d to %s", a.ID, req.Status))
	NewResponseWriter(w, r).Message("Loan application status updated successfully", updated)
}

// @Summary Delete a loan application
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} APIResponse
// @Router /merchant/loan-applications/{id} [delete]
func (h *Handler) DeleteLoanApplication(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loanApplicationFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteLoanApplication(r.Context(), a.MerchantID, a.ID); err != nil {
		respondErr(w, r, err, "loan application not found")
		return
	}
	h.activity(r, "Deleted loan application", fmt.Sprintf("Deleted loan application %d", a.ID))
	NewResponseWriter(w, r).Message("Loan application deleted successfully", nil)
}

// Loans

type LoanRequest struct {
	CustomerID   int64        `json:"customerId" validate:"required,gt=0"`
	LoanAmount   models.Money `json:"loanAmount" validate:"gt=0"`
	InterestRate float64      `json:"interestRate" validate:"gte=0,lte=100"`
	Duration     int          `json:"duration" validate:"required,gt=0,lte=120"`
	AgentID      *int64       `json:"agentId" validate:"omitempty,gt=0"`
	DateIssued   string       `json:"dateIssued"`
	DueDate      string       `json:"dueDate"`
	Notes        string       `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateLoanRequest struct {
	LoanAmount   *models.Money `json:"loanAmount" validate:"omitempty,gt=0"`
	InterestRate *float64      `json:"interestRate" validate:"omitempty,gte=0,lte=100"`
	Duration     *int          `json:"duration" validate:"omitempty,gt=0,lte=120"`
	AgentID      *int64        `json:"agentId" validate:"omitempty,gt=0"`
	DueDate      *string       `json:"dueDate"`
	Notes        *string       `json:"notes" validate:"omitempty,max=2000"`
}

// @Summary List loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pending, Active, Completed or Defaulted"
// @Success 200 {object} APIResponse{data=[]models.Loan}
// @Router /merchant/loans [get]
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListLoans(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// CreateLoan books a loan. The total is principal plus simple interest and
// the due date defaults to the issue date plus duration months.
//
// @Summary Create a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LoanRequest true "Loan"
// @Success 201 {object} APIResponse{data=models.Loan}
// @Router /merchant/loans [post]
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req LoanRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	issued, err := parseDate("dateIssued", req.DateIssued)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	p, err := h.resolveParties(r, merchantID, req.CustomerID, req.AgentID)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	l := &models.Loan{
		MerchantID:    merchantID,
		CustomerID:    p.customer.ID,
		CustomerName:  p.customer.FullName,
		AccountNumber: p.customer.AccountNumber,
		LoanAmount:    req.LoanAmount,
		InterestRate:  req.InterestRate,
		Duration:      req.Duration,
		AgentID:       p.agentID,
		AgentName:     p.agentName,
		Branch:        p.branch,
		Notes:         req.Notes,
	}
	if issued != nil {
		l.DateIssued = *issued
	}
	if due != nil {
		if issued != nil && due.Before(*issued) {
			respondErr(w, r, badRequest("dueDate must not be before dateIssued"), "")
			return
		}
		l.DueDate = *due
	}
	if err := h.store.CreateLoan(r.Context(), l); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created loan", fmt.Sprintf("Issued %s loan to %s", l.LoanAmount, l.CustomerName))
	NewResponseWriter(w, r).Created("Loan created successfully", l)
}

func (h *Handler) loanFromPath(w http.ResponseWriter, r *http.Request) (*models.Loan, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	l, err := h.store.GetLoan(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "loan not found")
		return nil, false
	}
	return l, true
}

// @Summary Get a loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} APIResponse{data=models.Loan}
// @Router /merchant/loans/{id} [get]
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	if l, ok := h.loanFromPath(w, r); ok {
		WriteSuccess(w, r, l)
	}
}

// UpdateLoan edits loan terms. The total and remaining amounts are
// recomputed against what has already been paid.
//
// @Summary Update a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body UpdateLoanRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.Loan}
// @Router /merchant/loans/{id} [put]
func (h *Handler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loanFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateLoanRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.AgentID != nil {
		p, err := h.resolveParties(r, l.MerchantID, l.CustomerID, req.AgentID)
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		l.AgentID, l.AgentName, l.Branch = p.agentID, p.agentName, p.branch
	}
	if req.LoanAmount != nil {
		l.LoanAmount = *req.LoanAmount
	}
	if req.InterestRate != nil {
		l.InterestRate = *req.InterestRate
	}
	if req.Duration != nil {
		l.Duration = *req.Duration
		l.DueDate = l.DateIssued.AddDate(0, l.Duration, 0)
	}
	if req.DueDate != nil {
		due, err := parseDate("dueDate", *req.DueDate)
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		if due != nil {
			l.DueDate = *due
		}
	}
	setString(&l.Notes, req.Notes)
	if err := h.store.UpdateLoan(r.Context(), l); err != nil {
		respondErr(w, r, err, "loan not found")
		return
	}
	h.activity(r, "Updated loan", fmt.Sprintf("Updated loan %d for %s", l.ID, l.CustomerName))
	NewResponseWriter(w, r).Message("Loan updated successfully", l)
}

// SetLoanStatus moves a loan. Activating it records the caller as approver.
//
// @Summary Set loan status
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body StatusRequest true "Pending, Active, Completed or Defaulted"
// @Success 200 {object} APIResponse{data=models.Loan}
// @Router /merchant/loans/{id}/status [patch]
func (h *Handler) SetLoanStatus(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loanFromPath(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if !models.ValidLoanStatus(req.Status) {
		respondErr(w, r, badRequest("status must be Pending, Active, Completed or Defaulted"), "")
		return
	}
	approver := principal(r).ID
	if err := h.store.SetLoanStatus(r.Context(), l.MerchantID, l.ID, req.Status, &approver); err != nil {
		respondErr(w, r, err, "loan not found")
		return
	}
	updated, err := h.store.GetLoan(r.Context(), l.MerchantID, l.ID)
	if err != nil {
		respondErr(w, r, err, "loan not found")
		return
	}
	h.activity(r, "Updated loan status", fmt.Sprintf("Set loan %d to %s", l.ID, req.Status))
	NewResponseWriter(w, r).Message("Loan status updated successfully", updated)
}

// @Summary Delete a loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} APIResponse
// @Router /merchant/loans/{id} [delete]
func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loanFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteLoan(r.Context(), l.MerchantID, l.ID); err != nil {
		respondErr(w, r, err, "loan not found")
		return
	}
	h.activity(r, "Deleted loan", fmt.Sprintf("Deleted loan %d for %s", l.ID, l.CustomerName))
	NewResponseWriter(w, r).Message("Loan deleted successfully", nil)
}

// @Summary Loan book summary
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=store.LoanStats}
// @Router /merchant/loans/stats/summary [get]
func (h *Handler) LoanStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.LoanStats(r.Context(), tenant(r))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, st)
}

// Repayments

type RepaymentRequest struct {
	LoanID        int64        `json:"loanId" validate:"required,gt=0"`
	Amount        models.Money `json:"amount" validate:"gt=0"`
	Package       string       `json:"package" validate:"omitempty,max=200"`
	PaymentMethod string       `json:"paymentMethod" validate:"omitempty,max=50"`
	Reference     string       `json:"reference" validate:"omitempty,max=100"`
	Notes         string       `json:"notes" validate:"omitempty,max=1000"`
	Status        string       `json:"status" validate:"omitempty,oneof=Pending Completed Failed"`
	PaidAt        string       `json:"date"`
}

type UpdateRepaymentRequest struct {
	PaymentMethod *string `json:"paymentMethod" validate:"omitempty,max=50"`
	Reference     *string `json:"reference" validate:"omitempty,max=100"`
	Notes         *string `json:"notes" validate:"omitempty,max=1000"`
	Branch        *string `json:"branch" validate:"omitempty,max=200"`
}

// RepaymentResult is a recorded repayment and the loan after it.
type RepaymentResult struct {
	Repayment *models.Repayment `json:"repayment"`
	Loan      *models.Loan      `json:"loan"`
}

// @Summary List repayments
// @Tags Repayments
// @Produce json
// @Security BearerAuth
// @Param loanId query int false "Only this loan"
// @Param status query string false "Pending, Completed or Failed"
// @Success 200 {object} APIResponse{data=[]models.Repayment}
// @Router /merchant/repayments [get]
func (h *Handler) ListRepayments(w http.ResponseWriter, r *http.Request) {
	f := store.RepaymentFilter{Filter: filterFromQuery(r)}
	if raw := r.URL.Query().Get("loanId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondErr(w, r, badRequest("invalid loanId"), "")
			return
		}
		f.LoanID = id
	}
	items, total, err := h.store.ListRepayments(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// CreateRepayment records a payment against a loan. A completed payment
// reduces the remaining balance and completes the loan when it reaches zero.
//
// @Summary Record a repayment
// @Tags Repayments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RepaymentRequest true "Repayment"
// @Success 201 {object} APIResponse{data=RepaymentResult}
// @Failure 409 {object} APIResponse "Loan already repaid"
// @Router /merchant/repayments [post]
func (h *Handler) CreateRepayment(w http.ResponseWriter, r *http.Request) {
	var req RepaymentRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	paidAt, err := parseDate("date", req.PaidAt)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	loan, err := h.store.GetLoan(r.Context(), merchantID, req.LoanID)
	if err != nil {
		respondErr(w, r, err, "loan not found")
		return
	}
	rp := &models.Repayment{
		MerchantID:    merchantID,
		LoanID:        loan.ID,
		CustomerID:    loan.CustomerID,
		CustomerName:  loan.CustomerName,
		AccountNumber: loan.AccountNumber,
		Package:       req.Package,
		Amount:        req.Amount,
		Branch:        loan.Branch,
		AgentID:       loan.AgentID,
		AgentName:     loan.AgentName,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		Notes:         req.Notes,
	}
	if paidAt != nil {
		rp.PaidAt = *paidAt
	}
	updated, err := h.store.CreateRepayment(r.Context(), rp)
	if err != nil {
		respondErr(w, r, err, "loan not found")
		return
	}
	h.activity(r, "Recorded repayment", fmt.Sprintf("Received %s from %s", rp.Amount, rp.CustomerName))
	NewResponseWriter(w, r).Created("Repayment recorded successfully", RepaymentResult{Repayment: rp, Loan: updated})
}

func (h *Handler) repaymentFromPath(w http.ResponseWriter, r *http.Request) (*models.Repayment, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	rp, err := h.store.GetRepayment(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "repayment not found")
		return nil, false
	}
	return rp, true
}

// @Summary Get a repayment
// @Tags Repayments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Repayment ID"
// @Success 200 {object} APIResponse{data=models.Repayment}
// @Router /merchant/repayments/{id} [get]
func (h *Handler) GetRepayment(w http.ResponseWriter, r *http.Request) {
	if rp, ok := h.repaymentFromPath(w, r); ok {
		WriteSuccess(w, r, rp)
	}
}

// UpdateRepayment edits descriptive fields only; amounts change through
// status transitions or deletion.
//
// @Summary Update a repayment
// @Tags Repayments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Repayment ID"
// @Param body body UpdateRepaymentRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.Repayment}
// @Router /merchant/repayments/{id} [put]
func (h *Handler) UpdateRepayment(w http.ResponseWriter, r *http.Request) {
	rp, ok := h.repaymentFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateRepaymentRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	setString(&rp.PaymentMethod, req.PaymentMethod)
	setString(&rp.Reference, req.Reference)
	setString(&rp.Notes, req.Notes)
	setString(&rp.Branch, req.Branch)
	if err := h.store.UpdateRepayment(r.Context(), rp); err != nil {
		respondErr(w, r, err, "repayment not found")
		return
	}
	h.activity(r, "Updated repayment", "Updated repayment "+rp.TransactionID)
	NewResponseWriter(w, r).Message("Repayment updated successfully", rp)
}

// @Summary Set repayment status
// @Tags Repayments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Repayment ID"
// @Param body body StatusRequest true "Pending, Completed or Failed"
// @Success 200 {object} APIResponse{data=models.Repayment}
// @Router /merchant/repayments/{id}/status [patch]
func (h *Handler) SetRepaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	var req StatusRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if !models.ValidPaymentStatus(req.Status) {
		respondErr(w, r, badRequest("status must be Pending, Completed or Failed"), "")
		return
	}
	rp, err := h.store.SetRepaymentStatus(r.Context(), tenant(r), id, req.Status)
	if err != nil {
		respondErr(w, r, err, "repayment not found")
		return
	}
	h.activity(r, "Updated repayment status", fmt.Sprintf("Set repayment %s to %s", rp.TransactionID, req.Status))
	NewResponseWriter(w, r).Message("Repayment status updated successfully", rp)
}

// @Summary Delete a repayment
// @Tags Repayments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Repayment ID"
// @Success 200 {object} APIResponse
// @Router /merchant/repayments/{id} [delete]
func (h *Handler) DeleteRepayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.store.DeleteRepayment(r.Context(), tenant(r), id); err != nil {
		respondErr(w, r, err, "repayment not found")
		return
	}
	h.activity(r, "Deleted repayment", fmt.Sprintf("Deleted repayment %d", id))
	NewResponseWriter(w, r).Message("Repayment deleted successfully", nil)
}

// @Summary Repayment summary
// @Tags Repayments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=store.RepaymentStats}
// @Router /merchant/repayments/stats/summary [get]
func (h *Handler) RepaymentStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.RepaymentStats(r.Context(), tenant(r))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, st)
}
