// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/alphaweb/internal/cache"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/store"
)

// @Summary Dashboard totals
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=store.DashboardStats}
// @Router /merchant/dashboard/stats [get]
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	merchantID := tenant(r)
	st, err := cache.Load(h.cache, cache.Key(dashboardKey(merchantID), "totals"), func() (*store.DashboardStats, error) {
		return h.store.DashboardStats(r.Context(), merchantID)
	})
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, st)
}

// DashboardTransactionStats buckets repayments, investments and loans by
// month for the chart.
//
// @Summary Monthly transaction chart
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param duration query string false "Last 3 months, Last 6 months or Last 12 months"
// @Success 200 {object} APIResponse{data=[]store.TransactionMonth}
// @Failure 422 {object} APIResponse
// @Router /merchant/dashboard/transaction-stats [get]
func (h *Handler) DashboardTransactionStats(w http.ResponseWriter, r *http.Request) {
	merchantID := tenant(r)
	duration := r.URL.Query().Get("duration")
	months, err := cache.Load(h.cache, cache.Key(dashboardKey(merchantID), "transactions", duration), func() ([]store.TransactionMonth, error) {
		return h.store.TransactionStats(r.Context(), merchantID, duration)
	})
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, months)
}

// @Summary Customers per agent
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]store.PieSlice}
// @Router /merchant/dashboard/agent-customer-stats [get]
func (h *Handler) DashboardAgentCustomerStats(w http.ResponseWriter, r *http.Request) {
	slices, err := h.store.AgentCustomerStats(r.Context(), tenant(r))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, slices)
}

// Support, merchant side

type CreateTicketRequest struct {
	Subject       string `json:"subject" validate:"required,min=3,max=200"`
	Category      string `json:"category" validate:"omitempty,max=100"`
	Priority      string `json:"priority" validate:"omitempty,ticket_priority"`
	Message       string `json:"message" validate:"required,min=1,max=5000"`
	AttachmentURL string `json:"attachmentUrl" validate:"omitempty,url"`
}

// @Summary List own support tickets
// @Tags Merchant Support
// @Produce json
// @Security BearerAuth
// @Param status query string false "open, pending, resolved or closed"
// @Success 200 {object} APIResponse{data=[]models.SupportTicket}
// @Router /merchant/support/tickets [get]
func (h *Handler) MerchantListTickets(w http.ResponseWriter, r *http.Request) {
	f := ticketFilterFromQuery(r)
	merchantID := tenant(r)
	f.MerchantID = &merchantID
	items, total, err := h.store.ListTickets(r.Context(), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// MerchantCreateTicket opens a ticket with its first message.
//
// @Summary Open a support ticket
// @Tags Merchant Support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTicketRequest true "Ticket"
// @Success 201 {object} APIResponse{data=models.SupportTicket}
// @Router /merchant/support/tickets [post]
func (h *Handler) MerchantCreateTicket(w http.ResponseWriter, r *http.Request) {
	var req CreateTicketRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	t := &models.SupportTicket{
		MerchantID: &merchantID,
		Subject:    req.Subject,
		Category:   req.Category,
		Priority:   req.Priority,
	}
	first := newTicketMessage(TicketMessageRequest{Message: req.Message, AttachmentURL: req.AttachmentURL},
		models.SenderMerchant, principal(r).ID)
	if err := h.store.CreateTicket(r.Context(), t, first); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Opened support ticket", "Opened ticket "+t.TicketRef+": "+t.Subject)
	NewResponseWriter(w, r).Created("Ticket created successfully", t)
}

// @Summary Get an own ticket with its messages
// @Tags Merchant Support
// @Produce json
// @Security BearerAuth
// @Param ref path string true "Ticket reference"
// @Success 200 {object} APIResponse{data=models.SupportTicket}
// @Router /merchant/support/tickets/{ref} [get]
func (h *Handler) MerchantGetTicket(w http.ResponseWriter, r *http.Request) {
	merchantID := tenant(r)
	t, err := h.store.GetTicket(r.Context(), chi.URLParam(r, "ref"), &merchantID)
	if err != nil {
		respondErr(w, r, err, "ticket not found")
		return
	}
	WriteSuccess(w, r, t)
}

// MerchantReplyTicket adds a message to an own ticket. Replying reopens a
// resolved ticket; closed tickets accept no replies.
//
// @Summary Reply to an own ticket
// @Tags Merchant Support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "Ticket reference"
// @Param body body TicketMessageRequest true "Message"
// @Success 201 {object} APIResponse{data=models.SupportTicket}
// @Router /merchant/support/tickets/{ref}/messages [post]
func (h *Handler) MerchantReplyTicket(w http.ResponseWriter, r *http.Request) {
	var req TicketMessageRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	t, err := h.store.GetTicket(r.Context(), chi.URLParam(r, "ref"), &merchantID)
	if err != nil {
		respondErr(w, r, err, "ticket not found")
		return
	}
	if t.Status == models.TicketClosed {
		respondErr(w, r, badRequest("ticket is closed"), "")
		return
	}
	msg := newTicketMessage(req, models.SenderMerchant, principal(r).ID)
	if err := h.store.AddTicketMessage(r.Context(), t, msg); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Replied to support ticket", "Replied to ticket "+t.TicketRef)
	NewResponseWriter(w, r).Created("Message sent", t)
}

// @Summary Active FAQs
// @Tags Merchant Support
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.FAQ}
// @Router /merchant/support/faqs [get]
func (h *Handler) MerchantFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.store.ListFAQs(r.Context(), true)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, faqs)
}

// @Summary Announcements for merchants
// @Tags Merchant Support
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.Announcement}
// @Router /merchant/support/announcements [get]
func (h *Handler) MerchantAnnouncements(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAnnouncements(r.Context(), "merchants")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, items)
}
