// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/mail"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/store"
)

// TicketMessageRequest adds a message to a ticket.
type TicketMessageRequest struct {
	Message       string `json:"message" validate:"required,min=1,max=5000"`
	AttachmentURL string `json:"attachmentUrl" validate:"omitempty,url"`
}

type FAQRequest struct {
	Question string `json:"question" validate:"required,min=5,max=500"`
	Answer   string `json:"answer" validate:"required,min=1,max=5000"`
	Category string `json:"category" validate:"omitempty,max=100"`
}

type AnnouncementRequest struct {
	Title          string `json:"title" validate:"required,min=2,max=200"`
	Content        string `json:"content" validate:"required,min=1,max=5000"`
	TargetAudience string `json:"targetAudience" validate:"omitempty,audience"`
}

func ticketFilterFromQuery(r *http.Request) store.TicketFilter {
	q := r.URL.Query()
	return store.TicketFilter{
		Filter:   filterFromQuery(r),
		Priority: q.Get("priority"),
		Category: q.Get("category"),
	}
}

func newTicketMessage(req TicketMessageRequest, sender string, senderID int64) *models.TicketMessage {
	return &models.TicketMessage{
		SenderType:    sender,
		SenderID:      &senderID,
		Message:       strings.TrimSpace(req.Message),
		HasAttachment: req.AttachmentURL != "",
		AttachmentURL: req.AttachmentURL,
	}
}

// @Summary List support tickets
// @Tags Support
// @Produce json
// @Security BearerAuth
// @Param status query string false "open, pending, resolved or closed"
// @Param priority query string false "low, medium, high or urgent"
// @Param category query string false "Category"
// @Param search query string false "Subject, reference or business name"
// @Success 200 {object} APIResponse{data=[]models.SupportTicket}
// @Router /admin/support/tickets [get]
func (h *Handler) AdminListTickets(w http.ResponseWriter, r *http.Request) {
	f := ticketFilterFromQuery(r)
	items, total, err := h.store.ListTickets(r.Context(), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Ticket counts by status
// @Tags Support
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=store.TicketCounts}
// @Router /admin/support/tickets/stats [get]
func (h *Handler) AdminTicketStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.TicketCounts(r.Context())
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, counts)
}

// @Summary Get a ticket with its messages
// @Tags Support
// @Produce json
// @Security BearerAuth
// @Param ref path string true "Ticket reference"
// @Success 200 {object} APIResponse{data=models.SupportTicket}
// @Router /admin/support/tickets/{ref} [get]
func (h *Handler) AdminGetTicket(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTicket(r.Context(), chi.URLParam(r, "ref"), nil)
	if err != nil {
		respondErr(w, r, err, "ticket not found")
		return
	}
	WriteSuccess(w, r, t)
}

// AdminReplyTicket answers a ticket and emails the merchant. An open
// ticket moves to pending.
//
// @Summary Reply to a ticket
// @Tags Support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "Ticket reference"
// @Param body body TicketMessageRequest true "Reply"
// @Success 201 {object} APIResponse{data=models.SupportTicket}
// @Router /admin/support/tickets/{ref}/reply [post]
func (h *Handler) AdminReplyTicket(w http.ResponseWriter, r *http.Request) {
	var req TicketMessageRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	t, err := h.store.GetTicket(r.Context(), chi.URLParam(r, "ref"), nil)
	if err != nil {
		respondErr(w, r, err, "ticket not found")
		return
	}
	if t.Status == models.TicketClosed {
		respondErr(w, r, badRequest("ticket is closed"), "")
		return
	}
	msg := newTicketMessage(req, models.SenderAdmin, principal(r).ID)
	if err := h.store.AddTicketMessage(r.Context(), t, msg); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.notifyTicketReply(r, t, msg.Message)
	h.logAdmin(r, "reply_ticket", entityTicket, t.ID, "Replied to ticket "+t.TicketRef, nil)
	NewResponseWriter(w, r).Created("Reply sent", t)
}

func (h *Handler) notifyTicketReply(r *http.Request, t *models.SupportTicket, reply string) {
	if t.MerchantID == nil {
		return
	}
	m, err := h.store.GetMerchant(r.Context(), *t.MerchantID)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("ticket", t.TicketRef).Msg("Ticket merchant lookup failed")
		return
	}
	if err := h.mailer.Send(r.Context(), mail.TicketReplyMessage(m.Email, t.TicketRef, t.Subject, reply)); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("ticket", t.TicketRef).
			Str("email", logging.MaskEmail(m.Email)).
			Msg("Failed to send ticket reply notification")
	}
}

// @Summary Set ticket status
// @Tags Support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "Ticket reference"
// @Param body body StatusRequest true "open, pending, resolved or closed"
// @Success 200 {object} APIResponse
// @Router /admin/support/tickets/{ref}/status [patch]
func (h *Handler) AdminSetTicketStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if !models.ValidTicketStatus(req.Status) {
		respondErr(w, r, badRequest("status must be open, pending, resolved or closed"), "")
		return
	}
	t, err := h.store.GetTicket(r.Context(), chi.URLParam(r, "ref"), nil)
	if err != nil {
		respondErr(w, r, err, "ticket not found")
		return
	}
	if err := h.store.SetTicketStatus(r.Context(), t.TicketRef, req.Status); err != nil {
		respondErr(w, r, err, "ticket not found")
		return
	}
	h.logAdmin(r, "update_ticket_status", entityTicket, t.ID, "Set ticket "+t.TicketRef+" to "+req.Status,
		models.JSONMap{"from": t.Status, "to": req.Status})
	t.Status = req.Status
	NewResponseWriter(w, r).Message("Ticket status updated", t)
}

// @Summary List FAQs
// @Tags Support
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.FAQ}
// @Router /admin/support/faqs [get]
func (h *Handler) AdminListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.store.ListFAQs(r.Context(), false)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, faqs)
}

// @Summary Create an FAQ
// @Tags Support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FAQRequest true "FAQ"
// @Success 201 {object} APIResponse{data=models.FAQ}
// @Router /admin/support/faqs [post]
func (h *Handler) AdminCreateFAQ(w http.ResponseWriter, r *http.Request) {
	var req FAQRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	faq := &models.FAQ{Question: req.Question, Answer: req.Answer, Category: req.Category}
	if err := h.store.CreateFAQ(r.Context(), faq); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.logAdmin(r, "create_faq", entityFAQ, faq.ID, "Created FAQ", nil)
	NewResponseWriter(w, r).Created("FAQ created", faq)
}

// @Summary Delete an FAQ
// @Tags Support
// @Produce json
// @Security BearerAuth
// @Param id path int true "FAQ ID"
// @Success 200 {object} APIResponse
// @Router /admin/support/faqs/{id} [delete]
func (h *Handler) AdminDeleteFAQ(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.store.DeleteFAQ(r.Context(), id); err != nil {
		respondErr(w, r, err, "FAQ not found")
		return
	}
	h.logAdmin(r, "delete_faq", entityFAQ, id, "Deleted FAQ", nil)
	NewResponseWriter(w, r).Message("FAQ deleted", nil)
}

// @Summary List announcements
// @Tags Support
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.Announcement}
// @Router /admin/support/announcements [get]
func (h *Handler) AdminListAnnouncements(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAnnouncements(r.Context(), "")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, items)
}

// @Summary Create an announcement
// @Tags Support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AnnouncementRequest true "Announcement"
// @Success 201 {object} APIResponse{data=models.Announcement}
// @Router /admin/support/announcements [post]
func (h *Handler) AdminCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req AnnouncementRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	author := principal(r).ID
	a := &models.Announcement{
		Title:          req.Title,
		Content:        req.Content,
		TargetAudience: req.TargetAudience,
		CreatedBy:      &author,
	}
	if err := h.store.CreateAnnouncement(r.Context(), a); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.logAdmin(r, "create_announcement", entityAnnouncement, a.ID, "Published announcement "+a.Title,
		models.JSONMap{"audience": a.TargetAudience})
	NewResponseWriter(w, r).Created("Announcement created", a)
}

// @Summary Delete an announcement
// @Tags Support
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} APIResponse
// @Router /admin/support/announcements/{id} [delete]
func (h *Handler) AdminDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.store.DeleteAnnouncement(r.Context(), id); err != nil {
		respondErr(w, r, err, "announcement not found")
		return
	}
	h.logAdmin(r, "delete_announcement", entityAnnouncement, id, "Deleted announcement", nil)
	NewResponseWriter(w, r).Message("Announcement deleted", nil)
}
