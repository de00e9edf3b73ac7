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

// TransactionRequest submits a platform transaction for admin review.
type TransactionRequest struct {
	Type        string       `json:"type" validate:"omitempty,oneof=credit debit"`
	Amount      models.Money `json:"amount" validate:"gt=0"`
	Description string       `json:"description" validate:"omitempty,max=500"`
	RecipientID *int64       `json:"recipientId" validate:"omitempty,gt=0"`
}

// @Summary List platform transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, completed, rejected or refunded"
// @Param type query string false "credit or debit"
// @Success 200 {object} APIResponse{data=[]models.Transaction}
// @Router /merchant/transactions [get]
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListMerchantTransactions(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// CreateTransaction records a pending platform transaction. Admins settle
// it through the approve, reject and refund actions.
//
// @Summary Submit a platform transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TransactionRequest true "Transaction"
// @Success 201 {object} APIResponse{data=models.Transaction}
// @Failure 422 {object} APIResponse
// @Router /merchant/transactions [post]
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	t := &models.Transaction{
		MerchantID:  tenant(r),
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Metadata:    models.JSONMap{"submittedBy": principal(r).ID},
	}
	if t.Type == "" {
		t.Type = models.WalletDebit
	}
	if t.Description == "" {
		t.Description = "Transaction"
	}
	if req.RecipientID != nil {
		t.Metadata["recipientId"] = *req.RecipientID
	}
	if err := h.store.CreateTransaction(r.Context(), t); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Submitted transaction", fmt.Sprintf("Submitted %s %s (%s)", t.Amount, t.Type, t.Reference))
	NewResponseWriter(w, r).Created("Transaction created successfully", t)
}

// @Summary Get a platform transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} APIResponse{data=models.Transaction}
// @Router /merchant/transactions/{id} [get]
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	t, err := h.store.GetTransaction(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "transaction not found")
		return
	}
	WriteSuccess(w, r, t)
}
