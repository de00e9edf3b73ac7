// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/store"
)

// walletCurrency returns the tenant's currency for balance reporting.
func (h *Handler) walletCurrency(r *http.Request) string {
	m, err := h.store.GetMerchant(r.Context(), tenant(r))
	if err != nil || m.Currency == "" {
		return "NGN"
	}
	return m.Currency
}

// @Summary Merchant wallet balance
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=models.WalletBalance}
// @Router /merchant/wallet/balance [get]
func (h *Handler) WalletBalance(w http.ResponseWriter, r *http.Request) {
	bal, err := h.store.WalletBalance(r.Context(), tenant(r), h.walletCurrency(r))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, bal)
}

// @Summary Wallet movement summary
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Param days query int false "Period length in days" default(30)
// @Success 200 {object} APIResponse{data=store.WalletStats}
// @Router /merchant/wallet/stats [get]
func (h *Handler) WalletStats(w http.ResponseWriter, r *http.Request) {
	days := getIntParam(r, "days", 30)
	if days <= 0 || days > 365 {
		respondErr(w, r, badRequest("days must be between 1 and 365"), "")
		return
	}
	st, err := h.store.WalletStats(r.Context(), tenant(r), days)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, st)
}

type WalletTransactionRequest struct {
	Type          string       `json:"type" validate:"required,oneof=credit debit transfer"`
	Amount        models.Money `json:"amount" validate:"gt=0"`
	Description   string       `json:"description" validate:"required,min=1,max=500"`
	Category      string       `json:"category" validate:"omitempty,max=100"`
	PaymentMethod string       `json:"paymentMethod" validate:"omitempty,max=50"`
	Notes         string       `json:"notes" validate:"omitempty,max=1000"`
	Status        string       `json:"status" validate:"omitempty,oneof=Pending Completed Failed"`
	RelatedID     *int64       `json:"relatedId" validate:"omitempty,gt=0"`
	RelatedType   string       `json:"relatedType" validate:"omitempty,max=50"`
}

// @Summary List wallet transactions
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Param type query string false "credit, debit or transfer"
// @Param status query string false "Pending, Completed or Failed"
// @Success 200 {object} APIResponse{data=[]models.WalletTransaction}
// @Router /merchant/wallet/transactions [get]
func (h *Handler) ListWalletTransactions(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListWalletTransactions(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// CreateWalletTransaction records a manual movement on the merchant wallet
// with the balance before and after it.
//
// @Summary Record a wallet transaction
// @Tags Wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body WalletTransactionRequest true "Transaction"
// @Success 201 {object} APIResponse{data=models.WalletTransaction}
// @Router /merchant/wallet/transactions [post]
func (h *Handler) CreateWalletTransaction(w http.ResponseWriter, r *http.Request) {
	var req WalletTransactionRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	processor := principal(r).ID
	t := &models.WalletTransaction{
		MerchantID:    merchantID,
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Status:        req.Status,
		RelatedID:     req.RelatedID,
		RelatedType:   req.RelatedType,
		ProcessedBy:   &processor,
	}
	err := h.store.InTx(r.Context(), func(tx *store.Store) error {
		bal, err := tx.WalletBalance(r.Context(), merchantID, "")
		if err != nil {
			return err
		}
		t.BalanceBefore = bal.Balance
		t.BalanceAfter = bal.Balance + t.Amount
		if t.Type != models.WalletCredit {
			t.BalanceAfter = bal.Balance - t.Amount
		}
		return tx.CreateWalletTransaction(r.Context(), t)
	})
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Recorded wallet transaction", fmt.Sprintf("Recorded %s %s", t.Amount, t.Type))
	NewResponseWriter(w, r).Created("Wallet transaction created successfully", t)
}

// @Summary Get a wallet transaction
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} APIResponse{data=models.WalletTransaction}
// @Router /merchant/wallet/transactions/{id} [get]
func (h *Handler) GetWalletTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	t, err := h.store.GetWalletTransaction(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "wallet transaction not found")
		return
	}
	WriteSuccess(w, r, t)
}

// @Summary Set wallet transaction status
// @Tags Wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param body body StatusRequest true "Pending, Completed or Failed"
// @Success 200 {object} APIResponse{data=models.WalletTransaction}
// @Router /merchant/wallet/transactions/{id}/status [patch]
func (h *Handler) SetWalletTransactionStatus(w http.ResponseWriter, r *http.Request) {
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
	merchantID := tenant(r)
	if err := h.store.SetWalletTransactionStatus(r.Context(), merchantID, id, req.Status); err != nil {
		respondErr(w, r, err, "wallet transaction not found")
		return
	}
	t, err := h.store.GetWalletTransaction(r.Context(), merchantID, id)
	if err != nil {
		respondErr(w, r, err, "wallet transaction not found")
		return
	}
	h.activity(r, "Updated wallet transaction", fmt.Sprintf("Set %s to %s", t.Reference, req.Status))
	NewResponseWriter(w, r).Message("Wallet transaction status updated successfully", t)
}

type TransferRequest struct {
	CustomerID    int64        `json:"customerId" validate:"required,gt=0"`
	Amount        models.Money `json:"amount" validate:"gt=0"`
	Type          string       `json:"type" validate:"omitempty,oneof=credit debit"`
	Description   string       `json:"description" validate:"omitempty,max=500"`
	PaymentMethod string       `json:"paymentMethod" validate:"omitempty,max=50"`
}

// WalletTransfer moves money between the merchant wallet and a customer
// wallet. Credit pays the customer and needs enough available merchant
// balance; debit needs enough customer balance.
//
// @Summary Transfer to or from a customer wallet
// @Tags Wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TransferRequest true "Transfer"
// @Success 200 {object} APIResponse{data=store.TransferResult}
// @Failure 400 {object} APIResponse "INSUFFICIENT_FUNDS"
// @Router /merchant/wallet/transfer [post]
func (h *Handler) WalletTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	processor := principal(r).ID
	res, err := h.store.TransferToCustomer(r.Context(), store.Transfer{
		MerchantID:    tenant(r),
		CustomerID:    req.CustomerID,
		Amount:        req.Amount,
		Type:          req.Type,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		ProcessedBy:   &processor,
	})
	if err != nil {
		respondErr(w, r, err, "customer wallet not found")
		return
	}
	h.activity(r, "Wallet transfer", res.Transaction.Description+" ("+res.Transaction.Amount.String()+")")
	NewResponseWriter(w, r).Message("Transfer completed successfully", res)
}

// Customer wallets

type CustomerWalletRequest struct {
	CustomerID   int64        `json:"customerId" validate:"required,gt=0"`
	AccountLevel string       `json:"accountLevel" validate:"omitempty,max=50"`
	DailyLimit   models.Money `json:"dailyLimit" validate:"gte=0"`
	MonthlyLimit models.Money `json:"monthlyLimit" validate:"gte=0"`
	Notes        string       `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateCustomerWalletRequest struct {
	AccountLevel *string       `json:"accountLevel" validate:"omitempty,max=50"`
	DailyLimit   *models.Money `json:"dailyLimit" validate:"omitempty,gte=0"`
	MonthlyLimit *models.Money `json:"monthlyLimit" validate:"omitempty,gte=0"`
	Notes        *string       `json:"notes" validate:"omitempty,max=1000"`
}

// @Summary List customer wallets
// @Tags Customer Wallets
// @Produce json
// @Security BearerAuth
// @Param status query string false "Active, Suspended or Closed"
// @Success 200 {object} APIResponse{data=[]models.CustomerWallet}
// @Router /merchant/customer-wallets [get]
func (h *Handler) ListCustomerWallets(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListCustomerWallets(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// CreateCustomerWallet opens a wallet for a customer that has none, such as
// customers imported before wallets existed.
//
// @Summary Open a customer wallet
// @Tags Customer Wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CustomerWalletRequest true "Wallet"
// @Success 201 {object} APIResponse{data=models.CustomerWallet}
// @Failure 409 {object} APIResponse
// @Router /merchant/customer-wallets [post]
func (h *Handler) CreateCustomerWallet(w http.ResponseWriter, r *http.Request) {
	var req CustomerWalletRequest
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
	_, err = h.store.CustomerWalletFor(r.Context(), merchantID, c.ID)
	switch {
	case err == nil:
		respondErr(w, r, conflict("customer already has a wallet"), "")
		return
	case !errors.Is(err, database.ErrNotFound):
		respondErr(w, r, err, "")
		return
	}
	wallet := &models.CustomerWallet{
		MerchantID:    merchantID,
		CustomerID:    c.ID,
		CustomerName:  c.FullName,
		AccountNumber: c.AccountNumber,
		AccountLevel:  req.AccountLevel,
		DailyLimit:    req.DailyLimit,
		MonthlyLimit:  req.MonthlyLimit,
		Notes:         req.Notes,
	}
	if err := h.store.CreateCustomerWallet(r.Context(), wallet); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Opened customer wallet", "Opened wallet for "+c.FullName)
	NewResponseWriter(w, r).Created("Customer wallet created successfully", wallet)
}

// @Summary Customer wallet summary
// @Tags Customer Wallets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=store.CustomerWalletStats}
// @Router /merchant/customer-wallets/stats/summary [get]
func (h *Handler) CustomerWalletStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.CustomerWalletStats(r.Context(), tenant(r))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, st)
}

func (h *Handler) customerWalletFromPath(w http.ResponseWriter, r *http.Request) (*models.CustomerWallet, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	wallet, err := h.store.GetCustomerWallet(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "customer wallet not found")
		return nil, false
	}
	return wallet, true
}

// @Summary Get a customer wallet
// @Tags Customer Wallets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Wallet ID"
// @Success 200 {object} APIResponse{data=models.CustomerWallet}
// @Router /merchant/customer-wallets/{id} [get]
func (h *Handler) GetCustomerWallet(w http.ResponseWriter, r *http.Request) {
	if wallet, ok := h.customerWalletFromPath(w, r); ok {
		WriteSuccess(w, r, wallet)
	}
}

// @Summary Update a customer wallet
// @Tags Customer Wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Wallet ID"
// @Param body body UpdateCustomerWalletRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.CustomerWallet}
// @Router /merchant/customer-wallets/{id} [put]
func (h *Handler) UpdateCustomerWallet(w http.ResponseWriter, r *http.Request) {
	wallet, ok := h.customerWalletFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateCustomerWalletRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	setString(&wallet.AccountLevel, req.AccountLevel)
	setString(&wallet.Notes, req.Notes)
	if req.DailyLimit != nil {
		wallet.DailyLimit = *req.DailyLimit
	}
	if req.MonthlyLimit != nil {
		wallet.MonthlyLimit = *req.MonthlyLimit
	}
	if wallet.MonthlyLimit > 0 && wallet.DailyLimit > wallet.MonthlyLimit {
		respondErr(w, r, badRequest("dailyLimit must not exceed monthlyLimit"), "")
		return
	}
	if err := h.store.UpdateCustomerWallet(r.Context(), wallet); err != nil {
		respondErr(w, r, err, "customer wallet not found")
		return
	}
	h.activity(r, "Updated customer wallet", "Updated wallet "+wallet.AccountNumber)
	NewResponseWriter(w, r).Message("Customer wallet updated successfully", wallet)
}

// @Summary Set customer wallet status
// @Tags Customer Wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Wallet ID"
// @Param body body StatusRequest true "Active, Suspended or Closed"
// @Success 200 {object} APIResponse{data=models.CustomerWallet}
// @Router /merchant/customer-wallets/{id}/status [patch]
func (h *Handler) SetCustomerWalletStatus(w http.ResponseWriter, r *http.Request) {
	wallet, ok := h.customerWalletFromPath(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if !models.ValidCustomerWalletStatus(req.Status) {
		respondErr(w, r, badRequest("status must be Active, Suspended or Closed"), "")
		return
	}
	h.applyWalletStatus(w, r, wallet, req.Status)
}

// CloseCustomerWallet closes the wallet instead of deleting it so its
// transaction history stays intact.
//
// @Summary Close a customer wallet
// @Tags Customer Wallets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Wallet ID"
// @Success 200 {object} APIResponse{data=models.CustomerWallet}
// @Router /merchant/customer-wallets/{id} [delete]
func (h *Handler) CloseCustomerWallet(w http.ResponseWriter, r *http.Request) {
	if wallet, ok := h.customerWalletFromPath(w, r); ok {
		h.applyWalletStatus(w, r, wallet, models.CustomerWalletClosed)
	}
}

func (h *Handler) applyWalletStatus(w http.ResponseWriter, r *http.Request, wallet *models.CustomerWallet, status string) {
	if wallet.Status == models.CustomerWalletClosed && status != models.CustomerWalletClosed {
		respondErr(w, r, badRequest("closed wallets cannot be reopened"), "")
		return
	}
	if err := h.store.SetCustomerWalletStatus(r.Context(), wallet.MerchantID, wallet.ID, status); err != nil {
		respondErr(w, r, err, "customer wallet not found")
		return
	}
	wallet.Status = status
	h.activity(r, "Updated customer wallet status", fmt.Sprintf("Set wallet %s to %s", wallet.AccountNumber, status))
	NewResponseWriter(w, r).Message("Customer wallet status updated successfully", wallet)
}
