// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/alphaweb/internal/accounts"
	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/finance"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/otp"
	"github.com/tomtom215/alphaweb/internal/store"
)

func TestRespondErr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"handler error", conflict("dup"), http.StatusConflict, ErrCodeConflict},
		{"wrapped not found", fmt.Errorf("load: %w", database.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"unique violation", database.ErrConflict, http.StatusConflict, ErrCodeConflict},
		{"quota", errQuota{resource: quotaAgents}, http.StatusForbidden, ErrCodeQuotaExceeded},
		{"email taken", accounts.ErrEmailTaken, http.StatusConflict, ErrCodeConflict},
		{"not verified", accounts.ErrNotVerified, http.StatusForbidden, ErrCodeNotVerified},
		{"inactive", accounts.ErrAccountInactive, http.StatusForbidden, ErrCodeAccountInactive},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"locked", auth.ErrAccountLocked, http.StatusTooManyRequests, ErrCodeAccountLocked},
		{"bad otp", otp.ErrInvalidCode, http.StatusBadRequest, ErrCodeInvalidOTP},
		{"otp attempts", otp.ErrTooManyAttempts, http.StatusTooManyRequests, ErrCodeTooManyRequests},
		{"insufficient funds", store.ErrInsufficientFunds, http.StatusBadRequest, ErrCodeInsufficientFunds},
		{"loan closed", store.ErrLoanClosed, http.StatusConflict, ErrCodeConflict},
		{"bad duration", finance.ErrInvalidDuration, http.StatusUnprocessableEntity, ErrCodeValidation},
		{"mail failure", accounts.ErrMailDelivery, http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			respondErr(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, "")

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			got := decode[any](t, w)
			if got.Error == nil || got.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", got.Error, tt.code)
			}
		})
	}
}

func TestRespondErr_NotFoundMessage(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondErr(w, httptest.NewRequest(http.MethodGet, "/", nil), database.ErrNotFound, "loan not found")

	if got := decode[any](t, w); got.Error == nil || got.Error.Message != "loan not found" {
		t.Errorf("error = %+v", got.Error)
	}
	if err := notFoundIf(database.ErrNotFound, "agent not found"); err.Error() != "agent not found" {
		t.Errorf("notFoundIf() = %v", err)
	}
}

func TestCheckQuota(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.seedMerchant("quota@shop.ng")

	if err := env.handler.checkQuota(ctx, m.ID, quotaBranches); err != nil {
		t.Fatalf("no plan should be unlimited, got %v", err)
	}

	plan := &models.Plan{Type: models.PlanStandard, Name: "Starter", BillingCycle: models.BillingMonthly,
		Pricing: 5000_00, NoOfBranches: 1, NoOfAgents: 0}
	if err := env.store.CreatePlan(ctx, plan); err != nil {
		t.Fatal(err)
	}
	m.PlanID = &plan.ID
	if err := env.store.UpdateMerchant(ctx, m); err != nil {
		t.Fatal(err)
	}

	if err := env.handler.checkQuota(ctx, m.ID, quotaBranches); err != nil {
		t.Fatalf("first branch should fit, got %v", err)
	}
	if err := env.store.CreateBranch(ctx, &models.Branch{MerchantID: m.ID, Name: "Ikeja"}); err != nil {
		t.Fatal(err)
	}

	var qe errQuota
	if err := env.handler.checkQuota(ctx, m.ID, quotaBranches); !errors.As(err, &qe) {
		t.Errorf("second branch error = %v, want errQuota", err)
	}
	if err := env.handler.checkQuota(ctx, m.ID, quotaAgents); err != nil {
		t.Errorf("zero agent limit should be unlimited, got %v", err)
	}

	rec := env.do(http.MethodPost, "/api/v1/merchant/branches", env.merchantToken(m), BranchRequest{Name: "Lekki"})
	expectStatus(t, rec, http.StatusForbidden)
	if got := decode[any](t, rec); got.Error.Code != ErrCodeQuotaExceeded {
		t.Errorf("code = %s", got.Error.Code)
	}
}
