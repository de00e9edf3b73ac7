// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/alphaweb/internal/authz"
	"github.com/tomtom215/alphaweb/internal/models"
)

func TestAdminMerchantLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.superAdminToken()

	rec := env.do(http.MethodPost, "/api/v1/admin/merchants", admin, CreateMerchantRequest{
		BusinessName: "Adire Textiles",
		Email:        "sales@adire.ng",
		Phone:        "08031112222",
		Password:     "merchant-pass",
	})
	expectStatus(t, rec, http.StatusCreated)
	created := decode[models.Merchant](t, rec).Data
	if !created.IsVerified || created.Status != models.MerchantActive {
		t.Fatalf("created = %+v", created)
	}

	expectStatus(t, env.do(http.MethodPost, "/api/v1/admin/merchants", admin, CreateMerchantRequest{
		BusinessName: "Dup", Email: "SALES@adire.ng", Phone: "08031112223", Password: "merchant-pass",
	}), http.StatusConflict)

	login(t, env, "sales@adire.ng", "merchant-pass")

	path := fmt.Sprintf("/api/v1/admin/merchants/%d", created.ID)
	expectStatus(t, env.do(http.MethodGet, path, admin, nil), http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, "/api/v1/admin/merchants/99999", admin, nil), http.StatusNotFound)

	expectStatus(t, env.do(http.MethodPatch, path+"/status", admin, StatusRequest{Status: "Frozen"}), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodPatch, path+"/status", admin, StatusRequest{Status: models.MerchantInactive}), http.StatusOK)

	rec = env.do(http.MethodPost, authBase+"/login", "", LoginRequest{Email: "sales@adire.ng", Password: "merchant-pass"})
	expectStatus(t, rec, http.StatusForbidden)
	if code := decode[any](t, rec).Error.Code; code != ErrCodeAccountInactive {
		t.Errorf("code = %s", code)
	}

	rec = env.do(http.MethodGet, "/api/v1/admin/merchants?status=Inactive", admin, nil)
	expectStatus(t, rec, http.StatusOK)
	list := decode[[]models.MerchantSummary](t, rec)
	if len(list.Data) != 1 || list.Meta.Pagination == nil || list.Meta.Pagination.Total != 1 {
		t.Errorf("inactive merchants = %d", len(list.Data))
	}

	if err := env.audit.Flush(t.Context()); err != nil {
		t.Fatal(err)
	}
	rec = env.do(http.MethodGet, "/api/v1/admin/logs?entity=merchant", admin, nil)
	expectStatus(t, rec, http.StatusOK)
	if logs := decode[[]models.AdminLog](t, rec).Data; len(logs) < 2 {
		t.Errorf("admin logs = %+v, want create and status entries", logs)
	}
}

func TestAdminRolesAndStaffPermissions(t *testing.T) {
	env := newTestEnv(t)
	admin := env.superAdminToken()

	rec := env.do(http.MethodPost, "/api/v1/admin/roles", admin, RoleRequest{
		Name: "Auditor", Permissions: []string{authz.PermViewMerchants, "launch_rockets"},
	})
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	rec = env.do(http.MethodPost, "/api/v1/admin/roles", admin, RoleRequest{
		Name: "Auditor", Permissions: []string{authz.PermViewMerchants},
	})
	expectStatus(t, rec, http.StatusCreated)
	role := decode[models.AdminRole](t, rec).Data

	rec = env.do(http.MethodPost, "/api/v1/admin/staff", admin, CreateAdminStaffRequest{
		RoleID: role.ID, Name: "Kemi Ade", Email: "kemi@alphaweb.ng", Password: "staff-password",
	})
	expectStatus(t, rec, http.StatusCreated)
	staff := decode[CreatedAdminStaff](t, rec).Data

	rec = env.do(http.MethodPost, "/api/v1/auth/staff/login", "", LoginRequest{Email: "kemi@alphaweb.ng", Password: "staff-password"})
	expectStatus(t, rec, http.StatusOK)
	staffToken := decode[LoginResponse](t, rec).Data.Token

	expectStatus(t, env.do(http.MethodGet, "/api/v1/admin/merchants", staffToken, nil), http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, "/api/v1/admin/plans", staffToken, nil), http.StatusForbidden)

	rec = env.do(http.MethodGet, "/api/v1/auth/me", staffToken, nil)
	expectStatus(t, rec, http.StatusOK)
	if perms := decode[MeResponse](t, rec).Data.Permissions; len(perms) != 1 || perms[0] != authz.PermViewMerchants {
		t.Errorf("permissions = %v", perms)
	}

	rolePath := fmt.Sprintf("/api/v1/admin/roles/%d", role.ID)
	rec = env.do(http.MethodPut, rolePath, admin, RoleRequest{
		Name: "Auditor", Permissions: []string{authz.PermViewMerchants, authz.PermViewPlans},
	})
	expectStatus(t, rec, http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, "/api/v1/admin/plans", staffToken, nil), http.StatusOK)

	expectStatus(t, env.do(http.MethodDelete, rolePath, admin, nil), http.StatusBadRequest)

	staffPath := fmt.Sprintf("/api/v1/admin/staff/%d", staff.ID)
	expectStatus(t, env.do(http.MethodPatch, staffPath+"/status", admin, StatusRequest{Status: models.StaffInactive}), http.StatusOK)
	expectStatus(t, env.do(http.MethodPost, "/api/v1/auth/staff/login", "", LoginRequest{Email: "kemi@alphaweb.ng", Password: "staff-password"}),
		http.StatusForbidden)
	expectStatus(t, env.do(http.MethodGet, "/api/v1/admin/merchants", staffToken, nil), http.StatusForbidden)
}

func TestAdminSuperAdministratorRoleIsProtected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.superAdminToken()

	rec := env.do(http.MethodPost, "/api/v1/admin/roles", admin, RoleRequest{
		Name: models.SuperAdministratorRole, Permissions: []string{authz.PermViewDashboard},
	})
	expectStatus(t, rec, http.StatusCreated)
	role := decode[models.AdminRole](t, rec).Data

	expectStatus(t, env.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/roles/%d", role.ID), admin, nil), http.StatusForbidden)

	rec = env.do(http.MethodGet, "/api/v1/admin/permissions", admin, nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestAdminPlans(t *testing.T) {
	env := newTestEnv(t)
	admin := env.superAdminToken()

	rec := env.do(http.MethodPost, "/api/v1/admin/plans", admin, PlanRequest{
		Type: "standard", Name: "Growth", BillingCycle: "monthly", Pricing: 25_000_00,
		StartDate: "2026-01-01", EndDate: "2025-01-01",
	})
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	if code := decode[any](t, rec).Error.Code; code != ErrCodeValidation {
		t.Errorf("code = %s, want %s", code, ErrCodeValidation)
	}

	rec = env.do(http.MethodPost, "/api/v1/admin/plans", admin, PlanRequest{
		Type: "standard", Name: "Growth", BillingCycle: "monthly", Pricing: 25_000_00, StartDate: "next tuesday",
	})
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	rec = env.do(http.MethodPost, "/api/v1/admin/plans", admin, PlanRequest{
		Type: "standard", Name: "Growth", BillingCycle: "monthly", Pricing: 25_000_00,
		Features: []string{"SMS reminders"}, NoOfCustomers: 500,
	})
	expectStatus(t, rec, http.StatusCreated)
	plan := decode[models.Plan](t, rec).Data
	if plan.Pricing != 25_000_00 || plan.Currency != "NGN" {
		t.Errorf("plan = %+v", plan)
	}

	m := env.seedMerchant("plan@shop.ng")
	rec = env.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/merchants/%d", m.ID), admin, UpdateMerchantRequest{PlanID: &plan.ID})
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodGet, "/api/v1/merchant/subscription", env.merchantToken(m), nil)
	expectStatus(t, rec, http.StatusOK)
	if sub := decode[Subscription](t, rec).Data; sub.CurrentPlan == nil || sub.CurrentPlan.ID != plan.ID {
		t.Errorf("subscription = %+v", sub)
	}
}

func TestPlatformTransactionReview(t *testing.T) {
	env := newTestEnv(t)
	admin := env.superAdminToken()
	m := env.seedMerchant("txn@shop.ng")
	merchant := env.merchantToken(m)

	expectStatus(t, env.do(http.MethodPost, merchantBase+"/transactions", merchant, TransactionRequest{Amount: 0}), http.StatusBadRequest)

	recipient := int64(42)
	rec := env.do(http.MethodPost, merchantBase+"/transactions", merchant, TransactionRequest{
		Amount: 12_500_00, Description: "Settlement", RecipientID: &recipient,
	})
	expectStatus(t, rec, http.StatusCreated)
	txn := decode[models.Transaction](t, rec).Data
	if txn.Status != "pending" || txn.Type != models.WalletDebit || txn.MerchantID != m.ID || txn.Reference == "" {
		t.Fatalf("created = %+v", txn)
	}

	rec = env.do(http.MethodGet, merchantBase+"/transactions", merchant, nil)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]models.Transaction](t, rec); len(list.Data) != 1 || list.Meta.Pagination.Total != 1 {
		t.Errorf("merchant transactions = %d", len(list.Data))
	}
	other := env.merchantToken(env.seedMerchant("nosy@shop.ng"))
	expectStatus(t, env.do(http.MethodGet, fmt.Sprintf("%s/transactions/%d", merchantBase, txn.ID), other, nil), http.StatusNotFound)

	rec = env.do(http.MethodGet, "/api/v1/admin/transactions?status=pending", admin, nil)
	expectStatus(t, rec, http.StatusOK)
	listed := decode[[]models.TransactionWithMerchant](t, rec).Data
	if len(listed) != 1 || listed[0].ID != txn.ID || listed[0].MerchantMail != "txn@shop.ng" {
		t.Fatalf("admin transactions = %+v", listed)
	}

	rec = env.do(http.MethodPatch, fmt.Sprintf("/api/v1/admin/transactions/%d/status", txn.ID), admin,
		TransactionActionRequest{Action: "approve"})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Transaction](t, rec).Data; got.Status != "completed" {
		t.Errorf("status after approve = %q", got.Status)
	}

	rec = env.do(http.MethodGet, fmt.Sprintf("%s/transactions/%d", merchantBase, txn.ID), merchant, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Transaction](t, rec).Data; got.Status != "completed" {
		t.Errorf("merchant view status = %q", got.Status)
	}
}

func TestSupportTicketConversation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.superAdminToken()
	m := env.seedMerchant("help@shop.ng")
	merchant := env.merchantToken(m)
	other := env.merchantToken(env.seedMerchant("other@shop.ng"))

	rec := env.do(http.MethodPost, "/api/v1/merchant/support/tickets", merchant, CreateTicketRequest{
		Subject: "Wallet not credited", Priority: "high", Message: "Transfer from Friday is missing",
	})
	expectStatus(t, rec, http.StatusCreated)
	ticket := decode[models.SupportTicket](t, rec).Data
	if ticket.TicketRef == "" || ticket.Status != models.TicketOpen {
		t.Fatalf("ticket = %+v", ticket)
	}

	expectStatus(t, env.do(http.MethodGet, "/api/v1/merchant/support/tickets/"+ticket.TicketRef, other, nil), http.StatusNotFound)

	rec = env.do(http.MethodPost, "/api/v1/admin/support/tickets/"+ticket.TicketRef+"/reply", admin,
		TicketMessageRequest{Message: "We are looking into it"})
	expectStatus(t, rec, http.StatusCreated)

	rec = env.do(http.MethodGet, "/api/v1/merchant/support/tickets/"+ticket.TicketRef, merchant, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.SupportTicket](t, rec).Data; len(got.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(got.Messages))
	}

	expectStatus(t, env.do(http.MethodPatch, "/api/v1/admin/support/tickets/"+ticket.TicketRef+"/status", admin,
		StatusRequest{Status: models.TicketClosed}), http.StatusOK)
	expectStatus(t, env.do(http.MethodPost, "/api/v1/merchant/support/tickets/"+ticket.TicketRef+"/messages", merchant,
		TicketMessageRequest{Message: "Any update?"}), http.StatusBadRequest)

	rec = env.do(http.MethodGet, "/api/v1/merchant/support/tickets", other, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[[]models.SupportTicket](t, rec).Data; len(got) != 0 {
		t.Errorf("other merchant sees %d tickets", len(got))
	}
}
