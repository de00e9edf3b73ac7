// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/cache"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/store"
)

const merchantBase = "/api/v1/merchant"

// tenantFixture is one merchant with a branch, an agent and a customer.
type tenantFixture struct {
	merchant *models.Merchant
	token    string
	branch   models.Branch
	agent    models.Agent
	customer CreatedCustomer
}

func newTenant(t *testing.T, env *testEnv, email string) *tenantFixture {
	t.Helper()
	f := &tenantFixture{merchant: env.seedMerchant(email)}
	f.token = env.merchantToken(f.merchant)

	rec := env.do(http.MethodPost, merchantBase+"/branches", f.token, BranchRequest{Name: "Yaba", State: "Lagos"})
	expectStatus(t, rec, http.StatusCreated)
	f.branch = decode[models.Branch](t, rec).Data

	rec = env.do(http.MethodPost, merchantBase+"/agents", f.token, AgentRequest{
		FullName: "Bola Agent", Email: "agent-" + email, Phone: "08035550000", Branch: "Yaba",
	})
	expectStatus(t, rec, http.StatusCreated)
	f.agent = decode[models.Agent](t, rec).Data

	f.customer = f.addCustomer(t, env, "Chidi Okafor", "")
	return f
}

func (f *tenantFixture) addCustomer(t *testing.T, env *testEnv, name, email string) CreatedCustomer {
	t.Helper()
	rec := env.do(http.MethodPost, merchantBase+"/customers", f.token, CustomerRequest{
		FullName: name, Phone: "08036660000", Email: email, AgentID: f.agent.ID, BranchID: f.branch.ID,
	})
	expectStatus(t, rec, http.StatusCreated)
	return decode[CreatedCustomer](t, rec).Data
}

func (f *tenantFixture) fundWallet(t *testing.T, env *testEnv, amount models.Money) {
	t.Helper()
	rec := env.do(http.MethodPost, merchantBase+"/wallet/transactions", f.token, WalletTransactionRequest{
		Type: models.WalletCredit, Amount: amount, Description: "Bank deposit",
	})
	expectStatus(t, rec, http.StatusCreated)
}

func TestPersonOf(t *testing.T) {
	tests := []struct {
		kind auth.Kind
		want string
	}{
		{auth.KindMerchant, models.PersonMerchant},
		{auth.KindCollaborator, models.PersonStaff},
	}
	for _, tt := range tests {
		if got := personOf(&auth.Principal{ID: 3, Kind: tt.kind}); got != tt.want {
			t.Errorf("personOf(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCustomerOnboarding(t *testing.T) {
	env := newTestEnv(t)
	f := newTenant(t, env, "onboard@shop.ng")

	c := f.customer
	if c.Customer == nil || c.ID == 0 || len(c.AccountNumber) != 10 {
		t.Fatalf("customer = %+v", c.Customer)
	}
	if c.Wallet == nil || c.Wallet.CustomerID != c.ID || c.Wallet.Balance != 0 || c.Wallet.Status != models.CustomerWalletActive {
		t.Fatalf("wallet = %+v", c.Wallet)
	}

	f.addCustomer(t, env, "Ngozi Eze", "ngozi@mail.ng")
	rec := env.do(http.MethodPost, merchantBase+"/customers", f.token, CustomerRequest{
		FullName: "Ngozi Twin", Phone: "08036660001", Email: "NGOZI@mail.ng", AgentID: f.agent.ID, BranchID: f.branch.ID,
	})
	expectStatus(t, rec, http.StatusConflict)

	other := newTenant(t, env, "rival@shop.ng")
	rec = env.do(http.MethodPost, merchantBase+"/customers", f.token, CustomerRequest{
		FullName: "Poached", Phone: "08036660002", AgentID: other.agent.ID, BranchID: f.branch.ID,
	})
	expectStatus(t, rec, http.StatusNotFound)

	rec = env.do(http.MethodPost, merchantBase+"/customers", f.token, map[string]interface{}{
		"fullName": "No Agent", "phoneNumber": "08036660003",
	})
	expectStatus(t, rec, http.StatusBadRequest)
	if details, _ := decode[any](t, rec).Error.Details.(map[string]interface{}); details["agentId"] == nil || details["branchId"] == nil {
		t.Errorf("details = %v", details)
	}

	path := fmt.Sprintf("%s/customers/%d", merchantBase, c.ID)
	expectStatus(t, env.do(http.MethodGet, path, f.token, nil), http.StatusOK)
	expectStatus(t, env.do(http.MethodGet, path, other.token, nil), http.StatusNotFound)

	name := "Chidi O. Okafor"
	rec = env.do(http.MethodPut, path, f.token, UpdateCustomerRequest{FullName: &name})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Customer](t, rec).Data; got.FullName != name {
		t.Errorf("FullName = %q", got.FullName)
	}

	rec = env.do(http.MethodGet, merchantBase+"/customers", f.token, nil)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]models.Customer](t, rec); len(list.Data) != 2 || list.Meta.Pagination.Total != 2 {
		t.Errorf("customers = %d", len(list.Data))
	}
}

func TestAgentValidationAndStatus(t *testing.T) {
	env := newTestEnv(t)
	f := newTenant(t, env, "agents@shop.ng")

	rec := env.do(http.MethodPost, merchantBase+"/agents", f.token, AgentRequest{
		FullName: "Copy", Email: f.agent.Email, Phone: "08035550001",
	})
	expectStatus(t, rec, http.StatusConflict)

	rec = env.do(http.MethodPost, merchantBase+"/agents", f.token, AgentRequest{
		FullName: "Bad Phone", Email: "bad@shop.ng", Phone: "call me",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	path := fmt.Sprintf("%s/agents/%d/status", merchantBase, f.agent.ID)
	expectStatus(t, env.do(http.MethodPatch, path, f.token, StatusRequest{Status: "Retired"}), http.StatusBadRequest)
	rec = env.do(http.MethodPatch, path, f.token, StatusRequest{Status: models.MerchantInactive})
	expectStatus(t, rec, http.StatusOK)
}

func TestWalletTransfer(t *testing.T) {
	env := newTestEnv(t)
	f := newTenant(t, env, "wallet@shop.ng")
	customerID := f.customer.ID

	rec := env.do(http.MethodPost, merchantBase+"/wallet/transfer", f.token, TransferRequest{
		CustomerID: customerID, Amount: 1_000_00, Type: models.WalletCredit,
	})
	expectStatus(t, rec, http.StatusBadRequest)
	if code := decode[any](t, rec).Error.Code; code != ErrCodeInsufficientFunds {
		t.Fatalf("code = %s", code)
	}

	f.fundWallet(t, env, 50_000_00)

	rec = env.do(http.MethodPost, merchantBase+"/wallet/transfer", f.token, TransferRequest{
		CustomerID: customerID, Amount: 20_000_00, Type: models.WalletCredit,
	})
	expectStatus(t, rec, http.StatusOK)
	res := decode[store.TransferResult](t, rec).Data
	if res.Wallet.Balance != 20_000_00 || res.Transaction.Type != models.WalletDebit {
		t.Fatalf("transfer = %+v / %+v", res.Wallet, res.Transaction)
	}

	rec = env.do(http.MethodPost, merchantBase+"/wallet/transfer", f.token, TransferRequest{
		CustomerID: customerID, Amount: 25_000_00, Type: models.WalletDebit,
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(http.MethodPost, merchantBase+"/wallet/transfer", f.token, TransferRequest{
		CustomerID: customerID, Amount: 5_000_00, Type: models.WalletDebit,
	})
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodGet, merchantBase+"/wallet/balance", f.token, nil)
	expectStatus(t, rec, http.StatusOK)
	if bal := decode[models.WalletBalance](t, rec).Data; bal.Balance != 35_000_00 || bal.Currency != "NGN" {
		t.Errorf("balance = %+v", bal)
	}

	expectStatus(t, env.do(http.MethodGet, merchantBase+"/wallet/stats?days=400", f.token, nil), http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodGet, merchantBase+"/wallet/stats", f.token, nil), http.StatusOK)

	walletPath := fmt.Sprintf("%s/customer-wallets/%d", merchantBase, f.customer.Wallet.ID)
	expectStatus(t, env.do(http.MethodDelete, walletPath, f.token, nil), http.StatusOK)
	rec = env.do(http.MethodPost, merchantBase+"/wallet/transfer", f.token, TransferRequest{
		CustomerID: customerID, Amount: 1_00, Type: models.WalletCredit,
	})
	expectStatus(t, rec, http.StatusBadRequest)
	expectStatus(t, env.do(http.MethodPatch, walletPath+"/status", f.token, StatusRequest{Status: models.CustomerWalletActive}),
		http.StatusBadRequest)
}

func TestCustomerWalletLimits(t *testing.T) {
	env := newTestEnv(t)
	f := newTenant(t, env, "limits@shop.ng")
	path := fmt.Sprintf("%s/customer-wallets/%d", merchantBase, f.customer.Wallet.ID)

	daily, monthly := models.Money(500_000_00), models.Money(100_000_00)
	rec := env.do(http.MethodPut, path, f.token, UpdateCustomerWalletRequest{DailyLimit: &daily, MonthlyLimit: &monthly})
	expectStatus(t, rec, http.StatusBadRequest)

	daily = 50_000_00
	rec = env.do(http.MethodPut, path, f.token, UpdateCustomerWalletRequest{DailyLimit: &daily, MonthlyLimit: &monthly})
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(http.MethodPost, merchantBase+"/customer-wallets", f.token, CustomerWalletRequest{CustomerID: f.customer.ID})
	expectStatus(t, rec, http.StatusConflict)
}

func TestBulkCollections(t *testing.T) {
	env := newTestEnv(t)
	f := newTenant(t, env, "bulk@shop.ng")

	item := func(amount models.Money, typ string) CollectionRequest {
		return CollectionRequest{CustomerID: f.customer.ID, Amount: amount, DueDate: "2026-11-01", Type: typ}
	}

	rec := env.do(http.MethodPost, merchantBase+"/collections/bulk", f.token, BulkCollectionRequest{
		Collections: []CollectionRequest{item(5_000_00, "Loan Repayment"), item(2_500_00, "Loan Repayment")},
	})
	expectStatus(t, rec, http.StatusCreated)
	if got := decode[[]BulkResult](t, rec).Data; len(got) != 2 || !got[0].Success || !got[1].Success {
		t.Fatalf("results = %+v", got)
	}

	rec = env.do(http.MethodPost, merchantBase+"/collections/bulk", f.token, BulkCollectionRequest{
		Collections: []CollectionRequest{item(1_000_00, "Loan Repayment"), item(1_000_00, "Lottery"), item(0, "Loan Repayment")},
	})
	expectStatus(t, rec, http.StatusMultiStatus)
	got := decode[[]BulkResult](t, rec).Data
	if len(got) != 3 || !got[0].Success || got[1].Success || got[2].Success {
		t.Fatalf("results = %+v", got)
	}
	if got[1].Index != 1 || got[1].Error == "" {
		t.Errorf("failed item = %+v", got[1])
	}

	expectStatus(t, env.do(http.MethodPost, merchantBase+"/collections/bulk", f.token, BulkCollectionRequest{}),
		http.StatusBadRequest)

	rec = env.do(http.MethodGet, merchantBase+"/collections", f.token, nil)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]models.Collection](t, rec); list.Meta.Pagination.Total != 3 {
		t.Errorf("collections = %d, want 3", list.Meta.Pagination.Total)
	}
}

func TestCollectCollection(t *testing.T) {
	env := newTestEnv(t)
	f := newTenant(t, env, "collect@shop.ng")

	rec := env.do(http.MethodPost, merchantBase+"/collections", f.token, CollectionRequest{
		CustomerID: f.customer.ID, Amount: 3_000_00, DueDate: "2026-11-01", Type: "Loan Repayment",
	})
	expectStatus(t, rec, http.StatusCreated)
	col := decode[models.Collection](t, rec).Data
	if col.Status != models.CollectionPending || col.CustomerName != "Chidi Okafor" {
		t.Fatalf("collection = %+v", col)
	}

	path := fmt.Sprintf("%s/collections/%d/collect", merchantBase, col.ID)
	rec = env.do(http.MethodPost, path, f.token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Collection](t, rec).Data; got.Status != models.CollectionCollected || got.AmountCollected != 3_000_00 {
		t.Errorf("collected = %+v", got)
	}

	expectStatus(t, env.do(http.MethodPost, path, f.token, CollectRequest{Amount: 1_00}), http.StatusConflict)

	rec = env.do(http.MethodGet, merchantBase+"/collections/status/Collected", f.token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[[]models.Collection](t, rec).Data; len(got) != 1 {
		t.Errorf("collected list = %d", len(got))
	}
}

func TestLoanRepayments(t *testing.T) {
	env := newTestEnv(t)
	f := newTenant(t, env, "loans@shop.ng")

	rec := env.do(http.MethodPost, merchantBase+"/loans", f.token, LoanRequest{
		CustomerID: f.customer.ID, LoanAmount: 100_000_00, InterestRate: 10, Duration: 6, AgentID: &f.agent.ID,
	})
	expectStatus(t, rec, http.StatusCreated)
	loan := decode[models.Loan](t, rec).Data
	if loan.TotalAmount != 110_000_00 || loan.AgentName != "Bola Agent" || loan.Branch != "Yaba" {
		t.Fatalf("loan = %+v", loan)
	}

	repay := func(amount models.Money) *RepaymentResult {
		rec := env.do(http.MethodPost, merchantBase+"/repayments", f.token, RepaymentRequest{LoanID: loan.ID, Amount: amount})
		if rec.Code != http.StatusCreated {
			return nil
		}
		res := decode[RepaymentResult](t, rec).Data
		return &res
	}

	first := repay(60_000_00)
	if first == nil || first.Loan.AmountPaid != 60_000_00 || first.Loan.RemainingAmount != 50_000_00 {
		t.Fatalf("first repayment = %+v", first)
	}
	if first.Repayment.Status != models.PaymentCompleted || first.Repayment.TransactionID == "" {
		t.Errorf("repayment = %+v", first.Repayment)
	}

	second := repay(50_000_00)
	if second == nil || second.Loan.Status != models.LoanCompleted {
		t.Fatalf("second repayment = %+v", second)
	}

	rec = env.do(http.MethodPost, merchantBase+"/repayments", f.token, RepaymentRequest{LoanID: loan.ID, Amount: 1_00})
	expectStatus(t, rec, http.StatusConflict)

	rec = env.do(http.MethodGet, fmt.Sprintf("%s/repayments?loanId=%d", merchantBase, loan.ID), f.token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[[]models.Repayment](t, rec).Data; len(got) != 2 {
		t.Errorf("repayments = %d", len(got))
	}

	other := newTenant(t, env, "nosy@shop.ng")
	expectStatus(t, env.do(http.MethodGet, fmt.Sprintf("%s/loans/%d", merchantBase, loan.ID), other.token, nil), http.StatusNotFound)
	rec = env.do(http.MethodPost, merchantBase+"/repayments", other.token, RepaymentRequest{LoanID: loan.ID, Amount: 1_00})
	expectStatus(t, rec, http.StatusNotFound)
}

func TestLoanApplicationReview(t *testing.T) {
	env := newTestEnv(t)
	f := newTenant(t, env, "apps@shop.ng")

	rec := env.do(http.MethodPost, merchantBase+"/loan-applications", f.token, map[string]interface{}{
		"customerId": f.customer.ID, "requestedAmount": "75000.00", "duration": 3, "interestRate": 5, "purpose": "Stock",
	})
	expectStatus(t, rec, http.StatusCreated)
	app := decode[models.LoanApplication](t, rec).Data

	path := fmt.Sprintf("%s/loan-applications/%d/status", merchantBase, app.ID)
	expectStatus(t, env.do(http.MethodPatch, path, f.token, ApplicationStatusRequest{Status: "Rejected"}), http.StatusBadRequest)

	rec = env.do(http.MethodPatch, path, f.token, ApplicationStatusRequest{Status: "Approved"})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.LoanApplication](t, rec).Data; got.Status != "Approved" || got.ApprovedBy == nil {
		t.Errorf("application = %+v", got)
	}
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	f := newTenant(t, env, "dash@shop.ng")

	rec := env.do(http.MethodGet, merchantBase+"/dashboard/stats", f.token, nil)
	expectStatus(t, rec, http.StatusOK)

	expectStatus(t, env.do(http.MethodGet, merchantBase+"/dashboard/transaction-stats?duration=Last%2099%20months", f.token, nil),
		http.StatusUnprocessableEntity)
	expectStatus(t, env.do(http.MethodGet, merchantBase+"/dashboard/transaction-stats?duration=Last%203%20months", f.token, nil),
		http.StatusOK)

	rec = env.do(http.MethodGet, merchantBase+"/dashboard/agent-customer-stats", f.token, nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestDashboardStatsCache(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cache = cache.New(time.Minute)
	f := newTenant(t, env, "cached@shop.ng")
	other := newTenant(t, env, "uncached@shop.ng")

	totals := func(token string) int64 {
		rec := env.do(http.MethodGet, merchantBase+"/dashboard/stats", token, nil)
		expectStatus(t, rec, http.StatusOK)
		return decode[store.DashboardStats](t, rec).Data.TotalCustomers
	}

	if got := totals(f.token); got != 1 {
		t.Fatalf("TotalCustomers = %d, want 1", got)
	}
	if got := totals(other.token); got != 1 {
		t.Fatalf("other TotalCustomers = %d, want 1", got)
	}

	// Seeding through the store skips the handler, so the cached value stays.
	if err := env.store.CreateCustomer(t.Context(), &models.Customer{
		MerchantID: f.merchant.ID, AgentID: f.agent.ID, BranchID: f.branch.ID,
		FullName: "Direct Insert", Phone: "08036669999", AccountNumber: "2000000001",
	}); err != nil {
		t.Fatal(err)
	}
	if got := totals(f.token); got != 1 {
		t.Errorf("cached TotalCustomers = %d, want 1", got)
	}

	f.addCustomer(t, env, "Via Handler", "")
	if got := totals(f.token); got != 3 {
		t.Errorf("TotalCustomers after write = %d, want 3", got)
	}
	if st := env.handler.cache.GetStats(); st.Hits == 0 {
		t.Errorf("stats = %+v, want cache hits", st)
	}
}
