// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/testinfra"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(testinfra.NewDuckDB(t))
}

func seedMerchant(t *testing.T, s *Store, email string) *models.Merchant {
	t.Helper()
	m := &models.Merchant{BusinessName: "Shop " + email, Email: email, PasswordHash: "x"}
	if err := s.CreateMerchant(context.Background(), m); err != nil {
		t.Fatalf("CreateMerchant(%s) error = %v", email, err)
	}
	return m
}

func seedCustomer(t *testing.T, s *Store, merchantID int64, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{MerchantID: merchantID, FullName: name, Phone: "0800", AccountNumber: fmt.Sprintf("AC-%d-%s", merchantID, name)}
	if err := s.CreateCustomer(context.Background(), c); err != nil {
		t.Fatalf("CreateCustomer(%s) error = %v", name, err)
	}
	return c
}

func TestMerchantLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := seedMerchant(t, s, " Owner@Shop.NG ")
	if m.Email != "owner@shop.ng" || m.Status != models.MerchantActive || m.Currency != "NGN" {
		t.Fatalf("defaults not applied: %+v", m)
	}
	dup := &models.Merchant{BusinessName: "Dup", Email: "owner@shop.ng"}
	if err := s.CreateMerchant(ctx, dup); !errors.Is(err, database.ErrConflict) {
		t.Errorf("duplicate email = %v, want ErrConflict", err)
	}

	got, err := s.GetMerchantByEmail(ctx, "OWNER@shop.ng")
	if err != nil || got.ID != m.ID {
		t.Fatalf("GetMerchantByEmail() = %+v, %v", got, err)
	}
	if err := s.SetMerchantStatus(ctx, m.ID, models.MerchantInactive); err != nil {
		t.Fatal(err)
	}
	if err := s.SetMerchantStatus(ctx, 9999, models.MerchantInactive); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("missing merchant = %v, want ErrNotFound", err)
	}

	seedMerchant(t, s, "second@shop.ng")
	counts, err := s.MerchantCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Total != 2 || counts.Active != 1 || counts.Inactive != 1 {
		t.Errorf("MerchantCounts() = %+v", counts)
	}
}

func TestListMerchantsSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := seedMerchant(t, s, "a@shop.ng")
	seedMerchant(t, s, "b@shop.ng")
	seedCustomer(t, s, a.ID, "Ada")
	seedCustomer(t, s, a.ID, "Bola")
	if err := s.CreateAgent(ctx, &models.Agent{MerchantID: a.ID, FullName: "Field One", Email: "f1@shop.ng"}); err != nil {
		t.Fatal(err)
	}

	items, total, err := s.ListMerchants(ctx, Filter{Search: "a@shop"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("ListMerchants() = %d items, total %d", len(items), total)
	}
	if items[0].CustomerCount != 2 || items[0].AgentCount != 1 {
		t.Errorf("counts = %+v", items[0])
	}
}

func TestTenantScoping(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := seedMerchant(t, s, "a@shop.ng")
	b := seedMerchant(t, s, "b@shop.ng")
	c := seedCustomer(t, s, a.ID, "Ada")

	if _, err := s.GetCustomer(ctx, b.ID, c.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("cross-tenant read = %v, want ErrNotFound", err)
	}
	c.MerchantID = b.ID
	c.FullName = "Hijacked"
	if err := s.UpdateCustomer(ctx, c); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("cross-tenant update = %v, want ErrNotFound", err)
	}
	items, total, err := s.ListCustomers(ctx, b.ID, Filter{})
	if err != nil || total != 0 || len(items) != 0 {
		t.Errorf("tenant b sees %d customers (total %d), err %v", len(items), total, err)
	}
}

func TestFilterWindow(t *testing.T) {
	tests := []struct {
		name       string
		f          Filter
		wantLimit  int
		wantOffset int
	}{
		{"defaults", Filter{}, defaultLimit, 0},
		{"page two", Filter{Page: 2, Limit: 10}, 10, 10},
		{"capped", Filter{Limit: 1000}, maxLimit, 0},
		{"negative page", Filter{Page: -3, Limit: 5}, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := tt.f.window()
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("window() = %d, %d; want %d, %d", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
	if info := (Filter{Page: 3, Limit: 10}).Info(42); info.Page != 3 || info.Limit != 10 || info.Total != 42 {
		t.Errorf("Info() = %+v", info)
	}
}

func TestPagination(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := seedMerchant(t, s, "p@shop.ng")
	for i := 0; i < 5; i++ {
		if err := s.CreateBranch(ctx, &models.Branch{MerchantID: m.ID, Name: fmt.Sprintf("Branch %d", i)}); err != nil {
			t.Fatal(err)
		}
	}
	items, total, err := s.ListBranches(ctx, m.ID, Filter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 || len(items) != 2 || items[0].Name != "Branch 2" {
		t.Errorf("page 2 = %+v (total %d)", items, total)
	}
}

func TestInTxRollback(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx *Store) error {
		if err := tx.CreateMerchant(ctx, &models.Merchant{BusinessName: "Ghost", Email: "ghost@shop.ng"}); err != nil {
			return err
		}
		return tx.InTx(ctx, func(inner *Store) error { return boom })
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx() error = %v, want boom", err)
	}
	if _, err := s.GetMerchantByEmail(ctx, "ghost@shop.ng"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("merchant survived rollback: %v", err)
	}
}

func TestPlansAndQuota(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &models.Plan{Type: models.PlanStandard, Name: "Starter", BillingCycle: models.BillingMonthly,
		Pricing: 5000_00, StartDate: &start, NoOfAgents: 1, NoOfCustomers: 2, NoOfBranches: 1}
	if err := s.CreatePlan(ctx, p); err != nil {
		t.Fatal(err)
	}
	m := seedMerchant(t, s, "q@shop.ng")
	m.PlanID = &p.ID
	if err := s.UpdateMerchant(ctx, m); err != nil {
		t.Fatal(err)
	}
	active, err := s.ActivePlanFor(ctx, m.ID)
	if err != nil || active.Name != "Starter" {
		t.Fatalf("ActivePlanFor() = %+v, %v", active, err)
	}

	seedCustomer(t, s, m.ID, "One")
	u, err := s.TenantUsage(ctx, m.ID)
	if err != nil || u.Customers != 1 || u.Agents != 0 {
		t.Errorf("TenantUsage() = %+v, %v", u, err)
	}

	plans, total, err := s.ListPlans(ctx, Filter{Type: models.PlanCustom})
	if err != nil || total != 0 || len(plans) != 0 {
		t.Errorf("custom plans = %d, %v", total, err)
	}
}

func TestAdminRolesAndStaff(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	role := &models.AdminRole{Name: "Support", Permissions: models.StringList{"view_merchants"}}
	if err := s.CreateAdminRole(ctx, role); err != nil {
		t.Fatal(err)
	}
	staff := &models.AdminStaff{Name: "Sade", Email: "sade@alphaweb.ng", RoleID: role.ID, PasswordHash: "x"}
	if err := s.CreateAdminStaff(ctx, staff); err != nil {
		t.Fatal(err)
	}

	n, err := s.CountStaffWithRole(ctx, role.ID)
	if err != nil || n != 1 {
		t.Errorf("CountStaffWithRole() = %d, %v", n, err)
	}
	got, err := s.GetAdminStaffByEmail(ctx, "SADE@alphaweb.ng")
	if err != nil || got.RoleName != "Support" {
		t.Fatalf("GetAdminStaffByEmail() = %+v, %v", got, err)
	}
	roles, err := s.AllAdminRoles(ctx)
	if err != nil || len(roles) != 1 || roles[0].StaffCount != 1 {
		t.Errorf("AllAdminRoles() = %+v, %v", roles, err)
	}
}
