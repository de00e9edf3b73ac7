// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package main

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/authz"
	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/store"
	"github.com/tomtom215/alphaweb/internal/testinfra"
)

type harness struct {
	db  *database.DB
	out *bytes.Buffer
	env *env
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testinfra.NewDuckDB(t)
	cfg := &config.Config{Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost}}
	out := &bytes.Buffer{}
	return &harness{
		db:  db,
		out: out,
		env: &env{
			out:    out,
			config: func() (*config.Config, error) { return cfg, nil },
			open: func(context.Context, bool) (*database.DB, *config.Config, error) {
				return db, cfg, nil
			},
			close: func(*database.DB) {},
		},
	}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.out.Reset()
	cmd := newRootCmd(h.env)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(t.Context())
}

func TestMigrate(t *testing.T) {
	h := newHarness(t)

	if err := h.run(t, "migrate"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	want, err := h.db.SchemaVersion(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(h.out.String(), "schema version") {
		t.Errorf("output = %q", h.out.String())
	}

	if err := h.run(t, "migrate", "--status"); err != nil {
		t.Fatalf("migrate --status: %v", err)
	}
	if got := h.out.String(); !strings.Contains(got, "schema version ") || !strings.HasSuffix(strings.TrimSpace(got), strconv.Itoa(want)) {
		t.Errorf("status output = %q, want version %d", got, want)
	}
}

func TestCreateSuperAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := t.Context()

	if err := h.run(t, "create-super-admin", "--password", "owner-pass"); err == nil {
		t.Fatal("missing --email accepted")
	}
	if err := h.run(t, "create-super-admin", "--email", "ops@alphaweb.ng", "--password", "short"); err == nil {
		t.Fatal("short password accepted")
	}

	if err := h.run(t, "create-super-admin", "--name", "Ops", "--email", "OPS@alphaweb.ng", "--password", "owner-pass"); err != nil {
		t.Fatalf("create-super-admin: %v", err)
	}
	st := store.New(h.db)
	a, err := st.GetSuperAdminByEmail(ctx, "ops@alphaweb.ng")
	if err != nil {
		t.Fatalf("super admin not stored: %v", err)
	}
	if err := auth.CheckPassword(a.PasswordHash, "owner-pass"); err != nil {
		t.Error("stored hash does not match password")
	}

	if err := h.run(t, "create-super-admin", "--email", "ops@alphaweb.ng", "--password", "owner-pass"); err == nil {
		t.Error("duplicate super admin accepted")
	}

	if err := h.run(t, "create-super-admin", "--email", "ops@alphaweb.ng", "--password", "rotated-pass", "--reset-password"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	a, _ = st.GetSuperAdminByEmail(ctx, "ops@alphaweb.ng")
	if err := auth.CheckPassword(a.PasswordHash, "rotated-pass"); err != nil {
		t.Error("password not reset")
	}
}

func TestSeedPlansIsIdempotent(t *testing.T) {
	h := newHarness(t)

	if err := h.run(t, "seed-plans"); err != nil {
		t.Fatalf("seed-plans: %v", err)
	}
	if !strings.Contains(h.out.String(), "3 plan(s) created") {
		t.Errorf("output = %q", h.out.String())
	}

	if err := h.run(t, "seed-plans"); err != nil {
		t.Fatalf("second seed-plans: %v", err)
	}
	if !strings.Contains(h.out.String(), "0 plan(s) created") {
		t.Errorf("second run output = %q", h.out.String())
	}

	p, err := store.New(h.db).GetPlanByName(t.Context(), "Growth")
	if err != nil {
		t.Fatal(err)
	}
	if p.NoOfBranches != 5 || p.Pricing != 25_000_00 {
		t.Errorf("Growth = %+v", p)
	}
}

func TestPermissionsAndVersion(t *testing.T) {
	h := newHarness(t)

	if err := h.run(t, "permissions"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	if len(lines) != len(authz.Permissions) || lines[0] != authz.Permissions[0] {
		t.Errorf("permissions output has %d lines, want %d", len(lines), len(authz.Permissions))
	}

	if err := h.run(t, "version"); err != nil {
		t.Fatal(err)
	}
	if got := h.out.String(); got != "alphactl dev\n" {
		t.Errorf("version = %q", got)
	}
}
