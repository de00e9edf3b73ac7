// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/alphaweb/internal/validation"
)

type bindTarget struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=5"`
}

func TestBind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantValid  bool
	}{
		{"valid", `{"email":"a@b.ng","name":"Ada"}`, 0, false},
		{"empty body", ``, http.StatusBadRequest, false},
		{"malformed", `{"email":`, http.StatusBadRequest, false},
		{"unknown field", `{"email":"a@b.ng","admin":true}`, http.StatusBadRequest, false},
		{"fails validation", `{"email":"nope","name":"toolong"}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst bindTarget
			err := bind(w, r, &dst)

			var he *httpError
			var ve *validation.RequestValidationError
			switch {
			case tt.wantStatus == 0 && !tt.wantValid:
				if err != nil {
					t.Fatalf("bind() error = %v", err)
				}
				if dst.Email != "a@b.ng" {
					t.Errorf("Email = %q", dst.Email)
				}
			case tt.wantValid:
				if !errors.As(err, &ve) {
					t.Fatalf("bind() error = %v, want validation error", err)
				}
				fields := ve.FieldErrors()
				if _, ok := fields["email"]; !ok {
					t.Errorf("FieldErrors() = %v, want email", fields)
				}
			default:
				if !errors.As(err, &he) || he.status != tt.wantStatus {
					t.Fatalf("bind() error = %v, want status %d", err, tt.wantStatus)
				}
			}
		})
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		r := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.raw)
		got, err := pathID(r, "id")
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("pathID(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

func TestFilterFromQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?status=%20Active%20&search=ada&page=3&limit=bad", nil)
	f := filterFromQuery(r)

	if f.Status != "Active" || f.Search != "ada" || f.Page != 3 || f.Limit != 0 {
		t.Errorf("filterFromQuery() = %+v", f)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		wantNil bool
		wantErr bool
		wantDay int
	}{
		{"", true, false, 0},
		{"2026-03-09", false, false, 9},
		{"2026-03-10T08:00:00Z", false, false, 10},
		{"09/03/2026", true, true, 0},
	}
	for _, tt := range tests {
		got, err := parseDate("dueDate", tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDate(%q) error = %v", tt.in, err)
			continue
		}
		if (got == nil) != tt.wantNil {
			t.Errorf("parseDate(%q) = %v", tt.in, got)
			continue
		}
		if got != nil && got.Day() != tt.wantDay {
			t.Errorf("parseDate(%q).Day() = %d, want %d", tt.in, got.Day(), tt.wantDay)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("ada\r\nadmin=true"); got != "adaadmin=true" {
		t.Errorf("control characters kept: %q", got)
	}
	if got := sanitizeLogValue(strings.Repeat("x", 300)); len(got) != 203 {
		t.Errorf("len = %d, want 203", len(got))
	}
}
