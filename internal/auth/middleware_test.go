// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler(t *testing.T, check func(r *http.Request)) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	jm := newTestJWTManager(t, time.Hour)
	mw := NewMiddleware(jm, "token")

	valid, err := jm.GenerateToken(Principal{ID: 9, Email: "m@example.com", Kind: KindMerchant})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{"missing token", "", "", http.StatusUnauthorized, "Access token is required"},
		{"bearer token", "Bearer " + valid, "", http.StatusOK, ""},
		{"cookie token", "", valid, http.StatusOK, ""},
		{"garbage token", "Bearer nope", "", http.StatusForbidden, "Invalid or expired token"},
		{"non bearer scheme", "Basic Zm9vOmJhcg==", valid, http.StatusUnauthorized, "Access token is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/merchant/customers", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(okHandler(t, func(r *http.Request) {
				p, err := SubjectFromContext(r.Context())
				if err != nil || p.ID != 9 || p.Kind != KindMerchant {
					t.Errorf("subject = %+v, %v", p, err)
				}
			})).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireKind(t *testing.T) {
	tests := []struct {
		name       string
		principal  *Principal
		wantStatus int
	}{
		{"no subject", nil, http.StatusUnauthorized},
		{"allowed", &Principal{ID: 1, Kind: KindSuperAdmin}, http.StatusOK},
		{"denied", &Principal{ID: 1, Kind: KindMerchant}, http.StatusForbidden},
	}

	h := RequireKind(KindSuperAdmin, KindAdminStaff)(okHandler(t, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
			if tt.principal != nil {
				req = req.WithContext(ContextWithSubject(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireMerchantScope(t *testing.T) {
	tests := []struct {
		name       string
		principal  *Principal
		wantStatus int
		wantID     int64
	}{
		{"merchant uses own id", &Principal{ID: 5, Kind: KindMerchant}, http.StatusOK, 5},
		{"collaborator uses merchant id", &Principal{ID: 2, Kind: KindCollaborator, MerchantID: 5}, http.StatusOK, 5},
		{"collaborator without tenant", &Principal{ID: 2, Kind: KindCollaborator}, http.StatusForbidden, 0},
		{"admin has no tenant", &Principal{ID: 1, Kind: KindSuperAdmin}, http.StatusForbidden, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(ContextWithSubject(req.Context(), tt.principal))
			rec := httptest.NewRecorder()
			RequireMerchantScope(okHandler(t, func(r *http.Request) {
				id, ok := MerchantIDFromContext(r.Context())
				if !ok || id != tt.wantID {
					t.Errorf("merchant id = %d, %v, want %d", id, ok, tt.wantID)
				}
			})).ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
