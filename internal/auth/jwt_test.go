// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/alphaweb/internal/config"
)

const testSecret = "this_is_a_very_long_secret_key_for_testing_purposes_12345"

func newTestJWTManager(t *testing.T, ttl time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, TokenTTL: ttl})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.SecurityConfig
		wantTTL time.Duration
		wantErr bool
	}{
		{"valid secret", &config.SecurityConfig{JWTSecret: testSecret, TokenTTL: time.Hour}, time.Hour, false},
		{"zero ttl defaults to a day", &config.SecurityConfig{JWTSecret: testSecret}, 24 * time.Hour, false},
		{"empty secret", &config.SecurityConfig{TokenTTL: time.Hour}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewJWTManager(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("NewJWTManager() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewJWTManager() unexpected error = %v", err)
			}
			if m.TTL() != tt.wantTTL {
				t.Errorf("TTL() = %v, want %v", m.TTL(), tt.wantTTL)
			}
		})
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)

	tests := []struct {
		name string
		p    Principal
	}{
		{"super admin", Principal{ID: 1, Email: "root@alphaweb.test", Kind: KindSuperAdmin}},
		{"admin staff", Principal{ID: 7, Email: "ops@alphaweb.test", Kind: KindAdminStaff, Role: "Support"}},
		{"merchant", Principal{ID: 42, Email: "shop@example.com", Kind: KindMerchant, MerchantID: 42}},
		{"collaborator", Principal{ID: 3, Email: "teller@example.com", Kind: KindCollaborator, MerchantID: 42, Role: "teller"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := m.GenerateToken(tt.p)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}
			claims, err := m.ValidateToken(token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			got := *PrincipalFromClaims(claims)
			if got != tt.p {
				t.Errorf("principal = %+v, want %+v", got, tt.p)
			}
			if !strings.HasPrefix(claims.Subject, string(tt.p.Kind)+":") {
				t.Errorf("subject = %q", claims.Subject)
			}
		})
	}
}

func TestGenerateTokenRejectsUnknownKind(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)
	if _, err := m.GenerateToken(Principal{ID: 1, Kind: "agent"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateToken(Principal{ID: 1, Kind: KindMerchant})
	if err != nil {
		t.Fatal(err)
	}

	m.now = time.Now
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)
	other, err := NewJWTManager(&config.SecurityConfig{JWTSecret: "another_secret_that_is_long_enough_for_tests", TokenTTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	token, err := other.GenerateToken(Principal{ID: 1, Kind: KindMerchant})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expected signature mismatch")
	}
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)
	claims := &Claims{
		ID:   1,
		Kind: KindSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expected alg=none to be rejected")
	}
}

func TestValidateTokenMalformed(t *testing.T) {
	m := newTestJWTManager(t, time.Hour)
	for _, token := range []string{"", "abc", "a.b.c"} {
		if _, err := m.ValidateToken(token); err == nil {
			t.Errorf("ValidateToken(%q) expected error", token)
		}
	}
}
