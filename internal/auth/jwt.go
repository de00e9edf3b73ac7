// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/alphaweb/internal/config"
)

// Kind identifies the type of principal a token was issued to.
type Kind string

const (
	KindSuperAdmin   Kind = "super_admin"
	KindAdminStaff   Kind = "admin_staff"
	KindMerchant     Kind = "merchant"
	KindCollaborator Kind = "collaborator"
)

// Valid reports whether k is a known principal kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSuperAdmin, KindAdminStaff, KindMerchant, KindCollaborator:
		return true
	}
	return false
}

// IsAdmin reports whether k belongs to the platform console.
func (k Kind) IsAdmin() bool {
	return k == KindSuperAdmin || k == KindAdminStaff
}

// Claims are the JWT claims issued at login.
type Claims struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Kind       Kind   `json:"kind"`
	MerchantID int64  `json:"merchant_id,omitempty"`
	// Role is the admin role name for admin staff or the team role for collaborators.
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager handles token creation and validation.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a token manager from the security configuration.
// An empty secret is rejected; length rules are enforced by config validation.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (m *JWTManager) TTL() time.Duration { return m.ttl }

// GenerateToken signs a token for the given principal. The subject claim is
// "<kind>:<id>" so tokens for different tables never collide.
func (m *JWTManager) GenerateToken(p Principal) (string, error) {
	if !p.Kind.Valid() {
		return "", fmt.Errorf("unknown principal kind %q", p.Kind)
	}
	now := m.now()
	claims := &Claims{
		ID:         p.ID,
		Email:      p.Email,
		Kind:       p.Kind,
		MerchantID: p.MerchantID,
		Role:       p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(p.Kind) + ":" + strconv.FormatInt(p.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and time claims and returns the claims.
// Tokens signed with anything but HMAC are rejected.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if !claims.Kind.Valid() {
		return nil, fmt.Errorf("invalid token kind %q", claims.Kind)
	}
	return claims, nil
}
