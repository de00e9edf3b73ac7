// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package auth

import (
	"context"
	"errors"
)

var (
	// ErrNoCredentials is returned when a request carries no token.
	ErrNoCredentials = errors.New("access token is required")

	// ErrInvalidCredentials is returned for a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoSubject is returned when the context has no authenticated principal.
	ErrNoSubject = errors.New("no authenticated subject in context")
)

// Principal is the authenticated caller.
type Principal struct {
	ID         int64
	Email      string
	Kind       Kind
	MerchantID int64
	Role       string
}

// MerchantScope returns the tenant the principal acts for. Merchants act for
// themselves and collaborators for their merchant. Admins have no scope.
func (p *Principal) MerchantScope() (int64, bool) {
	switch p.Kind {
	case KindMerchant:
		if p.MerchantID != 0 {
			return p.MerchantID, true
		}
		return p.ID, true
	case KindCollaborator:
		return p.MerchantID, p.MerchantID != 0
	}
	return 0, false
}

// PrincipalFromClaims converts validated claims into a Principal.
func PrincipalFromClaims(c *Claims) *Principal {
	return &Principal{
		ID:         c.ID,
		Email:      c.Email,
		Kind:       c.Kind,
		MerchantID: c.MerchantID,
		Role:       c.Role,
	}
}

type contextKey string

const (
	subjectContextKey  contextKey = "subject"
	merchantContextKey contextKey = "merchant_id"
)

// ContextWithSubject stores the principal in ctx.
func ContextWithSubject(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, subjectContextKey, p)
}

// SubjectFromContext returns the authenticated principal.
func SubjectFromContext(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(subjectContextKey).(*Principal)
	if !ok || p == nil {
		return nil, ErrNoSubject
	}
	return p, nil
}

// ContextWithMerchantID stores the resolved tenant id.
func ContextWithMerchantID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, merchantContextKey, id)
}

// MerchantIDFromContext returns the tenant id set by RequireMerchantScope.
func MerchantIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(merchantContextKey).(int64)
	return id, ok && id != 0
}
