// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package auth

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/alphaweb/internal/logging"
)

// Error codes written by the middleware. They match the API envelope codes.
const (
	codeUnauthorized = "UNAUTHORIZED"
	codeForbidden    = "FORBIDDEN"
)

// Middleware authenticates requests with JWTs.
type Middleware struct {
	jwt        *JWTManager
	cookieName string
}

// NewMiddleware creates the authentication middleware. cookieName is the
// fallback cookie consulted when no Authorization header is present.
func NewMiddleware(jwtManager *JWTManager, cookieName string) *Middleware {
	if cookieName == "" {
		cookieName = "token"
	}
	return &Middleware{jwt: jwtManager, cookieName: cookieName}
}

// Authenticate requires a valid token and stores the principal in the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, codeUnauthorized, "Access token is required")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Str("token", logging.MaskToken(token)).Msg("Token rejected")
			writeAuthError(w, http.StatusForbidden, codeForbidden, "Invalid or expired token")
			return
		}

		ctx := ContextWithSubject(r.Context(), PrincipalFromClaims(claims))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireKind allows only the listed principal kinds. It must run after
// Authenticate.
func RequireKind(kinds ...Kind) func(http.Handler) http.Handler {
	allowed := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		allowed[k] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := SubjectFromContext(r.Context())
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, codeUnauthorized, "Access token is required")
				return
			}
			if _, ok := allowed[p.Kind]; !ok {
				writeAuthError(w, http.StatusForbidden, codeForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMerchantScope resolves the tenant of a merchant or collaborator and
// stores it for MerchantIDFromContext.
func RequireMerchantScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := SubjectFromContext(r.Context())
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, codeUnauthorized, "Access token is required")
			return
		}
		id, ok := p.MerchantScope()
		if !ok {
			writeAuthError(w, http.StatusForbidden, codeForbidden, "Merchant access required")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithMerchantID(r.Context(), id)))
	})
}

type authErrorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	var body authErrorBody
	body.Error.Code = code
	body.Error.Message = message
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write auth error")
	}
}
