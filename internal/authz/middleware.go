// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package authz

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/logging"
)

// DecisionRecorder observes authorization outcomes, typically a metrics sink.
type DecisionRecorder interface {
	RecordAuthzDecision(permission string, allowed bool)
}

// RequirePermission allows the request only when the authenticated principal
// holds perm. It must run after auth.Authenticate.
func (e *Enforcer) RequirePermission(perm string) func(http.Handler) http.Handler {
	if !ValidPermission(perm) {
		panic("authz: unknown permission " + perm)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := auth.SubjectFromContext(r.Context())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Access token is required")
				return
			}

			allowed, err := e.Can(p, perm)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Str("permission", perm).Msg("Authorization error")
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed")
				return
			}
			if e.recorder != nil {
				e.recorder.RecordAuthzDecision(perm, allowed)
			}
			if !allowed {
				logging.Ctx(r.Context()).Info().
					Str("kind", string(p.Kind)).
					Int64("id", p.ID).
					Str("permission", perm).
					Msg("Permission denied")
				writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetRecorder installs a decision recorder.
func (e *Enforcer) SetRecorder(rec DecisionRecorder) {
	e.recorder = rec
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]interface{}{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write authorization error")
	}
}
