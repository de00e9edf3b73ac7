// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/alphaweb/internal/accounts"
	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/finance"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/otp"
	"github.com/tomtom215/alphaweb/internal/store"
	"github.com/tomtom215/alphaweb/internal/validation"
)

// httpError is a handler-level failure with a fixed status and code.
type httpError struct {
	status  int
	code    string
	message string
}

func (e *httpError) Error() string { return e.message }

func badRequest(message string) error {
	return &httpError{status: http.StatusBadRequest, code: ErrCodeBadRequest, message: message}
}

func notFound(message string) error {
	return &httpError{status: http.StatusNotFound, code: ErrCodeNotFound, message: message}
}

func forbidden(message string) error {
	return &httpError{status: http.StatusForbidden, code: ErrCodeForbidden, message: message}
}

func conflict(message string) error {
	return &httpError{status: http.StatusConflict, code: ErrCodeConflict, message: message}
}

// notFoundIf replaces database.ErrNotFound with a 404 carrying message.
func notFoundIf(err error, message string) error {
	if errors.Is(err, database.ErrNotFound) {
		return notFound(message)
	}
	return err
}

func unprocessable(message string) error {
	return &httpError{status: http.StatusUnprocessableEntity, code: ErrCodeValidation, message: message}
}

// errQuota is returned when a tenant reaches a plan limit.
type errQuota struct{ resource string }

func (e errQuota) Error() string {
	return "plan limit reached for " + e.resource + "; upgrade your plan to add more"
}

// respondErr maps err to a status and error code. notFoundMsg replaces the
// generic message for database.ErrNotFound.
func respondErr(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	rw := NewResponseWriter(w, r)

	var he *httpError
	var ve *validation.RequestValidationError
	var qe errQuota
	switch {
	case errors.As(err, &he):
		rw.Error(he.status, he.code, he.message)
	case errors.As(err, &ve):
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, "request validation failed", ve.FieldErrors())
	case errors.As(err, &qe):
		rw.Error(http.StatusForbidden, ErrCodeQuotaExceeded, qe.Error())

	case errors.Is(err, database.ErrNotFound):
		if notFoundMsg == "" {
			notFoundMsg = "resource not found"
		}
		rw.NotFound(notFoundMsg)
	case errors.Is(err, database.ErrConflict):
		rw.Error(http.StatusConflict, ErrCodeConflict, "a record with these details already exists")

	case errors.Is(err, accounts.ErrEmailTaken):
		rw.Error(http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, accounts.ErrEmailNotFound), errors.Is(err, accounts.ErrMerchantNotFound):
		rw.NotFound(err.Error())
	case errors.Is(err, accounts.ErrNotVerified):
		rw.Error(http.StatusForbidden, ErrCodeNotVerified, err.Error())
	case errors.Is(err, accounts.ErrAccountInactive):
		rw.Error(http.StatusForbidden, ErrCodeAccountInactive, err.Error())
	case errors.Is(err, accounts.ErrUnsupportedKind):
		rw.BadRequest(err.Error())
	case errors.Is(err, accounts.ErrMailDelivery):
		rw.Error(http.StatusBadGateway, ErrCodeExternalServiceFail, "failed to send email")

	case errors.Is(err, auth.ErrInvalidCredentials):
		rw.Error(http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, auth.ErrAccountLocked):
		rw.Error(http.StatusTooManyRequests, ErrCodeAccountLocked, err.Error())
	case errors.Is(err, auth.ErrPasswordTooShort):
		rw.BadRequest(err.Error())

	case errors.Is(err, otp.ErrInvalidCode), errors.Is(err, otp.ErrInvalidResetToken):
		rw.Error(http.StatusBadRequest, ErrCodeInvalidOTP, err.Error())
	case errors.Is(err, otp.ErrTooManyAttempts), errors.Is(err, otp.ErrRateLimited):
		rw.Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, err.Error())

	case errors.Is(err, store.ErrInsufficientFunds):
		rw.Error(http.StatusBadRequest, ErrCodeInsufficientFunds, err.Error())
	case errors.Is(err, store.ErrWalletInactive), errors.Is(err, store.ErrInvalidAmount):
		rw.BadRequest(err.Error())
	case errors.Is(err, store.ErrLoanClosed):
		rw.Error(http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.Is(err, finance.ErrInvalidDuration):
		rw.Error(http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())

	default:
		logging.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		rw.InternalError("internal server error")
	}
}
