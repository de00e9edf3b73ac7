// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/store"
)

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError is the machine-readable failure description.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIMeta carries tracing and pagination metadata.
type APIMeta struct {
	RequestID  string          `json:"request_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	DurationMs int64           `json:"duration_ms,omitempty"`
	Pagination *store.PageInfo `json:"pagination,omitempty"`
}

// Error codes for API responses. Authentication middleware writes the same
// UNAUTHORIZED and FORBIDDEN codes.
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeQuotaExceeded       = "QUOTA_EXCEEDED"
	ErrCodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	ErrCodeInvalidOTP          = "INVALID_OTP"
	ErrCodeNotVerified         = "EMAIL_NOT_VERIFIED"
	ErrCodeAccountInactive     = "ACCOUNT_INACTIVE"
	ErrCodeAccountLocked       = "ACCOUNT_LOCKED"
	ErrCodeExternalServiceFail = "EXTERNAL_SERVICE_FAILED"
)

// ResponseWriter writes envelopes for one request.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, startTime: time.Now()}
}

func (rw *ResponseWriter) meta() *APIMeta {
	return &APIMeta{
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
		Timestamp:  time.Now().UTC(),
		DurationMs: time.Since(rw.startTime).Milliseconds(),
	}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.write(http.StatusOK, APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// Message writes a 200 response carrying a confirmation message and optional data.
func (rw *ResponseWriter) Message(message string, data interface{}) {
	rw.write(http.StatusOK, APIResponse{Success: true, Message: message, Data: data, Meta: rw.meta()})
}

// Page writes a list with pagination metadata.
func (rw *ResponseWriter) Page(data interface{}, page store.PageInfo) {
	m := rw.meta()
	m.Pagination = &page
	rw.write(http.StatusOK, APIResponse{Success: true, Data: data, Meta: m})
}

// Created writes a 201 response.
func (rw *ResponseWriter) Created(message string, data interface{}) {
	rw.write(http.StatusCreated, APIResponse{Success: true, Message: message, Data: data, Meta: rw.meta()})
}

// Status writes a success envelope with an explicit status code.
func (rw *ResponseWriter) Status(status int, message string, data interface{}) {
	rw.write(status, APIResponse{Success: status < 300, Message: message, Data: data, Meta: rw.meta()})
}

// Error writes an error envelope.
func (rw *ResponseWriter) Error(status int, code, message string) {
	rw.ErrorWithDetails(status, code, message, nil)
}

func (rw *ResponseWriter) ErrorWithDetails(status int, code, message string, details interface{}) {
	m := rw.meta()
	rw.write(status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: m.RequestID,
		},
		Meta: m,
	})
}

func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

func (rw *ResponseWriter) write(status int, body APIResponse) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(body); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteSuccess writes a 200 envelope for handlers that need nothing else.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	NewResponseWriter(w, r).Success(data)
}

// WriteError writes an error envelope.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	NewResponseWriter(w, r).Error(status, code, message)
}
