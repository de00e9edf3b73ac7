// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/alphaweb/internal/store"
)

func TestResponseWriter_Success(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)

	NewResponseWriter(w, r).Success(map[string]string{"message": "hello"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !response.Success {
		t.Error("Expected Success to be true")
	}
	if response.Error != nil {
		t.Error("Expected Error to be nil")
	}
	if response.Meta == nil || response.Meta.Timestamp.IsZero() {
		t.Error("Expected Meta with Timestamp")
	}
}

func TestResponseWriter_Page(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)

	f := store.Filter{Page: 2, Limit: 10}
	NewResponseWriter(w, r).Page([]string{"a", "b"}, f.Info(25))

	var response APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Meta == nil || response.Meta.Pagination == nil {
		t.Fatal("Expected pagination metadata")
	}
	if p := response.Meta.Pagination; p.Total != 25 || p.Page != 2 || p.Limit != 10 {
		t.Errorf("pagination = %+v", p)
	}
}

func TestResponseWriter_CreatedAndMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		write  func(rw *ResponseWriter)
		status int
		msg    string
	}{
		{"created", func(rw *ResponseWriter) { rw.Created("made", 1) }, http.StatusCreated, "made"},
		{"message", func(rw *ResponseWriter) { rw.Message("done", nil) }, http.StatusOK, "done"},
		{"multi status", func(rw *ResponseWriter) { rw.Status(http.StatusMultiStatus, "partial", nil) }, http.StatusMultiStatus, "partial"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			tt.write(NewResponseWriter(w, httptest.NewRequest(http.MethodPost, "/test", nil)))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var response APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if !response.Success || response.Message != tt.msg {
				t.Errorf("response = %+v", response)
			}
		})
	}
}

func TestResponseWriter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		write  func(rw *ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("bad") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("gone") }, http.StatusNotFound, ErrCodeNotFound},
		{"internal", func(rw *ResponseWriter) { rw.InternalError("boom") }, http.StatusInternalServerError, ErrCodeInternalError},
		{"custom", func(rw *ResponseWriter) { rw.Error(http.StatusConflict, ErrCodeConflict, "dup") }, http.StatusConflict, ErrCodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			tt.write(NewResponseWriter(w, httptest.NewRequest(http.MethodGet, "/test", nil)))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var response APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if response.Success {
				t.Error("Expected Success to be false")
			}
			if response.Error == nil || response.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", response.Error, tt.code)
			}
		})
	}
}

func TestResponseWriter_ErrorWithDetails(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/test", nil)
	NewResponseWriter(w, r).ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, "invalid",
		map[string]string{"email": "email is required"})

	if !strings.Contains(w.Body.String(), `"email":"email is required"`) {
		t.Errorf("details missing from %s", w.Body.String())
	}
}

func TestResponseWriter_ContentType(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WriteSuccess(w, httptest.NewRequest(http.MethodGet, "/test", nil), nil)

	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}
