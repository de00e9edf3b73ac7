// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package testinfra

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// CapturedRequest is one request received by a MockProviderServer.
type CapturedRequest struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

// MockProviderServer records requests and replies with a canned response.
type MockProviderServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	captures []CapturedRequest

	// ResponseStatus defaults to 200.
	ResponseStatus int
	ResponseBody   []byte
	// ResponseFunc, when set, replaces the canned response.
	ResponseFunc func(w http.ResponseWriter, r *http.Request)
}

// NewMockProviderServer starts a server that is closed on test cleanup.
func NewMockProviderServer(t testing.TB) *MockProviderServer {
	t.Helper()

	m := &MockProviderServer{ResponseStatus: http.StatusOK}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()

		m.mu.Lock()
		m.captures = append(m.captures, CapturedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Headers: r.Header.Clone(),
			Body:    body,
		})
		fn, status, resp := m.ResponseFunc, m.ResponseStatus, m.ResponseBody
		m.mu.Unlock()

		if fn != nil {
			fn(w, r)
			return
		}
		w.WriteHeader(status)
		if resp != nil {
			_, _ = w.Write(resp)
		}
	}))
	t.Cleanup(m.Server.Close)
	return m
}

// URL returns the server base URL.
func (m *MockProviderServer) URL() string {
	return m.Server.URL
}

// Captures returns a copy of the recorded requests.
func (m *MockProviderServer) Captures() []CapturedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CapturedRequest, len(m.captures))
	copy(out, m.captures)
	return out
}

// WaitForCaptures waits until at least n requests arrive or the timeout passes.
func (m *MockProviderServer) WaitForCaptures(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		count := len(m.captures)
		m.mu.Unlock()
		if count >= n {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}
