// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/metrics"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		inbound  string
		wantSame bool
	}{
		{"generated", "", false},
		{"preserved", "req-from-proxy-1", true},
		{"oversized replaced", strings.Repeat("x", maxRequestIDLength+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromChi, fromLogging string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromChi = GetRequestID(r.Context())
				fromLogging = logging.RequestIDFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inbound != "" {
				req.Header.Set(RequestIDHeader, tt.inbound)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if tt.wantSame && got != tt.inbound {
				t.Errorf("header = %q, want %q", got, tt.inbound)
			}
			if !tt.wantSame {
				if _, err := uuid.Parse(got); err != nil {
					t.Errorf("generated id %q is not a uuid", got)
				}
			}
			if fromChi != got || fromLogging != got {
				t.Errorf("context ids = %q / %q, header %q", fromChi, fromLogging, got)
			}
		})
	}
}

func TestPrometheusMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/loans/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	c := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/loans/{id}", "418")
	before := testutil.ToFloat64(c)
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/loans/"+id, nil))
	}
	if got := testutil.ToFloat64(c) - before; got != 3 {
		t.Errorf("requests counted = %v, want 3", got)
	}
	if v := testutil.ToFloat64(metrics.APIActiveRequests); v != 0 {
		t.Errorf("in-flight gauge = %v after requests", v)
	}
}

func TestCompression(t *testing.T) {
	body := strings.Repeat(`{"amount":"1500.00"}`, 200)
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))

	t.Run("gzip accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/merchant/loans", nil)
		req.Header.Set("Accept-Encoding", "gzip, deflate")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Header().Get("Content-Encoding") != "gzip" {
			t.Fatalf("Content-Encoding = %q", rec.Header().Get("Content-Encoding"))
		}
		zr, err := gzip.NewReader(rec.Body)
		if err != nil {
			t.Fatal(err)
		}
		got, err := io.ReadAll(zr)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != body {
			t.Error("decompressed body differs")
		}
	})

	passthrough := map[string]func(*http.Request){
		"no accept-encoding": func(*http.Request) {},
		"websocket upgrade": func(r *http.Request) {
			r.Header.Set("Accept-Encoding", "gzip")
			r.Header.Set("Upgrade", "websocket")
		},
	}
	for name, prep := range passthrough {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			prep(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Header().Get("Content-Encoding") != "" || rec.Body.String() != body {
				t.Error("response was compressed")
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("headers = %v", rec.Header())
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS sent over plain http")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing behind TLS proxy")
	}
}

func TestPerformanceMonitor(t *testing.T) {
	pm := NewPerformanceMonitor(4)
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	pm.now = func() time.Time {
		clock = clock.Add(10 * time.Millisecond)
		return clock
	}

	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/customers/{id}", func(http.ResponseWriter, *http.Request) {})
	r.Post("/customers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for _, p := range []string{"/customers/1", "/customers/2", "/customers/3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/customers", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/customers", nil))

	if got := len(pm.Recent(-1)); got != 4 {
		t.Fatalf("window holds %d samples, want 4", got)
	}
	if got := pm.Recent(1)[0]; got.Method != http.MethodPost || got.DurationMS != 10 {
		t.Errorf("latest sample = %+v", got)
	}

	stats := pm.Stats()
	if len(stats) != 2 {
		t.Fatalf("Stats() returned %d endpoints", len(stats))
	}
	if stats[0].Endpoint != "GET /customers/{id}" && stats[0].Endpoint != "POST /customers" {
		t.Errorf("unexpected endpoint %q", stats[0].Endpoint)
	}
	for _, s := range stats {
		if s.RequestCount != 2 {
			t.Errorf("%s count = %d, want 2", s.Endpoint, s.RequestCount)
		}
		if s.Endpoint == "POST /customers" && s.ErrorCount != 2 {
			t.Errorf("error count = %d", s.ErrorCount)
		}
	}
}

func TestPercentile(t *testing.T) {
	sorted := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		p    float64
		want int64
	}{
		{0.50, 5},
		{0.95, 9},
		{0.99, 9},
		{1, 10},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("percentile(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
	if percentile(nil, 0.5) != 0 {
		t.Error("empty slice")
	}
}
