// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*HTTPServerService)(nil)

func healthServer() *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	return &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}
}

func waitBound(t *testing.T, svc *HTTPServerService) net.Addr {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if a := svc.Addr(); a != nil {
			return a
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("server never bound")
	return nil
}

func TestNewHTTPServerServiceTimeout(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{30 * time.Second, 30 * time.Second},
		{0, defaultShutdownTimeout},
		{-5 * time.Second, defaultShutdownTimeout},
	}
	for _, tt := range tests {
		if got := NewHTTPServerService(healthServer(), ":0", tt.in).shutdownTimeout; got != tt.want {
			t.Errorf("shutdownTimeout(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHTTPServerServiceServesAndDrains(t *testing.T) {
	svc := NewHTTPServerService(healthServer(), "127.0.0.1:0", time.Second)
	if svc.String() != "http-server" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	addr := waitBound(t, svc)
	resp, err := http.Get("http://" + addr.String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestHTTPServerServicePortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	err = NewHTTPServerService(healthServer(), ln.Addr().String(), time.Second).Serve(context.Background())
	if err == nil || !strings.Contains(err.Error(), "http listen") {
		t.Errorf("Serve() = %v, want listen error", err)
	}
}

func TestHTTPServerServiceRestartsUnderSupervisor(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	svc := NewHTTPServerService(healthServer(), addr, time.Second)

	sup := suture.New("api-layer", suture.Spec{
		FailureThreshold: 100,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	sup.Add(svc)
	ctx, cancel := context.WithCancel(context.Background())
	done := sup.ServeBackground(ctx)

	time.Sleep(50 * time.Millisecond)
	if svc.Addr() != nil {
		t.Fatal("bound while the port was taken")
	}
	ln.Close()

	if got := waitBound(t, svc).String(); got != addr {
		t.Errorf("bound %s, want %s", got, addr)
	}
	cancel()
	<-done
}
