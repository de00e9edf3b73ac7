// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	Init(Config{Level: "debug", Format: "json", Service: "alphaweb-test", Output: &buf})
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Service != "alphaweb" {
		t.Errorf("Service = %q, want alphaweb", cfg.Service)
	}
}

func TestInitWritesServiceField(t *testing.T) {
	buf := captureGlobal(t)

	Info().Str("merchant", "acme").Msg("merchant registered")

	out := buf.String()
	for _, want := range []string{`"service":"alphaweb-test"`, `"merchant":"acme"`, `"level":"info"`, "merchant registered"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCtxAddsRequestAndCorrelationIDs(t *testing.T) {
	buf := captureGlobal(t)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	ctx = ContextWithCorrelationID(ctx, "corr-9")
	Ctx(ctx).Info().Msg("handled")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-123"`) {
		t.Errorf("missing request_id: %s", out)
	}
	if !strings.Contains(out, `"correlation_id":"corr-9"`) {
		t.Errorf("missing correlation_id: %s", out)
	}
}

func TestCtxPrefersContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf).With().Str("job", "sweep").Logger())
	Ctx(ctx).Info().Msg("tick")
	if !strings.Contains(buf.String(), `"job":"sweep"`) {
		t.Errorf("context logger not used: %s", buf.String())
	}
}

func TestGeneratedIDs(t *testing.T) {
	if len(GenerateCorrelationID()) != 8 {
		t.Error("correlation IDs should be 8 characters")
	}
	if a, b := GenerateRequestID(), GenerateRequestID(); a == b {
		t.Error("request IDs should be unique")
	}
}

func TestSlogAdapter(t *testing.T) {
	buf := captureGlobal(t)

	logger := NewSlogLogger().With("layer", "api").WithGroup("svc")
	logger.Warn("service restarted", "name", "http", "attempt", 2, "err", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{`"layer":"api"`, `"svc.name":"http"`, `"svc.attempt":2`, `"svc.err":"boom"`, `"level":"warn"`} {
		if !strings.Contains(out, want) {
			t.Errorf("slog output missing %s: %s", want, out)
		}
	}
}

func TestSlogEnabledFollowsGlobalLevel(t *testing.T) {
	captureGlobal(t)
	SetLevelString("warn")

	h := NewSlogHandler()
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}
