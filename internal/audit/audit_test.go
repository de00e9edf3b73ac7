// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package audit

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/testinfra"
)

func int64Ptr(v int64) *int64 { return &v }

type recordingNotifier struct {
	mu   sync.Mutex
	logs []models.AdminLog
}

func (n *recordingNotifier) AdminActionRecorded(_ context.Context, log models.AdminLog) {
	n.mu.Lock()
	n.logs = append(n.logs, log)
	n.mu.Unlock()
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.logs)
}

func flush(t *testing.T, l *Logger) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(0),
		"sql":    NewSQLStore(testinfra.NewDuckDB(t)),
	}
}

func TestLoggerWritesAndQueries(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			l := NewLogger(store, Config{Enabled: true, BufferSize: 16, RetentionDays: 30})
			t.Cleanup(func() { _ = l.Close() })
			notifier := &recordingNotifier{}
			l.SetNotifier(notifier)

			ctx := logging.ContextWithRequestID(context.Background(), "req-1")
			src := Source{IPAddress: "10.0.0.1", UserAgent: "console"}
			l.Admin(ctx, models.AdminLog{StaffID: 1, ActorKind: "super_admin", Action: "merchant.status", Entity: "merchant", EntityID: int64Ptr(7)}, src)
			l.Admin(ctx, models.AdminLog{StaffID: 2, ActorKind: "admin_staff", Action: "plan.create", Entity: "plan", EntityID: int64Ptr(3)}, src)
			l.Activity(ctx, models.Activity{MerchantID: int64Ptr(7), Person: models.PersonMerchant, Action: "Added customer"})
			l.Activity(ctx, models.Activity{MerchantID: int64Ptr(8), Person: models.PersonAgent, Action: "Recorded collection"})
			flush(t, l)

			logs, err := l.AdminLogs(ctx, LogFilter{})
			if err != nil {
				t.Fatal(err)
			}
			if len(logs) != 2 {
				t.Fatalf("got %d logs, want 2", len(logs))
			}
			if logs[0].Action != "plan.create" {
				t.Errorf("most recent first: got %q", logs[0].Action)
			}
			if logs[1].IPAddress != "10.0.0.1" || logs[1].UserAgent != "console" {
				t.Errorf("source not applied: %+v", logs[1])
			}
			if logs[1].Metadata["request_id"] != "req-1" {
				t.Errorf("metadata = %v", logs[1].Metadata)
			}

			byEntity, err := l.AdminLogs(ctx, LogFilter{Entity: "merchant", EntityID: int64Ptr(7)})
			if err != nil || len(byEntity) != 1 || byEntity[0].StaffID != 1 {
				t.Errorf("entity filter = %+v, %v", byEntity, err)
			}
			byStaff, err := l.AdminLogs(ctx, LogFilter{StaffID: int64Ptr(2), ActorKind: "admin_staff"})
			if err != nil || len(byStaff) != 1 {
				t.Errorf("staff filter = %+v, %v", byStaff, err)
			}

			acts, err := l.Activities(ctx, ActivityFilter{MerchantID: int64Ptr(7)})
			if err != nil || len(acts) != 1 || acts[0].Action != "Added customer" {
				t.Errorf("activities = %+v, %v", acts, err)
			}
			if notifier.count() != 2 {
				t.Errorf("notifier saw %d logs, want 2", notifier.count())
			}
		})
	}
}

func TestLoggerDisabled(t *testing.T) {
	store := NewMemoryStore(0)
	l := NewLogger(store, Config{Enabled: false})
	t.Cleanup(func() { _ = l.Close() })

	l.Admin(context.Background(), models.AdminLog{Action: "x"}, Source{})
	l.Activity(context.Background(), models.Activity{Action: "y"})
	flush(t, l)
	if logs, acts := store.Len(); logs != 0 || acts != 0 {
		t.Errorf("disabled logger stored %d/%d entries", logs, acts)
	}
}

func TestLoggerCloseDrains(t *testing.T) {
	store := NewMemoryStore(0)
	l := NewLogger(store, Config{Enabled: true, BufferSize: 100})
	for i := 0; i < 50; i++ {
		l.Activity(context.Background(), models.Activity{Person: models.PersonStaff, Action: "tick"})
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if _, acts := store.Len(); acts != 50 {
		t.Errorf("stored %d activities after close, want 50", acts)
	}
	// Entries after close are ignored.
	l.Activity(context.Background(), models.Activity{Action: "late"})
	if err := l.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestCleanup(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
			l := NewLogger(store, Config{Enabled: true, RetentionDays: 30})
			l.now = func() time.Time { return now }
			t.Cleanup(func() { _ = l.Close() })

			l.Admin(ctx, models.AdminLog{Action: "old", CreatedAt: now.AddDate(0, 0, -45)}, Source{})
			l.Admin(ctx, models.AdminLog{Action: "new"}, Source{})
			l.Activity(ctx, models.Activity{Person: models.PersonMerchant, Action: "old", CreatedAt: now.AddDate(0, 0, -31)})
			flush(t, l)

			n, err := l.Cleanup(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if n != 2 {
				t.Errorf("Cleanup() removed %d, want 2", n)
			}
			logs, _ := l.AdminLogs(ctx, LogFilter{})
			if len(logs) != 1 || logs[0].Action != "new" {
				t.Errorf("remaining logs = %+v", logs)
			}
		})
	}
}

func TestMemoryStoreTrim(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	for i := 0; i < 25; i++ {
		if err := s.SaveAdminLog(ctx, &models.AdminLog{Action: "a"}); err != nil {
			t.Fatal(err)
		}
	}
	if logs, _ := s.Len(); logs > 10 {
		t.Errorf("store holds %d logs, want at most 10", logs)
	}
	got, _ := s.AdminLogs(ctx, LogFilter{Limit: 3})
	if len(got) != 3 || got[0].ID != 25 {
		t.Errorf("AdminLogs(limit 3) = %+v", got)
	}
}

func TestSourceFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}, "10.0.0.2:4000", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.4 "}, "10.0.0.2:4000", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.1:5555", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			r.Header.Set("User-Agent", "probe")
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			src := SourceFromRequest(r)
			if src.IPAddress != tt.want || src.UserAgent != "probe" {
				t.Errorf("SourceFromRequest() = %+v, want ip %q", src, tt.want)
			}
		})
	}
}
