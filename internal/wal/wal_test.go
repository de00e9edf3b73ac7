// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package wal

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func openTestWAL(t *testing.T, cfg Config) *WAL {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = t.TempDir()
	}
	w, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

type mockPublisher struct {
	mu     sync.Mutex
	fail   error
	topics []string
	ids    []string
}

func (m *mockPublisher) PublishEntry(_ context.Context, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.topics = append(m.topics, e.Topic)
	m.ids = append(m.ids, e.ID)
	return nil
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ids)
}

func TestWriteConfirm(t *testing.T) {
	w := openTestWAL(t, Config{})
	ctx := context.Background()

	id, err := w.Write(ctx, "customer.created", []byte(`{"id":7}`), map[string]string{"request_id": "r1"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	pending, err := w.Pending(ctx)
	if err != nil || len(pending) != 1 {
		t.Fatalf("Pending() = %d, %v", len(pending), err)
	}
	if got := pending[0]; got.ID != id || got.Topic != "customer.created" || string(got.Payload) != `{"id":7}` || got.Metadata["request_id"] != "r1" {
		t.Errorf("entry = %+v", got)
	}

	if err := w.Confirm(ctx, id); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if err := w.Confirm(ctx, id); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("second Confirm() error = %v, want ErrEntryNotFound", err)
	}
	if pending, _ := w.Pending(ctx); len(pending) != 0 {
		t.Errorf("Pending() after confirm = %d", len(pending))
	}
	if s := w.Stats(); s.Writes != 1 || s.Confirms != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestWriteRejectsEmptyTopic(t *testing.T) {
	w := openTestWAL(t, Config{})
	if _, err := w.Write(context.Background(), "", nil, nil); !errors.Is(err, ErrEmptyTopic) {
		t.Errorf("Write() error = %v", err)
	}
}

func TestClosed(t *testing.T) {
	w := openTestWAL(t, Config{})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if _, err := w.Write(context.Background(), "t", nil, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Write() after close = %v", err)
	}
	if n := w.Compact(); n != 0 {
		t.Errorf("Compact() after close = %d", n)
	}
}

func TestCompactKeepsPendingEntries(t *testing.T) {
	ctx := context.Background()
	w := openTestWAL(t, Config{})
	var keep string
	for i := 0; i < 50; i++ {
		id, err := w.Write(ctx, "wallet.transfer", []byte(`{"amount":100}`), nil)
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			keep = id
			continue
		}
		if err := w.Confirm(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	w.Compact()

	pending, err := w.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != keep {
		t.Errorf("Pending() after Compact = %+v", pending)
	}
}

func TestEntriesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(Config{Path: dir, SyncWrites: true})
	if err != nil {
		t.Fatal(err)
	}
	id, err := w.Write(context.Background(), "loan.created", []byte(`{}`), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	w = openTestWAL(t, Config{Path: dir})
	pub := &mockPublisher{}
	if n := NewRetryLoop(w, pub).RunOnce(context.Background()); n != 1 {
		t.Fatalf("RunOnce() = %d, want 1", n)
	}
	if pub.ids[0] != id {
		t.Errorf("republished %s, want %s", pub.ids[0], id)
	}
}
