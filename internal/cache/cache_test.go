// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// newTestCache returns a cache with a controllable clock.
func newTestCache(ttl time.Duration) (*Cache, *time.Time) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(ttl)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	value, ok := c.Get("key1")
	if !ok || value != "value1" {
		t.Errorf("Get(key1) = %v, %v", value, ok)
	}
	if _, ok := c.Get("key2"); ok {
		t.Error("Expected key2 to not exist")
	}

	c.Delete("key1")
	if _, ok := c.Get("key1"); ok {
		t.Error("Expected key1 to be deleted")
	}

	st := c.GetStats()
	if st.Hits != 1 || st.Misses != 2 || st.Evictions != 1 {
		t.Errorf("stats = %+v", st)
	}
	if got := c.HitRate(); got < 33 || got > 34 {
		t.Errorf("HitRate() = %v", got)
	}
}

func TestCacheExpiration(t *testing.T) {
	c, now := newTestCache(30 * time.Second)

	c.Set("key1", "value1")
	c.SetWithTTL("key2", "value2", 2*time.Minute)

	*now = now.Add(31 * time.Second)
	if _, ok := c.Get("key1"); ok {
		t.Error("Expected key1 to be expired")
	}
	if _, ok := c.Get("key2"); !ok {
		t.Error("Expected key2 to outlive the default TTL")
	}

	*now = now.Add(2 * time.Minute)
	c.cleanup()
	if st := c.GetStats(); st.TotalKeys != 0 || st.LastCleanup != *now {
		t.Errorf("after cleanup stats = %+v", st)
	}
}

func TestCacheInvalidatePrefix(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set(Key("dashboard", 1), "a")
	c.Set(Key("dashboard", 1, "Last 3 months"), "b")
	c.Set(Key("dashboard", 12), "c")

	if n := c.InvalidatePrefix(Key("dashboard", 1) + ":"); n != 1 {
		t.Errorf("InvalidatePrefix() = %d, want 1", n)
	}
	if _, ok := c.Get(Key("dashboard", 1)); !ok {
		t.Error("exact key should survive a child prefix invalidation")
	}
	if _, ok := c.Get(Key("dashboard", 12)); !ok {
		t.Error("other tenant's entry was dropped")
	}

	c.Clear()
	if st := c.GetStats(); st.TotalKeys != 0 {
		t.Errorf("TotalKeys = %d after Clear", st.TotalKeys)
	}
}

func TestKey(t *testing.T) {
	if got := Key("stats", int64(7), "Last 6 months"); got != "stats:7:Last 6 months" {
		t.Errorf("Key() = %q", got)
	}
	if got := Key("admin-stats"); got != "admin-stats" {
		t.Errorf("Key() = %q", got)
	}
}

func TestLoad(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	calls := 0
	fn := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Load(c, "answer", fn)
		if err != nil || v != 42 {
			t.Fatalf("Load() = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := Load(c, "broken", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("Load() error = %v", err)
	}
	if _, ok := c.Get("broken"); ok {
		t.Error("errors must not be cached")
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	if New(0) != nil {
		t.Fatal("New(0) should disable caching")
	}

	c.Set("k", 1)
	if _, ok := c.Get("k"); ok {
		t.Error("nil cache returned a value")
	}
	calls := 0
	for i := 0; i < 2; i++ {
		if _, err := Load(c, "k", func() (int, error) { calls++; return 1, nil }); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Errorf("nil cache loader calls = %d, want 2", calls)
	}
	if c.InvalidatePrefix("k") != 0 || c.HitRate() != 0 {
		t.Error("nil cache should be inert")
	}
}

func TestCacheServeStopsOnCancel(t *testing.T) {
	c := New(time.Minute)
	c.sweepEvery = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if c.GetStats().LastCleanup.IsZero() {
		t.Error("expected at least one sweep")
	}
}
