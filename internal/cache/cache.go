// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/alphaweb/internal/metrics"
)

// Entry is a cached value with its expiry.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache is a TTL map safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time

	sweepEvery time.Duration
	stats      Stats
}

// Stats tracks cache effectiveness.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New returns a cache whose entries live for ttl. A non-positive ttl
// returns nil, which disables caching.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return nil
	}
	return &Cache{
		entries:    make(map[string]Entry),
		ttl:        ttl,
		now:        time.Now,
		sweepEvery: time.Minute,
	}
}

// Key joins parts into a cache key. The first part after the namespace is
// conventionally the merchant id.
func Key(namespace string, parts ...interface{}) string {
	var b strings.Builder
	b.WriteString(namespace)
	for _, p := range parts {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// Get returns the value for key if present and unexpired.
func (c *Cache) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.record(false)
		return nil, false
	}
	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.ExpiresAt.Equal(entry.ExpiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
			c.stats.TotalKeys = int64(len(c.entries))
		}
		c.mu.Unlock()
		c.record(false)
		return nil, false
	}
	c.record(true)
	return entry.Data, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL())
}

func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Data: value, ExpiresAt: c.now().Add(ttl)}
	c.stats.TotalKeys = int64(len(c.entries))
}

func (c *Cache) Delete(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.stats.Evictions++
		c.stats.TotalKeys = int64(len(c.entries))
	}
	c.mu.Unlock()
}

// InvalidatePrefix removes every key starting with prefix and returns how
// many were dropped.
func (c *Cache) InvalidatePrefix(prefix string) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			n++
		}
	}
	c.stats.Evictions += int64(n)
	c.stats.TotalKeys = int64(len(c.entries))
	return n
}

func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.stats.Evictions += int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.stats.TotalKeys = 0
	c.mu.Unlock()
}

// GetStats returns a snapshot of the counters.
func (c *Cache) GetStats() Stats {
	if c == nil {
		return Stats{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate is the percentage of lookups that hit.
func (c *Cache) HitRate() float64 {
	st := c.GetStats()
	total := st.Hits + st.Misses
	if total == 0 {
		return 0
	}
	return float64(st.Hits) / float64(total) * 100
}

// Load returns the cached value for key or calls fn and caches its result.
// Errors are not cached.
func Load[T any](c *Cache, key string, fn func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Serve removes expired entries periodically until ctx is done. It
// implements suture.Service.
func (c *Cache) Serve(ctx context.Context) error {
	if c == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *Cache) String() string { return "stats-cache" }

func (c *Cache) cleanup() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
		}
	}
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
}

func (c *Cache) defaultTTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}

func (c *Cache) record(hit bool) {
	c.mu.Lock()
	if hit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()
	if hit {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
}
