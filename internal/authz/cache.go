// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package authz

import (
	"sync"
	"time"
)

// decisionCache remembers casbin decisions per staff subject. A subject's
// decisions share one expiry, set when its first decision is stored, so a
// role edit is visible everywhere within one TTL even without invalidation.
type decisionCache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	subjects map[string]*subjectDecisions
	// epoch is bumped by clear; sets computed under an older epoch are dropped.
	epoch uint64
}

type subjectDecisions struct {
	expiresAt time.Time
	allowed   map[string]bool // "object:action" -> decision
}

func newDecisionCache(ttl time.Duration) *decisionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &decisionCache{ttl: ttl, now: time.Now, subjects: make(map[string]*subjectDecisions)}
}

// snapshot returns the epoch to hand back to set.
func (c *decisionCache) snapshot() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

func (c *decisionCache) get(subject, perm string) (allowed, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d := c.subjects[subject]
	if d == nil || !c.now().Before(d.expiresAt) {
		return false, false
	}
	allowed, ok = d.allowed[perm]
	return allowed, ok
}

func (c *decisionCache) set(epoch uint64, subject, perm string, allowed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return
	}
	now := c.now()
	d := c.subjects[subject]
	if d == nil || !now.Before(d.expiresAt) {
		c.pruneLocked(now)
		d = &subjectDecisions{expiresAt: now.Add(c.ttl), allowed: make(map[string]bool)}
		c.subjects[subject] = d
	}
	d.allowed[perm] = allowed
}

// pruneLocked drops expired subjects; it runs only when a new subject set is
// started, which bounds the map to the active staff count.
func (c *decisionCache) pruneLocked(now time.Time) {
	for sub, d := range c.subjects {
		if !now.Before(d.expiresAt) {
			delete(c.subjects, sub)
		}
	}
}

func (c *decisionCache) invalidateSubject(subject string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subjects, subject)
}

func (c *decisionCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subjects = make(map[string]*subjectDecisions)
	c.epoch++
}

func (c *decisionCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subjects)
}
