// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/alphaweb/internal/logging"
)

// ErrAccountLocked is returned when login is blocked after repeated failures.
var ErrAccountLocked = errors.New("account temporarily locked due to too many failed attempts")

// LockoutConfig holds the login lockout policy.
type LockoutConfig struct {
	// MaxAttempts is the number of consecutive failures before lockout.
	MaxAttempts int
	// LockoutDuration is the first lockout period; later lockouts double it.
	LockoutDuration time.Duration
	// MaxLockoutDuration caps the doubled period.
	MaxLockoutDuration time.Duration
	Enabled            bool
}

// DefaultLockoutConfig returns 5 attempts, 15 minutes, capped at 24 hours.
func DefaultLockoutConfig() LockoutConfig {
	return LockoutConfig{
		MaxAttempts:        5,
		LockoutDuration:    15 * time.Minute,
		MaxLockoutDuration: 24 * time.Hour,
		Enabled:            true,
	}
}

type lockoutEntry struct {
	failed      int
	lockouts    int
	lastAttempt time.Time
	lockedUntil time.Time
}

// LockoutManager tracks failed logins per principal kind and email.
type LockoutManager struct {
	cfg     LockoutConfig
	mu      sync.Mutex
	entries map[string]*lockoutEntry
	now     func() time.Time
}

// NewLockoutManager creates an in-memory lockout tracker.
func NewLockoutManager(cfg LockoutConfig) *LockoutManager {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.MaxLockoutDuration < cfg.LockoutDuration {
		cfg.MaxLockoutDuration = cfg.LockoutDuration
	}
	return &LockoutManager{
		cfg:     cfg,
		entries: make(map[string]*lockoutEntry),
		now:     time.Now,
	}
}

func lockoutKey(kind Kind, email string) string {
	return string(kind) + ":" + strings.ToLower(strings.TrimSpace(email))
}

// Check returns ErrAccountLocked and the remaining time when the account is locked.
func (m *LockoutManager) Check(kind Kind, email string) (time.Duration, error) {
	if !m.cfg.Enabled {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[lockoutKey(kind, email)]
	if !ok {
		return 0, nil
	}
	if remaining := e.lockedUntil.Sub(m.now()); remaining > 0 {
		return remaining, ErrAccountLocked
	}
	return 0, nil
}

// RecordFailure counts a failed attempt and reports whether it caused a lockout.
func (m *LockoutManager) RecordFailure(kind Kind, email string) (locked bool, remaining time.Duration) {
	if !m.cfg.Enabled {
		return false, 0
	}
	key := lockoutKey(kind, email)
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		e = &lockoutEntry{}
		m.entries[key] = e
	}
	if now.Before(e.lockedUntil) {
		return true, e.lockedUntil.Sub(now)
	}

	e.failed++
	e.lastAttempt = now
	if e.failed < m.cfg.MaxAttempts {
		return false, 0
	}

	d := m.lockoutDuration(e.lockouts)
	e.lockedUntil = now.Add(d)
	e.lockouts++
	e.failed = 0

	logging.Warn().
		Str("kind", string(kind)).
		Str("email", logging.MaskEmail(email)).
		Dur("duration", d).
		Int("lockout_count", e.lockouts).
		Msg("Account locked")
	return true, d
}

func (m *LockoutManager) lockoutDuration(previous int) time.Duration {
	d := m.cfg.LockoutDuration
	for i := 0; i < previous; i++ {
		d *= 2
		if d >= m.cfg.MaxLockoutDuration {
			return m.cfg.MaxLockoutDuration
		}
	}
	return d
}

// RecordSuccess clears the failure history for an account.
func (m *LockoutManager) RecordSuccess(kind Kind, email string) {
	if !m.cfg.Enabled {
		return
	}
	m.mu.Lock()
	delete(m.entries, lockoutKey(kind, email))
	m.mu.Unlock()
}

// Cleanup drops entries that are unlocked and idle for a day. It returns the
// number removed.
func (m *LockoutManager) Cleanup(_ context.Context) int {
	threshold := m.now().Add(-24 * time.Hour)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for k, e := range m.entries {
		if !m.now().Before(e.lockedUntil) && e.lastAttempt.Before(threshold) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}
