// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash equals plaintext")
	}
	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := CheckPassword(hash, "wrong horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword(wrong) = %v, want ErrInvalidCredentials", err)
	}
	if err := CheckPassword("not-a-hash", "whatever1"); err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword(corrupt) = %v", err)
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short", bcrypt.MinCost); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("err = %v, want ErrPasswordTooShort", err)
	}
}

func TestLockoutManager(t *testing.T) {
	m := NewLockoutManager(LockoutConfig{MaxAttempts: 3, LockoutDuration: time.Minute, MaxLockoutDuration: 3 * time.Minute, Enabled: true})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if locked, _ := m.RecordFailure(KindMerchant, "Shop@Example.com"); locked {
			t.Fatalf("locked after %d failures", i+1)
		}
	}
	locked, d := m.RecordFailure(KindMerchant, "shop@example.com")
	if !locked || d != time.Minute {
		t.Fatalf("third failure = %v, %v", locked, d)
	}
	if _, err := m.Check(KindMerchant, "shop@example.com"); !errors.Is(err, ErrAccountLocked) {
		t.Errorf("Check() = %v, want ErrAccountLocked", err)
	}
	if _, err := m.Check(KindSuperAdmin, "shop@example.com"); err != nil {
		t.Errorf("other kind locked: %v", err)
	}

	// Second lockout doubles.
	now = now.Add(2 * time.Minute)
	for i := 0; i < 2; i++ {
		m.RecordFailure(KindMerchant, "shop@example.com")
	}
	if _, d := m.RecordFailure(KindMerchant, "shop@example.com"); d != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", d)
	}

	m.RecordSuccess(KindMerchant, "shop@example.com")
	if _, err := m.Check(KindMerchant, "shop@example.com"); err != nil {
		t.Errorf("after success: %v", err)
	}
}

func TestLockoutCleanup(t *testing.T) {
	m := NewLockoutManager(DefaultLockoutConfig())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	m.RecordFailure(KindAdminStaff, "ops@alphaweb.test")

	if n := m.Cleanup(t.Context()); n != 0 {
		t.Errorf("fresh entry removed: %d", n)
	}
	now = now.Add(25 * time.Hour)
	if n := m.Cleanup(t.Context()); n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
}
