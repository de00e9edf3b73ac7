// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/metrics"
)

// Purpose separates codes issued for different flows.
type Purpose string

const (
	PurposeVerifyEmail   Purpose = "verify_email"
	PurposeResetPassword Purpose = "reset_password"
)

var (
	ErrInvalidCode        = errors.New("invalid or expired OTP")
	ErrTooManyAttempts    = errors.New("too many incorrect attempts; request a new OTP")
	ErrRateLimited        = errors.New("too many OTP requests; try again later")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	errUnsupportedPurpose = errors.New("unsupported otp purpose")
)

// Service issues and checks codes against a Store.
type Service struct {
	store Store
	cfg   config.OTPConfig
	now   func() time.Time

	mu       sync.Mutex
	limiters map[string]*limiterEntry

	keys keyLocks
}

// keyLocks serializes read-modify-write cycles on one store key. Entries
// are reference counted and removed when the last holder unlocks.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyLocks) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewService creates a service. Zero config values fall back to 6 digits,
// 10 minutes, 5 attempts, 3 codes per hour and 15 minute reset tokens.
func NewService(store Store, cfg config.OTPConfig) *Service {
	if cfg.Length <= 0 {
		cfg.Length = 6
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.IssueLimit <= 0 {
		cfg.IssueLimit = 3
	}
	if cfg.IssueWindow <= 0 {
		cfg.IssueWindow = time.Hour
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 15 * time.Minute
	}
	return &Service{
		store:    store,
		cfg:      cfg,
		now:      time.Now,
		limiters: make(map[string]*limiterEntry),
	}
}

// TTL returns the code lifetime.
func (s *Service) TTL() time.Duration { return s.cfg.TTL }

// Subject builds the identity a code is bound to.
func Subject(kind, email string) string {
	return kind + ":" + strings.ToLower(strings.TrimSpace(email))
}

func codeKey(purpose Purpose, subject string) string {
	return "code:" + string(purpose) + ":" + subject
}

func resetKey(token string) string {
	return "reset:" + token
}

// Issue creates a fresh code for subject, replacing any earlier one.
func (s *Service) Issue(ctx context.Context, purpose Purpose, subject string) (string, error) {
	if purpose != PurposeVerifyEmail && purpose != PurposeResetPassword {
		return "", errUnsupportedPurpose
	}
	if !s.allow(codeKey(purpose, subject)) {
		return "", ErrRateLimited
	}
	code, err := generateCode(s.cfg.Length)
	if err != nil {
		return "", err
	}
	key := codeKey(purpose, subject)
	defer s.keys.lock(key)()
	rec := Record{Code: code, Subject: subject, ExpiresAt: s.now().Add(s.cfg.TTL)}
	if err := s.store.Save(ctx, key, rec, s.cfg.TTL); err != nil {
		return "", fmt.Errorf("save otp: %w", err)
	}
	metrics.RecordOTPIssued(string(purpose))
	return code, nil
}

// Verify checks code for subject. A correct code is consumed. Wrong guesses
// are counted and the code is discarded once MaxAttempts is reached.
// Concurrent checks of one code are serialized so no guess goes uncounted.
func (s *Service) Verify(ctx context.Context, purpose Purpose, subject, code string) error {
	key := codeKey(purpose, subject)
	defer s.keys.lock(key)()
	rec, err := s.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		metrics.RecordOTPVerification(string(purpose), false)
		return ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("load otp: %w", err)
	}
	now := s.now()
	if rec.Expired(now) {
		_ = s.store.Delete(ctx, key)
		metrics.RecordOTPVerification(string(purpose), false)
		return ErrInvalidCode
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(strings.TrimSpace(code))) == 1 {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("consume otp: %w", err)
		}
		metrics.RecordOTPVerification(string(purpose), true)
		return nil
	}

	metrics.RecordOTPVerification(string(purpose), false)
	rec.Attempts++
	if rec.Attempts >= s.cfg.MaxAttempts {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("discard otp: %w", err)
		}
		return ErrTooManyAttempts
	}
	if err := s.store.Save(ctx, key, rec, rec.ExpiresAt.Sub(now)); err != nil {
		return fmt.Errorf("save otp attempts: %w", err)
	}
	return ErrInvalidCode
}

// IssueResetToken returns a single-use token proving the subject verified a
// reset code.
func (s *Service) IssueResetToken(ctx context.Context, subject string) (string, error) {
	token := uuid.NewString()
	rec := Record{Subject: subject, ExpiresAt: s.now().Add(s.cfg.ResetTokenTTL)}
	if err := s.store.Save(ctx, resetKey(token), rec, s.cfg.ResetTokenTTL); err != nil {
		return "", fmt.Errorf("save reset token: %w", err)
	}
	return token, nil
}

// ConsumeResetToken validates and deletes a reset token. The token must have
// been issued for subject.
func (s *Service) ConsumeResetToken(ctx context.Context, token, subject string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	defer s.keys.lock(resetKey(token))()
	rec, err := s.store.Get(ctx, resetKey(token))
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("load reset token: %w", err)
	}
	if rec.Expired(s.now()) || rec.Subject != subject {
		return ErrInvalidResetToken
	}
	if err := s.store.Delete(ctx, resetKey(token)); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	return nil
}

// Purge drops expired records and idle limiters.
func (s *Service) Purge(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.cfg.IssueWindow)
	s.mu.Lock()
	for k, e := range s.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(s.limiters, k)
		}
	}
	s.mu.Unlock()
	return s.store.Purge(ctx)
}

func (s *Service) allow(key string) bool {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.limiters[key]
	if !ok {
		every := rate.Every(s.cfg.IssueWindow / time.Duration(s.cfg.IssueLimit))
		e = &limiterEntry{limiter: rate.NewLimiter(every, s.cfg.IssueLimit)}
		s.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func generateCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
