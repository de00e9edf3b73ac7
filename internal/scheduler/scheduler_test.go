// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/store"
)

func TestAddValidation(t *testing.T) {
	s := New(time.Second)
	noop := func(context.Context) error { return nil }

	tests := []struct {
		name    string
		job     Job
		wantErr bool
	}{
		{"valid", Job{Name: "a", Spec: "*/5 * * * *", Run: noop}, false},
		{"disabled", Job{Name: "b", Spec: "", Run: noop}, false},
		{"bad spec", Job{Name: "c", Spec: "every minute", Run: noop}, true},
		{"no func", Job{Name: "d", Spec: "* * * * *"}, true},
		{"duplicate", Job{Name: "a", Spec: "* * * * *", Run: noop}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Add(tt.job); (err != nil) != tt.wantErr {
				t.Errorf("Add() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if jobs := s.Jobs(); len(jobs) != 1 {
		t.Errorf("Jobs() = %v, want only a", jobs)
	}
}

func TestRunNowSkipsOverlap(t *testing.T) {
	s := New(time.Second)
	release := make(chan struct{})
	started := make(chan struct{})
	var runs atomic.Int32
	if err := s.Add(Job{Name: "slow", Spec: "0 0 1 1 *", Run: func(ctx context.Context) error {
		runs.Add(1)
		close(started)
		<-release
		return nil
	}}); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- s.RunNow(context.Background(), "slow") }()
	<-started
	if err := s.RunNow(context.Background(), "slow"); err != nil {
		t.Errorf("overlapping RunNow() error = %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if n := runs.Load(); n != 1 {
		t.Errorf("runs = %d, want 1", n)
	}
	if err := s.RunNow(context.Background(), "missing"); !errors.Is(err, ErrUnknownJob) {
		t.Errorf("missing job = %v", err)
	}
}

func TestRunTimeout(t *testing.T) {
	s := New(20 * time.Millisecond)
	_ = s.Add(Job{Name: "stuck", Spec: "@hourly", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	if err := s.RunNow(context.Background(), "stuck"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("RunNow() = %v, want deadline exceeded", err)
	}
}

func TestStartStop(t *testing.T) {
	s := New(time.Second)
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() before Start = %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(context.Background()); err == nil {
		t.Error("second Start() succeeded")
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
}

type fakeSweeper struct{ calls int }

func (f *fakeSweeper) SweepCollections(context.Context) (store.SweepResult, error) {
	f.calls++
	return store.SweepResult{Scanned: 3, MarkedOverdue: 1}, nil
}

type fakeAudit struct{ err error }

func (f fakeAudit) Cleanup(context.Context) (int64, error) { return 2, f.err }

type fakePurger struct{ calls int }

func (f *fakePurger) Purge(context.Context) (int, error) {
	f.calls++
	return 4, nil
}

type fakeLockout struct{ calls int }

func (f *fakeLockout) Cleanup(context.Context) int {
	f.calls++
	return 1
}

type fakeBackups struct{ calls int }

func (f *fakeBackups) RunScheduled(context.Context) error {
	f.calls++
	return nil
}

func TestRegister(t *testing.T) {
	s := New(time.Second)
	sweeper, purger, lockout := &fakeSweeper{}, &fakePurger{}, &fakeLockout{}
	cfg := config.SchedulerConfig{Enabled: true, OverdueSweep: "*/15 * * * *", AuditRetention: "30 3 * * *", OTPPurge: "*/10 * * * *"}
	err := Register(s, cfg, Deps{
		Collections: sweeper,
		Audit:       fakeAudit{err: errors.New("db locked")},
		OTP:         purger,
		Lockout:     lockout,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Jobs()) != 3 {
		t.Fatalf("Jobs() = %v", s.Jobs())
	}

	backups := &fakeBackups{}
	if err := Register(s, config.SchedulerConfig{Backup: "0 2 * * *"}, Deps{Backups: backups}); err != nil {
		t.Fatal(err)
	}
	if len(s.Jobs()) != 4 {
		t.Fatalf("Jobs() = %v", s.Jobs())
	}

	ctx := context.Background()
	if err := s.RunNow(ctx, JobOverdueSweep); err != nil || sweeper.calls != 1 {
		t.Errorf("sweep = %v, calls %d", err, sweeper.calls)
	}
	if err := s.RunNow(ctx, JobOTPPurge); err != nil || purger.calls != 1 || lockout.calls != 1 {
		t.Errorf("purge = %v, otp %d, lockout %d", err, purger.calls, lockout.calls)
	}
	if err := s.RunNow(ctx, JobBackup); err != nil || backups.calls != 1 {
		t.Errorf("backup = %v, calls %d", err, backups.calls)
	}
	if err := s.RunNow(ctx, JobAuditRetention); err == nil {
		t.Error("audit cleanup error not returned")
	}

	partial := New(time.Second)
	if err := Register(partial, config.SchedulerConfig{OverdueSweep: "@every 1m"}, Deps{Collections: sweeper}); err != nil {
		t.Fatal(err)
	}
	if _, ok := partial.Jobs()[JobOverdueSweep]; !ok || len(partial.Jobs()) != 1 {
		t.Errorf("partial Jobs() = %v", partial.Jobs())
	}
}
