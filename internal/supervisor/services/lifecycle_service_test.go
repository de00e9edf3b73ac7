// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/alphaweb/internal/scheduler"
	"github.com/tomtom215/alphaweb/internal/websocket"
)

// fakeBus mirrors events.Bus: one start, one shutdown, no restart.
type fakeBus struct {
	mu       sync.Mutex
	running  bool
	closed   bool
	startErr error
	starts   int
	shutdown chan struct{}
}

func newFakeBus() *fakeBus {
	return &fakeBus{shutdown: make(chan struct{})}
}

func (b *fakeBus) Start(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.starts++
	if b.startErr != nil {
		return b.startErr
	}
	if b.running || b.closed {
		return errors.New("event bus already started or closed")
	}
	b.running = true
	return nil
}

func (b *fakeBus) Shutdown(context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed, b.running = true, false
	close(b.shutdown)
}

func (b *fakeBus) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

func TestEventBusService_Serve(t *testing.T) {
	bus := newFakeBus()
	svc := NewEventBusService(bus, time.Second)
	if svc.String() != "event-bus" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.After(time.Second)
	for !bus.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("bus not started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	select {
	case <-bus.shutdown:
	default:
		t.Error("bus not shut down")
	}

	err := svc.Serve(context.Background())
	if !errors.Is(err, suture.ErrDoNotRestart) {
		t.Errorf("Serve() after shutdown = %v, want ErrDoNotRestart", err)
	}
}

func TestEventBusService_FirstStartFailureIsRetryable(t *testing.T) {
	bus := newFakeBus()
	bus.startErr = errors.New("nats: no servers available for connection")

	err := NewEventBusService(bus, 0).Serve(context.Background())
	if err == nil || errors.Is(err, suture.ErrDoNotRestart) {
		t.Errorf("Serve() = %v, want retryable error", err)
	}
}

func TestSchedulerService_RunsJobsUntilCanceled(t *testing.T) {
	sched := scheduler.New(time.Second)
	var runs atomic.Int32
	if err := sched.Add(scheduler.Job{Name: "tick", Spec: "@every 1s", Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}}); err != nil {
		t.Fatal(err)
	}

	svc := NewSchedulerService(sched)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	if err := sched.RunNow(ctx, "tick"); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler service did not stop")
	}
	if runs.Load() < 1 {
		t.Error("job never ran")
	}

	// Stop resets the scheduler, so a supervisor restart can start it again.
	ctx2, cancel2 := context.WithCancel(context.Background())
	go func() { errCh <- svc.Serve(ctx2) }()
	time.Sleep(20 * time.Millisecond)
	cancel2()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("second Serve() = %v", err)
	}
}

func TestHubService_StopsWithContext(t *testing.T) {
	svc := NewHubService(websocket.NewHub())
	if svc.String() != "websocket-hub" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want DeadlineExceeded", err)
	}
}
