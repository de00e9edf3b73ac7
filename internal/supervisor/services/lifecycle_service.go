// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"
)

// EventBus is satisfied by *events.Bus.
type EventBus interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventBusService supervises the watermill router behind the event bus.
//
// A bus cannot be started again once shut down, so a failed start after
// a previous run removes the service instead of spinning on restarts.
type EventBusService struct {
	bus             EventBus
	shutdownTimeout time.Duration
	started         bool
}

// NewEventBusService wraps bus. A non-positive timeout means 10s.
func NewEventBusService(bus EventBus, shutdownTimeout time.Duration) *EventBusService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &EventBusService{bus: bus, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	if !s.bus.IsRunning() {
		if err := s.bus.Start(ctx); err != nil {
			if s.started {
				return fmt.Errorf("%w: event bus restart: %v", suture.ErrDoNotRestart, err)
			}
			return fmt.Errorf("event bus start: %w", err)
		}
	}
	s.started = true

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.bus.Shutdown(shutdownCtx)
	return ctx.Err()
}

func (s *EventBusService) String() string {
	return "event-bus"
}

// StartStopper is satisfied by *scheduler.Scheduler.
type StartStopper interface {
	Start(ctx context.Context) error
	Stop() error
}

// SchedulerService supervises the cron scheduler. Stop waits for jobs in
// flight, so a restart never overlaps two runs of the same job.
type SchedulerService struct {
	sched StartStopper
}

// NewSchedulerService wraps sched.
func NewSchedulerService(sched StartStopper) *SchedulerService {
	return &SchedulerService{sched: sched}
}

// Serve implements suture.Service.
func (s *SchedulerService) Serve(ctx context.Context) error {
	if err := s.sched.Start(ctx); err != nil {
		return fmt.Errorf("scheduler start: %w", err)
	}
	<-ctx.Done()
	if err := s.sched.Stop(); err != nil {
		return fmt.Errorf("scheduler stop: %w", err)
	}
	return ctx.Err()
}

func (s *SchedulerService) String() string {
	return "scheduler"
}
