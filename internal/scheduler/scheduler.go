// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

// Package scheduler runs periodic maintenance jobs on robfig/cron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/metrics"
)

// ErrUnknownJob is returned by RunNow for an unregistered name.
var ErrUnknownJob = errors.New("unknown job")

// Job is a named task on a standard five-field cron spec.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type entry struct {
	job     Job
	id      cron.EntryID
	running atomic.Bool
}

// Scheduler runs jobs in UTC. A job still running when its next tick fires
// skips that tick.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// New creates a scheduler. Each run gets at most timeout; zero means 10 minutes.
func New(timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	l := cronLogger{log: logging.Logger()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l)),
		),
		timeout: timeout,
		entries: make(map[string]*entry),
		ctx:     context.Background(),
	}
}

// Add registers a job. Jobs with an empty spec are ignored.
func (s *Scheduler) Add(j Job) error {
	if j.Spec == "" {
		logging.Info().Str("job", j.Name).Msg("Scheduled job disabled")
		return nil
	}
	if j.Name == "" || j.Run == nil {
		return fmt.Errorf("job needs a name and a function")
	}
	if _, err := cron.ParseStandard(j.Spec); err != nil {
		return fmt.Errorf("job %s: invalid spec %q: %w", j.Name, j.Spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.entries[j.Name]; dup {
		return fmt.Errorf("job %s already registered", j.Name)
	}
	e := &entry{job: j}
	id, err := s.cron.AddFunc(j.Spec, func() { s.run(s.baseContext(), e) })
	if err != nil {
		return fmt.Errorf("schedule %s: %w", j.Name, err)
	}
	e.id = id
	s.entries[j.Name] = e
	return nil
}

func (s *Scheduler) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Scheduler) run(ctx context.Context, e *entry) error {
	if !e.running.CompareAndSwap(false, true) {
		metrics.RecordJobSkipped(e.job.Name)
		logging.Warn().Str("job", e.job.Name).Msg("Previous run still in progress, skipping")
		return nil
	}
	defer e.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := e.job.Run(ctx)
	metrics.RecordJobRun(e.job.Name, time.Since(start), err)
	if err != nil {
		logging.Error().Err(err).Str("job", e.job.Name).Msg("Scheduled job failed")
		return err
	}
	logging.Debug().Str("job", e.job.Name).Dur("duration", time.Since(start)).Msg("Scheduled job finished")
	return nil
}

// RunNow runs a registered job immediately, honouring the overlap guard.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.run(ctx, e)
}

// Jobs lists registered job names with their next run time.
func (s *Scheduler) Jobs() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Time, len(s.entries))
	for name, e := range s.entries {
		out[name] = s.cron.Entry(e.id).Next
	}
	return out
}

// Start begins ticking. Job contexts derive from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.cron.Start()
	logging.Info().Int("jobs", len(s.entries)).Msg("Scheduler started")
	return nil
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	<-s.cron.Stop().Done()
	logging.Info().Msg("Scheduler stopped")
	return nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
