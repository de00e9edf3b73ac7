// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/metrics"
	"github.com/tomtom215/alphaweb/internal/models"
)

// Config controls buffering and retention.
type Config struct {
	Enabled       bool
	BufferSize    int
	RetentionDays int
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{Enabled: true, BufferSize: 1000, RetentionDays: 90}
}

// item is one queued write. A non-nil flush channel is a barrier.
type item struct {
	log      *models.AdminLog
	activity *models.Activity
	flush    chan struct{}
}

// Logger queues audit writes and persists them on a background goroutine.
type Logger struct {
	cfg   Config
	store Store
	now   func() time.Time

	mu       sync.RWMutex
	notifier Notifier

	queue    chan item
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func NewLogger(store Store, cfg Config) *Logger {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	l := &Logger{
		cfg:      cfg,
		store:    store,
		now:      time.Now,
		queue:    make(chan item, cfg.BufferSize),
		stopChan: make(chan struct{}),
	}
	l.wg.Add(1)
	go l.asyncWriter()
	return l
}

// SetNotifier registers n to hear about stored admin logs.
func (l *Logger) SetNotifier(n Notifier) {
	l.mu.Lock()
	l.notifier = n
	l.mu.Unlock()
}

func (l *Logger) asyncWriter() {
	defer l.wg.Done()
	for {
		select {
		case <-l.stopChan:
			for {
				select {
				case it := <-l.queue:
					l.write(it)
				default:
					return
				}
			}
		case it := <-l.queue:
			l.write(it)
		}
	}
}

func (l *Logger) write(it item) {
	if it.flush != nil {
		close(it.flush)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch {
	case it.log != nil:
		if err := l.store.SaveAdminLog(ctx, it.log); err != nil {
			logging.Error().Err(err).Str("action", it.log.Action).Msg("Failed to save admin log")
			return
		}
		metrics.AuditEventsWritten.Inc()
		l.mu.RLock()
		n := l.notifier
		l.mu.RUnlock()
		if n != nil {
			n.AdminActionRecorded(ctx, *it.log)
		}
	case it.activity != nil:
		if err := l.store.SaveActivity(ctx, it.activity); err != nil {
			logging.Error().Err(err).Str("action", it.activity.Action).Msg("Failed to save activity")
			return
		}
		metrics.AuditEventsWritten.Inc()
	}
}

func (l *Logger) enqueue(it item, action string) {
	select {
	case <-l.stopChan:
		return
	default:
	}
	select {
	case l.queue <- it:
	default:
		metrics.AuditEventsDropped.Inc()
		logging.Warn().Str("action", action).Msg("Audit buffer full, dropping entry")
	}
}

// Admin queues an admin log entry. The request id from ctx, when present, is
// added to the metadata.
func (l *Logger) Admin(ctx context.Context, entry models.AdminLog, src Source) {
	if !l.cfg.Enabled {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = l.now().UTC()
	}
	if entry.IPAddress == "" {
		entry.IPAddress = src.IPAddress
	}
	if entry.UserAgent == "" {
		entry.UserAgent = src.UserAgent
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		meta := models.JSONMap{}
		for k, v := range entry.Metadata {
			meta[k] = v
		}
		meta["request_id"] = id
		entry.Metadata = meta
	}
	l.enqueue(item{log: &entry}, entry.Action)
}

// Activity queues a feed entry.
func (l *Logger) Activity(_ context.Context, a models.Activity) {
	if !l.cfg.Enabled {
		return
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = l.now().UTC()
	}
	l.enqueue(item{activity: &a}, a.Action)
}

// Flush blocks until every entry queued before the call is written or ctx
// ends.
func (l *Logger) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case l.queue <- item{flush: done}:
	case <-l.stopChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AdminLogs queries stored admin logs.
func (l *Logger) AdminLogs(ctx context.Context, f LogFilter) ([]models.AdminLog, error) {
	return l.store.AdminLogs(ctx, f)
}

// Activities queries stored feed entries.
func (l *Logger) Activities(ctx context.Context, f ActivityFilter) ([]models.Activity, error) {
	return l.store.Activities(ctx, f)
}

// Cleanup removes entries older than the retention window. A window of zero
// keeps everything.
func (l *Logger) Cleanup(ctx context.Context) (int64, error) {
	if l.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := l.now().UTC().AddDate(0, 0, -l.cfg.RetentionDays)
	n, err := l.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return n, err
	}
	if n > 0 {
		logging.Info().Int64("count", n).Int("retention_days", l.cfg.RetentionDays).Msg("Cleaned up old audit entries")
	}
	return n, nil
}

// Close stops accepting entries and drains the buffer.
func (l *Logger) Close() error {
	l.once.Do(func() {
		close(l.stopChan)
		l.wg.Wait()
	})
	return nil
}
