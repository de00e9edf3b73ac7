// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/alphaweb/internal/models"
)

// MemoryStore keeps the most recent entries in memory.
type MemoryStore struct {
	mu         sync.RWMutex
	logs       []models.AdminLog
	activities []models.Activity
	nextID     int64
	maxLen     int
}

// NewMemoryStore creates a store holding at most maxLen entries of each
// kind. Zero means 10000.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &MemoryStore{maxLen: maxLen}
}

// trim drops the oldest 10% once a slice reaches maxLen.
func trim[T any](items []T, maxLen int) []T {
	if len(items) < maxLen {
		return items
	}
	cut := maxLen / 10
	if cut == 0 {
		cut = 1
	}
	return append(items[:0:0], items[cut:]...)
}

func (s *MemoryStore) SaveAdminLog(_ context.Context, log *models.AdminLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	log.ID = s.nextID
	s.logs = append(trim(s.logs, s.maxLen), *log)
	return nil
}

func (s *MemoryStore) SaveActivity(_ context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a.ID = s.nextID
	s.activities = append(trim(s.activities, s.maxLen), *a)
	return nil
}

func (s *MemoryStore) AdminLogs(_ context.Context, f LogFilter) ([]models.AdminLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AdminLog, 0)
	for i := len(s.logs) - 1; i >= 0 && len(out) < f.limit(); i-- {
		if f.matches(&s.logs[i]) {
			out = append(out, s.logs[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) Activities(_ context.Context, f ActivityFilter) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Activity, 0)
	for i := len(s.activities) - 1; i >= 0 && len(out) < f.limit(); i-- {
		if f.matches(&s.activities[i]) {
			out = append(out, s.activities[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	logs := s.logs[:0]
	for _, l := range s.logs {
		if l.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		logs = append(logs, l)
	}
	s.logs = logs

	acts := s.activities[:0]
	for _, a := range s.activities {
		if a.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		acts = append(acts, a)
	}
	s.activities = acts
	return n, nil
}

// Len returns the number of stored admin logs and activities.
func (s *MemoryStore) Len() (logs, activities int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs), len(s.activities)
}
