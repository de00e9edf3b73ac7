// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package audit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/alphaweb/internal/models"
)

// DefaultQueryLimit matches the console's "most recent 100" views.
const DefaultQueryLimit = 100

// Store persists admin logs and activities.
type Store interface {
	SaveAdminLog(ctx context.Context, log *models.AdminLog) error
	SaveActivity(ctx context.Context, a *models.Activity) error
	AdminLogs(ctx context.Context, f LogFilter) ([]models.AdminLog, error)
	Activities(ctx context.Context, f ActivityFilter) ([]models.Activity, error)
	// DeleteBefore removes entries of both kinds created before cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// LogFilter selects admin logs. Results are most recent first.
type LogFilter struct {
	StaffID   *int64
	ActorKind string
	Entity    string
	EntityID  *int64
	Action    string
	Since     time.Time
	Limit     int
}

func (f LogFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultQueryLimit
	}
	return f.Limit
}

func (f LogFilter) matches(l *models.AdminLog) bool {
	switch {
	case f.StaffID != nil && l.StaffID != *f.StaffID:
		return false
	case f.ActorKind != "" && l.ActorKind != f.ActorKind:
		return false
	case f.Entity != "" && l.Entity != f.Entity:
		return false
	case f.EntityID != nil && (l.EntityID == nil || *l.EntityID != *f.EntityID):
		return false
	case f.Action != "" && l.Action != f.Action:
		return false
	case !f.Since.IsZero() && l.CreatedAt.Before(f.Since):
		return false
	}
	return true
}

// ActivityFilter selects feed entries. Results are most recent first.
type ActivityFilter struct {
	MerchantID *int64
	Person     string
	Limit      int
}

func (f ActivityFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultQueryLimit
	}
	return f.Limit
}

func (f ActivityFilter) matches(a *models.Activity) bool {
	if f.MerchantID != nil && (a.MerchantID == nil || *a.MerchantID != *f.MerchantID) {
		return false
	}
	return f.Person == "" || a.Person == f.Person
}

// Source is where a request came from.
type Source struct {
	IPAddress string
	UserAgent string
}

// SourceFromRequest prefers the first X-Forwarded-For hop, then X-Real-IP,
// then the connection address without port.
func SourceFromRequest(r *http.Request) Source {
	ip := ""
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip = strings.TrimSpace(strings.Split(xff, ",")[0])
	} else if xri := r.Header.Get("X-Real-IP"); xri != "" {
		ip = strings.TrimSpace(xri)
	} else {
		ip = r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
	}
	return Source{IPAddress: ip, UserAgent: r.UserAgent()}
}

// Notifier is told about every admin log after it is stored.
type Notifier interface {
	AdminActionRecorded(ctx context.Context, log models.AdminLog)
}
