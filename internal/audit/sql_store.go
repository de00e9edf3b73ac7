// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/metrics"
	"github.com/tomtom215/alphaweb/internal/models"
)

// SQLStore persists entries in the admin_logs and activities tables.
type SQLStore struct {
	conn *sqlx.DB
}

func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{conn: db.Conn()}
}

func (s *SQLStore) SaveAdminLog(ctx context.Context, log *models.AdminLog) error {
	start := time.Now()
	query := s.conn.Rebind(`INSERT INTO admin_logs
		(staff_id, actor_kind, action, entity, entity_id, details, ip_address, user_agent, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err := s.conn.QueryRowxContext(ctx, query,
		log.StaffID, log.ActorKind, log.Action, log.Entity, log.EntityID, log.Details,
		log.IPAddress, log.UserAgent, log.Metadata, log.CreatedAt,
	).Scan(&log.ID)
	if err = observe("insert", "admin_logs", start, err); err != nil {
		return fmt.Errorf("save admin log: %w", err)
	}
	return nil
}

func (s *SQLStore) SaveActivity(ctx context.Context, a *models.Activity) error {
	start := time.Now()
	query := s.conn.Rebind(`INSERT INTO activities
		(merchant_id, agent_id, staff_id, person, action, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err := s.conn.QueryRowxContext(ctx, query,
		a.MerchantID, a.AgentID, a.StaffID, a.Person, a.Action, a.Details, a.CreatedAt,
	).Scan(&a.ID)
	if err = observe("insert", "activities", start, err); err != nil {
		return fmt.Errorf("save activity: %w", err)
	}
	return nil
}

func (s *SQLStore) AdminLogs(ctx context.Context, f LogFilter) ([]models.AdminLog, error) {
	var clauses []string
	var args []interface{}
	if f.StaffID != nil {
		clauses = append(clauses, "staff_id = ?")
		args = append(args, *f.StaffID)
	}
	if f.ActorKind != "" {
		clauses = append(clauses, "actor_kind = ?")
		args = append(args, f.ActorKind)
	}
	if f.Entity != "" {
		clauses = append(clauses, "entity = ?")
		args = append(args, f.Entity)
	}
	if f.EntityID != nil {
		clauses = append(clauses, "entity_id = ?")
		args = append(args, *f.EntityID)
	}
	if f.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, f.Action)
	}
	if !f.Since.IsZero() {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, f.Since.UTC())
	}

	query := "SELECT * FROM admin_logs" + whereClause(clauses) +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT %d", f.limit())
	logs := make([]models.AdminLog, 0)
	start := time.Now()
	err := s.conn.SelectContext(ctx, &logs, s.conn.Rebind(query), args...)
	if err = observe("select", "admin_logs", start, err); err != nil {
		return nil, fmt.Errorf("query admin logs: %w", err)
	}
	return logs, nil
}

func (s *SQLStore) Activities(ctx context.Context, f ActivityFilter) ([]models.Activity, error) {
	var clauses []string
	var args []interface{}
	if f.MerchantID != nil {
		clauses = append(clauses, "merchant_id = ?")
		args = append(args, *f.MerchantID)
	}
	if f.Person != "" {
		clauses = append(clauses, "person = ?")
		args = append(args, f.Person)
	}

	query := "SELECT * FROM activities" + whereClause(clauses) +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT %d", f.limit())
	acts := make([]models.Activity, 0)
	start := time.Now()
	err := s.conn.SelectContext(ctx, &acts, s.conn.Rebind(query), args...)
	if err = observe("select", "activities", start, err); err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	return acts, nil
}

func (s *SQLStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	for _, table := range []string{"admin_logs", "activities"} {
		start := time.Now()
		res, err := s.conn.ExecContext(ctx, s.conn.Rebind("DELETE FROM "+table+" WHERE created_at < ?"), cutoff.UTC())
		if err = observe("delete", table, start, err); err != nil {
			return total, fmt.Errorf("prune %s: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	return total, nil
}

func whereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

func observe(op, table string, start time.Time, err error) error {
	err = database.MapError(err)
	metrics.RecordDBQuery(op, table, time.Since(start), err)
	return err
}
