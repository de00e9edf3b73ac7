// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/metrics"
)

// Store is the repository facade over one database. A Store obtained from
// InTx runs every method inside that transaction.
type Store struct {
	db  *database.DB
	q   database.Queryer
	tx  bool
	now func() time.Time
}

func New(db *database.DB) *Store {
	return &Store{db: db, q: db.Conn(), now: time.Now}
}

// DB returns the underlying database.
func (s *Store) DB() *database.DB { return s.db }

// Ping checks connectivity for health probes.
func (s *Store) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *Store) timestamp() time.Time { return s.now().UTC() }

// InTx runs fn with a Store bound to a single transaction. Nested calls
// reuse the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx {
		return fn(s)
	}
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&Store{db: s.db, q: tx, tx: true, now: s.now})
	})
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Filter narrows list queries. Zero values mean no constraint.
type Filter struct {
	Status string
	Type   string
	Search string
	Page   int
	Limit  int
}

func (f Filter) window() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// PageInfo is returned alongside list results for response metadata.
type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Info builds page metadata for f and total.
func (f Filter) Info(total int64) PageInfo {
	limit, offset := f.window()
	return PageInfo{Page: offset/limit + 1, Limit: limit, Total: total}
}

// where accumulates AND-ed predicates.
type where struct {
	clauses []string
	args    []interface{}
}

func scoped(merchantID int64) *where {
	w := &where{}
	w.add("merchant_id = ?", merchantID)
	return w
}

func (w *where) add(clause string, args ...interface{}) *where {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
	return w
}

func (w *where) eq(col, val string) *where {
	if val != "" {
		w.add(col+" = ?", val)
	}
	return w
}

// search adds a case-insensitive substring match over cols.
func (w *where) search(term string, cols ...string) *where {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return w
	}
	like := "%" + strings.ToLower(term) + "%"
	parts := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		parts[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = like
	}
	return w.add("("+strings.Join(parts, " OR ")+")", args...)
}

func (w *where) String() string {
	if w == nil || len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *where) values() []interface{} {
	if w == nil {
		return nil
	}
	return w.args
}

// observe records query latency and maps driver errors.
func observe(op, table string, start time.Time, err error) error {
	err = database.MapError(err)
	metrics.RecordDBQuery(op, table, time.Since(start), err)
	return err
}

func get(ctx context.Context, q database.Queryer, table string, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := q.GetContext(ctx, dest, q.Rebind(query), args...)
	if err = observe("get", table, start, err); err != nil {
		return fmt.Errorf("%s: %w", table, err)
	}
	return nil
}

func selectAll(ctx context.Context, q database.Queryer, table string, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := q.SelectContext(ctx, dest, q.Rebind(query), args...)
	if err = observe("select", table, start, err); err != nil {
		return fmt.Errorf("list %s: %w", table, err)
	}
	return nil
}

func count(ctx context.Context, q database.Queryer, table string, w *where) (int64, error) {
	var n int64
	err := get(ctx, q, table, &n, "SELECT COUNT(*) FROM "+table+w.String(), w.values()...)
	return n, err
}

// exec runs a write and returns database.ErrNotFound when nothing matched.
func exec(ctx context.Context, q database.Queryer, op, table, query string, args ...interface{}) error {
	start := time.Now()
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err = observe(op, table, start, err); err != nil {
		return fmt.Errorf("%s %s: %w", op, table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s %s: %w", op, table, database.ErrNotFound)
	}
	return nil
}

// insert writes cols and returns the generated id.
func insert(ctx context.Context, q database.Queryer, table string, cols []string, args ...interface{}) (int64, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id", table, strings.Join(cols, ", "), placeholders)

	start := time.Now()
	var id int64
	err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&id)
	if err = observe("insert", table, start, err); err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return id, nil
}

// update sets the given columns plus updated_at on one row matched by w.
func update(ctx context.Context, q database.Queryer, table string, set map[string]interface{}, w *where) error {
	if len(set) == 0 {
		return nil
	}
	cols := make([]string, 0, len(set))
	for c := range set {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	parts := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+len(w.values()))
	for _, c := range cols {
		parts = append(parts, c+" = ?")
		args = append(args, set[c])
	}
	args = append(args, w.values()...)
	return exec(ctx, q, "update", table, "UPDATE "+table+" SET "+strings.Join(parts, ", ")+w.String(), args...)
}

func remove(ctx context.Context, q database.Queryer, table string, w *where) error {
	return exec(ctx, q, "delete", table, "DELETE FROM "+table+w.String(), w.values()...)
}

// page runs the count and the windowed select for a single table.
func page[T any](ctx context.Context, q database.Queryer, table string, w *where, order string, f Filter) ([]T, int64, error) {
	total, err := count(ctx, q, table, w)
	if err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	items := make([]T, 0)
	query := fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s LIMIT %d OFFSET %d", table, w.String(), order, limit, offset)
	if err := selectAll(ctx, q, table, &items, query, w.values()...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func byID[T any](ctx context.Context, q database.Queryer, table string, w *where) (*T, error) {
	var out T
	if err := get(ctx, q, table, &out, "SELECT * FROM "+table+w.String(), w.values()...); err != nil {
		return nil, err
	}
	return &out, nil
}

func one(id, merchantID int64) *where {
	return scoped(merchantID).add("id = ?", id)
}
