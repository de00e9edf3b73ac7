// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/alphaweb/internal/models"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateMerchant inserts m and fills its id and timestamps. The email is
// stored lower-cased; a duplicate yields database.ErrConflict.
func (s *Store) CreateMerchant(ctx context.Context, m *models.Merchant) error {
	now := s.timestamp()
	m.Email = normalizeEmail(m.Email)
	if m.Currency == "" {
		m.Currency = "NGN"
	}
	if m.Status == "" {
		m.Status = models.MerchantActive
	}
	id, err := insert(ctx, s.q, "merchants",
		[]string{"business_name", "business_alias", "email", "phone", "currency", "password_hash",
			"is_verified", "status", "plan_id", "created_at", "updated_at"},
		m.BusinessName, m.BusinessAlias, m.Email, m.Phone, m.Currency, m.PasswordHash,
		m.IsVerified, m.Status, m.PlanID, now, now)
	if err != nil {
		return err
	}
	m.ID, m.CreatedAt, m.UpdatedAt = id, now, now
	return nil
}

// GetMerchant returns one merchant by id.
func (s *Store) GetMerchant(ctx context.Context, id int64) (*models.Merchant, error) {
	return byID[models.Merchant](ctx, s.q, "merchants", (&where{}).add("id = ?", id))
}

// GetMerchantByEmail matches the normalised email.
func (s *Store) GetMerchantByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	return byID[models.Merchant](ctx, s.q, "merchants", (&where{}).add("email = ?", normalizeEmail(email)))
}

// UpdateMerchant writes the editable profile fields of m.
func (s *Store) UpdateMerchant(ctx context.Context, m *models.Merchant) error {
	m.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "merchants", map[string]interface{}{
		"business_name":  m.BusinessName,
		"business_alias": m.BusinessAlias,
		"phone":          m.Phone,
		"currency":       m.Currency,
		"plan_id":        m.PlanID,
		"updated_at":     m.UpdatedAt,
	}, (&where{}).add("id = ?", m.ID))
}

// SetMerchantStatus changes the status of a merchant.
func (s *Store) SetMerchantStatus(ctx context.Context, id int64, status string) error {
	return update(ctx, s.q, "merchants", map[string]interface{}{
		"status": status, "updated_at": s.timestamp(),
	}, (&where{}).add("id = ?", id))
}

// SetMerchantPassword stores a new bcrypt hash.
func (s *Store) SetMerchantPassword(ctx context.Context, id int64, hash string) error {
	return update(ctx, s.q, "merchants", map[string]interface{}{
		"password_hash": hash, "updated_at": s.timestamp(),
	}, (&where{}).add("id = ?", id))
}

// MarkMerchantVerified flags the merchant email as verified.
func (s *Store) MarkMerchantVerified(ctx context.Context, id int64) error {
	return update(ctx, s.q, "merchants", map[string]interface{}{
		"is_verified": true, "updated_at": s.timestamp(),
	}, (&where{}).add("id = ?", id))
}

// DeleteMerchant removes the merchant row. Tenant data is kept for audit.
func (s *Store) DeleteMerchant(ctx context.Context, id int64) error {
	return remove(ctx, s.q, "merchants", (&where{}).add("id = ?", id))
}

const merchantSummarySelect = `SELECT m.*,
	COALESCE(p.name, '') AS plan_name,
	(SELECT COUNT(*) FROM agents a WHERE a.merchant_id = m.id) AS agent_count,
	(SELECT COUNT(*) FROM customers c WHERE c.merchant_id = m.id) AS customer_count
FROM merchants m
LEFT JOIN plans p ON p.id = m.plan_id`

// ListMerchants returns merchants with plan name and agent and customer
// counts, newest first. Search matches business name, alias and email.
func (s *Store) ListMerchants(ctx context.Context, f Filter) ([]models.MerchantSummary, int64, error) {
	w := (&where{}).eq("m.status", f.Status).search(f.Search, "m.business_name", "m.business_alias", "m.email")

	var total int64
	if err := get(ctx, s.q, "merchants", &total, "SELECT COUNT(*) FROM merchants m"+w.String(), w.values()...); err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	items := make([]models.MerchantSummary, 0)
	query := fmt.Sprintf("%s%s ORDER BY m.created_at DESC, m.id DESC LIMIT %d OFFSET %d",
		merchantSummarySelect, w.String(), limit, offset)
	if err := selectAll(ctx, s.q, "merchants", &items, query, w.values()...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// MerchantCounts is the admin dashboard headline.
type MerchantCounts struct {
	Total    int64 `db:"total" json:"totalMerchants"`
	Active   int64 `db:"active" json:"activeMerchants"`
	Inactive int64 `db:"inactive" json:"inactiveMerchants"`
}

// MerchantCounts splits merchants into active and everything else.
func (s *Store) MerchantCounts(ctx context.Context) (MerchantCounts, error) {
	var c MerchantCounts
	err := get(ctx, s.q, "merchants", &c, `SELECT
		COUNT(*) AS total,
		CAST(COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS active,
		CAST(COALESCE(SUM(CASE WHEN status <> ? THEN 1 ELSE 0 END), 0) AS BIGINT) AS inactive
	FROM merchants`, models.MerchantActive, models.MerchantActive)
	return c, err
}

// MerchantSignup is the minimal row used for monthly signup charts.
type MerchantSignup struct {
	CreatedAt time.Time `db:"created_at"`
	Status    string    `db:"status"`
}

// MerchantSignupsSince returns signups created at or after since.
func (s *Store) MerchantSignupsSince(ctx context.Context, since time.Time) ([]MerchantSignup, error) {
	out := make([]MerchantSignup, 0)
	err := selectAll(ctx, s.q, "merchants", &out,
		`SELECT created_at, status FROM merchants WHERE created_at >= ? ORDER BY created_at`, since.UTC())
	return out, err
}

// CreateCollaborator inserts a merchant team login.
func (s *Store) CreateCollaborator(ctx context.Context, c *models.Collaborator) error {
	now := s.timestamp()
	c.Email = normalizeEmail(c.Email)
	id, err := insert(ctx, s.q, "collaborators",
		[]string{"merchant_id", "full_name", "email", "phone", "role", "password_hash", "is_verified", "created_at", "updated_at"},
		c.MerchantID, c.FullName, c.Email, c.Phone, c.Role, c.PasswordHash, c.IsVerified, now, now)
	if err != nil {
		return err
	}
	c.ID, c.CreatedAt, c.UpdatedAt = id, now, now
	return nil
}

// GetCollaboratorByEmail matches the normalised email.
func (s *Store) GetCollaboratorByEmail(ctx context.Context, email string) (*models.Collaborator, error) {
	return byID[models.Collaborator](ctx, s.q, "collaborators", (&where{}).add("email = ?", normalizeEmail(email)))
}

// ListCollaborators returns one page of collaborators matching f and the total count.
func (s *Store) ListCollaborators(ctx context.Context, merchantID int64, f Filter) ([]models.Collaborator, int64, error) {
	w := scoped(merchantID).search(f.Search, "full_name", "email")
	return page[models.Collaborator](ctx, s.q, "collaborators", w, "created_at DESC, id DESC", f)
}

// MarkCollaboratorVerified flags the collaborator email as verified.
func (s *Store) MarkCollaboratorVerified(ctx context.Context, id int64) error {
	return update(ctx, s.q, "collaborators", map[string]interface{}{
		"is_verified": true, "updated_at": s.timestamp(),
	}, (&where{}).add("id = ?", id))
}

// SetCollaboratorPassword stores a new bcrypt hash.
func (s *Store) SetCollaboratorPassword(ctx context.Context, id int64, hash string) error {
	return update(ctx, s.q, "collaborators", map[string]interface{}{
		"password_hash": hash, "updated_at": s.timestamp(),
	}, (&where{}).add("id = ?", id))
}
