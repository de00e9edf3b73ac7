// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/alphaweb/internal/models"
)

const ticketSelect = `SELECT t.*, COALESCE(m.business_name, '') AS business_name
	FROM support_tickets t LEFT JOIN merchants m ON m.id = t.merchant_id`

// NewTicketRef returns a short human-friendly ticket reference.
func NewTicketRef() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreateTicket opens a ticket with its first message in one transaction.
func (s *Store) CreateTicket(ctx context.Context, t *models.SupportTicket, first *models.TicketMessage) error {
	return s.InTx(ctx, func(tx *Store) error {
		now := tx.timestamp()
		if t.TicketRef == "" {
			t.TicketRef = NewTicketRef()
		}
		if t.Status == "" {
			t.Status = models.TicketOpen
		}
		if t.Priority == "" {
			t.Priority = "medium"
		}
		if t.Category == "" {
			t.Category = "Others"
		}
		id, err := insert(ctx, tx.q, "support_tickets",
			[]string{"ticket_ref", "merchant_id", "subject", "category", "priority", "status", "created_at", "updated_at"},
			t.TicketRef, t.MerchantID, t.Subject, t.Category, t.Priority, t.Status, now, now)
		if err != nil {
			return err
		}
		t.ID, t.CreatedAt, t.UpdatedAt = id, now, now
		if first == nil {
			return nil
		}
		first.TicketID = id
		if err := tx.insertMessage(ctx, first); err != nil {
			return err
		}
		t.Messages = []models.TicketMessage{*first}
		return nil
	})
}

// TicketFilter narrows ticket lists. MerchantID limits results to one tenant.
type TicketFilter struct {
	Filter
	MerchantID *int64
	Priority   string
	Category   string
}

// ListTickets returns tickets matching f with the merchant name, latest first.
func (s *Store) ListTickets(ctx context.Context, f TicketFilter) ([]models.SupportTicket, int64, error) {
	w := &where{}
	if f.MerchantID != nil {
		w.add("t.merchant_id = ?", *f.MerchantID)
	}
	w.eq("t.status", f.Status).eq("t.priority", f.Priority).eq("t.category", f.Category).
		search(f.Search, "t.subject", "t.ticket_ref", "m.business_name")

	var total int64
	err := get(ctx, s.q, "support_tickets", &total,
		"SELECT COUNT(*) FROM support_tickets t LEFT JOIN merchants m ON m.id = t.merchant_id"+w.String(), w.values()...)
	if err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	items := make([]models.SupportTicket, 0)
	query := fmt.Sprintf("%s%s ORDER BY t.updated_at DESC, t.id DESC LIMIT %d OFFSET %d", ticketSelect, w.String(), limit, offset)
	if err := selectAll(ctx, s.q, "support_tickets", &items, query, w.values()...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetTicket loads a ticket by reference with its messages in order. A
// non-nil merchantID restricts the lookup to that tenant.
func (s *Store) GetTicket(ctx context.Context, ref string, merchantID *int64) (*models.SupportTicket, error) {
	w := &where{}
	w.add("t.ticket_ref = ?", ref)
	if merchantID != nil {
		w.add("t.merchant_id = ?", *merchantID)
	}
	var t models.SupportTicket
	if err := get(ctx, s.q, "support_tickets", &t, ticketSelect+w.String(), w.values()...); err != nil {
		return nil, err
	}
	msgs := make([]models.TicketMessage, 0)
	err := selectAll(ctx, s.q, "ticket_messages", &msgs,
		"SELECT * FROM ticket_messages WHERE ticket_id = ? ORDER BY created_at ASC, id ASC", t.ID)
	if err != nil {
		return nil, err
	}
	t.Messages = msgs
	return &t, nil
}

// AddTicketMessage appends a message and bumps the ticket. Admin replies
// move an open ticket to pending; merchant replies reopen it.
func (s *Store) AddTicketMessage(ctx context.Context, ticket *models.SupportTicket, m *models.TicketMessage) error {
	return s.InTx(ctx, func(tx *Store) error {
		m.TicketID = ticket.ID
		if err := tx.insertMessage(ctx, m); err != nil {
			return err
		}
		status := ticket.Status
		switch m.SenderType {
		case models.SenderAdmin:
			if status == models.TicketOpen {
				status = models.TicketPending
			}
		case models.SenderMerchant:
			if status != models.TicketClosed {
				status = models.TicketOpen
			}
		}
		now := tx.timestamp()
		if err := update(ctx, tx.q, "support_tickets", map[string]interface{}{
			"status": status, "updated_at": now,
		}, (&where{}).add("id = ?", ticket.ID)); err != nil {
			return err
		}
		ticket.Status, ticket.UpdatedAt = status, now
		ticket.Messages = append(ticket.Messages, *m)
		return nil
	})
}

func (s *Store) insertMessage(ctx context.Context, m *models.TicketMessage) error {
	now := s.timestamp()
	m.HasAttachment = m.AttachmentURL != ""
	id, err := insert(ctx, s.q, "ticket_messages",
		[]string{"ticket_id", "sender_type", "sender_id", "message", "has_attachment", "attachment_url", "created_at"},
		m.TicketID, m.SenderType, m.SenderID, m.Message, m.HasAttachment, m.AttachmentURL, now)
	if err != nil {
		return err
	}
	m.ID, m.CreatedAt = id, now
	return nil
}

// SetTicketStatus changes the status of the ticket with this reference.
func (s *Store) SetTicketStatus(ctx context.Context, ref, status string) error {
	return update(ctx, s.q, "support_tickets", map[string]interface{}{
		"status": status, "updated_at": s.timestamp(),
	}, (&where{}).add("ticket_ref = ?", ref))
}

// TicketCounts is the per-status breakdown shown above the ticket list.
type TicketCounts struct {
	Open     int64 `db:"open" json:"open"`
	Pending  int64 `db:"pending" json:"pending"`
	Resolved int64 `db:"resolved" json:"resolved"`
	Closed   int64 `db:"closed" json:"closed"`
}

// TicketCounts returns the ticket totals for each status.
func (s *Store) TicketCounts(ctx context.Context) (*TicketCounts, error) {
	var c TicketCounts
	err := get(ctx, s.q, "support_tickets", &c, `SELECT
		COUNT(CASE WHEN status = 'open' THEN 1 END) AS open,
		COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending,
		COUNT(CASE WHEN status = 'resolved' THEN 1 END) AS resolved,
		COUNT(CASE WHEN status = 'closed' THEN 1 END) AS closed
		FROM support_tickets`)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FAQs

// CreateFAQ inserts a f a q and fills in its id and timestamps.
func (s *Store) CreateFAQ(ctx context.Context, f *models.FAQ) error {
	now := s.timestamp()
	if f.Category == "" {
		f.Category = "General"
	}
	f.IsActive = true
	id, err := insert(ctx, s.q, "faqs",
		[]string{"question", "answer", "category", "is_active", "created_at", "updated_at"},
		f.Question, f.Answer, f.Category, f.IsActive, now, now)
	if err != nil {
		return err
	}
	f.ID, f.CreatedAt, f.UpdatedAt = id, now, now
	return nil
}

// ListFAQs returns FAQs ordered by category. activeOnly hides
// retired entries.
func (s *Store) ListFAQs(ctx context.Context, activeOnly bool) ([]models.FAQ, error) {
	query := "SELECT * FROM faqs"
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	items := make([]models.FAQ, 0)
	err := selectAll(ctx, s.q, "faqs", &items, query+" ORDER BY category ASC, id ASC")
	return items, err
}

// DeleteFAQ removes a f a q.
func (s *Store) DeleteFAQ(ctx context.Context, id int64) error {
	return remove(ctx, s.q, "faqs", (&where{}).add("id = ?", id))
}

// Announcements

// CreateAnnouncement inserts an announcement and fills in its id and timestamps.
func (s *Store) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	now := s.timestamp()
	if a.TargetAudience == "" {
		a.TargetAudience = "all"
	}
	a.IsActive = true
	id, err := insert(ctx, s.q, "announcements",
		[]string{"title", "content", "is_active", "target_audience", "created_by", "created_at", "updated_at"},
		a.Title, a.Content, a.IsActive, a.TargetAudience, a.CreatedBy, now, now)
	if err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

// ListAnnouncements returns announcements newest first. A non-empty
// audience returns active entries for that audience and for "all".
func (s *Store) ListAnnouncements(ctx context.Context, audience string) ([]models.Announcement, error) {
	query := "SELECT * FROM announcements"
	var args []interface{}
	if audience != "" {
		query += " WHERE is_active = TRUE AND target_audience IN ('all', ?)"
		args = append(args, audience)
	}
	items := make([]models.Announcement, 0)
	err := selectAll(ctx, s.q, "announcements", &items, query+" ORDER BY created_at DESC, id DESC", args...)
	return items, err
}

// DeleteAnnouncement removes an announcement.
func (s *Store) DeleteAnnouncement(ctx context.Context, id int64) error {
	return remove(ctx, s.q, "announcements", (&where{}).add("id = ?", id))
}
