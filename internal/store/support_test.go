// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/models"
)

func TestTicketConversation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := seedMerchant(t, s, "help@shop.ng")
	other := seedMerchant(t, s, "other@shop.ng")

	ticket := &models.SupportTicket{MerchantID: &m.ID, Subject: "Payout delayed"}
	first := &models.TicketMessage{SenderType: models.SenderMerchant, SenderID: &m.ID, Message: "Where is my payout?"}
	if err := s.CreateTicket(ctx, ticket, first); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(ticket.TicketRef, "TKT-") || len(ticket.TicketRef) != 12 {
		t.Errorf("TicketRef = %q", ticket.TicketRef)
	}
	if ticket.Status != models.TicketOpen || ticket.Priority != "medium" || ticket.Category != "Others" {
		t.Errorf("ticket defaults = %+v", ticket)
	}

	if _, err := s.GetTicket(ctx, ticket.TicketRef, &other.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("foreign GetTicket = %v, want ErrNotFound", err)
	}

	got, err := s.GetTicket(ctx, ticket.TicketRef, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.BusinessName != m.BusinessName || len(got.Messages) != 1 {
		t.Errorf("GetTicket() = %+v", got)
	}

	steps := []struct {
		sender string
		want   string
	}{
		{models.SenderAdmin, models.TicketPending},
		{models.SenderAdmin, models.TicketPending},
		{models.SenderMerchant, models.TicketOpen},
	}
	for i, step := range steps {
		msg := &models.TicketMessage{SenderType: step.sender, Message: "reply", AttachmentURL: "https://files/x.png"}
		if err := s.AddTicketMessage(ctx, got, msg); err != nil {
			t.Fatal(err)
		}
		if got.Status != step.want {
			t.Errorf("step %d: status = %q, want %q", i, got.Status, step.want)
		}
		if !msg.HasAttachment {
			t.Errorf("step %d: attachment flag not set", i)
		}
	}

	if err := s.SetTicketStatus(ctx, ticket.TicketRef, models.TicketClosed); err != nil {
		t.Fatal(err)
	}
	closed, _ := s.GetTicket(ctx, ticket.TicketRef, &m.ID)
	if err := s.AddTicketMessage(ctx, closed, &models.TicketMessage{SenderType: models.SenderMerchant, Message: "hello?"}); err != nil {
		t.Fatal(err)
	}
	if closed.Status != models.TicketClosed || len(closed.Messages) != 5 {
		t.Errorf("closed ticket = %s with %d messages", closed.Status, len(closed.Messages))
	}

	counts, err := s.TicketCounts(ctx)
	if err != nil || counts.Closed != 1 || counts.Open != 0 {
		t.Errorf("TicketCounts() = %+v, %v", counts, err)
	}

	items, total, err := s.ListTickets(ctx, TicketFilter{MerchantID: &m.ID})
	if err != nil || total != 1 || items[0].TicketRef != ticket.TicketRef {
		t.Errorf("ListTickets(merchant) = %d, %v", total, err)
	}
	if _, total, _ := s.ListTickets(ctx, TicketFilter{MerchantID: &other.ID}); total != 0 {
		t.Errorf("other merchant sees %d tickets", total)
	}
}

func TestFAQsAndAnnouncements(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, f := range []*models.FAQ{
		{Question: "How do I withdraw?", Answer: "From the wallet page.", Category: "Wallet"},
		{Question: "How do I add agents?", Answer: "Agents menu."},
	} {
		if err := s.CreateFAQ(ctx, f); err != nil {
			t.Fatal(err)
		}
	}
	faqs, err := s.ListFAQs(ctx, true)
	if err != nil || len(faqs) != 2 || faqs[0].Category != "General" {
		t.Errorf("ListFAQs() = %+v, %v", faqs, err)
	}
	if err := s.DeleteFAQ(ctx, faqs[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteFAQ(ctx, faqs[0].ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("second delete = %v", err)
	}

	for _, a := range []*models.Announcement{
		{Title: "Maintenance", Content: "Sunday 2am"},
		{Title: "Agents app", Content: "New release", TargetAudience: "agents"},
		{Title: "Merchants", Content: "New plans", TargetAudience: "merchants"},
	} {
		if err := s.CreateAnnouncement(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	merchants, err := s.ListAnnouncements(ctx, "merchants")
	if err != nil {
		t.Fatal(err)
	}
	if len(merchants) != 2 || merchants[0].Title != "Merchants" {
		t.Errorf("ListAnnouncements(merchants) = %+v", merchants)
	}
	all, _ := s.ListAnnouncements(ctx, "")
	if len(all) != 3 {
		t.Errorf("ListAnnouncements(\"\") = %d", len(all))
	}
}
