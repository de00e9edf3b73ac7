// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package models

import "time"

type SupportTicket struct {
	ID           int64           `db:"id" json:"id"`
	TicketRef    string          `db:"ticket_ref" json:"ticketId"`
	MerchantID   *int64          `db:"merchant_id" json:"merchantId,omitempty"`
	BusinessName string          `db:"business_name" json:"businessName,omitempty"`
	Subject      string          `db:"subject" json:"subject"`
	Category     string          `db:"category" json:"category"`
	Priority     string          `db:"priority" json:"priority"`
	Status       string          `db:"status" json:"status"`
	Messages     []TicketMessage `db:"-" json:"messages,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
}

type TicketMessage struct {
	ID            int64     `db:"id" json:"id"`
	TicketID      int64     `db:"ticket_id" json:"ticketId"`
	SenderType    string    `db:"sender_type" json:"senderType"`
	SenderID      *int64    `db:"sender_id" json:"senderId,omitempty"`
	Message       string    `db:"message" json:"message"`
	HasAttachment bool      `db:"has_attachment" json:"hasAttachment"`
	AttachmentURL string    `db:"attachment_url" json:"attachmentUrl,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

type FAQ struct {
	ID        int64     `db:"id" json:"id"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	Category  string    `db:"category" json:"category"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type Announcement struct {
	ID             int64     `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Content        string    `db:"content" json:"content"`
	IsActive       bool      `db:"is_active" json:"isActive"`
	TargetAudience string    `db:"target_audience" json:"targetAudience"`
	CreatedBy      *int64    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
