// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/alphaweb/internal/models"
)

const (
	TopicMerchantRegistered = "merchant.registered"
	TopicCustomerCreated    = "customer.created"
	TopicAdminAction        = "admin.action"
	TopicLoginFailed        = "auth.login_failed"
)

// Topics lists every topic the bus knows about.
var Topics = []string{TopicMerchantRegistered, TopicCustomerCreated, TopicAdminAction, TopicLoginFailed}

// Metadata keys set on every message.
const (
	metaTopic      = "topic"
	metaRequestID  = "request_id"
	metaOccurredAt = "occurred_at"
)

type MerchantRegistered struct {
	MerchantID   int64  `json:"merchantId"`
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
}

// CustomerCreated is published after a customer and its wallet are stored.
type CustomerCreated struct {
	MerchantID  int64  `json:"merchantId"`
	CustomerID  int64  `json:"customerId"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Reference   string `json:"reference"`
	CreatedByID int64  `json:"createdById"`
	CreatedBy   string `json:"createdBy"`
}

// AdminAction wraps a stored admin log entry.
type AdminAction struct {
	Log models.AdminLog `json:"log"`
}

// LoginFailed is published for every rejected login. MerchantID is set when
// the account exists and belongs to a tenant.
type LoginFailed struct {
	Kind       string    `json:"kind"`
	Email      string    `json:"email"`
	MerchantID int64     `json:"merchantId,omitempty"`
	Reason     string    `json:"reason"`
	IPAddress  string    `json:"ipAddress"`
	At         time.Time `json:"at"`
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("decode %s payload: %w", msg.Metadata.Get(metaTopic), err)
	}
	return v, nil
}
