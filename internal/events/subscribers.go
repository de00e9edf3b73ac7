// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/transactpay"
)

// AccountCreator opens provider virtual accounts.
type AccountCreator interface {
	CreateVirtualAccount(ctx context.Context, d transactpay.CustomerDetails) (*transactpay.VirtualAccount, error)
}

// VirtualAccountStore records a provisioned account on the customer.
type VirtualAccountStore interface {
	SetVirtualAccount(ctx context.Context, merchantID, customerID int64, number, bank string) error
}

// Broadcaster pushes messages to connected live-feed clients.
type Broadcaster interface {
	BroadcastJSON(messageType string, data interface{})
}

// ActivityRecorder appends to the activity feed.
type ActivityRecorder interface {
	Activity(ctx context.Context, a models.Activity)
}

// Live feed message types.
const (
	FeedAdminAction = "admin_action"
	FeedLoginFailed = "login_failed"
)

// ProvisionVirtualAccounts requests a TransactPay account for each new
// customer. Provider failures are logged and the event is acknowledged;
// only a failure to store the account is retried.
func ProvisionVirtualAccounts(client AccountCreator, store VirtualAccountStore) HandlerFunc {
	return func(ctx context.Context, msg *message.Message) error {
		ev, err := Decode[CustomerCreated](msg)
		if err != nil {
			return err
		}
		log := logging.Ctx(ctx).With().Int64("merchant_id", ev.MerchantID).Int64("customer_id", ev.CustomerID).Logger()

		acct, err := client.CreateVirtualAccount(ctx, transactpay.CustomerDetails{
			FullName: ev.FullName,
			Email:    ev.Email,
			Phone:    ev.Phone,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Virtual account provisioning failed")
			return nil
		}
		if acct.AccountNumber == "" {
			log.Info().Str("reference", acct.Reference).Msg("Virtual account requested; provider returned no account number")
			return nil
		}
		if err := store.SetVirtualAccount(ctx, ev.MerchantID, ev.CustomerID, acct.AccountNumber, acct.BankName); err != nil {
			return fmt.Errorf("store virtual account: %w", err)
		}
		log.Info().Str("bank", acct.BankName).Msg("Virtual account provisioned")
		return nil
	}
}

// BroadcastAdminActions forwards admin log entries to the live feed.
func BroadcastAdminActions(b Broadcaster) HandlerFunc {
	return func(_ context.Context, msg *message.Message) error {
		ev, err := Decode[AdminAction](msg)
		if err != nil {
			return err
		}
		b.BroadcastJSON(FeedAdminAction, ev.Log)
		return nil
	}
}

// RecordMerchantSignups adds a feed entry for each registration.
func RecordMerchantSignups(rec ActivityRecorder) HandlerFunc {
	return func(ctx context.Context, msg *message.Message) error {
		ev, err := Decode[MerchantRegistered](msg)
		if err != nil {
			return err
		}
		id := ev.MerchantID
		rec.Activity(ctx, models.Activity{
			MerchantID: &id,
			Person:     models.PersonMerchant,
			Action:     "Merchant registered",
			Details:    ev.BusinessName + " signed up",
		})
		return nil
	}
}

// RecordCustomerCreations adds a feed entry naming who created the customer.
func RecordCustomerCreations(rec ActivityRecorder) HandlerFunc {
	return func(ctx context.Context, msg *message.Message) error {
		ev, err := Decode[CustomerCreated](msg)
		if err != nil {
			return err
		}
		merchantID := ev.MerchantID
		a := models.Activity{
			MerchantID: &merchantID,
			Person:     models.PersonMerchant,
			Action:     "Customer created",
			Details:    fmt.Sprintf("%s (%s) was added", ev.FullName, ev.Reference),
		}
		by := ev.CreatedByID
		switch ev.CreatedBy {
		case models.PersonAgent:
			a.Person = models.PersonAgent
			if by != 0 {
				a.AgentID = &by
			}
		case models.PersonStaff, "collaborator":
			a.Person = models.PersonStaff
			if by != 0 {
				a.StaffID = &by
			}
		}
		rec.Activity(ctx, a)
		return nil
	}
}

// RecordLoginFailures adds tenant login failures to the activity feed and
// pushes every failure to the live feed.
func RecordLoginFailures(rec ActivityRecorder, b Broadcaster) HandlerFunc {
	return func(ctx context.Context, msg *message.Message) error {
		ev, err := Decode[LoginFailed](msg)
		if err != nil {
			return err
		}
		masked := logging.MaskEmail(ev.Email)
		if b != nil {
			b.BroadcastJSON(FeedLoginFailed, map[string]interface{}{
				"kind":      ev.Kind,
				"email":     masked,
				"reason":    ev.Reason,
				"ipAddress": ev.IPAddress,
				"at":        ev.At,
			})
		}
		if ev.MerchantID == 0 {
			return nil
		}
		merchantID := ev.MerchantID
		person := models.PersonMerchant
		if ev.Kind == "collaborator" {
			person = models.PersonStaff
		}
		rec.Activity(ctx, models.Activity{
			MerchantID: &merchantID,
			Person:     person,
			Action:     "Failed login",
			Details:    fmt.Sprintf("%s from %s: %s", masked, ev.IPAddress, ev.Reason),
		})
		return nil
	}
}

// AuditNotifier publishes stored admin logs on the bus.
type AuditNotifier struct {
	Bus Publisher
}

func (n AuditNotifier) AdminActionRecorded(ctx context.Context, log models.AdminLog) {
	if err := n.Bus.Publish(ctx, TopicAdminAction, AdminAction{Log: log}); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("admin_log_id", log.ID).Msg("Admin action event not published")
	}
}

// Subscribers holds the collaborators for Wire. Nil fields skip their handlers.
type Subscribers struct {
	Accounts  AccountCreator
	Customers VirtualAccountStore
	Feed      Broadcaster
	Activity  ActivityRecorder
}

// Wire registers every configured subscriber on bus.
func Wire(bus *Bus, s Subscribers) error {
	type sub struct {
		name, topic string
		h           HandlerFunc
	}
	var subs []sub
	if s.Accounts != nil && s.Customers != nil {
		subs = append(subs, sub{"provision-virtual-account", TopicCustomerCreated, ProvisionVirtualAccounts(s.Accounts, s.Customers)})
	}
	if s.Feed != nil {
		subs = append(subs, sub{"broadcast-admin-action", TopicAdminAction, BroadcastAdminActions(s.Feed)})
	}
	if s.Activity != nil {
		subs = append(subs,
			sub{"activity-merchant-registered", TopicMerchantRegistered, RecordMerchantSignups(s.Activity)},
			sub{"activity-customer-created", TopicCustomerCreated, RecordCustomerCreations(s.Activity)},
			sub{"activity-login-failed", TopicLoginFailed, RecordLoginFailures(s.Activity, s.Feed)},
		)
	}
	for _, x := range subs {
		if err := bus.Subscribe(x.name, x.topic, x.h); err != nil {
			return err
		}
	}
	return nil
}
