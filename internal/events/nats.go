// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/alphaweb/internal/config"
)

const natsQueueGroup = "alphaweb"

// natsTransport connects to an external NATS server over core NATS. Each
// handler gets its own subscriber in queue group "alphaweb.<handler>", so every
// handler sees each event once across all API instances.
func natsTransport(cfg config.EventsConfig, logger watermill.LoggerAdapter) (message.Publisher, func(string) (message.Subscriber, error), error) {
	if cfg.NATSURL == "" {
		return nil, nil, fmt.Errorf("events.nats_url is required for the nats backend")
	}
	opts := []natsgo.Option{
		natsgo.Name("alphaweb"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
	marshaler := &wmNats.NATSMarshaler{}
	jetStream := wmNats.JetStreamConfig{Disabled: true}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: opts,
		Marshaler:   marshaler,
		JetStream:   jetStream,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create nats publisher: %w", err)
	}

	subscriberFor := func(handler string) (message.Subscriber, error) {
		sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
			URL:              cfg.NATSURL,
			QueueGroupPrefix: natsQueueGroup + "." + handler,
			SubscribersCount: 1,
			AckWaitTimeout:   30 * time.Second,
			CloseTimeout:     10 * time.Second,
			NatsOptions:      opts,
			Unmarshaler:      marshaler,
			JetStream:        jetStream,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create nats subscriber: %w", err)
		}
		return sub, nil
	}
	return pub, subscriberFor, nil
}
