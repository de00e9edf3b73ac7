// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/metrics"
	"github.com/tomtom215/alphaweb/internal/wal"
)

// ErrClosed is returned when publishing after Shutdown.
var ErrClosed = errors.New("event bus is closed")

// HandlerFunc processes one message. A returned error triggers a retry.
type HandlerFunc func(ctx context.Context, msg *message.Message) error

// Publisher is the publishing side of the bus, for consumers that only emit.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// Bus publishes domain events and dispatches them to subscribers.
type Bus struct {
	pub    message.Publisher
	router *message.Router
	logger watermill.LoggerAdapter

	// subscriberFor returns the subscriber a named handler consumes from.
	subscriberFor func(handler string) (message.Subscriber, error)
	closers       []message.Subscriber

	// journal, when set, holds each event until the transport accepts it.
	journal *wal.WAL

	mu      sync.Mutex
	running bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New builds a bus for the configured backend: "memory" (default, a Watermill
// gochannel) or "nats".
func New(cfg config.EventsConfig) (*Bus, error) {
	logger := watermill.NewSlogLogger(logging.NewSlogLogger())
	switch cfg.Backend {
	case "", "memory", "gochannel":
		return NewInProcess(cfg.BufferSize, logger)
	case "nats":
		pub, subFor, err := natsTransport(cfg, logger)
		if err != nil {
			return nil, err
		}
		return newBus(pub, subFor, logger)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// NewInProcess builds a bus over a Watermill gochannel. A nil logger
// discards Watermill's own logs.
func NewInProcess(buffer int64, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if buffer <= 0 {
		buffer = 256
	}
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: buffer}, logger)
	return newBus(ch, func(string) (message.Subscriber, error) { return ch, nil }, logger)
}

func newBus(pub message.Publisher, subFor func(string) (message.Subscriber, error), logger watermill.LoggerAdapter) (*Bus, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, logger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}
	retry := middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
		Logger:          logger,
	}
	b := &Bus{pub: pub, router: router, logger: logger, subscriberFor: subFor}
	router.AddMiddleware(b.dropFailed, middleware.Recoverer, retry.Middleware)
	return b, nil
}

// dropFailed acks messages whose handler still fails after retries so a
// poison message is not redelivered forever.
func (b *Bus) dropFailed(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		out, err := h(msg)
		if err != nil {
			b.logger.Error("Event handler failed, message dropped", err, watermill.LogFields{
				"topic":        msg.Metadata.Get(metaTopic),
				"message_uuid": msg.UUID,
			})
			return nil, nil
		}
		return out, nil
	}
}

// Subscribe registers h for topic under a unique handler name. Handlers must
// be registered before Start. Errors that survive the retries are logged and
// the message is dropped.
func (b *Bus) Subscribe(name, topic string, h HandlerFunc) error {
	sub, err := b.subscriberFor(name)
	if err != nil {
		return fmt.Errorf("subscriber for %s: %w", name, err)
	}
	if any(sub) != any(b.pub) {
		b.closers = append(b.closers, sub)
	}
	b.router.AddConsumerHandler(name, topic, sub, func(msg *message.Message) error {
		ctx := msg.Context()
		if id := msg.Metadata.Get(metaRequestID); id != "" {
			ctx = logging.ContextWithRequestID(ctx, id)
		}
		err := h(ctx, msg)
		metrics.RecordEventHandled(name, err)
		return err
	})
	return nil
}

// Publish marshals payload and sends it on topic. With a WAL attached the
// event is journaled first; a transport failure is then logged and left to
// the retry loop instead of being returned.
func (b *Bus) Publish(ctx context.Context, topic string, payload interface{}) error {
	b.mu.Lock()
	closed, journal := b.closed, b.journal
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	meta := map[string]string{metaOccurredAt: time.Now().UTC().Format(time.RFC3339Nano)}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		meta[metaRequestID] = id
	}

	if journal == nil {
		return b.send(uuid.NewString(), topic, data, meta)
	}

	id, err := journal.Write(ctx, topic, data, meta)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("Event WAL write failed, publishing directly")
		return b.send(uuid.NewString(), topic, data, meta)
	}
	if err := b.send(id, topic, data, meta); err != nil {
		journal.Release(id)
		logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Str("entry_id", id).Msg("Event publish failed, queued for retry")
		return nil
	}
	if err := journal.Confirm(ctx, id); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("entry_id", id).Msg("Event WAL confirm failed")
	}
	return nil
}

// PublishEntry re-sends a journaled event under its original UUID.
func (b *Bus) PublishEntry(_ context.Context, e *wal.Entry) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return b.send(e.ID, e.Topic, e.Payload, e.Metadata)
}

func (b *Bus) send(id, topic string, data []byte, meta map[string]string) error {
	msg := message.NewMessage(id, data)
	for k, v := range meta {
		msg.Metadata.Set(k, v)
	}
	msg.Metadata.Set(metaTopic, topic)

	err := b.pub.Publish(topic, msg)
	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// SetWAL attaches a write-ahead log. Call before the first Publish.
func (b *Bus) SetWAL(w *wal.WAL) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.journal = w
}

// Start runs the router in the background and returns once it is consuming.
func (b *Bus) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running || b.closed {
		b.mu.Unlock()
		return fmt.Errorf("event bus already started or closed")
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b.cancel = cancel
	b.done = make(chan struct{})
	b.running = true
	b.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		defer close(b.done)
		if err := b.router.Run(runCtx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-b.router.Running():
		logging.Info().Msg("Event bus started")
		return nil
	case err := <-errCh:
		return fmt.Errorf("run event router: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the router and closes the transport.
func (b *Bus) Shutdown(ctx context.Context) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	running, cancel, done := b.running, b.cancel, b.done
	b.running = false
	b.mu.Unlock()

	if err := b.router.Close(); err != nil {
		logging.Warn().Err(err).Msg("Event router close failed")
	}
	if running {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			logging.Warn().Msg("Event router did not stop before shutdown deadline")
		}
	}
	if err := b.pub.Close(); err != nil {
		logging.Warn().Err(err).Msg("Event publisher close failed")
	}
	for _, sub := range b.closers {
		if err := sub.Close(); err != nil {
			logging.Warn().Err(err).Msg("Event subscriber close failed")
		}
	}
}

// IsRunning reports whether the router is consuming.
func (b *Bus) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}
