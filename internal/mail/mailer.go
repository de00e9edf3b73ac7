// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package mail

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/metrics"
)

// ErrInvalidRecipient is returned when the To address does not parse.
var ErrInvalidRecipient = errors.New("invalid recipient address")

// Message is a rendered email. Template names the message kind for metrics.
type Message struct {
	To       string
	Subject  string
	Text     string
	HTML     string
	Template string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTPMailer when mail is enabled and a LogMailer otherwise.
func New(cfg *config.MailConfig) Mailer {
	if cfg == nil || !cfg.Enabled {
		return NewLogMailer()
	}
	return NewSMTPMailer(cfg)
}

func validateRecipient(to string) error {
	if strings.ContainsAny(to, "\r\n") {
		return ErrInvalidRecipient
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecipient, logging.MaskEmail(to))
	}
	return nil
}

// LogMailer logs messages instead of sending them. It also keeps the last
// messages in memory for inspection.
type LogMailer struct {
	mu   sync.Mutex
	sent []Message
}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

const logMailerKeep = 50

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := validateRecipient(msg.To); err != nil {
		metrics.RecordMail(msg.Template, err)
		return err
	}
	logging.Ctx(ctx).Info().
		Str("to", logging.MaskEmail(msg.To)).
		Str("subject", msg.Subject).
		Str("template", msg.Template).
		Msg("Mail delivery disabled, message logged")

	m.mu.Lock()
	m.sent = append(m.sent, msg)
	if len(m.sent) > logMailerKeep {
		m.sent = m.sent[len(m.sent)-logMailerKeep:]
	}
	m.mu.Unlock()
	metrics.RecordMail(msg.Template, nil)
	return nil
}

// Sent returns a copy of the retained messages, oldest first.
func (m *LogMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// Last returns the most recent message sent to addr.
func (m *LogMailer) Last(addr string) (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if strings.EqualFold(m.sent[i].To, addr) {
			return m.sent[i], true
		}
	}
	return Message{}, false
}
