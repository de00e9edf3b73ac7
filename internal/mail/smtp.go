// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/metrics"
)

// implicitTLSPort is the SMTPS submission port where TLS starts before the
// greeting.
const implicitTLSPort = 465

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	cfg     config.MailConfig
	timeout time.Duration
	now     func() time.Time
}

func NewSMTPMailer(cfg *config.MailConfig) *SMTPMailer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPMailer{cfg: *cfg, timeout: timeout, now: time.Now}
}

// Send renders and delivers msg.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := validateRecipient(msg.To); err != nil {
		metrics.RecordMail(msg.Template, err)
		return err
	}
	err := m.send(ctx, msg.To, m.buildMessage(msg))
	metrics.RecordMail(msg.Template, err)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Str("to", logging.MaskEmail(msg.To)).
			Str("template", msg.Template).
			Str("error", logging.ScrubError(err.Error())).
			Msg("Mail delivery failed")
		return err
	}
	logging.Ctx(ctx).Debug().
		Str("to", logging.MaskEmail(msg.To)).
		Str("template", msg.Template).
		Msg("Mail delivered")
	return nil
}

func (m *SMTPMailer) buildMessage(msg Message) string {
	var b strings.Builder

	fromName := m.cfg.FromName
	if fromName == "" {
		fromName = "Alphaweb"
	}
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), m.cfg.Host)
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTML != "" && msg.Text != "":
		boundary := "alphaweb_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n", boundary)
		b.WriteString(msg.Text)
		fmt.Fprintf(&b, "\r\n--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n", boundary)
		b.WriteString(msg.HTML)
		fmt.Fprintf(&b, "\r\n--%s--\r\n", boundary)
	case msg.HTML != "":
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.HTML)
	default:
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.Text)
	}
	return b.String()
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

func (m *SMTPMailer) send(ctx context.Context, to, body string) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	dialer := &net.Dialer{Timeout: m.timeout}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	tlsConfig := &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}
	implicit := m.cfg.UseTLS && m.cfg.Port == implicitTLSPort
	if implicit {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if m.cfg.UseTLS && !implicit {
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}
	// The message is accepted once DATA closes.
	_ = client.Quit()
	return nil
}
