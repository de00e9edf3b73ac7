// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package mail

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/alphaweb/internal/config"
)

// fakeSMTP accepts a single message and hands the DATA payload to the test.
func fakeSMTP(t *testing.T) (host string, port int, data <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 localhost ESMTP test")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.Fields(line + " x")[0])
			switch cmd {
			case "EHLO", "HELO":
				_ = tp.PrintfLine("250-localhost")
				_ = tp.PrintfLine("250 OK")
			case "MAIL", "RCPT", "RSET", "NOOP":
				_ = tp.PrintfLine("250 OK")
			case "DATA":
				_ = tp.PrintfLine("354 go ahead")
				body, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				out <- string(body)
				_ = tp.PrintfLine("250 queued")
			case "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("502 unknown")
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port, out
}

func TestSMTPMailerSend(t *testing.T) {
	host, port, data := fakeSMTP(t)
	m := NewSMTPMailer(&config.MailConfig{
		Enabled:  true,
		Host:     host,
		Port:     port,
		From:     "no-reply@alphaweb.test",
		FromName: "Alphaweb",
		Timeout:  5 * time.Second,
	})

	msg := OTPMessage("owner@shop.ng", "123456", 10*time.Minute)
	if err := m.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case body := <-data:
		for _, want := range []string{
			"From: Alphaweb <no-reply@alphaweb.test>",
			"To: owner@shop.ng",
			"Subject: Your OTP Code",
			"multipart/alternative",
			"Your OTP is: 123456. It will expire in 10 minutes.",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("message missing %q", want)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not receive message")
	}
}

func TestSMTPMailerConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	m := NewSMTPMailer(&config.MailConfig{Host: "127.0.0.1", Port: port, From: "a@b.co", Timeout: time.Second})
	err = m.Send(context.Background(), OTPMessage("x@y.co", "1", time.Minute))
	if err == nil || !strings.Contains(err.Error(), "connect") {
		t.Errorf("Send() error = %v, want connect failure", err)
	}
}

func TestLogMailer(t *testing.T) {
	m := NewLogMailer()
	ctx := context.Background()

	if err := m.Send(ctx, Message{To: "not an address"}); !errors.Is(err, ErrInvalidRecipient) {
		t.Errorf("invalid recipient = %v", err)
	}
	if err := m.Send(ctx, Message{To: "a@b.co\r\nBcc: evil@x.co"}); !errors.Is(err, ErrInvalidRecipient) {
		t.Errorf("header injection = %v", err)
	}

	if err := m.Send(ctx, StaffInviteMessage("staff@alphaweb.ng", "Ada", "Support", "Temp#123")); err != nil {
		t.Fatal(err)
	}
	got, ok := m.Last("STAFF@alphaweb.ng")
	if !ok {
		t.Fatal("Last() found nothing")
	}
	if got.Template != TemplateStaffInvite || !strings.Contains(got.Text, "Temp#123") {
		t.Errorf("unexpected message %+v", got)
	}
	if len(m.Sent()) != 1 {
		t.Errorf("Sent() len = %d", len(m.Sent()))
	}
}

func TestNewSelectsImplementation(t *testing.T) {
	if _, ok := New(&config.MailConfig{}).(*LogMailer); !ok {
		t.Error("disabled mail should log")
	}
	if _, ok := New(&config.MailConfig{Enabled: true, Host: "smtp"}).(*SMTPMailer); !ok {
		t.Error("enabled mail should use SMTP")
	}
}

func TestTemplates(t *testing.T) {
	otp := OTPMessage("a@b.co", "654321", 30*time.Second)
	if otp.Text != "Your OTP is: 654321. It will expire in 1 minutes." {
		t.Errorf("otp text = %q", otp.Text)
	}

	reply := TicketReplyMessage("a@b.co", "TCK-1", "Payout delay", "<b>fixed</b>")
	if !strings.Contains(reply.Subject, "TCK-1") {
		t.Errorf("subject = %q", reply.Subject)
	}
	if strings.Contains(reply.HTML, "<b>fixed</b>") {
		t.Error("html body must escape reply text")
	}
}
