// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Template names, also used as the metrics label.
const (
	TemplateOTP         = "otp"
	TemplateStaffInvite = "staff_invite"
	TemplateTicketReply = "ticket_reply"
)

var htmlTemplates = template.Must(template.New("mail").Parse(`
{{define "otp"}}<p>Your OTP is: <strong>{{.Code}}</strong>. It will expire in {{.Minutes}} minutes.</p>
<p>If you did not request this code you can ignore this email.</p>{{end}}
{{define "staff_invite"}}<p>Hello {{.Name}},</p>
<p>You have been added to the Alphaweb admin console as <strong>{{.Role}}</strong>.</p>
<p>Sign in with this email address and the temporary password below, then change it.</p>
<p><code>{{.Password}}</code></p>{{end}}
{{define "ticket_reply"}}<p>Support replied to ticket <strong>{{.Ref}}</strong> ({{.Subject}}):</p>
<blockquote>{{.Message}}</blockquote>{{end}}
`))

func render(name string, data interface{}) string {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return ""
	}
	return buf.String()
}

func minutes(ttl time.Duration) int {
	m := int(ttl / time.Minute)
	if m < 1 {
		m = 1
	}
	return m
}

// OTPMessage renders the verification and password reset code email.
func OTPMessage(to, code string, ttl time.Duration) Message {
	mins := minutes(ttl)
	return Message{
		To:       to,
		Subject:  "Your OTP Code",
		Text:     fmt.Sprintf("Your OTP is: %s. It will expire in %d minutes.", code, mins),
		HTML:     render(TemplateOTP, map[string]interface{}{"Code": code, "Minutes": mins}),
		Template: TemplateOTP,
	}
}

// StaffInviteMessage tells a new admin staff member how to sign in.
func StaffInviteMessage(to, name, role, tempPassword string) Message {
	return Message{
		To:      to,
		Subject: "You have been invited to Alphaweb",
		Text: fmt.Sprintf("Hello %s,\n\nYou have been added to the Alphaweb admin console as %s.\n"+
			"Sign in with this email address and the temporary password %s, then change it.\n",
			name, role, tempPassword),
		HTML: render(TemplateStaffInvite, map[string]string{
			"Name": name, "Role": role, "Password": tempPassword,
		}),
		Template: TemplateStaffInvite,
	}
}

// TicketReplyMessage notifies a merchant that support answered a ticket.
func TicketReplyMessage(to, ticketRef, subject, reply string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("[%s] New reply: %s", ticketRef, subject),
		Text:    fmt.Sprintf("Support replied to ticket %s (%s):\n\n%s\n", ticketRef, subject, reply),
		HTML: render(TemplateTicketReply, map[string]string{
			"Ref": ticketRef, "Subject": subject, "Message": reply,
		}),
		Template: TemplateTicketReply,
	}
}
