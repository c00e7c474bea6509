// Package smtpmailer implements the mailer port over plain SMTP with
// PLAIN auth. Messages go out as multipart/alternative with text and
// HTML bodies so any mail client renders something sensible.
package smtpmailer

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"phantomtrack/internal/core/ports"
	"phantomtrack/internal/pkg/errs"
)

// Mailer sends mail through one SMTP relay.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewMailer creates an SMTP mailer. From is the sender shown to customers
// and defaults to the username when empty.
func NewMailer(host, port, username, password, from string) (*Mailer, error) {
	if host == "" {
		return nil, errs.NewValueIsRequiredError("host")
	}
	if port == "" {
		return nil, errs.NewValueIsRequiredError("port")
	}
	if from == "" {
		from = username
	}

	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}, nil
}

const mimeBoundary = "pt-mail-boundary"

// Send delivers one message. The context is checked before dialing; net/smtp
// does not support mid-send cancellation.
func (m *Mailer) Send(ctx context.Context, mail ports.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mail.To == "" {
		return errs.NewValueIsRequiredError("to")
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{mail.To}, m.message(mail)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func (m *Mailer) message(mail ports.Mail) []byte {
	var sb strings.Builder

	sb.WriteString("From: " + m.from + "\r\n")
	sb.WriteString("To: " + mail.To + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", mail.Subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: multipart/alternative; boundary=" + mimeBoundary + "\r\n")
	sb.WriteString("\r\n")

	sb.WriteString("--" + mimeBoundary + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	sb.WriteString(mail.TextBody)
	sb.WriteString("\r\n")

	sb.WriteString("--" + mimeBoundary + "\r\n")
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	sb.WriteString(mail.HTMLBody)
	sb.WriteString("\r\n")

	sb.WriteString("--" + mimeBoundary + "--\r\n")
	return []byte(sb.String())
}
