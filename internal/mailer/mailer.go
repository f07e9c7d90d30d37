// Package mailer is the outbound mail collaborator. Delivery is
// best-effort: callers dispatch in a goroutine and log failures instead
// of surfacing them to the client.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

type Mailer interface {
	Send(ctx context.Context, subject, body, recipient string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

func NewSMTPMailer(host string, port int, from string) *SMTPMailer {
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, subject, body, recipient string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, recipient, subject, body)
	if err := smtp.SendMail(m.addr, nil, m.from, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}
	return nil
}

// LogMailer writes mail to the log instead of delivering it. Used in
// development when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, subject, body, recipient string) error {
	m.logger.Info("outbound mail",
		"recipient", recipient,
		"subject", subject,
		"body", body,
	)
	return nil
}
