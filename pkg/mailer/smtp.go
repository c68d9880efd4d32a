package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/campusworks/fee-reminder-api/pkg/config"
)

// SMTPMailer delivers mail through a plain SMTP relay via gomail.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPMailer builds a mailer from SMTP configuration.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host not configured")
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	if from == "" {
		return nil, fmt.Errorf("smtp sender not configured")
	}

	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     from,
		fromName: cfg.FromName,
	}, nil
}

// Send dispatches a single rendered message. gomail has no context
// support, so cancellation is checked before dialing only.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("recipient is required")
	}

	mail := gomail.NewMessage()
	mail.SetAddressHeader("From", m.from, m.fromName)
	mail.SetAddressHeader("To", msg.To, msg.ToName)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/html", msg.HTMLBody)

	if err := m.dialer.DialAndSend(mail); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	return nil
}
