package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/agenda-cultural/agenda-api/pkg/config"
)

// Sender delivers a single email message.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTP builds a mailer from the SMTP configuration.
func NewSMTP(cfg config.SMTPConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

// Send delivers one HTML message to a single recipient.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := email.NewEmail()
	msg.From = m.from
	msg.To = []string{to}
	msg.Subject = subject
	msg.HTML = []byte(htmlBody)

	if err := msg.Send(m.addr, m.auth); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
