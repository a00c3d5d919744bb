// Package notify delivers candidate confirmations. Delivery is best effort:
// callers log failures and carry on.
package notify

import (
	"context"
	"fmt"

	"github.com/diewo77/talentos/i18n"
	"github.com/diewo77/talentos/internal/config"
	"gopkg.in/gomail.v2"
)

// Notifier sends a plain text message to one recipient.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Nop discards every message.
type Nop struct{}

func (Nop) Send(context.Context, string, string, string) error { return nil }

// SMTP sends mail through a relay.
type SMTP struct {
	from   string
	dialer *gomail.Dialer
}

// NewSMTP builds an SMTP notifier from configuration.
func NewSMTP(cfg config.MailConfig) *SMTP {
	return &SMTP{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// New returns an SMTP notifier when mail is configured and Nop otherwise.
func New(cfg config.MailConfig) Notifier {
	if !cfg.Enabled() {
		return Nop{}
	}
	return NewSMTP(cfg)
}

func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// Confirmation renders the message sent after a successful application.
func Confirmation(lang, candidate, posting string) (subject, body string) {
	args := map[string]string{"name": candidate, "posting": posting}
	return i18n.Format(lang, "mail_subject", args), i18n.Format(lang, "mail_body", args)
}
