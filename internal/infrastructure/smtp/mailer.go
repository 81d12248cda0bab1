package smtp

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/go-registration-api/internal/config"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type mailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		from:   cfg.SMTPFrom,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// SendEmail delivers a plain-text message. gomail has no context support, so
// ctx is only checked before dialing.
func (m *mailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == "" {
		return fmt.Errorf("no recipient specified")
	}
	return m.dialer.DialAndSend(m.message(to, subject, body))
}

func (m *mailer) message(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}
