package mailgun

import (
	"context"

	mg "github.com/mailgun/mailgun-go/v4"

	"github.com/go-registration-api/internal/config"
)

// Mailer sends plain-text email through the Mailgun HTTP API.
type Mailer struct {
	client *mg.MailgunImpl
	sender string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		client: mg.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey),
		sender: cfg.MailgunSender,
	}
}

func (m *Mailer) SendEmail(ctx context.Context, to, subject, body string) error {
	msg := m.client.NewMessage(m.sender, subject, body, to)
	_, _, err := m.client.Send(ctx, msg)
	return err
}
