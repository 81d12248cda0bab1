package smtp

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-registration-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer() *mailer {
	return NewMailer(&config.Config{
		SMTPHost: "localhost",
		SMTPPort: 1025,
		SMTPFrom: "noreply@example.com",
	}).(*mailer)
}

func TestMessage_Headers(t *testing.T) {
	msg := newTestMailer().message("a@x.com", "Verify Your Email", "Your OTP for verification is: 123456")

	assert.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"a@x.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Verify Your Email"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Your OTP for verification is: 123456")
	assert.Contains(t, buf.String(), "text/plain")
}

func TestSendEmail_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newTestMailer().SendEmail(ctx, "a@x.com", "s", "b")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSendEmail_NoRecipient(t *testing.T) {
	err := newTestMailer().SendEmail(context.Background(), "", "s", "b")
	assert.ErrorContains(t, err, "no recipient")
}
