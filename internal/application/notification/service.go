package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-registration-api/internal/domain"
)

// sendTimeout bounds a single delivery attempt. There are no retries.
const sendTimeout = 10 * time.Second

const (
	subjectVerify = "Verify Your Email"
	subjectResend = "Your New OTP"
)

// Service delivers OTP emails.
type Service interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendNewCode(ctx context.Context, email, code string) error
}

type mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type service struct {
	mailer mailer
}

func NewService(m mailer) Service {
	return &service{mailer: m}
}

func (s *service) SendVerificationCode(ctx context.Context, email, code string) error {
	return s.send(ctx, email, subjectVerify, "Your OTP for verification is: "+code)
}

func (s *service) SendNewCode(ctx context.Context, email, code string) error {
	return s.send(ctx, email, subjectResend, "Your new OTP is: "+code)
}

func (s *service) send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := s.mailer.SendEmail(ctx, to, subject, body); err != nil {
		return fmt.Errorf("send %q to %s: %w: %w", subject, to, domain.ErrTransport, err)
	}
	return nil
}
