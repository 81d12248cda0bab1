package http

import (
	"context"
	"time"

	"github.com/go-registration-api/internal/domain"
)

// ProfileRepository is the store contract the router requires. Both the
// DynamoDB and MongoDB repositories satisfy it.
type ProfileRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	// Create inserts p, failing with domain.ErrConflict if the email exists.
	Create(ctx context.Context, p *domain.UserProfile) error
	// MarkVerified flips verified and clears the OTP only while the stored
	// code still equals code and the profile is unverified.
	MarkVerified(ctx context.Context, email, code string) error
	// ReplaceOTP overwrites the pending code of an unverified profile.
	ReplaceOTP(ctx context.Context, email, code string, expires time.Time) error
}

// Mailer delivers a single plain-text email.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}
