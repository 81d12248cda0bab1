package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-registration-api/internal/domain"
	"github.com/go-registration-api/internal/pkg/otp"
)

type Service interface {
	// Verify consumes the pending OTP and marks the profile verified.
	Verify(ctx context.Context, email, code string) error
	// Resend replaces any pending OTP with a fresh one and emails it.
	Resend(ctx context.Context, email string) error
}

type profileStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	MarkVerified(ctx context.Context, email, code string) error
	ReplaceOTP(ctx context.Context, email, code string, expires time.Time) error
}

type notifier interface {
	SendNewCode(ctx context.Context, email, code string) error
}

type service struct {
	repo     profileStore
	notifier notifier
	codes    *otp.Generator
	now      func() time.Time
}

type ServiceDeps struct {
	ProfileRepo profileStore
	Notifier    notifier
	Codes       *otp.Generator
	Now         func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:     deps.ProfileRepo,
		notifier: deps.Notifier,
		codes:    deps.Codes,
		now:      deps.Now,
	}
	if s.codes == nil {
		s.codes = otp.NewGenerator()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Verify(ctx context.Context, email, code string) error {
	p, err := s.load(ctx, email)
	if err != nil {
		return err
	}
	if err := s.checkPending(p, code); err != nil {
		return err
	}
	err = s.repo.MarkVerified(ctx, email, code)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("mark verified: %w", err)
	}
	// Lost a race with another verify or a resend; report what the profile looks like now.
	p, err = s.load(ctx, email)
	if err != nil {
		return err
	}
	if err := s.checkPending(p, code); err != nil {
		return err
	}
	return fmt.Errorf("profile changed during verification: %w", domain.ErrConflict)
}

func (s *service) Resend(ctx context.Context, email string) error {
	p, err := s.load(ctx, email)
	if err != nil {
		return err
	}
	if p.Verified {
		return fmt.Errorf("profile %s: %w", email, domain.ErrAlreadyVerified)
	}
	code := s.codes.Generate(s.now().UTC())
	if replaceErr := s.repo.ReplaceOTP(ctx, email, code.Value, code.ExpiresAt); replaceErr != nil {
		if !errors.Is(replaceErr, domain.ErrConflict) {
			return fmt.Errorf("replace otp: %w", replaceErr)
		}
		// verified or removed since the lookup
		if p, err = s.load(ctx, email); err != nil {
			return err
		}
		if p.Verified {
			return fmt.Errorf("profile %s: %w", email, domain.ErrAlreadyVerified)
		}
		return fmt.Errorf("replace otp: %w", replaceErr)
	}
	return s.notifier.SendNewCode(ctx, email, code.Value)
}

func (s *service) load(ctx context.Context, email string) (*domain.UserProfile, error) {
	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("profile %s: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lookup profile: %w", err)
	}
	return p, nil
}

func (s *service) checkPending(p *domain.UserProfile, code string) error {
	if p.Verified {
		return fmt.Errorf("profile %s: %w", p.Email, domain.ErrAlreadyVerified)
	}
	return otp.Check(p.OTP, p.OTPExpires, code, s.now())
}
