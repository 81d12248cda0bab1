package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-registration-api/internal/domain"
	"github.com/go-registration-api/internal/pkg/id"
	"github.com/go-registration-api/internal/pkg/otp"
	"github.com/go-registration-api/internal/pkg/validate"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserProfile, error)
}

type profileStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	Create(ctx context.Context, p *domain.UserProfile) error
	ReplaceOTP(ctx context.Context, email, code string, expires time.Time) error
}

type notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

type service struct {
	repo                 profileStore
	notifier             notifier
	codes                *otp.Generator
	now                  func() time.Time
	reregisterUnverified bool
}

type ServiceDeps struct {
	ProfileRepo profileStore
	Notifier    notifier
	Codes       *otp.Generator
	Now         func() time.Time
	// ReregisterUnverified reissues the OTP when a never-verified email registers again.
	ReregisterUnverified bool
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:                 deps.ProfileRepo,
		notifier:             deps.Notifier,
		codes:                deps.Codes,
		now:                  deps.Now,
		reregisterUnverified: deps.ReregisterUnverified,
	}
	if s.codes == nil {
		s.codes = otp.NewGenerator()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Register validates the payload, creates the profile together with its first
// OTP in one write, then emails the code. A failed email does not undo the write.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserProfile, error) {
	req = req.Normalize()
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	edu, err := req.Education.Normalize()
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if s.reregisterUnverified && !existing.Verified {
			return s.reissue(ctx, existing)
		}
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("lookup profile: %w", err)
	}

	now := s.now().UTC()
	code := s.codes.Generate(now)
	p := &domain.UserProfile{
		ProfileID:      id.New(),
		Email:          req.Email,
		ClientType:     req.ClientType,
		Education:      edu,
		Organization:   nonNil(req.Organization),
		Preferences:    domain.Preferences{Categories: nonNil(req.Preferences.Categories), Tags: nonNil(req.Preferences.Tags)},
		ReferralSource: nonNil(req.ReferralSource),
		OTP:            &code.Value,
		OTPExpires:     &code.ExpiresAt,
		Verified:       false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("email already registered: %w", err)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	if err := s.notifier.SendVerificationCode(ctx, p.Email, code.Value); err != nil {
		return p, err
	}
	return p, nil
}

func (s *service) reissue(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error) {
	code := s.codes.Generate(s.now().UTC())
	if err := s.repo.ReplaceOTP(ctx, p.Email, code.Value, code.ExpiresAt); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// verified (or removed) between the lookup and the write
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		return nil, fmt.Errorf("reissue otp: %w", err)
	}
	p.OTP = &code.Value
	p.OTPExpires = &code.ExpiresAt
	if err := s.notifier.SendVerificationCode(ctx, p.Email, code.Value); err != nil {
		return p, err
	}
	return p, nil
}

// nonNil keeps empty lists as [] rather than null in the stored document.
func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
