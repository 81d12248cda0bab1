package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-registration-api/internal/domain"
	"github.com/go-registration-api/internal/pkg/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockProfileStore struct{ mock.Mock }

func (m *mockProfileStore) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	args := m.Called(ctx, email)
	if p, _ := args.Get(0).(*domain.UserProfile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProfileStore) Create(ctx context.Context, p *domain.UserProfile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProfileStore) ReplaceOTP(ctx context.Context, email, code string, expires time.Time) error {
	return m.Called(ctx, email, code, expires).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

// --- helpers ---

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newService(ps *mockProfileStore, n *mockNotifier, reregister bool) Service {
	return NewService(ServiceDeps{
		ProfileRepo:          ps,
		Notifier:             n,
		Codes:                &otp.Generator{Intn: func(int) int { return 23456 }}, // -> "123456"
		Now:                  func() time.Time { return fixedNow },
		ReregisterUnverified: reregister,
	})
}

func baseReq() domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:        "a@x.com",
		ClientType:   domain.ClientTypeClient,
		Education:    domain.EducationInput{School: "MIT", HasGraduated: ptr(true)},
		Organization: []domain.Organization{domain.OrgFinTech},
		Preferences: domain.PreferencesInput{
			Categories: []domain.Category{domain.CategoryGrowth},
			Tags:       []string{"ai"},
		},
		ReferralSource: []domain.ReferralSource{domain.ReferralLinkedIn},
	}
}

// --- Register tests ---

func TestRegister_HappyPath(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ps.On("Create", mock.Anything, mock.AnythingOfType("*domain.UserProfile")).Return(nil)
	n := &mockNotifier{}
	n.On("SendVerificationCode", mock.Anything, "a@x.com", "123456").Return(nil)

	p, err := newService(ps, n, false).Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.NotEmpty(t, p.ProfileID)
	assert.False(t, p.Verified)
	require.NotNil(t, p.OTP)
	assert.Equal(t, "123456", *p.OTP)
	require.NotNil(t, p.OTPExpires)
	assert.Equal(t, fixedNow.Add(5*time.Minute), *p.OTPExpires)
	assert.Equal(t, []domain.Organization{domain.OrgFinTech}, p.Organization)
	assert.Equal(t, []string{"ai"}, p.Preferences.Tags)
	ps.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestRegister_GraduatedDropsGraduationYear(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ps.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.UserProfile) bool {
		return p.Education.HasGraduated && p.Education.GraduationYear == nil
	})).Return(nil)
	n := &mockNotifier{}
	n.On("SendVerificationCode", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := baseReq()
	req.Education.GraduationYear = ptr(2019)
	_, err := newService(ps, n, false).Register(context.Background(), req)

	require.NoError(t, err)
	ps.AssertExpectations(t)
}

func TestRegister_StudyingPersistsGraduationYear(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ps.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.UserProfile) bool {
		return !p.Education.HasGraduated && p.Education.GraduationYear != nil && *p.Education.GraduationYear == 2027
	})).Return(nil)
	n := &mockNotifier{}
	n.On("SendVerificationCode", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := baseReq()
	req.Education = domain.EducationInput{School: "MIT", HasGraduated: ptr(false), GraduationYear: ptr(2027)}
	_, err := newService(ps, n, false).Register(context.Background(), req)

	require.NoError(t, err)
	ps.AssertExpectations(t)
}

func TestRegister_StudyingWithoutYearRejectedWithoutWrite(t *testing.T) {
	ps := &mockProfileStore{}
	req := baseReq()
	req.Education = domain.EducationInput{School: "MIT", HasGraduated: ptr(false)}

	_, err := newService(ps, &mockNotifier{}, false).Register(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	ps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_EnumViolationRejected(t *testing.T) {
	ps := &mockProfileStore{}
	req := baseReq()
	req.ReferralSource = []domain.ReferralSource{"Billboard"}

	_, err := newService(ps, &mockNotifier{}, false).Register(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrValidation)
	ps.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestRegister_Duplicate_NoWrite(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.UserProfile{Email: "a@x.com"}, nil)

	_, err := newService(ps, &mockNotifier{}, false).Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	ps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ps.AssertNotCalled(t, "ReplaceOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_ConcurrentInsertLosesToConditionalWrite(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ps.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)
	n := &mockNotifier{}

	_, err := newService(ps, n, false).Register(context.Background(), baseReq())

	assert.ErrorIs(t, err, domain.ErrConflict)
	n.AssertNotCalled(t, "SendVerificationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_StoreFailureIsUnexpected(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("connection reset"))

	_, err := newService(ps, &mockNotifier{}, false).Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, errors.Is(err, domain.ErrConflict))
}

func TestRegister_MailFailureKeepsWrite(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ps.On("Create", mock.Anything, mock.Anything).Return(nil)
	n := &mockNotifier{}
	n.On("SendVerificationCode", mock.Anything, "a@x.com", "123456").Return(domain.ErrTransport)

	p, err := newService(ps, n, false).Register(context.Background(), baseReq())

	assert.ErrorIs(t, err, domain.ErrTransport)
	require.NotNil(t, p)
	ps.AssertNumberOfCalls(t, "Create", 1)
}

func TestRegister_ReregisterUnverified_ReissuesOTP(t *testing.T) {
	ps := &mockProfileStore{}
	existing := &domain.UserProfile{Email: "a@x.com", OTP: ptr("999999")}
	ps.On("GetByEmail", mock.Anything, "a@x.com").Return(existing, nil)
	ps.On("ReplaceOTP", mock.Anything, "a@x.com", "123456", fixedNow.Add(otp.TTL)).Return(nil)
	n := &mockNotifier{}
	n.On("SendVerificationCode", mock.Anything, "a@x.com", "123456").Return(nil)

	p, err := newService(ps, n, true).Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.Equal(t, "123456", *p.OTP)
	ps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ps.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestRegister_ReregisterVerified_StillDuplicate(t *testing.T) {
	ps := &mockProfileStore{}
	ps.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.UserProfile{Email: "a@x.com", Verified: true}, nil)

	_, err := newService(ps, &mockNotifier{}, true).Register(context.Background(), baseReq())

	assert.ErrorIs(t, err, domain.ErrConflict)
	ps.AssertNotCalled(t, "ReplaceOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
