package validate

import (
	"testing"

	"github.com/go-registration-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() domain.RegisterRequest {
	graduated := true
	return domain.RegisterRequest{
		Email:        "a@x.com",
		ClientType:   domain.ClientTypeClient,
		Education:    domain.EducationInput{School: "MIT", HasGraduated: &graduated},
		Organization: []domain.Organization{domain.OrgFinTech},
		Preferences: domain.PreferencesInput{
			Categories: []domain.Category{domain.CategoryGrowth},
			Tags:       []string{"ai"},
		},
		ReferralSource: []domain.ReferralSource{domain.ReferralLinkedIn},
	}
}

func TestStruct_ValidRequest(t *testing.T) {
	assert.NoError(t, Struct(validRequest()))
}

func TestStruct_EmptyListsAllowed(t *testing.T) {
	req := validRequest()
	req.Organization = nil
	req.Preferences = domain.PreferencesInput{}
	req.ReferralSource = []domain.ReferralSource{}
	assert.NoError(t, Struct(req))
}

func TestStruct_MissingEmail(t *testing.T) {
	req := validRequest()
	req.Email = ""
	err := Struct(req)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "field 'email' failed 'required'")
}

func TestStruct_UnknownClientType(t *testing.T) {
	req := validRequest()
	req.ClientType = "agency"
	err := Struct(req)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "field 'clientType' failed 'client_type'")
}

func TestStruct_MissingSchoolAndGraduationFlag(t *testing.T) {
	req := validRequest()
	req.Education = domain.EducationInput{}
	err := Struct(req)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "field 'education.school' failed 'required'")
	assert.Contains(t, err.Error(), "field 'education.hasGraduated' failed 'required'")
}

func TestStruct_FalseGraduationFlagIsPresent(t *testing.T) {
	req := validRequest()
	notYet := false
	req.Education.HasGraduated = &notYet
	assert.NoError(t, Struct(req))
}

func TestStruct_EnumViolations(t *testing.T) {
	req := validRequest()
	req.Organization = []domain.Organization{domain.OrgFinTech, "Crypto"}
	req.Preferences.Categories = []domain.Category{"Sports"}
	req.ReferralSource = []domain.ReferralSource{"TikTok"}
	err := Struct(req)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "field 'organization[1]' failed 'organization'")
	assert.Contains(t, err.Error(), "field 'preferences.categories[0]' failed 'category'")
	assert.Contains(t, err.Error(), "field 'referralSource[0]' failed 'referral_source'")
}

func TestStruct_VerifyRequest(t *testing.T) {
	assert.NoError(t, Struct(domain.VerifyRequest{Email: "a@x.com", OTP: "123456"}))
	assert.ErrorIs(t, Struct(domain.VerifyRequest{Email: "a@x.com"}), domain.ErrValidation)
}
