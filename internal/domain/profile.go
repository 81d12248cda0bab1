package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// UserProfile is the single stored document per registered email.
// PK (DynamoDB): email. Mongo: _id = profile_id with a unique index on email.
type UserProfile struct {
	ProfileID      string           `json:"id" dynamodbav:"profile_id" bson:"_id"`
	Email          string           `json:"email" dynamodbav:"email" bson:"email"`
	ClientType     ClientType       `json:"clientType" dynamodbav:"client_type" bson:"client_type"`
	Education      Education        `json:"education" dynamodbav:"education" bson:"education"`
	Organization   []Organization   `json:"organization" dynamodbav:"organization" bson:"organization"`
	Preferences    Preferences      `json:"preferences" dynamodbav:"preferences" bson:"preferences"`
	ReferralSource []ReferralSource `json:"referralSource" dynamodbav:"referral_source" bson:"referral_source"`
	OTP            *string          `json:"-" dynamodbav:"otp,omitempty" bson:"otp,omitempty"`
	OTPExpires     *time.Time       `json:"-" dynamodbav:"otp_expires,omitempty" bson:"otp_expires,omitempty"`
	Verified       bool             `json:"verified" dynamodbav:"verified" bson:"verified"`
	CreatedAt      time.Time        `json:"created" dynamodbav:"created_at" bson:"created_at"`
	UpdatedAt      time.Time        `json:"updated" dynamodbav:"updated_at" bson:"updated_at"`
}

type Education struct {
	School         string `json:"school" dynamodbav:"school" bson:"school"`
	HasGraduated   bool   `json:"hasGraduated" dynamodbav:"has_graduated" bson:"has_graduated"`
	GraduationYear *int   `json:"graduationYear,omitempty" dynamodbav:"graduation_year,omitempty" bson:"graduation_year,omitempty"`
}

type Preferences struct {
	Categories []Category `json:"categories" dynamodbav:"categories" bson:"categories"`
	Tags       []string   `json:"tags" dynamodbav:"tags" bson:"tags"`
}

// PendingOTP reports whether the profile carries a code that has not been consumed.
func (p *UserProfile) PendingOTP() bool {
	return p.OTP != nil && p.OTPExpires != nil
}

type RegisterRequest struct {
	Email          string           `json:"email" validate:"required"`
	ClientType     ClientType       `json:"clientType" validate:"required,client_type"`
	Education      EducationInput   `json:"education"`
	Organization   []Organization   `json:"organization" validate:"omitempty,dive,organization"`
	Preferences    PreferencesInput `json:"preferences"`
	ReferralSource []ReferralSource `json:"referralSource" validate:"omitempty,dive,referral_source"`
}

// EducationInput keeps hasGraduated as a pointer so a missing value is distinguishable from false.
type EducationInput struct {
	School         string `json:"school" validate:"required"`
	HasGraduated   *bool  `json:"hasGraduated" validate:"required"`
	GraduationYear *int   `json:"graduationYear"`
}

type PreferencesInput struct {
	Categories []Category `json:"categories" validate:"omitempty,dive,category"`
	Tags       []string   `json:"tags"`
}

// Normalize applies the graduation rule: a year is required while studying and
// never stored once graduated.
func (e EducationInput) Normalize() (Education, error) {
	if e.HasGraduated == nil {
		return Education{}, fmt.Errorf("field 'hasGraduated' is required: %w", ErrValidation)
	}
	edu := Education{School: e.School, HasGraduated: *e.HasGraduated}
	if edu.HasGraduated {
		return edu, nil
	}
	if e.GraduationYear == nil {
		return Education{}, fmt.Errorf("field 'graduationYear' is required when 'hasGraduated' is false: %w", ErrValidation)
	}
	year := *e.GraduationYear
	edu.GraduationYear = &year
	return edu, nil
}

// Normalize trims the email and removes duplicate enum tags. Tags stay as given.
func (r RegisterRequest) Normalize() RegisterRequest {
	r.Email = strings.TrimSpace(r.Email)
	r.Organization = dedupe(r.Organization)
	r.Preferences.Categories = dedupe(r.Preferences.Categories)
	r.ReferralSource = dedupe(r.ReferralSource)
	return r
}

type VerifyRequest struct {
	Email string  `json:"email" validate:"required"`
	OTP   OTPCode `json:"otp" validate:"required"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

// OTPCode accepts either a JSON string ("123456") or a JSON number (123456).
type OTPCode string

func (c *OTPCode) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = OTPCode(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("otp must be a string or number: %w", err)
	}
	*c = OTPCode(n.String())
	return nil
}
