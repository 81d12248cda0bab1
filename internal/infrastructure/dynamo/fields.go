package dynamo

// DynamoDB attribute names used in key, condition and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail      = "email"
	fieldOTP        = "otp"
	fieldOTPExpires = "otp_expires"
	fieldVerified   = "verified"
	fieldUpdatedAt  = "updated_at"
)
