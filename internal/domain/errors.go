package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyVerified = errors.New("already verified")
	ErrInvalidCode     = errors.New("invalid code")
	ErrExpired         = errors.New("expired")
	ErrTransport       = errors.New("notification delivery failed")
)
