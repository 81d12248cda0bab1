// Package otp issues and checks the six-digit email verification codes.
//
// Codes are a usability measure, not a security token: they come from a
// non-cryptographic source and are compared with plain equality.
package otp

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/go-registration-api/internal/domain"
)

const (
	// TTL is the fixed lifetime of an issued code.
	TTL = 5 * time.Minute

	minCode = 100000
	maxCode = 999999
)

// Code is an issued passcode with its absolute expiry.
type Code struct {
	Value     string
	ExpiresAt time.Time
}

// Generator issues codes. Intn is swappable for deterministic tests.
type Generator struct {
	Intn func(n int) int
}

// NewGenerator returns a Generator backed by math/rand.
func NewGenerator() *Generator {
	return &Generator{Intn: rand.Intn}
}

// Generate returns a code uniformly drawn from [100000, 999999] expiring TTL after now.
func (g *Generator) Generate(now time.Time) Code {
	n := minCode + g.Intn(maxCode-minCode+1)
	return Code{Value: strconv.Itoa(n), ExpiresAt: now.Add(TTL)}
}

// Check compares a submitted code against the stored one. A mismatch is
// reported before expiry; a code submitted at the exact expiry instant is expired.
func Check(stored *string, expires *time.Time, submitted string, now time.Time) error {
	if stored == nil || *stored != submitted {
		return fmt.Errorf("code mismatch: %w", domain.ErrInvalidCode)
	}
	if expires == nil || !now.Before(*expires) {
		return fmt.Errorf("code expired: %w", domain.ErrExpired)
	}
	return nil
}
