package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Verification purposes.
const (
	VerificationPurposeEmail = "email"
)

const verificationValueBytes = 32

// Verification is a short-lived challenge record keyed by an identifier
// (the email address under challenge) and a secret value. It is consumed
// exactly once and then deleted; expired unconsumed rows are swept.
type Verification struct {
	ID         uint
	Identifier string
	ValueHash  string
	Purpose    string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// NewVerification creates a challenge and returns it together with the raw
// secret value. The record keeps only the hash; the raw value goes into the
// link mailed to the user and is never persisted.
func NewVerification(identifier, purpose string, now time.Time, lifetime time.Duration) (*Verification, string, error) {
	if identifier == "" {
		return nil, "", fmt.Errorf("identifier is required")
	}
	if purpose == "" {
		return nil, "", fmt.Errorf("purpose is required")
	}

	b := make([]byte, verificationValueBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, "", fmt.Errorf("failed to generate verification value: %w", err)
	}
	value := hex.EncodeToString(b)

	return &Verification{
		Identifier: identifier,
		ValueHash:  HashToken(value),
		Purpose:    purpose,
		ExpiresAt:  now.Add(lifetime),
		CreatedAt:  now,
	}, value, nil
}

// IsExpiredAt reports whether the challenge is past its expiry.
func (v *Verification) IsExpiredAt(t time.Time) bool {
	return !t.Before(v.ExpiresAt)
}

// Matches reports whether a presented raw value satisfies the challenge.
func (v *Verification) Matches(value string) bool {
	return v.ValueHash == HashToken(value)
}
