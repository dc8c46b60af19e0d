package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	sessionIDBytes    = 16
	sessionTokenBytes = 32

	// TokenLength is the length of a well-formed session token:
	// sessionTokenBytes of crypto/rand output, hex encoded.
	TokenLength = sessionTokenBytes * 2
)

// Session is a live authorization grant. The bearer token is opaque and
// unguessable; only its SHA-256 hash is ever stored. Expiry is monotonic
// from creation and the row is never mutated except by ExtendExpiry.
type Session struct {
	ID        string
	UserID    uint
	TokenHash string
	IPAddress string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewSession creates a session grant for a user. The token is generated
// separately with GenerateToken and attached as a hash by the caller, so
// the raw token exists only on the issuance path.
func NewSession(userID uint, ipAddress, userAgent string, now time.Time, lifetime time.Duration) (*Session, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("session lifetime must be positive")
	}

	id, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	return &Session{
		ID:        id,
		UserID:    userID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: now.Add(lifetime),
		CreatedAt: now,
	}, nil
}

// IsExpiredAt reports whether the grant is past its expiry at the given time.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// ExtendExpiry pushes the expiry forward ("remember me" renewal). Not used
// by the default validation policy, which is a pure read.
func (s *Session) ExtendExpiry(now time.Time, lifetime time.Duration) {
	s.ExpiresAt = now.Add(lifetime)
}

// GenerateToken returns a new opaque session token from a cryptographically
// secure random source. The token has no decodable structure; it is used
// purely as a lookup key.
func GenerateToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashToken returns the storage form of a session token. Lookups compare
// hashes with a single indexed equality query, so a database dump never
// yields usable credentials and validation cost does not depend on how
// much of a guessed token matches.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IsWellFormedToken reports whether a candidate credential has the opaque
// token shape. Anything else is rejected before any storage access.
func IsWellFormedToken(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func generateSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
