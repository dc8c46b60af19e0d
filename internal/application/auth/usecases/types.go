package usecases

import (
	"context"
	"fmt"
	"time"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/infrastructure/auth"
	"gatehouse/internal/infrastructure/cache"
)

// ExternalIdentity is a verified identity assertion from an external
// provider. Callers construct it only after the provider round-trip
// has succeeded.
type ExternalIdentity struct {
	Provider      string
	Subject       string
	Email         string
	Name          string
	AvatarURL     string
	EmailVerified bool
}

// SessionMetadata carries request-scoped attributes recorded on the session.
type SessionMetadata struct {
	IPAddress string
	UserAgent string
}

// ProviderClient abstracts an OAuth provider integration.
type ProviderClient interface {
	Provider() string
	GetAuthURL(state string) (authURL string, codeVerifier string, err error)
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (accessToken string, err error)
	GetUserInfo(ctx context.Context, accessToken string) (*auth.OAuthUserInfo, error)
}

// StateStore defines the interface for OAuth state storage
type StateStore interface {
	Set(ctx context.Context, state, provider, codeVerifier string) error
	VerifyAndGet(ctx context.Context, state string) (*cache.StateInfo, error)
}

// PasswordHasher abstracts password hashing and verification.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// Mailer sends account-lifecycle emails.
type Mailer interface {
	SendVerificationEmail(to, token string) error
}

// newSessionWithToken mints a session together with its raw bearer token.
// The raw token is returned exactly once and never persisted.
func newSessionWithToken(userID uint, meta SessionMetadata, now time.Time, lifetime time.Duration) (*identity.Session, string, error) {
	token, err := identity.GenerateToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	session, err := identity.NewSession(userID, meta.IPAddress, meta.UserAgent, now, lifetime)
	if err != nil {
		return nil, "", err
	}
	session.TokenHash = identity.HashToken(token)

	return session, token, nil
}
