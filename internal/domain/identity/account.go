package identity

import (
	"fmt"
	"time"
)

// Account links a User to one external identity provider. The pair
// (Provider, ProviderAccountID) is unique system-wide: one external
// identity maps to exactly one user.
type Account struct {
	ID                uint
	UserID            uint
	Provider          string
	ProviderAccountID string
	ProviderEmail     string
	AccessToken       *string
	RefreshToken      *string
	TokenExpiresAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewAccount creates a provider linkage for an existing user.
func NewAccount(userID uint, provider, providerAccountID, providerEmail string, now time.Time) (*Account, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}
	if providerAccountID == "" {
		return nil, fmt.Errorf("provider account ID is required")
	}

	return &Account{
		UserID:            userID,
		Provider:          provider,
		ProviderAccountID: providerAccountID,
		ProviderEmail:     providerEmail,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// UpdateTokens replaces the provider token material after a refresh.
func (a *Account) UpdateTokens(accessToken, refreshToken *string, expiresAt *time.Time, now time.Time) {
	a.AccessToken = accessToken
	a.RefreshToken = refreshToken
	a.TokenExpiresAt = expiresAt
	a.UpdatedAt = now
}
