package identity

import (
	"context"
	"time"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Create persists a new user and syncs the generated ID back.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns a not-found error when absent.
	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *User) error

	// Delete removes a user row. Dependent rows are removed by the
	// DeleteUser use case inside the same transaction; the schema's
	// ON DELETE CASCADE backs this up at the storage layer.
	Delete(ctx context.Context, id uint) error
}

// AccountRepository defines the interface for provider-linkage persistence.
type AccountRepository interface {
	// Create persists a new account. Fails with a duplicate-key error when
	// the (provider, provider account ID) pair already exists.
	Create(ctx context.Context, account *Account) error

	// GetByProviderAccount retrieves the linkage for one external identity.
	// Returns (nil, nil) when absent.
	GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*Account, error)

	// GetByUserID retrieves all linkages owned by a user.
	GetByUserID(ctx context.Context, userID uint) ([]*Account, error)

	// Update persists changes to an existing account (token refresh).
	Update(ctx context.Context, account *Account) error

	// DeleteByUserID removes all linkages owned by a user.
	DeleteByUserID(ctx context.Context, userID uint) error
}

// SessionRepository defines the interface for session persistence.
type SessionRepository interface {
	// Create persists a new session.
	Create(ctx context.Context, session *Session) error

	// GetByTokenHash retrieves a session by its token hash regardless of
	// expiry; the caller decides active versus expired so the two states
	// stay distinguishable. Returns a not-found error when absent.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// Delete removes a session by ID.
	Delete(ctx context.Context, sessionID string) error

	// DeleteByTokenHash removes the session matching a token hash.
	// Deleting an absent session is not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByUserID removes all sessions owned by a user.
	DeleteByUserID(ctx context.Context, userID uint) error

	// DeleteExpired removes all sessions expired at the given time.
	DeleteExpired(ctx context.Context, now time.Time) error
}

// VerificationRepository defines the interface for challenge persistence.
type VerificationRepository interface {
	// Create persists a new verification challenge.
	Create(ctx context.Context, verification *Verification) error

	// GetByIdentifier retrieves the newest challenge for an identifier and
	// purpose. Returns (nil, nil) when absent.
	GetByIdentifier(ctx context.Context, identifier, purpose string) (*Verification, error)

	// Delete removes a consumed or superseded challenge.
	Delete(ctx context.Context, id uint) error

	// DeleteExpired removes all challenges expired at the given time.
	DeleteExpired(ctx context.Context, now time.Time) error
}
