// Package identity holds the entity model of the auth core: users, their
// linked provider accounts, live sessions, and pending verification
// challenges. Entities carry no persistence concerns; repositories are
// defined as interfaces in this package and implemented in infrastructure.
package identity

import (
	"fmt"
	"time"

	vo "gatehouse/internal/domain/identity/valueobjects"
)

// User is the identity anchor. It exclusively owns its Accounts and
// Sessions: deleting a user must remove all of them atomically.
type User struct {
	ID            uint
	Email         string
	Name          string
	EmailVerified bool
	AvatarURL     string
	PasswordHash  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser creates a user from validated email and name values.
func NewUser(email *vo.Email, name *vo.Name, now time.Time) (*User, error) {
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if name == nil {
		return nil, fmt.Errorf("name is required")
	}

	return &User{
		Email:     email.String(),
		Name:      name.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MarkEmailVerified records a completed email verification challenge.
func (u *User) MarkEmailVerified(now time.Time) {
	u.EmailVerified = true
	u.UpdatedAt = now
}

// SetPasswordHash attaches a credential hash for password sign-in.
func (u *User) SetPasswordHash(hash string, now time.Time) {
	u.PasswordHash = &hash
	u.UpdatedAt = now
}

// SyncProfile updates display attributes from a provider's claims.
// Email is the anchor and is never changed here.
func (u *User) SyncProfile(name, avatarURL string, now time.Time) {
	changed := false
	if name != "" && name != u.Name {
		u.Name = name
		changed = true
	}
	if avatarURL != "" && avatarURL != u.AvatarURL {
		u.AvatarURL = avatarURL
		changed = true
	}
	if changed {
		u.UpdatedAt = now
	}
}
