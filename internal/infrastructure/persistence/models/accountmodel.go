package models

import "time"

// AccountModel represents the database persistence model for provider accounts.
// The composite unique index enforces that one external identity maps to
// exactly one user, including under concurrent issuance.
type AccountModel struct {
	ID                uint    `gorm:"primarykey"`
	UserID            uint    `gorm:"not null;index:idx_account_user_id"`
	Provider          string  `gorm:"not null;size:50;uniqueIndex:idx_provider_account"`
	ProviderAccountID string  `gorm:"not null;size:255;uniqueIndex:idx_provider_account;column:provider_account_id"`
	ProviderEmail     string  `gorm:"size:255"`
	AccessToken       *string `gorm:"type:text"`
	RefreshToken      *string `gorm:"type:text"`
	TokenExpiresAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}
