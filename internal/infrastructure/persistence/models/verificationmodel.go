package models

import "time"

// VerificationModel represents the database persistence model for
// verification challenges.
type VerificationModel struct {
	ID         uint      `gorm:"primarykey"`
	Identifier string    `gorm:"not null;size:255;index:idx_verification_identifier"`
	ValueHash  string    `gorm:"not null;size:64;uniqueIndex"`
	Purpose    string    `gorm:"not null;size:32"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM
func (VerificationModel) TableName() string {
	return "verifications"
}
