package models

import "time"

// SessionModel represents the database persistence model for sessions.
// Only the token hash is stored; the raw bearer token never reaches the database.
type SessionModel struct {
	ID        string    `gorm:"primarykey;size:64"`
	UserID    uint      `gorm:"not null;index"`
	TokenHash string    `gorm:"not null;size:64;uniqueIndex"`
	IPAddress string    `gorm:"size:45"`
	UserAgent string    `gorm:"size:512"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string {
	return "sessions"
}
