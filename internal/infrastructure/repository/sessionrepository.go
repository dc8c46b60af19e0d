package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/infrastructure/persistence/mappers"
	"gatehouse/internal/infrastructure/persistence/models"
	"gatehouse/internal/shared/db"
	"gatehouse/internal/shared/errors"
)

// SessionRepository implements identity.SessionRepository using GORM.
type SessionRepository struct {
	db     *gorm.DB
	mapper mappers.SessionMapper
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(gdb *gorm.DB) identity.SessionRepository {
	return &SessionRepository{
		db:     gdb,
		mapper: mappers.NewSessionMapper(),
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *identity.Session) error {
	model := r.mapper.ToModel(session)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByTokenHash looks up a session by the exact token hash, expired rows
// included. No other lookup key exists on this path.
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*identity.Session, error) {
	var model models.SessionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("token_hash = ?", tokenHash).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("session not found")
		}
		return nil, fmt.Errorf("failed to get session by token hash: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	result := db.GetTxFromContext(ctx, r.db).
		Where("id = ?", sessionID).
		Delete(&models.SessionModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("session not found")
	}
	return nil
}

// DeleteByTokenHash removes the session for a token hash. Zero affected
// rows is success; sign-out is idempotent.
func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Where("token_hash = ?", tokenHash).
		Delete(&models.SessionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete session by token hash: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Delete(&models.SessionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete sessions by user ID: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Where("expires_at <= ?", now).
		Delete(&models.SessionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
