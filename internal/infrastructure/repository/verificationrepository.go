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

// VerificationRepository implements identity.VerificationRepository using GORM.
type VerificationRepository struct {
	db     *gorm.DB
	mapper mappers.VerificationMapper
}

// NewVerificationRepository creates a new VerificationRepository.
func NewVerificationRepository(gdb *gorm.DB) identity.VerificationRepository {
	return &VerificationRepository{
		db:     gdb,
		mapper: mappers.NewVerificationMapper(),
	}
}

func (r *VerificationRepository) Create(ctx context.Context, verification *identity.Verification) error {
	model := r.mapper.ToModel(verification)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create verification: %w", err)
	}
	verification.ID = model.ID
	return nil
}

func (r *VerificationRepository) GetByIdentifier(ctx context.Context, identifier, purpose string) (*identity.Verification, error) {
	var model models.VerificationModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("identifier = ? AND purpose = ?", identifier, purpose).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *VerificationRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.VerificationModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete verification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("verification not found")
	}
	return nil
}

func (r *VerificationRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Where("expires_at <= ?", now).
		Delete(&models.VerificationModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete expired verifications: %w", err)
	}
	return nil
}
