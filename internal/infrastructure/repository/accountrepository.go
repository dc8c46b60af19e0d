package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/infrastructure/persistence/mappers"
	"gatehouse/internal/infrastructure/persistence/models"
	"gatehouse/internal/shared/db"
	"gatehouse/internal/shared/errors"
)

// AccountRepository implements identity.AccountRepository using GORM with
// Model/Mapper separation. The composite unique index on
// (provider, provider_account_id) is the serialization point for
// concurrent issuance of the same external identity.
type AccountRepository struct {
	db     *gorm.DB
	mapper mappers.AccountMapper
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(gdb *gorm.DB) identity.AccountRepository {
	return &AccountRepository{
		db:     gdb,
		mapper: mappers.NewAccountMapper(),
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *identity.Account) error {
	model := r.mapper.ToModel(account)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		// Duplicate-key errors pass through unclassified so the issuer can
		// resolve the race to the already-created account.
		return fmt.Errorf("failed to create account: %w", err)
	}
	account.ID = model.ID
	return nil
}

func (r *AccountRepository) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*identity.Account, error) {
	var model models.AccountModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID uint) ([]*identity.Account, error) {
	var accountModels []*models.AccountModel
	err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).Find(&accountModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts by user ID: %w", err)
	}
	return r.mapper.ToDomainList(accountModels), nil
}

func (r *AccountRepository) Update(ctx context.Context, account *identity.Account) error {
	model := r.mapper.ToModel(account)
	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("account not found")
	}
	return nil
}

func (r *AccountRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Delete(&models.AccountModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete accounts by user ID: %w", err)
	}
	return nil
}
