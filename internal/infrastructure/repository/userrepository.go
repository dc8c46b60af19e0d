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

// UserRepository implements identity.UserRepository using GORM with
// Model/Mapper separation.
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(gdb *gorm.DB) identity.UserRepository {
	return &UserRepository{
		db:     gdb,
		mapper: mappers.NewUserMapper(),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *identity.User) error {
	model := r.mapper.ToModel(user)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return fmt.Errorf("%w: %w", err, errors.NewConflictError("email already registered"))
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	// Sync auto-generated ID back to the domain entity
	user.ID = model.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*identity.User, error) {
	var model models.UserModel
	err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	err := db.GetTxFromContext(ctx, r.db).Where("email = ?", email).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *UserRepository) Update(ctx context.Context, user *identity.User) error {
	model := r.mapper.ToModel(user)
	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("user not found")
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.UserModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("user not found")
	}
	return nil
}
