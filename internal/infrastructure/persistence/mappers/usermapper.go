package mappers

import (
	"gatehouse/internal/domain/identity"
	"gatehouse/internal/infrastructure/persistence/models"
)

// UserMapper handles the conversion between User domain entities and persistence models.
type UserMapper interface {
	ToModel(entity *identity.User) *models.UserModel
	ToDomain(model *models.UserModel) *identity.User
}

type userMapper struct{}

// NewUserMapper creates a new UserMapper.
func NewUserMapper() UserMapper {
	return &userMapper{}
}

func (m *userMapper) ToModel(entity *identity.User) *models.UserModel {
	if entity == nil {
		return nil
	}
	return &models.UserModel{
		ID:            entity.ID,
		Email:         entity.Email,
		Name:          entity.Name,
		EmailVerified: entity.EmailVerified,
		AvatarURL:     entity.AvatarURL,
		PasswordHash:  entity.PasswordHash,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}

func (m *userMapper) ToDomain(model *models.UserModel) *identity.User {
	if model == nil {
		return nil
	}
	return &identity.User{
		ID:            model.ID,
		Email:         model.Email,
		Name:          model.Name,
		EmailVerified: model.EmailVerified,
		AvatarURL:     model.AvatarURL,
		PasswordHash:  model.PasswordHash,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
