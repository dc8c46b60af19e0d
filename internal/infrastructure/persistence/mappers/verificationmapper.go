package mappers

import (
	"gatehouse/internal/domain/identity"
	"gatehouse/internal/infrastructure/persistence/models"
)

// VerificationMapper handles the conversion between Verification domain
// entities and persistence models.
type VerificationMapper interface {
	ToModel(entity *identity.Verification) *models.VerificationModel
	ToDomain(model *models.VerificationModel) *identity.Verification
}

type verificationMapper struct{}

// NewVerificationMapper creates a new VerificationMapper.
func NewVerificationMapper() VerificationMapper {
	return &verificationMapper{}
}

func (m *verificationMapper) ToModel(entity *identity.Verification) *models.VerificationModel {
	if entity == nil {
		return nil
	}
	return &models.VerificationModel{
		ID:         entity.ID,
		Identifier: entity.Identifier,
		ValueHash:  entity.ValueHash,
		Purpose:    entity.Purpose,
		ExpiresAt:  entity.ExpiresAt,
		CreatedAt:  entity.CreatedAt,
	}
}

func (m *verificationMapper) ToDomain(model *models.VerificationModel) *identity.Verification {
	if model == nil {
		return nil
	}
	return &identity.Verification{
		ID:         model.ID,
		Identifier: model.Identifier,
		ValueHash:  model.ValueHash,
		Purpose:    model.Purpose,
		ExpiresAt:  model.ExpiresAt,
		CreatedAt:  model.CreatedAt,
	}
}
