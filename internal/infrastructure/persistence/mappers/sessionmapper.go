package mappers

import (
	"gatehouse/internal/domain/identity"
	"gatehouse/internal/infrastructure/persistence/models"
)

// SessionMapper handles the conversion between Session domain entities and persistence models.
type SessionMapper interface {
	ToModel(entity *identity.Session) *models.SessionModel
	ToDomain(model *models.SessionModel) *identity.Session
}

type sessionMapper struct{}

// NewSessionMapper creates a new SessionMapper.
func NewSessionMapper() SessionMapper {
	return &sessionMapper{}
}

func (m *sessionMapper) ToModel(entity *identity.Session) *models.SessionModel {
	if entity == nil {
		return nil
	}
	return &models.SessionModel{
		ID:        entity.ID,
		UserID:    entity.UserID,
		TokenHash: entity.TokenHash,
		IPAddress: entity.IPAddress,
		UserAgent: entity.UserAgent,
		ExpiresAt: entity.ExpiresAt,
		CreatedAt: entity.CreatedAt,
	}
}

func (m *sessionMapper) ToDomain(model *models.SessionModel) *identity.Session {
	if model == nil {
		return nil
	}
	return &identity.Session{
		ID:        model.ID,
		UserID:    model.UserID,
		TokenHash: model.TokenHash,
		IPAddress: model.IPAddress,
		UserAgent: model.UserAgent,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
	}
}
