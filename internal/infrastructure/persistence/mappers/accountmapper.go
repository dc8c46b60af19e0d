package mappers

import (
	"gatehouse/internal/domain/identity"
	"gatehouse/internal/infrastructure/persistence/models"
)

// AccountMapper handles the conversion between Account domain entities and persistence models.
type AccountMapper interface {
	ToModel(entity *identity.Account) *models.AccountModel
	ToDomain(model *models.AccountModel) *identity.Account
	ToDomainList(models []*models.AccountModel) []*identity.Account
}

type accountMapper struct{}

// NewAccountMapper creates a new AccountMapper.
func NewAccountMapper() AccountMapper {
	return &accountMapper{}
}

func (m *accountMapper) ToModel(entity *identity.Account) *models.AccountModel {
	if entity == nil {
		return nil
	}
	return &models.AccountModel{
		ID:                entity.ID,
		UserID:            entity.UserID,
		Provider:          entity.Provider,
		ProviderAccountID: entity.ProviderAccountID,
		ProviderEmail:     entity.ProviderEmail,
		AccessToken:       entity.AccessToken,
		RefreshToken:      entity.RefreshToken,
		TokenExpiresAt:    entity.TokenExpiresAt,
		CreatedAt:         entity.CreatedAt,
		UpdatedAt:         entity.UpdatedAt,
	}
}

func (m *accountMapper) ToDomain(model *models.AccountModel) *identity.Account {
	if model == nil {
		return nil
	}
	return &identity.Account{
		ID:                model.ID,
		UserID:            model.UserID,
		Provider:          model.Provider,
		ProviderAccountID: model.ProviderAccountID,
		ProviderEmail:     model.ProviderEmail,
		AccessToken:       model.AccessToken,
		RefreshToken:      model.RefreshToken,
		TokenExpiresAt:    model.TokenExpiresAt,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func (m *accountMapper) ToDomainList(items []*models.AccountModel) []*identity.Account {
	accounts := make([]*identity.Account, len(items))
	for i := range items {
		accounts[i] = m.ToDomain(items[i])
	}
	return accounts
}
