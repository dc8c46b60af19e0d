package usecases

import (
	"context"
	"fmt"

	"gatehouse/internal/infrastructure/auth"
	"gatehouse/internal/infrastructure/cache"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/logger"
)

type InitiateOAuthLoginCommand struct {
	Provider string
}

type InitiateOAuthLoginResult struct {
	AuthURL string
	State   string
}

// InitiateOAuthLoginUseCase starts the provider redirect flow. It mints an
// unguessable state value, derives PKCE parameters, and parks both in the
// state store for the callback leg.
type InitiateOAuthLoginUseCase struct {
	clients    map[string]ProviderClient
	stateStore StateStore
	logger     logger.Interface
}

func NewInitiateOAuthLoginUseCase(
	clients map[string]ProviderClient,
	stateStore StateStore,
	logger logger.Interface,
) *InitiateOAuthLoginUseCase {
	return &InitiateOAuthLoginUseCase{
		clients:    clients,
		stateStore: stateStore,
		logger:     logger,
	}
}

func (uc *InitiateOAuthLoginUseCase) Execute(ctx context.Context, cmd InitiateOAuthLoginCommand) (*InitiateOAuthLoginResult, error) {
	client, ok := uc.clients[cmd.Provider]
	if !ok {
		return nil, errors.NewBadRequestError(fmt.Sprintf("unsupported OAuth provider: %s", cmd.Provider))
	}

	state, err := auth.GenerateState()
	if err != nil {
		uc.logger.Errorw("failed to generate state", "error", err)
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	authURL, codeVerifier, err := client.GetAuthURL(state)
	if err != nil {
		uc.logger.Errorw("failed to get auth URL", "error", err, "provider", cmd.Provider)
		return nil, fmt.Errorf("failed to get auth URL: %w", err)
	}

	if err := uc.stateStore.Set(ctx, state, cmd.Provider, codeVerifier); err != nil {
		uc.logger.Errorw("failed to store OAuth state", "error", err)
		return nil, fmt.Errorf("failed to store state: %w", err)
	}

	uc.logger.Infow("OAuth login initiated", "provider", cmd.Provider)

	return &InitiateOAuthLoginResult{
		AuthURL: authURL,
		State:   state,
	}, nil
}

// VerifyStateAndGetVerifier consumes a state value. Each state is single
// use; a second presentation fails.
func (uc *InitiateOAuthLoginUseCase) VerifyStateAndGetVerifier(ctx context.Context, state string) (*cache.StateInfo, error) {
	stateInfo, err := uc.stateStore.VerifyAndGet(ctx, state)
	if err != nil {
		uc.logger.Warnw("invalid or expired OAuth state", "error", err)
		return nil, errors.NewBadRequestError("invalid or expired state parameter")
	}
	return stateInfo, nil
}
