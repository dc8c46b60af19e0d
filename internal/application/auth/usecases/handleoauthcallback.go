package usecases

import (
	"context"
	"fmt"

	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/logger"
)

type HandleOAuthCallbackCommand struct {
	Provider string
	Code     string
	State    string
	Metadata SessionMetadata
}

// HandleOAuthCallbackUseCase completes the provider redirect flow: it
// consumes the parked state, exchanges the authorization code, fetches the
// provider's identity claims, and hands the verified identity to the
// session issuer.
type HandleOAuthCallbackUseCase struct {
	clients   map[string]ProviderClient
	initiator *InitiateOAuthLoginUseCase
	issuer    *IssueSessionUseCase
	logger    logger.Interface
}

func NewHandleOAuthCallbackUseCase(
	clients map[string]ProviderClient,
	initiator *InitiateOAuthLoginUseCase,
	issuer *IssueSessionUseCase,
	logger logger.Interface,
) *HandleOAuthCallbackUseCase {
	return &HandleOAuthCallbackUseCase{
		clients:   clients,
		initiator: initiator,
		issuer:    issuer,
		logger:    logger,
	}
}

func (uc *HandleOAuthCallbackUseCase) Execute(ctx context.Context, cmd HandleOAuthCallbackCommand) (*IssueSessionResult, error) {
	stateInfo, err := uc.initiator.VerifyStateAndGetVerifier(ctx, cmd.State)
	if err != nil {
		return nil, err
	}
	if stateInfo.Provider != "" && stateInfo.Provider != cmd.Provider {
		return nil, errors.NewBadRequestError("state does not match provider")
	}

	client, ok := uc.clients[cmd.Provider]
	if !ok {
		return nil, errors.NewBadRequestError(fmt.Sprintf("unsupported OAuth provider: %s", cmd.Provider))
	}

	accessToken, err := client.ExchangeCode(ctx, cmd.Code, stateInfo.CodeVerifier)
	if err != nil {
		uc.logger.Errorw("failed to exchange code", "error", err, "provider", cmd.Provider)
		return nil, errors.NewOAuthError(cmd.Provider, "code exchange failed")
	}

	userInfo, err := client.GetUserInfo(ctx, accessToken)
	if err != nil {
		uc.logger.Errorw("failed to get user info", "error", err, "provider", cmd.Provider)
		return nil, errors.NewOAuthError(cmd.Provider, "user info fetch failed")
	}

	return uc.issuer.Execute(ctx, IssueSessionCommand{
		Identity: ExternalIdentity{
			Provider:      userInfo.Provider,
			Subject:       userInfo.ProviderID,
			Email:         userInfo.Email,
			Name:          userInfo.Name,
			AvatarURL:     userInfo.Picture,
			EmailVerified: userInfo.EmailVerified,
		},
		Metadata: cmd.Metadata,
	})
}
