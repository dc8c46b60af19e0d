package usecases

import (
	"context"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/logger"
)

type SignOutCommand struct {
	Token string
}

// SignOutUseCase invalidates the session behind a presented token.
// Signing out is idempotent: an absent, expired, or malformed credential
// still yields success, since the desired end state already holds.
type SignOutUseCase struct {
	sessionRepo identity.SessionRepository
	logger      logger.Interface
}

func NewSignOutUseCase(sessionRepo identity.SessionRepository, logger logger.Interface) *SignOutUseCase {
	return &SignOutUseCase{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

func (uc *SignOutUseCase) Execute(ctx context.Context, cmd SignOutCommand) error {
	if !identity.IsWellFormedToken(cmd.Token) {
		// Nothing to invalidate.
		return nil
	}

	tokenHash := identity.HashToken(cmd.Token)

	err := withStorageRetry(ctx, func(ctx context.Context) error {
		return uc.sessionRepo.DeleteByTokenHash(ctx, tokenHash)
	})
	if err != nil {
		uc.logger.Errorw("failed to delete session on sign-out", "error", err)
		return errors.NewStorageUnavailableError("session delete failed")
	}

	return nil
}
