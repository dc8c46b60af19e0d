package usecases

import (
	"context"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/shared/clock"
	"gatehouse/internal/shared/logger"
)

// SweepExpiredUseCase removes expired sessions and verification
// challenges. It backs up the lazy per-request cleanup so rows for tokens
// nobody presents again still get reclaimed.
type SweepExpiredUseCase struct {
	sessionRepo      identity.SessionRepository
	verificationRepo identity.VerificationRepository
	logger           logger.Interface
}

func NewSweepExpiredUseCase(
	sessionRepo identity.SessionRepository,
	verificationRepo identity.VerificationRepository,
	logger logger.Interface,
) *SweepExpiredUseCase {
	return &SweepExpiredUseCase{
		sessionRepo:      sessionRepo,
		verificationRepo: verificationRepo,
		logger:           logger,
	}
}

func (uc *SweepExpiredUseCase) Execute(ctx context.Context) error {
	now := clock.NowUTC()

	if err := uc.sessionRepo.DeleteExpired(ctx, now); err != nil {
		uc.logger.Errorw("failed to sweep expired sessions", "error", err)
		return err
	}
	if err := uc.verificationRepo.DeleteExpired(ctx, now); err != nil {
		uc.logger.Errorw("failed to sweep expired verifications", "error", err)
		return err
	}

	uc.logger.Debugw("expired rows swept")
	return nil
}
