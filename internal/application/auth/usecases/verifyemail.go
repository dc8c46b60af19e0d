package usecases

import (
	"context"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/shared/clock"
	"gatehouse/internal/shared/db"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/logger"
)

type VerifyEmailCommand struct {
	Email string
	Token string
}

// VerifyEmailUseCase consumes an email verification challenge. The
// challenge is single use: marking the user verified and deleting the
// challenge happen in one transaction, so a replay finds nothing.
type VerifyEmailUseCase struct {
	userRepo         identity.UserRepository
	verificationRepo identity.VerificationRepository
	txManager        *db.TransactionManager
	logger           logger.Interface
}

func NewVerifyEmailUseCase(
	userRepo identity.UserRepository,
	verificationRepo identity.VerificationRepository,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *VerifyEmailUseCase {
	return &VerifyEmailUseCase{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

func (uc *VerifyEmailUseCase) Execute(ctx context.Context, cmd VerifyEmailCommand) error {
	if cmd.Email == "" || cmd.Token == "" {
		return errors.NewValidationError("email and token are required")
	}

	now := clock.NowUTC()

	txErr := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		verification, err := uc.verificationRepo.GetByIdentifier(ctx, cmd.Email, identity.VerificationPurposeEmail)
		if err != nil {
			return err
		}
		if verification == nil {
			return errors.NewNotFoundError("verification challenge not found")
		}
		if verification.IsExpiredAt(now) {
			// Dead challenge; remove it so a fresh one can be issued.
			if delErr := uc.verificationRepo.Delete(ctx, verification.ID); delErr != nil {
				uc.logger.Warnw("failed to delete expired verification", "error", delErr)
			}
			return errors.NewBadRequestError("verification link has expired")
		}
		if !verification.Matches(cmd.Token) {
			return errors.NewBadRequestError("invalid verification token")
		}

		user, err := uc.userRepo.GetByEmail(ctx, cmd.Email)
		if err != nil {
			return err
		}
		if user == nil {
			return errors.NewNotFoundError("user not found")
		}

		if !user.EmailVerified {
			user.MarkEmailVerified(now)
			if err := uc.userRepo.Update(ctx, user); err != nil {
				return err
			}
		}

		return uc.verificationRepo.Delete(ctx, verification.ID)
	})
	if txErr != nil {
		if errors.IsAppError(txErr) {
			return txErr
		}
		uc.logger.Errorw("failed to verify email", "error", txErr)
		return errors.NewStorageUnavailableError("verification write failed")
	}

	uc.logger.Infow("email verified", "identifier", cmd.Email)
	return nil
}
