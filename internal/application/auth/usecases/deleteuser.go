package usecases

import (
	"context"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/shared/db"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/logger"
)

type DeleteUserCommand struct {
	UserID uint
}

// DeleteUserUseCase removes a user together with every owned row:
// sessions, provider accounts, and pending verification challenges. The
// whole removal is one transaction; a half-deleted user never survives.
type DeleteUserUseCase struct {
	userRepo         identity.UserRepository
	accountRepo      identity.AccountRepository
	sessionRepo      identity.SessionRepository
	verificationRepo identity.VerificationRepository
	txManager        *db.TransactionManager
	logger           logger.Interface
}

func NewDeleteUserUseCase(
	userRepo identity.UserRepository,
	accountRepo identity.AccountRepository,
	sessionRepo identity.SessionRepository,
	verificationRepo identity.VerificationRepository,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userRepo:         userRepo,
		accountRepo:      accountRepo,
		sessionRepo:      sessionRepo,
		verificationRepo: verificationRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

func (uc *DeleteUserUseCase) Execute(ctx context.Context, cmd DeleteUserCommand) error {
	if cmd.UserID == 0 {
		return errors.NewValidationError("user ID is required")
	}

	txErr := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		user, err := uc.userRepo.GetByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}

		if err := uc.sessionRepo.DeleteByUserID(ctx, cmd.UserID); err != nil {
			return err
		}
		if err := uc.accountRepo.DeleteByUserID(ctx, cmd.UserID); err != nil {
			return err
		}

		verification, err := uc.verificationRepo.GetByIdentifier(ctx, user.Email, identity.VerificationPurposeEmail)
		if err != nil {
			return err
		}
		if verification != nil {
			if err := uc.verificationRepo.Delete(ctx, verification.ID); err != nil {
				return err
			}
		}

		return uc.userRepo.Delete(ctx, cmd.UserID)
	})
	if txErr != nil {
		if errors.IsNotFoundError(txErr) {
			return txErr
		}
		uc.logger.Errorw("failed to delete user", "error", txErr, "user_id", cmd.UserID)
		return errors.NewStorageUnavailableError("user delete failed")
	}

	uc.logger.Infow("user deleted", "user_id", cmd.UserID)
	return nil
}
