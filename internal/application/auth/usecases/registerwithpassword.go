package usecases

import (
	"context"
	"time"

	"gatehouse/internal/domain/identity"
	vo "gatehouse/internal/domain/identity/valueobjects"
	"gatehouse/internal/shared/clock"
	"gatehouse/internal/shared/db"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/goroutine"
	"gatehouse/internal/shared/logger"
)

const minPasswordLength = 8

type RegisterWithPasswordCommand struct {
	Email    string
	Name     string
	Password string
}

type RegisterWithPasswordResult struct {
	User *identity.User
}

// RegisterWithPasswordUseCase creates a password-credentialed user and
// issues an email verification challenge. No session is minted here;
// sign-in is blocked until the email is verified.
type RegisterWithPasswordUseCase struct {
	userRepo             identity.UserRepository
	verificationRepo     identity.VerificationRepository
	txManager            *db.TransactionManager
	hasher               PasswordHasher
	mailer               Mailer
	verificationLifetime time.Duration
	logger               logger.Interface
}

func NewRegisterWithPasswordUseCase(
	userRepo identity.UserRepository,
	verificationRepo identity.VerificationRepository,
	txManager *db.TransactionManager,
	hasher PasswordHasher,
	mailer Mailer,
	verificationLifetime time.Duration,
	logger logger.Interface,
) *RegisterWithPasswordUseCase {
	return &RegisterWithPasswordUseCase{
		userRepo:             userRepo,
		verificationRepo:     verificationRepo,
		txManager:            txManager,
		hasher:               hasher,
		mailer:               mailer,
		verificationLifetime: verificationLifetime,
		logger:               logger,
	}
}

func (uc *RegisterWithPasswordUseCase) Execute(ctx context.Context, cmd RegisterWithPasswordCommand) (*RegisterWithPasswordResult, error) {
	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewValidationError("invalid email", err.Error())
	}
	name, err := vo.NewName(cmd.Name)
	if err != nil {
		return nil, errors.NewValidationError("invalid name", err.Error())
	}
	if len(cmd.Password) < minPasswordLength {
		return nil, errors.NewValidationError("password must be at least 8 characters")
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email.String())
	if err != nil {
		uc.logger.Errorw("failed to look up user by email", "error", err)
		return nil, errors.NewStorageUnavailableError("user lookup failed")
	}
	if existing != nil {
		return nil, errors.NewConflictError("email already registered")
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to process registration")
	}

	now := clock.NowUTC()
	user, err := identity.NewUser(email, name, now)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	user.SetPasswordHash(hash, now)

	verification, rawValue, err := identity.NewVerification(email.String(), identity.VerificationPurposeEmail, now, uc.verificationLifetime)
	if err != nil {
		return nil, errors.NewInternalError("failed to create verification challenge")
	}

	txErr := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return uc.verificationRepo.Create(ctx, verification)
	})
	if txErr != nil {
		if errors.IsDuplicateError(txErr) || errors.IsConflictError(txErr) {
			return nil, errors.NewConflictError("email already registered")
		}
		uc.logger.Errorw("failed to register user", "error", txErr)
		return nil, errors.NewStorageUnavailableError("registration write failed")
	}

	goroutine.SafeGo(uc.logger, "send-verification-email", func() {
		if err := uc.mailer.SendVerificationEmail(user.Email, rawValue); err != nil {
			uc.logger.Errorw("failed to send verification email", "error", err, "user_id", user.ID)
		}
	})

	uc.logger.Infow("user registered", "user_id", user.ID)

	return &RegisterWithPasswordResult{User: user}, nil
}
