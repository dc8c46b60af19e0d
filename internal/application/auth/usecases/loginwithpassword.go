package usecases

import (
	"context"
	"time"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/shared/clock"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/logger"
)

type LoginWithPasswordCommand struct {
	Email    string
	Password string
	Metadata SessionMetadata
}

// LoginWithPasswordUseCase authenticates a password credential and mints a
// session. Failures never reveal whether the email or the password was
// wrong, and an unverified email blocks sign-in outright.
type LoginWithPasswordUseCase struct {
	userRepo        identity.UserRepository
	sessionRepo     identity.SessionRepository
	hasher          PasswordHasher
	sessionLifetime time.Duration
	logger          logger.Interface
}

func NewLoginWithPasswordUseCase(
	userRepo identity.UserRepository,
	sessionRepo identity.SessionRepository,
	hasher PasswordHasher,
	sessionLifetime time.Duration,
	logger logger.Interface,
) *LoginWithPasswordUseCase {
	return &LoginWithPasswordUseCase{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		hasher:          hasher,
		sessionLifetime: sessionLifetime,
		logger:          logger,
	}
}

func (uc *LoginWithPasswordUseCase) Execute(ctx context.Context, cmd LoginWithPasswordCommand) (*IssueSessionResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		uc.logger.Errorw("failed to look up user by email", "error", err)
		return nil, errors.NewStorageUnavailableError("user lookup failed")
	}
	if user == nil || user.PasswordHash == nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	if err := uc.hasher.Verify(cmd.Password, *user.PasswordHash); err != nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	if !user.EmailVerified {
		return nil, errors.NewEmailNotVerifiedError()
	}

	now := clock.NowUTC()
	session, token, err := newSessionWithToken(user.ID, cmd.Metadata, now, uc.sessionLifetime)
	if err != nil {
		return nil, errors.NewInternalError("failed to mint session")
	}

	if err := withStorageRetry(ctx, func(ctx context.Context) error {
		return uc.sessionRepo.Create(ctx, session)
	}); err != nil {
		uc.logger.Errorw("failed to persist session", "error", err, "user_id", user.ID)
		return nil, errors.NewStorageUnavailableError("session write failed")
	}

	uc.logger.Infow("password login successful", "user_id", user.ID)

	return &IssueSessionResult{
		User:    user,
		Session: session,
		Token:   token,
	}, nil
}
