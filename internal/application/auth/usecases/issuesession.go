package usecases

import (
	"context"
	"fmt"
	"time"

	"gatehouse/internal/domain/identity"
	vo "gatehouse/internal/domain/identity/valueobjects"
	"gatehouse/internal/shared/clock"
	"gatehouse/internal/shared/db"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/logger"
)

type IssueSessionCommand struct {
	Identity ExternalIdentity
	Metadata SessionMetadata
}

type IssueSessionResult struct {
	User      *identity.User
	Session   *identity.Session
	Token     string
	IsNewUser bool
}

// IssueSessionUseCase turns a verified external identity into a session
// grant. It resolves the identity to a user, creating user and account
// rows atomically for first-time sign-ins, and mints a fresh opaque token.
type IssueSessionUseCase struct {
	userRepo        identity.UserRepository
	accountRepo     identity.AccountRepository
	sessionRepo     identity.SessionRepository
	txManager       *db.TransactionManager
	sessionLifetime time.Duration
	allowAutoLink   bool
	logger          logger.Interface
}

func NewIssueSessionUseCase(
	userRepo identity.UserRepository,
	accountRepo identity.AccountRepository,
	sessionRepo identity.SessionRepository,
	txManager *db.TransactionManager,
	sessionLifetime time.Duration,
	allowAutoLink bool,
	logger logger.Interface,
) *IssueSessionUseCase {
	return &IssueSessionUseCase{
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		sessionRepo:     sessionRepo,
		txManager:       txManager,
		sessionLifetime: sessionLifetime,
		allowAutoLink:   allowAutoLink,
		logger:          logger,
	}
}

func (uc *IssueSessionUseCase) Execute(ctx context.Context, cmd IssueSessionCommand) (*IssueSessionResult, error) {
	ext := cmd.Identity
	if ext.Provider == "" || ext.Subject == "" {
		return nil, errors.NewValidationError("provider and subject are required")
	}

	now := clock.NowUTC()

	user, isNewUser, err := uc.resolveUser(ctx, ext, now)
	if err != nil {
		return nil, err
	}

	session, token, err := newSessionWithToken(user.ID, cmd.Metadata, now, uc.sessionLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to mint session: %w", err)
	}

	if err := withStorageRetry(ctx, func(ctx context.Context) error {
		return uc.sessionRepo.Create(ctx, session)
	}); err != nil {
		uc.logger.Errorw("failed to persist session", "error", err, "user_id", user.ID)
		return nil, errors.NewStorageUnavailableError("session write failed")
	}

	uc.logger.Infow("session issued",
		"user_id", user.ID,
		"provider", ext.Provider,
		"is_new_user", isNewUser,
	)

	return &IssueSessionResult{
		User:      user,
		Session:   session,
		Token:     token,
		IsNewUser: isNewUser,
	}, nil
}

// resolveUser maps the external identity to a user. The account lookup is
// authoritative; email matching only decides between linking and refusing.
func (uc *IssueSessionUseCase) resolveUser(ctx context.Context, ext ExternalIdentity, now time.Time) (*identity.User, bool, error) {
	var account *identity.Account
	if err := withStorageRetry(ctx, func(ctx context.Context) error {
		var lookupErr error
		account, lookupErr = uc.accountRepo.GetByProviderAccount(ctx, ext.Provider, ext.Subject)
		return lookupErr
	}); err != nil {
		uc.logger.Errorw("failed to look up account", "error", err, "provider", ext.Provider)
		return nil, false, errors.NewStorageUnavailableError("account lookup failed")
	}

	if account != nil {
		user, err := uc.userRepo.GetByID(ctx, account.UserID)
		if err != nil {
			uc.logger.Errorw("failed to load user for account", "error", err, "user_id", account.UserID)
			return nil, false, errors.NewStorageUnavailableError("user lookup failed")
		}

		user.SyncProfile(ext.Name, ext.AvatarURL, now)
		if ext.EmailVerified && !user.EmailVerified {
			user.MarkEmailVerified(now)
		}
		if err := uc.userRepo.Update(ctx, user); err != nil {
			// Profile sync is best effort; sign-in still succeeds.
			uc.logger.Warnw("failed to sync user profile", "error", err, "user_id", user.ID)
		}
		return user, false, nil
	}

	existing, err := uc.userRepo.GetByEmail(ctx, ext.Email)
	if err != nil {
		uc.logger.Errorw("failed to look up user by email", "error", err)
		return nil, false, errors.NewStorageUnavailableError("user lookup failed")
	}

	if existing != nil {
		// The email belongs to a user reached through other means. Linking
		// a new provider automatically is off by default.
		if !uc.allowAutoLink || !ext.EmailVerified {
			uc.logger.Warnw("identity conflict refused",
				"provider", ext.Provider,
				"user_id", existing.ID,
			)
			return nil, false, errors.NewIdentityConflictError()
		}
		if err := uc.linkAccount(ctx, existing.ID, ext, now); err != nil {
			return nil, false, err
		}
		uc.logger.Infow("provider linked to existing user",
			"provider", ext.Provider,
			"user_id", existing.ID,
		)
		return existing, false, nil
	}

	return uc.createUserWithAccount(ctx, ext, now)
}

// createUserWithAccount creates the user and its provider linkage in one
// transaction. A duplicate-key failure means a concurrent issuance won the
// race; the loser re-reads the winner's rows and proceeds with them.
func (uc *IssueSessionUseCase) createUserWithAccount(ctx context.Context, ext ExternalIdentity, now time.Time) (*identity.User, bool, error) {
	email, err := vo.NewEmail(ext.Email)
	if err != nil {
		return nil, false, errors.NewValidationError("invalid email from provider", err.Error())
	}
	name, err := vo.NewName(ext.Name)
	if err != nil {
		return nil, false, errors.NewValidationError("invalid name from provider", err.Error())
	}

	user, err := identity.NewUser(email, name, now)
	if err != nil {
		return nil, false, errors.NewValidationError(err.Error())
	}
	user.AvatarURL = ext.AvatarURL
	if ext.EmailVerified {
		user.MarkEmailVerified(now)
	}

	txErr := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}
		account, err := identity.NewAccount(user.ID, ext.Provider, ext.Subject, ext.Email, now)
		if err != nil {
			return err
		}
		return uc.accountRepo.Create(ctx, account)
	})
	if txErr == nil {
		return user, true, nil
	}

	if errors.IsDuplicateError(txErr) {
		winner, err := uc.accountRepo.GetByProviderAccount(ctx, ext.Provider, ext.Subject)
		if err != nil || winner == nil {
			uc.logger.Errorw("failed to resolve concurrent issuance", "error", err, "provider", ext.Provider)
			return nil, false, errors.NewStorageUnavailableError("account lookup failed")
		}
		existing, err := uc.userRepo.GetByID(ctx, winner.UserID)
		if err != nil {
			return nil, false, errors.NewStorageUnavailableError("user lookup failed")
		}
		uc.logger.Infow("concurrent issuance resolved to existing account",
			"provider", ext.Provider,
			"user_id", existing.ID,
		)
		return existing, false, nil
	}

	uc.logger.Errorw("failed to create user with account", "error", txErr)
	return nil, false, errors.NewStorageUnavailableError("identity write failed")
}

func (uc *IssueSessionUseCase) linkAccount(ctx context.Context, userID uint, ext ExternalIdentity, now time.Time) error {
	account, err := identity.NewAccount(userID, ext.Provider, ext.Subject, ext.Email, now)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		if errors.IsDuplicateError(err) {
			// Linked concurrently; the linkage now exists, which is what
			// we wanted.
			return nil
		}
		uc.logger.Errorw("failed to link account", "error", err, "user_id", userID)
		return errors.NewStorageUnavailableError("account write failed")
	}
	return nil
}
