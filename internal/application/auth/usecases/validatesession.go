package usecases

import (
	"context"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/shared/clock"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/goroutine"
	"gatehouse/internal/shared/logger"
)

// SessionState is the outcome of validating a presented credential.
type SessionState string

const (
	// StateActive means the session exists and has not expired.
	StateActive SessionState = "active"
	// StateAbsent means no session matches the credential.
	StateAbsent SessionState = "absent"
	// StateExpired means a session matched but its expiry has passed.
	StateExpired SessionState = "expired"
	// StateMalformed means the credential does not have the token shape;
	// storage was never consulted.
	StateMalformed SessionState = "malformed"
)

type ValidateSessionCommand struct {
	Token string
}

type ValidateSessionResult struct {
	State   SessionState
	Session *identity.Session
	User    *identity.User
}

// ValidateSessionUseCase resolves a presented token to a session state.
// Validation is a pure read: one indexed lookup by token hash, one user
// load on the active path. A storage outage is reported as such, never
// mistaken for an absent session.
type ValidateSessionUseCase struct {
	sessionRepo identity.SessionRepository
	userRepo    identity.UserRepository
	logger      logger.Interface
}

func NewValidateSessionUseCase(
	sessionRepo identity.SessionRepository,
	userRepo identity.UserRepository,
	logger logger.Interface,
) *ValidateSessionUseCase {
	return &ValidateSessionUseCase{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (uc *ValidateSessionUseCase) Execute(ctx context.Context, cmd ValidateSessionCommand) (*ValidateSessionResult, error) {
	if !identity.IsWellFormedToken(cmd.Token) {
		return &ValidateSessionResult{State: StateMalformed}, nil
	}

	tokenHash := identity.HashToken(cmd.Token)

	var session *identity.Session
	err := withStorageRetry(ctx, func(ctx context.Context) error {
		var lookupErr error
		session, lookupErr = uc.sessionRepo.GetByTokenHash(ctx, tokenHash)
		return lookupErr
	})
	if err != nil {
		if errors.IsNotFoundError(err) {
			return &ValidateSessionResult{State: StateAbsent}, nil
		}
		uc.logger.Errorw("session lookup failed", "error", err)
		return nil, errors.NewStorageUnavailableError("session lookup failed")
	}

	now := clock.NowUTC()
	if session.IsExpiredAt(now) {
		// Remove the dead row off the request path. Best effort; the
		// sweeper catches anything this misses.
		uc.deleteExpiredAsync(session.ID)
		return &ValidateSessionResult{State: StateExpired}, nil
	}

	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			// Owner is gone; the grant is worthless.
			uc.deleteExpiredAsync(session.ID)
			return &ValidateSessionResult{State: StateAbsent}, nil
		}
		uc.logger.Errorw("user lookup failed", "error", err, "user_id", session.UserID)
		return nil, errors.NewStorageUnavailableError("user lookup failed")
	}

	return &ValidateSessionResult{
		State:   StateActive,
		Session: session,
		User:    user,
	}, nil
}

func (uc *ValidateSessionUseCase) deleteExpiredAsync(sessionID string) {
	goroutine.SafeGo(uc.logger, "session-lazy-delete", func() {
		if err := uc.sessionRepo.Delete(context.Background(), sessionID); err != nil && !errors.IsNotFoundError(err) {
			uc.logger.Warnw("failed to delete stale session", "error", err, "session_id", sessionID)
		}
	})
}
