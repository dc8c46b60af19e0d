package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/infrastructure/repository"
	"gatehouse/internal/shared/errors"
)

func newIssueUseCase(t *testing.T, allowAutoLink bool) (*IssueSessionUseCase, identity.UserRepository, identity.AccountRepository, identity.SessionRepository) {
	t.Helper()
	gdb := setupTestDB(t)
	userRepo := repository.NewUserRepository(gdb)
	accountRepo := repository.NewAccountRepository(gdb)
	sessionRepo := repository.NewSessionRepository(gdb)
	uc := NewIssueSessionUseCase(
		userRepo, accountRepo, sessionRepo, newTestTxManager(gdb),
		24*time.Hour, allowAutoLink, testLogger(),
	)
	return uc, userRepo, accountRepo, sessionRepo
}

func googleIdentity() ExternalIdentity {
	return ExternalIdentity{
		Provider:      "google",
		Subject:       "sub-123",
		Email:         "ada@example.com",
		Name:          "Ada Lovelace",
		AvatarURL:     "https://example.com/ada.png",
		EmailVerified: true,
	}
}

func TestIssueSession_FirstSignInCreatesUserAndAccount(t *testing.T) {
	uc, userRepo, accountRepo, _ := newIssueUseCase(t, false)
	ctx := context.Background()

	result, err := uc.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	assert.True(t, result.IsNewUser)
	assert.NotZero(t, result.User.ID)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.True(t, result.User.EmailVerified)
	assert.Len(t, result.Token, identity.TokenLength)
	assert.Equal(t, identity.HashToken(result.Token), result.Session.TokenHash)

	stored, err := userRepo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)

	account, err := accountRepo.GetByProviderAccount(ctx, "google", "sub-123")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, stored.ID, account.UserID)

	// The issued token validates as an active session for that user.
	validator := NewValidateSessionUseCase(uc.sessionRepo, userRepo, testLogger())
	validated, err := validator.Execute(ctx, ValidateSessionCommand{Token: result.Token})
	require.NoError(t, err)
	assert.Equal(t, StateActive, validated.State)
	assert.Equal(t, stored.ID, validated.User.ID)
}

func TestIssueSession_RepeatSignInReusesUser(t *testing.T) {
	uc, _, _, _ := newIssueUseCase(t, false)
	ctx := context.Background()

	first, err := uc.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	second, err := uc.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	assert.False(t, second.IsNewUser)
	assert.Equal(t, first.User.ID, second.User.ID)
	// Every issuance mints a fresh token; both sessions stay valid.
	assert.NotEqual(t, first.Token, second.Token)
	assert.NotEqual(t, first.Session.ID, second.Session.ID)
}

func TestIssueSession_EmailCollisionRefusedByDefault(t *testing.T) {
	uc, _, _, _ := newIssueUseCase(t, false)
	ctx := context.Background()

	_, err := uc.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	// Same email arrives from a different provider.
	collision := googleIdentity()
	collision.Provider = "github"
	collision.Subject = "gh-999"

	_, err = uc.Execute(ctx, IssueSessionCommand{Identity: collision})
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeIdentityConflict, appErr.Type)
	// The refusal must not name the colliding provider or account.
	assert.NotContains(t, appErr.Message, "google")
	assert.NotContains(t, appErr.Message, "github")
}

func TestIssueSession_EmailCollisionLinksWhenAllowed(t *testing.T) {
	uc, _, accountRepo, _ := newIssueUseCase(t, true)
	ctx := context.Background()

	first, err := uc.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	collision := googleIdentity()
	collision.Provider = "github"
	collision.Subject = "gh-999"

	second, err := uc.Execute(ctx, IssueSessionCommand{Identity: collision})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.False(t, second.IsNewUser)

	account, err := accountRepo.GetByProviderAccount(ctx, "github", "gh-999")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, first.User.ID, account.UserID)
}

func TestIssueSession_UnverifiedEmailNeverAutoLinks(t *testing.T) {
	uc, _, _, _ := newIssueUseCase(t, true)
	ctx := context.Background()

	_, err := uc.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	collision := googleIdentity()
	collision.Provider = "github"
	collision.Subject = "gh-999"
	collision.EmailVerified = false

	_, err = uc.Execute(ctx, IssueSessionCommand{Identity: collision})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeIdentityConflict, appErr.Type)
}

// blindAccountRepo hides the account on the first lookup, reproducing the
// window where two issuances for the same identity both see "no account".
type blindAccountRepo struct {
	identity.AccountRepository
	skipped bool
}

func (r *blindAccountRepo) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*identity.Account, error) {
	if !r.skipped {
		r.skipped = true
		return nil, nil
	}
	return r.AccountRepository.GetByProviderAccount(ctx, provider, providerAccountID)
}

// blindUserRepo hides the user on the first email lookup, so the loser also
// sees "no user" and attempts the insert.
type blindUserRepo struct {
	identity.UserRepository
	skipped bool
}

func (r *blindUserRepo) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	if !r.skipped {
		r.skipped = true
		return nil, nil
	}
	return r.UserRepository.GetByEmail(ctx, email)
}

func TestIssueSession_ConcurrentFirstSignInResolvesToWinner(t *testing.T) {
	gdb := setupTestDB(t)
	userRepo := repository.NewUserRepository(gdb)
	accountRepo := repository.NewAccountRepository(gdb)
	sessionRepo := repository.NewSessionRepository(gdb)
	ctx := context.Background()

	// The winner signed in first.
	winner := NewIssueSessionUseCase(
		userRepo, accountRepo, sessionRepo, newTestTxManager(gdb),
		24*time.Hour, false, testLogger(),
	)
	winnerResult, err := winner.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	// The loser misses both lookups and collides on insert. The unique
	// index resolves the race: the transaction fails with a duplicate and
	// the loser re-reads the winner's rows.
	loser := NewIssueSessionUseCase(
		&blindUserRepo{UserRepository: userRepo},
		&blindAccountRepo{AccountRepository: accountRepo},
		sessionRepo, newTestTxManager(gdb),
		24*time.Hour, false, testLogger(),
	)
	loserResult, err := loser.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	assert.Equal(t, winnerResult.User.ID, loserResult.User.ID)
	assert.False(t, loserResult.IsNewUser)
	assert.NotEqual(t, winnerResult.Token, loserResult.Token)

	// Exactly one user exists for the identity.
	var count int64
	require.NoError(t, gdb.Table("users").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIssueSession_RejectsIncompleteIdentity(t *testing.T) {
	uc, _, _, _ := newIssueUseCase(t, false)

	_, err := uc.Execute(context.Background(), IssueSessionCommand{
		Identity: ExternalIdentity{Provider: "google"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
