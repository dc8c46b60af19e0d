package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gatehouse/internal/infrastructure/auth"
	"gatehouse/internal/infrastructure/repository"
	"gatehouse/internal/shared/errors"
)

func tableCount(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, gdb.Table(table).Count(&count).Error)
	return count
}

func TestDeleteUser_RemovesAllOwnedRows(t *testing.T) {
	gdb := setupTestDB(t)
	userRepo := repository.NewUserRepository(gdb)
	accountRepo := repository.NewAccountRepository(gdb)
	sessionRepo := repository.NewSessionRepository(gdb)
	verificationRepo := repository.NewVerificationRepository(gdb)
	txManager := newTestTxManager(gdb)
	log := testLogger()
	ctx := context.Background()

	// A user with a provider account and a live session.
	issuer := NewIssueSessionUseCase(userRepo, accountRepo, sessionRepo, txManager, 24*time.Hour, false, log)
	issued, err := issuer.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	// Plus a pending verification challenge for a password credential.
	register := NewRegisterWithPasswordUseCase(userRepo, verificationRepo, txManager,
		auth.NewBcryptPasswordHasher(bcrypt.MinCost), newCaptureMailer(), 24*time.Hour, log)
	other, err := register.Execute(ctx, RegisterWithPasswordCommand{
		Email: "grace@example.com", Name: "Grace Hopper", Password: "long enough",
	})
	require.NoError(t, err)

	uc := NewDeleteUserUseCase(userRepo, accountRepo, sessionRepo, verificationRepo, txManager, log)
	require.NoError(t, uc.Execute(ctx, DeleteUserCommand{UserID: issued.User.ID}))

	_, err = userRepo.GetByID(ctx, issued.User.ID)
	assert.True(t, errors.IsNotFoundError(err))

	account, err := accountRepo.GetByProviderAccount(ctx, "google", "sub-123")
	require.NoError(t, err)
	assert.Nil(t, account)

	_, err = sessionRepo.GetByTokenHash(ctx, issued.Session.TokenHash)
	assert.True(t, errors.IsNotFoundError(err))

	// The other user is untouched.
	survivor, err := userRepo.GetByID(ctx, other.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", survivor.Email)
	assert.Equal(t, int64(1), tableCount(t, gdb, "verifications"))
}

func TestDeleteUser_DeletesPendingVerification(t *testing.T) {
	gdb := setupTestDB(t)
	userRepo := repository.NewUserRepository(gdb)
	accountRepo := repository.NewAccountRepository(gdb)
	sessionRepo := repository.NewSessionRepository(gdb)
	verificationRepo := repository.NewVerificationRepository(gdb)
	txManager := newTestTxManager(gdb)
	log := testLogger()
	ctx := context.Background()

	mailer := newCaptureMailer()
	register := NewRegisterWithPasswordUseCase(userRepo, verificationRepo, txManager,
		auth.NewBcryptPasswordHasher(bcrypt.MinCost), mailer, 24*time.Hour, log)
	registered, err := register.Execute(ctx, RegisterWithPasswordCommand{
		Email: "ada@example.com", Name: "Ada", Password: "long enough",
	})
	require.NoError(t, err)
	mailer.wait(t)

	uc := NewDeleteUserUseCase(userRepo, accountRepo, sessionRepo, verificationRepo, txManager, log)
	require.NoError(t, uc.Execute(ctx, DeleteUserCommand{UserID: registered.User.ID}))

	assert.Equal(t, int64(0), tableCount(t, gdb, "users"))
	assert.Equal(t, int64(0), tableCount(t, gdb, "verifications"))
}

func TestDeleteUser_UnknownUser(t *testing.T) {
	gdb := setupTestDB(t)
	uc := NewDeleteUserUseCase(
		repository.NewUserRepository(gdb),
		repository.NewAccountRepository(gdb),
		repository.NewSessionRepository(gdb),
		repository.NewVerificationRepository(gdb),
		newTestTxManager(gdb),
		testLogger(),
	)

	err := uc.Execute(context.Background(), DeleteUserCommand{UserID: 12345})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSweepExpired_RemovesOnlyDeadRows(t *testing.T) {
	gdb := setupTestDB(t)
	userRepo := repository.NewUserRepository(gdb)
	accountRepo := repository.NewAccountRepository(gdb)
	sessionRepo := repository.NewSessionRepository(gdb)
	verificationRepo := repository.NewVerificationRepository(gdb)
	txManager := newTestTxManager(gdb)
	log := testLogger()
	ctx := context.Background()

	// A live session, issued with a long lifetime.
	longLived := NewIssueSessionUseCase(userRepo, accountRepo, sessionRepo, txManager, 24*time.Hour, false, log)
	_, err := longLived.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	// A session that expires immediately.
	shortLived := NewIssueSessionUseCase(userRepo, accountRepo, sessionRepo, txManager, time.Nanosecond, false, log)
	_, err = shortLived.Execute(ctx, IssueSessionCommand{Identity: googleIdentity()})
	require.NoError(t, err)

	require.Equal(t, int64(2), tableCount(t, gdb, "sessions"))

	uc := NewSweepExpiredUseCase(sessionRepo, verificationRepo, log)
	require.NoError(t, uc.Execute(ctx))

	assert.Equal(t, int64(1), tableCount(t, gdb, "sessions"))
}
