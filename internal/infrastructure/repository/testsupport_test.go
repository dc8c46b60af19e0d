package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.UserModel{},
		&models.AccountModel{},
		&models.SessionModel{},
		&models.VerificationModel{},
	)
	require.NoError(t, err)

	return gdb
}

func createTestUser(t *testing.T, repo identity.UserRepository, email string) *identity.User {
	t.Helper()
	now := time.Now().UTC()
	user := &identity.User{
		Email:     email,
		Name:      "Test User",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func createTestSession(t *testing.T, repo identity.SessionRepository, userID uint, lifetime time.Duration) (*identity.Session, string) {
	t.Helper()
	token, err := identity.GenerateToken()
	require.NoError(t, err)

	session, err := identity.NewSession(userID, "203.0.113.7", "test-agent", time.Now().UTC(), lifetime)
	require.NoError(t, err)
	session.TokenHash = identity.HashToken(token)
	require.NoError(t, repo.Create(context.Background(), session))
	return session, token
}
