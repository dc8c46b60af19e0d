package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/shared/errors"
)

func createTestVerification(t *testing.T, repo identity.VerificationRepository, identifier string, now time.Time, lifetime time.Duration) (*identity.Verification, string) {
	t.Helper()
	verification, rawValue, err := identity.NewVerification(identifier, identity.VerificationPurposeEmail, now, lifetime)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), verification))
	return verification, rawValue
}

func TestVerificationRepository_GetByIdentifier(t *testing.T) {
	gdb := setupTestDB(t)
	verifications := NewVerificationRepository(gdb)
	ctx := context.Background()

	now := time.Now().UTC()

	t.Run("absent is nil without error", func(t *testing.T) {
		found, err := verifications.GetByIdentifier(ctx, "ghost@example.com", identity.VerificationPurposeEmail)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("returns the newest challenge for an identifier", func(t *testing.T) {
		_, _ = createTestVerification(t, verifications, "ada@example.com", now.Add(-time.Minute), time.Hour)
		newest, rawValue := createTestVerification(t, verifications, "ada@example.com", now, time.Hour)

		found, err := verifications.GetByIdentifier(ctx, "ada@example.com", identity.VerificationPurposeEmail)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, newest.ID, found.ID)
		assert.True(t, found.Matches(rawValue))
	})
}

func TestVerificationRepository_Delete(t *testing.T) {
	gdb := setupTestDB(t)
	verifications := NewVerificationRepository(gdb)
	ctx := context.Background()

	created, _ := createTestVerification(t, verifications, "ada@example.com", time.Now().UTC(), time.Hour)

	require.NoError(t, verifications.Delete(ctx, created.ID))

	found, err := verifications.GetByIdentifier(ctx, "ada@example.com", identity.VerificationPurposeEmail)
	require.NoError(t, err)
	assert.Nil(t, found)

	// A consumed challenge cannot be deleted twice.
	err = verifications.Delete(ctx, created.ID)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestVerificationRepository_DeleteExpired(t *testing.T) {
	gdb := setupTestDB(t)
	verifications := NewVerificationRepository(gdb)
	ctx := context.Background()

	now := time.Now().UTC()
	live, _ := createTestVerification(t, verifications, "live@example.com", now, time.Hour)
	_, _ = createTestVerification(t, verifications, "dead@example.com", now.Add(-2*time.Hour), time.Hour)

	require.NoError(t, verifications.DeleteExpired(ctx, now))

	found, err := verifications.GetByIdentifier(ctx, "live@example.com", identity.VerificationPurposeEmail)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, live.ID, found.ID)

	gone, err := verifications.GetByIdentifier(ctx, "dead@example.com", identity.VerificationPurposeEmail)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
