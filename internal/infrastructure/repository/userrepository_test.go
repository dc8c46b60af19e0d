package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/shared/errors"
)

func TestUserRepository_Create(t *testing.T) {
	gdb := setupTestDB(t)
	users := NewUserRepository(gdb)
	ctx := context.Background()

	t.Run("assigns ID", func(t *testing.T) {
		user := createTestUser(t, users, "ada@example.com")
		assert.NotZero(t, user.ID)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		dup := createTestUser(t, users, "grace@example.com")
		dup.ID = 0
		err := users.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
		assert.True(t, errors.IsDuplicateError(err))
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	gdb := setupTestDB(t)
	users := NewUserRepository(gdb)
	ctx := context.Background()

	created := createTestUser(t, users, "ada@example.com")

	found, err := users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	// Absent is nil, not an error. The caller decides what absence means.
	missing, err := users.GetByEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_Update(t *testing.T) {
	gdb := setupTestDB(t)
	users := NewUserRepository(gdb)
	ctx := context.Background()

	user := createTestUser(t, users, "ada@example.com")
	user.MarkEmailVerified(time.Now().UTC())
	user.AvatarURL = "https://example.com/ada.png"
	require.NoError(t, users.Update(ctx, user))

	found, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.EmailVerified)
	assert.Equal(t, "https://example.com/ada.png", found.AvatarURL)
}

func TestUserRepository_Delete(t *testing.T) {
	gdb := setupTestDB(t)
	users := NewUserRepository(gdb)
	ctx := context.Background()

	user := createTestUser(t, users, "ada@example.com")
	require.NoError(t, users.Delete(ctx, user.ID))

	_, err := users.GetByID(ctx, user.ID)
	assert.True(t, errors.IsNotFoundError(err))

	err = users.Delete(ctx, user.ID)
	assert.True(t, errors.IsNotFoundError(err))
}
