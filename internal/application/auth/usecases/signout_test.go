package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/domain/identity"
	"gatehouse/internal/shared/errors"
)

func TestSignOut_DeletesSession(t *testing.T) {
	sessions := newMemSessionRepo()
	users := newMemUserRepo()
	token, _ := seedSession(t, sessions, users, time.Hour)

	uc := NewSignOutUseCase(sessions, testLogger())
	require.NoError(t, uc.Execute(context.Background(), SignOutCommand{Token: token}))
	assert.Equal(t, 0, sessions.count())

	// The token no longer validates.
	validator := NewValidateSessionUseCase(sessions, users, testLogger())
	result, err := validator.Execute(context.Background(), ValidateSessionCommand{Token: token})
	require.NoError(t, err)
	assert.Equal(t, StateAbsent, result.State)
}

func TestSignOut_IsIdempotent(t *testing.T) {
	sessions := newMemSessionRepo()
	users := newMemUserRepo()
	token, _ := seedSession(t, sessions, users, time.Hour)

	uc := NewSignOutUseCase(sessions, testLogger())
	require.NoError(t, uc.Execute(context.Background(), SignOutCommand{Token: token}))
	// Signing out again with the same dead token still succeeds.
	require.NoError(t, uc.Execute(context.Background(), SignOutCommand{Token: token}))

	unknown, err := identity.GenerateToken()
	require.NoError(t, err)
	require.NoError(t, uc.Execute(context.Background(), SignOutCommand{Token: unknown}))
}

func TestSignOut_MalformedTokenIsNoOp(t *testing.T) {
	sessions := newMemSessionRepo()
	users := newMemUserRepo()
	_, _ = seedSession(t, sessions, users, time.Hour)

	uc := NewSignOutUseCase(sessions, testLogger())
	require.NoError(t, uc.Execute(context.Background(), SignOutCommand{Token: "not-a-token"}))

	// The live session is untouched.
	assert.Equal(t, 1, sessions.count())
}

func TestSignOut_StorageOutageSurfaces(t *testing.T) {
	sessions := newMemSessionRepo()
	sessions.failAll = true

	token, err := identity.GenerateToken()
	require.NoError(t, err)

	uc := NewSignOutUseCase(sessions, testLogger())
	err = uc.Execute(context.Background(), SignOutCommand{Token: token})
	require.Error(t, err)
	assert.True(t, errors.IsStorageUnavailableError(err))
}
