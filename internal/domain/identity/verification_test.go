package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerification(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("stores only the hash of the value", func(t *testing.T) {
		verification, rawValue, err := NewVerification("user@example.com", VerificationPurposeEmail, now, 24*time.Hour)
		require.NoError(t, err)
		assert.NotEmpty(t, rawValue)
		assert.NotEqual(t, rawValue, verification.ValueHash)
		assert.Equal(t, HashToken(rawValue), verification.ValueHash)
	})

	t.Run("rejects empty identifier", func(t *testing.T) {
		_, _, err := NewVerification("", VerificationPurposeEmail, now, time.Hour)
		assert.Error(t, err)
	})
}

func TestVerificationMatches(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	verification, rawValue, err := NewVerification("user@example.com", VerificationPurposeEmail, now, time.Hour)
	require.NoError(t, err)

	assert.True(t, verification.Matches(rawValue))
	assert.False(t, verification.Matches("not-the-value"))
	assert.False(t, verification.Matches(""))
}

func TestVerificationIsExpiredAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	verification, _, err := NewVerification("user@example.com", VerificationPurposeEmail, now, time.Hour)
	require.NoError(t, err)

	assert.False(t, verification.IsExpiredAt(now))
	assert.True(t, verification.IsExpiredAt(verification.ExpiresAt))
}
