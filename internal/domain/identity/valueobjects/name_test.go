package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewName(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		name, err := NewName("  Ada Lovelace  ")
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", name.String())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewName("   ")
		assert.Error(t, err)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		name, err := NewName(strings.Repeat("日", 100))
		require.NoError(t, err)
		assert.NotNil(t, name)

		_, err = NewName(strings.Repeat("日", 101))
		assert.Error(t, err)
	})
}
