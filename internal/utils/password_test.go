package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", hash)

	t.Run("round trip", func(t *testing.T) {
		assert.True(t, VerifyPassword(hash, "Sup3rSecret"))
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		assert.False(t, VerifyPassword(hash, "sup3rsecret"))
	})

	t.Run("garbage hash rejected", func(t *testing.T) {
		assert.False(t, VerifyPassword("not-a-bcrypt-hash", "Sup3rSecret"))
	})
}
