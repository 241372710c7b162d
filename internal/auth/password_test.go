package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("parola123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "parola123", hash)

	assert.NoError(t, CheckPassword("parola123", hash))
	assert.ErrorIs(t, CheckPassword("yanlis", hash), ErrInvalidPassword)
}

func TestHashPasswordLengthLimits(t *testing.T) {
	_, err := HashPassword("kisa", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// Exactly at the bcrypt limit is fine
	_, err = HashPassword(strings.Repeat("a", 72), bcrypt.MinCost)
	assert.NoError(t, err)
}

func TestGenerateAPIToken(t *testing.T) {
	plaintext, hash, err := GenerateAPIToken()
	require.NoError(t, err)

	assert.Len(t, plaintext, 64) // 32 bytes hex-encoded
	assert.Equal(t, HashToken(plaintext), hash)
	assert.NotEqual(t, plaintext, hash)

	// Tokens are unique
	plaintext2, _, err := GenerateAPIToken()
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, plaintext2)
}

func TestGenerateSessionSecret(t *testing.T) {
	secret, err := GenerateSessionSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 64)
}
