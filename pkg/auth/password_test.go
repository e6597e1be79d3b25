package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmaloney/backoffice/pkg/auth"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, auth.ComparePassword(hash, "password123"))
	assert.Error(t, auth.ComparePassword(hash, "wrong-password"))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := auth.HashPassword("password123")
	require.NoError(t, err)
	second, err := auth.HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "bcrypt salts must differ per hash")
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, auth.ValidatePassword("password123"))
	assert.NoError(t, auth.ValidatePassword("12345678"))
	assert.Error(t, auth.ValidatePassword("short"))
	assert.Error(t, auth.ValidatePassword(""))
}

func TestValidatePassword_BcryptLengthCap(t *testing.T) {
	// bcrypt silently truncates beyond 72 bytes; the validator rejects those
	long := strings.Repeat("a", 73)
	assert.Error(t, auth.ValidatePassword(long))
}
