package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWTUtil("secret", 24)
	token, err := j.GenerateToken(7, "ada@example.com", "admin")
	require.NoError(t, err)

	claims, err := j.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTWrongSecret(t *testing.T) {
	j := NewJWTUtil("secret", 24)
	token, err := j.GenerateToken(7, "ada@example.com", "customer")
	require.NoError(t, err)

	other := NewJWTUtil("another-secret", 24)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTExpired(t *testing.T) {
	j := NewJWTUtil("secret", -1)
	token, err := j.GenerateToken(7, "ada@example.com", "customer")
	require.NoError(t, err)

	_, err = j.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
