package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthService("test-secret-at-least-32-bytes-long!", time.Hour)

	token, err := auth.GenerateToken("family")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "family", subject)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	auth := NewAuthService("test-secret-at-least-32-bytes-long!", time.Hour)
	other := NewAuthService("a-completely-different-secret-value", time.Hour)

	token, err := auth.GenerateToken("family")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	auth := NewAuthService("test-secret-at-least-32-bytes-long!", -time.Minute)

	token, err := auth.GenerateToken("family")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth := NewAuthService("test-secret-at-least-32-bytes-long!", time.Hour)
	_, err := auth.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestCheckFamilyPassword(t *testing.T) {
	auth := NewAuthService("test-secret-at-least-32-bytes-long!", time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, auth.CheckFamilyPassword(string(hash), "hunter2"))
	assert.Error(t, auth.CheckFamilyPassword(string(hash), "wrong"))
}
