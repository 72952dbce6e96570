package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, tokenID, err := svc.GenerateToken(userID, "alice@example.com", "patient")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "patient", claims.Role)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewJWTService("secret-a", time.Hour)
	token, _, err := svc.GenerateToken(uuid.New(), "bob@example.com", "doctor")
	require.NoError(t, err)

	other := NewJWTService("secret-b", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)
	token, _, err := svc.GenerateToken(uuid.New(), "carol@example.com", "admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
