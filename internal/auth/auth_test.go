package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewService("signing-secret", "operator", "hunter2")

	token, err := service.GenerateToken(Credentials{APIKey: "operator", APISecret: "hunter2"})
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	claims, err := service.ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.ClientID)
}

func TestGenerateToken_InvalidCredentials(t *testing.T) {
	service := NewService("signing-secret", "operator", "hunter2")

	_, err := service.GenerateToken(Credentials{APIKey: "operator", APISecret: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewService("signing-secret", "operator", "hunter2")
	verifier := NewService("other-secret", "operator", "hunter2")

	token, err := issuer.GenerateToken(Credentials{APIKey: "operator", APISecret: "hunter2"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token.Token)
	assert.Error(t, err)
}
