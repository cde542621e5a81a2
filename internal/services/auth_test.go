package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testTokenService() TokenService {
	return TokenService{
		Secret:    []byte("test-secret"),
		Issuer:    "smartlighting",
		AccessTTL: time.Hour,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	svc := testTokenService()
	hash, err := svc.HashPassword("parola123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, svc.VerifyPassword("parola123", hash))
	assert.False(t, svc.VerifyPassword("wrong", hash))
	assert.False(t, svc.VerifyPassword("parola123", "not-a-hash"))
}

func TestVerifyPasswordBcryptFallback(t *testing.T) {
	svc := testTokenService()
	hash, err := bcrypt.GenerateFromPassword([]byte("legacy"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, svc.VerifyPassword("legacy", string(hash)))
	assert.False(t, svc.VerifyPassword("other", string(hash)))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := testTokenService()
	signed, exp, err := svc.CreateAccessToken("admin@example.com", "full_access")
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	token, claims, err := svc.ParseToken(signed)
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "admin@example.com", claims["sub"])
	assert.Equal(t, "access", claims["typ"])
	assert.Equal(t, "full_access", claims["rights"])
}

func TestParseTokenRejectsWrongIssuer(t *testing.T) {
	other := TokenService{Secret: []byte("test-secret"), Issuer: "someone-else", AccessTTL: time.Hour}
	signed, _, err := other.CreateAccessToken("admin@example.com", "full_access")
	require.NoError(t, err)

	svc := testTokenService()
	_, _, err = svc.ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	other := TokenService{Secret: []byte("different"), Issuer: "smartlighting", AccessTTL: time.Hour}
	signed, _, err := other.CreateAccessToken("admin@example.com", "full_access")
	require.NoError(t, err)

	svc := testTokenService()
	_, _, err = svc.ParseToken(signed)
	assert.Error(t, err)
}
