package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRTokenValidateOnce(t *testing.T) {
	store := NewQRTokenStore(10 * time.Minute)
	token, expiresAt, err := store.Generate()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	require.NoError(t, store.Validate(token))

	err = store.Validate(token)
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 400, serr.Status)
	assert.Equal(t, "Token already used", serr.Message)
}

func TestQRTokenUnknown(t *testing.T) {
	store := NewQRTokenStore(10 * time.Minute)
	err := store.Validate("does-not-exist")
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 404, serr.Status)
}

func TestQRTokenExpired(t *testing.T) {
	store := NewQRTokenStore(10 * time.Minute)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	token, _, err := store.Generate()
	require.NoError(t, err)

	current = current.Add(11 * time.Minute)
	err = store.Validate(token)
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 400, serr.Status)
	assert.Equal(t, "Token expired", serr.Message)

	// Expired entries are dropped, so a retry reports unknown.
	err = store.Validate(token)
	serr, ok = err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 404, serr.Status)
}

func TestQRTokenPrune(t *testing.T) {
	store := NewQRTokenStore(time.Minute)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	_, _, err := store.Generate()
	require.NoError(t, err)
	current = current.Add(2 * time.Minute)
	_, _, err = store.Generate()
	require.NoError(t, err)

	assert.Len(t, store.tokens, 1)
}

func TestNewOpaqueToken(t *testing.T) {
	first, err := NewOpaqueToken()
	require.NoError(t, err)
	second, err := NewOpaqueToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Len(t, first, 64)
}
