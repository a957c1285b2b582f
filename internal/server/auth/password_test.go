package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordVerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	ok, err := VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("anything", "not-a-hash")
	assert.Error(t, err)
}

func TestNewSessionTokenReturnsMatchingHash(t *testing.T) {
	token, hash, err := NewSessionToken()
	require.NoError(t, err)
	assert.Len(t, token, 43) // 32 raw bytes, base64 URL-encoded without padding
	assert.Equal(t, HashToken(token), hash)
}

func TestNewSessionTokenIsUnique(t *testing.T) {
	t1, _, err := NewSessionToken()
	require.NoError(t, err)
	t2, _, err := NewSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}
