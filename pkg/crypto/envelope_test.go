package crypto

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/taskbook/pkg/item"
	"github.com/cuemby/taskbook/pkg/store"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestEncryptThenDecryptRoundTrip(t *testing.T) {
	env, err := New(randomKey(t))
	require.NoError(t, err)

	it := &item.Item{ID: 1, Description: "secret", Boards: []string{"coding"}}
	sealed, err := env.Seal(it)
	require.NoError(t, err)
	assert.Len(t, sealed.Nonce, NonceSize)

	got, err := env.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, it, got)
}

func TestTwoEncryptionsProduceDistinctCiphertext(t *testing.T) {
	env, err := New(randomKey(t))
	require.NoError(t, err)

	it := &item.Item{ID: 1, Description: "secret"}
	a, err := env.Seal(it)
	require.NoError(t, err)
	b, err := env.Seal(it)
	require.NoError(t, err)

	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
	assert.NotEqual(t, a.Nonce, b.Nonce)
}

func TestTamperedCiphertextFailsToDecrypt(t *testing.T) {
	env, err := New(randomKey(t))
	require.NoError(t, err)

	sealed, err := env.Seal(&item.Item{ID: 1, Description: "secret"})
	require.NoError(t, err)

	tampered := append([]byte(nil), sealed.Ciphertext...)
	tampered[0] ^= 0xFF

	_, err = env.Open(Sealed{Ciphertext: tampered, Nonce: sealed.Nonce})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrInvariant))
}

func TestWrongNonceLengthFailsToDecrypt(t *testing.T) {
	env, err := New(randomKey(t))
	require.NoError(t, err)

	sealed, err := env.Seal(&item.Item{ID: 1, Description: "secret"})
	require.NoError(t, err)

	_, err = env.Open(Sealed{Ciphertext: sealed.Ciphertext, Nonce: sealed.Nonce[:11]})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrInvariant))
}

func TestNewRejectsWrongKeySize(t *testing.T) {
	_, err := New(make([]byte, 16))
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrInvariant))
}
