package credentials

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadDeleteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")

	_, keyBytes, err := GenerateEncryptionKey()
	require.NoError(t, err)
	keyB64, _, err := GenerateEncryptionKey()
	require.NoError(t, err)
	_ = keyB64

	want := &Credentials{ServerURL: "https://sync.example.com", Token: "tok", EncryptionKey: b64(keyBytes)}
	require.NoError(t, Save(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, Delete(path))
	_, err = Load(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting an already-absent file is not an error.
	require.NoError(t, Delete(path))
}

func TestEncryptionKeyBytesRejectsWrongLength(t *testing.T) {
	c := &Credentials{EncryptionKey: b64([]byte("short"))}
	_, err := c.EncryptionKeyBytes()
	require.Error(t, err)
}

func b64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
