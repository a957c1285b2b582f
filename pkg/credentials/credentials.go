// Package credentials manages the client's local credentials file:
// serverUrl, session token, and base64-encoded encryption key, stored
// with owner-only file permissions.
package credentials

import (
	cryptorand "crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cuemby/taskbook/pkg/crypto"
)

// Credentials is the JSON document stored at the credentials file path.
// Deleting the file is equivalent to logout.
type Credentials struct {
	ServerURL     string `json:"serverUrl"`
	Token         string `json:"token"`
	EncryptionKey string `json:"encryptionKey"`
}

// EncryptionKeyBytes decodes the base64-encoded 32-byte key.
func (c *Credentials) EncryptionKeyBytes() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decoding encryption key: %w", err)
	}
	if len(key) != crypto.KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", crypto.KeySize, len(key))
	}
	return key, nil
}

// Load reads and parses the credentials file at path. A missing file is
// reported as os.ErrNotExist so callers can distinguish "never logged in"
// from a parse failure.
func Load(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	return &c, nil
}

// Save writes creds to path with owner-only permissions, creating parent
// directories as needed.
func Save(path string, creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Delete removes the credentials file, equivalent to logout. A missing
// file is not an error.
func Delete(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DefaultPath returns the user-home-relative default credentials path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskbook", "credentials.json"), nil
}

// GenerateEncryptionKey draws a fresh random 32-byte key and returns its
// base64 encoding, for use at registration time.
func GenerateEncryptionKey() (string, []byte, error) {
	key := make([]byte, crypto.KeySize)
	if _, err := cryptorand.Read(key); err != nil {
		return "", nil, err
	}
	return base64.StdEncoding.EncodeToString(key), key, nil
}
