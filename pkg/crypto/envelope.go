// Package crypto implements the AEAD envelope: per-item AES-256-GCM
// encryption with a fresh random nonce for every write. Ciphertext and
// nonce are kept as two independent outputs rather than nonce-prepended,
// to match the wire {data, nonce} shape.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cuemby/taskbook/pkg/item"
	"github.com/cuemby/taskbook/pkg/store"
)

// KeySize is the required AEAD key length in bytes (256 bits).
const KeySize = 32

// NonceSize is the required nonce length in bytes (96 bits).
const NonceSize = 12

// Envelope encrypts and decrypts items with a fixed 256-bit key.
type Envelope struct {
	key []byte
}

// New builds an Envelope from a 32-byte key.
func New(key []byte) (*Envelope, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d", store.ErrInvariant, KeySize, len(key))
	}
	return &Envelope{key: key}, nil
}

// Sealed is the encrypted form of a single item: base64-ready ciphertext
// and nonce bytes (callers base64-encode for the wire; locally they may be
// kept as raw bytes).
type Sealed struct {
	Ciphertext []byte
	Nonce      []byte
}

func (e *Envelope) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvariant, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvariant, err)
	}
	return gcm, nil
}

// Seal serializes it to canonical JSON and encrypts it with a fresh random
// nonce drawn from a cryptographic RNG, with no associated data. Each call
// draws its own nonce; nonces are never cached or reused across items.
func (e *Envelope) Seal(it *item.Item) (Sealed, error) {
	gcm, err := e.gcm()
	if err != nil {
		return Sealed{}, err
	}
	plaintext, err := json.Marshal(it)
	if err != nil {
		return Sealed{}, fmt.Errorf("%w: %v", store.ErrSerialization, err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Sealed{}, fmt.Errorf("%w: failed to generate nonce: %v", store.ErrIO, err)
	}
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	return Sealed{Ciphertext: ciphertext, Nonce: nonce}, nil
}

// Open verifies the nonce length, decrypts, and parses the resulting JSON
// back into an Item. Any authentication failure, nonce-length mismatch, or
// JSON mismatch returns store.ErrInvariant — never a silent fallback.
func (e *Envelope) Open(s Sealed) (*item.Item, error) {
	if len(s.Nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", store.ErrInvariant, NonceSize, len(s.Nonce))
	}
	gcm, err := e.gcm()
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, s.Nonce, s.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decryption authentication failed", store.ErrInvariant)
	}
	var it item.Item
	if err := json.Unmarshal(plaintext, &it); err != nil {
		return nil, fmt.Errorf("%w: decrypted payload is not a valid item: %v", store.ErrInvariant, err)
	}
	return &it, nil
}
