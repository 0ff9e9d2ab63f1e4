// Package cryptox implements the client's symmetric cryptography: AES-256-GCM
// sealing of JSON values, the hex {iv,data} storage envelope, JWK encoding of
// the device key, and argon2id passphrase derivation for backups.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// NonceSize is the 96-bit GCM nonce length in bytes.
	NonceSize = 12
	// SaltSize is the argon2id salt length used for backup archives.
	SaltSize = 16
)

// ErrInvalidKey is returned for keys that are not exactly KeySize bytes.
var ErrInvalidKey = errors.New("invalid key")

// GenerateKey returns a fresh random AES-256 key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// DeriveKey stretches a passphrase into an AES-256 key with argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptValue serializes value to JSON and seals it with AES-256-GCM under a
// fresh random nonce. The GCM tag is appended to the ciphertext.
func EncryptValue(value any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal value: %w", err)
	}
	return Seal(plaintext, key)
}

// Seal encrypts plaintext with AES-256-GCM under a fresh random nonce.
func Seal(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Open authenticates and decrypts ciphertext produced by Seal.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}
	return aead.Open(nil, nonce, ciphertext, nil)
}

// DecryptValue opens ciphertext and unmarshals the JSON plaintext into v.
func DecryptValue(ciphertext, nonce, key []byte, v any) error {
	plaintext, err := Open(ciphertext, nonce, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}
