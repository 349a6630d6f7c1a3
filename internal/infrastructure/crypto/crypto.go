// Package crypto is the credential vault: it encrypts brokerage passwords
// before they reach storage and decrypts them for the duration of a sync.
// Plaintext never leaves this package except as a return value.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

var (
	// ErrInvalidKey is returned when the encryption key is not 32 bytes (AES-256).
	ErrInvalidKey = errors.New("encryption key must be exactly 32 bytes")

	// ErrInvalidToken is returned when a ciphertext is malformed, truncated,
	// or was encrypted under a different key. Callers must treat this as
	// non-retryable and must not log the token itself.
	ErrInvalidToken = errors.New("invalid encrypted token")
)

// Encryptor performs AES-256-GCM encryption with a process-wide symmetric key.
type Encryptor struct {
	gcm cipher.AEAD
}

// NewEncryptor creates an Encryptor from a 32-byte key.
func NewEncryptor(key string) (*Encryptor, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Encryptor{gcm: gcm}, nil
}

// Encrypt encrypts plaintext and returns a base64-encoded token of
// nonce || ciphertext. The empty string encrypts to the empty string.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := e.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It returns ErrInvalidToken for anything that is
// not a token produced under the same key.
func (e *Encryptor) Decrypt(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	nonceSize := e.gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrInvalidToken
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := e.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// GCM authentication failure: tampered data or wrong key.
		return "", ErrInvalidToken
	}

	return string(plaintext), nil
}
