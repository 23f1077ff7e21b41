// Package crypt provides AES-GCM authenticated encryption for values that
// leave the server, such as the login token cookie.
//
// Ciphertext is base64url-encoded and carries its random nonce prefix, so a
// single string can be stored in a cookie as is.
//
// The 256-bit key is derived from a secret (APP_KEY by default) with HKDF
// (SHA-256), using a purpose label so one secret can key several boxes:
//
//	box, err := crypt.New(config.AppKey(), "token-cookie")
//	enc, err := box.Encrypt("dXNlcjpwYXNz")
//	plain, err := box.Decrypt(enc)
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/shashiranjanraj/orderdesk/config"
)

// ErrDecrypt is returned when decoding or authentication fails.
var ErrDecrypt = errors.New("crypt: decryption failed")

var salt = []byte("orderdesk/crypt/v1")

// Box encrypts and decrypts with one derived key. Safe for concurrent use.
type Box struct {
	aead cipher.AEAD
}

// New derives a key from secret for the given purpose.
func New(secret, purpose string) (*Box, error) {
	if secret == "" {
		return nil, errors.New("crypt: empty secret")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), salt, []byte(purpose)), key); err != nil {
		return nil, fmt.Errorf("crypt: derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return &Box{aead: gcm}, nil
}

// Default returns a box keyed by config.AppKey.
func Default(purpose string) (*Box, error) {
	return New(config.AppKey(), purpose)
}

// Encrypt returns base64url(nonce || ciphertext || tag).
func (b *Box) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}
	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any tampering yields ErrDecrypt.
func (b *Box) Decrypt(encoded string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecrypt
	}

	n := b.aead.NonceSize()
	if len(data) < n {
		return "", ErrDecrypt
	}

	plain, err := b.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
