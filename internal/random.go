package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// MinKeySize is the smallest accepted password or token key.
const MinKeySize = 32

// DefaultKeySize is the size of generated keys.
const DefaultKeySize = 64

var (
	// ErrKeyTooShort is returned for keys below MinKeySize.
	ErrKeyTooShort = errors.New("key too short")
	// ErrKeyEncoding is returned when key text is not base64url without padding.
	ErrKeyEncoding = errors.New("key is not base64url")
)

// NewKey returns size random bytes.
func NewKey(size int) ([]byte, error) {
	if size < MinKeySize {
		return nil, ErrKeyTooShort
	}
	key := make([]byte, size)
	_, err := rand.Read(key)
	return key, err
}

// EncodeKey returns key as base64url without padding.
func EncodeKey(key []byte) string {
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(key)
}

// DecodeKey is the inverse of EncodeKey. It does not check the size.
func DecodeKey(text string) ([]byte, error) {
	key, err := base64.RawURLEncoding.DecodeString(text)
	if err != nil {
		return nil, ErrKeyEncoding
	}
	return key, nil
}

// NewKeyText returns a fresh key of size bytes in its text form.
func NewKeyText(size int) (string, error) {
	key, err := NewKey(size)
	if err != nil {
		return "", err
	}
	return EncodeKey(key), nil
}
