// Package sign computes salted HMAC-SHA-512 signatures encoded as unpadded
// base64url text. It is shared by the HMAC password scheme and the token
// issuer.
package sign

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMismatch is returned when a signature does not match the content.
	ErrMismatch = errors.New("sign: signature mismatch")
	// ErrEmptyKey is returned when no signing key is supplied.
	ErrEmptyKey = errors.New("sign: empty key")
)

var (
	method     = jwt.SigningMethodHS512
	strictB64u = base64.RawURLEncoding.Strict()
)

// Sign returns b64u(HMAC-SHA512(key, content || salt)).
func Sign(key []byte, content string, salt uuid.UUID) (string, error) {
	if len(key) == 0 {
		return "", ErrEmptyKey
	}

	sig, err := method.Sign(signingInput(content, salt), key)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sig), nil
}

// Verify checks signature against content and salt in constant time.
// Undecodable or non-canonical signatures are reported as ErrMismatch.
func Verify(key []byte, content string, salt uuid.UUID, signature string) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}

	if strings.ContainsAny(signature, "\r\n") {
		return ErrMismatch
	}
	sig, err := strictB64u.DecodeString(signature)
	if err != nil {
		return ErrMismatch
	}

	if err := method.Verify(signingInput(content, salt), sig, key); err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return ErrMismatch
		}
		return err
	}
	return nil
}

func signingInput(content string, salt uuid.UUID) string {
	buf := make([]byte, 0, len(content)+len(salt))
	buf = append(buf, content...)
	buf = append(buf, salt[:]...)
	return string(buf)
}
