package token

import "errors"

var (
	// ErrInvalidFormat is returned when a token does not have exactly three dot-separated parts.
	ErrInvalidFormat = errors.New("token: invalid format")
	// ErrCannotDecodeIdentity is returned when the identity part is not base64url UTF-8.
	ErrCannotDecodeIdentity = errors.New("token: cannot decode identity")
	// ErrCannotDecodeExpiration is returned when the expiration part is not base64url UTF-8.
	ErrCannotDecodeExpiration = errors.New("token: cannot decode expiration")
	// ErrExpirationNotISO is returned when a signed expiration is not an RFC 3339 timestamp.
	ErrExpirationNotISO = errors.New("token: expiration not iso")
	// ErrSignatureNotMatching is returned when the signature does not match.
	ErrSignatureNotMatching = errors.New("token: signature not matching")
	// ErrExpired is returned when a token's expiration is in the past.
	ErrExpired = errors.New("token: expired")
	// ErrEmptyKey is returned when the issuer is built without a token key.
	ErrEmptyKey = errors.New("token: empty key")
	// ErrInvalidDuration is returned for a non-positive token duration.
	ErrInvalidDuration = errors.New("token: invalid duration")
)
