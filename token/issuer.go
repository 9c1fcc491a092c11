package token

import (
	"errors"
	"time"

	"github.com/MrEthical07/goCrypt/internal/sign"
	"github.com/google/uuid"
)

// Issuer generates and validates tokens with a process-wide token key.
//
// Issuer instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Issuer struct {
	key      []byte
	duration time.Duration
	now      func() time.Time
}

// Option customizes an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source used for expiration.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewIssuer returns an Issuer that signs with key and issues tokens valid
// for duration.
func NewIssuer(key []byte, duration time.Duration, opts ...Option) (*Issuer, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	k := make([]byte, len(key))
	copy(k, key)

	i := &Issuer{key: k, duration: duration, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Duration returns the default token lifetime.
func (i *Issuer) Duration() time.Duration {
	return i.duration
}

// Generate issues a token for ident with the default duration.
func (i *Issuer) Generate(ident string, salt uuid.UUID) (Token, error) {
	return i.GenerateFor(ident, salt, i.duration)
}

// GenerateFor issues a token for ident expiring after duration.
func (i *Issuer) GenerateFor(ident string, salt uuid.UUID, duration time.Duration) (Token, error) {
	exp := i.now().UTC().Add(duration).Format(time.RFC3339Nano)

	sig, err := sign.Sign(i.key, signingContent(ident, exp), salt)
	if err != nil {
		return Token{}, err
	}
	return Token{Ident: ident, Exp: exp, SignB64u: sig}, nil
}

// Validate checks the signature, then the expiration format, then expiry.
func (i *Issuer) Validate(t Token, salt uuid.UUID) error {
	if err := sign.Verify(i.key, signingContent(t.Ident, t.Exp), salt, t.SignB64u); err != nil {
		if errors.Is(err, sign.ErrMismatch) {
			return ErrSignatureNotMatching
		}
		return err
	}

	exp, err := time.Parse(time.RFC3339, t.Exp)
	if err != nil {
		return ErrExpirationNotISO
	}

	if exp.Before(i.now()) {
		return ErrExpired
	}
	return nil
}

// Expiration returns the parsed expiration of t without checking its signature.
func Expiration(t Token) (time.Time, error) {
	exp, err := time.Parse(time.RFC3339, t.Exp)
	if err != nil {
		return time.Time{}, ErrExpirationNotISO
	}
	return exp, nil
}
