package token

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// Token is the decoded form of a token string. SignB64u is kept opaque.
type Token struct {
	Ident    string
	Exp      string
	SignB64u string
}

// Parse decodes "b64u(ident).b64u(exp).sign". It does not verify the
// signature.
func Parse(s string) (Token, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Token{}, ErrInvalidFormat
	}

	ident, ok := decodeText(parts[0])
	if !ok {
		return Token{}, ErrCannotDecodeIdentity
	}
	exp, ok := decodeText(parts[1])
	if !ok {
		return Token{}, ErrCannotDecodeExpiration
	}

	return Token{Ident: ident, Exp: exp, SignB64u: parts[2]}, nil
}

// String encodes t as "b64u(ident).b64u(exp).sign".
func (t Token) String() string {
	return signingContent(t.Ident, t.Exp) + "." + t.SignB64u
}

func signingContent(ident, exp string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(ident)) + "." +
		base64.RawURLEncoding.EncodeToString([]byte(exp))
}

var strictB64u = base64.RawURLEncoding.Strict()

// decodeText rejects non-canonical encodings and embedded line breaks so a
// parsed token always serializes back to its input.
func decodeText(part string) (string, bool) {
	if strings.ContainsAny(part, "\r\n") {
		return "", false
	}
	raw, err := strictB64u.DecodeString(part)
	if err != nil || !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}
