// Package token implements the compact signed authentication token.
//
// # Wire format
//
//	b64u(ident) "." b64u(exp) "." signature
//
// b64u is base64url without padding. exp is an RFC 3339 UTC timestamp. The
// signature is b64u(HMAC-SHA-512(tokenKey, b64u(ident) "." b64u(exp) || salt))
// where salt is the 16 raw bytes of the owner's token salt. Rotating the
// token salt invalidates every outstanding token for that owner.
//
// # Validation order
//
// [Issuer.Validate] checks the signature first, then parses the expiration,
// then compares it with the current time. A forged or tampered token is
// therefore never reported as expired.
package token
