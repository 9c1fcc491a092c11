// Package middleware exposes HTTP middleware that authenticates requests by
// the token carried in the "auth-token" cookie.
//
// # Guards
//
//   - [ResolveToken] resolves the cookie into an [goCrypt.AuthResult] or an
//     error and stores either on the request context. It never rejects.
//   - [RequireToken] resolves like ResolveToken and answers 401 when the
//     request is not authenticated.
//
// On success the cookie is replaced with the freshly issued token, which
// gives sliding expiration. On any failure other than a missing cookie the
// cookie is cleared.
//
// # What this package must NOT do
//
//   - Parse or sign tokens directly (delegates to Engine.Authenticate).
//   - Access storage.
package middleware
