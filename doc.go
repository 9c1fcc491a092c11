// Package goCrypt provides password and bearer-token authentication for
// request-serving applications.
//
// Passwords are stored as "#<scheme>#<output>" strings produced by a
// versioned scheme catalogue (see package password). Old credentials keep
// validating after the default scheme changes, and [Engine.Login] re-hashes
// them with the default scheme on the next successful login.
//
// Tokens have the form "b64u(ident).b64u(expiration).signature" and are
// signed with a process-wide token key and a per-user token salt (see
// package token). Rotating the salt with [Engine.RevokeTokens] invalidates
// every outstanding token of the user.
//
// # Architecture boundaries
//
// goCrypt is the public surface. It exposes [Engine], [Builder], [Config] and
// value types. Storage is provided by the caller through [UserProvider];
// store/redisstore is a ready implementation. Hash work runs on a bounded
// worker pool and audit events are dispatched asynchronously, both under
// internal/.
//
// # What this package must NOT do
//
//   - Log or return passwords, keys or token signatures.
//   - Tell an unknown username apart from a wrong password at the API.
//   - Run password hashing on the calling goroutine.
//
// Engine methods are safe to call from multiple goroutines after
// [Builder.Build].
package goCrypt
