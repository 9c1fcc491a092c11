// Package internal contains helpers that are private to goCrypt, including
// key generation and the base64url key codec.
//
// # Sub-packages
//
//   - argon2key: Argon2id with a secret input
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - logging: zap logger construction for the binaries
//   - offload: bounded worker pool for hash and validate work
//   - sign: salted HMAC-SHA-512 signatures shared by scheme 01 and tokens
//
// # What this package must NOT do
//
//   - Export types that appear in the public goCrypt API.
//   - Be imported by any package outside the goCrypt module.
package internal
