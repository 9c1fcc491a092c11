// Package argon2key derives Argon2id keys with the optional secret (K) and
// associated data (X) inputs of RFC 9106.
//
// golang.org/x/crypto/argon2 fixes both inputs to empty. The keyed password
// scheme needs the secret, so this package carries a lane-parallel Argon2id
// built on golang.org/x/crypto/blake2b. With an empty secret and empty
// associated data the output equals argon2.IDKey.
package argon2key
