// Package password implements the versioned credential pipeline.
//
// # Stored format
//
// Every stored credential carries the identifier of the scheme that produced
// it:
//
//	#<scheme_id>#<scheme_output>
//
// Scheme identifiers are never reassigned. New hashes always use
// [DefaultScheme]; older schemes stay registered so existing credentials keep
// validating, and [Hasher.Validate] reports them as [Outdated] so the caller
// can re-hash on the next successful login.
//
// # Schemes
//
//   - "01" HMAC-SHA-512 over content and salt, base64url without padding.
//   - "02" Argon2id keyed with the process password key as the Argon2 secret,
//     encoded as a PHC string.
//   - "03" keyed BLAKE3 with a key derived from the password key, lowercase hex.
//
// A scheme "02" payload looks like:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Stored "02" strings may use any memory cost from 8 KiB per lane up to
// 1 GiB. New hashes require at least 8 MiB.
//
// # Execution
//
// Scheme work runs on an offload pool so request goroutines only wait.
// Failure to run the work is reported as [ErrFailSpawnBlockForHash] or
// [ErrFailSpawnBlockForValidate], never as a password mismatch.
//
// # What this package must NOT do
//
//   - Store or retrieve credentials. Callers supply plaintext and receive hashes.
//   - Import any other goCrypt package outside internal/.
//   - Log plaintext passwords, keys or hash parameters.
package password
